package provider

import (
	"net/http"

	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/pkg/errors"
)

// AccessTokenVerifier checks that the presented verifier is the one
// issued for the request token under exchange. Implementations for
// protocol revisions predating 1.0a verifiers can return true
// unconditionally.
type AccessTokenVerifier func(requestToken, verifier string, info *AuthInfo) (bool, error)

// AccessTokenIssuer exchanges an authorized request token for token
// credentials. Implementations must check that the request token was
// approved and that the exchanging consumer is the one it was issued
// to; returning an empty token rejects the exchange. Whether the
// request token is invalidated afterwards is the storage
// collaborator's responsibility; the usual policy is one-time use.
type AccessTokenIssuer func(consumer any, requestToken string, info *AuthInfo) (token, secret string, extra oauthmodel.Params, err error)

// AccessToken handles requests to exchange an authorized request token
// for an access token. AuthInfo must carry the authenticated consumer,
// the request token, and the verifier, all parsed by the
// authentication collaborator from the signed request.
func (s *Server) AccessToken(verify AccessTokenVerifier, issue AccessTokenIssuer, opts ...Option) HandlerFunc {
	if verify == nil {
		panic("oauth: AccessToken requires a verify function")
	}
	if issue == nil {
		panic("oauth: AccessToken requires an issue function")
	}
	_ = newOptions(opts)

	return func(w http.ResponseWriter, r *http.Request) error {
		info := AuthInfoFromRequest(r)
		if info == nil {
			return errors.New("authentication info not available")
		}

		ok, err := verify(info.Token, info.Verifier, info)
		if err != nil {
			return err
		}
		if !ok {
			return oauthmodel.NewAuthorizationError("access token not issued",
				oauthmodel.ProblemVerifierInvalid, http.StatusUnauthorized)
		}

		token, secret, extra, err := issue(info.Consumer, info.Token, info)
		if err != nil {
			return err
		}
		if token == "" {
			return oauthmodel.NewAuthorizationError("access token not issued",
				oauthmodel.ProblemTokenRejected, http.StatusUnauthorized)
		}

		body := extra.
			Add("oauth_token", token).
			Add("oauth_token_secret", secret)
		writeFormResponse(w, body)
		return nil
	}
}
