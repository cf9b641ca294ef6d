package server

import (
	"context"
	"net/http"

	"github.com/oauthkit/go-oauth1-server/clients"
	"github.com/oauthkit/go-oauth1-server/internal/utils"
	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/oauthkit/go-oauth1-server/provider"
	"github.com/oauthkit/go-oauth1-server/users"
)

// requestTokenHandler issues temporary credentials to an authenticated
// consumer (POST /oauth/request_token).
func (s *Server) requestTokenHandler() provider.HandlerFunc {
	issue := func(consumer any, callbackURL string, params map[string]string) (string, string, oauthmodel.Params, error) {
		c := consumer.(*clients.Consumer)
		if callbackURL == "" {
			// 1.0 consumers configure their callback at registration.
			callbackURL = c.CallbackURL
		}
		rt, err := s.tokens.IssueRequestToken(c.ID, callbackURL)
		if err != nil {
			return "", "", nil, err
		}
		s.metrics.RecordRequestTokenIssued(context.Background(), c.Key)

		extra := oauthmodel.Params{}.Add("xoauth_request_auth_url", s.config.GetBaseURL()+RouteAuthorize)
		return rt.Token, rt.Secret, extra, nil
	}
	return s.engine.RequestToken(issue)
}

// accessTokenHandler exchanges an approved request token for token
// credentials (POST /oauth/access_token).
func (s *Server) accessTokenHandler() provider.HandlerFunc {
	verify := func(requestToken, verifier string, info *provider.AuthInfo) (bool, error) {
		return s.tokens.VerifyExchange(requestToken, verifier)
	}
	issue := func(consumer any, requestToken string, info *provider.AuthInfo) (string, string, oauthmodel.Params, error) {
		at, err := s.tokens.Exchange(requestToken)
		if err != nil {
			return "", "", nil, err
		}
		if at == nil {
			return "", "", nil, nil
		}
		s.metrics.RecordAccessTokenIssued(context.Background(), consumer.(*clients.Consumer).Key)
		return at.Token, at.Secret, nil, nil
	}
	return s.engine.AccessToken(verify, issue)
}

// validateRequestToken resolves the oauth_token of an authorization
// request to its consumer for the user-authorization stage.
func (s *Server) validateRequestToken() provider.ValidateFunc {
	return func(token string, authz *provider.AuthorizationRequest) (any, string, map[string]string, error) {
		rt, err := s.tokens.GetRequestToken(token)
		if err != nil {
			return nil, "", nil, err
		}
		if rt == nil {
			return nil, "", nil, nil
		}

		consumer, err := s.repos.Consumers.Get(rt.ConsumerID)
		if err != nil || consumer.Revoked {
			// The callback is still reported so the failure can be
			// delivered to the consumer.
			return nil, rt.CallbackURL, nil, nil
		}

		s.metrics.RecordAuthorizationStarted(context.Background())
		return consumer, rt.CallbackURL, map[string]string{"consumerName": consumer.Name}, nil
	}
}

// issueVerifier records the user's approval and mints the verification
// code for the user-decision stage.
func (s *Server) issueVerifier() provider.VerifierIssuer {
	return func(token string, user any, decision *provider.Decision) (string, error) {
		u := user.(*users.User)
		verifier, err := s.tokens.Approve(token, u.ID)
		if err != nil {
			return "", err
		}
		s.metrics.RecordDecision(context.Background(), true)
		return verifier, nil
	}
}

// consentPageHandler renders the authorization dialog once the
// transaction is established (GET /oauth/authorize).
func (s *Server) consentPageHandler() provider.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		octx := provider.FromRequest(r)
		user, _ := provider.UserFromRequest(r).(*users.User)

		data := consentPageData{
			ConsumerName:  octx.Consumer().(*clients.Consumer).Name,
			UserName:      user.DisplayName(),
			TransactionID: octx.TransactionID,
			DecisionURL:   RouteDecision,
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		return consentTmpl.Execute(w, data)
	}
}

// decisionResultHandler renders the outcome of a decision that has no
// redirect target: the verifier for out-of-band consumers, or a denial
// notice (POST /oauth/authorize/decision fallthrough).
func (s *Server) decisionResultHandler() provider.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		octx := provider.FromRequest(r)

		data := resultPageData{Verifier: octx.Verifier}
		if octx.Decision != nil {
			data.Allowed = utils.Value(octx.Decision.Allow)
		}
		if !data.Allowed {
			s.metrics.RecordDecision(context.Background(), false)
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		return resultTmpl.Execute(w, data)
	}
}
