package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/oauthkit/go-oauth1-server/oauthmodel"
	"github.com/oauthkit/go-oauth1-server/provider"
)

// authStage selects which token secret participates in the signature
// check: none on the request-token leg, the request token's secret on
// the exchange leg.
type authStage int

const (
	stageRequestToken authStage = iota
	stageAccessToken
)

// consumerAuth authenticates the consumer on the token endpoints: it
// parses the protocol parameters, loads the consumer by key, checks
// version and timestamp, and verifies the signature. On success the
// authentication results are attached to the request for the engine's
// stages.
func (s *Server) consumerAuth(stage authStage) provider.Middleware {
	return func(next provider.HandlerFunc) provider.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			if err := r.ParseForm(); err != nil {
				return errors.Wrap(err, "[consumerAuth] unparseable body")
			}

			params, extra := protocolParams(r)

			if v, ok := params["oauth_version"]; ok && v != "1.0" {
				return oauthmodel.NewAuthorizationError("oauth_version must be 1.0", oauthmodel.ProblemVersionRejected)
			}
			for _, required := range []string{"oauth_consumer_key", "oauth_signature_method", "oauth_signature"} {
				if params[required] == "" {
					return oauthmodel.NewAuthorizationError("missing "+required, oauthmodel.ProblemParameterAbsent)
				}
			}

			if err := s.checkTimestamp(params); err != nil {
				return err
			}

			consumer, err := s.repos.Consumers.GetByKey(params["oauth_consumer_key"])
			if err != nil || consumer.Revoked {
				return oauthmodel.NewAuthorizationError("consumer key not valid", oauthmodel.ProblemConsumerKeyRejected)
			}

			var tokenSecret string
			if stage == stageAccessToken {
				token := params["oauth_token"]
				if token == "" {
					return oauthmodel.NewAuthorizationError("missing oauth_token", oauthmodel.ProblemParameterAbsent)
				}
				rt, err := s.tokens.GetRequestToken(token)
				if err != nil {
					return err
				}
				if rt == nil || rt.ConsumerID != consumer.ID {
					return oauthmodel.NewAuthorizationError("request token not valid", oauthmodel.ProblemTokenRejected)
				}
				tokenSecret = rt.Secret
			}

			if !verifySignature(r, params, consumer.Secret, tokenSecret) {
				if params["oauth_signature_method"] != signatureMethodHMACSHA1 &&
					params["oauth_signature_method"] != signatureMethodPlaintext {
					return oauthmodel.NewAuthorizationError("unsupported signature method", oauthmodel.ProblemSignatureMethodRejected)
				}
				return oauthmodel.NewAuthorizationError("signature does not match", oauthmodel.ProblemSignatureInvalid)
			}

			r = provider.WithAuthInfo(r, &provider.AuthInfo{
				Consumer:    consumer,
				CallbackURL: params["oauth_callback"],
				Token:       params["oauth_token"],
				Verifier:    params["oauth_verifier"],
				Params:      extra,
			})
			return next(w, r)
		}
	}
}

// protocolParams collects the oauth_* parameters from the
// Authorization header, the form body, and the query, in descending
// precedence. Everything else lands in the extras map.
func protocolParams(r *http.Request) (params map[string]string, extra map[string]string) {
	params = make(map[string]string)
	extra = make(map[string]string)

	for k, vs := range r.URL.Query() {
		sortParam(params, extra, k, vs[0])
	}
	for k, vs := range r.PostForm {
		sortParam(params, extra, k, vs[0])
	}
	for k, v := range parseAuthorizationHeader(r.Header.Get("Authorization")) {
		if k == "realm" {
			continue
		}
		params[k] = v
	}
	return params, extra
}

func sortParam(params, extra map[string]string, key, value string) {
	if strings.HasPrefix(key, "oauth_") {
		params[key] = value
	} else {
		extra[key] = value
	}
}

func (s *Server) checkTimestamp(params map[string]string) error {
	raw, ok := params["oauth_timestamp"]
	if !ok {
		// PLAINTEXT requests may omit the timestamp.
		if params["oauth_signature_method"] == signatureMethodPlaintext {
			return nil
		}
		return oauthmodel.NewAuthorizationError("missing oauth_timestamp", oauthmodel.ProblemParameterAbsent)
	}

	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return oauthmodel.NewAuthorizationError("oauth_timestamp not a number", oauthmodel.ProblemTimestampRefused)
	}

	drift := time.Since(time.Unix(ts, 0))
	if drift < 0 {
		drift = -drift
	}
	if drift > s.config.GetTimestampWindow() {
		return oauthmodel.NewAuthorizationError("timestamp outside the accepted window", oauthmodel.ProblemTimestampRefused)
	}
	return nil
}
