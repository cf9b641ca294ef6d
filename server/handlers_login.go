package server

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/oauthkit/go-oauth1-server/provider"
	"github.com/oauthkit/go-oauth1-server/sessions"
)

const sessionKeyUserID = "user_id"

func (s *Server) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	data := loginPageData{ReturnTo: r.URL.Query().Get("return_to")}
	w.Header().Set("Content-Type", contentTypeHTML)
	_ = loginTmpl.Execute(w, data)
}

func (s *Server) loginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	returnTo := safeReturnTo(r.PostFormValue("return_to"))

	fail := func() {
		w.Header().Set("Content-Type", contentTypeHTML)
		w.WriteHeader(http.StatusUnauthorized)
		_ = loginTmpl.Execute(w, loginPageData{
			Error:    "Incorrect email or password",
			ReturnTo: returnTo,
		})
	}

	user, err := s.repos.Users.GetByEmail(email)
	if err != nil || !user.CanLogIn() || !user.CheckPassword(password) {
		log.Warn().Str("email", email).Msg("login failed")
		fail()
		return
	}

	sess := sessions.FromRequest(r)
	if sess == nil {
		http.Error(w, "session support required", http.StatusInternalServerError)
		return
	}
	sess.Set(sessionKeyUserID, user.ID)

	log.Info().Str("userID", user.ID).Msg("user logged in")

	if returnTo == "" {
		returnTo = "/"
	}
	http.Redirect(w, r, returnTo, http.StatusFound)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if sess := sessions.FromRequest(r); sess != nil {
		sess.Delete(sessionKeyUserID)
	}
	http.Redirect(w, r, RouteLogin, http.StatusFound)
}

// requireLogin gates the browser-facing authorization endpoints: an
// anonymous request is bounced to the login page with a return_to
// pointing back at the original URL.
func (s *Server) requireLogin() provider.Middleware {
	return func(next provider.HandlerFunc) provider.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			sess := sessions.FromRequest(r)
			if sess == nil {
				http.Redirect(w, r, RouteLogin, http.StatusFound)
				return nil
			}

			userID, _ := sess.Get(sessionKeyUserID).(string)
			if userID == "" {
				redirectToLogin(w, r)
				return nil
			}

			user, err := s.repos.Users.GetByID(userID)
			if err != nil || !user.CanLogIn() {
				sess.Delete(sessionKeyUserID)
				redirectToLogin(w, r)
				return nil
			}

			return next(w, provider.WithUser(r, user))
		}
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := RouteLogin + "?return_to=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}

// safeReturnTo only keeps same-site relative paths, so the login form
// cannot be used as an open redirector.
func safeReturnTo(raw string) string {
	if raw == "" || raw[0] != '/' || (len(raw) > 1 && raw[1] == '/') {
		return ""
	}
	return raw
}
