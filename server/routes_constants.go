package server

const (
	RouteRequestToken = "/oauth/request_token"
	RouteAccessToken  = "/oauth/access_token"
	RouteAuthorize    = "/oauth/authorize"
	RouteDecision     = "/oauth/authorize/decision"
	RouteLogin        = "/login"
	RouteLogout       = "/logout"
)
