package oauthmodel

import "net/http"

// OAuth problem codes, per the Problem Reporting extension.
const (
	ProblemVersionRejected         = "version_rejected"
	ProblemParameterAbsent         = "parameter_absent"
	ProblemParameterRejected       = "parameter_rejected"
	ProblemTimestampRefused        = "timestamp_refused"
	ProblemNonceUsed               = "nonce_used"
	ProblemSignatureMethodRejected = "signature_method_rejected"
	ProblemSignatureInvalid        = "signature_invalid"
	ProblemConsumerKeyRejected     = "consumer_key_rejected"
	ProblemTokenRejected           = "token_rejected"
	ProblemTokenExpired            = "token_expired"
	ProblemVerifierInvalid         = "verifier_invalid"
	ProblemPermissionDenied        = "permission_denied"
	ProblemUserRefused             = "user_refused"
	ProblemServerError             = "server_error"
)

// codeStatus maps problem codes to HTTP status codes when the caller
// does not supply one. Codes not listed here default to 401.
var codeStatus = map[string]int{
	ProblemVersionRejected:         http.StatusBadRequest,
	ProblemParameterAbsent:         http.StatusBadRequest,
	ProblemParameterRejected:       http.StatusBadRequest,
	ProblemTimestampRefused:        http.StatusBadRequest,
	ProblemNonceUsed:               http.StatusBadRequest,
	ProblemSignatureMethodRejected: http.StatusBadRequest,
	ProblemPermissionDenied:        http.StatusForbidden,
}

// AuthorizationError is a protocol-level rejection: an invalid,
// expired, or deauthorized token, a verifier mismatch, or a denied
// permission. It carries the machine-readable problem code reported
// to consumers and the HTTP status of the response.
type AuthorizationError struct {
	Message string
	Code    string
	Status  int
}

// NewAuthorizationError builds an AuthorizationError. When status is
// zero it is derived from the problem code; when code is empty it
// defaults to token_rejected.
func NewAuthorizationError(message, code string, status ...int) *AuthorizationError {
	e := &AuthorizationError{Message: message, Code: code}
	if len(status) > 0 {
		e.Status = status[0]
	}
	if e.Code == "" {
		e.Code = ProblemTokenRejected
	}
	if e.Status == 0 {
		if s, ok := codeStatus[e.Code]; ok {
			e.Status = s
		} else {
			e.Status = http.StatusUnauthorized
		}
	}
	return e
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e *AuthorizationError) StatusCode() int {
	return e.Status
}

func (e *AuthorizationError) ProblemCode() string {
	return e.Code
}

// BadRequestError indicates a malformed request, such as a missing
// required protocol parameter. It always maps to a 400 response.
type BadRequestError struct {
	Message string
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{Message: message}
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func (e *BadRequestError) StatusCode() int {
	return http.StatusBadRequest
}
