package server

import (
	"html/template"

	"github.com/pkg/errors"
)

const contentTypeHTML = "text/html; charset=utf-8"

type loginPageData struct {
	Error    string
	ReturnTo string
}

type consentPageData struct {
	ConsumerName  string
	UserName      string
	TransactionID string
	DecisionURL   string
}

type resultPageData struct {
	Allowed  bool
	Verifier string
}

var (
	loginTmpl   *template.Template
	consentTmpl *template.Template
	resultTmpl  *template.Template
)

func parseTemplates() error {
	var err error
	if loginTmpl, err = template.New("login").Parse(loginPage); err != nil {
		return errors.Wrap(err, "[parseTemplates] login")
	}
	if consentTmpl, err = template.New("consent").Parse(consentPage); err != nil {
		return errors.Wrap(err, "[parseTemplates] consent")
	}
	if resultTmpl, err = template.New("result").Parse(resultPage); err != nil {
		return errors.Wrap(err, "[parseTemplates] result")
	}
	return nil
}

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Sign in</title></head>
<body>
  <h1>Sign in</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form method="POST" action="/login">
    <input type="hidden" name="return_to" value="{{.ReturnTo}}">
    <label>Email <input type="email" name="email" required></label>
    <label>Password <input type="password" name="password" required></label>
    <button type="submit">Sign in</button>
  </form>
</body>
</html>
`

const consentPage = `<!DOCTYPE html>
<html>
<head><title>Authorize {{.ConsumerName}}</title></head>
<body>
  <h1>Authorize access</h1>
  <p>Hi {{.UserName}},</p>
  <p><strong>{{.ConsumerName}}</strong> is requesting access to your account.</p>
  <form method="POST" action="{{.DecisionURL}}">
    <input type="hidden" name="transaction_id" value="{{.TransactionID}}">
    <button type="submit" name="allow" value="true">Allow</button>
    <button type="submit" name="cancel" value="true">Deny</button>
  </form>
</body>
</html>
`

const resultPage = `<!DOCTYPE html>
<html>
<head><title>Authorization {{if .Allowed}}granted{{else}}denied{{end}}</title></head>
<body>
  {{if .Allowed}}
  <h1>Authorization granted</h1>
  <p>Enter this verification code in the application:</p>
  <p><code>{{.Verifier}}</code></p>
  {{else}}
  <h1>Authorization denied</h1>
  <p>No access was granted. You can close this window.</p>
  {{end}}
</body>
</html>
`
