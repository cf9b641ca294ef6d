package oauthmodel

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const upperhex = "0123456789ABCDEF"

// PercentEncode encodes a string per RFC 3986 as profiled for OAuth
// parameter encoding: only unreserved characters (ALPHA, DIGIT, "-",
// ".", "_", "~") pass through, so "!", "'", "(", ")" and "*" are
// escaped in addition to what a general-purpose encoder would do.
func PercentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		}
	}
	return b.String()
}

// Param is a single protocol parameter. Parameters are kept as an
// ordered list because response bodies are emitted in a defined order
// (extension parameters first, then the oauth_* parameters).
type Param struct {
	Key   string
	Value string
}

// Params is an ordered protocol parameter list.
type Params []Param

// Add appends a parameter and returns the extended list.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode renders the list as an application/x-www-form-urlencoded
// body using OAuth percent-encoding.
func (p Params) Encode() string {
	pairs := make([]string, 0, len(p))
	for _, kv := range p {
		pairs = append(pairs, PercentEncode(kv.Key)+"="+PercentEncode(kv.Value))
	}
	return strings.Join(pairs, "&")
}

// CallbackWithParams appends the given parameters to the query string
// of a consumer callback URL, dropping any fragment. Existing query
// parameters are preserved unless shadowed by a new one.
func CallbackWithParams(callbackURL string, params Params) (string, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return "", errors.Wrap(err, "[CallbackWithParams] invalid callback URL")
	}
	q := u.Query()
	for _, kv := range params {
		q.Set(kv.Key, kv.Value)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String(), nil
}
