package api

import (
	"net/http"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/google/uuid"
)

// TokenSource yields the current bearer token. It is consulted on every
// request, never cached.
type TokenSource interface {
	Token() (string, bool)
}

// bearerTransport injects the live credential and a request id.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
	log    logging.Logger
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())

	token, ok := t.tokens.Token()
	attached := ok && token != ""
	if attached {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	} else {
		r.Header.Del(common.AuthorizationHeaderName)
	}

	if r.Header.Get(common.RequestIDHeaderName) == "" {
		r.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}

	if t.log != nil {
		t.log.Debug(r.Context(), "dispatch", "method", r.Method, "path", r.URL.Path,
			"request_id", r.Header.Get(common.RequestIDHeaderName), "token_attached", attached)
	}

	return t.base.RoundTrip(r)
}
