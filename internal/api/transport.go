package api

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// bearerTransport injects the current credential and a request ID into every
// outgoing request. The token source is consulted at dispatch time, so a
// logout mid-flight never retroactively strips requests already sent.
type bearerTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.source != nil {
		// A token source error means "no usable credential"; the request
		// still goes out unauthenticated and the server decides.
		if tok, err := t.source.Token(); err == nil && tok != nil && tok.AccessToken != "" {
			clone.Header.Set("Authorization", "Bearer "+tok.AccessToken)
		}
	}
	if clone.Header.Get("X-Request-ID") == "" {
		clone.Header.Set("X-Request-ID", uuid.NewString())
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}
