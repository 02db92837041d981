package analysis

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failed reply is kept for the error text.
const maxErrorBody = 64 << 10

type errorBodyKey struct{}

// errorBody receives the raw body of a failed completion call.
type errorBody struct {
	raw []byte
}

func (e *errorBody) String() string {
	if e == nil {
		return ""
	}
	return string(bytes.TrimSpace(e.raw))
}

func withErrorBody(ctx context.Context) (context.Context, *errorBody) {
	eb := &errorBody{}
	return context.WithValue(ctx, errorBodyKey{}, eb), eb
}

// errorBodyTransport copies non-2xx reply bodies into the request's errorBody before the
// client decodes them, so the error text carries what the endpoint actually sent.
type errorBodyTransport struct {
	base http.RoundTripper
}

func (t *errorBodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || (resp.StatusCode >= 200 && resp.StatusCode < 400) {
		return resp, err
	}
	eb, ok := req.Context().Value(errorBodyKey{}).(*errorBody)
	if !ok {
		return resp, nil
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	eb.raw = raw
	if readErr != nil {
		return nil, readErr
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp, nil
}

// withErrorBodyCapture returns a copy of c whose transport feeds errorBody.
func withErrorBodyCapture(c *http.Client) *http.Client {
	cp := *c
	base := cp.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	cp.Transport = &errorBodyTransport{base: base}
	return &cp
}
