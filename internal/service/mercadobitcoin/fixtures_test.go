package mercadobitcoin

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	xhttp "MBGate/pkg/http"
)

// recordingTransport is a Transport double that records every request and
// replays a canned response.
type recordingTransport struct {
	mu    sync.Mutex
	calls []*xhttp.RequestOptions
	resp  *xhttp.Response
	err   error
}

func (t *recordingTransport) Do(_ context.Context, opts *xhttp.RequestOptions) (*xhttp.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, opts)
	return t.resp, t.err
}

func (t *recordingTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

func replay(status int, body string) *recordingTransport {
	return &recordingTransport{resp: &xhttp.Response{StatusCode: status, Body: []byte(body)}}
}

// capturedRequest is what an httptest upstream saw.
type capturedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Auth     string
	Body     string
}

type upstreamFixture struct {
	server *httptest.Server
	mu     sync.Mutex
	seen   []capturedRequest
}

func newUpstreamFixture(t *testing.T, handler http.HandlerFunc) *upstreamFixture {
	t.Helper()
	f := &upstreamFixture{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.seen = append(f.seen, capturedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Auth:     r.Header.Get("Authorization"),
			Body:     string(buf),
		})
		f.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *upstreamFixture) transport() *xhttp.Client {
	return xhttp.NewClient(xhttp.WithBaseURL(f.server.URL))
}

func (f *upstreamFixture) requests() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]capturedRequest, len(f.seen))
	copy(out, f.seen)
	return out
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
