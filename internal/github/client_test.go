package github

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cli/go-gh/v2/pkg/api"
)

// captureTransport records the outgoing request and serves a canned body.
type captureTransport struct {
	req  *http.Request
	body string
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.req = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(t.body)),
		Request:    req,
	}, nil
}

func newCaptureClient(t *testing.T, body string) (*Client, *captureTransport) {
	t.Helper()
	transport := &captureTransport{body: body}
	rest, err := api.NewRESTClient(api.ClientOptions{
		AuthToken: "test-token",
		Transport: transport,
	})
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}
	return &Client{rest: rest, limiter: NewRateLimiter(1000, 5)}, transport
}

type ctxMarker struct{}

func TestClient_GetCarriesContext(t *testing.T) {
	c, transport := newCaptureClient(t, `{"login": "alice", "name": "Alice Example"}`)

	ctx := context.WithValue(context.Background(), ctxMarker{}, "run-1")
	user, err := c.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUser() error: %v", err)
	}
	if user.Name != "Alice Example" {
		t.Errorf("Name = %q", user.Name)
	}

	if transport.req == nil {
		t.Fatal("no request reached the transport")
	}
	if transport.req.Context().Value(ctxMarker{}) != "run-1" {
		t.Error("caller context not attached to the outgoing request")
	}
}

func TestClient_GetUpdatesQuotaFromHeaders(t *testing.T) {
	rest, err := api.NewRESTClient(api.ClientOptions{
		AuthToken: "test-token",
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			h := http.Header{}
			h.Set("X-RateLimit-Remaining", "123")
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     h,
				Body:       io.NopCloser(strings.NewReader(`{"login": "alice"}`)),
				Request:    req,
			}, nil
		}),
	})
	if err != nil {
		t.Fatalf("NewRESTClient() error: %v", err)
	}
	c := &Client{rest: rest, limiter: NewRateLimiter(1000, 5)}

	if _, err := c.GetUser(context.Background(), "alice"); err != nil {
		t.Fatalf("GetUser() error: %v", err)
	}
	if c.Limiter().Remaining() != 123 {
		t.Errorf("Remaining() = %d, want 123", c.Limiter().Remaining())
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
