// Package providertest provides fake booking APIs for tests: an in-memory API
// and an httptest server speaking the real wire format.
package providertest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alex-user-go/getaway/internal/normalize"
	"github.com/alex-user-go/getaway/internal/search/types"
)

// Call is one recorded request.
type Call struct {
	Endpoint string
	Body     json.RawMessage
}

// Decode unmarshals the recorded body into v.
func (c Call) Decode(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(c.Body, v); err != nil {
		t.Fatalf("decode %s body: %v", c.Endpoint, err)
	}
}

// Response is a canned reply.
type Response struct {
	Status int
	Body   string
	Delay  time.Duration
}

// Responder produces a reply for a request body.
type Responder func(body json.RawMessage) Response

// recorder holds handlers and recorded calls shared by both fakes.
type recorder struct {
	mu       sync.Mutex
	handlers map[string]Responder
	calls    []Call
}

func newRecorder() *recorder {
	return &recorder{handlers: make(map[string]Responder)}
}

// Handle registers fn for endpoint.
func (r *recorder) Handle(endpoint string, fn Responder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[endpoint] = fn
}

// Respond registers a fixed reply for endpoint.
func (r *recorder) Respond(endpoint string, status int, body string) {
	r.Handle(endpoint, func(json.RawMessage) Response {
		return Response{Status: status, Body: body}
	})
}

// Calls returns the recorded calls to endpoint, or all calls when endpoint is "".
func (r *recorder) Calls(endpoint string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Call
	for _, c := range r.calls {
		if endpoint == "" || c.Endpoint == endpoint {
			out = append(out, c)
		}
	}
	return out
}

func (r *recorder) record(endpoint string, body json.RawMessage) Response {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Endpoint: endpoint, Body: body})
	fn, ok := r.handlers[endpoint]
	r.mu.Unlock()

	if !ok {
		return Response{Status: http.StatusNotFound, Body: `{"error":"no handler for ` + endpoint + `"}`}
	}
	resp := fn(body)
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	return resp
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// API is an in-memory providers.API.
type API struct {
	*recorder
}

// NewAPI creates an in-memory fake.
func NewAPI() *API {
	return &API{recorder: newRecorder()}
}

// Post implements providers.API.
func (a *API) Post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	resp := a.record(endpoint, raw)
	if err := wait(ctx, resp.Delay); err != nil {
		return nil, err
	}

	if resp.Status < 200 || resp.Status > 299 {
		return nil, &types.UpstreamError{Endpoint: endpoint, StatusCode: resp.Status, Message: normalize.ErrorMessage([]byte(resp.Body), resp.Status)}
	}
	return []byte(resp.Body), nil
}

// Server is an httptest server faking the booking API.
type Server struct {
	*httptest.Server
	*recorder
}

// NewServer starts a fake booking API closed at test cleanup.
func NewServer(t testing.TB) *Server {
	s := &Server{recorder: newRecorder()}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	resp := s.record(r.URL.Path, body)
	if err := wait(r.Context(), resp.Delay); err != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}
