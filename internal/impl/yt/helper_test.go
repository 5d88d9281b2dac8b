package yt

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

const testAPIKey = "test-key"

// fakeAPI serves canned responses per resource and records every request.
type fakeAPI struct {
	mu       sync.Mutex
	requests []*http.Request
	handlers map[string]func(r *http.Request) (int, any)
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()

	api := &fakeAPI{handlers: map[string]func(r *http.Request) (int, any){}}
	srv := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(srv.Close)

	return api, NewClient(srv.URL+"/youtube/v3", testAPIKey, WithHTTPClient(srv.Client()))
}

func (a *fakeAPI) handle(resource string, f func(r *http.Request) (int, any)) {
	a.handlers[resource] = f
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.requests = append(a.requests, r)
	a.mu.Unlock()

	resource := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	f, ok := a.handlers[resource]
	if !ok {
		http.NotFound(w, r)
		return
	}

	status, body := f(r)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (a *fakeAPI) requestCount(resource string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, r := range a.requests {
		if strings.HasSuffix(r.URL.Path, "/"+resource) {
			n++
		}
	}
	return n
}

func apiError(code int, message string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}

// assertQuery runs inside the server goroutine, so it must not call FailNow.
func assertQuery(t *testing.T, r *http.Request, key, want string) {
	t.Helper()
	assert.Equal(t, want, r.URL.Query().Get(key), "query parameter %s", key)
}
