package babybuddy

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/five82/buddy/internal/loop"
)

type staticCreds struct {
	url   string
	token string
}

func (c staticCreds) ServerURL() string { return c.url }
func (c staticCreds) AppToken() string  { return c.token }

// recorder collects callback invocations. It is only touched from the loop,
// which the tests drain on the test goroutine.
type recorder[R any] struct {
	l         *loop.Loop
	responses []R
	errs      []error
	offLoop   bool
}

func newRecorder[R any](l *loop.Loop) *recorder[R] {
	return &recorder[R]{l: l}
}

func (r *recorder[R]) Response(value R) {
	if !r.l.Draining() {
		r.offLoop = true
	}
	r.responses = append(r.responses, value)
}

func (r *recorder[R]) Error(err error) {
	if !r.l.Draining() {
		r.offLoop = true
	}
	r.errs = append(r.errs, err)
}

func (r *recorder[R]) calls() int {
	return len(r.responses) + len(r.errs)
}

// await drains l on the test goroutine until every recorder has fired, then
// drains briefly once more to catch duplicate deliveries.
func await[R any](t *testing.T, l *loop.Loop, recs ...*recorder[R]) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		done := true
		for _, r := range recs {
			if r.calls() == 0 {
				done = false
			}
		}
		if done {
			break
		}
		select {
		case <-l.Ready():
			l.RunPending()
		case <-deadline:
			t.Fatalf("timed out waiting for callbacks")
		}
	}

	settle := time.After(50 * time.Millisecond)
	for {
		select {
		case <-l.Ready():
			l.RunPending()
		case <-settle:
			for i, r := range recs {
				if r.calls() != 1 {
					t.Fatalf("recorder %d fired %d times, want exactly 1", i, r.calls())
				}
				if r.offLoop {
					t.Fatalf("recorder %d fired outside the loop", i)
				}
			}
			return
		}
	}
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, serverURL string, opts ...Option) (*Client, *loop.Loop) {
	t.Helper()
	l := loop.New()
	c, err := NewClient(staticCreds{url: serverURL, token: "secret"}, l, opts...)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c, l
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("time.Parse(%q): %v", value, err)
	}
	return parsed
}
