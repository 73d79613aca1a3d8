package shop

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Credentials supplies the tokens the auth transport attaches to requests.
// Implementations must be safe for concurrent use.
type Credentials interface {
	AccessToken() string
	SetAccessToken(token string)
	RefreshToken() string
	CSRFToken() string
	Clear()
}

// refreshFunc performs the token refresh call and returns the new access
// token. The Client wires its own Refresh method in here.
type refreshFunc func(req *http.Request) (string, error)

type waiterResult struct {
	resp *http.Response
	err  error
}

// waiter is a request parked while a refresh is in flight. Queued waiters
// are replayed serially, in arrival order, once the refresh completes.
type waiter struct {
	req *http.Request
	ch  chan waiterResult
}

// authTransport injects bearer and CSRF headers and transparently refreshes
// the access token when a non-auth endpoint answers 401.
//
// The refresh flow is a two-state machine: idle and refreshing. The first
// 401 flips the transport to refreshing and performs the refresh call; any
// request that hits a 401 meanwhile parks itself on the waiter queue instead
// of racing a second refresh. On success the triggering request is replayed
// first, then the queued requests in original order with the new token. On
// failure every waiter is rejected, credentials are cleared, and the
// onAuthExpired hook fires so the UI can fall back to the login form.
type authTransport struct {
	base          http.RoundTripper
	creds         Credentials
	refresh       refreshFunc
	onAuthExpired func()

	mu         sync.Mutex
	refreshing bool
	waiters    []waiter
}

func newAuthTransport(base http.RoundTripper, creds Credentials, refresh func(req *http.Request) (string, error), onAuthExpired func()) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{
		base:          base,
		creds:         creds,
		refresh:       refresh,
		onAuthExpired: onAuthExpired,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.send(req, t.creds.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || isAuthPath(req.URL.Path) {
		return resp, nil
	}
	discard(resp)

	t.mu.Lock()
	if t.refreshing {
		w := waiter{req: req, ch: make(chan waiterResult, 1)}
		t.waiters = append(t.waiters, w)
		t.mu.Unlock()
		result := <-w.ch
		return result.resp, result.err
	}
	t.refreshing = true
	t.mu.Unlock()

	token, refreshErr := t.refresh(req)

	t.mu.Lock()
	queued := t.waiters
	t.waiters = nil
	t.refreshing = false
	t.mu.Unlock()

	if refreshErr != nil {
		wrapped := fmt.Errorf("refresh access token: %w", refreshErr)
		for _, w := range queued {
			w.ch <- waiterResult{err: wrapped}
		}
		if t.creds != nil {
			t.creds.Clear()
		}
		if t.onAuthExpired != nil {
			t.onAuthExpired()
		}
		return nil, wrapped
	}

	// The triggering request goes out first, then the parked ones in the
	// order they arrived.
	resp, err = t.send(req, token)
	for _, w := range queued {
		wResp, wErr := t.send(w.req, token)
		w.ch <- waiterResult{resp: wResp, err: wErr}
	}
	return resp, err
}

// send issues a clone of req carrying the given access token plus the CSRF
// header. The original request is never mutated and its body is rewound via
// GetBody so it can be replayed after a refresh.
func (t *authTransport) send(req *http.Request, token string) (*http.Response, error) {
	out := req.Clone(req.Context())
	if req.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		out.Body = body
	}
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if t.creds != nil {
		if csrf := t.creds.CSRFToken(); csrf != "" {
			out.Header.Set("X-CSRFToken", csrf)
		}
	}
	return t.base.RoundTrip(out)
}

// isAuthPath reports whether the request targets an auth endpoint. A 401
// from login or refresh is a definitive answer, not a stale-token signal.
func isAuthPath(path string) bool {
	return strings.Contains(path, "/auth/")
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
