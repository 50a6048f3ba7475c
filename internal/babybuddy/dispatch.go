package babybuddy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Poster hands a task to the caller's event loop. Implementations must be
// safe to call from any goroutine and must run tasks one at a time.
type Poster interface {
	Post(fn func())
}

// Callback receives the outcome of one request. Exactly one of Response or
// Error is called, once, from the Poster's loop.
type Callback[R any] interface {
	Response(value R)
	Error(err error)
}

// Callbacks adapts a pair of funcs to Callback. Nil funcs are skipped.
type Callbacks[R any] struct {
	OnResponse func(R)
	OnError    func(error)
}

// Response implements Callback.
func (c Callbacks[R]) Response(value R) {
	if c.OnResponse != nil {
		c.OnResponse(value)
	}
}

// Error implements Callback.
func (c Callbacks[R]) Error(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Dispatch sends one request and delivers the raw response body. path is
// relative to the configured server URL; body, when non-nil, must be JSON.
// Dispatch returns immediately.
func (c *Client) Dispatch(method, path string, body []byte, cb Callback[[]byte]) {
	var payload any
	if body != nil {
		payload = body
	}
	dispatch(c, method, path, payload, rawBody, cb)
}

// dispatch runs one exchange on its own goroutine, decodes the body there,
// and posts exactly one outcome to the caller's loop. payload may be nil,
// pre-encoded []byte, or any value for encoding/json.
func dispatch[R any](c *Client, method, path string, payload any, decode func([]byte) (R, error), cb Callback[R]) {
	requestID := uuid.NewString()
	go func() {
		var (
			value R
			err   error
		)
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("request %s %s panicked: %v", method, path, r)
				}
			}()
			var body []byte
			body, err = c.exchange(requestID, method, path, payload)
			if err != nil {
				return
			}
			value, err = decode(body)
		}()

		if err != nil {
			c.logger.Warn("request failed",
				zap.String("request_id", requestID),
				zap.String("method", method),
				zap.String("path", path),
				zap.Error(err),
			)
		}
		if cb == nil {
			return
		}
		c.poster.Post(func() {
			if err != nil {
				cb.Error(err)
				return
			}
			cb.Response(value)
		})
	}()
}

func (c *Client) exchange(requestID, method, path string, payload any) ([]byte, error) {
	if !allowedMethods[method] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	body, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}

	reqURL, err := resolveURL(c.creds.ServerURL(), path)
	if err != nil {
		return nil, &TransportError{Op: "build url", Err: err}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, reqURL, reader)
	if err != nil {
		return nil, &TransportError{Op: "create request", Err: err}
	}
	req.Header.Set("Authorization", "Token "+c.creds.AppToken())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; utf-8")
	}

	c.logger.Debug("dispatch",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("body_bytes", len(body)),
	)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "execute request", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.clock.Observe(resp.Header.Get("Date"))

	c.logger.Debug("response",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Message: reasonPhrase(resp)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	return data, nil
}

func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case []byte:
		return p, nil
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, &EncodingError{Err: err}
		}
		return data, nil
	}
}

// resolveURL joins the server URL and a relative path. Trailing slashes on
// the server URL and leading slashes on the path are dropped.
func resolveURL(serverURL, path string) (string, error) {
	prefix := strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if prefix == "" {
		return "", fmt.Errorf("server url is empty")
	}
	full := prefix + "/" + strings.TrimLeft(path, "/")
	u, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", full, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("server url %q has no scheme or host", serverURL)
	}
	return u.String(), nil
}

func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}

func rawBody(body []byte) ([]byte, error) {
	return body, nil
}

func ignoreBody(_ []byte) (bool, error) {
	return true, nil
}

func decodeJSON[T any](what string) func([]byte) (T, error) {
	return func(body []byte) (T, error) {
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return v, decodeErr(what, err)
		}
		return v, nil
	}
}
