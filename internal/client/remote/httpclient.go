package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"shelftrack/internal/common"
	"shelftrack/internal/logging"

	"github.com/sethvargo/go-retry"
)

// HTTPClient talks JSON over HTTP to the backend and implements both Store
// and Auth. All backend error shapes are translated into the common taxonomy
// here; nothing above this package ever inspects a status code.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  logging.Logger

	mu    sync.Mutex
	token string
	user  *UserRef
}

func NewHTTPClient(baseURL string, tokens TokenStore, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		logger:  logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type meResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type docResponse struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type filterDTO struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

type queryRequest struct {
	Filters []filterDTO `json:"filters"`
	OrderBy string      `json:"order_by,omitempty"`
	Desc    bool        `json:"desc,omitempty"`
}

type queryResponse struct {
	Documents []docResponse `json:"documents"`
}

type apiError struct {
	Error string `json:"error"`
}

// --- Auth ---

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (*UserRef, error) {
	return c.authenticate(ctx, "/api/register", email, password)
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*UserRef, error) {
	u, err := c.authenticate(ctx, "/api/login", email, password)
	if errors.Is(err, common.ErrUnauthenticated) {
		return nil, common.ErrBadCredentials
	}
	return u, err
}

func (c *HTTPClient) authenticate(ctx context.Context, path, email, password string) (*UserRef, error) {
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, path, credentialsRequest{Email: email, Password: password}, &resp, false); err != nil {
		return nil, err
	}

	u := &UserRef{ID: resp.UserID, Email: email}

	c.mu.Lock()
	c.token = resp.Token
	c.user = u
	c.mu.Unlock()

	if err := c.tokens.SaveToken(ctx, resp.Token); err != nil {
		c.logger.Warn(ctx, "failed to persist session token", "error", err)
	}
	return u, nil
}

// SignOut calls the backend and drops the local token state regardless of
// the outcome. The remote error, if any, is returned to the caller.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil, false)

	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()

	if derr := c.tokens.DeleteToken(ctx); derr != nil {
		c.logger.Warn(ctx, "failed to remove persisted token", "error", derr)
	}
	return err
}

func (c *HTTPClient) CurrentUser() *UserRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// RestoreSession loads the persisted token, validates it against the backend
// and delivers a single SessionEvent. A stale or missing token resolves to
// "no session" rather than an error.
func (c *HTTPClient) RestoreSession(ctx context.Context) <-chan SessionEvent {
	ch := make(chan SessionEvent, 1)

	go func() {
		defer close(ch)

		token, err := c.tokens.Token(ctx)
		if err != nil {
			ch <- SessionEvent{Err: err}
			return
		}
		if token == "" {
			ch <- SessionEvent{}
			return
		}

		c.mu.Lock()
		c.token = token
		c.mu.Unlock()

		var me meResponse
		err = c.doJSON(ctx, http.MethodGet, "/api/me", nil, &me, true)
		if errors.Is(err, common.ErrUnauthenticated) {
			// Token no longer accepted by the backend.
			c.mu.Lock()
			c.token = ""
			c.mu.Unlock()
			if derr := c.tokens.DeleteToken(ctx); derr != nil {
				c.logger.Warn(ctx, "failed to remove stale token", "error", derr)
			}
			ch <- SessionEvent{}
			return
		}
		if err != nil {
			ch <- SessionEvent{Err: err}
			return
		}

		u := &UserRef{ID: me.UserID, Email: me.Email}
		c.mu.Lock()
		c.user = u
		c.mu.Unlock()
		ch <- SessionEvent{User: u}
	}()

	return ch
}

// --- Store ---

func (c *HTTPClient) Collection(name string) Collection {
	return &httpCollection{c: c, path: "/api/collections/" + url.PathEscape(name)}
}

type httpCollection struct {
	c    *HTTPClient
	path string
}

func (h *httpCollection) Get(ctx context.Context, id string) (map[string]any, error) {
	var resp docResponse
	if err := h.c.doJSON(ctx, http.MethodGet, h.docPath(id), nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Fields, nil
}

func (h *httpCollection) Add(ctx context.Context, fields map[string]any) (string, error) {
	var resp docResponse
	if err := h.c.doJSON(ctx, http.MethodPost, h.path+"/docs", fields, &resp, false); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (h *httpCollection) Set(ctx context.Context, id string, fields map[string]any, merge bool) error {
	p := h.docPath(id)
	if merge {
		p += "?merge=1"
	}
	return h.c.doJSON(ctx, http.MethodPut, p, fields, nil, false)
}

func (h *httpCollection) Update(ctx context.Context, id string, fields map[string]any) error {
	return h.c.doJSON(ctx, http.MethodPatch, h.docPath(id), fields, nil, false)
}

func (h *httpCollection) Delete(ctx context.Context, id string) error {
	return h.c.doJSON(ctx, http.MethodDelete, h.docPath(id), nil, nil, false)
}

func (h *httpCollection) Query(ctx context.Context, q Query) ([]Document, error) {
	req := queryRequest{OrderBy: q.OrderBy, Desc: q.Desc}
	for _, f := range q.Filters {
		req.Filters = append(req.Filters, filterDTO{Field: f.Field, Op: f.Op, Value: f.Value})
	}

	var resp queryResponse
	if err := h.c.doJSON(ctx, http.MethodPost, h.path+"/query", req, &resp, true); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, Document{ID: d.ID, Fields: d.Fields})
	}
	return docs, nil
}

func (h *httpCollection) docPath(id string) string {
	return h.path + "/docs/" + url.PathEscape(id)
}

// --- transport ---

// doJSON performs one request. Idempotent reads (idempotent=true) are retried
// with exponential backoff while the backend is unreachable; writes are
// never retried.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any, idempotent bool) error {
	if !idempotent {
		return c.once(ctx, method, path, in, out)
	}

	backoff := retry.WithMaxRetries(2, retry.NewExponential(100*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.once(ctx, method, path, in, out)
		if errors.Is(err, common.ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *HTTPClient) once(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapStatus(resp.StatusCode, resp.Body)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// mapStatus is the single place backend error shapes become taxonomy errors.
func mapStatus(status int, body io.Reader) error {
	var payload apiError
	_ = json.NewDecoder(body).Decode(&payload)

	switch status {
	case http.StatusUnauthorized:
		return common.ErrUnauthenticated
	case http.StatusForbidden:
		return common.ErrPermissionDenied
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrEmailTaken
	case http.StatusPreconditionFailed:
		return common.ErrIndexRequired
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return common.ErrUnavailable
	}

	msg := payload.Error
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("remote store: %s (status %d)", msg, status)
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", common.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", common.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
}
