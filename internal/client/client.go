// Package client talks to the students REST API on behalf of the admin
// panel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/students-hub/internal/types"
)

// RequestIDHeader carries a per-call correlation id to the API.
const RequestIDHeader = "X-Request-ID"

// StatusError is returned for any non-2xx API response. Message holds the
// "error" field of the API's {status,error} envelope when the body parses,
// otherwise the trimmed raw body.
type StatusError struct {
	Op      string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Code, e.Message)
}

// IsUnauthorized reports whether err is an API rejection of the caller's
// credentials (401 or 403).
func IsUnauthorized(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden
}

// Client is an HTTP client for the students API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a Client for the API rooted at baseURL. Every call is
// bounded by timeout in addition to the caller's context.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// ListPaged fetches one page: GET /api/students/paged.
func (c *Client) ListPaged(ctx context.Context, req types.PageRequest) (types.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	q.Set("size", strconv.Itoa(req.Size))
	if req.SortBy != "" {
		q.Set("sortBy", req.SortBy)
	}
	if req.Direction != "" {
		q.Set("direction", string(req.Direction))
	}

	var page types.Page
	if err := c.do(ctx, "list students", http.MethodGet, "/api/students/paged", q, nil, &page); err != nil {
		return types.Page{}, err
	}
	if page.Content == nil {
		page.Content = make([]types.Student, 0)
	}
	return page, nil
}

// Get fetches one student: GET /api/students/{id}.
func (c *Client) Get(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student
	if err := c.do(ctx, "get student", http.MethodGet, studentPath(id), nil, nil, &student); err != nil {
		return types.Student{}, err
	}
	return student, nil
}

// Create adds a student: POST /api/students.
func (c *Client) Create(ctx context.Context, in types.StudentInput) (types.Student, error) {
	var created types.Student
	if err := c.do(ctx, "create student", http.MethodPost, "/api/students", nil, in, &created); err != nil {
		return types.Student{}, err
	}
	return created, nil
}

// Update replaces a student: PUT /api/students/{id}.
func (c *Client) Update(ctx context.Context, id int64, in types.StudentInput) (types.Student, error) {
	var updated types.Student
	if err := c.do(ctx, "update student", http.MethodPut, studentPath(id), nil, in, &updated); err != nil {
		return types.Student{}, err
	}
	return updated, nil
}

// Delete removes a student: DELETE /api/students/{id}.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete student", http.MethodDelete, studentPath(id), nil, nil, nil)
}

func studentPath(id int64) string {
	return "/api/students/" + strconv.FormatInt(id, 10)
}

// do sends one request. body, when non-nil, is JSON-encoded. out, when
// non-nil, receives the decoded 2xx body; an empty body leaves it untouched.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	slog.Debug("api call",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("url", u.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
		slog.String("request_id", requestID))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, Code: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode body: %w", op, err)
	}
	return nil
}

// errorMessage extracts the detail of an error body. It understands the
// {status,error} envelope and the {message} shape many frameworks emit.
func errorMessage(raw []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
