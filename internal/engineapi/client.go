// Package engineapi is a thin typed wrapper over the remote workflow
// engine's REST surface: list/get/create/update/delete workflows,
// activate/deactivate, list/get executions, and trigger webhooks.
package engineapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const apiKeyHeader = "X-N8N-API-KEY"

// Client talks to a single n8n-compatible engine instance.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	timeout time.Duration
}

// New builds a client. baseURL is the engine root (e.g.
// https://n8n.example.com); "/api/v1" is appended to every request.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL + "/api/v1",
		apiKey:  apiKey,
		http:    &http.Client{},
		timeout: timeout,
	}
}

// Error is a typed engine-API failure: either a non-2xx response
// (Status/Body populated) or a network/timeout failure (Err populated).
type Error struct {
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine request failed: %v", e.Err)
	}
	return fmt.Sprintf("engine returned %d: %s", e.Status, e.Body)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether the failure was a client-side timeout.
func (e *Error) IsTimeout() bool {
	t, ok := e.Err.(interface{ Timeout() bool })
	return ok && t.Timeout()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Err: fmt.Errorf("encoding request body: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// WorkflowListOptions filters/pages a workflow listing.
type WorkflowListOptions struct {
	Cursor     string
	Limit      int
	Active     *bool
	NameSearch string
	Tags       []string
}

// WorkflowListPage is one page of workflows plus a cursor for the next.
type WorkflowListPage struct {
	Data       []json.RawMessage `json:"data"`
	NextCursor string             `json:"nextCursor"`
}

func (c *Client) ListWorkflows(ctx context.Context, opts WorkflowListOptions) (*WorkflowListPage, error) {
	q := url.Values{}
	if opts.Cursor != "" {
		q.Set("cursor", opts.Cursor)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Active != nil {
		q.Set("active", strconv.FormatBool(*opts.Active))
	}
	if opts.NameSearch != "" {
		q.Set("name", opts.NameSearch)
	}
	for _, t := range opts.Tags {
		q.Add("tags", t)
	}
	var page WorkflowListPage
	if err := c.do(ctx, http.MethodGet, "/workflows", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetWorkflow(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/workflows/"+url.PathEscape(id), nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) CreateWorkflow(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/workflows", nil, body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) UpdateWorkflow(ctx context.Context, id string, body json.RawMessage) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/workflows/"+url.PathEscape(id), nil, body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) DeleteWorkflow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/workflows/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ActivateWorkflow(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/workflows/"+url.PathEscape(id)+"/activate", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) DeactivateWorkflow(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/workflows/"+url.PathEscape(id)+"/deactivate", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ExecutionListOptions filters a list-executions call.
type ExecutionListOptions struct {
	WorkflowID string
	Status     string
	Cursor     string
	Limit      int
}

func (c *Client) ListExecutions(ctx context.Context, opts ExecutionListOptions) (json.RawMessage, error) {
	q := url.Values{}
	if opts.WorkflowID != "" {
		q.Set("workflowId", opts.WorkflowID)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Cursor != "" {
		q.Set("cursor", opts.Cursor)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/executions", q, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) GetExecution(ctx context.Context, id string, includeData bool) (json.RawMessage, error) {
	q := url.Values{}
	if includeData {
		q.Set("includeData", "true")
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/executions/"+url.PathEscape(id), q, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// TriggerWebhook posts to the production or test webhook path for the
// given workflow path segment.
func (c *Client) TriggerWebhook(ctx context.Context, path string, test bool, payload json.RawMessage) (json.RawMessage, error) {
	base := "/webhook/"
	if test {
		base = "/webhook-test/"
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	// Webhooks live outside /api/v1; build the URL directly.
	rootURL := c.baseURL[:len(c.baseURL)-len("/api/v1")]
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rootURL+base+path, reader)
	if err != nil {
		return nil, &Error{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Status: resp.StatusCode, Body: string(body)}
	}
	return json.RawMessage(body), nil
}
