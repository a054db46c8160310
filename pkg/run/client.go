package run

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flickergrid/flickergrid/pkg/errors"
	"github.com/flickergrid/flickergrid/pkg/observability"
)

// Paths served by the flickergrid server.
const (
	SubmitPath = "/go"
	StatusPath = "/checkoutDisplayStatus"
)

const httpTimeout = 30 * time.Second

// Receipt acknowledges an accepted run.
type Receipt struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// SubmitError is returned when the server answers a submission with a
// non-2xx status. Fields holds the per-field messages from the response
// body, if it had any.
type SubmitError struct {
	Status int
	Fields errors.FieldErrors
}

func (e *SubmitError) Error() string {
	msg := fmt.Sprintf("run rejected: %d %s", e.Status, http.StatusText(e.Status))
	if len(e.Fields) == 0 {
		return msg
	}
	parts := make([]string, 0, len(e.Fields))
	for _, k := range e.Fields.Fields() {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return msg + ": " + strings.Join(parts, "; ")
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// Client submits runs to a flickergrid server. Requests are not retried.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid server URL %q", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: httpTimeout}}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Submit posts r to the server's /go endpoint.
func (c *Client) Submit(ctx context.Context, r Request) (Receipt, error) {
	var receipt Receipt
	body := strings.NewReader(r.Form().Encode())
	err := c.do(ctx, http.MethodPost, SubmitPath, body, &receipt)
	return receipt, err
}

// Status fetches the display status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var s Status
	err := c.do(ctx, http.MethodGet, StatusPath, nil, &s)
	return s, err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, v any) error {
	u := c.base.JoinPath(path)
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	hooks.OnRequest(ctx, method, u.Host, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, u.Host, path, err)
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, u)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, u.Host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &SubmitError{Status: resp.StatusCode}
		var fields map[string]string
		if json.NewDecoder(resp.Body).Decode(&fields) == nil && len(fields) > 0 {
			se.Fields = errors.FieldErrors(fields)
		}
		return se
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeUpstream, err, "decode %s response", path)
	}
	return nil
}
