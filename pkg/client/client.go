// Package client is a Go SDK for the admin API. It keeps the access-token
// cookie in a jar, decodes response envelopes and caches entity lists until
// a mutation invalidates them.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client talks to one API deployment. All entity stores share its cookie
// session.
type Client struct {
	baseURL string
	http    *http.Client

	FAQs     *FAQStore
	Jobs     *JobStore
	Programs *ProgramStore
	Users    *UserStore
	Contacts *ContactStore
}

// Option adjusts client construction.
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client. A cookie jar is
// still installed when the given client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	c.FAQs = &FAQStore{store: newStore[FAQ](c, "/v1/faqs", "faq", "faqs")}
	c.Jobs = &JobStore{store: newStore[Job](c, "/v1/jobs", "job", "jobs")}
	c.Programs = &ProgramStore{store: newStore[Program](c, "/v1/programs", "program", "programs")}
	c.Users = &UserStore{store: newStore[User](c, "/v1/users", "user", "users")}
	c.Contacts = &ContactStore{store: newStore[Contact](c, "/v1/contacts", "contact", "contacts")}

	return c, nil
}

// do performs one request and decodes the envelope. When entityKey is not
// empty the corresponding field is unmarshalled into out.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, entityKey string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	var success bool
	if v, ok := fields["success"]; ok {
		_ = json.Unmarshal(v, &success)
	}
	var message string
	if v, ok := fields["message"]; ok {
		_ = json.Unmarshal(v, &message)
	}

	if resp.StatusCode >= 400 || !success {
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if entityKey != "" && out != nil {
		if v, ok := fields[entityKey]; ok {
			if err := json.Unmarshal(v, out); err != nil {
				return fmt.Errorf("decode %q field: %w", entityKey, err)
			}
		}
	}

	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, entityKey string, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(body), entityKey, out)
}
