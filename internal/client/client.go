// Package client talks to the review server over its JSON HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"studyreview/internal/api"
)

// ErrUnauthorized is returned when the server rejects the session cookie.
var ErrUnauthorized = errors.New("not authenticated")

// APIError is a response the server answered with a failure status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL. The session cookie set by
// Login is kept for later calls.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

// Login authenticates and stores the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp api.StatusResponse
	return c.do(ctx, http.MethodPost, "/api/login", api.Credentials{Email: email, Password: password}, &resp)
}

// Register creates an account and logs it in.
func (c *Client) Register(ctx context.Context, creds api.Credentials) error {
	var resp api.StatusResponse
	return c.do(ctx, http.MethodPost, "/api/register", creds, &resp)
}

// Logout drops the server session.
func (c *Client) Logout(ctx context.Context) error {
	var resp api.StatusResponse
	return c.do(ctx, http.MethodPost, "/api/logout", nil, &resp)
}

// Grade submits the grade of one review. A response whose status is not "ok"
// is returned as *APIError carrying the server message.
func (c *Client) Grade(ctx context.Context, reviewID int64, req api.GradeRequest) (*api.GradeResponse, error) {
	var resp api.GradeResponse
	path := "/marcar/" + strconv.FormatInt(reviewID, 10)
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != api.StatusOK {
		return nil, &APIError{StatusCode: http.StatusOK, Message: resp.Message}
	}
	return &resp, nil
}

// RegisterStudy registers a topic and its review plan.
func (c *Client) RegisterStudy(ctx context.Context, req api.StudyRequest) error {
	var resp api.StatusResponse
	if err := c.do(ctx, http.MethodPost, "/cadastrar", req, &resp); err != nil {
		return err
	}
	if resp.Status != api.StatusSuccess {
		return &APIError{StatusCode: http.StatusOK, Message: resp.Message}
	}
	return nil
}

// DueReviews lists the reviews due up to today.
func (c *Client) DueReviews(ctx context.Context) (*api.ReviewList, error) {
	var list api.ReviewList
	if err := c.do(ctx, http.MethodGet, "/api/reviews", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var failure api.StatusResponse
		_ = json.Unmarshal(data, &failure)
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: failure.Message}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
