package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
)

// APIError is a non-2xx response from the controller.
type APIError struct {
	StatusCode int
	ErrorResponse
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.ErrorResponse.Error, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.ErrorResponse.Error, e.StatusCode)
}

// Unwrap lets callers match the controller's job errors with errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return core.ErrJobNotFound
	case e.ErrorResponse.Error == "job state is final":
		return core.ErrFinalState
	}
	return nil
}

// Client talks to the controller's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for baseURL. A nil httpClient gets a 10s
// timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) ListJobs(ctx context.Context, state string, limit, offset int) (*ListJobsResponse, error) {
	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	var resp ListJobsResponse
	if err := c.do(ctx, http.MethodGet, "/api/jobs", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (*JobResponse, error) {
	var resp JobResponse
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SubmitJob(ctx context.Context, req SubmitJobRequest) (*JobResponse, error) {
	var resp JobResponse
	if err := c.do(ctx, http.MethodPost, "/api/jobs", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReportJobState sends the same report a running host sends.
func (c *Client) ReportJobState(ctx context.Context, id, state string) error {
	return c.do(ctx, http.MethodPut, "/api/jobs/"+url.PathEscape(id)+"/callback", nil, StateReport{State: state}, nil)
}

func (c *Client) GetSlots(ctx context.Context) (*SlotsResponse, error) {
	var resp SlotsResponse
	if err := c.do(ctx, http.MethodGet, "/api/slots", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(raw, &apiErr.ErrorResponse); err != nil || apiErr.ErrorResponse.Error == "" {
			return fmt.Errorf("unexpected %d response from %s %s: %s", resp.StatusCode, method, path, strings.TrimSpace(string(raw)))
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
