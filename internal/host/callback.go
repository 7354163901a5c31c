package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nemanja-m/wasimpi/internal/controller/core"
	"github.com/nemanja-m/wasimpi/internal/shared/config"
	"github.com/nemanja-m/wasimpi/internal/shared/logging"
)

// StateReporter tells the controller about lifecycle changes of this job.
type StateReporter interface {
	Report(ctx context.Context, state core.JobState) error
}

// RejectedError is a report the controller refused. It is not retried.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("callback rejected with status %d: %s", e.StatusCode, e.Body)
}

// CallbackClient delivers state reports with PUT <url> {"state": ...}.
// Transport errors and 5xx responses are retried with exponential backoff.
// Reports are idempotent on the controller, so a duplicate delivery is
// harmless.
type CallbackClient struct {
	url    string
	client *http.Client
	cfg    config.CallbackConfig
	logger logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewCallbackClient(url string, cfg config.CallbackConfig, logger logging.Logger) *CallbackClient {
	return &CallbackClient{
		url:    url,
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
		sleep:  sleepContext,
	}
}

type stateReport struct {
	State core.JobState `json:"state"`
}

func (c *CallbackClient) Report(ctx context.Context, state core.JobState) error {
	body, err := json.Marshal(stateReport{State: state})
	if err != nil {
		return err
	}

	attempts := max(c.cfg.MaxAttempts, 1)
	backoff := c.cfg.MinBackoff
	for attempt := 1; ; attempt++ {
		err = c.put(ctx, body)
		var rejected *RejectedError
		if err == nil || errors.As(err, &rejected) || attempt >= attempts {
			break
		}

		c.logger.Warn("Callback failed, retrying",
			"state", string(state),
			"attempt", attempt,
			"backoff_ms", backoff.Milliseconds(),
			"error", err,
		)
		if serr := c.sleep(ctx, backoff); serr != nil {
			return serr
		}
		backoff = min(backoff*2, c.cfg.MaxBackoff)
	}
	if err != nil {
		return fmt.Errorf("report %s: %w", state, err)
	}
	c.logger.Debug("Reported job state", "state", string(state))
	return nil
}

func (c *CallbackClient) put(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &RejectedError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}
	return fmt.Errorf("callback returned status %d", resp.StatusCode)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, core.JobState) error { return nil }
