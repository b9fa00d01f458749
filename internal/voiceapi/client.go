// Package voiceapi talks to the remote voice-assistant platform. Only the
// assistant state changes the sync queue needs are implemented: enable,
// disable, update, delete.
package voiceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"voice-leads-go/internal/config"
	"voice-leads-go/internal/logger"
)

type Client interface {
	SetAssistantEnabled(ctx context.Context, assistantID string, enabled bool) error
	UpdateAssistant(ctx context.Context, assistantID string, fields map[string]any) error
	DeleteAssistant(ctx context.Context, assistantID string) error
}

// New returns the real HTTP client, or a deterministic mock when
// cfg.Mock is set (VOICE_MOCK=true) for offline demos and tests.
func New(cfg config.VoiceAPIConfig) Client {
	if cfg.Mock {
		logger.Component("voiceapi").Info("mock mode ON - remote calls are no-ops")
		return &mockClient{}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &httpClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

type httpClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
}

func (c *httpClient) SetAssistantEnabled(ctx context.Context, assistantID string, enabled bool) error {
	body := map[string]any{"enabled": enabled}
	return c.do(ctx, http.MethodPatch, "/assistant/"+assistantID, body)
}

func (c *httpClient) UpdateAssistant(ctx context.Context, assistantID string, fields map[string]any) error {
	return c.do(ctx, http.MethodPatch, "/assistant/"+assistantID, fields)
}

func (c *httpClient) DeleteAssistant(ctx context.Context, assistantID string) error {
	return c.do(ctx, http.MethodDelete, "/assistant/"+assistantID, nil)
}

// do runs one request with exponential backoff. Client errors (4xx) are
// permanent; everything else retries until the backoff window closes.
func (c *httpClient) do(ctx context.Context, method, path string, body any) error {
	log := logger.Component("voiceapi").WithField("path", path).WithField("method", method)

	if c.baseURL == "" || c.apiKey == "" {
		return fmt.Errorf("voice platform not configured")
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	op := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			log.WithError(err).Warn("request failed")
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 300 {
			lastErr = nil
			return nil
		}
		raw, _ := io.ReadAll(resp.Body)
		lastErr = fmt.Errorf("platform returned %d: %s", resp.StatusCode, string(raw))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(lastErr)
		}
		return lastErr
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, lastErr)
	}
	return nil
}

// mockClient records nothing and always succeeds.
type mockClient struct{}

func (m *mockClient) SetAssistantEnabled(ctx context.Context, assistantID string, enabled bool) error {
	logger.Component("voiceapi").
		WithField("assistant_id", assistantID).
		WithField("enabled", enabled).
		Info("mock: set assistant enabled")
	return nil
}

func (m *mockClient) UpdateAssistant(ctx context.Context, assistantID string, fields map[string]any) error {
	logger.Component("voiceapi").WithField("assistant_id", assistantID).Info("mock: update assistant")
	return nil
}

func (m *mockClient) DeleteAssistant(ctx context.Context, assistantID string) error {
	logger.Component("voiceapi").WithField("assistant_id", assistantID).Info("mock: delete assistant")
	return nil
}
