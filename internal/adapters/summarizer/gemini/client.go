// Package gemini calls the Gemini generateContent endpoint to summarize text.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
)

const (
	DefaultEndpoint  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"
	promptPrefix     = "Summarize the following text:\n\n"
	maxResponseBytes = 4 << 20
)

// KeyFunc resolves the API key at call time so it can live in a secret store.
type KeyFunc func(ctx context.Context) (string, error)

func StaticKey(key string) KeyFunc {
	return func(context.Context) (string, error) { return key, nil }
}

type Client struct {
	Endpoint   string
	APIKey     KeyFunc
	HTTPClient *http.Client
	// Timeout bounds a single request. Zero means no client-side limit.
	Timeout time.Duration
}

var _ ports.Summarizer = Client{}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Summarize performs exactly one request. Non-2xx answers come back as
// *domain.HTTPError; a 2xx body without candidate text is domain.ErrParse.
func (c Client) Summarize(ctx context.Context, text string) (string, error) {
	endpoint, err := c.requestURL(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: promptPrefix + text}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode summarize request: %w", err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("send summarize request: %w", redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read summarize response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newHTTPError(resp, body)
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode summarize response: %w: %w", err, domain.ErrParse)
	}

	if len(decoded.Candidates) == 0 ||
		decoded.Candidates[0].Content == nil ||
		len(decoded.Candidates[0].Content.Parts) == 0 ||
		decoded.Candidates[0].Content.Parts[0].Text == nil {
		return "", fmt.Errorf("summarize response has no candidate text: %w", domain.ErrParse)
	}

	return *decoded.Candidates[0].Content.Parts[0].Text, nil
}

func (c Client) requestURL(ctx context.Context) (string, error) {
	raw := strings.TrimSpace(c.Endpoint)
	if raw == "" {
		raw = DefaultEndpoint
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse summarizer endpoint: %w", err)
	}

	if c.APIKey == nil {
		return "", fmt.Errorf("summarizer API key is not configured: %w", domain.ErrValidation)
	}
	key, err := c.APIKey(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve summarizer API key: %w", err)
	}
	if key == "" {
		return "", fmt.Errorf("summarizer API key is not configured: %w", domain.ErrValidation)
	}

	q := u.Query()
	q.Set("key", key)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return http.DefaultClient
}

func newHTTPError(resp *http.Response, body []byte) *domain.HTTPError {
	httpErr := &domain.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}

	var decoded errorResponse
	if json.Unmarshal(body, &decoded) == nil && decoded.Error != nil {
		httpErr.Message = decoded.Error.Message
	}

	return httpErr
}

// redact strips the request URL, which carries the API key, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}

	return err
}
