package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/docuprism/internal/langdetect"
	"github.com/rohmanhakim/docuprism/pkg/failure"
	"github.com/rs/zerolog"
)

/*
Responsibilities

- Talk to an OpenAI-compatible chat completions endpoint
- Translate generation options into a system prompt
- Classify responses into retryable and fatal errors

The client applies no timeouts and no retries of its own; callers bound
each call with a context deadline and decide whether to retry. An optional
RequestPacer spaces completions per host and honors Retry-After.
*/

const maxResponseBytes = 4 << 20

// RequestPacer is satisfied by limiter.ConcurrentRateLimiter.
type RequestPacer interface {
	Wait(ctx context.Context, host string) error
	MarkLastRequestAsNow(host string)
	SetHostDelay(host string, delay time.Duration)
	Backoff(host string)
	ResetBackoff(host string)
}

type HTTPClient struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	pacer      RequestPacer
	logger     zerolog.Logger
}

// NewHTTPClient creates a client for the API rooted at baseURL, for example
// "https://api.openai.com/v1". A nil httpClient uses a fresh http.Client.
func NewHTTPClient(
	baseURL string,
	model string,
	apiKey string,
	httpClient *http.Client,
	logger zerolog.Logger,
) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger.With().Str("cmp", "summarizer").Logger(),
	}
}

// WithPacer makes every completion request wait for pacer first.
func (c *HTTPClient) WithPacer(pacer RequestPacer) *HTTPClient {
	c.pacer = pacer
	return c
}

func (c *HTTPClient) Summarize(ctx context.Context, text string, req Request) (string, failure.ClassifiedError) {
	c.logger.Debug().
		Str("type", string(req.Type)).
		Str("format", string(req.Format)).
		Str("length", string(req.Length)).
		Int("input_len", len(text)).
		Msg("requesting summary")

	return c.complete(ctx, systemPrompt(req), text)
}

// DetectLanguage asks the model for the language of text. It satisfies
// langdetect.Detector through langdetect.DetectorFunc.
func (c *HTTPClient) DetectLanguage(ctx context.Context, text string) ([]langdetect.Detection, error) {
	content, err := c.complete(ctx, detectPrompt, text)
	if err != nil {
		return nil, err
	}

	var detection langdetect.Detection
	if jsonErr := json.Unmarshal([]byte(stripCodeFence(content)), &detection); jsonErr != nil {
		return nil, &SummarizeError{
			Message:   fmt.Sprintf("language detection reply is not JSON: %v", jsonErr),
			Retryable: false,
			Cause:     ErrCauseMalformedResponse,
		}
	}
	if detection.Language == "" {
		return nil, nil
	}
	return []langdetect.Detection{detection}, nil
}

// Availability reports whether the models endpoint answers with 200.
// Any other outcome is Unavailable together with the reason.
func (c *HTTPClient) Availability(ctx context.Context) (Availability, failure.ClassifiedError) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return Unavailable, &SummarizeError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Unavailable, transportError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode != http.StatusOK {
		return Unavailable, statusError(resp.StatusCode, nil)
	}
	return Available, nil
}

func (c *HTTPClient) complete(ctx context.Context, system string, text string) (string, failure.ClassifiedError) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", &SummarizeError{
			Message:   fmt.Sprintf("failed to encode request: %v", err),
			Retryable: false,
			Cause:     ErrCauseRequestRejected,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &SummarizeError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	c.authorize(httpReq)

	host := httpReq.URL.Host
	if c.pacer != nil {
		if err := c.pacer.Wait(ctx, host); err != nil {
			return "", transportError(err)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if c.pacer != nil {
		c.pacer.MarkLastRequestAsNow(host)
	}
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()
	c.pace(host, resp)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", statusError(resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &SummarizeError{
			Message:    fmt.Sprintf("failed to decode response: %v", err),
			Retryable:  false,
			Cause:      ErrCauseMalformedResponse,
			StatusCode: resp.StatusCode,
		}
	}
	if len(parsed.Choices) == 0 {
		return "", &SummarizeError{
			Message:    "response has no choices",
			Retryable:  false,
			Cause:      ErrCauseMalformedResponse,
			StatusCode: resp.StatusCode,
		}
	}
	return parsed.Choices[0].Message.Content, nil
}

// pace feeds the response outcome back into the pacer.
func (c *HTTPClient) pace(host string, resp *http.Response) {
	if c.pacer == nil {
		return
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.pacer.Backoff(host)
		if delay, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			c.pacer.SetHostDelay(host, delay)
		}
		c.logger.Warn().Str("host", host).Msg("rate limited by endpoint")
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.pacer.ResetBackoff(host)
	}
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func transportError(err error) *SummarizeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &SummarizeError{
			Message:   fmt.Sprintf("request timed out: %v", err),
			Retryable: true,
			Cause:     ErrCauseTimeout,
		}
	case errors.Is(err, context.Canceled):
		return &SummarizeError{
			Message:   fmt.Sprintf("request canceled: %v", err),
			Retryable: false,
			Cause:     ErrCauseCanceled,
		}
	default:
		// Network/transport errors are retryable
		return &SummarizeError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
}

func statusError(status int, body []byte) *SummarizeError {
	message := http.StatusText(status)
	var apiErr apiErrorBody
	if len(body) > 0 && json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	switch {
	case status == http.StatusTooManyRequests:
		return &SummarizeError{Message: message, Retryable: true, Cause: ErrCauseRequestTooMany, StatusCode: status}
	case status >= 500:
		// Server errors (5xx) are retryable
		return &SummarizeError{Message: message, Retryable: true, Cause: ErrCauseRequest5xx, StatusCode: status}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &SummarizeError{Message: message, Retryable: false, Cause: ErrCauseUnauthorized, StatusCode: status}
	default:
		return &SummarizeError{Message: message, Retryable: false, Cause: ErrCauseRequestRejected, StatusCode: status}
	}
}

// stripCodeFence removes a surrounding ``` block some models add to JSON replies.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
