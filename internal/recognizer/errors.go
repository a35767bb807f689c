package recognizer

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateLimitError indicates a model provider refused the call because of quota
// or request-rate limits. It is the only error class that is retried.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s rate limited: %v", e.Provider, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. A zero retryAfterSecs means the
// provider gave no hint and the retry policy's own delay applies.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs < 0 {
		retryAfterSecs = 0
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ProviderUnavailableError means the requested model does not exist or is
// not served by the provider. The next model in the failover list is tried.
type ProviderUnavailableError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("%s model %s unavailable: %v", e.Provider, e.Model, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

// ProviderError is any other non-success reply of a model endpoint.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// ClassifyStatus maps a non-200 HTTP reply of a provider onto the error taxonomy.
func ClassifyStatus(provider, model string, status int, body string, retryAfterHeader string) error {
	base := &ProviderError{Provider: provider, StatusCode: status, Body: truncate(body, 500)}
	switch status {
	case http.StatusTooManyRequests:
		return NewRateLimitError(provider, base, ParseRetryAfterHeader(retryAfterHeader))
	case http.StatusNotFound:
		return &ProviderUnavailableError{Provider: provider, Model: model, Err: base}
	default:
		return base
	}
}

// ParseError is returned when a model reply cannot be turned into a JSON object.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON in model response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RetryExhaustedError wraps the last rate-limit error once every attempt was used.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("rate limit persisted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}

var rateLimitMarkers = []string{
	"quota",
	"rate limit",
	"resource exhausted",
	"resource_exhausted",
	"resourceexhausted",
	"too many requests",
}

// IsRateLimited reports whether err should be retried after a backoff.
// For a typed provider error only its status code counts as a 429.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var pe *ProviderError
	typed := errors.As(err, &pe)
	if typed && pe.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range rateLimitMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return !typed && ContainsStatusCode(msg, http.StatusTooManyRequests)
}

// ContainsStatusCode reports whether text mentions code as a standalone
// token, not as a fragment of a request id, number or model name.
func ContainsStatusCode(text string, code int) bool {
	token := strconv.Itoa(code)
	for from := 0; ; {
		i := strings.Index(text[from:], token)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(token)
		if !isTokenChar(text, start-1) && !isTokenChar(text, end) {
			return true
		}
		from = start + 1
	}
}

func isTokenChar(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '-' || c == '.'
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0
	}
	return secs
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func asRateLimit(err error) *RateLimitError {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl
	}
	return nil
}
