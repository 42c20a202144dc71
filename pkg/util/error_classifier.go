package util

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"

	"notifyhub/pkg/circuitbreaker"
)

// StatusCoder is implemented by upstream errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// IsRetryableError determines if an upstream error is retryable.
// Returns: (isRetryable, errorType). errorType is a stable label for logs and metrics.
func IsRetryableError(err error) (bool, string) {
	if err == nil {
		return false, ""
	}

	if errors.Is(err, circuitbreaker.ErrOpen) {
		return false, "breaker_open"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true, "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return false, "context_canceled"
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return classifyStatus(gErr.Code)
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return classifyStatus(sc.StatusCode())
	}

	// JSON decode errors - 不可重试（数据格式错误）
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false, "decode_error"
	}

	// Network errors - 可重试
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true, "network_timeout"
		}
		return true, "network_error"
	}

	return false, "unknown_error"
}

// StatusCode returns the HTTP status carried by an upstream error, or 0.
func StatusCode(err error) int {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

func classifyStatus(code int) (bool, string) {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return false, "upstream_auth"
	case code == http.StatusTooManyRequests:
		return true, "rate_limited"
	case code >= 500:
		return true, "upstream_5xx"
	default:
		return false, "upstream_4xx"
	}
}
