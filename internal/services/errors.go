package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInput marks requests rejected before any model call was made.
	ErrInput = errors.New("input error")
	// ErrUpstream marks model calls that failed or timed out.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrParse marks model responses that arrived but were not in the expected structure.
	ErrParse = errors.New("parse error")
	// ErrRateLimited marks upstream throttling, surfaced distinctly from generic failures.
	ErrRateLimited = errors.New("rate limited")
	// ErrStore marks learned-store and telemetry write failures. These are logged
	// and never propagated back to fail a committing item.
	ErrStore = errors.New("store error")
	// ErrConfiguration marks unusable runtime configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrUpstream
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// HTTPStatus maps a pipeline error to the HTTP status code the API server
// should return for it.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// TelemetryStatus classifies an error for aggregate reporting. Rate limiting is
// tracked separately from generic upstream failures.
func TelemetryStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrInput):
		return "rejected"
	default:
		return "error"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
