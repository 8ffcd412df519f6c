package services_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"prodid/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := services.Wrap(services.ErrUpstream, "identify", "identify_item", "model call failed", cause)

	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	for _, fragment := range []string{"identify", "identify_item", "model call failed", "connection refused"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("message %q missing %q", err.Error(), fragment)
		}
	}
}

func TestWrapNilMarkerDefaultsToUpstream(t *testing.T) {
	err := services.Wrap(nil, "stage", "op", "boom", nil)
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream marker, got %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.Wrap(services.ErrInput, "api", "op", "bad", nil), http.StatusBadRequest},
		{services.Wrap(services.ErrRateLimited, "identify", "op", "throttled", nil), http.StatusTooManyRequests},
		{services.Wrap(services.ErrConfiguration, "api", "op", "missing", nil), http.StatusInternalServerError},
		{services.Wrap(services.ErrUpstream, "identify", "op", "down", nil), http.StatusBadGateway},
		{services.Wrap(services.ErrParse, "identify", "op", "garbled", nil), http.StatusBadGateway},
		{errors.New("untagged"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestTelemetryStatus(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{services.Wrap(services.ErrRateLimited, "", "", "", nil), "rate_limited"},
		{services.Wrap(services.ErrParse, "", "", "", nil), "parse_error"},
		{services.Wrap(services.ErrInput, "", "", "", nil), "rejected"},
		{services.Wrap(services.ErrUpstream, "", "", "", nil), "error"},
		{errors.New("untagged"), "error"},
	}
	for _, tc := range cases {
		if got := services.TelemetryStatus(tc.err); got != tc.want {
			t.Fatalf("TelemetryStatus(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestContextAnnotations(t *testing.T) {
	ctx := context.Background()

	if _, ok := services.ItemIDFromContext(ctx); ok {
		t.Fatal("empty context reported an item id")
	}

	ctx = services.WithItemID(ctx, "item-1")
	ctx = services.WithStage(ctx, "identify")
	ctx = services.WithRequestID(ctx, "req-1")

	if id, ok := services.ItemIDFromContext(ctx); !ok || id != "item-1" {
		t.Fatalf("item id = %q, %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "identify" {
		t.Fatalf("stage = %q, %v", stage, ok)
	}
	if id, ok := services.RequestIDFromContext(ctx); !ok || id != "req-1" {
		t.Fatalf("request id = %q, %v", id, ok)
	}

	// Empty values are ignored rather than stored.
	if same := services.WithItemID(context.Background(), ""); same != context.Background() {
		t.Fatal("empty item id changed the context")
	}
}
