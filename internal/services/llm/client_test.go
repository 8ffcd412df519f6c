package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type scriptedResponse struct {
	status     int
	body       string
	retryAfter string
}

// scriptedTransport replays canned responses in order, repeating the last one
// once the script runs out.
type scriptedTransport struct {
	responses []scriptedResponse
	calls     int
}

func (s *scriptedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	canned := s.responses[idx]
	resp := &http.Response{
		StatusCode: canned.status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(canned.body)),
		Request:    r,
	}
	if canned.retryAfter != "" {
		resp.Header.Set("Retry-After", canned.retryAfter)
	}
	return resp, nil
}

const successBody = `{"choices": [{"message": {"content": "{\"ok\":true}"}}]}`

func newTestClient(transport *scriptedTransport, slept *[]time.Duration) *Client {
	return NewClient(Config{
		APIKey:  "test",
		BaseURL: "http://llm.invalid/v1/chat/completions",
		Model:   "test-model",
	},
		WithHTTPClient(&http.Client{Transport: transport}),
		WithRetryBackoff(time.Second, 10*time.Second),
		WithSleeper(func(d time.Duration) {
			*slept = append(*slept, d)
		}),
	)
}

func TestCompleteJSONSuccess(t *testing.T) {
	var slept []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{{status: 200, body: successBody}}}
	client := newTestClient(transport, &slept)

	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("content = %q", content)
	}
	if transport.calls != 1 || len(slept) != 0 {
		t.Fatalf("calls = %d, sleeps = %v", transport.calls, slept)
	}
}

func TestCompleteJSONRetriesServerErrors(t *testing.T) {
	var slept []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: 500, body: "upstream exploded"},
		{status: 200, body: successBody},
	}}
	client := newTestClient(transport, &slept)

	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("content = %q", content)
	}
	if transport.calls != 2 {
		t.Fatalf("calls = %d, want 2", transport.calls)
	}
}

func TestCompleteJSONHonorsRetryAfter(t *testing.T) {
	var slept []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: 429, body: "slow down", retryAfter: "2"},
		{status: 200, body: successBody},
	}}
	client := newTestClient(transport, &slept)

	if _, err := client.CompleteJSON(context.Background(), "system", "user"); err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Fatalf("sleeps = %v, want [2s]", slept)
	}
}

func TestCompleteJSONRateLimitExhaustion(t *testing.T) {
	var slept []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: 429, body: "slow down"},
	}}
	client := newTestClient(transport, &slept)

	_, err := client.CompleteJSON(context.Background(), "system", "user")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if transport.calls != 3 {
		t.Fatalf("calls = %d, want 3", transport.calls)
	}
}

func TestCompleteJSONDoesNotRetryClientErrors(t *testing.T) {
	var slept []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: 400, body: "bad request"},
	}}
	client := newTestClient(transport, &slept)

	if _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error")
	}
	if transport.calls != 1 {
		t.Fatalf("calls = %d, want 1", transport.calls)
	}
}

func TestCompleteJSONRetriesEmptyContent(t *testing.T) {
	var slept []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{
		{status: 200, body: `{"choices": [{"message": {"content": ""}, "finish_reason": "stop"}]}`},
		{status: 200, body: successBody},
	}}
	client := newTestClient(transport, &slept)

	content, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}
	if content != `{"ok":true}` {
		t.Fatalf("content = %q", content)
	}
	if transport.calls != 2 {
		t.Fatalf("calls = %d, want 2", transport.calls)
	}
}

func TestCompleteJSONValidation(t *testing.T) {
	var slept []time.Duration
	transport := &scriptedTransport{responses: []scriptedResponse{{status: 200, body: successBody}}}
	client := newTestClient(transport, &slept)
	ctx := context.Background()

	if _, err := client.CompleteJSON(ctx, "", "user"); err == nil {
		t.Fatal("missing system prompt accepted")
	}
	if _, err := client.CompleteJSON(ctx, "system", ""); err == nil {
		t.Fatal("missing user prompt accepted")
	}
	if _, err := client.CompleteVisionJSON(ctx, "system", "user", nil); err == nil {
		t.Fatal("missing image accepted")
	}

	unkeyed := NewClient(Config{Model: "m"}, WithHTTPClient(&http.Client{Transport: transport}))
	if _, err := unkeyed.CompleteJSON(ctx, "system", "user"); err == nil {
		t.Fatal("missing api key accepted")
	}
	if transport.calls != 0 {
		t.Fatalf("validation reached the network: %d calls", transport.calls)
	}
}

func TestParseRetryAfterSeconds(t *testing.T) {
	if d, ok := parseRetryAfter("5"); !ok || d != 5*time.Second {
		t.Fatalf("parseRetryAfter(5) = %v, %v", d, ok)
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Fatal("negative value accepted")
	}
	if _, ok := parseRetryAfter(""); ok {
		t.Fatal("empty value accepted")
	}
}
