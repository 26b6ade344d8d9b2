package social

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ianfinch/blog-tweet/internal/promo"
)

// newTestClient builds a client without an executor so tests exercise the
// direct request path and transport errors are not wrapped by retry policies.
func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func testCredentials() promo.Credentials {
	return promo.Credentials{
		APIKey:       "key-123",
		APISecret:    "secret-123",
		AccessToken:  "token-456",
		AccessSecret: "secret-456",
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("http://social.local")

	if c.baseURL != "http://social.local" {
		t.Fatalf("unexpected base URL: %s", c.baseURL)
	}
	if c.client == nil || c.client.Timeout != 10*time.Second {
		t.Fatalf("expected default http client with 10s timeout")
	}
	if c.executor == nil {
		t.Fatalf("expected a configured executor")
	}
}

func TestWithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}
	c := NewClient("http://social.local", WithHTTPClient(custom))

	if c.client != custom {
		t.Fatalf("expected custom http client to be used")
	}
}

func TestPostStatusSuccess(t *testing.T) {
	created := time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/statuses" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "key-123" {
			t.Errorf("unexpected api key header: %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-456" {
			t.Errorf("unexpected authorization header: %s", got)
		}

		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("malformed request body: %v", err)
		}
		if payload["status"] != "Read this https://blog.example.com/read-this" {
			t.Errorf("unexpected status text: %s", payload["status"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statusResponse{
			ID:        "900100",
			Text:      payload["status"],
			Author:    "ianfinch",
			Source:    "blog-tweet",
			CreatedAt: created,
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	resp, err := c.PostStatus(context.Background(), testCredentials(), "Read this https://blog.example.com/read-this")
	if err != nil {
		t.Fatalf("PostStatus failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}
	if resp.Status == nil {
		t.Fatalf("expected a decoded status")
	}
	if resp.Status.ID != "900100" || resp.Status.Author != "ianfinch" {
		t.Fatalf("unexpected decoded status: %+v", resp.Status)
	}
	if !resp.Status.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created time: %v", resp.Status.CreatedAt)
	}
}

func TestPostStatusRejectedIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"duplicate status"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	resp, err := c.PostStatus(context.Background(), testCredentials(), "hello")
	if err != nil {
		t.Fatalf("expected rejection without transport error, got: %v", err)
	}

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}
	if resp.Body != `{"error":"duplicate status"}` {
		t.Fatalf("unexpected body: %s", resp.Body)
	}
	if resp.Status != nil {
		t.Fatalf("rejected post should not decode a status")
	}
}

func TestPostStatusTransportError(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	if _, err := c.PostStatus(context.Background(), testCredentials(), "hello"); err == nil {
		t.Fatalf("expected an error for an unreachable server")
	}
}

func TestPostStatusMalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	resp, err := c.PostStatus(context.Background(), testCredentials(), "hello")
	if err == nil {
		t.Fatalf("expected a decode error")
	}
	if resp.StatusCode != http.StatusOK || resp.Body != "not json" {
		t.Fatalf("expected raw response to be preserved, got: %+v", resp)
	}
}

func TestRecentTimeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/timeline" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("count"); got != "5" {
			t.Errorf("unexpected count: %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-456" {
			t.Errorf("unexpected authorization header: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"text":"morning thoughts","source":"web"},
			{"text":"Read this https://blog.example.com/read-this","source":"blog-tweet"}
		]`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	posts, err := c.RecentTimeline(context.Background(), testCredentials(), 5)
	if err != nil {
		t.Fatalf("RecentTimeline failed: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Text != "morning thoughts" || posts[0].Source != "web" {
		t.Fatalf("unexpected first post: %+v", posts[0])
	}
	if posts[1].Source != "blog-tweet" {
		t.Fatalf("unexpected second post source: %s", posts[1].Source)
	}
}

func TestRecentTimelineAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.RecentTimeline(context.Background(), testCredentials(), 5)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected an APIError, got: %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status code: %d", apiErr.StatusCode)
	}
}
