// Package social is the HTTP client for the social network's status API:
// posting a status and reading the account's recent timeline.
package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/ianfinch/blog-tweet/internal/promo"
)

type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("social api returned status: %d", e.StatusCode)
}

type Client struct {
	baseURL     string
	client      *http.Client
	executor    failsafe.Executor[*http.Response]
	shouldRetry func(resp *http.Response, err error) bool
}

type Option func(*Client)

// NewClient creates a client for the status API at baseURL. Timeline reads
// go through a retrying executor; posting never retries since a status post
// is not idempotent.
func NewClient(baseURL string, opts ...Option) *Client {
	shouldRetry := func(resp *http.Response, err error) bool {
		if err != nil {
			return true
		}
		return resp != nil && resp.StatusCode >= 500
	}

	retry := retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(100*time.Millisecond, 5*time.Second).
		WithMaxRetries(3).
		WithJitterFactor(0.1).
		HandleIf(func(resp *http.Response, err error) bool {
			return shouldRetry(resp, err)
		}).
		Build()

	c := &Client{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		executor:    failsafe.With(retry),
		shouldRetry: shouldRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

type statusPayload struct {
	Status string `json:"status"`
}

type statusResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type timelineItem struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

func setAuth(req *http.Request, creds promo.Credentials) {
	req.Header.Set("X-API-Key", creds.APIKey)
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
}

// PostStatus posts one status. A non-success response is returned with its
// status code and body rather than as an error, so the caller can record the
// rejection; only transport failures surface as errors.
func (c *Client) PostStatus(ctx context.Context, creds promo.Credentials, text string) (promo.PostResponse, error) {
	url := fmt.Sprintf("%s/api/statuses", c.baseURL)

	jsonBody, err := json.Marshal(statusPayload{Status: text})
	if err != nil {
		return promo.PostResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return promo.PostResponse{}, err
	}
	setAuth(req, creds)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return promo.PostResponse{}, fmt.Errorf("post status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return promo.PostResponse{StatusCode: resp.StatusCode}, fmt.Errorf("read post response: %w", err)
	}

	out := promo.PostResponse{StatusCode: resp.StatusCode, Body: string(raw)}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var status statusResponse
		if err := json.Unmarshal(raw, &status); err != nil {
			return out, fmt.Errorf("decode posted status: %w", err)
		}
		out.Status = &promo.PostedStatus{
			ID:        status.ID,
			Text:      status.Text,
			Author:    status.Author,
			CreatedAt: status.CreatedAt,
		}
	}

	return out, nil
}

// RecentTimeline fetches the account's most recent posts, newest first.
func (c *Client) RecentTimeline(ctx context.Context, creds promo.Credentials, count int) ([]promo.RecentPost, error) {
	url := fmt.Sprintf("%s/api/timeline?count=%d", c.baseURL, count)

	resp, err := c.doRequest(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, err
		}
		setAuth(req, creds)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timeline: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	var items []timelineItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}

	posts := make([]promo.RecentPost, 0, len(items))
	for _, item := range items {
		posts = append(posts, promo.RecentPost{Text: item.Text, Source: item.Source})
	}
	return posts, nil
}

func (c *Client) doRequest(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	if c.executor == nil {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		return c.client.Do(req)
	}

	return c.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if c.shouldRetry != nil && c.shouldRetry(resp, err) {
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
		}
		return resp, err
	})
}
