// Package promo implements the selection-and-decision engine behind the
// periodic blog promotion run: aggregating paginated store scans, weighting
// templates inversely to how often they have been tweeted, gating on recent
// timeline activity, and orchestrating the post-or-skip decision.
package promo

import "time"

// Template is one promotional tweet template. Templates are a read-only
// snapshot fetched fresh each run; Tweeted is derived from history, never
// persisted.
type Template struct {
	Name    string `json:"name"`
	Tweet   string `json:"tweet"`
	Slug    string `json:"slug"`
	Active  bool   `json:"active"`
	Tweeted int    `json:"tweeted"`
}

// HistoryEntry records one tweet that was actually sent. Append-only; one
// entry is appended per successful run.
type HistoryEntry struct {
	Template string    `json:"template"`
	TweetID  string    `json:"tweet_id"`
	Text     string    `json:"text"`
	Author   string    `json:"author"`
	PostedAt time.Time `json:"posted_at"`
}

// Population maps template name to the template enriched with its usage
// count.
type Population map[string]*Template

// RecentPost is one post from the account's recent timeline. Source is the
// provenance tag of the client that created the post.
type RecentPost struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// ErrorRecord captures a failed posting attempt for the error table.
type ErrorRecord struct {
	Template   string    `json:"template"`
	StatusCode int       `json:"status_code"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Credentials is the social API credential blob read once per run.
type Credentials struct {
	APIKey       string `json:"api_key"`
	APISecret    string `json:"api_secret"`
	AccessToken  string `json:"access_token"`
	AccessSecret string `json:"access_secret"`
}
