package promo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ianfinch/blog-tweet/pkg/logging"
)

// Store reads the template and history tables and appends new history.
type Store interface {
	ScanTemplates(ctx context.Context, token string) (Page[Template], error)
	ScanHistory(ctx context.Context, token string) (Page[HistoryEntry], error)
	AppendHistory(ctx context.Context, entry HistoryEntry) error
}

// ErrorLog records failed posting attempts. Writes are best-effort.
type ErrorLog interface {
	Put(ctx context.Context, record ErrorRecord) error
}

// CredentialSource looks up the social API credential blob.
type CredentialSource interface {
	Get(ctx context.Context) (Credentials, error)
}

// PostedStatus describes the post the social network actually created.
type PostedStatus struct {
	ID        string
	Text      string
	Author    string
	CreatedAt time.Time
}

// PostResponse is the social client's reply to a posting attempt. Status is
// only populated on a success status code.
type PostResponse struct {
	StatusCode int
	Body       string
	Status     *PostedStatus
}

// SocialClient posts statuses and reads the account's recent timeline.
type SocialClient interface {
	PostStatus(ctx context.Context, creds Credentials, text string) (PostResponse, error)
	RecentTimeline(ctx context.Context, creds Credentials, count int) ([]RecentPost, error)
}

// Notifier publishes run outcome notifications. Fire and forget.
type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}

// Notification subjects, one per terminal outcome.
const (
	SubjectPosted  = "blog-tweet.posted"
	SubjectSkipped = "blog-tweet.skipped"
	SubjectFailed  = "blog-tweet.failed"
)

// SkipReason is the fixed human-readable reason attached to a gated run.
const SkipReason = "Recent timeline contains automated tweets, holding back this run"

// Config carries the orchestrator's settings. Passed in at construction, not
// read from globals.
type Config struct {
	// BlogBaseURL prefixes the template slug to form the promoted link.
	BlogBaseURL string
	// ClientTag is the provenance tag our own posts carry on the timeline.
	ClientTag string
	// RecentWindow is how many recent posts the gate inspects. Zero means
	// DefaultRecentWindow.
	RecentWindow int
}

// Pipeline sequences one promotion run: aggregate, select, gate, post,
// record, notify. One logical run per invocation with no state shared across
// runs.
type Pipeline struct {
	store    Store
	errorLog ErrorLog
	creds    CredentialSource
	social   SocialClient
	notifier Notifier
	selector *Selector
	cfg      Config
	logger   logging.Logger
}

// NewPipeline creates a pipeline around the given collaborators.
func NewPipeline(store Store, errorLog ErrorLog, creds CredentialSource, social SocialClient, notifier Notifier, selector *Selector, cfg Config, logger logging.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		errorLog: errorLog,
		creds:    creds,
		social:   social,
		notifier: notifier,
		selector: selector,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run executes a single forward pass and returns exactly one terminal
// outcome. Fetch and selection failures abort the run; a rejected post
// triggers the best-effort error record and failure notification before the
// run terminates as failed.
func (p *Pipeline) Run(ctx context.Context) RunResult {
	templates, err := Aggregate(ctx, p.store.ScanTemplates, map[string]Template{},
		func(acc map[string]Template, tpl Template) map[string]Template {
			acc[tpl.Name] = tpl
			return acc
		})
	if err != nil {
		return p.failed(fmt.Errorf("fetch templates: %w", err))
	}

	history, err := Aggregate(ctx, p.store.ScanHistory, []HistoryEntry(nil),
		func(acc []HistoryEntry, entry HistoryEntry) []HistoryEntry {
			return append(acc, entry)
		})
	if err != nil {
		return p.failed(fmt.Errorf("fetch history: %w", err))
	}

	population := BuildPopulation(templates, history, p.logger)

	chosen, err := p.selector.Select(population)
	if err != nil {
		return p.failed(fmt.Errorf("select template: %w", err))
	}

	creds, err := p.creds.Get(ctx)
	if err != nil {
		return p.failed(fmt.Errorf("fetch credentials: %w", err))
	}

	window := p.cfg.RecentWindow
	if window <= 0 {
		window = DefaultRecentWindow
	}
	recent, err := p.social.RecentTimeline(ctx, creds, window)
	if err != nil {
		return p.failed(fmt.Errorf("fetch recent posts: %w", err))
	}

	if !NaturalActivityOnly(recent, p.cfg.ClientTag) {
		p.logger.WithField("template", chosen.Name).Info("Activity gate blocked the run")
		p.notify(ctx, SubjectSkipped, SkipReason)
		return RunResult{Outcome: OutcomeSkipped, Message: SkipReason}
	}

	text := p.renderTweet(chosen)
	resp, err := p.social.PostStatus(ctx, creds, text)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return p.postingFailed(ctx, chosen, resp, err)
	}

	entry := HistoryEntry{
		Template: chosen.Name,
		Text:     text,
		PostedAt: time.Now().UTC(),
	}
	if resp.Status != nil {
		entry.TweetID = resp.Status.ID
		entry.Author = resp.Status.Author
		if resp.Status.Text != "" {
			entry.Text = resp.Status.Text
		}
		if !resp.Status.CreatedAt.IsZero() {
			entry.PostedAt = resp.Status.CreatedAt
		}
	}

	if err := p.store.AppendHistory(ctx, entry); err != nil {
		return p.failed(fmt.Errorf("record history: %w", err))
	}

	message := fmt.Sprintf("Tweeted %q", entry.Text)
	p.logger.WithFields(logging.Fields{
		"template": chosen.Name,
		"tweet_id": entry.TweetID,
	}).Info("Promotion tweeted")
	p.notify(ctx, SubjectPosted, message)

	return RunResult{Outcome: OutcomePosted, Message: message, Entry: &entry}
}

// postingFailed handles a rejected or errored post: write an error record,
// send the failure notification, terminate as failed. The side effects are
// best-effort and cannot fail the error path itself.
func (p *Pipeline) postingFailed(ctx context.Context, chosen *Template, resp PostResponse, postErr error) RunResult {
	record := ErrorRecord{
		Template:   chosen.Name,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		OccurredAt: time.Now().UTC(),
	}
	if postErr == nil {
		postErr = fmt.Errorf("post rejected with status %d", resp.StatusCode)
	} else if record.Body == "" {
		record.Body = postErr.Error()
	}

	if err := p.errorLog.Put(ctx, record); err != nil {
		p.logger.WithError(err).WithField("template", chosen.Name).Error("Failed to write error record")
	}
	p.notify(ctx, SubjectFailed, fmt.Sprintf("Tweet for template %q failed: %v", chosen.Name, postErr))

	return p.failed(fmt.Errorf("post status: %w", postErr))
}

func (p *Pipeline) notify(ctx context.Context, subject, message string) {
	if err := p.notifier.Publish(ctx, subject, message); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to publish notification")
	}
}

func (p *Pipeline) failed(err error) RunResult {
	p.logger.WithError(err).Error("Promotion run failed")
	return RunResult{Outcome: OutcomeFailed, Err: err}
}

func (p *Pipeline) renderTweet(tpl *Template) string {
	if tpl.Slug == "" {
		return tpl.Tweet
	}
	return fmt.Sprintf("%s %s/%s", tpl.Tweet, strings.TrimRight(p.cfg.BlogBaseURL, "/"), tpl.Slug)
}
