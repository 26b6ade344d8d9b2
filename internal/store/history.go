package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ianfinch/blog-tweet/internal/promo"
	"github.com/ianfinch/blog-tweet/pkg/pagination"
)

// ScanHistory returns one page of the tweet history in stable keyset order.
func (s *Store) ScanHistory(ctx context.Context, token string) (promo.Page[promo.HistoryEntry], error) {
	var page promo.Page[promo.HistoryEntry]

	cursor, err := pagination.DecodeCursor(token)
	if err != nil {
		return page, fmt.Errorf("decode history cursor: %w", err)
	}

	keyset := &pagination.KeysetBuilder{TimestampColumn: "created_at", IDColumn: "id"}
	query := `SELECT id, template, tweet_id, text, author, posted_at, created_at FROM tweet_history`
	var args []interface{}
	if cond, condArgs := keyset.Condition(cursor, 1); cond != "" {
		query += " WHERE " + cond
		args = condArgs
	}
	query += " " + keyset.OrderBy() + fmt.Sprintf(" LIMIT %d", s.pageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return page, fmt.Errorf("scan history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lastCreated time.Time
	var lastID string
	for rows.Next() {
		var entry promo.HistoryEntry
		var id string
		var createdAt time.Time
		if err := rows.Scan(&id, &entry.Template, &entry.TweetID, &entry.Text, &entry.Author, &entry.PostedAt, &createdAt); err != nil {
			return page, fmt.Errorf("scan history row: %w", err)
		}
		page.Items = append(page.Items, entry)
		lastCreated, lastID = createdAt, id
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("scan history: %w", err)
	}

	if len(page.Items) == s.pageSize {
		page.NextToken = pagination.EncodeCursor(lastCreated, lastID)
	}

	return page, nil
}

// AppendHistory records one sent tweet. History is append-only; nothing
// deduplicates concurrent runs.
func (s *Store) AppendHistory(ctx context.Context, entry promo.HistoryEntry) error {
	if entry.Template == "" {
		return fmt.Errorf("history entry requires a template name")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tweet_history (id, template, tweet_id, text, author, posted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`,
		uuid.NewString(),
		entry.Template,
		entry.TweetID,
		entry.Text,
		entry.Author,
		entry.PostedAt,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
