// Package store persists templates, tweet history and posting errors in
// PostgreSQL, exposing the paginated scans the promotion engine aggregates
// over.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ianfinch/blog-tweet/internal/promo"
	"github.com/ianfinch/blog-tweet/pkg/database"
	"github.com/ianfinch/blog-tweet/pkg/logging"
	"github.com/ianfinch/blog-tweet/pkg/pagination"
)

const defaultPageSize = 100

// Store implements the engine's store and error log contracts on PostgreSQL.
type Store struct {
	db       database.PostgresConn
	pageSize int
	logger   logging.Logger
}

// New creates a store with the default page size.
func New(db database.PostgresConn, logger logging.Logger) *Store {
	return &Store{db: db, pageSize: defaultPageSize, logger: logger}
}

// ScanTemplates returns one page of the template table in stable keyset
// order. The returned token continues the scan; it is empty on the last page.
func (s *Store) ScanTemplates(ctx context.Context, token string) (promo.Page[promo.Template], error) {
	var page promo.Page[promo.Template]

	cursor, err := pagination.DecodeCursor(token)
	if err != nil {
		return page, fmt.Errorf("decode templates cursor: %w", err)
	}

	keyset := &pagination.KeysetBuilder{TimestampColumn: "created_at", IDColumn: "name"}
	query := `SELECT name, tweet, slug, active, created_at FROM blog_tweets`
	var args []interface{}
	if cond, condArgs := keyset.Condition(cursor, 1); cond != "" {
		query += " WHERE " + cond
		args = condArgs
	}
	query += " " + keyset.OrderBy() + fmt.Sprintf(" LIMIT %d", s.pageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return page, fmt.Errorf("scan templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lastCreated time.Time
	var lastName string
	for rows.Next() {
		var tpl promo.Template
		var createdAt time.Time
		if err := rows.Scan(&tpl.Name, &tpl.Tweet, &tpl.Slug, &tpl.Active, &createdAt); err != nil {
			return page, fmt.Errorf("scan template row: %w", err)
		}
		page.Items = append(page.Items, tpl)
		lastCreated, lastName = createdAt, tpl.Name
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("scan templates: %w", err)
	}

	if len(page.Items) == s.pageSize {
		page.NextToken = pagination.EncodeCursor(lastCreated, lastName)
	}

	return page, nil
}
