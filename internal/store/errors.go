package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ianfinch/blog-tweet/internal/promo"
)

// Put writes one failed posting attempt to the error table.
func (s *Store) Put(ctx context.Context, record promo.ErrorRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tweet_errors (id, template, status_code, body, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		uuid.NewString(),
		record.Template,
		record.StatusCode,
		record.Body,
		record.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("put error record: %w", err)
	}
	return nil
}
