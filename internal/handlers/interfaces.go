package handlers

import (
	"context"

	"github.com/ianfinch/blog-tweet/internal/promo"
)

type PromoRunner interface {
	Run(ctx context.Context) promo.RunResult
}
