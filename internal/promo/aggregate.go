package promo

import "context"

// Page is one page of records from a paginated scan. NextToken is empty when
// no more pages remain.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// PageFunc fetches a single page. The token is empty for the first page and
// carries the previous page's continuation token afterwards.
type PageFunc[T any] func(ctx context.Context, token string) (Page[T], error)

// Aggregate drains a paginated source, folding every record into the
// accumulator. Pagination is strictly sequential: each request depends on the
// token returned by the previous page. A fetch error aborts immediately with
// the partial accumulator; there are no retries at this layer.
func Aggregate[T, A any](ctx context.Context, fetch PageFunc[T], acc A, fold func(A, T) A) (A, error) {
	token := ""
	for {
		page, err := fetch(ctx, token)
		if err != nil {
			return acc, err
		}
		for _, item := range page.Items {
			acc = fold(acc, item)
		}
		if page.NextToken == "" {
			return acc, nil
		}
		token = page.NextToken
	}
}
