package promo

import (
	"context"
	"errors"
	"testing"
)

func TestAggregateDrainsAllPages(t *testing.T) {
	pages := map[string]Page[int]{
		"":   {Items: []int{1, 2}, NextToken: "p2"},
		"p2": {Items: []int{3}, NextToken: "p3"},
		"p3": {Items: []int{4, 5}},
	}
	var requested []string

	got, err := Aggregate(context.Background(),
		func(ctx context.Context, token string) (Page[int], error) {
			requested = append(requested, token)
			return pages[token], nil
		},
		[]int(nil),
		func(acc []int, v int) []int { return append(acc, v) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i, want := range []int{1, 2, 3, 4, 5} {
		if got[i] != want {
			t.Fatalf("item %d: expected %d, got %d", i, want, got[i])
		}
	}
	if len(requested) != 3 || requested[1] != "p2" || requested[2] != "p3" {
		t.Fatalf("unexpected token sequence: %v", requested)
	}
}

func TestAggregateEmptySource(t *testing.T) {
	got, err := Aggregate(context.Background(),
		func(ctx context.Context, token string) (Page[string], error) {
			return Page[string]{}, nil
		},
		map[string]string{},
		func(acc map[string]string, v string) map[string]string {
			acc[v] = v
			return acc
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty collection, got %d items", len(got))
	}
}

func TestAggregatePropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("store unavailable")
	calls := 0

	_, err := Aggregate(context.Background(),
		func(ctx context.Context, token string) (Page[int], error) {
			calls++
			if token == "" {
				return Page[int]{Items: []int{1}, NextToken: "next"}, nil
			}
			return Page[int]{}, fetchErr
		},
		0,
		func(acc, v int) int { return acc + v })
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected no further fetches after the error, got %d calls", calls)
	}
}
