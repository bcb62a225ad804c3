// Package pager walks token-paginated backend listings lazily. One Next call
// fetches exactly one page, so a caller that stops early never pays for the
// pages it did not read.
package pager

import "context"

// ListFunc fetches one page. It returns the page's items and the token for
// the page after it; an empty token means the listing is exhausted.
type ListFunc[T any] func(ctx context.Context, pageSize int, pageToken string) (items []T, nextToken string, err error)

// Pager iterates a paginated listing one page at a time. It is lazy and
// finite: it holds only the current position, never accumulated results.
// A pager is single-use; to restart a traversal, construct a new one.
// Not safe for concurrent use.
type Pager[T any] struct {
	fn       ListFunc[T]
	pageSize int
	token    string
	started  bool
	done     bool
}

// New returns a pager over fn with the given page size. A pageSize of zero
// or less lets the backend choose.
func New[T any](fn ListFunc[T], pageSize int) *Pager[T] {
	return &Pager[T]{fn: fn, pageSize: pageSize}
}

// Next fetches the next page. It returns ok=false once the listing is
// exhausted; after that every call returns ok=false without fetching. An
// empty page with a non-empty token does not end the traversal.
func (p *Pager[T]) Next(ctx context.Context) (items []T, ok bool, err error) {
	if p.done {
		return nil, false, nil
	}

	items, next, err := p.fn(ctx, p.pageSize, p.token)
	if err != nil {
		p.done = true
		return nil, false, err
	}

	p.started = true
	p.token = next
	if next == "" {
		p.done = true
	}
	return items, true, nil
}

// Each applies fn to every item in page order, fetching pages as needed.
// Returning false from fn stops the traversal without fetching further
// pages.
func (p *Pager[T]) Each(ctx context.Context, fn func(item T) bool) error {
	for {
		items, ok, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		for _, item := range items {
			if !fn(item) {
				return nil
			}
		}
	}
}

// Collect drains the remaining pages into one slice. Aggregation is the
// caller's explicit choice; nothing is cached on the pager itself.
func (p *Pager[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T
	err := p.Each(ctx, func(item T) bool {
		out = append(out, item)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
