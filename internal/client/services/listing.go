package services

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Listing is a screen's loaded list plus where it came from.
type Listing[T any] struct {
	mu        sync.RWMutex
	items     []T
	stale     bool
	fetchedAt time.Time
	text      func(T) string
}

// NewListing returns an empty list; text gives the searchable text of an item.
func NewListing[T any](text func(T) string) *Listing[T] {
	return &Listing[T]{text: text}
}

// Load replaces the list with what fetch returns. On error the list is kept.
func (l *Listing[T]) Load(ctx context.Context, fetch func(ctx context.Context) ([]T, Fetched, error)) error {
	items, f, err := fetch(ctx)
	if err != nil {
		return err
	}
	l.Set(items, f)
	return nil
}

func (l *Listing[T]) Set(items []T, f Fetched) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T(nil), items...)
	l.stale = f.Stale
	l.fetchedAt = f.FetchedAt
}

// Items returns a copy of the list.
func (l *Listing[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

func (l *Listing[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Search returns the items whose text contains every word of query,
// ignoring case. An empty query returns everything.
func (l *Listing[T]) Search(query string) []T {
	words := strings.Fields(strings.ToLower(query))

	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(words) == 0 || l.text == nil {
		return append([]T(nil), l.items...)
	}

	var out []T
	for _, it := range l.items {
		hay := strings.ToLower(l.text(it))
		if containsAll(hay, words) {
			out = append(out, it)
		}
	}
	return out
}

func containsAll(hay string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(hay, w) {
			return false
		}
	}
	return true
}

// Stale reports whether the list was served from the cache.
func (l *Listing[T]) Stale() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stale
}

func (l *Listing[T]) FetchedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fetchedAt
}

// Replace swaps the first item matching match for item.
func (l *Listing[T]) Replace(match func(T) bool, item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if match(l.items[i]) {
			l.items[i] = item
			return true
		}
	}
	return false
}

// Find returns the first item matching match.
func (l *Listing[T]) Find(match func(T) bool) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, it := range l.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}
