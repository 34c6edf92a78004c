// Package progress owns the bookmark collection: a most-recent-first list,
// unique by normalized URL and bounded in size, persisted as one value in a
// durable key-value store.
//
// Every mutation is a read-modify-write of the whole collection, serialized
// by the Store's mutex. The Store is meant to be the only writer of its key.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/domain"
	"github.com/MrSnakeDoc/readmark/internal/store"
	"github.com/google/uuid"
)

const (
	// DefaultCapacity is the hard ceiling on stored records.
	DefaultCapacity = 200

	// CollectionKey is the KV key the collection is stored under.
	CollectionKey = "bookmarks"
)

var (
	// ErrNotFound is returned when no record matches an id or URL.
	ErrNotFound = errors.New("bookmark not found")

	// ErrCapacityExhausted is returned by Upsert when the store is full of
	// pinned records and a new one cannot be kept.
	ErrCapacityExhausted = errors.New("capacity exhausted by pinned bookmarks")

	// ErrMissingURL is returned by Upsert for payloads without a usable URL.
	ErrMissingURL = errors.New("bookmark url is required")
)

// Options tunes a Store. Zero values pick the defaults.
type Options struct {
	Capacity int
	Now      func() time.Time
	NewID    func() string
}

// Store is the authoritative bookmark collection.
type Store struct {
	mu       sync.Mutex
	kv       store.KV
	capacity int
	now      func() time.Time
	newID    func() string
}

// New creates a Store persisting into kv
func New(kv store.KV, opts Options) *Store {
	s := &Store{
		kv:       kv,
		capacity: opts.Capacity,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	if s.capacity <= 0 {
		s.capacity = DefaultCapacity
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	return s
}

// Capacity returns the configured ceiling
func (s *Store) Capacity() int {
	return s.capacity
}

// Upsert merges p into the record with the same normalized URL, or creates
// one at the front of the collection. updated reports which happened.
func (s *Store) Upsert(ctx context.Context, p domain.CapturePayload) (*domain.Bookmark, bool, error) {
	key := domain.NormalizeURL(p.URL)
	if key == "" {
		return nil, false, ErrMissingURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	if i := indexByURL(list, key); i >= 0 {
		list[i].Merge(p, now)
		if err := s.save(ctx, list); err != nil {
			return nil, false, err
		}
		return list[i].Clone(), true, nil
	}

	b := &domain.Bookmark{
		ID:        s.newID(),
		CreatedAt: domain.Millis(now),
	}
	b.Merge(p, now)
	if b.Title == "" {
		b.Title = b.URL
	}

	list = append([]*domain.Bookmark{b}, list...)
	list = trim(list, s.capacity)
	if indexByID(list, b.ID) < 0 {
		return nil, false, ErrCapacityExhausted
	}

	if err := s.save(ctx, list); err != nil {
		return nil, false, err
	}
	return b.Clone(), false, nil
}

// UpdateProgress applies a live scroll/media update to an existing record.
// Pages that were never captured are not created here.
func (s *Store) UpdateProgress(ctx context.Context, u domain.ProgressUpdate) (*domain.Bookmark, error) {
	key := domain.NormalizeURL(u.URL)

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexByURL(list, key)
	if i < 0 {
		return nil, ErrNotFound
	}

	list[i].ApplyProgress(u, s.now())
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return list[i].Clone(), nil
}

// Remove deletes a record by id. Removing an unknown id is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexByID(list, id)
	if i < 0 {
		return nil
	}
	list = append(list[:i], list[i+1:]...)
	return s.save(ctx, list)
}

// SetPinned sets the pin flag of a record
func (s *Store) SetPinned(ctx context.Context, id string, pinned bool) (*domain.Bookmark, error) {
	return s.mutate(ctx, id, func(b *domain.Bookmark) bool {
		b.Pinned = pinned
		return true
	})
}

// TogglePin flips the pin flag of a record
func (s *Store) TogglePin(ctx context.Context, id string) (*domain.Bookmark, error) {
	return s.mutate(ctx, id, func(b *domain.Bookmark) bool {
		b.Pinned = !b.Pinned
		return true
	})
}

// Rename sets the title. A blank title leaves the record untouched.
func (s *Store) Rename(ctx context.Context, id, title string) (*domain.Bookmark, error) {
	title = strings.TrimSpace(title)
	return s.mutate(ctx, id, func(b *domain.Bookmark) bool {
		if title == "" {
			return false
		}
		b.Title = title
		return true
	})
}

// mutate applies fn to the record with the given id and persists the
// collection when fn reports a change.
func (s *Store) mutate(ctx context.Context, id string, fn func(*domain.Bookmark) bool) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexByID(list, id)
	if i < 0 {
		return nil, ErrNotFound
	}

	if !fn(list[i]) {
		return list[i].Clone(), nil
	}
	list[i].UpdatedAt = domain.Millis(s.now())
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return list[i].Clone(), nil
}

// Get returns a record by id
func (s *Store) Get(ctx context.Context, id string) (*domain.Bookmark, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	i := indexByID(list, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return list[i], nil
}

// Lookup returns the record for a page URL, ignoring the fragment
func (s *Store) Lookup(ctx context.Context, rawURL string) (*domain.Bookmark, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	i := indexByURL(list, domain.NormalizeURL(rawURL))
	if i < 0 {
		return nil, ErrNotFound
	}
	return list[i], nil
}

// All returns a copy of the collection in stored (most-recent-first) order
func (s *Store) All(ctx context.Context) ([]*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// ListOptions selects and orders a listing.
type ListOptions struct {
	Filter domain.Filter
	Sort   domain.SortMode
	Query  string // optional free-text search; ranks by relevance when set
}

// List returns the filtered collection, pinned records first
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*domain.Bookmark, error) {
	list, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	list = domain.FilterBookmarks(list, opts.Filter)

	if q := strings.TrimSpace(opts.Query); q != "" {
		candidates := domain.SearchBookmarks(q, list)
		list = make([]*domain.Bookmark, len(candidates))
		for i, c := range candidates {
			list[i] = c.Bookmark
		}
		domain.PinnedFirst(list)
		return list, nil
	}

	domain.SortBookmarks(list, opts.Sort)
	return list, nil
}

// Clear removes every record
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, []*domain.Bookmark{})
}

// RemoveStale deletes unpinned records not updated since cutoff and returns
// how many were removed.
func (s *Store) RemoveStale(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	limit := domain.Millis(cutoff)
	kept := list[:0]
	removed := 0
	for _, b := range list {
		last := b.UpdatedAt
		if last == 0 {
			last = b.CreatedAt
		}
		if !b.Pinned && last < limit {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(ctx, kept)
}

// ImportResult reports what Import did.
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Evicted int `json:"evicted"`
	Total   int `json:"total"`
}

// Import merges records from a backup. Unknown URLs are added keeping their
// id and timestamps; known URLs are overwritten only when the imported copy
// is newer. The collection is re-ordered by creation time and trimmed.
func (s *Store) Import(ctx context.Context, records []*domain.Bookmark) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res ImportResult
	list, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	now := domain.Millis(s.now())
	for _, r := range records {
		if r == nil || domain.NormalizeURL(r.URL) == "" {
			res.Skipped++
			continue
		}
		in := r.Clone()
		if in.ID == "" || indexByID(list, in.ID) >= 0 {
			in.ID = s.newID()
		}
		if in.CreatedAt == 0 {
			in.CreatedAt = now
		}
		if in.UpdatedAt == 0 {
			in.UpdatedAt = in.CreatedAt
		}

		i := indexByURL(list, domain.NormalizeURL(in.URL))
		switch {
		case i < 0:
			list = append(list, in)
			res.Added++
		case in.UpdatedAt > list[i].UpdatedAt:
			in.ID = list[i].ID
			in.CreatedAt = list[i].CreatedAt
			list[i] = in
			res.Updated++
		default:
			res.Skipped++
		}
	}

	sortByCreatedDesc(list)
	before := len(list)
	list = trim(list, s.capacity)
	res.Evicted = before - len(list)
	res.Total = len(list)

	return res, s.save(ctx, list)
}

// load reads and decodes the collection. A missing key is an empty list.
func (s *Store) load(ctx context.Context) ([]*domain.Bookmark, error) {
	data, err := s.kv.Get(ctx, CollectionKey)
	if errors.Is(err, store.ErrNotFound) {
		return []*domain.Bookmark{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	var list []*domain.Bookmark
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode bookmarks: %w", err)
	}
	out := list[:0]
	for _, b := range list {
		if b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}

// save encodes and writes the whole collection in one Set.
func (s *Store) save(ctx context.Context, list []*domain.Bookmark) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode bookmarks: %w", err)
	}
	if err := s.kv.Set(ctx, CollectionKey, data); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}
