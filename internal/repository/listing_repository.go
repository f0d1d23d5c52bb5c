package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/spec-kit/rental-moderation/internal/domain"
)

// ErrNotFound is returned when no listing matches the requested id.
var ErrNotFound = errors.New("listing not found")

// ListingRepository encapsulates the authoritative listing collection.
//
// Mutate serializes the read-modify-write cycle for a single id: two
// concurrent calls for the same listing are linearized, calls for
// different listings proceed independently.
type ListingRepository interface {
	List(ctx context.Context) ([]domain.Listing, error)
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	Replace(ctx context.Context, id string, listing *domain.Listing) error
	Mutate(ctx context.Context, id string, fn func(*domain.Listing) error) (*domain.Listing, error)
	SeedIfEmpty(ctx context.Context, listings []domain.Listing) error
}

type memoryListingRepository struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewMemoryListingRepository builds the in-process listing store.
func NewMemoryListingRepository() ListingRepository {
	return &memoryListingRepository{
		listings: make(map[string]*domain.Listing),
		locks:    make(map[string]*sync.Mutex),
	}
}

// List returns a snapshot copy ordered newest-first.
func (r *memoryListingRepository) List(_ context.Context) ([]domain.Listing, error) {
	r.mu.RLock()
	result := make([]domain.Listing, 0, len(r.listings))
	for _, listing := range r.listings {
		result = append(result, *listing.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryListingRepository) GetByID(_ context.Context, id string) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return listing.Clone(), nil
}

// Replace atomically swaps the listing matching id.
func (r *memoryListingRepository) Replace(_ context.Context, id string, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return ErrNotFound
	}
	r.listings[id] = listing.Clone()
	return nil
}

// Mutate runs fn on a private copy under the per-id lock and commits the
// result only when fn succeeds, so readers never observe partial updates.
func (r *memoryListingRepository) Mutate(ctx context.Context, id string, fn func(*domain.Listing) error) (*domain.Listing, error) {
	lock := r.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(current); err != nil {
		return nil, err
	}
	if err := r.Replace(ctx, id, current); err != nil {
		return nil, err
	}
	return current.Clone(), nil
}

func (r *memoryListingRepository) SeedIfEmpty(_ context.Context, listings []domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.listings) > 0 {
		return nil
	}
	for i := range listings {
		r.listings[listings[i].ID] = listings[i].Clone()
	}
	return nil
}

func (r *memoryListingRepository) lockFor(id string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	lock, ok := r.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[id] = lock
	}
	return lock
}
