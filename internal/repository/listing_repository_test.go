package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/rental-moderation/internal/domain"
)

func seedListing(id string, createdAt time.Time) domain.Listing {
	return domain.Listing{
		ID:        id,
		Title:     "Honda City 2022",
		Category:  "Sedan",
		Price:     400,
		Status:    domain.ListingStatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		UserID:    "CUST-0001",
		Username:  "ravi",
	}
}

func newSeededRepo(t *testing.T, listings ...domain.Listing) ListingRepository {
	t.Helper()
	repo := NewMemoryListingRepository()
	require.NoError(t, repo.SeedIfEmpty(context.Background(), listings))
	return repo
}

func TestMemoryRepositoryGetByIDNotFound(t *testing.T) {
	repo := newSeededRepo(t, seedListing("L1", time.Now()))

	_, err := repo.GetByID(context.Background(), "L9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryReplaceUnknownID(t *testing.T) {
	repo := newSeededRepo(t, seedListing("L1", time.Now()))

	listing := seedListing("L9", time.Now())
	err := repo.Replace(context.Background(), "L9", &listing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryListNewestFirst(t *testing.T) {
	base := time.Now().UTC()
	repo := newSeededRepo(t,
		seedListing("L1", base.Add(-2*time.Hour)),
		seedListing("L2", base),
		seedListing("L3", base.Add(-time.Hour)),
	)

	listings, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Equal(t, "L2", listings[0].ID)
	assert.Equal(t, "L3", listings[1].ID)
	assert.Equal(t, "L1", listings[2].ID)
}

func TestMemoryRepositoryListReturnsSnapshot(t *testing.T) {
	repo := newSeededRepo(t, seedListing("L1", time.Now()))

	first, err := repo.List(context.Background())
	require.NoError(t, err)
	first[0].Title = "mutated by caller"
	first[0].Price = -1

	second, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Honda City 2022", second[0].Title)
	assert.Equal(t, float64(400), second[0].Price)
}

func TestMemoryRepositoryListIdempotentWithoutWrites(t *testing.T) {
	repo := newSeededRepo(t,
		seedListing("L1", time.Now().Add(-time.Hour)),
		seedListing("L2", time.Now()),
	)

	first, err := repo.List(context.Background())
	require.NoError(t, err)
	second, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMemoryRepositoryMutateErrorLeavesListingUntouched(t *testing.T) {
	repo := newSeededRepo(t, seedListing("L1", time.Now()))

	boom := errors.New("boom")
	_, err := repo.Mutate(context.Background(), "L1", func(l *domain.Listing) error {
		l.Title = "half applied"
		return boom
	})
	require.ErrorIs(t, err, boom)

	listing, err := repo.GetByID(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, "Honda City 2022", listing.Title)
}

func TestMemoryRepositoryMutateUnknownID(t *testing.T) {
	repo := newSeededRepo(t, seedListing("L1", time.Now()))

	_, err := repo.Mutate(context.Background(), "L9", func(*domain.Listing) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryMutateSerializesSameID(t *testing.T) {
	repo := newSeededRepo(t, seedListing("L1", time.Now()))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.Mutate(context.Background(), "L1", func(l *domain.Listing) error {
				l.Price++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	listing, err := repo.GetByID(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, float64(400+workers), listing.Price, "no increment may be lost")
}

func TestMemoryRepositorySeedIfEmptyIsOneShot(t *testing.T) {
	repo := newSeededRepo(t, seedListing("L1", time.Now()))

	require.NoError(t, repo.SeedIfEmpty(context.Background(), []domain.Listing{seedListing("L2", time.Now())}))

	listings, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "L1", listings[0].ID)
}
