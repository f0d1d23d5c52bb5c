package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/rental-moderation/internal/domain"
	"github.com/spec-kit/rental-moderation/internal/repository"
)

const statsCacheKey = "stats:overview"

// StatsOverview aggregates the counts the dashboard charts consume.
type StatsOverview struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByCategory map[string]int `json:"byCategory"`
	Daily      []DailyCount   `json:"daily"`
}

// DailyCount is the listing volume for one day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StatsService computes dashboard aggregates with a Redis cache in front
// of the store. Cache failures fall through to a fresh computation.
type StatsService struct {
	listings repository.ListingRepository
	cache    *redis.Client
	ttl      time.Duration
}

// NewStatsService constructs the service. cache may be nil.
func NewStatsService(listings repository.ListingRepository, cache *redis.Client, ttl time.Duration) *StatsService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsService{listings: listings, cache: cache, ttl: ttl}
}

// Overview returns listing totals, status/category distributions and the
// daily volume for the trailing seven days.
func (s *StatsService) Overview(ctx context.Context) (*StatsOverview, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	listings, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}
	overview := computeOverview(listings, time.Now().UTC())
	s.toCache(ctx, overview)
	return overview, nil
}

// Invalidate drops the cached overview after a mutation.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, statsCacheKey).Err()
}

func computeOverview(listings []domain.Listing, now time.Time) *StatsOverview {
	overview := &StatsOverview{
		Total:      len(listings),
		ByStatus:   map[string]int{},
		ByCategory: map[string]int{},
	}
	for _, status := range []domain.ListingStatus{
		domain.ListingStatusPending,
		domain.ListingStatusApproved,
		domain.ListingStatusRejected,
	} {
		overview.ByStatus[string(status)] = 0
	}

	dayCounts := map[string]int{}
	for _, listing := range listings {
		overview.ByStatus[string(listing.Status)]++
		if listing.Category != "" {
			overview.ByCategory[listing.Category]++
		}
		dayCounts[listing.CreatedAt.UTC().Format("2006-01-02")]++
	}

	start := now.AddDate(0, 0, -6)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		overview.Daily = append(overview.Daily, DailyCount{Date: day, Count: dayCounts[day]})
	}
	return overview
}

func (s *StatsService) fromCache(ctx context.Context) *StatsOverview {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var overview StatsOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return nil
	}
	return &overview
}

func (s *StatsService) toCache(ctx context.Context, overview *StatsOverview) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, statsCacheKey, raw, s.ttl).Err()
}
