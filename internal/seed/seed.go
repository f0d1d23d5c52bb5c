package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/spec-kit/rental-moderation/internal/auth"
	"github.com/spec-kit/rental-moderation/internal/config"
	"github.com/spec-kit/rental-moderation/internal/domain"
)

var categories = []string{"SUV", "Sedan", "Hatchback", "Luxury", "Convertible", "Pickup"}

type listingFixture struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Location        string  `json:"location"`
	Category        string  `json:"category"`
	Price           float64 `json:"price"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
	UserID          string  `json:"userId"`
	Username        string  `json:"username"`
	RejectionReason *string `json:"rejectionReason"`
}

type adminFixture struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PasswordHash string `json:"passwordHash"`
}

// Listings loads the listing fixtures, falling back to generated data
// when no fixture file is configured.
func Listings(cfg config.SeedConfig) ([]domain.Listing, error) {
	if cfg.ListingsFile == "" {
		return GenerateListings(cfg.GeneratedCount), nil
	}

	raw, err := os.ReadFile(cfg.ListingsFile)
	if err != nil {
		return nil, fmt.Errorf("read listings fixture: %w", err)
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("parse listings fixture: %w", err)
	}

	listings := make([]domain.Listing, 0, len(fixtures))
	for i := range fixtures {
		listing, err := fromFixture(&fixtures[i])
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, nil
}

func fromFixture(f *listingFixture) (*domain.Listing, error) {
	now := time.Now().UTC()
	listing := &domain.Listing{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Location:    f.Location,
		Category:    f.Category,
		Price:       f.Price,
		Status:      domain.ListingStatus(f.Status),
		UserID:      f.UserID,
		Username:    f.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}
	if listing.Status == "" {
		listing.Status = domain.ListingStatusPending
	}
	if !listing.Status.Valid() {
		return nil, fmt.Errorf("listing %s: unknown status %q", listing.ID, f.Status)
	}
	if listing.Price < 0 {
		return nil, fmt.Errorf("listing %s: negative price", listing.ID)
	}
	if f.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("listing %s: bad createdAt: %w", listing.ID, err)
		}
		listing.CreatedAt = t
		listing.UpdatedAt = t
	}
	if f.UpdatedAt != "" {
		t, err := time.Parse(time.RFC3339, f.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("listing %s: bad updatedAt: %w", listing.ID, err)
		}
		if t.Before(listing.CreatedAt) {
			return nil, fmt.Errorf("listing %s: updatedAt before createdAt", listing.ID)
		}
		listing.UpdatedAt = t
	}
	if f.RejectionReason != nil && strings.TrimSpace(*f.RejectionReason) != "" {
		if listing.Status != domain.ListingStatusRejected {
			return nil, fmt.Errorf("listing %s: rejectionReason on %s listing", listing.ID, listing.Status)
		}
		reason := *f.RejectionReason
		listing.RejectionReason = &reason
	} else if listing.Status == domain.ListingStatusRejected {
		return nil, fmt.Errorf("listing %s: rejected without reason", listing.ID)
	}
	return listing, nil
}

// GenerateListings fabricates a plausible collection biased towards
// pending submissions so the moderation queue is never empty.
func GenerateListings(count int) []domain.Listing {
	if count <= 0 {
		count = 25
	}
	now := time.Now().UTC()
	listings := make([]domain.Listing, 0, count)
	for i := 0; i < count; i++ {
		car := gofakeit.Car()
		createdAt := gofakeit.DateRange(now.AddDate(0, 0, -6), now)
		listing := domain.Listing{
			ID:          uuid.NewString(),
			Title:       fmt.Sprintf("%s %s %d", car.Brand, car.Model, car.Year),
			Description: gofakeit.Sentence(12),
			Location:    gofakeit.City(),
			Category:    categories[gofakeit.Number(0, len(categories)-1)],
			Price:       gofakeit.Price(400, 5000),
			Status:      domain.ListingStatusPending,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
			UserID:      fmt.Sprintf("CUST-%04d", gofakeit.Number(1000, 9999)),
			Username:    gofakeit.Name(),
		}
		// roughly a third of the queue arrives already decided
		switch gofakeit.Number(0, 5) {
		case 0:
			listing.Status = domain.ListingStatusApproved
			listing.UpdatedAt = createdAt.Add(time.Hour)
		case 1:
			listing.Status = domain.ListingStatusRejected
			reason := gofakeit.Sentence(6)
			listing.RejectionReason = &reason
			listing.UpdatedAt = createdAt.Add(time.Hour)
		}
		listings = append(listings, listing)
	}
	return listings
}

// Admins loads moderator accounts, hashing plaintext fixture passwords.
// Without a fixture file a single default admin is created.
func Admins(cfg config.SeedConfig, bcryptCost int) ([]domain.Admin, error) {
	if cfg.AdminsFile == "" {
		return defaultAdmins(bcryptCost)
	}

	raw, err := os.ReadFile(cfg.AdminsFile)
	if err != nil {
		return nil, fmt.Errorf("read admins fixture: %w", err)
	}
	var fixtures []adminFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("parse admins fixture: %w", err)
	}

	admins := make([]domain.Admin, 0, len(fixtures))
	for _, f := range fixtures {
		admin := domain.Admin{
			ID:           f.ID,
			Name:         f.Name,
			Email:        f.Email,
			PasswordHash: f.PasswordHash,
			CreatedAt:    time.Now().UTC(),
		}
		if admin.ID == "" {
			admin.ID = uuid.NewString()
		}
		if admin.Email == "" {
			return nil, fmt.Errorf("admin %s: email required", admin.ID)
		}
		if admin.PasswordHash == "" {
			if f.Password == "" {
				return nil, fmt.Errorf("admin %s: password or passwordHash required", admin.Email)
			}
			hash, err := auth.HashPassword(f.Password, bcryptCost)
			if err != nil {
				return nil, err
			}
			admin.PasswordHash = hash
		}
		admins = append(admins, admin)
	}
	return admins, nil
}

func defaultAdmins(bcryptCost int) ([]domain.Admin, error) {
	hash, err := auth.HashPassword("admin123", bcryptCost)
	if err != nil {
		return nil, err
	}
	return []domain.Admin{{
		ID:           uuid.NewString(),
		Name:         "Default Admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}}, nil
}
