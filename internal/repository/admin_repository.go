package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/spec-kit/rental-moderation/internal/domain"
)

// ErrAdminNotFound is returned when no admin matches the lookup.
var ErrAdminNotFound = errors.New("admin not found")

// AdminRepository exposes the seeded moderator accounts.
type AdminRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type memoryAdminRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.Admin
	byEmail map[string]domain.Admin
}

// NewMemoryAdminRepository indexes the fixture accounts. Email lookup is
// case-insensitive.
func NewMemoryAdminRepository(admins []domain.Admin) AdminRepository {
	repo := &memoryAdminRepository{
		byID:    make(map[string]domain.Admin, len(admins)),
		byEmail: make(map[string]domain.Admin, len(admins)),
	}
	for _, admin := range admins {
		repo.byID[admin.ID] = admin
		repo.byEmail[strings.ToLower(admin.Email)] = admin
	}
	return repo
}

func (r *memoryAdminRepository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.byID[id]
	if !ok {
		return nil, ErrAdminNotFound
	}
	return &admin, nil
}

func (r *memoryAdminRepository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrAdminNotFound
	}
	return &admin, nil
}
