package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/rental-moderation/internal/domain"
)

type postgresListingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresListingRepository instantiates the database-backed store.
func NewPostgresListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &postgresListingRepository{pool: pool}
}

const listingColumns = `id, title, description, location, category, price, status,
               created_at, updated_at, user_id, username, admin_id, rejection_reason`

func (r *postgresListingRepository) List(ctx context.Context) ([]domain.Listing, error) {
	const query = `
        SELECT ` + listingColumns + `
        FROM listings ORDER BY created_at DESC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

func (r *postgresListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	const query = `
        SELECT ` + listingColumns + `
        FROM listings WHERE id=$1`
	listing, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}

func (r *postgresListingRepository) Replace(ctx context.Context, id string, listing *domain.Listing) error {
	cmd, err := r.pool.Exec(ctx, replaceQuery,
		listing.Title,
		listing.Description,
		listing.Location,
		listing.Category,
		listing.Price,
		listing.Status,
		listing.UpdatedAt,
		listing.AdminID,
		listing.RejectionReason,
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const replaceQuery = `
        UPDATE listings SET title=$1, description=$2, location=$3, category=$4, price=$5,
            status=$6, updated_at=$7, admin_id=$8, rejection_reason=$9
        WHERE id=$10`

// Mutate locks the row for the duration of the read-modify-write so
// concurrent decisions on the same listing are linearized across processes.
func (r *postgresListingRepository) Mutate(ctx context.Context, id string, fn func(*domain.Listing) error) (*domain.Listing, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        SELECT ` + listingColumns + `
        FROM listings WHERE id=$1 FOR UPDATE`
	listing, err := scanListing(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := fn(listing); err != nil {
		return nil, err
	}

	cmd, err := tx.Exec(ctx, replaceQuery,
		listing.Title,
		listing.Description,
		listing.Location,
		listing.Category,
		listing.Price,
		listing.Status,
		listing.UpdatedAt,
		listing.AdminID,
		listing.RejectionReason,
		id,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *postgresListingRepository) SeedIfEmpty(ctx context.Context, listings []domain.Listing) error {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	const query = `
        INSERT INTO listings (` + listingColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	for i := range listings {
		l := &listings[i]
		if _, err := r.pool.Exec(ctx, query,
			l.ID, l.Title, l.Description, l.Location, l.Category, l.Price, l.Status,
			l.CreatedAt, l.UpdatedAt, l.UserID, l.Username, l.AdminID, l.RejectionReason,
		); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var listing domain.Listing
	if err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.Description,
		&listing.Location,
		&listing.Category,
		&listing.Price,
		&listing.Status,
		&listing.CreatedAt,
		&listing.UpdatedAt,
		&listing.UserID,
		&listing.Username,
		&listing.AdminID,
		&listing.RejectionReason,
	); err != nil {
		return nil, err
	}
	return &listing, nil
}

func scanListings(rows pgx.Rows) ([]domain.Listing, error) {
	var result []domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *listing)
	}
	return result, rows.Err()
}
