package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"urlshortener/internal/database"
	"urlshortener/internal/models"
)

type urlRecord struct {
	ShortID   string    `db:"short_id"`
	FullURL   string    `db:"full_url"`
	Clicks    int64     `db:"clicks"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *urlRecord) ToURL() *models.URL {
	return &models.URL{
		ShortID:   r.ShortID,
		FullURL:   r.FullURL,
		Clicks:    r.Clicks,
		CreatedAt: r.CreatedAt,
	}
}

// URLRepository persists URL records in the urls table. Every method is
// a single SQL statement, so each runs in its own transaction and is
// safe under concurrent use without caller-side locking.
type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{
		db: db,
	}
}

// Create inserts a new record with zero clicks. The primary key
// constraint is the authoritative uniqueness guard: a duplicate short id
// is always database.ErrShortIDExists, never a silent no-op.
func (r *URLRepository) Create(ctx context.Context, shortID, fullURL string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.Create"

	rec := new(urlRecord)
	query := `INSERT INTO urls(short_id, full_url)
		VALUES ($1, $2)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, shortID, fullURL)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrShortIDExists)
		}

		return nil, fmt.Errorf("%s: failed to create url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

// Exists reports whether a record with the given short id is committed.
// No side effects.
func (r *URLRepository) Exists(ctx context.Context, shortID string) (bool, error) {
	const op = "database.postgres.URLRepository.Exists"

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM urls WHERE short_id = $1)`

	err := r.db.GetContext(ctx, &exists, query, shortID)
	if err != nil {
		return false, fmt.Errorf("%s: failed to check short id: %w", op, err)
	}

	return exists, nil
}

// ResolveAndTrack increments the click counter and returns the record in
// one statement. Row locking serializes concurrent calls for the same
// short id, so each successful call contributes exactly one increment.
// An unknown short id mutates nothing.
func (r *URLRepository) ResolveAndTrack(ctx context.Context, shortID string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.ResolveAndTrack"

	rec := new(urlRecord)
	query := `UPDATE urls
		SET clicks = clicks + 1
		WHERE short_id = $1
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, shortID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to resolve url record: %w", op, err)
	}

	return rec.ToURL(), nil
}

// GetByShortID returns the record without touching the click counter.
func (r *URLRepository) GetByShortID(ctx context.Context, shortID string) (*models.URL, error) {
	const op = "database.postgres.URLRepository.GetByShortID"

	rec := new(urlRecord)
	query := `SELECT * FROM urls WHERE short_id = $1`

	err := r.db.GetContext(ctx, rec, query, shortID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get url record: %w", op, err)
	}

	return rec.ToURL(), nil
}
