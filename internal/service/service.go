package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"urlshortener/internal/database"
	"urlshortener/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet is the 62-symbol set short ids are drawn from. At the default
// length of 6 the keyspace is 62^6, about 5.6e10 ids.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	// maxAttempts caps the generate+insert loop. At realistic table
	// sizes a single collision is already rare, so hitting the cap means
	// something is badly wrong with the store.
	maxAttempts = 25
	// growEvery widens the id by one character after this many
	// consecutive collisions, so the loop terminates even if the
	// configured keyspace is exhausted.
	growEvery = 5
)

var (
	// ErrInvalidURL is returned when the input is not an absolute URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrMaxAttemptsExceeded is returned when a unique short id could not
	// be generated within maxAttempts.
	ErrMaxAttemptsExceeded = errors.New("maximum attempts exceeded for generating short id")
)

// URLRepository is the storage contract the service depends on.
type URLRepository interface {
	// Create inserts a new record, enforcing short id uniqueness
	// atomically. Returns database.ErrShortIDExists on collision.
	Create(ctx context.Context, shortID, fullURL string) (*models.URL, error)

	// Exists reports whether a short id is already taken.
	Exists(ctx context.Context, shortID string) (bool, error)

	// ResolveAndTrack atomically increments the click counter and
	// returns the record, or database.ErrURLNotFound.
	ResolveAndTrack(ctx context.Context, shortID string) (*models.URL, error)

	// GetByShortID returns the record without side effects, or
	// database.ErrURLNotFound.
	GetByShortID(ctx context.Context, shortID string) (*models.URL, error)
}

// URLService implements the shortener use cases on top of an injected
// repository. It holds no state across requests; the store is the single
// source of truth.
type URLService struct {
	repo          URLRepository
	shortIDLength int
}

func NewURLService(repo URLRepository, shortIDLength int) *URLService {
	return &URLService{
		repo:          repo,
		shortIDLength: shortIDLength,
	}
}

// ShortenURL registers fullURL under a freshly generated short id and
// returns the created record. The same long URL submitted twice gets two
// independent ids; no normalization or deduplication is performed.
//
// The existence pre-check only skips inserts that are certain to fail;
// the insert's unique constraint is the authoritative guard, and the
// whole generate+insert pair is retried when it fires.
func (s *URLService) ShortenURL(ctx context.Context, fullURL string) (*models.URL, error) {
	const op = "service.URLService.ShortenURL"

	if err := validateURL(fullURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		shortID, err := gonanoid.Generate(alphabet, s.shortIDLength+attempt/growEvery)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short id: %w", op, err)
		}

		taken, err := s.repo.Exists(ctx, shortID)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to check short id: %w", op, err)
		}
		if taken {
			continue
		}

		url, err := s.repo.Create(ctx, shortID, fullURL)
		if err != nil {
			// Lost a race with a concurrent insert. Regenerate.
			if errors.Is(err, database.ErrShortIDExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxAttemptsExceeded)
}

// ResolveShortID is the redirect path: one store round trip that
// increments the click counter and returns the record.
func (s *URLService) ResolveShortID(ctx context.Context, shortID string) (*models.URL, error) {
	const op = "service.URLService.ResolveShortID"

	url, err := s.repo.ResolveAndTrack(ctx, shortID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short id: %w", op, err)
	}

	return url, nil
}

// GetURLStats returns the record for a short id without counting a click.
func (s *URLService) GetURLStats(ctx context.Context, shortID string) (*models.URL, error) {
	const op = "service.URLService.GetURLStats"

	url, err := s.repo.GetByShortID(ctx, shortID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return url, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	return nil
}
