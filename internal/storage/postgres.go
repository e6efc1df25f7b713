package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mishannn/homesearch-go/internal/listing"
	"github.com/mishannn/homesearch-go/internal/utils"
)

const insertBatchSize = 500

// PostgresStore keeps the last seen state of every listing fetched by a
// search run.
type PostgresStore struct {
	db        *sql.DB
	batchSize int
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open postgres connection: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	store, err := newPostgresStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func newPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("can't ping postgres: %w", err)
	}

	store := &PostgresStore{db: db, batchSize: insertBatchSize}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveListings upserts listings in batches, one transaction per batch.
func (s *PostgresStore) SaveListings(ctx context.Context, search string, listings []listing.Listing) (int, error) {
	total := 0

	for _, chunk := range utils.Chunks(listings, s.batchSize) {
		n, err := s.saveBatch(ctx, search, chunk)
		if err != nil {
			return total, err
		}
		total += n
	}

	return total, nil
}

func (s *PostgresStore) saveBatch(ctx context.Context, search string, listings []listing.Listing) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("can't begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO listings (id, search, title, address, lat, lng, price, bedrooms, bathrooms, area, main_photo_url, property_type, is_saved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE
		SET
			search = EXCLUDED.search,
			title = EXCLUDED.title,
			address = EXCLUDED.address,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			price = EXCLUDED.price,
			bedrooms = EXCLUDED.bedrooms,
			bathrooms = EXCLUDED.bathrooms,
			area = EXCLUDED.area,
			main_photo_url = EXCLUDED.main_photo_url,
			property_type = EXCLUDED.property_type,
			is_saved = EXCLUDED.is_saved,
			updated_at = NOW()`)
	if err != nil {
		return 0, fmt.Errorf("can't prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		var lat, lng sql.NullFloat64
		if l.Coordinates != nil {
			lat = sql.NullFloat64{Float64: l.Coordinates.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: l.Coordinates.Lng, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			l.ID, search, l.Title, l.Address, lat, lng, l.Price,
			l.Bedrooms, l.Bathrooms, l.Area, l.MainPhotoURL, l.PropertyType, l.IsSaved)
		if err != nil {
			return 0, fmt.Errorf("can't insert listing %s: %w", l.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("can't commit transaction: %w", err)
	}

	return len(listings), nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id UUID PRIMARY KEY,
			search TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			bedrooms INTEGER NOT NULL DEFAULT 0,
			bathrooms INTEGER NOT NULL DEFAULT 0,
			area DOUBLE PRECISION NOT NULL DEFAULT 0,
			main_photo_url TEXT NOT NULL DEFAULT '',
			property_type TEXT NOT NULL DEFAULT '',
			is_saved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_listings_search ON listings(search);
	`)
	if err != nil {
		return fmt.Errorf("can't ensure schema: %w", err)
	}
	return nil
}
