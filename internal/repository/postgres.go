package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"autoadvisor/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresRepository is the persistence sink for extracted listings. The
// pipeline only inserts and reads back by identifier; it never queries.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// InsertListing stores an extracted listing and returns its assigned
// identifier.
func (r *PostgresRepository) InsertListing(ctx context.Context, listing *model.ListingRecord) (int64, error) {
	query := `
		INSERT INTO listings (
			brand, model, year, mileage_km, price_eur, fuel, transmission,
			trim, options, service_history, known_issues, seller_notes,
			text, source_url, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		listing.Brand, listing.Model, listing.Year, listing.MileageKM,
		listing.PriceEUR, listing.Fuel, listing.Transmission, listing.Trim,
		listing.Options, listing.ServiceHistory, listing.KnownIssues,
		listing.SellerNotes, listing.Text, listing.SourceURL, listing.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert listing: %w", err)
	}
	return id, nil
}

// GetListingByID retrieves a single stored listing, or nil when absent.
func (r *PostgresRepository) GetListingByID(ctx context.Context, id int64) (*model.ListingRecord, error) {
	var listing model.ListingRecord
	query := `
		SELECT
			id, brand, model, year, mileage_km, price_eur, fuel, transmission,
			trim, options, service_history, known_issues, seller_notes,
			text, source_url, created_at
		FROM listings
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &listing, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// UpdateEmbedding stores the embedding vector for a listing
func (r *PostgresRepository) UpdateEmbedding(ctx context.Context, id int64, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	query := `UPDATE listings SET embedding = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, vec, id)
	if err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}
	return nil
}
