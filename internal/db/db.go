// Package db provides PostgreSQL access to the job posting catalog used as a
// search source.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultListingLimit caps listing queries when the caller passes no limit.
const DefaultListingLimit = 20

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// SearchListingLabels returns "<role> at <company>" labels for the most
// recently fetched job postings. A non-empty query keeps only postings whose
// role title contains it, case-insensitively.
func (db *DB) SearchListingLabels(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultListingLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT jp.role_title, COALESCE(c.name, '')
		 FROM job_postings jp
		 LEFT JOIN companies c ON c.id = jp.company_id
		 WHERE jp.role_title IS NOT NULL
		   AND ($1 = '' OR jp.role_title ILIKE $2 ESCAPE '\')
		 ORDER BY jp.fetched_at DESC, jp.id
		 LIMIT $3`,
		query, LikePattern(query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query job postings: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var role, company string
		if err := rows.Scan(&role, &company); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		if label := ListingLabel(role, company); label != "" {
			labels = append(labels, label)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job postings: %w", err)
	}

	return labels, nil
}

// ListingLabel formats a posting the way listings are shown to users.
func ListingLabel(role, company string) string {
	role = strings.TrimSpace(role)
	company = strings.TrimSpace(company)
	switch {
	case role == "":
		return ""
	case company == "":
		return role
	default:
		return role + " at " + company
	}
}

// LikePattern turns free text into an ILIKE substring pattern, escaping the
// LIKE wildcards so they match literally.
func LikePattern(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(query)) + "%"
}
