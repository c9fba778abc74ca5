package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RackRepository defines the interface for rack persistence.
type RackRepository interface {
	Create(ctx context.Context, rack *Rack) error
	List(ctx context.Context) ([]Rack, error)
	Get(ctx context.Context, id string) (*Rack, error)
	Delete(ctx context.Context, id string) error
}

// SQLiteRackRepository implements RackRepository using SQLite.
type SQLiteRackRepository struct {
	db *sql.DB
}

// NewRackRepository creates a new SQLite-backed rack repository.
func NewRackRepository(db *sql.DB) *SQLiteRackRepository {
	return &SQLiteRackRepository{db: db}
}

// Create inserts a new rack. The ID is generated if empty and a zero
// height defaults to 42U.
func (r *SQLiteRackRepository) Create(ctx context.Context, rack *Rack) error {
	if rack.ID == "" {
		rack.ID = GenerateID()
	}
	if rack.Height == 0 {
		rack.Height = DefaultRackHeight
	}

	now := nowUTC()
	rack.CreatedAt = parseTime(now)
	rack.UpdatedAt = rack.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO racks (id, name, location, height, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rack.ID, rack.Name, nullString(rack.Location), rack.Height, now, now,
	)
	if err != nil {
		return fmt.Errorf("inserting rack %s: %w", rack.ID, err)
	}
	return nil
}

// List returns all racks ordered by name.
func (r *SQLiteRackRepository) List(ctx context.Context) ([]Rack, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, height, created_at, updated_at
		 FROM racks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing racks: %w", err)
	}
	defer rows.Close()

	racks := []Rack{}
	for rows.Next() {
		rk, err := scanRack(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rack row: %w", err)
		}
		racks = append(racks, *rk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating racks: %w", err)
	}
	return racks, nil
}

// Get returns a single rack by ID.
func (r *SQLiteRackRepository) Get(ctx context.Context, id string) (*Rack, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, location, height, created_at, updated_at
		 FROM racks WHERE id = ?`, id)

	rk, err := scanRack(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRackNotFound
		}
		return nil, fmt.Errorf("scanning rack: %w", err)
	}
	return rk, nil
}

// Delete removes a rack. Mounted devices and their ports are removed by
// the schema's ON DELETE CASCADE.
func (r *SQLiteRackRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM racks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting rack %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrRackNotFound
	}
	return nil
}

// scanRack scans a rack from a Row or Rows cursor.
func scanRack(s scanner) (*Rack, error) {
	var rk Rack
	var location sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&rk.ID, &rk.Name, &location, &rk.Height, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if location.Valid {
		rk.Location = location.String
	}
	rk.CreatedAt = parseTime(createdAt)
	rk.UpdatedAt = parseTime(updatedAt)
	return &rk, nil
}

// ─── Shared scan helpers ───────────────────────────────────────────

// scanner is the common subset of sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// nowUTC returns the current time as an ISO 8601 UTC string, the format
// used for every timestamp column.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseTime parses a stored timestamp. The format is controlled by us,
// so parse failures degrade to the zero time rather than erroring.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s) //nolint:errcheck // format is controlled
	return t
}

// nullString converts an optional string to sql.NullString.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
