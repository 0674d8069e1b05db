package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"resa/internal/trip"
)

// SiteRow is one row of the sites table.
type SiteRow struct {
	ID      int64
	Name    string
	Aliases string // comma-separated
	Lat     float64
	Lon     float64
}

// UpsertSites replaces or inserts the given sites in one transaction.
func (d *DB) UpsertSites(ctx context.Context, rows []SiteRow) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sites (id, name, aliases, lat, lon)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			aliases = excluded.aliases,
			lat = excluded.lat,
			lon = excluded.lon`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.ID, row.Name, row.Aliases, row.Lat, row.Lon); err != nil {
			return fmt.Errorf("upsert site %d: %w", row.ID, err)
		}
	}
	return tx.Commit()
}

// SearchSites matches sites by name or alias substring, exact-prefix
// matches first.
func (d *DB) SearchSites(ctx context.Context, query string, limit int) ([]SiteRow, error) {
	pattern := "%" + escapeLike(query) + "%"
	prefix := escapeLike(query) + "%"
	rows, err := d.QueryContext(ctx, `
		SELECT id, name, aliases, lat, lon
		FROM sites
		WHERE name LIKE ? ESCAPE '\' OR aliases LIKE ? ESCAPE '\'
		ORDER BY CASE WHEN name LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, name
		LIMIT ?`,
		pattern, pattern, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("search sites: %w", err)
	}
	defer rows.Close()

	var out []SiteRow
	for rows.Next() {
		var row SiteRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Aliases, &row.Lat, &row.Lon); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountSites reports the number of indexed sites.
func (d *DB) CountSites(ctx context.Context) (int, error) {
	var n int
	err := d.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sites: %w", err)
	}
	return n, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ListSavedTrips returns saved trips in display order: pinned trips
// first, then manual position, newest last resort.
func (d *DB) ListSavedTrips(ctx context.Context) ([]trip.SavedTrip, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, label, from_place, to_place, pinned, position
		FROM saved_trips
		ORDER BY pinned DESC, position ASC NULLS LAST, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saved trips: %w", err)
	}
	defer rows.Close()

	var out []trip.SavedTrip
	for rows.Next() {
		var (
			st        trip.SavedTrip
			fromJSON  string
			toJSON    string
			pinnedInt int
			position  sql.NullInt64
		)
		if err := rows.Scan(&st.ID, &st.Label, &fromJSON, &toJSON, &pinnedInt, &position); err != nil {
			return nil, fmt.Errorf("scan saved trip: %w", err)
		}
		if err := json.Unmarshal([]byte(fromJSON), &st.FromPlace); err != nil {
			return nil, fmt.Errorf("decode saved trip %s origin: %w", st.ID, err)
		}
		if err := json.Unmarshal([]byte(toJSON), &st.ToPlace); err != nil {
			return nil, fmt.Errorf("decode saved trip %s destination: %w", st.ID, err)
		}
		st.Pinned = pinnedInt != 0
		if position.Valid {
			p := int(position.Int64)
			st.Position = &p
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetSavedTrip fetches one saved trip. Returns sql.ErrNoRows when the
// id is unknown.
func (d *DB) GetSavedTrip(ctx context.Context, id string) (trip.SavedTrip, error) {
	var (
		st        trip.SavedTrip
		fromJSON  string
		toJSON    string
		pinnedInt int
		position  sql.NullInt64
	)
	err := d.QueryRowContext(ctx, `
		SELECT id, label, from_place, to_place, pinned, position
		FROM saved_trips WHERE id = ?`, id).
		Scan(&st.ID, &st.Label, &fromJSON, &toJSON, &pinnedInt, &position)
	if err != nil {
		return trip.SavedTrip{}, err
	}
	if err := json.Unmarshal([]byte(fromJSON), &st.FromPlace); err != nil {
		return trip.SavedTrip{}, fmt.Errorf("decode saved trip %s origin: %w", id, err)
	}
	if err := json.Unmarshal([]byte(toJSON), &st.ToPlace); err != nil {
		return trip.SavedTrip{}, fmt.Errorf("decode saved trip %s destination: %w", id, err)
	}
	st.Pinned = pinnedInt != 0
	if position.Valid {
		p := int(position.Int64)
		st.Position = &p
	}
	return st, nil
}

// CreateSavedTrip inserts a saved trip.
func (d *DB) CreateSavedTrip(ctx context.Context, st trip.SavedTrip) error {
	fromJSON, err := json.Marshal(st.FromPlace)
	if err != nil {
		return fmt.Errorf("encode origin: %w", err)
	}
	toJSON, err := json.Marshal(st.ToPlace)
	if err != nil {
		return fmt.Errorf("encode destination: %w", err)
	}
	_, err = d.ExecContext(ctx, `
		INSERT INTO saved_trips (id, label, from_place, to_place, pinned, position)
		VALUES (?, ?, ?, ?, ?, ?)`,
		st.ID, st.Label, string(fromJSON), string(toJSON), boolInt(st.Pinned), nullableInt(st.Position))
	if err != nil {
		return fmt.Errorf("insert saved trip: %w", err)
	}
	return nil
}

// UpdateSavedTrip rewrites a saved trip. Returns sql.ErrNoRows when
// the id is unknown.
func (d *DB) UpdateSavedTrip(ctx context.Context, st trip.SavedTrip) error {
	fromJSON, err := json.Marshal(st.FromPlace)
	if err != nil {
		return fmt.Errorf("encode origin: %w", err)
	}
	toJSON, err := json.Marshal(st.ToPlace)
	if err != nil {
		return fmt.Errorf("encode destination: %w", err)
	}
	res, err := d.ExecContext(ctx, `
		UPDATE saved_trips
		SET label = ?, from_place = ?, to_place = ?, pinned = ?, position = ?
		WHERE id = ?`,
		st.Label, string(fromJSON), string(toJSON), boolInt(st.Pinned), nullableInt(st.Position), st.ID)
	if err != nil {
		return fmt.Errorf("update saved trip: %w", err)
	}
	return noRowsAsErr(res)
}

// DeleteSavedTrip removes a saved trip. Returns sql.ErrNoRows when the
// id is unknown.
func (d *DB) DeleteSavedTrip(ctx context.Context, id string) error {
	res, err := d.ExecContext(ctx, `DELETE FROM saved_trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete saved trip: %w", err)
	}
	return noRowsAsErr(res)
}

// Address is a user-saved street address.
type Address struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ListAddresses returns saved addresses, newest first.
func (d *DB) ListAddresses(ctx context.Context) ([]Address, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT id, name, address, lat, lon
		FROM addresses
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		var (
			a        Address
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Address, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		if lat.Valid && lon.Valid {
			a.Latitude = &lat.Float64
			a.Longitude = &lon.Float64
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateAddress inserts a saved address.
func (d *DB) CreateAddress(ctx context.Context, a Address) error {
	_, err := d.ExecContext(ctx, `
		INSERT INTO addresses (id, name, address, lat, lon)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Address, nullableFloat(a.Latitude), nullableFloat(a.Longitude))
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

// DeleteAddress removes a saved address. Returns sql.ErrNoRows when
// the id is unknown.
func (d *DB) DeleteAddress(ctx context.Context, id string) error {
	res, err := d.ExecContext(ctx, `DELETE FROM addresses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return noRowsAsErr(res)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func noRowsAsErr(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
