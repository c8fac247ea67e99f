package gtfs

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is the in-memory relational database a loaded feed lives in.
// It is written only while loading; afterwards it is safe for any
// number of concurrent readers.
type Store struct {
	db *sql.DB
}

// openMemoryStore opens a fresh in-memory SQLite database and creates
// the enum reference tables and the diagnostics side table.
func openMemoryStore() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A :memory: database exists per connection; keep exactly one.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createStaticTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create static tables: %w", err)
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection pool for callers that need raw
// access, such as the inspection CLI.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Exec runs a statement that returns no rows.
func (s *Store) Exec(query string, args ...any) error {
	_, err := s.db.Exec(query, args...)
	return err
}

// GetResult runs a query and returns the first column of the first
// row, or nil if the query returns no rows.
func (s *Store) GetResult(query string, args ...any) (any, error) {
	row := s.db.QueryRow(query, args...)
	var v any
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// GetResultList runs a query and returns the first column of every
// row. An empty result is an empty list.
func (s *Store) GetResultList(query string, args ...any) ([]any, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetResultDict runs a two-column query and returns a map from the
// first column (expected to hold distinct strings) to the second.
func (s *Store) GetResultDict(query string, args ...any) (map[string]any, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]any{}
	for rows.Next() {
		var k string
		var v any
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// GetRowDict runs a query and returns the first row keyed by column
// name, or nil if the query returns no rows.
func (s *Store) GetRowDict(query string, args ...any) (map[string]any, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(cols))
	for i, c := range cols {
		out[c] = vals[i]
	}
	return out, nil
}

// Query runs a raw query and hands back the rows directly.
func (s *Store) Query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(query, args...)
}

// createStaticTables installs the enum reference tables that give
// numeric codes a readable prose form, plus the warnings side table.
func (s *Store) createStaticTables() error {
	_, err := s.db.Exec(`
CREATE TABLE enum_boolean (
  enum_val INTEGER PRIMARY KEY,
  enum_prose TEXT NOT NULL
);
INSERT INTO enum_boolean VALUES
  (0, 'False'),
  (1, 'True');

CREATE TABLE enum_tristate (
  enum_val INTEGER PRIMARY KEY,
  enum_prose TEXT NOT NULL
);
INSERT INTO enum_tristate VALUES
  (0, 'Unknown'),
  (1, 'Yes'),
  (2, 'No');

CREATE TABLE enum_location_type (
  enum_val INTEGER PRIMARY KEY,
  enum_prose TEXT NOT NULL
);
INSERT INTO enum_location_type VALUES
  (0, 'Stop or Platform'),
  (1, 'Station'),
  (2, 'Station entrance or exit'),
  (3, 'Generic node'),
  (4, 'Boarding area'),
  (5, 'Unmanned pass point of sale'),
  (6, 'Manned pass point of sale');

CREATE TABLE enum_route_types (
  enum_val INTEGER PRIMARY KEY,
  enum_prose TEXT NOT NULL
);
INSERT INTO enum_route_types VALUES
  (0, 'Tram, streetcar, light rail'),
  (1, 'Subway, metro'),
  (2, 'Rail'),
  (3, 'Bus'),
  (4, 'Ferry'),
  (5, 'Cable tram'),
  (6, 'Aerial lift'),
  (7, 'Funicular'),
  (11, 'Trolleybus'),
  (12, 'Monorail');

CREATE TABLE enum_pickup_drop_off (
  enum_val INTEGER PRIMARY KEY,
  enum_prose TEXT NOT NULL
);
INSERT INTO enum_pickup_drop_off VALUES
  (0, 'Available normally.'),
  (1, 'Unavailable.'),
  (2, 'Phone agency.'),
  (3, 'Coordinate with driver.');

CREATE TABLE enum_calendar_date (
  enum_val INTEGER PRIMARY KEY,
  enum_prose TEXT NOT NULL
);
INSERT INTO enum_calendar_date VALUES
  (1, 'Service added'),
  (2, 'Service removed');

CREATE TABLE enum_payment_method (
  enum_val INTEGER PRIMARY KEY,
  enum_prose TEXT NOT NULL
);
INSERT INTO enum_payment_method VALUES
  (0, 'Fare is paid on board.'),
  (1, 'Fare must be paid before boarding.');

CREATE TABLE enum_transfers (
  enum_val INTEGER PRIMARY KEY,
  enum_prose TEXT NOT NULL
);
INSERT INTO enum_transfers VALUES
  (0, 'No transfers permitted on this fare.'),
  (1, 'Riders may transfer once.'),
  (2, 'Riders may transfer twice.');

CREATE TABLE gtfs_warnings (
  load_id TEXT,
  warn_message TEXT NOT NULL,
  warn_table TEXT,
  warn_field TEXT,
  warn_record TEXT
);
`)
	return err
}
