// Package duckdb persists panel analysis records: patients, generated BED
// artifacts, and the panel snapshot each artifact was built from.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for analysis records.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database location, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates sequences and tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS bed_files_id_seq`,
		`CREATE SEQUENCE IF NOT EXISTS panel_info_id_seq`,
		`CREATE TABLE IF NOT EXISTS patients (
			nhs_number VARCHAR PRIMARY KEY,
			patient_name VARCHAR NOT NULL,
			dob DATE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bed_files (
			id BIGINT PRIMARY KEY DEFAULT nextval('bed_files_id_seq'),
			analysis_date DATE NOT NULL,
			bed_file_path VARCHAR NOT NULL,
			merged_bed_path VARCHAR,
			file_size BIGINT,
			patient_id VARCHAR NOT NULL REFERENCES patients(nhs_number)
		)`,
		`CREATE TABLE IF NOT EXISTS panel_info (
			id BIGINT PRIMARY KEY DEFAULT nextval('panel_info_id_seq'),
			bed_file_id BIGINT NOT NULL REFERENCES bed_files(id),
			panel_data VARCHAR NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
