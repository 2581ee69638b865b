package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const stateSchema = `CREATE TABLE IF NOT EXISTS uploaded_files (
	path          TEXT PRIMARY KEY,
	size          INTEGER NOT NULL,
	hash          TEXT NOT NULL,
	import_id     TEXT NOT NULL DEFAULT '',
	rows_inserted INTEGER NOT NULL DEFAULT 0,
	uploaded_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Record identifies one export file by its path relative to the upload
// root and its content, plus what the server did with it.
type Record struct {
	Path         string
	Size         int64
	Hash         string
	ImportID     string
	RowsInserted int64
}

// Fingerprint stats and hashes the file at root/relPath.
func Fingerprint(root, relPath string) (Record, error) {
	path := filepath.Join(root, relPath)
	info, err := os.Stat(path)
	if err != nil {
		return Record{}, fmt.Errorf("stat %s: %w", relPath, err)
	}
	hash, err := HashFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("hashing %s: %w", relPath, err)
	}
	return Record{Path: relPath, Size: info.Size(), Hash: hash}, nil
}

// StateDB remembers which export files the server has already accepted.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}
	return &StateDB{db: db}, nil
}

// Seen reports whether a file with the same path, size and hash was uploaded.
func (s *StateDB) Seen(rec Record) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM uploaded_files WHERE path = ? AND size = ? AND hash = ?`,
		rec.Path, rec.Size, rec.Hash,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", rec.Path, err)
	}
	return n > 0, nil
}

// Save stores rec, replacing any earlier record for the same path.
func (s *StateDB) Save(rec Record) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO uploaded_files (path, size, hash, import_id, rows_inserted)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.Path, rec.Size, rec.Hash, rec.ImportID, rec.RowsInserted,
	)
	if err != nil {
		return fmt.Errorf("saving %s: %w", rec.Path, err)
	}
	return nil
}

// Totals returns the number of files on record and the rows they inserted.
func (s *StateDB) Totals() (files int, rows int64, err error) {
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(rows_inserted), 0) FROM uploaded_files`,
	).Scan(&files, &rows)
	if err != nil {
		return 0, 0, fmt.Errorf("reading totals: %w", err)
	}
	return files, rows, nil
}

func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashFile returns the hex SHA-256 of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
