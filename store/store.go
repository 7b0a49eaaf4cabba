// Package store keeps a local history of bytecode executions in SQLite.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/HarryLiGameTech/StateQ/vm"
)

// ErrRunNotFound indicates the requested run doesn't exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded execution.
type Run struct {
	ID        string
	CreatedAt time.Time
	Digest    string // hex sha256 of the bytecode
	Shots     uint32
	Error     uint8
	Result    *vm.Measurement // nil for failed runs
}

// Store handles SQLite storage for execution history.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if needed) a history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		digest TEXT NOT NULL,
		shots INTEGER NOT NULL,
		error INTEGER NOT NULL,
		result JSON
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest returns the hex digest the store keys bytecode by.
func Digest(bytecode []byte) string {
	sum := sha256.Sum256(bytecode)
	return hex.EncodeToString(sum[:])
}

// Record persists one execution outcome and returns its run id.
func (s *Store) Record(bytecode []byte, shots uint32, res vm.ExecuteResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resultJSON any
	if res.Measurement != nil {
		data, err := json.Marshal(res.Measurement)
		if err != nil {
			return "", fmt.Errorf("encoding result: %w", err)
		}
		resultJSON = string(data)
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, created_at, digest, shots, error, result) VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().Unix(), Digest(bytecode), shots, res.Error, resultJSON,
	)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}

// Get loads one run by id.
func (s *Store) Get(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, digest, shots, error, result FROM runs WHERE id = ?`, id,
	)
	return scanRun(row)
}

// Recent returns the latest n runs, newest first.
func (s *Store) Recent(n int) ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, digest, shots, error, result
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run        Run
		createdAt  int64
		resultJSON sql.NullString
	)
	err := row.Scan(&run.ID, &createdAt, &run.Digest, &run.Shots, &run.Error, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.CreatedAt = time.Unix(createdAt, 0)

	if resultJSON.Valid {
		var m vm.Measurement
		if err := json.Unmarshal([]byte(resultJSON.String), &m); err != nil {
			return nil, fmt.Errorf("decoding result: %w", err)
		}
		run.Result = &m
	}
	return &run, nil
}
