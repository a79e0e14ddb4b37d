// Package store persists Monte Carlo calibration batches in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/maseology/hymod"
	"github.com/maseology/hymod/calibrate"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for sample batches.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			created TEXT NOT NULL,
			objective TEXT NOT NULL,
			names TEXT NOT NULL,
			n INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS samples (
			batch TEXT NOT NULL,
			idx INTEGER NOT NULL,
			u TEXT NOT NULL,
			params TEXT NOT NULL,
			score REAL,
			loss REAL,
			PRIMARY KEY (batch, idx)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_samples_loss ON samples(batch, loss);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// BatchInfo describes a stored batch
type BatchInfo struct {
	ID        uuid.UUID
	Created   time.Time
	Objective string
	Names     []string // sampled parameter names
	N         int      // planned number of samples
}

// Batch collects the samples of one Monte Carlo run, implementing calibrate.Sink
type Batch struct {
	BatchInfo
	s   *Store
	obj calibrate.Objective
}

// NewBatch registers a batch of n samples scored by obj
func (s *Store) NewBatch(ctx context.Context, obj calibrate.Objective, names []string, n int) (*Batch, error) {
	b := Batch{
		BatchInfo: BatchInfo{
			ID:        uuid.New(),
			Created:   time.Now().UTC(),
			Objective: obj.String(),
			Names:     names,
			N:         n,
		},
		s:   s,
		obj: obj,
	}
	nms, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (id, created, objective, names, n) VALUES (?, ?, ?, ?, ?)`,
		b.ID.String(), b.Created.Format(time.RFC3339Nano), b.Objective, string(nms), n,
	); err != nil {
		return nil, fmt.Errorf("store: new batch: %w", err)
	}
	return &b, nil
}

func nullable(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// Put stores one evaluated sample
func (b *Batch) Put(ctx context.Context, smpl calibrate.Sample) error {
	u, err := json.Marshal(smpl.U)
	if err != nil {
		return err
	}
	p, err := json.Marshal(params{smpl.Par, smpl.Snow})
	if err != nil {
		return err
	}
	if _, err := b.s.db.ExecContext(ctx,
		`INSERT INTO samples (batch, idx, u, params, score, loss) VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID.String(), smpl.Index, string(u), string(p), nullable(smpl.Score), nullable(b.obj.Loss(smpl.Score)),
	); err != nil {
		return fmt.Errorf("store: sample %d: %w", smpl.Index, err)
	}
	return nil
}

type params struct {
	Par  hymod.Parameters     `json:"parameters"`
	Snow hymod.SnowParameters `json:"snow"`
}
