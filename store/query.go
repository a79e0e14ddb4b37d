package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/maseology/hymod/calibrate"
)

// Batches lists stored batches, most recent first.
func (s *Store) Batches(ctx context.Context) ([]BatchInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, created, objective, names, n FROM batches ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BatchInfo
	for rows.Next() {
		var (
			bi            BatchInfo
			id, crtd, nms string
		)
		if err := rows.Scan(&id, &crtd, &bi.Objective, &nms, &bi.N); err != nil {
			return nil, err
		}
		if bi.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("store: batch id %q: %w", id, err)
		}
		if bi.Created, err = time.Parse(time.RFC3339Nano, crtd); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(nms), &bi.Names); err != nil {
			return nil, err
		}
		out = append(out, bi)
	}
	return out, rows.Err()
}

// Count returns the number of samples stored for a batch.
func (s *Store) Count(ctx context.Context, batch uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples WHERE batch = ?`, batch.String()).Scan(&n)
	return n, err
}

// Best returns the k samples of a batch with the lowest loss, best
// first. Samples that failed to score are never returned.
func (s *Store) Best(ctx context.Context, batch uuid.UUID, k int) ([]calibrate.Sample, error) {
	if k <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, u, params, score FROM samples
		 WHERE batch = ? AND loss IS NOT NULL
		 ORDER BY loss ASC, idx ASC
		 LIMIT ?`, batch.String(), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []calibrate.Sample
	for rows.Next() {
		var (
			smpl  calibrate.Sample
			u, p  string
			score sql.NullFloat64
			prm   params
		)
		if err := rows.Scan(&smpl.Index, &u, &p, &score); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(u), &smpl.U); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(p), &prm); err != nil {
			return nil, err
		}
		smpl.Par, smpl.Snow = prm.Par, prm.Snow
		smpl.Score = math.NaN()
		if score.Valid {
			smpl.Score = score.Float64
		}
		out = append(out, smpl)
	}
	return out, rows.Err()
}
