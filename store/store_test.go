package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/maseology/hymod"
	"github.com/maseology/hymod/calibrate"
)

func TestBatchRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "db", "samples.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	sp := calibrate.Space{Nq: 2}
	b, err := s.NewBatch(ctx, calibrate.NSE, sp.Names(), 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, score := range []float64{.2, .8, math.NaN(), .5} {
		u := []float64{.1 * float64(i), .5, .5, .5, .5, .5}
		par, snow := sp.Parameters(u)
		if err := b.Put(ctx, calibrate.Sample{Index: i, U: u, Par: par, Snow: snow, Score: score}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Count(ctx, b.ID)
	if err != nil || n != 4 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	best, err := s.Best(ctx, b.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(best) != 3 {
		t.Fatalf("%d scored samples, want 3", len(best))
	}
	for i, want := range []int{1, 3, 0} {
		if best[i].Index != want {
			t.Errorf("rank %d: sample %d, want %d", i, best[i].Index, want)
		}
	}
	if best[0].Score != .8 || best[0].Par.Nq != 2 || best[0].U[0] != .1 {
		t.Errorf("best sample %+v", best[0])
	}
	want, _ := sp.Parameters(best[0].U)
	if best[0].Par != want {
		t.Errorf("parameters %+v, want %+v", best[0].Par, want)
	}
	if best[0].Snow != (hymod.SnowParameters{}) {
		t.Errorf("snow %+v", best[0].Snow)
	}

	bs, err := s.Batches(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(bs) != 1 || bs[0].ID != b.ID || bs[0].Objective != "nse" || len(bs[0].Names) != 6 || bs[0].N != 4 {
		t.Errorf("batches %+v", bs)
	}

	if none, err := s.Best(ctx, uuid.New(), 5); err != nil || len(none) != 0 {
		t.Errorf("unknown batch: %v, %v", none, err)
	}
}

func TestBestOrdersByLoss(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "rmse.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	b, err := s.NewBatch(ctx, calibrate.RMSE, []string{"Huz"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, score := range []float64{3., 1., 2.} {
		if err := b.Put(ctx, calibrate.Sample{Index: i, U: []float64{0.}, Score: score}); err != nil {
			t.Fatal(err)
		}
	}
	best, err := s.Best(ctx, b.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(best) != 1 || best[0].Index != 1 {
		t.Errorf("lowest RMSE %+v", best)
	}
}
