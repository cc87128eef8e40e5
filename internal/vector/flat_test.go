package vector

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func TestFlatIndex_insertPositions(t *testing.T) {
	idx := NewFlatIndex()
	ctx := context.Background()

	pos, err := idx.Insert(ctx, [][]float32{{1, 0}, {0, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != 2 || pos[0] != 0 || pos[1] != 1 {
		t.Errorf("first batch positions = %v, want [0 1]", pos)
	}

	pos, err = idx.Insert(ctx, [][]float32{{1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if len(pos) != 1 || pos[0] != 2 {
		t.Errorf("second batch positions = %v, want [2]", pos)
	}
	if idx.Rows() != 3 {
		t.Errorf("Rows=%d, want 3", idx.Rows())
	}
}

func TestFlatIndex_searchOrder(t *testing.T) {
	idx := NewFlatIndex()
	ctx := context.Background()
	_, err := idx.Insert(ctx, [][]float32{
		{0, 1},    // row 0, distance 2 from query
		{1, 0},    // row 1, distance 0
		{0.5, 0},  // row 2, distance 0.25
	})
	if err != nil {
		t.Fatal(err)
	}

	matches, err := idx.Search(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	wantRows := []int{1, 2, 0}
	for i, m := range matches {
		if m.Row != wantRows[i] {
			t.Errorf("match %d row = %d, want %d", i, m.Row, wantRows[i])
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Distance < matches[i-1].Distance {
			t.Errorf("distances not ascending at %d: %v then %v", i, matches[i-1].Distance, matches[i].Distance)
		}
	}
}

func TestFlatIndex_kLargerThanRows(t *testing.T) {
	idx := NewFlatIndex()
	ctx := context.Background()
	_, _ = idx.Insert(ctx, [][]float32{{1, 0}, {0, 1}, {1, 1}})

	matches, err := idx.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 3 {
		t.Fatalf("k=10 over 3 rows should return 3 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Distance < matches[i-1].Distance {
			t.Error("matches not in ascending distance order")
		}
	}
}

func TestFlatIndex_emptySearch(t *testing.T) {
	idx := NewFlatIndex()
	_, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	if !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("expected ErrEmptyIndex, got %v", err)
	}
}

func TestFlatIndex_dimensionMismatch(t *testing.T) {
	idx := NewFlatIndex()
	ctx := context.Background()
	if _, err := idx.Insert(ctx, [][]float32{{1, 0, 0}}); err != nil {
		t.Fatal(err)
	}

	if _, err := idx.Insert(ctx, [][]float32{{1, 0}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("insert with wrong width: expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := idx.Search(ctx, []float32{1, 0}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("search with wrong width: expected ErrDimensionMismatch, got %v", err)
	}
	// Mixed widths within one batch are rejected as a unit.
	if _, err := idx.Insert(ctx, [][]float32{{1, 0, 0}, {1, 0}}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("mixed-width batch: expected ErrDimensionMismatch, got %v", err)
	}
	if idx.Rows() != 1 {
		t.Errorf("failed inserts must not commit rows; Rows=%d, want 1", idx.Rows())
	}
}

func TestFlatIndex_rejectsNonFinite(t *testing.T) {
	idx := NewFlatIndex()
	ctx := context.Background()
	nan := float32(math.NaN())
	if _, err := idx.Insert(ctx, [][]float32{{nan, 0}}); err == nil {
		t.Error("NaN component should be rejected at insert")
	}
	if idx.Rows() != 0 {
		t.Errorf("rejected insert must not commit rows; Rows=%d", idx.Rows())
	}

	_, _ = idx.Insert(ctx, [][]float32{{1, 0}})
	if _, err := idx.Search(ctx, []float32{nan, 0}, 1); err == nil {
		t.Error("NaN query should be rejected at search")
	}
}

func TestFlatIndex_saveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	ctx := context.Background()

	idx := NewFlatIndex()
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}, {0.5, 0.5, 0}}
	if _, err := idx.Insert(ctx, vectors); err != nil {
		t.Fatal(err)
	}
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded := NewFlatIndex()
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Rows() != 3 {
		t.Fatalf("loaded Rows=%d, want 3", loaded.Rows())
	}
	matches, err := loaded.Search(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if matches[0].Row != 0 {
		t.Errorf("nearest row after reload = %d, want 0", matches[0].Row)
	}
	if matches[0].Distance != 0 {
		t.Errorf("identical vector should have zero distance, got %v", matches[0].Distance)
	}
}

func TestFlatIndex_loadMissingFile(t *testing.T) {
	idx := NewFlatIndex()
	if err := idx.Load(filepath.Join(t.TempDir(), "absent.bin")); err != nil {
		t.Errorf("missing file should not be an error, got %v", err)
	}
	if idx.Rows() != 0 {
		t.Errorf("index should stay empty, Rows=%d", idx.Rows())
	}
}
