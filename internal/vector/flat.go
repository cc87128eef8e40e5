package vector

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FlatIndex is an exact brute-force nearest-neighbor index under squared
// Euclidean distance. The dimension is fixed by the first Insert; until
// then the index is uninitialized and Search fails with ErrEmptyIndex.
type FlatIndex struct {
	dimensions int // 0 until the first insert fixes it
	vectors    [][]float32
	mu         sync.RWMutex
}

// NewFlatIndex creates an empty flat index. The dimension is taken from the
// first inserted batch.
func NewFlatIndex() *FlatIndex {
	return &FlatIndex{}
}

// Insert appends vectors in argument order and returns their row positions.
// All vectors in a batch must share one width; the first batch fixes the
// index dimension, later batches must match it. Vectors containing NaN or
// Inf components are rejected so search distances stay well defined.
func (f *FlatIndex) Insert(ctx context.Context, vectors [][]float32) ([]int, error) {
	if len(vectors) == 0 {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	width := len(vectors[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: zero-width vector", ErrDimensionMismatch)
	}
	if f.dimensions != 0 && width != f.dimensions {
		return nil, fmt.Errorf("%w: got %d, index has %d", ErrDimensionMismatch, width, f.dimensions)
	}
	for i, vec := range vectors {
		if len(vec) != width {
			return nil, fmt.Errorf("%w: vector %d has width %d, batch has %d", ErrDimensionMismatch, i, len(vec), width)
		}
		for _, v := range vec {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return nil, fmt.Errorf("vector %d contains a non-finite component", i)
			}
		}
	}

	if f.dimensions == 0 {
		f.dimensions = width
	}
	positions := make([]int, len(vectors))
	base := len(f.vectors)
	for i, vec := range vectors {
		stored := make([]float32, width)
		copy(stored, vec)
		f.vectors = append(f.vectors, stored)
		positions[i] = base + i
	}
	return positions, nil
}

// Search returns up to k rows sorted by ascending squared Euclidean
// distance to query.
func (f *FlatIndex) Search(ctx context.Context, query []float32, k int) ([]Match, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(f.vectors) == 0 {
		return nil, ErrEmptyIndex
	}
	if len(query) != f.dimensions {
		return nil, fmt.Errorf("%w: query has width %d, index has %d", ErrDimensionMismatch, len(query), f.dimensions)
	}
	for _, v := range query {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("query contains a non-finite component")
		}
	}
	if k <= 0 {
		return nil, nil
	}

	matches := make([]Match, len(f.vectors))
	for i, vec := range f.vectors {
		var dist float32
		for j := 0; j < f.dimensions; j++ {
			d := query[j] - vec[j]
			dist += d * d
		}
		matches[i] = Match{Row: i, Distance: dist}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Row < matches[j].Row
	})
	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// Rows returns the number of vectors in the index.
func (f *FlatIndex) Rows() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.vectors)
}

// Dimensions returns the fixed vector width, or 0 before the first insert.
func (f *FlatIndex) Dimensions() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dimensions
}

// Save writes the whole index to path: uint32 dimension, uint32 count, then
// count*dimension little-endian float32 values. The file is written to a
// temp path and renamed so a crash mid-write cannot leave a torn index.
func (f *FlatIndex) Save(path string) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := f.writeTo(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp index file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename index file: %w", err)
	}
	return nil
}

func (f *FlatIndex) writeTo(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(f.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(f.vectors))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	buf := make([]byte, f.dimensions*4)
	for _, vec := range f.vectors {
		for i, v := range vec {
			binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(v))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// Load reads the index from path, replacing the in-memory contents. If the
// file does not exist, the index is left empty and no error is returned.
func (f *FlatIndex) Load(path string) error {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open index file: %w", err)
	}
	defer file.Close()

	var dim, n uint32
	if err := binary.Read(file, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("read dimensions: %w", err)
	}
	if err := binary.Read(file, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("read count: %w", err)
	}
	if dim == 0 && n > 0 {
		return fmt.Errorf("index file has %d vectors but zero dimension", n)
	}

	vectors := make([][]float32, 0, n)
	buf := make([]byte, int(dim)*4)
	for i := uint32(0); i < n; i++ {
		if _, err := io.ReadFull(file, buf); err != nil {
			return fmt.Errorf("read vector %d: %w", i, err)
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4 : (j+1)*4]))
		}
		vectors = append(vectors, vec)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.dimensions = int(dim)
	f.vectors = vectors
	return nil
}

// Close is a no-op for FlatIndex.
func (f *FlatIndex) Close() error {
	return nil
}
