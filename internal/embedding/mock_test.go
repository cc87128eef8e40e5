package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_deterministic(t *testing.T) {
	e := NewMockEmbedder(384)
	ctx := context.Background()

	a, err := e.Embed(ctx, "casual leave policy")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(ctx, "casual leave policy")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 384 || len(b) != 384 {
		t.Fatalf("wrong dimensions: %d, %d", len(a), len(b))
	}
	const tolerance = 1e-5
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > tolerance {
			t.Fatalf("component %d differs beyond tolerance: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestMockEmbedder_unitNorm(t *testing.T) {
	e := NewMockEmbedder(64)
	vec, err := e.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1.0) > 1e-4 {
		t.Errorf("expected unit norm, got squared norm %v", sum)
	}
}

func TestMockEmbedder_batch(t *testing.T) {
	e := NewMockEmbedder(32)
	ctx := context.Background()
	texts := []string{"one", "two", "three"}
	vectors, err := e.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("batch output length %d, want %d", len(vectors), len(texts))
	}
	// Batch output matches single-text output position by position.
	for i, text := range texts {
		single, _ := e.Embed(ctx, text)
		for j := range single {
			if vectors[i][j] != single[j] {
				t.Fatalf("batch vector %d differs from single embed", i)
			}
		}
	}
}

func TestMockEmbedder_distinctTexts(t *testing.T) {
	e := NewMockEmbedder(32)
	ctx := context.Background()
	a, _ := e.Embed(ctx, "alpha")
	b, _ := e.Embed(ctx, "beta")
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should not produce identical embeddings")
	}
}
