package embcache

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stylerank/internal/db"
	"github.com/kailas-cloud/stylerank/internal/domain"
)

type memStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type countingEmbedder struct {
	calls      int
	batchCalls int
	batchTexts []string
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.calls++
	return domain.EmbeddingResult{Embedding: []float32{1, 2, 3}, TotalTokens: 7}, nil
}

func (e *countingEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	e.batchCalls++
	e.batchTexts = append([]string(nil), texts...)
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{float32(i), 1}
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: 5 * len(texts)}, nil
}

func newCached(inner domain.Embedder, s store) *CachedEmbedder {
	return New(inner, s, "test:", "model-a", nil, zap.NewNop())
}

func TestEmbed_CachesSecondCall(t *testing.T) {
	inner := &countingEmbedder{}
	c := newCached(inner, newMemStore())
	ctx := context.Background()

	first, err := c.Embed(ctx, "boots")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalTokens != 7 {
		t.Errorf("miss should report real token usage, got %d", first.TotalTokens)
	}

	second, err := c.Embed(ctx, "boots")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected a single inner call, got %d", inner.calls)
	}
	if second.TotalTokens != 0 {
		t.Errorf("cache hit should report zero tokens, got %d", second.TotalTokens)
	}
	if len(second.Embedding) != 3 || second.Embedding[2] != 3 {
		t.Errorf("cached vector corrupted: %v", second.Embedding)
	}
}

func TestEmbed_ModelNamespacesKeys(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()

	if _, err := newCached(&countingEmbedder{}, s).Embed(ctx, "boots"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := New(&countingEmbedder{}, s, "test:", "model-b", nil, zap.NewNop())
	res, err := other.Embed(ctx, "boots")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TotalTokens == 0 {
		t.Error("different model must miss the cache")
	}
}

func TestEmbed_StoreFailureDegradesToRecompute(t *testing.T) {
	inner := &countingEmbedder{}
	s := newMemStore()
	s.getErr = errors.New("store down")
	s.setErr = errors.New("store down")
	c := newCached(inner, s)

	res, err := c.Embed(context.Background(), "boots")
	if err != nil {
		t.Fatalf("cache failure must not fail the embed: %v", err)
	}
	if inner.calls != 1 || len(res.Embedding) != 3 {
		t.Errorf("expected recompute, calls=%d res=%v", inner.calls, res)
	}
}

func TestBatchEmbed_OnlyMissesHitInner(t *testing.T) {
	inner := &countingEmbedder{}
	c := newCached(inner, newMemStore())
	ctx := context.Background()

	// Prime the cache with one text.
	if _, err := c.Embed(ctx, "coat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := c.BatchEmbed(ctx, []string{"boots", "coat", "dress"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.batchCalls != 1 {
		t.Fatalf("expected one inner batch call, got %d", inner.batchCalls)
	}
	if len(inner.batchTexts) != 2 || inner.batchTexts[0] != "boots" || inner.batchTexts[1] != "dress" {
		t.Errorf("expected only misses forwarded, got %v", inner.batchTexts)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(res.Embeddings))
	}
	// The cached "coat" vector sits in the middle, misses fill around it.
	if res.Embeddings[1][0] != 1 || res.Embeddings[1][1] != 2 {
		t.Errorf("cached vector misplaced: %v", res.Embeddings[1])
	}
}

func TestBatchEmbed_AllHitsSkipInner(t *testing.T) {
	inner := &countingEmbedder{}
	c := newCached(inner, newMemStore())
	ctx := context.Background()

	if _, err := c.BatchEmbed(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := c.BatchEmbed(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.batchCalls != 1 {
		t.Errorf("expected no second inner call, got %d", inner.batchCalls)
	}
	if res.TotalTokens != 0 {
		t.Errorf("all-hit batch should report zero tokens, got %d", res.TotalTokens)
	}
}

func TestVectorCodec_RoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.0e8}
	out, err := bytesToVector(vectorToBytes(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("index %d: got %v, want %v", i, out[i], in[i])
		}
	}

	if _, err := bytesToVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated data")
	}
}
