package taste

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/stylerank/internal/domain"
	"github.com/kailas-cloud/stylerank/internal/domain/batch"
	"github.com/kailas-cloud/stylerank/internal/domain/vecmath"
)

func encodedBatch(t *testing.T, embeddings [][]float32) batch.Batch {
	t.Helper()
	listings := make([]domain.Listing, len(embeddings))
	for i := range listings {
		listings[i] = domain.Listing{
			Title: "item",
			URL:   "https://x.test/" + string(rune('a'+i)),
			Price: 10,
		}
	}
	b, err := batch.New(listings).WithEmbeddings(embeddings)
	if err != nil {
		t.Fatalf("attach embeddings: %v", err)
	}
	return b
}

func TestVector_UnitNorm(t *testing.T) {
	b := encodedBatch(t, [][]float32{
		{1, 0},
		{0, 1},
		{1, 1},
	})

	vec, err := Vector(b, []string{"https://x.test/a", "https://x.test/b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := vecmath.Norm(vec); math.Abs(got-1) > 1e-6 {
		t.Errorf("expected unit norm, got %v", got)
	}
	// Mean of (1,0) and (0,1) points along the diagonal.
	if math.Abs(float64(vec[0])-float64(vec[1])) > 1e-6 {
		t.Errorf("expected diagonal direction, got %v", vec)
	}
}

func TestVector_UnknownIDsIgnored(t *testing.T) {
	b := encodedBatch(t, [][]float32{{1, 0}, {0, 1}})

	vec, err := Vector(b, []string{"https://x.test/a", "https://nowhere.test/z"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vec[0] != 1 || vec[1] != 0 {
		t.Errorf("expected only the matching embedding, got %v", vec)
	}
}

func TestVector_NoMatches(t *testing.T) {
	b := encodedBatch(t, [][]float32{{1, 0}})

	_, err := Vector(b, []string{"https://nowhere.test/z"})
	if !errors.Is(err, domain.ErrNoLikedMatches) {
		t.Errorf("expected ErrNoLikedMatches, got %v", err)
	}
}

func TestVector_MissingEmbeddings(t *testing.T) {
	b := batch.New([]domain.Listing{{Title: "item", URL: "u", Price: 1}})

	_, err := Vector(b, []string{"u"})
	if !errors.Is(err, domain.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestVector_CancelingMeanStaysZero(t *testing.T) {
	b := encodedBatch(t, [][]float32{{1, 0}, {-1, 0}})

	vec, err := Vector(b, []string{"https://x.test/a", "https://x.test/b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vec[0] != 0 || vec[1] != 0 {
		t.Errorf("expected zero vector for canceling likes, got %v", vec)
	}
}

func TestScores(t *testing.T) {
	b := encodedBatch(t, [][]float32{
		{1, 0},
		{0, 1},
		{-1, 0},
	})

	scores, err := Scores([]float32{1, 0}, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 0, -1}
	for i := range want {
		if math.Abs(scores[i]-want[i]) > 1e-9 {
			t.Errorf("score %d: got %v, want %v", i, scores[i], want[i])
		}
	}
}

func TestScores_DimMismatch(t *testing.T) {
	b := encodedBatch(t, [][]float32{{1, 0, 0}})

	_, err := Scores([]float32{1, 0}, b)
	if !errors.Is(err, domain.ErrDimMismatch) {
		t.Errorf("expected ErrDimMismatch, got %v", err)
	}
}

func TestApply_AttachesColumn(t *testing.T) {
	b := encodedBatch(t, [][]float32{{1, 0}, {0, 1}})

	out, vec, err := Apply(b, []string{"https://x.test/a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("unexpected taste vector: %v", vec)
	}
	if !out.HasTasteScores() {
		t.Fatal("expected taste score column")
	}
	if math.Abs(out.TasteScore(0)-1) > 1e-6 {
		t.Errorf("expected liked item to score 1, got %v", out.TasteScore(0))
	}
}
