package batch

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/stylerank/internal/domain"
)

func listings(n int) []domain.Listing {
	out := make([]domain.Listing, n)
	for i := range out {
		out[i] = domain.Listing{Title: "item", URL: "https://x.test/" + string(rune('a'+i)), Price: 10}
	}
	return out
}

func TestNew_CopiesInput(t *testing.T) {
	src := listings(2)
	b := New(src)

	src[0].Title = "mutated"
	if b.Listing(0).Title != "item" {
		t.Error("batch must copy the input slice")
	}
	if b.Len() != 2 {
		t.Errorf("expected len 2, got %d", b.Len())
	}
}

func TestZeroBatch_HasAllColumns(t *testing.T) {
	var b Batch
	if b.Len() != 0 {
		t.Fatalf("zero batch should be empty, got %d", b.Len())
	}
	if !b.HasAttributes() || !b.HasEmbeddings() || !b.HasTasteScores() || !b.HasValues() {
		t.Error("empty batch should count as carrying every column")
	}
}

func TestWithColumns_AttachAndRead(t *testing.T) {
	b := New(listings(2))

	if b.HasAttributes() || b.HasEmbeddings() {
		t.Fatal("fresh non-empty batch should carry no derived columns")
	}

	b2, err := b.WithAttributes([]domain.Attributes{{Color: "red"}, {Color: "blue"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b2.HasAttributes() {
		t.Error("expected attribute column present")
	}
	if b2.Attributes(1).Color != "blue" {
		t.Errorf("unexpected attribute: %+v", b2.Attributes(1))
	}

	// The original value is untouched.
	if b.HasAttributes() {
		t.Error("With* must not mutate the receiver")
	}
}

func TestWithColumns_LengthMismatch(t *testing.T) {
	b := New(listings(2))

	_, err := b.WithEmbeddings([][]float32{{1}})
	if !errors.Is(err, domain.ErrDimMismatch) {
		t.Errorf("expected ErrDimMismatch, got %v", err)
	}

	_, err = b.WithTasteScores([]float64{1, 2, 3})
	if !errors.Is(err, domain.ErrDimMismatch) {
		t.Errorf("expected ErrDimMismatch, got %v", err)
	}
}

func TestAccessors_AbsentColumns(t *testing.T) {
	b := New(listings(1))

	if b.Embedding(0) != nil {
		t.Error("expected nil embedding for absent column")
	}
	if b.TasteScore(0) != 0 {
		t.Error("expected zero taste score for absent column")
	}
	if b.Value(0) != (domain.ValueComponents{}) {
		t.Error("expected zero value components for absent column")
	}
}
