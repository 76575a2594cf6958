// Package vecmath holds the pure numeric kernels shared by the taste modeler,
// value scorer and rank fusion: L2 norms, cosine similarity, vector means and
// batch-relative min-max rescaling. Every function is total — degenerate
// inputs (zero vectors, constant slices) produce zero-filled results instead
// of NaN or Inf.
package vecmath

import "math"

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero vector is returned as a
// zero copy: there is no direction to preserve and dividing by zero helps
// nobody.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	n := Norm(v)
	if n == 0 {
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}

// Mean returns the element-wise mean of vecs. All vectors must share the
// length of the first one; Mean of an empty set is nil.
func Mean(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	out := make([]float64, len(vecs[0]))
	for _, v := range vecs {
		for i, x := range v {
			out[i] += float64(x)
		}
	}
	mean := make([]float32, len(out))
	for i, x := range out {
		mean[i] = float32(x / float64(len(vecs)))
	}
	return mean
}

// Cosine returns the cosine similarity of a and b. Either vector having zero
// norm yields 0. Callers are responsible for dimension agreement.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MinMax rescales xs into [0,1] relative to its own min and max. A constant
// (or empty) slice maps to all zeros. The rescale is batch-relative: outputs
// from different calls are not comparable with each other.
func MinMax(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if hi <= lo {
		return out
	}
	for i, x := range xs {
		out[i] = (x - lo) / (hi - lo)
	}
	return out
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
