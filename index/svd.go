package index

import (
	"math"
	"math/rand"
)

// svdIterations is the number of block power-iteration rounds. The spectrum
// of TF-IDF Gram matrices decays fast enough that this converges well before
// the cap on the corpus sizes this engine targets.
const svdIterations = 40

// topEigenvectors approximates the top dim eigenvectors of the symmetric
// v x v matrix c using block power iteration with modified Gram-Schmidt
// re-orthonormalization. The returned slice holds dim vectors of length v.
// Initialization is seeded, so the result is deterministic for a given input.
func topEigenvectors(c [][]float64, dim int, seed int64) [][]float64 {
	v := len(c)
	if dim > v {
		dim = v
	}
	if dim <= 0 || v == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	q := make([][]float64, dim)
	for k := range q {
		q[k] = make([]float64, v)
		for i := range q[k] {
			q[k][i] = rng.NormFloat64()
		}
	}
	orthonormalize(q)

	z := make([][]float64, dim)
	for k := range z {
		z[k] = make([]float64, v)
	}

	for range svdIterations {
		for k := range q {
			multiply(c, q[k], z[k])
		}
		q, z = z, q
		orthonormalize(q)
	}
	return q
}

// multiply computes out = c * in for a square matrix c.
func multiply(c [][]float64, in, out []float64) {
	for i := range c {
		sum := 0.0
		row := c[i]
		for j, w := range row {
			sum += w * in[j]
		}
		out[i] = sum
	}
}

// orthonormalize applies modified Gram-Schmidt in place. Vectors that vanish
// (dim exceeding the rank of the matrix) are left as zeros.
func orthonormalize(vs [][]float64) {
	for k := range vs {
		for j := range k {
			d := dot(vs[j], vs[k])
			for i := range vs[k] {
				vs[k][i] -= d * vs[j][i]
			}
		}
		n := math.Sqrt(dot(vs[k], vs[k]))
		if n < 1e-12 {
			for i := range vs[k] {
				vs[k][i] = 0
			}
			continue
		}
		for i := range vs[k] {
			vs[k][i] /= n
		}
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
