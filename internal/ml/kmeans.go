// internal/ml/kmeans.go
// Lloyd's k-means over TF-IDF vectors, used to group profiles with
// similar textual signatures. Fit offline, predict at request time.

package ml

import (
	"errors"
	"math"
	"math/rand"
)

// KMeans holds fitted centroids. Exported fields for gob encoding.
type KMeans struct {
	K         int
	Centroids [][]float64
}

func NewKMeans(k int) *KMeans {
	return &KMeans{K: k}
}

// Fitted reports whether the model carries centroids.
func (m *KMeans) Fitted() bool {
	return len(m.Centroids) > 0
}

// Fit runs Lloyd's algorithm with a seeded initialization so repeated
// training runs are reproducible.
func (m *KMeans) Fit(X [][]float64, maxIter int, seed int64) error {
	if len(X) < m.K {
		return errors.New("kmeans: fewer samples than clusters")
	}

	dim := len(X[0])
	rng := rand.New(rand.NewSource(seed))

	// Initialize centroids on distinct samples.
	perm := rng.Perm(len(X))
	m.Centroids = make([][]float64, m.K)
	for i := 0; i < m.K; i++ {
		m.Centroids[i] = append([]float64(nil), X[perm[i]]...)
	}

	assignments := make([]int, len(X))
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, x := range X {
			c := m.Predict(x)
			if c != assignments[i] {
				assignments[i] = c
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		sums := make([][]float64, m.K)
		counts := make([]int, m.K)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, x := range X {
			c := assignments[i]
			counts[c]++
			for j, v := range x {
				sums[c][j] += v
			}
		}

		for c := 0; c < m.K; c++ {
			if counts[c] == 0 {
				// Reseed an empty cluster on a random sample.
				m.Centroids[c] = append([]float64(nil), X[rng.Intn(len(X))]...)
				continue
			}
			for j := range sums[c] {
				m.Centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}

	return nil
}

// Predict returns the index of the nearest centroid, or -1 when the
// model is unfit or the vector width does not match.
func (m *KMeans) Predict(x []float64) int {
	if !m.Fitted() || len(x) != len(m.Centroids[0]) {
		return -1
	}

	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range m.Centroids {
		d := 0.0
		for j, v := range x {
			diff := v - centroid[j]
			d += diff * diff
		}
		if d < bestDist {
			bestDist = d
			best = c
		}
	}

	return best
}
