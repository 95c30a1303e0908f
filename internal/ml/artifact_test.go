package ml

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArtifactMissingFile(t *testing.T) {
	artifact, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.gob"))
	require.NoError(t, err, "missing artifact is the no-model branch, not an error")
	assert.Nil(t, artifact)
}

func TestArtifactRoundTrip(t *testing.T) {
	v := NewVectorizer(10)
	v.Fit([]string{"travel music", "music art", "art travel"})

	k := NewKMeans(2)
	require.NoError(t, k.Fit([][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}}, 50, 1))

	s := &StandardScaler{}
	require.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))

	f := NewRandomForest(3, 2, 7)
	require.NoError(t, f.Fit([][]float64{{0, 0}, {0, 1}, {5, 5}, {5, 6}}, []int{0, 0, 1, 1}))

	path := filepath.Join(t.TempDir(), "model.gob")
	original := &Artifact{
		Vectorizer: v,
		Clusters:   k,
		Scaler:     s,
		Forest:     f,
		TrainedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, original.Save(path))

	loaded, err := LoadArtifact(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, original.Vectorizer.Vocabulary, loaded.Vectorizer.Vocabulary)
	assert.Equal(t, original.Clusters.Centroids, loaded.Clusters.Centroids)
	assert.Equal(t, original.Scaler.Mean, loaded.Scaler.Mean)
	assert.Len(t, loaded.Forest.Trees, 3)
	assert.True(t, original.TrainedAt.Equal(loaded.TrainedAt))
}
