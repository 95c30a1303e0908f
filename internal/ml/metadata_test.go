package ml

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saurabh98s/SammySwipe/internal/profile"
)

func strp(s string) *string { return &s }

func fullProfile() *profile.Profile {
	return &profile.Profile{
		ID:           "u1",
		Bio:          strp("I love hiking and photography"),
		Interests:    []string{"hiking", "photography"},
		Location:     strp("Denver"),
		ProfilePhoto: strp("https://example.com/p.jpg"),
		Gender:       strp("female"),
		Age:          intp(29),
	}
}

func TestProfileCompleteness(t *testing.T) {
	assert.Equal(t, 1.0, profileCompleteness(fullProfile()))
	assert.Equal(t, 0.0, profileCompleteness(&profile.Profile{}))

	half := &profile.Profile{
		Bio:       strp("hello"),
		Interests: []string{"music"},
		Age:       intp(30),
	}
	assert.InDelta(t, 0.5, profileCompleteness(half), 1e-9)

	// Empty strings do not count as filled.
	blank := &profile.Profile{Bio: strp(""), Location: strp("")}
	assert.Equal(t, 0.0, profileCompleteness(blank))
}

func TestActivityScore(t *testing.T) {
	assert.Equal(t, 0.0, activityScore(&profile.Profile{}))

	saturated := &profile.Profile{ProfileUpdates: 10, LoginFrequency: 30, MessageCount: 100}
	assert.InDelta(t, 1.0, activityScore(saturated), 1e-9)

	// Counters beyond saturation contribute no more.
	beyond := &profile.Profile{ProfileUpdates: 500, LoginFrequency: 500, MessageCount: 5000}
	assert.InDelta(t, 1.0, activityScore(beyond), 1e-9)

	partial := &profile.Profile{ProfileUpdates: 5, LoginFrequency: 15, MessageCount: 50}
	assert.InDelta(t, 0.5, activityScore(partial), 1e-9)
}

func TestEngagementLevel(t *testing.T) {
	assert.Equal(t, "high", engagementLevel(0.7))
	assert.Equal(t, "medium", engagementLevel(0.3))
	assert.Equal(t, "medium", engagementLevel(0.69))
	assert.Equal(t, "low", engagementLevel(0.29))
}

func TestProfileText(t *testing.T) {
	p := &profile.Profile{
		Bio:       strp("coffee addict"),
		Interests: []string{"espresso", "books"},
		Location:  strp("Seattle"),
	}
	assert.Equal(t, "coffee addict espresso books Seattle", ProfileText(p, ""))
	assert.Equal(t, "coffee addict espresso books Seattle tweets", ProfileText(p, "tweets"))
	assert.Equal(t, "empty profile", ProfileText(&profile.Profile{}, ""))
}

func TestAnalyzeWithoutModels(t *testing.T) {
	analyzer := NewMetadataAnalyzer(nil, zap.NewNop())

	a := analyzer.Analyze(fullProfile())
	assert.Equal(t, profile.ClusterUnassigned, a.Cluster)
	assert.Equal(t, 1.0, a.ProfileCompleteness)
	assert.Equal(t, "low", a.EngagementLevel)

	nilAnalysis := analyzer.Analyze(nil)
	assert.Equal(t, profile.ClusterUnassigned, nilAnalysis.Cluster)
	assert.Equal(t, "low", nilAnalysis.EngagementLevel)
}

func TestAnalyzerFitAssignsClusters(t *testing.T) {
	// Two well-separated text populations.
	profiles := make([]*profile.Profile, 0, 12)
	for i := 0; i < 6; i++ {
		profiles = append(profiles, &profile.Profile{
			ID:        fmt.Sprintf("mountain-%d", i),
			Bio:       strp("mountain climbing alpine hiking summit trails"),
			Interests: []string{"hiking", "climbing"},
		})
	}
	for i := 0; i < 6; i++ {
		profiles = append(profiles, &profile.Profile{
			ID:        fmt.Sprintf("jazz-%d", i),
			Bio:       strp("jazz saxophone vinyl records concerts music"),
			Interests: []string{"jazz", "vinyl"},
		})
	}

	analyzer := NewUnfitMetadataAnalyzer(50, 2, zap.NewNop())
	require.NoError(t, analyzer.Fit(profiles, nil, 42))
	require.True(t, analyzer.ClusteringFitted())

	mountain := analyzer.Analyze(profiles[0])
	jazz := analyzer.Analyze(profiles[6])

	assert.NotEqual(t, profile.ClusterUnassigned, mountain.Cluster)
	assert.NotEqual(t, profile.ClusterUnassigned, jazz.Cluster)
	assert.NotEqual(t, mountain.Cluster, jazz.Cluster)

	// Members of the same population land in the same cluster.
	assert.Equal(t, mountain.Cluster, analyzer.Analyze(profiles[1]).Cluster)
	assert.Equal(t, jazz.Cluster, analyzer.Analyze(profiles[7]).Cluster)
}

func TestVectorizerTransform(t *testing.T) {
	v := NewVectorizer(10)
	v.Fit([]string{
		"travel music travel",
		"music art",
		"art travel",
	})
	require.True(t, v.Fitted())

	vec := v.Transform("travel music")
	require.Len(t, vec, len(v.IDF))

	// L2 normalized.
	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	assert.InDelta(t, 1.0, norm, 1e-9)

	// Unknown-only documents map to the zero vector.
	zero := v.Transform("quantum")
	for _, x := range zero {
		assert.Equal(t, 0.0, x)
	}
}

func TestVectorizerMaxFeatures(t *testing.T) {
	v := NewVectorizer(2)
	v.Fit([]string{"aa bb cc", "aa bb", "aa"})

	assert.Len(t, v.Vocabulary, 2)
	assert.Contains(t, v.Vocabulary, "aa")
	assert.Contains(t, v.Vocabulary, "bb")
}

func TestKMeansPredictUnfit(t *testing.T) {
	m := NewKMeans(3)
	assert.Equal(t, -1, m.Predict([]float64{1, 2}))

	require.NoError(t, m.Fit([][]float64{{0, 0}, {0, 1}, {10, 10}, {10, 11}, {5, 5}}, 50, 1))
	assert.Equal(t, -1, m.Predict([]float64{1, 2, 3}), "width mismatch stays unassigned")
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	X := [][]float64{
		{0.1, 0.0}, {0.0, 0.2}, {0.2, 0.1},
		{9.9, 10.0}, {10.1, 9.8}, {10.0, 10.2},
	}

	m := NewKMeans(2)
	require.NoError(t, m.Fit(X, 100, 42))

	low := m.Predict([]float64{0.1, 0.1})
	high := m.Predict([]float64{10.0, 10.0})
	assert.NotEqual(t, low, high)
	assert.Equal(t, low, m.Predict([]float64{0.0, 0.0}))
}
