package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func TestInterestSimilarity(t *testing.T) {
	t.Run("empty sets yield zero", func(t *testing.T) {
		assert.Equal(t, 0.0, InterestSimilarity(nil, []string{"travel"}))
		assert.Equal(t, 0.0, InterestSimilarity([]string{"travel"}, nil))
		assert.Equal(t, 0.0, InterestSimilarity(nil, nil))
	})

	t.Run("jaccard coefficient", func(t *testing.T) {
		a := []string{"travel", "music"}
		b := []string{"travel", "art"}
		assert.InDelta(t, 1.0/3.0, InterestSimilarity(a, b), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []string{"travel", "music", "food"}
		b := []string{"music", "hiking"}
		assert.Equal(t, InterestSimilarity(a, b), InterestSimilarity(b, a))
	})

	t.Run("identical sets yield one", func(t *testing.T) {
		a := []string{"travel", "music"}
		assert.Equal(t, 1.0, InterestSimilarity(a, a))
	})

	t.Run("duplicates do not inflate", func(t *testing.T) {
		a := []string{"travel", "travel", "music"}
		b := []string{"travel", "art"}
		assert.InDelta(t, 1.0/3.0, InterestSimilarity(a, b), 1e-9)
	})
}

func TestCommonInterests(t *testing.T) {
	common := CommonInterests([]string{"music", "travel", "travel"}, []string{"travel", "art", "music"})
	assert.Equal(t, []string{"music", "travel"}, common)

	assert.Empty(t, CommonInterests([]string{"food"}, []string{"art"}))
	assert.Empty(t, CommonInterests(nil, []string{"art"}))
}

func TestLocationCompatibility(t *testing.T) {
	t.Run("missing coordinates yield neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, LocationCompatibility(nil, nil, f64(1), f64(1)))
		assert.Equal(t, 0.5, LocationCompatibility(f64(1), f64(1), f64(1), nil))
	})

	t.Run("same point yields one", func(t *testing.T) {
		assert.InDelta(t, 1.0, LocationCompatibility(f64(48.85), f64(2.35), f64(48.85), f64(2.35)), 1e-9)
	})

	t.Run("floors at 0.1 for distant points", func(t *testing.T) {
		// Paris to Berlin, far beyond the 100 km decay range.
		score := LocationCompatibility(f64(48.85), f64(2.35), f64(52.52), f64(13.40))
		assert.InDelta(t, 0.1, score, 1e-9)
	})

	t.Run("monotonically non-increasing in distance", func(t *testing.T) {
		prev := 1.0
		for _, dLat := range []float64{0.05, 0.1, 0.2, 0.4, 0.8, 1.6} {
			score := LocationCompatibility(f64(48.85), f64(2.35), f64(48.85+dLat), f64(2.35))
			assert.LessOrEqual(t, score, prev)
			assert.GreaterOrEqual(t, score, 0.1)
			assert.LessOrEqual(t, score, 1.0)
			prev = score
		}
	})
}

func TestHaversineDistance(t *testing.T) {
	assert.Equal(t, 0.0, HaversineDistance(48.85, 2.35, 48.85, 2.35))

	// Paris to London, roughly 344 km.
	d := HaversineDistance(48.8566, 2.3522, 51.5074, -0.1278)
	assert.InDelta(t, 344, d, 5)
}

func TestAgeCompatibility(t *testing.T) {
	cases := []struct {
		name string
		diff int
		want float64
	}{
		{"same age", 0, 1.0},
		{"three years", 3, 0.91},
		{"four years", 4, 0.8},
		{"seven years", 7, 0.65},
		{"eight years", 8, 0.5},
		{"fifteen years", 15, 0.325},
		{"sixteen years", 16, 0.2},
		{"forty years", 40, 0.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, AgeCompatibility(intp(30), intp(30+tc.diff)), 1e-9)
			assert.InDelta(t, tc.want, AgeCompatibility(intp(30+tc.diff), intp(30)), 1e-9)
		})
	}

	assert.Equal(t, 0.5, AgeCompatibility(nil, intp(30)))
	assert.Equal(t, 0.5, AgeCompatibility(intp(30), nil))
}

func TestPersonalityCompatibility(t *testing.T) {
	t.Run("missing traits yield neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, PersonalityCompatibility(nil, map[string]float64{"openness": 0.5}))
		assert.Equal(t, 0.5, PersonalityCompatibility(map[string]float64{"openness": 0.5}, nil))
	})

	t.Run("no shared known traits yield neutral", func(t *testing.T) {
		a := map[string]float64{"openness": 0.9}
		b := map[string]float64{"neuroticism": 0.9}
		assert.Equal(t, 0.5, PersonalityCompatibility(a, b))
	})

	t.Run("identical extreme agreeableness scores its factor", func(t *testing.T) {
		traits := map[string]float64{"agreeableness": 1.0}
		assert.InDelta(t, 0.9, PersonalityCompatibility(traits, traits), 1e-9)
	})

	t.Run("neuroticism alignment is a weak signal", func(t *testing.T) {
		traits := map[string]float64{"neuroticism": 1.0}
		assert.InDelta(t, 0.2, PersonalityCompatibility(traits, traits), 1e-9)
	})

	t.Run("bounded", func(t *testing.T) {
		a := map[string]float64{"openness": 0.9, "agreeableness": 0.2, "neuroticism": 0.7}
		b := map[string]float64{"openness": 0.1, "agreeableness": 0.8, "neuroticism": 0.3}
		score := PersonalityCompatibility(a, b)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	})

	t.Run("unknown traits are ignored", func(t *testing.T) {
		a := map[string]float64{"agreeableness": 1.0, "humor": 0.9}
		b := map[string]float64{"agreeableness": 1.0, "humor": 0.1}
		assert.InDelta(t, 0.9, PersonalityCompatibility(a, b), 1e-9)
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.47, Round2(0.474333))
	assert.Equal(t, 0.95, Round2(0.951))
	assert.Equal(t, 1.0, Round2(0.999))
	assert.False(t, math.Signbit(Round2(0)))
}
