// internal/ml/aggregator.go
// Deterministic, explainable combination of the feature signals.
// Always available; the engine falls back to it when no trained
// classifier is loaded.

package ml

import (
	"math"

	"github.com/saurabh98s/SammySwipe/internal/profile"
)

// Component weights. Interest overlap and personality dominate.
const (
	interestWeight    = 0.4
	locationWeight    = 0.2
	ageWeight         = 0.1
	personalityWeight = 0.3
)

// ComponentScores is the per-signal breakdown returned alongside the
// overall score, rounded to 2 decimals.
type ComponentScores struct {
	Interest    float64 `json:"interest_score"`
	Location    float64 `json:"location_score"`
	Age         float64 `json:"age_score"`
	Personality float64 `json:"personality_score"`
}

// CompatibilityResult is computed per query and never persisted.
type CompatibilityResult struct {
	Score           float64         `json:"match_score"`
	Components      ComponentScores `json:"component_scores"`
	CommonInterests []string        `json:"common_interests"`
}

// Aggregator blends the four feature signals with fixed weights and
// clamps the result into [floor, ceil].
type Aggregator struct {
	floor float64
	ceil  float64
}

// NewAggregator creates an aggregator with the given clamp bounds
// (0.40 and 0.95 by default configuration: never show a 0% or 100%
// match).
func NewAggregator(floor, ceil float64) *Aggregator {
	return &Aggregator{floor: floor, ceil: ceil}
}

// Score computes the weighted overall compatibility of two profiles
// with its component breakdown and common-interest list. Clamping
// happens after weighting, never per component.
func (a *Aggregator) Score(p, q *profile.Profile) *CompatibilityResult {
	interest := InterestSimilarity(p.Interests, q.Interests)
	location := LocationCompatibility(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
	age := AgeCompatibility(p.Age, q.Age)
	personality := PersonalityCompatibility(p.PersonalityTraits, q.PersonalityTraits)

	overall := interest*interestWeight +
		location*locationWeight +
		age*ageWeight +
		personality*personalityWeight

	return &CompatibilityResult{
		Score: Round2(a.Clamp(overall)),
		Components: ComponentScores{
			Interest:    Round2(interest),
			Location:    Round2(location),
			Age:         Round2(age),
			Personality: Round2(personality),
		},
		CommonInterests: CommonInterests(p.Interests, q.Interests),
	}
}

// Clamp bounds a raw score into the configured display range.
func (a *Aggregator) Clamp(score float64) float64 {
	return math.Max(a.floor, math.Min(a.ceil, score))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
