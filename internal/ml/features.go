// internal/ml/features.go
// Pairwise compatibility signals. Each function is pure, returns a
// value in [0,1], and substitutes a fixed neutral default when its
// inputs are missing.

package ml

import (
	"math"
	"sort"
)

const (
	earthRadiusKm = 6371.0

	// Location decay: full compatibility at 0 km, floor of 0.1 at
	// maxDistanceKm and beyond.
	maxDistanceKm = 100.0

	// neutralScore is the default when a signal cannot be computed.
	neutralScore = 0.5
)

// traitSelfCompatibility scales each trait's similarity contribution.
// Values are the diagonal of the trait-compatibility matrix: alignment
// on agreeableness is a strong signal, alignment on neuroticism a weak
// one.
var traitSelfCompatibility = map[string]float64{
	"openness":          0.8,
	"conscientiousness": 0.8,
	"extroversion":      0.6,
	"agreeableness":     0.9,
	"neuroticism":       0.2,
}

// InterestSimilarity is the Jaccard coefficient of the two interest
// sets: intersection size over union size. Either set empty yields 0.
func InterestSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for interest := range setA {
		if setB[interest] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// CommonInterests returns the interests shared by both sets, sorted
// for deterministic output.
func CommonInterests(a, b []string) []string {
	setB := toSet(b)

	seen := make(map[string]bool)
	common := []string{}
	for _, interest := range a {
		if setB[interest] && !seen[interest] {
			seen[interest] = true
			common = append(common, interest)
		}
	}

	sort.Strings(common)
	return common
}

// LocationCompatibility maps the great-circle distance between two
// coordinate pairs onto [0.1, 1.0]: distance 0 gives 1.0, distances of
// 100 km or more floor at 0.1. Missing coordinates on either side
// yield the neutral default.
func LocationCompatibility(lat1, lon1, lat2, lon2 *float64) float64 {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return neutralScore
	}

	distance := HaversineDistance(*lat1, *lon1, *lat2, *lon2)

	return math.Max(0.1, 1.0-math.Min(distance/maxDistanceKm, 0.9))
}

// HaversineDistance returns the great-circle distance in kilometers
// between two latitude/longitude points.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// AgeCompatibility is a piecewise function of the absolute age
// difference:
//
//	0-3 years:  1.0 down to 0.91
//	4-7 years:  0.8 down to 0.65
//	8-15 years: 0.5 down to 0.325
//	16+ years:  0.2
//
// Missing age on either side yields the neutral default.
func AgeCompatibility(ageA, ageB *int) float64 {
	if ageA == nil || ageB == nil {
		return neutralScore
	}

	d := float64(*ageA - *ageB)
	if d < 0 {
		d = -d
	}

	switch {
	case d <= 3:
		return 1.0 - d*0.03
	case d <= 7:
		return 0.8 - (d-4)*0.05
	case d <= 15:
		return 0.5 - (d-8)*0.025
	default:
		return 0.2
	}
}

// PersonalityCompatibility compares the traits present in both maps.
// Per trait, similarity 1-|a-b| is scaled by the trait's
// self-compatibility factor and weighted by how far the first user's
// value sits from neutral (extreme traits count more). The result is
// the weighted average over matched traits; no matched traits yields
// the neutral default.
func PersonalityCompatibility(traitsA, traitsB map[string]float64) float64 {
	if len(traitsA) == 0 || len(traitsB) == 0 {
		return neutralScore
	}

	totalWeight := 0.0
	weighted := 0.0

	for trait, scoreA := range traitsA {
		factor, known := traitSelfCompatibility[trait]
		if !known {
			continue
		}

		scoreB, shared := traitsB[trait]
		if !shared {
			continue
		}

		similarity := 1.0 - math.Abs(scoreA-scoreB)
		importance := 0.5 + math.Abs(scoreA-0.5)

		weighted += similarity * factor * importance
		totalWeight += importance
	}

	if totalWeight == 0 {
		return neutralScore
	}

	return weighted / totalWeight
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
