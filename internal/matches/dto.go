package matches

import "github.com/saurabh98s/SammySwipe/internal/ml"

// RecommendationQuery carries the query parameters of the
// recommendations endpoint. Limit 0 means "no truncation".
type RecommendationQuery struct {
	Limit int `validate:"omitempty,min=1,max=500"`
}

// RecommendationResponse is one entry of the ranked recommendations
// list. MatchPercentage duplicates the score on a 0-100 scale for
// display clients.
type RecommendationResponse struct {
	ScoredCandidate
	MatchPercentage float64 `json:"match_percentage"`
}

// CompatibilityResponse is the single-pair breakdown.
type CompatibilityResponse struct {
	UserID          string             `json:"user_id"`
	MatchScore      float64            `json:"match_score"`
	MatchPercentage float64            `json:"match_percentage"`
	Components      ml.ComponentScores `json:"component_scores"`
	CommonInterests []string           `json:"common_interests"`
}

func newRecommendationResponses(candidates []ScoredCandidate) []RecommendationResponse {
	out := make([]RecommendationResponse, len(candidates))
	for i, c := range candidates {
		out[i] = RecommendationResponse{
			ScoredCandidate: c,
			MatchPercentage: ml.Round2(c.MatchScore * 100),
		}
	}
	return out
}

func newCompatibilityResponse(userID string, result *ml.CompatibilityResult) *CompatibilityResponse {
	return &CompatibilityResponse{
		UserID:          userID,
		MatchScore:      result.Score,
		MatchPercentage: ml.Round2(result.Score * 100),
		Components:      result.Components,
		CommonInterests: result.CommonInterests,
	}
}
