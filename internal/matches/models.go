package matches

import (
	"time"

	"github.com/saurabh98s/SammySwipe/internal/ml"
)

// EdgeStatus is the lifecycle state of a directed interest edge.
type EdgeStatus string

const (
	StatusPending  EdgeStatus = "pending"
	StatusAccepted EdgeStatus = "accepted"
	StatusRejected EdgeStatus = "rejected"
)

// RelationshipEdge is a directed record of one profile's interest in
// another. At most one edge exists per ordered (from, to) pair; edges
// are never deleted by this service.
type RelationshipEdge struct {
	FromID     string     `json:"from_id" db:"from_id"`
	ToID       string     `json:"to_id" db:"to_id"`
	Status     EdgeStatus `json:"status" db:"status"`
	Score      float64    `json:"score" db:"score"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty" db:"accepted_at"`
	RejectedAt *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
}

// LikeResult reports the outcome of a like action. Created is false
// when the edge already existed (informational, not an error); Mutual
// is true when the like completed a mutual match.
type LikeResult struct {
	Created bool `json:"created"`
	Mutual  bool `json:"mutual"`
}

// Statistics is the per-user snapshot recomputed from the relationship
// graph and written back onto the profile.
type Statistics struct {
	LikesSent     int       `json:"likes_sent" db:"likes_sent"`
	DislikesSent  int       `json:"dislikes_sent" db:"dislikes_sent"`
	MutualMatches int       `json:"mutual_matches" db:"mutual_matches"`
	IncomingLikes int       `json:"incoming_likes" db:"incoming_likes"`
	MatchRate     float64   `json:"match_rate" db:"match_rate"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ScoredCandidate pairs a candidate with its compatibility result,
// ranked for the recommendations response.
type ScoredCandidate struct {
	UserID          string             `json:"user_id"`
	Username        string             `json:"username"`
	FullName        string             `json:"full_name"`
	Bio             *string            `json:"bio,omitempty"`
	Interests       []string           `json:"interests"`
	Location        *string            `json:"location,omitempty"`
	ProfilePhoto    *string            `json:"profile_photo,omitempty"`
	Age             *int               `json:"age,omitempty"`
	MatchScore      float64            `json:"match_score"`
	CommonInterests []string           `json:"common_interests"`
	Components      ml.ComponentScores `json:"compatibility_details"`
}

// MatchedUser is an accepted counterpart with the score captured when
// the edge was created.
type MatchedUser struct {
	UserID       string     `json:"user_id" db:"user_id"`
	Username     string     `json:"username" db:"username"`
	FullName     string     `json:"full_name" db:"full_name"`
	Bio          *string    `json:"bio,omitempty" db:"bio"`
	ProfilePhoto *string    `json:"profile_photo,omitempty" db:"profile_photo"`
	Age          *int       `json:"age,omitempty" db:"age"`
	MatchScore   float64    `json:"match_score" db:"match_score"`
	MatchedAt    *time.Time `json:"matched_at,omitempty" db:"matched_at"`
}
