package profile

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ClusterUnassigned marks a profile that has not been placed in a
// metadata cluster yet (no trained cluster model, or never analyzed).
const ClusterUnassigned = -1

// TraitMap holds the Big Five personality traits, each scored in [0,1].
// Stored as JSONB.
type TraitMap map[string]float64

// Value implements driver.Valuer
func (t TraitMap) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner
func (t *TraitMap) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported trait map type %T", src)
	}

	return json.Unmarshal(data, t)
}

// Profile is a user's matchable attributes. Profiles are created and
// mutated by the profile-management collaborator; this service reads
// them and writes back only the derived metadata and statistics fields.
type Profile struct {
	ID           string         `json:"id" db:"id"`
	Username     string         `json:"username" db:"username"`
	FullName     string         `json:"full_name" db:"full_name"`
	Gender       *string        `json:"gender,omitempty" db:"gender"`
	Age          *int           `json:"age,omitempty" db:"age"`
	Bio          *string        `json:"bio,omitempty" db:"bio"`
	Interests    pq.StringArray `json:"interests" db:"interests"`
	Location     *string        `json:"location,omitempty" db:"location"`
	Latitude     *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64       `json:"longitude,omitempty" db:"longitude"`
	ProfilePhoto *string        `json:"profile_photo,omitempty" db:"profile_photo"`

	PersonalityTraits TraitMap `json:"personality_traits,omitempty" db:"personality_traits"`

	// Behavioral counters maintained by the surrounding collaborators
	LoginFrequency int `json:"login_frequency" db:"login_frequency"`
	ProfileUpdates int `json:"profile_updates" db:"profile_updates"`
	MessageCount   int `json:"message_count" db:"message_count"`

	// Derived metadata, computed here and persisted back
	ActivityScore       float64 `json:"activity_score" db:"activity_score"`
	ProfileCompleteness float64 `json:"profile_completeness" db:"profile_completeness"`
	Cluster             int     `json:"cluster" db:"cluster"`

	// Match statistics, recomputed from the relationship graph
	LikesSent           int        `json:"likes_sent" db:"likes_sent"`
	DislikesSent        int        `json:"dislikes_sent" db:"dislikes_sent"`
	MutualMatches       int        `json:"mutual_matches" db:"mutual_matches"`
	IncomingLikes       int        `json:"incoming_likes" db:"incoming_likes"`
	MatchRate           float64    `json:"match_rate" db:"match_rate"`
	StatisticsUpdatedAt *time.Time `json:"statistics_updated_at,omitempty" db:"statistics_updated_at"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
