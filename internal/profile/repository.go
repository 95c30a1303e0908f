package profile

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	ListCandidates(ctx context.Context, excludeID string, limit int) ([]*Profile, error)
	ListAll(ctx context.Context) ([]*Profile, error)
	SaveDerivedMetadata(ctx context.Context, id string, activity, completeness float64, cluster int) error
	GetRawText(ctx context.Context, userID string) (string, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	id, username, full_name, gender, age, bio, interests, location,
	latitude, longitude, profile_photo, personality_traits,
	login_frequency, profile_updates, message_count,
	activity_score, profile_completeness, cluster,
	likes_sent, dislikes_sent, mutual_matches, incoming_likes,
	match_rate, statistics_updated_at, is_active, created_at
`

func (r *postgresRepository) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *postgresRepository) ListCandidates(ctx context.Context, excludeID string, limit int) ([]*Profile, error) {
	var profiles []*Profile
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id <> $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $2
	`

	err := r.db.SelectContext(ctx, &profiles, query, excludeID, limit)
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]*Profile, error) {
	var profiles []*Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE is_active = TRUE`

	err := r.db.SelectContext(ctx, &profiles, query)
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *postgresRepository) SaveDerivedMetadata(ctx context.Context, id string, activity, completeness float64, cluster int) error {
	query := `
		UPDATE profiles
		SET activity_score = $2, profile_completeness = $3, cluster = $4
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, activity, completeness, cluster)
	if err != nil {
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// GetRawText joins all ingested social payloads for a user into one
// blob. Used only to build the metadata analyzer's training corpus.
func (r *postgresRepository) GetRawText(ctx context.Context, userID string) (string, error) {
	var blobs []string
	query := `
		SELECT payload FROM raw_social_data
		WHERE user_id = $1
		ORDER BY ingested_at
	`

	err := r.db.SelectContext(ctx, &blobs, query, userID)
	if err != nil {
		return "", err
	}

	return strings.Join(blobs, " "), nil
}
