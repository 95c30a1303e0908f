package matches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrEdgeNotFound = errors.New("relationship edge not found")

// Repository persists the relationship graph and the statistics
// snapshots derived from it.
type Repository interface {
	GetEdge(ctx context.Context, fromID, toID string) (*RelationshipEdge, error)
	InsertEdge(ctx context.Context, fromID, toID string, score float64) (created bool, err error)
	PromoteMutual(ctx context.Context, fromID, toID string) (mutual bool, err error)
	SetStatus(ctx context.Context, fromID, toID string, status EdgeStatus) (*RelationshipEdge, error)
	UserCounters(ctx context.Context, userID string) (*Statistics, error)
	AcceptedMatches(ctx context.Context, userID string) ([]MatchedUser, error)
	SaveStatistics(ctx context.Context, userID string, stats *Statistics) error
	ListEdges(ctx context.Context) ([]RelationshipEdge, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetEdge(ctx context.Context, fromID, toID string) (*RelationshipEdge, error) {
	var edge RelationshipEdge
	err := r.db.GetContext(ctx, &edge, `
		SELECT from_id, to_id, status, score, created_at, accepted_at, rejected_at
		FROM relationship_edges
		WHERE from_id = $1 AND to_id = $2`,
		fromID, toID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEdgeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get relationship edge: %w", err)
	}
	return &edge, nil
}

// InsertEdge creates a pending edge if none exists for the ordered
// pair. The conditional insert makes repeated likes idempotent without
// a prior read.
func (r *postgresRepository) InsertEdge(ctx context.Context, fromID, toID string, score float64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO relationship_edges (from_id, to_id, status, score, created_at)
		VALUES ($1, $2, 'pending', $3, NOW())
		ON CONFLICT (from_id, to_id) DO NOTHING`,
		fromID, toID, score)
	if err != nil {
		return false, fmt.Errorf("failed to insert relationship edge: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// PromoteMutual upgrades both pending edges of a reciprocal pair to
// accepted in one statement. Each edge is only touched when its
// reverse edge is also pending, so the update is all-or-nothing: two
// rows means the pair is now mutual, zero means the other side has not
// liked back yet.
func (r *postgresRepository) PromoteMutual(ctx context.Context, fromID, toID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE relationship_edges e
		SET status = 'accepted', accepted_at = NOW()
		WHERE e.from_id IN ($1, $2)
		  AND e.to_id IN ($1, $2)
		  AND e.from_id <> e.to_id
		  AND e.status = 'pending'
		  AND EXISTS (
			SELECT 1 FROM relationship_edges r
			WHERE r.from_id = e.to_id AND r.to_id = e.from_id AND r.status = 'pending'
		  )`,
		fromID, toID)
	if err != nil {
		return false, fmt.Errorf("failed to promote mutual match: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 2, nil
}

// SetStatus transitions an existing edge and stamps the matching
// timestamp column.
func (r *postgresRepository) SetStatus(ctx context.Context, fromID, toID string, status EdgeStatus) (*RelationshipEdge, error) {
	var edge RelationshipEdge
	err := r.db.GetContext(ctx, &edge, `
		UPDATE relationship_edges
		SET status = $3,
		    accepted_at = CASE WHEN $3 = 'accepted' THEN NOW() ELSE accepted_at END,
		    rejected_at = CASE WHEN $3 = 'rejected' THEN NOW() ELSE rejected_at END
		WHERE from_id = $1 AND to_id = $2
		RETURNING from_id, to_id, status, score, created_at, accepted_at, rejected_at`,
		fromID, toID, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEdgeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update relationship edge: %w", err)
	}
	return &edge, nil
}

// UserCounters recomputes the statistics snapshot for one user from the
// edge table. Incoming likes exclude users the subject has already
// acted on in either direction.
func (r *postgresRepository) UserCounters(ctx context.Context, userID string) (*Statistics, error) {
	var stats Statistics
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			(SELECT COUNT(*) FROM relationship_edges
			 WHERE from_id = $1 AND status IN ('pending', 'accepted')) AS likes_sent,
			(SELECT COUNT(*) FROM relationship_edges
			 WHERE from_id = $1 AND status = 'rejected') AS dislikes_sent,
			(SELECT COUNT(*) FROM relationship_edges a
			 JOIN relationship_edges b ON b.from_id = a.to_id AND b.to_id = a.from_id
			 WHERE a.from_id = $1
			   AND a.status IN ('pending', 'accepted')
			   AND b.status IN ('pending', 'accepted')) AS mutual_matches,
			(SELECT COUNT(*) FROM relationship_edges i
			 WHERE i.to_id = $1 AND i.status IN ('pending', 'accepted')
			   AND NOT EXISTS (
				SELECT 1 FROM relationship_edges o
				WHERE o.from_id = $1 AND o.to_id = i.from_id
			 )) AS incoming_likes,
			0.0 AS match_rate`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute user counters: %w", err)
	}

	if stats.LikesSent > 0 {
		stats.MatchRate = float64(stats.MutualMatches) / float64(stats.LikesSent)
	}
	return &stats, nil
}

// AcceptedMatches lists the counterparts of the user's accepted edges
// with profile details joined in.
func (r *postgresRepository) AcceptedMatches(ctx context.Context, userID string) ([]MatchedUser, error) {
	matched := []MatchedUser{}
	err := r.db.SelectContext(ctx, &matched, `
		SELECT p.id AS user_id, p.username, p.full_name, p.bio, p.profile_photo, p.age,
		       e.score AS match_score, e.accepted_at AS matched_at
		FROM relationship_edges e
		JOIN profiles p ON p.id = e.to_id
		WHERE e.from_id = $1 AND e.status = 'accepted'
		ORDER BY e.accepted_at DESC NULLS LAST`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted matches: %w", err)
	}
	return matched, nil
}

func (r *postgresRepository) SaveStatistics(ctx context.Context, userID string, stats *Statistics) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET likes_sent = $2,
		    dislikes_sent = $3,
		    mutual_matches = $4,
		    incoming_likes = $5,
		    match_rate = $6,
		    statistics_updated_at = NOW()
		WHERE id = $1`,
		userID, stats.LikesSent, stats.DislikesSent, stats.MutualMatches,
		stats.IncomingLikes, stats.MatchRate)
	if err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}
	return nil
}

// ListEdges returns the full edge table for offline training.
func (r *postgresRepository) ListEdges(ctx context.Context) ([]RelationshipEdge, error) {
	edges := []RelationshipEdge{}
	err := r.db.SelectContext(ctx, &edges, `
		SELECT from_id, to_id, status, score, created_at, accepted_at, rejected_at
		FROM relationship_edges`)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationship edges: %w", err)
	}
	return edges, nil
}
