package matches

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/saurabh98s/SammySwipe/internal/ml"
	"github.com/saurabh98s/SammySwipe/internal/profile"
)

var (
	ErrSelfMatch = errors.New("cannot match with yourself")
)

// MatchNotifier pushes realtime match events to connected clients.
// Implemented by the websocket hub; a no-op implementation is fine.
type MatchNotifier interface {
	NotifyMatch(userA, userB string)
}

// Service coordinates the relationship state machine, scoring engine,
// and statistics write-back.
type Service struct {
	repo     Repository
	profiles profile.Repository
	engine   *Engine
	stats    *StatisticsAggregator
	notifier MatchNotifier
	logger   *zap.Logger
}

func NewService(
	repo Repository,
	profiles profile.Repository,
	engine *Engine,
	stats *StatisticsAggregator,
	notifier MatchNotifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		engine:   engine,
		stats:    stats,
		notifier: notifier,
		logger:   logger,
	}
}

// Like records a pending interest edge from userID to targetID and
// promotes the pair to a mutual match when a reciprocal pending edge
// exists. Liking an already-liked target is a no-op reported through
// LikeResult.Created.
func (s *Service) Like(ctx context.Context, userID, targetID string) (*LikeResult, error) {
	if userID == targetID {
		return nil, ErrSelfMatch
	}

	target, err := s.profiles.GetProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	score := 0.5
	if subject, err := s.profiles.GetProfile(ctx, userID); err == nil {
		score = s.engine.PairScore(subject, target).Score
	} else {
		s.logger.Warn("like proceeding without pair score",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	created, err := s.repo.InsertEdge(ctx, userID, targetID, score)
	if err != nil {
		return nil, err
	}

	result := &LikeResult{Created: created}
	if !created {
		likesTotal.WithLabelValues("duplicate").Inc()
		return result, nil
	}

	mutual, err := s.repo.PromoteMutual(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	result.Mutual = mutual

	if mutual {
		likesTotal.WithLabelValues("mutual").Inc()
		mutualMatchesTotal.Inc()
		s.onMutualMatch(ctx, userID, targetID)
	} else {
		likesTotal.WithLabelValues("pending").Inc()
	}

	return result, nil
}

// Accept transitions the caller's outgoing edge (userID -> targetID)
// to accepted.
func (s *Service) Accept(ctx context.Context, userID, targetID string) (*RelationshipEdge, error) {
	if userID == targetID {
		return nil, ErrSelfMatch
	}

	edge, err := s.repo.SetStatus(ctx, userID, targetID, StatusAccepted)
	if err != nil {
		return nil, err
	}

	s.refreshStatistics(ctx, userID, targetID)
	return edge, nil
}

// Reject transitions the caller's outgoing edge (userID -> targetID)
// to rejected. Rejecting an accepted edge is allowed; it is how a user
// withdraws from a match.
func (s *Service) Reject(ctx context.Context, userID, targetID string) (*RelationshipEdge, error) {
	if userID == targetID {
		return nil, ErrSelfMatch
	}

	edge, err := s.repo.SetStatus(ctx, userID, targetID, StatusRejected)
	if err != nil {
		return nil, err
	}

	s.refreshStatistics(ctx, userID, targetID)
	return edge, nil
}

// GetStatistics recomputes and returns the caller's statistics.
func (s *Service) GetStatistics(ctx context.Context, userID string) (*Statistics, error) {
	if _, err := s.profiles.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	return s.stats.Recompute(ctx, userID)
}

// ScoreCandidates returns the ranked recommendation list for a user.
func (s *Service) ScoreCandidates(ctx context.Context, userID string) ([]ScoredCandidate, error) {
	return s.engine.ScoreCandidates(ctx, userID)
}

// Compatibility returns the deterministic pair breakdown between the
// caller and one other user.
func (s *Service) Compatibility(ctx context.Context, userID, otherID string) (*ml.CompatibilityResult, error) {
	if userID == otherID {
		return nil, ErrSelfMatch
	}

	subject, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.profiles.GetProfile(ctx, otherID)
	if err != nil {
		return nil, err
	}

	return s.engine.PairScore(subject, other), nil
}

// MyMatches lists the caller's accepted matches.
func (s *Service) MyMatches(ctx context.Context, userID string) ([]MatchedUser, error) {
	return s.repo.AcceptedMatches(ctx, userID)
}

// onMutualMatch refreshes both users' statistics and notifies them.
// Best effort: the match itself is already committed.
func (s *Service) onMutualMatch(ctx context.Context, userA, userB string) {
	s.refreshStatistics(ctx, userA, userB)
	if s.notifier != nil {
		s.notifier.NotifyMatch(userA, userB)
	}
}

func (s *Service) refreshStatistics(ctx context.Context, users ...string) {
	for _, id := range users {
		if _, err := s.stats.Recompute(ctx, id); err != nil {
			s.logger.Warn("statistics refresh failed",
				zap.String("user_id", id),
				zap.Error(err))
		}
	}
}
