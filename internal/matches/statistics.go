package matches

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StatisticsAggregator recomputes per-user statistics from the edge
// table and writes the snapshot back onto the profile row. Reads
// always recompute; the write-back exists so other services see fresh
// counters without joining the edge table.
type StatisticsAggregator struct {
	repo   Repository
	logger *zap.Logger
}

func NewStatisticsAggregator(repo Repository, logger *zap.Logger) *StatisticsAggregator {
	return &StatisticsAggregator{repo: repo, logger: logger}
}

// Recompute derives the current counters for a user and persists them.
// A failed counter read yields a zeroed snapshot alongside the error;
// a failed write-back is logged but does not fail the read.
func (s *StatisticsAggregator) Recompute(ctx context.Context, userID string) (*Statistics, error) {
	stats, err := s.repo.UserCounters(ctx, userID)
	if err != nil {
		return &Statistics{UpdatedAt: time.Now().UTC()}, err
	}
	stats.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveStatistics(ctx, userID, stats); err != nil {
		s.logger.Warn("failed to persist statistics snapshot",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	return stats, nil
}
