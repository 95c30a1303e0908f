package matches

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/saurabh98s/SammySwipe/internal/ml"
	"github.com/saurabh98s/SammySwipe/internal/profile"
)

// Engine ranks candidates for a user. It carries both scoring paths
// and picks one per query: the learned classifier when a trained model
// is loaded, the deterministic aggregator otherwise. The choice is
// made once per query so a ranked list is never a mix of both.
type Engine struct {
	profiles   profile.Repository
	aggregator *ml.Aggregator
	classifier *ml.Classifier
	analyzer   *ml.MetadataAnalyzer
	cache      *ScoreCache
	limit      int
	logger     *zap.Logger
}

func NewEngine(
	profiles profile.Repository,
	aggregator *ml.Aggregator,
	classifier *ml.Classifier,
	analyzer *ml.MetadataAnalyzer,
	cache *ScoreCache,
	limit int,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		profiles:   profiles,
		aggregator: aggregator,
		classifier: classifier,
		analyzer:   analyzer,
		cache:      cache,
		limit:      limit,
		logger:     logger,
	}
}

// ScoreCandidates loads up to the configured number of active
// candidates, scores each against the subject, and returns them ranked
// by descending score. Any storage failure other than an unknown
// subject serves the last cached ranking when one exists, empty
// otherwise, never an error.
func (e *Engine) ScoreCandidates(ctx context.Context, userID string) ([]ScoredCandidate, error) {
	start := time.Now()
	defer func() {
		scoringDuration.Observe(time.Since(start).Seconds())
	}()

	subject, err := e.profiles.GetProfile(ctx, userID)
	if err != nil {
		// Unknown subject is the caller's error; storage trouble is
		// not, and the query still answers with last-good or empty.
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, err
		}
		return e.degraded(ctx, userID, "subject load failed", err), nil
	}

	candidates, err := e.profiles.ListCandidates(ctx, userID, e.limit)
	if err != nil {
		return e.degraded(ctx, userID, "candidate listing failed", err), nil
	}

	scored := e.scoreBatch(subject, candidates)

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MatchScore != scored[j].MatchScore {
			return scored[i].MatchScore > scored[j].MatchScore
		}
		return len(scored[i].CommonInterests) > len(scored[j].CommonInterests)
	})

	if err := e.cache.Set(ctx, userID, scored); err != nil {
		e.logger.Warn("failed to cache scored candidates", zap.Error(err))
	}

	return scored, nil
}

// degraded serves the last cached ranking for a user, empty when the
// cache is cold or absent.
func (e *Engine) degraded(ctx context.Context, userID, reason string, cause error) []ScoredCandidate {
	e.logger.Error(reason+", serving degraded response",
		zap.String("user_id", userID),
		zap.Error(cause))

	if cached, err := e.cache.Get(ctx, userID); err == nil {
		return cached
	}
	return []ScoredCandidate{}
}

// PairScore computes the compatibility of one pair. Pair queries always
// use the deterministic path: the component breakdown is the point of
// the endpoint.
func (e *Engine) PairScore(subject, other *profile.Profile) *ml.CompatibilityResult {
	result := e.aggregator.Score(subject, other)
	compatibilityScores.Observe(result.Score)
	return result
}

func (e *Engine) scoreBatch(subject *profile.Profile, candidates []*profile.Profile) []ScoredCandidate {
	useClassifier := e.classifier.Fitted()
	if !useClassifier {
		scoringFallbacksTotal.Inc()
		e.logger.Debug("no trained classifier, scoring deterministically")
	}

	subjectMeta := e.analyzer.Analyze(subject)

	scored := make([]ScoredCandidate, 0, len(candidates))
	var probs []float64
	if useClassifier {
		X := make([][]float64, len(candidates))
		for i, c := range candidates {
			X[i] = ml.FeatureVector(subject, c, subjectMeta, e.analyzer.Analyze(c))
		}
		probs = e.classifier.PredictProba(X)
	}

	for i, c := range candidates {
		result := e.aggregator.Score(subject, c)
		score := result.Score
		if useClassifier {
			score = ml.Round2(e.aggregator.Clamp(probs[i]))
		}
		compatibilityScores.Observe(score)

		scored = append(scored, ScoredCandidate{
			UserID:          c.ID,
			Username:        c.Username,
			FullName:        c.FullName,
			Bio:             c.Bio,
			Interests:       c.Interests,
			Location:        c.Location,
			ProfilePhoto:    c.ProfilePhoto,
			Age:             c.Age,
			MatchScore:      score,
			CommonInterests: result.CommonInterests,
			Components:      result.Components,
		})
	}

	return scored
}
