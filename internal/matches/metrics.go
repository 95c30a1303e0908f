package matches

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matches_likes_total",
		Help: "Like actions processed, by outcome.",
	}, []string{"outcome"})

	mutualMatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matches_mutual_total",
		Help: "Mutual matches formed.",
	})

	scoringFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matches_scoring_fallbacks_total",
		Help: "Queries where the learned scorer was unavailable and the deterministic path served instead.",
	})

	compatibilityScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matches_compatibility_score",
		Help:    "Distribution of computed compatibility scores.",
		Buckets: prometheus.LinearBuckets(0.40, 0.05, 12),
	})

	scoringDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matches_scoring_duration_seconds",
		Help:    "Wall time spent scoring a candidate batch.",
		Buckets: prometheus.DefBuckets,
	})
)
