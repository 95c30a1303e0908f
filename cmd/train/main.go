// cmd/train/main.go
// Offline training pipeline. Fits the metadata models on the profile
// corpus, writes derived metadata back, labels historical pairs, fits
// the match classifier, and saves the artifact bundle consumed by
// cmd/api.

package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/saurabh98s/SammySwipe/internal/common/database"
	"github.com/saurabh98s/SammySwipe/internal/config"
	"github.com/saurabh98s/SammySwipe/internal/matches"
	"github.com/saurabh98s/SammySwipe/internal/ml"
	"github.com/saurabh98s/SammySwipe/internal/profile"
)

// minLabeledPairs is the edge count below which historical labels are
// too sparse to train on and heuristic labels take over.
const minLabeledPairs = 50

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("configuration validation failed: " + err.Error())
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer db.Close()

	profileRepo := profile.NewPostgresRepository(db)
	matchRepo := matches.NewRepository(db)

	ctx := context.Background()

	profiles, err := profileRepo.ListAll(ctx)
	if err != nil {
		logger.Fatal("failed to list profiles", zap.Error(err))
	}
	if len(profiles) < cfg.ClusterCount {
		logger.Fatal("not enough profiles to train",
			zap.Int("profiles", len(profiles)),
			zap.Int("clusters", cfg.ClusterCount))
	}
	logger.Info("training corpus loaded", zap.Int("profiles", len(profiles)))

	// Raw ingested text enriches the clustering corpus. Best effort per
	// user.
	extraTexts := make(map[string]string, len(profiles))
	for _, p := range profiles {
		text, err := profileRepo.GetRawText(ctx, p.ID)
		if err != nil {
			logger.Debug("no raw text for user", zap.String("user_id", p.ID), zap.Error(err))
			continue
		}
		extraTexts[p.ID] = text
	}

	analyzer := ml.NewUnfitMetadataAnalyzer(cfg.VectorizerMaxFeatures, cfg.ClusterCount, logger)
	if err := analyzer.Fit(profiles, extraTexts, cfg.TrainSeed); err != nil {
		logger.Fatal("metadata training failed", zap.Error(err))
	}
	logger.Info("metadata models fitted")

	analyses := make(map[string]ml.Analysis, len(profiles))
	for _, p := range profiles {
		a := analyzer.Analyze(p)
		analyses[p.ID] = a
		if err := profileRepo.SaveDerivedMetadata(ctx, p.ID, a.ActivityScore, a.ProfileCompleteness, a.Cluster); err != nil {
			logger.Warn("metadata write-back failed", zap.String("user_id", p.ID), zap.Error(err))
		}
	}

	X, y := buildTrainingSet(ctx, cfg, logger, profiles, analyses, matchRepo)
	logger.Info("training set built", zap.Int("pairs", len(X)))

	classifier := ml.NewClassifier(cfg.ForestTrees, cfg.ForestMaxDepth, cfg.TrainSeed, logger)
	if err := classifier.Fit(X, y); err != nil {
		logger.Fatal("classifier training failed", zap.Error(err))
	}

	artifact := &ml.Artifact{
		Vectorizer: analyzer.Vectorizer(),
		Clusters:   analyzer.Clusters(),
		Scaler:     classifier.Scaler(),
		Forest:     classifier.Forest(),
		TrainedAt:  time.Now().UTC(),
	}
	if err := artifact.Save(cfg.ModelPath); err != nil {
		logger.Fatal("failed to save model artifact", zap.Error(err))
	}

	logger.Info("model artifact saved", zap.String("path", cfg.ModelPath))
}

// buildTrainingSet labels profile pairs. Historical edges are the
// preferred signal: a pair is positive when both directions are
// pending or accepted, negative when either side rejected. With too
// little history, heuristic labels from the deterministic score take
// over so a cold deployment can still train.
func buildTrainingSet(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.Logger,
	profiles []*profile.Profile,
	analyses map[string]ml.Analysis,
	matchRepo matches.Repository,
) ([][]float64, []int) {
	byID := make(map[string]*profile.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	var X [][]float64
	var y []int

	edges, err := matchRepo.ListEdges(ctx)
	if err != nil {
		logger.Warn("failed to load historical edges", zap.Error(err))
	}

	positive := func(s matches.EdgeStatus) bool {
		return s == matches.StatusPending || s == matches.StatusAccepted
	}

	status := make(map[[2]string]matches.EdgeStatus, len(edges))
	for _, e := range edges {
		status[[2]string{e.FromID, e.ToID}] = e.Status
	}

	seen := make(map[[2]string]bool)
	for _, e := range edges {
		a, b := e.FromID, e.ToID
		if b < a {
			a, b = b, a
		}
		key := [2]string{a, b}
		if seen[key] {
			continue
		}
		seen[key] = true

		pa, pb := byID[a], byID[b]
		if pa == nil || pb == nil {
			continue
		}

		forward, fok := status[[2]string{a, b}]
		reverse, rok := status[[2]string{b, a}]

		label := 0
		if fok && rok && positive(forward) && positive(reverse) {
			label = 1
		}

		X = append(X, ml.FeatureVector(pa, pb, analyses[a], analyses[b]))
		y = append(y, label)
	}

	if len(X) >= minLabeledPairs {
		return X, y
	}

	logger.Info("sparse match history, labeling pairs heuristically",
		zap.Int("historical_pairs", len(X)))

	aggregator := ml.NewAggregator(cfg.ScoreFloor, cfg.ScoreCeil)
	X = X[:0]
	y = y[:0]
	for i := 0; i < len(profiles); i++ {
		for j := i + 1; j < len(profiles); j++ {
			pa, pb := profiles[i], profiles[j]
			result := aggregator.Score(pa, pb)

			label := 0
			if result.Score >= 0.6 {
				label = 1
			}

			X = append(X, ml.FeatureVector(pa, pb, analyses[pa.ID], analyses[pb.ID]))
			y = append(y, label)
		}
	}

	return X, y
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger
}
