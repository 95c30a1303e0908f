// internal/ml/classifier.go
// Learned scoring path. A fitted classifier substitutes for the
// deterministic aggregator; an unfitted one predicts zeros and the
// engine falls back without surfacing an error.

package ml

import (
	"errors"

	"go.uber.org/zap"

	"github.com/saurabh98s/SammySwipe/internal/profile"
)

// FeatureCount is the width of the classifier's input vector.
const FeatureCount = 5

// defaultAgeGap stands in when either profile lacks an age.
const defaultAgeGap = 10.0

var ErrShapeMismatch = errors.New("classifier: feature matrix shape mismatch")

// Classifier wraps the scaler and forest behind the fit/predict
// contract the engine depends on.
type Classifier struct {
	scaler *StandardScaler
	forest *RandomForest
	logger *zap.Logger
}

// NewClassifier returns an unfitted classifier.
func NewClassifier(numTrees, maxDepth int, seed int64, logger *zap.Logger) *Classifier {
	return &Classifier{
		scaler: &StandardScaler{},
		forest: NewRandomForest(numTrees, maxDepth, seed),
		logger: logger,
	}
}

// NewClassifierFromArtifact rebuilds a fitted classifier from a loaded
// artifact. A nil artifact (no trained model on disk) yields nil: the
// absent-model branch is a normal value, not an error.
func NewClassifierFromArtifact(artifact *Artifact, logger *zap.Logger) *Classifier {
	if artifact == nil || artifact.Scaler == nil || artifact.Forest == nil {
		return nil
	}
	return &Classifier{
		scaler: artifact.Scaler,
		forest: artifact.Forest,
		logger: logger,
	}
}

// Fitted reports whether both the scaler and the forest are trained.
func (c *Classifier) Fitted() bool {
	return c != nil && c.scaler.Fitted() && c.forest.Fitted()
}

// Scaler exposes the fitted scaling parameters for artifact encoding.
func (c *Classifier) Scaler() *StandardScaler { return c.scaler }

// Forest exposes the fitted ensemble for artifact encoding.
func (c *Classifier) Forest() *RandomForest { return c.forest }

// FeatureVector builds the classifier input for a profile pair, in
// fixed order: age gap, interest Jaccard, activity delta, completeness
// delta, cluster equality.
func FeatureVector(a, b *profile.Profile, ma, mb Analysis) []float64 {
	ageGap := defaultAgeGap
	if a.Age != nil && b.Age != nil {
		ageGap = float64(*a.Age - *b.Age)
		if ageGap < 0 {
			ageGap = -ageGap
		}
	}

	clusterEq := 0.0
	if ma.Cluster == mb.Cluster && ma.Cluster != profile.ClusterUnassigned {
		clusterEq = 1.0
	}

	return []float64{
		ageGap,
		InterestSimilarity(a.Interests, b.Interests),
		abs(ma.ActivityScore - mb.ActivityScore),
		abs(ma.ProfileCompleteness - mb.ProfileCompleteness),
		clusterEq,
	}
}

// Fit scales the training matrix and grows the forest. The scaling
// parameters are stored and reused at inference.
func (c *Classifier) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("classifier: no training samples")
	}
	if len(X) != len(y) {
		return ErrShapeMismatch
	}
	for _, row := range X {
		if len(row) != FeatureCount {
			return ErrShapeMismatch
		}
	}

	if err := c.scaler.Fit(X); err != nil {
		return err
	}

	return c.forest.Fit(c.scaler.Transform(X), y)
}

// PredictProba returns the match probability per row. Unfitted model
// or malformed rows produce a zero array of batch length, never an
// error: the caller's fallback branch handles the rest.
func (c *Classifier) PredictProba(X [][]float64) []float64 {
	if !c.Fitted() {
		if c != nil && c.logger != nil {
			c.logger.Warn("classifier not fitted, returning neutral predictions")
		}
		return make([]float64, len(X))
	}

	for _, row := range X {
		if len(row) != FeatureCount {
			c.logger.Warn("classifier feature shape mismatch, returning neutral predictions",
				zap.Int("got", len(row)),
				zap.Int("want", FeatureCount))
			return make([]float64, len(X))
		}
	}

	return c.forest.PredictProba(c.scaler.Transform(X))
}

// Predict thresholds PredictProba at 0.5, preserving the zero-array
// behavior for unfitted models.
func (c *Classifier) Predict(X [][]float64) []int {
	probs := c.PredictProba(X)
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			labels[i] = 1
		}
	}
	return labels
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
