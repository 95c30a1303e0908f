// internal/ml/metadata.go
// Secondary per-profile signals feeding both scoring paths: profile
// completeness, activity score, text cluster, engagement label.
// Analysis never fails: malformed input degrades to documented neutral
// defaults and a log line.

package ml

import (
	"strings"

	"go.uber.org/zap"

	"github.com/saurabh98s/SammySwipe/internal/profile"
)

// Activity saturation constants: the counter value at which each
// factor contributes its full share.
const (
	profileUpdatesSaturation = 10.0
	loginFrequencySaturation = 30.0
	messageCountSaturation   = 100.0
)

// Engagement thresholds on the activity score.
const (
	engagementHighThreshold   = 0.7
	engagementMediumThreshold = 0.3
)

// Analysis is the secondary-signal bundle for one profile.
type Analysis struct {
	Cluster             int     `json:"cluster"`
	ActivityScore       float64 `json:"activity_score"`
	ProfileCompleteness float64 `json:"profile_completeness"`
	EngagementLevel     string  `json:"engagement_level"`
}

// MetadataAnalyzer derives Analysis values. The vectorizer and cluster
// model are loaded once at startup and read-only afterwards; when they
// are absent the cluster stays unassigned and everything else still
// works.
type MetadataAnalyzer struct {
	vectorizer *Vectorizer
	clusters   *KMeans
	logger     *zap.Logger
}

// NewMetadataAnalyzer builds an analyzer around optional trained
// artifacts. artifact may be nil.
func NewMetadataAnalyzer(artifact *Artifact, logger *zap.Logger) *MetadataAnalyzer {
	a := &MetadataAnalyzer{logger: logger}
	if artifact != nil {
		a.vectorizer = artifact.Vectorizer
		a.clusters = artifact.Clusters
	}
	return a
}

// NewUnfitMetadataAnalyzer builds an analyzer that will be fitted by
// the training pipeline.
func NewUnfitMetadataAnalyzer(maxFeatures, clusterCount int, logger *zap.Logger) *MetadataAnalyzer {
	return &MetadataAnalyzer{
		vectorizer: NewVectorizer(maxFeatures),
		clusters:   NewKMeans(clusterCount),
		logger:     logger,
	}
}

// ClusteringFitted reports whether cluster assignment is available.
func (m *MetadataAnalyzer) ClusteringFitted() bool {
	return m.vectorizer != nil && m.vectorizer.Fitted() &&
		m.clusters != nil && m.clusters.Fitted()
}

// Vectorizer exposes the fitted vectorizer for artifact encoding.
func (m *MetadataAnalyzer) Vectorizer() *Vectorizer { return m.vectorizer }

// Clusters exposes the fitted cluster model for artifact encoding.
func (m *MetadataAnalyzer) Clusters() *KMeans { return m.clusters }

// Analyze derives all secondary signals for one profile. It never
// returns an error; each signal degrades independently.
func (m *MetadataAnalyzer) Analyze(p *profile.Profile) Analysis {
	if p == nil {
		return Analysis{Cluster: profile.ClusterUnassigned, EngagementLevel: "low"}
	}

	activity := activityScore(p)

	return Analysis{
		Cluster:             m.assignCluster(ProfileText(p, "")),
		ActivityScore:       activity,
		ProfileCompleteness: profileCompleteness(p),
		EngagementLevel:     engagementLevel(activity),
	}
}

// Fit trains the vectorizer and cluster model on the given corpus.
// extraTexts supplements profile text with raw ingested social data,
// keyed by profile ID.
func (m *MetadataAnalyzer) Fit(profiles []*profile.Profile, extraTexts map[string]string, seed int64) error {
	docs := make([]string, len(profiles))
	for i, p := range profiles {
		docs[i] = ProfileText(p, extraTexts[p.ID])
	}

	m.vectorizer.Fit(docs)

	X := make([][]float64, len(docs))
	for i, doc := range docs {
		X[i] = m.vectorizer.Transform(doc)
	}

	return m.clusters.Fit(X, 100, seed)
}

func (m *MetadataAnalyzer) assignCluster(text string) int {
	if !m.ClusteringFitted() {
		return profile.ClusterUnassigned
	}

	cluster := m.clusters.Predict(m.vectorizer.Transform(text))
	if cluster < 0 {
		m.logger.Debug("cluster prediction failed, leaving profile unassigned")
		return profile.ClusterUnassigned
	}
	return cluster
}

// ProfileText joins the textual profile fields into the document the
// vectorizer consumes: bio + interests + location, plus any raw
// ingested text.
func ProfileText(p *profile.Profile, extra string) string {
	parts := []string{}
	if p.Bio != nil && *p.Bio != "" {
		parts = append(parts, *p.Bio)
	}
	parts = append(parts, p.Interests...)
	if p.Location != nil && *p.Location != "" {
		parts = append(parts, *p.Location)
	}
	if extra != "" {
		parts = append(parts, extra)
	}

	if len(parts) == 0 {
		return "empty profile"
	}
	return strings.Join(parts, " ")
}

// profileCompleteness is the filled fraction of the required-field
// checklist: bio, interests, location, photo, gender, age.
func profileCompleteness(p *profile.Profile) float64 {
	total := 6
	completed := 0

	if p.Bio != nil && *p.Bio != "" {
		completed++
	}
	if len(p.Interests) > 0 {
		completed++
	}
	if p.Location != nil && *p.Location != "" {
		completed++
	}
	if p.ProfilePhoto != nil && *p.ProfilePhoto != "" {
		completed++
	}
	if p.Gender != nil && *p.Gender != "" {
		completed++
	}
	if p.Age != nil {
		completed++
	}

	return float64(completed) / float64(total)
}

// activityScore averages the saturating normalizations of the
// behavioral counters.
func activityScore(p *profile.Profile) float64 {
	score := 0.0
	score += saturate(float64(p.ProfileUpdates), profileUpdatesSaturation)
	score += saturate(float64(p.LoginFrequency), loginFrequencySaturation)
	score += saturate(float64(p.MessageCount), messageCountSaturation)
	return score / 3.0
}

func saturate(value, saturation float64) float64 {
	if value < 0 {
		return 0
	}
	s := value / saturation
	if s > 1 {
		return 1
	}
	return s
}

// engagementLevel buckets the activity score for reporting; it feeds
// statistics, never scoring.
func engagementLevel(activity float64) string {
	switch {
	case activity >= engagementHighThreshold:
		return "high"
	case activity >= engagementMediumThreshold:
		return "medium"
	default:
		return "low"
	}
}
