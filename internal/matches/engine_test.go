package matches

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saurabh98s/SammySwipe/internal/ml"
	"github.com/saurabh98s/SammySwipe/internal/profile"
)

func newTestEngine(profiles *fakeProfileRepo) *Engine {
	logger := zap.NewNop()
	return NewEngine(
		profiles,
		ml.NewAggregator(0.40, 0.95),
		nil,
		ml.NewMetadataAnalyzer(nil, logger),
		nil,
		100,
		logger,
	)
}

func TestScoreCandidatesRankedDescending(t *testing.T) {
	profiles := newFakeProfileRepo(
		testProfile(alice, "travel", "music", "food"),
		testProfile(bob, "travel", "music", "food"),
		testProfile(carol, "chess"),
	)
	engine := newTestEngine(profiles)

	scored, err := engine.ScoreCandidates(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, scored, 2)

	assert.Equal(t, bob, scored[0].UserID, "full interest overlap ranks first")
	assert.Equal(t, carol, scored[1].UserID)
	assert.GreaterOrEqual(t, scored[0].MatchScore, scored[1].MatchScore)

	for _, c := range scored {
		assert.GreaterOrEqual(t, c.MatchScore, 0.40)
		assert.LessOrEqual(t, c.MatchScore, 0.95)
		assert.NotEqual(t, alice, c.UserID, "subject never appears in their own results")
	}
}

func TestScoreCandidatesIncludesBreakdown(t *testing.T) {
	profiles := newFakeProfileRepo(
		testProfile(alice, "travel", "music"),
		testProfile(bob, "travel", "art"),
	)
	engine := newTestEngine(profiles)

	scored, err := engine.ScoreCandidates(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, scored, 1)

	assert.Equal(t, []string{"travel"}, scored[0].CommonInterests)
	assert.Equal(t, 0.33, scored[0].Components.Interest)
	assert.Equal(t, 1.0, scored[0].Components.Age)
}

func TestScoreCandidatesUnknownSubject(t *testing.T) {
	engine := newTestEngine(newFakeProfileRepo())

	_, err := engine.ScoreCandidates(context.Background(), alice)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestScoreCandidatesDegradesOnStorageFailure(t *testing.T) {
	profiles := newFakeProfileRepo(testProfile(alice))
	profiles.listErr = errors.New("connection refused")
	engine := newTestEngine(profiles)

	scored, err := engine.ScoreCandidates(context.Background(), alice)
	require.NoError(t, err, "storage failure degrades, never errors")
	assert.Empty(t, scored)
}

func TestScoreCandidatesDegradesOnSubjectLoadFailure(t *testing.T) {
	profiles := newFakeProfileRepo(testProfile(alice))
	profiles.getErr = errors.New("connection refused")
	engine := newTestEngine(profiles)

	scored, err := engine.ScoreCandidates(context.Background(), alice)
	require.NoError(t, err, "subject load failure degrades, never errors")
	assert.NotNil(t, scored)
	assert.Empty(t, scored)
}

func TestScoreCandidatesRespectsLimit(t *testing.T) {
	profiles := newFakeProfileRepo(
		testProfile(alice, "travel"),
		testProfile(bob, "travel"),
		testProfile(carol, "travel"),
	)
	engine := NewEngine(
		profiles,
		ml.NewAggregator(0.40, 0.95),
		nil,
		ml.NewMetadataAnalyzer(nil, zap.NewNop()),
		nil,
		1,
		zap.NewNop(),
	)

	scored, err := engine.ScoreCandidates(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, scored, 1)
}

func TestPairScoreMatchesAggregator(t *testing.T) {
	a := testProfile(alice, "travel", "music")
	b := testProfile(bob, "travel", "art")
	engine := newTestEngine(newFakeProfileRepo(a, b))

	result := engine.PairScore(a, b)
	want := ml.NewAggregator(0.40, 0.95).Score(a, b)

	assert.Equal(t, want.Score, result.Score)
	assert.Equal(t, want.Components, result.Components)
}
