package epipolar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpipolarErrorZeroForExactCorrespondence(t *testing.T) {
	rng := rand.New(rand.NewSource(61))
	f := randomRank2(rng)
	pts1, pts2 := correspondencesOnEpilines(f, 10, rng)

	for i := range pts1 {
		assert.InDelta(t, 0, EpipolarError(pts1[i], pts2[i], f), 1e-10)
	}
}

func TestEpipolarErrorGrowsWithOffset(t *testing.T) {
	rng := rand.New(rand.NewSource(62))
	f := randomRank2(rng)
	pts1, pts2 := correspondencesOnEpilines(f, 1, rng)

	small := EpipolarError(pts1[0], Point{X: pts2[0].X + 0.1, Y: pts2[0].Y}, f)
	large := EpipolarError(pts1[0], Point{X: pts2[0].X + 10, Y: pts2[0].Y}, f)
	assert.Greater(t, large, small)
}

func TestMeanEpipolarError(t *testing.T) {
	rng := rand.New(rand.NewSource(63))
	f := randomRank2(rng)
	pts1, pts2 := correspondencesOnEpilines(f, 6, rng)

	mean, err := MeanEpipolarError(pts1, pts2, f)
	require.NoError(t, err)
	assert.InDelta(t, 0, mean, 1e-10)

	_, err = MeanEpipolarError(pts1, pts2[:3], f)
	require.Error(t, err)
	_, err = MeanEpipolarError(nil, nil, f)
	require.Error(t, err)
}

func TestSelectBestCandidate(t *testing.T) {
	rng := rand.New(rand.NewSource(64))
	truth := randomRank2(rng)
	pts1, pts2 := correspondencesOnEpilines(truth, 7, rng)

	candidates, err := RunSevenPoint(pts1, pts2)
	require.NoError(t, err)

	best, idx, err := SelectBestCandidate(candidates, pts1, pts2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, idx, 0)
	require.Less(t, idx, len(candidates))

	mean, err := MeanEpipolarError(pts1, pts2, best)
	require.NoError(t, err)
	assert.InDelta(t, 0, mean, 1e-8)
}

func TestSelectBestCandidateEmpty(t *testing.T) {
	_, _, err := SelectBestCandidate(nil, nil, nil)
	require.Error(t, err)
}
