package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneBins(t *testing.T) {
	cfg := DefaultConfig()
	expected := map[int]float64{
		1: 1, 3: 1,
		4: 0.5, 6: 0.5,
		7: 0, 12: 0,
		13: -0.5, 15: -0.5,
		16: -1, 18: -1,
	}
	for rank, zone := range expected {
		assert.Equal(t, zone, zoneFor(cfg, rank), "zone for rank %d", rank)
	}
}

func TestRankPerformance(t *testing.T) {
	// a 36-team total ordering maps rank 1 to 1 and rank 36 to -1
	assert.InDelta(t, 1.0, rankPerformance(1, 36), 1e-9)
	assert.InDelta(t, -1.0, rankPerformance(36, 36), 1e-9)
	assert.InDelta(t, 1.0/35, rankPerformance(18, 36), 1e-9)
	assert.Greater(t, rankPerformance(5, 36), rankPerformance(6, 36))
}

func TestPointPerformance(t *testing.T) {
	assert.InDelta(t, 1.0, pointPerformance(30, 10, 30), 1e-9)
	assert.InDelta(t, 0.0, pointPerformance(10, 10, 30), 1e-9)
	assert.InDelta(t, 0.5, pointPerformance(20, 10, 30), 1e-9)
	// degenerate opening day: everyone on zero points scores full
	assert.InDelta(t, 1.0, pointPerformance(0, 0, 0), 1e-9)
}

func TestAddPerformance(t *testing.T) {
	cfg := DefaultConfig()
	panel := scoredPanel(t, cfg, toyLeague())
	require.NoError(t, AddDailyTables(cfg, panel))
	require.NoError(t, AddPerformance(cfg, panel))

	day2A := findRow(t, panel, "TeamA", "2020-08-02")
	day2B := findRow(t, panel, "TeamB", "2020-08-02")

	// zones follow the pre-match rank
	assert.Equal(t, 1.0, day2A.Zone)
	assert.Equal(t, 1.0, day2B.Zone)

	// the leader holds the division's point maximum
	assert.InDelta(t, 1.0, day2A.PostTotalPointPerformance, 1e-9)
	assert.InDelta(t, 0.0, day2B.PostTotalPointPerformance, 1e-9)
	assert.Greater(t, day2A.PostTotalRankPerformance, day2B.PostTotalRankPerformance)

	// A has a win and a draw, B a draw and a loss; draws count a third
	assert.InDelta(t, (1+1.0/3)/1, day2A.SeasonalWinLossRatio, 1e-9)
	assert.InDelta(t, (1+1.0/3)/2, day2A.SeasonalWinRatio, 1e-9)
	assert.InDelta(t, (0+1.0/3)/1, day2B.SeasonalWinLossRatio, 1e-9)
}
