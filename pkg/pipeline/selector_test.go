package pipeline

import (
	"fmt"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScaler(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 7,
		2, 7,
		3, 7,
		4, 7,
	})
	scaler := &StandardScaler{}
	scaler.Fit(x)
	out := scaler.Transform(x)

	// first column is standardized, the constant column passes through
	// shifted only
	sum := 0.0
	for i := 0; i < 4; i++ {
		sum += out.At(i, 0)
		assert.Zero(t, out.At(i, 1))
	}
	assert.InDelta(t, 0.0, sum, 1e-9)
	assert.InDelta(t, 2.5, scaler.Means[0], 1e-9)
	assert.Equal(t, 1.0, scaler.Stds[1])
}

// selectionPanel builds four seasons where goals scored track the rank
// performance column exactly and a second predictor carries only noise
func selectionPanel() (*Config, *Table) {
	cfg := DefaultConfig()
	cfg.Predictors = []string{ColPreTotalRankPerformance, ColPreGoalSuperiority}
	cfg.ElasticNet.Alphas = []float64{0.001, 0.01}
	cfg.ElasticNet.L1Ratios = []float64{0.5, 1.0}

	var rows []*TeamMatch
	for _, season := range []int{2017, 2018, 2019, 2020} {
		for i := 0; i < 20; i++ {
			rows = append(rows, &TeamMatch{
				Season:                  season,
				Div:                     1,
				Date:                    day(fmt.Sprintf("%d-08-01", season)).AddDate(0, 0, i),
				Team:                    fmt.Sprintf("Team%d", i%10),
				GoalsFor:                i % 5,
				PreTotalRankPerformance: float64(i % 5),
				PreGoalSuperiority:      float64((i*3)%7) - 3,
			})
		}
	}
	table := NewTable(rows, ColSeason, ColDiv, ColDate, ColTeam,
		ColGoalsFor, ColPreTotalRankPerformance, ColPreGoalSuperiority)
	return cfg, table
}

func TestSplitBySeason(t *testing.T) {
	_, table := selectionPanel()
	train, valid, test, err := splitBySeason(table)
	require.NoError(t, err)

	assert.Len(t, train, 40, "all but the last two seasons train")
	assert.Len(t, valid, 20)
	assert.Len(t, test, 20)
	for _, r := range valid {
		assert.Equal(t, 2019, r.Season)
	}
	for _, r := range test {
		assert.Equal(t, 2020, r.Season)
	}
}

func TestSplitBySeasonNeedsThreeSeasons(t *testing.T) {
	cfg := DefaultConfig()
	panel := scoredPanel(t, cfg, toyLeague())
	_, _, _, err := splitBySeason(panel)
	assert.Error(t, err)
}

func TestSelectFeatures(t *testing.T) {
	cfg, table := selectionPanel()
	res, err := SelectFeatures(cfg, table)
	require.NoError(t, err)

	assert.Contains(t, res.Features, ColPreTotalRankPerformance,
		"the predictor generating the response must survive")
	assert.Contains(t, cfg.ElasticNet.Alphas, res.Alpha)
	assert.Contains(t, cfg.ElasticNet.L1Ratios, res.L1Ratio)

	// partitions carry the response plus the selected features
	require.NotNil(t, res.Train)
	assert.Equal(t, append([]string{ColGoalsFor}, res.Features...), res.Train.Columns)
	assert.Len(t, res.Train.Rows, 40)
	assert.Len(t, res.Valid.Rows, 20)
	assert.Len(t, res.Test.Rows, 20)

	// file names encode how many predictors survived
	prefix := "full_"
	if len(res.Features) < len(cfg.Predictors) {
		prefix = fmt.Sprintf("%d-%d_", len(res.Features), len(cfg.Predictors))
	}
	assert.Equal(t, prefix+cfg.TrainFile, res.TrainName)
	assert.Equal(t, prefix+cfg.ValidFile, res.ValidName)
	assert.Equal(t, prefix+cfg.TestFile, res.TestName)

	// features are standardized with train statistics: the train
	// partition is centered, and the response column is untouched
	sum := 0.0
	for _, row := range res.Train.Rows {
		sum += row[1]
	}
	assert.InDelta(t, 0.0, sum/float64(len(res.Train.Rows)), 1e-6)
	assert.Equal(t, 0.0, res.Train.Rows[0][0])
	assert.Equal(t, 1.0, res.Train.Rows[1][0])
}

func TestSelectFeaturesDegenerate(t *testing.T) {
	cfg, table := selectionPanel()
	cfg.ElasticNet.Alphas = []float64{1e6}
	cfg.ElasticNet.L1Ratios = []float64{1.0}

	_, err := SelectFeatures(cfg, table)
	var degenerate *DegenerateModelError
	require.ErrorAs(t, err, &degenerate)
	assert.Equal(t, 1e6, degenerate.Alpha)
}
