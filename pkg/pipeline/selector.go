package pipeline

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// StandardScaler standardizes predictor columns to zero mean and unit
// spread, with the statistics frozen at fit time. Constant columns
// pass through unscaled.
type StandardScaler struct {
	Means []float64
	Stds  []float64
}

// Fit records per-column mean and standard deviation
func (s *StandardScaler) Fit(x *mat.Dense) {
	_, p := x.Dims()
	s.Means = make([]float64, p)
	s.Stds = make([]float64, p)
	for j := 0; j < p; j++ {
		mean, std := stat.MeanStdDev(mat.Col(nil, j, x), nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Means[j] = mean
		s.Stds[j] = std
	}
}

// Transform returns a standardized copy of the matrix
func (s *StandardScaler) Transform(x *mat.Dense) *mat.Dense {
	n, p := x.Dims()
	out := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			out.Set(i, j, (x.At(i, j)-s.Means[j])/s.Stds[j])
		}
	}
	return out
}

// Frame is a plain numeric table: the model-ready partitions are no
// longer team-match panels once the features have been standardized
type Frame struct {
	Columns []string
	Rows    [][]float64
}

// SelectionResult is the outcome of the feature-selection stage: the
// surviving predictors, the winning hyperparameters, and the three
// scaled partitions ready to be written.
type SelectionResult struct {
	Features []string
	Alpha    float64
	L1Ratio  float64

	Train *Frame
	Valid *Frame
	Test  *Frame

	TrainName string
	ValidName string
	TestName  string
}

// SelectFeatures splits the relativized panel chronologically by
// season, selects predictors with a cross-validated elastic net fit on
// the training seasons, and standardizes the surviving predictors with
// statistics learned from the training partition alone.
func SelectFeatures(cfg *Config, t *Table) (*SelectionResult, error) {
	logger.Info("Starting elastic-net feature selection...")
	required := append([]string{ColSeason, ColDiv, ColDate, ColGoalsFor}, cfg.Predictors...)
	if err := t.Require(required...); err != nil {
		return nil, err
	}

	t.Sort()
	train, valid, test, err := splitBySeason(t)
	if err != nil {
		return nil, err
	}

	selected, alpha, l1, err := elnetSelection(cfg, train)
	if err != nil {
		return nil, err
	}

	trainX, err := predictorMatrix(train, selected)
	if err != nil {
		return nil, err
	}
	scaler := &StandardScaler{}
	scaler.Fit(trainX)

	logger.Info("Scaling the selected features...")
	res := &SelectionResult{Features: selected, Alpha: alpha, L1Ratio: l1}
	if res.Train, err = scaledPartition(train, selected, scaler); err != nil {
		return nil, err
	}
	if res.Valid, err = scaledPartition(valid, selected, scaler); err != nil {
		return nil, err
	}
	if res.Test, err = scaledPartition(test, selected, scaler); err != nil {
		return nil, err
	}

	prefix := "full_"
	if len(selected) < len(cfg.Predictors) {
		prefix = fmt.Sprintf("%d-%d_", len(selected), len(cfg.Predictors))
	}
	res.TrainName = prefix + cfg.TrainFile
	res.ValidName = prefix + cfg.ValidFile
	res.TestName = prefix + cfg.TestFile
	return res, nil
}

// splitBySeason partitions chronologically: every season except the
// last two trains, the second-to-last validates, the last tests
func splitBySeason(t *Table) (train, valid, test []*TeamMatch, err error) {
	seasonSet := make(map[int]bool)
	for _, r := range t.Rows {
		seasonSet[r.Season] = true
	}
	seasons := make([]int, 0, len(seasonSet))
	for s := range seasonSet {
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)
	if len(seasons) < 3 {
		return nil, nil, nil, fmt.Errorf("need at least 3 seasons to split, have %d", len(seasons))
	}

	validSeason := seasons[len(seasons)-2]
	testSeason := seasons[len(seasons)-1]
	for _, r := range t.Rows {
		switch r.Season {
		case testSeason:
			test = append(test, r)
		case validSeason:
			valid = append(valid, r)
		default:
			train = append(train, r)
		}
	}
	logger.Info(fmt.Sprintf("Split: %d train, %d validation, %d test rows", len(train), len(valid), len(test)))
	return train, valid, test, nil
}

// elnetSelection fits the cross-validated elastic net on the
// standardized training predictors and keeps every feature with a
// coefficient meaningfully away from zero
func elnetSelection(cfg *Config, train []*TeamMatch) ([]string, float64, float64, error) {
	x, err := predictorMatrix(train, cfg.Predictors)
	if err != nil {
		return nil, 0, 0, err
	}
	y := make([]float64, len(train))
	for i, r := range train {
		y[i] = float64(r.GoalsFor)
	}

	scaler := &StandardScaler{}
	scaler.Fit(x)
	xs := scaler.Transform(x)

	alpha, l1, err := CrossValidate(&cfg.ElasticNet, xs, y)
	if err != nil {
		return nil, 0, 0, err
	}
	model := &ElasticNet{Alpha: alpha, L1Ratio: l1, MaxIter: cfg.ElasticNet.MaxIter, Tol: cfg.ElasticNet.Tol}
	if err := model.Fit(xs, y); err != nil {
		return nil, 0, 0, err
	}

	var selected, removed []string
	for j, col := range cfg.Predictors {
		if math.Abs(model.Coefs[j]) > cfg.ElasticNet.CoefEpsilon {
			selected = append(selected, col)
		} else {
			removed = append(removed, col)
		}
	}
	if len(selected) == 0 {
		return nil, 0, 0, &DegenerateModelError{Alpha: alpha, L1Ratio: l1}
	}
	logger.Info(fmt.Sprintf("Selected %d / %d features: %v", len(selected), len(cfg.Predictors), selected))
	logger.Info(fmt.Sprintf("Removed features: %v", removed))
	return selected, alpha, l1, nil
}

// predictorMatrix assembles a row-major matrix of the given columns
func predictorMatrix(rows []*TeamMatch, cols []string) (*mat.Dense, error) {
	data := make([]float64, 0, len(rows)*len(cols))
	for _, r := range rows {
		for _, col := range cols {
			v, err := GetFloat(r, col)
			if err != nil {
				return nil, err
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(len(rows), len(cols), data), nil
}

// scaledPartition builds an output frame holding the response plus
// the standardized selected features, rounded to six decimals
func scaledPartition(rows []*TeamMatch, selected []string, scaler *StandardScaler) (*Frame, error) {
	x, err := predictorMatrix(rows, selected)
	if err != nil {
		return nil, err
	}
	xs := scaler.Transform(x)

	frame := &Frame{
		Columns: append([]string{ColGoalsFor}, selected...),
		Rows:    make([][]float64, len(rows)),
	}
	for i, r := range rows {
		vals := make([]float64, 0, len(selected)+1)
		vals = append(vals, float64(r.GoalsFor))
		for j := range selected {
			vals = append(vals, math.Round(xs.At(i, j)*1e6)/1e6)
		}
		frame.Rows[i] = vals
	}
	return frame, nil
}
