package pipeline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// ElasticNet is a linear model fit by cyclic coordinate descent,
// minimizing
//
//	1/(2n)·||y − Xw − b||² + α·λ·||w||₁ + α·(1−λ)/2·||w||²
//
// where λ is the L1 ratio. Predictors are expected to be standardized
// before fitting; the intercept is handled by centering.
type ElasticNet struct {
	Alpha   float64
	L1Ratio float64
	MaxIter int
	Tol     float64

	Coefs     []float64
	Intercept float64
}

// Fit estimates the coefficients on the given predictor matrix and
// response
func (m *ElasticNet) Fit(x *mat.Dense, y []float64) error {
	n, p := x.Dims()
	if n == 0 || n != len(y) {
		return fmt.Errorf("elastic net: %d predictor rows vs %d response values", n, len(y))
	}

	// center columns and response so the intercept drops out of the
	// descent
	colMeans := make([]float64, p)
	cols := make([][]float64, p)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		colMeans[j] = floats.Sum(col) / float64(n)
		floats.AddConst(-colMeans[j], col)
		cols[j] = col
	}
	yMean := floats.Sum(y) / float64(n)
	resid := make([]float64, n)
	for i, v := range y {
		resid[i] = v - yMean
	}

	colSq := make([]float64, p)
	for j, col := range cols {
		colSq[j] = floats.Dot(col, col) / float64(n)
	}

	w := make([]float64, p)
	l1 := m.Alpha * m.L1Ratio
	l2 := m.Alpha * (1 - m.L1Ratio)
	for iter := 0; iter < m.MaxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < p; j++ {
			if colSq[j] == 0 {
				continue
			}
			old := w[j]
			rho := floats.Dot(cols[j], resid)/float64(n) + colSq[j]*old
			w[j] = softThreshold(rho, l1) / (colSq[j] + l2)
			if delta := w[j] - old; delta != 0 {
				floats.AddScaled(resid, -delta, cols[j])
				maxDelta = math.Max(maxDelta, math.Abs(delta))
			}
		}
		if maxDelta < m.Tol {
			break
		}
	}

	m.Coefs = w
	m.Intercept = yMean - floats.Dot(w, colMeans)
	return nil
}

// Predict applies the fitted model row-wise
func (m *ElasticNet) Predict(x *mat.Dense) []float64 {
	n, _ := x.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m.Intercept + floats.Dot(mat.Row(nil, i, x), m.Coefs)
	}
	return out
}

func softThreshold(v, lambda float64) float64 {
	switch {
	case v > lambda:
		return v - lambda
	case v < -lambda:
		return v + lambda
	default:
		return 0
	}
}

// meanSquaredError is the cross-validation loss
func meanSquaredError(pred, actual []float64) float64 {
	sum := 0.0
	for i := range pred {
		d := pred[i] - actual[i]
		sum += d * d
	}
	return sum / float64(len(pred))
}

// CrossValidate grid-searches the hyperparameters with
// expanding-window folds: the rows must be in chronological order, and
// every fold trains on a prefix and scores on the slice that follows
// it. This keeps validation strictly in the future of its training
// data.
func CrossValidate(cfg *ElnetConfig, x *mat.Dense, y []float64) (bestAlpha, bestL1 float64, err error) {
	n, _ := x.Dims()
	chunk := n / (cfg.CVFolds + 1)
	if chunk == 0 {
		return 0, 0, fmt.Errorf("elastic net: %d rows are too few for %d folds", n, cfg.CVFolds)
	}

	bestScore := math.Inf(1)
	for _, l1 := range cfg.L1Ratios {
		for _, alpha := range cfg.Alphas {
			score, ferr := foldScore(cfg, x, y, alpha, l1, chunk)
			if ferr != nil {
				return 0, 0, ferr
			}
			logger.Debug(fmt.Sprintf("cv alpha=%g l1=%g mse=%g", alpha, l1, score))
			if score < bestScore {
				bestScore, bestAlpha, bestL1 = score, alpha, l1
			}
		}
	}
	logger.Info(fmt.Sprintf("Cross-validation selected alpha=%g, l1-ratio=%g (mse=%g)", bestAlpha, bestL1, bestScore))
	return bestAlpha, bestL1, nil
}

func foldScore(cfg *ElnetConfig, x *mat.Dense, y []float64, alpha, l1 float64, chunk int) (float64, error) {
	n, p := x.Dims()
	total := 0.0
	for fold := 1; fold <= cfg.CVFolds; fold++ {
		trainEnd := fold * chunk
		testEnd := trainEnd + chunk
		if fold == cfg.CVFolds {
			testEnd = n
		}
		model := &ElasticNet{Alpha: alpha, L1Ratio: l1, MaxIter: cfg.MaxIter, Tol: cfg.Tol}
		trainX := x.Slice(0, trainEnd, 0, p).(*mat.Dense)
		if err := model.Fit(trainX, y[:trainEnd]); err != nil {
			return 0, err
		}
		testX := x.Slice(trainEnd, testEnd, 0, p).(*mat.Dense)
		total += meanSquaredError(model.Predict(testX), y[trainEnd:testEnd])
	}
	return total / float64(cfg.CVFolds), nil
}
