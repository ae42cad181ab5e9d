package pipeline

import "fmt"

// Config contains all configurable parameters that influence the
// engineered features. This centralizes every tunable so tests can
// inject alternate values; it is passed explicitly into each stage,
// never held in a package-level singleton.
type Config struct {
	// Directory layout
	DataPath     string // base data directory
	MergedDir    string // flat match log lives here
	PreparedDir  string // restructured team-match panel
	FeatureDir   string // feature tables
	ElnetDir     string // elastic-net outputs (train/valid/test)
	MergedFile   string // input file name (default: merged.csv)
	PreparedFile string // prepared panel file name
	FeatureFile  string // cumulative feature file name
	DiffFile     string // relativized (differenced) file name
	TrainFile    string // train partition file name
	ValidFile    string // validation partition file name
	TestFile     string // test partition file name

	// Date handling
	RawDateFormat   string // day-first layout of the raw match log (default: 02/01/2006)
	TableDateFormat string // layout used in intermediate tables (default: 2006-01-02)

	// === SEASON ASSIGNMENT ===

	SeasonStartMonth int // month >= threshold => season = year, else year-1 (default: 7)

	// === RANKING PARAMETERS ===

	// The composite ordering key is a weighted sum over the ranking
	// columns in fixed priority order. The base must be large enough
	// that no combination of lower-priority metrics can overturn a
	// higher-priority difference (default: 1000, giving weights
	// 10^6 / 10^3 / 1)
	RankWeightBase float64

	DivisionSize     int // teams per division, used for the cross-division rank offset (default: 18)
	FallbackDivision int // assumed tier for teams with no prior-season record (default: 3)

	// === FORM / MOMENTUM PARAMETERS ===

	RollingWindow int     // trailing-form window in matches (default: 5)
	SeasonAlpha   float64 // EWMA decay within a season (default: 0.4)
	HistoryAlpha  float64 // EWMA decay across seasons (default: 0.75)

	// === TABLE ZONES ===

	// ZoneBins are inclusive rank bin edges; a prior rank r falls into
	// bucket i when ZoneBins[i] < r <= ZoneBins[i+1] (the first bucket
	// includes the lower edge). ZoneLabels holds one numeric label per
	// bucket, so len(ZoneLabels) == len(ZoneBins)-1.
	ZoneBins   []int
	ZoneLabels []float64

	// === FEATURE SELECTION ===

	Predictors []string   // candidate predictor columns fed to the elastic net
	ElasticNet ElnetConfig
}

// ElnetConfig holds the elastic-net hyperparameters used for feature
// selection
type ElnetConfig struct {
	L1Ratios    []float64 // grid of L1/L2 mixing ratios
	Alphas      []float64 // grid of regularization strengths
	CVFolds     int       // number of expanding-window folds
	MaxIter     int       // coordinate descent iteration cap
	Tol         float64   // coordinate descent convergence tolerance
	CoefEpsilon float64   // |coefficient| threshold for keeping a feature
}

// DefaultConfig returns the default configuration with all standard
// values
func DefaultConfig() *Config {
	dataPath := "data/"
	return &Config{
		DataPath:     dataPath,
		MergedDir:    dataPath + "03_Merged",
		PreparedDir:  dataPath + "04_Prepared",
		FeatureDir:   dataPath + "05_Features",
		ElnetDir:     dataPath + "06_Elnet",
		MergedFile:   "merged.csv",
		PreparedFile: "prepared.csv",
		FeatureFile:  "features.csv",
		DiffFile:     "differenced.csv",
		TrainFile:    "train.csv",
		ValidFile:    "valid.csv",
		TestFile:     "test.csv",

		RawDateFormat:   "02/01/2006",
		TableDateFormat: "2006-01-02",

		SeasonStartMonth: 7,

		RankWeightBase:   1000,
		DivisionSize:     18,
		FallbackDivision: 3,

		RollingWindow: 5,
		SeasonAlpha:   0.4,
		HistoryAlpha:  0.75,

		ZoneBins:   []int{1, 3, 6, 12, 15, 18},
		ZoneLabels: []float64{1, 0.5, 0, -0.5, -1},

		Predictors: DefaultPredictors(),
		ElasticNet: ElnetConfig{
			L1Ratios:    []float64{0.1, 0.5, 0.7, 0.9, 0.95, 1.0},
			Alphas:      []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			CVFolds:     5,
			MaxIter:     50000,
			Tol:         1e-4,
			CoefEpsilon: 1e-6,
		},
	}
}

// DefaultPredictors lists the candidate predictor columns handed to
// the relativization stage and the elastic net. All of them describe
// pre-match state only; nothing here leaks the match's own outcome.
func DefaultPredictors() []string {
	preds := []string{
		ColHome,
		ColZone,
		ColPreTotalRankPerformance,
		ColPreTotalPointPerformance,
		ColPreWinStreak,
		ColPreLossStreak,
		ColPreRollingPointRatio,
		ColPreRollingGoalDiffRatio,
		ColPreGoalSuperiority,
		ColPreEwmaGoalDiff,
		ColPrevSeasonDiv,
		ColPrevSeasonTotalRank,
		ColPrevSeasonTotalWins,
		ColPrevSeasonTotalDraws,
		ColPrevSeasonTotalLosses,
		ColPrevSeasonTotalGoalDiff,
		ColPrevSeasonTotalPointPerformance,
	}
	for _, c := range PrevSeasonEffectCols {
		preds = append(preds, RelEffectPrefix+c)
	}
	for _, c := range PrevSeasonEffectCols {
		preds = append(preds, PromEffectPrefix+c)
	}
	preds = append(preds,
		ColPrevHistDiv,
		ColPrevHistTotalRank,
		ColPrevHistTotalWins,
		ColPrevHistTotalDraws,
		ColPrevHistTotalLosses,
		ColPrevHistTotalGoalDiff,
		ColPrevHistTotalPointPerformance,
	)
	return preds
}

// ValidateConfig ensures all configuration values are within
// reasonable ranges
func ValidateConfig(cfg *Config) error {
	if cfg.SeasonStartMonth < 1 || cfg.SeasonStartMonth > 12 {
		return fmt.Errorf("SeasonStartMonth must be between 1 and 12, got: %d", cfg.SeasonStartMonth)
	}
	if cfg.RollingWindow < 1 {
		return fmt.Errorf("RollingWindow must be at least 1, got: %d", cfg.RollingWindow)
	}
	if cfg.SeasonAlpha <= 0 || cfg.SeasonAlpha > 1 {
		return fmt.Errorf("SeasonAlpha must be in (0, 1], got: %f", cfg.SeasonAlpha)
	}
	if cfg.HistoryAlpha <= 0 || cfg.HistoryAlpha > 1 {
		return fmt.Errorf("HistoryAlpha must be in (0, 1], got: %f", cfg.HistoryAlpha)
	}
	if cfg.RankWeightBase < 100 {
		return fmt.Errorf("RankWeightBase should be at least 100 so lower-priority metrics cannot overturn higher ones, got: %f", cfg.RankWeightBase)
	}
	if cfg.DivisionSize < 2 {
		return fmt.Errorf("DivisionSize must be at least 2, got: %d", cfg.DivisionSize)
	}
	if len(cfg.ZoneLabels) != len(cfg.ZoneBins)-1 {
		return fmt.Errorf("ZoneLabels must have exactly one label per bin, got %d labels for %d bins", len(cfg.ZoneLabels), len(cfg.ZoneBins))
	}
	for i := 1; i < len(cfg.ZoneBins); i++ {
		if cfg.ZoneBins[i] <= cfg.ZoneBins[i-1] {
			return fmt.Errorf("ZoneBins must be strictly increasing, got: %v", cfg.ZoneBins)
		}
	}
	for _, p := range cfg.Predictors {
		if !IsNumericColumn(p) {
			return fmt.Errorf("predictor %q is not a known numeric column", p)
		}
	}
	en := cfg.ElasticNet
	if len(en.L1Ratios) == 0 || len(en.Alphas) == 0 {
		return fmt.Errorf("elastic net needs at least one l1-ratio and one alpha")
	}
	for _, r := range en.L1Ratios {
		if r < 0 || r > 1 {
			return fmt.Errorf("elastic net l1-ratio must be in [0, 1], got: %f", r)
		}
	}
	for _, a := range en.Alphas {
		if a <= 0 {
			return fmt.Errorf("elastic net alpha must be positive, got: %f", a)
		}
	}
	if en.CVFolds < 2 {
		return fmt.Errorf("elastic net needs at least 2 cv folds, got: %d", en.CVFolds)
	}
	if en.MaxIter < 100 {
		return fmt.Errorf("elastic net MaxIter should be at least 100, got: %d", en.MaxIter)
	}
	return nil
}
