package pipeline

import (
	"path/filepath"

	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// The pipeline runs as a chain of file-to-file stages. The flat match
// log is restructured into the team-match panel once; the feature
// stages then rewrite the feature file in place, so any stage can be
// re-run from the last good file on disk.

// RunRestructure turns the flat match log into the two-rows-per-match
// team panel
func RunRestructure(cfg *Config) error {
	if err := EnsureSourceDir(cfg.MergedDir); err != nil {
		return err
	}
	matches, err := ReadMatchCSV(filepath.Join(cfg.MergedDir, cfg.MergedFile), cfg.RawDateFormat)
	if err != nil {
		return err
	}
	t := Restructure(cfg, matches)
	return WriteTable(t, filepath.Join(cfg.PreparedDir, cfg.PreparedFile), cfg.TableDateFormat)
}

// RunScore seeds the feature file with match scores and running season
// totals
func RunScore(cfg *Config) error {
	if err := EnsureSourceDir(cfg.PreparedDir); err != nil {
		return err
	}
	t, err := ReadTable(filepath.Join(cfg.PreparedDir, cfg.PreparedFile), tableDateFormats(cfg))
	if err != nil {
		return err
	}
	if err := AddScores(cfg, t); err != nil {
		return err
	}
	return WriteTable(t, filepath.Join(cfg.FeatureDir, cfg.FeatureFile), cfg.TableDateFormat)
}

// RunTable adds the daily-table ranks and extrema
func RunTable(cfg *Config) error {
	return runFeatureStage(cfg, AddDailyTables)
}

// RunMomentum adds streaks and trailing-form features
func RunMomentum(cfg *Config) error {
	return runFeatureStage(cfg, AddMomentum)
}

// RunPerformance adds zones and normalized performance scores
func RunPerformance(cfg *Config) error {
	return runFeatureStage(cfg, AddPerformance)
}

// RunPrevSeason adds the previous-season standing features
func RunPrevSeason(cfg *Config) error {
	return runFeatureStage(cfg, AddPrevSeason)
}

// RunRelProm adds the relegation and promotion interaction features
func RunRelProm(cfg *Config) error {
	return runFeatureStage(cfg, AddRelPromEffects)
}

// RunHistory adds the cross-season smoothed history features
func RunHistory(cfg *Config) error {
	return runFeatureStage(cfg, AddHistory)
}

// RunRelativize differences every predictor against the opponent and
// writes the model-input file
func RunRelativize(cfg *Config) error {
	if err := EnsureSourceDir(cfg.FeatureDir); err != nil {
		return err
	}
	t, err := ReadTable(filepath.Join(cfg.FeatureDir, cfg.FeatureFile), tableDateFormats(cfg))
	if err != nil {
		return err
	}
	out, err := Relativize(cfg, t)
	if err != nil {
		return err
	}
	return WriteTable(out, filepath.Join(cfg.FeatureDir, cfg.DiffFile), cfg.TableDateFormat)
}

// RunSelect splits the relativized panel, runs the elastic-net
// selection and writes the scaled partitions
func RunSelect(cfg *Config) error {
	if err := EnsureSourceDir(cfg.FeatureDir); err != nil {
		return err
	}
	t, err := ReadTable(filepath.Join(cfg.FeatureDir, cfg.DiffFile), tableDateFormats(cfg))
	if err != nil {
		return err
	}
	res, err := SelectFeatures(cfg, t)
	if err != nil {
		return err
	}
	if err := WriteFrame(res.Train, filepath.Join(cfg.ElnetDir, res.TrainName)); err != nil {
		return err
	}
	if err := WriteFrame(res.Valid, filepath.Join(cfg.ElnetDir, res.ValidName)); err != nil {
		return err
	}
	return WriteFrame(res.Test, filepath.Join(cfg.ElnetDir, res.TestName))
}

// RunAll executes the whole pipeline front to back
func RunAll(cfg *Config) error {
	logger.Highlight("Running the full pipeline...")
	steps := []func(*Config) error{
		RunRestructure, RunScore, RunTable, RunMomentum, RunPerformance,
		RunPrevSeason, RunRelProm, RunHistory, RunRelativize, RunSelect,
	}
	for _, step := range steps {
		if err := step(cfg); err != nil {
			return err
		}
	}
	logger.Highlight("Pipeline finished")
	return nil
}

// runFeatureStage rewrites the feature file through one in-place stage
func runFeatureStage(cfg *Config, stage func(*Config, *Table) error) error {
	if err := EnsureSourceDir(cfg.FeatureDir); err != nil {
		return err
	}
	path := filepath.Join(cfg.FeatureDir, cfg.FeatureFile)
	t, err := ReadTable(path, tableDateFormats(cfg))
	if err != nil {
		return err
	}
	t.Sort()
	if err := stage(cfg, t); err != nil {
		return err
	}
	return WriteTable(t, path, cfg.TableDateFormat)
}

// tableDateFormats lists the layouts accepted when reading
// intermediate files
func tableDateFormats(cfg *Config) []string {
	return []string{cfg.TableDateFormat, cfg.RawDateFormat}
}
