package pipeline

import (
	"fmt"
	"reflect"
	"time"

	"github.com/hendrikgbrg/Bundesliga-Forecasting/pkg/util"
)

// Column name constants. These are the exact CSV headers, shared by
// every stage boundary, so downstream model-training code can consume
// the output files without negotiation.
const (
	ColSeason   = "Season"
	ColDiv      = "Div"
	ColDate     = "Date"
	ColTeam     = "Team"
	ColOpponent = "Opponent"
	ColHome     = "Home"

	ColGoalsFor     = "GoalsFor"
	ColGoalsAgainst = "GoalsAgainst"
	ColGoalDiff     = "GoalDiff"
	ColPoints       = "Points"

	ColPostTotalGoalsFor     = "PostTotalGoalsFor"
	ColPostTotalGoalsAgainst = "PostTotalGoalsAgainst"
	ColPostTotalGoalDiff     = "PostTotalGoalDiff"
	ColPostTotalPoints       = "PostTotalPoints"
	ColPostTotalWins         = "PostTotalWins"
	ColPostTotalDraws        = "PostTotalDraws"
	ColPostTotalLosses       = "PostTotalLosses"

	ColPreTotalGoalsFor     = "PreTotalGoalsFor"
	ColPreTotalGoalsAgainst = "PreTotalGoalsAgainst"
	ColPreTotalGoalDiff     = "PreTotalGoalDiff"
	ColPreTotalPoints       = "PreTotalPoints"
	ColPreTotalWins         = "PreTotalWins"
	ColPreTotalDraws        = "PreTotalDraws"
	ColPreTotalLosses       = "PreTotalLosses"

	ColPreRank       = "PreRank"
	ColPreTotalRank  = "PreTotalRank"
	ColPostRank      = "PostRank"
	ColPostTotalRank = "PostTotalRank"

	ColPreMinTotalPoints  = "PreMinTotalPoints"
	ColPreMaxTotalPoints  = "PreMaxTotalPoints"
	ColPostMinTotalPoints = "PostMinTotalPoints"
	ColPostMaxTotalPoints = "PostMaxTotalPoints"

	ColZone                      = "Zone"
	ColPreTotalRankPerformance   = "PreTotalRankPerformance"
	ColPostTotalRankPerformance  = "PostTotalRankPerformance"
	ColPreTotalPointPerformance  = "PreTotalPointPerformance"
	ColPostTotalPointPerformance = "PostTotalPointPerformance"
	ColSeasonalWinLossRatio      = "SeasonalWinLossRatio"
	ColSeasonalWinRatio          = "SeasonalWinRatio"

	ColPreWinStreak            = "PreWinStreak"
	ColPreLossStreak           = "PreLossStreak"
	ColPreRollingPointRatio    = "PreRollingPointRatio"
	ColPreRollingGoalDiffRatio = "PreRollingGoalDiffRatio"
	ColPreGoalSuperiority      = "PreGoalSuperiority"
	ColPreEwmaGoalDiff         = "PreEwmaGoalDiff"

	ColPrevSeasonDiv                   = "PrevSeasonDiv"
	ColPrevSeasonTotalRank             = "PrevSeasonTotalRank"
	ColPrevSeasonTotalWins             = "PrevSeasonTotalWins"
	ColPrevSeasonTotalDraws            = "PrevSeasonTotalDraws"
	ColPrevSeasonTotalLosses           = "PrevSeasonTotalLosses"
	ColPrevSeasonTotalGoalDiff         = "PrevSeasonTotalGoalDiff"
	ColPrevSeasonTotalPointPerformance = "PrevSeasonTotalPointPerformance"

	// Interaction columns are derived by prefixing the prev-season
	// feature names
	RelEffectPrefix  = "RelEffect"
	PromEffectPrefix = "PromEffect"

	ColPrevHistDiv                   = "PrevHistDiv"
	ColPrevHistTotalRank             = "PrevHistTotalRank"
	ColPrevHistTotalWins             = "PrevHistTotalWins"
	ColPrevHistTotalDraws            = "PrevHistTotalDraws"
	ColPrevHistTotalLosses           = "PrevHistTotalLosses"
	ColPrevHistTotalGoalDiff         = "PrevHistTotalGoalDiff"
	ColPrevHistTotalPointPerformance = "PrevHistTotalPointPerformance"
)

// PrevSeasonEffectCols are the prev-season features that get
// relegation/promotion interaction variants
var PrevSeasonEffectCols = []string{
	ColPrevSeasonTotalRank,
	ColPrevSeasonTotalWins,
	ColPrevSeasonTotalDraws,
	ColPrevSeasonTotalLosses,
	ColPrevSeasonTotalGoalDiff,
	ColPrevSeasonTotalPointPerformance,
}

// columnField maps a column name to its TeamMatch struct field
type columnField struct {
	index int
	kind  reflect.Kind
}

var columnIndex map[string]columnField
var columnOrder []string

// init builds the column registry by reflecting over the TeamMatch
// column annotations, the same way the fields of annotated record
// structs are discovered elsewhere in this codebase's lineage
func init() {
	columnIndex = make(map[string]columnField)
	t := reflect.TypeOf(TeamMatch{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		col := f.Tag.Get("column")
		if col == "" {
			continue
		}
		columnIndex[col] = columnField{index: i, kind: f.Type.Kind()}
		columnOrder = append(columnOrder, col)
	}
}

// allColumns returns every known column in struct declaration order
func allColumns() []string {
	return columnOrder
}

// IsNumericColumn reports whether the column holds a numeric value
// addressable through GetFloat/SetFloat
func IsNumericColumn(col string) bool {
	cf, ok := columnIndex[col]
	if !ok {
		return false
	}
	return cf.kind == reflect.Int || cf.kind == reflect.Float64
}

// GetFloat reads a numeric column from a row
func GetFloat(tm *TeamMatch, col string) (float64, error) {
	cf, ok := columnIndex[col]
	if !ok {
		return 0, fmt.Errorf("unknown column: %s", col)
	}
	v := reflect.ValueOf(tm).Elem().Field(cf.index)
	switch cf.kind {
	case reflect.Int:
		return float64(v.Int()), nil
	case reflect.Float64:
		return v.Float(), nil
	default:
		return 0, fmt.Errorf("column %s is not numeric", col)
	}
}

// SetFloat writes a numeric column on a row. Int columns truncate.
func SetFloat(tm *TeamMatch, col string, val float64) error {
	cf, ok := columnIndex[col]
	if !ok {
		return fmt.Errorf("unknown column: %s", col)
	}
	v := reflect.ValueOf(tm).Elem().Field(cf.index)
	switch cf.kind {
	case reflect.Int:
		v.SetInt(int64(val))
	case reflect.Float64:
		v.SetFloat(val)
	default:
		return fmt.Errorf("column %s is not numeric", col)
	}
	return nil
}

// formatColumn renders one column of a row for CSV output
func formatColumn(tm *TeamMatch, col string, dateFormat string) (string, error) {
	switch col {
	case ColDate:
		return tm.Date.Format(dateFormat), nil
	case ColTeam:
		return tm.Team, nil
	case ColOpponent:
		return tm.Opponent, nil
	}
	cf, ok := columnIndex[col]
	if !ok {
		return "", fmt.Errorf("unknown column: %s", col)
	}
	v := reflect.ValueOf(tm).Elem().Field(cf.index)
	switch cf.kind {
	case reflect.Int, reflect.Float64:
		return util.GetAsString(v.Interface())
	default:
		return "", fmt.Errorf("column %s has unsupported kind %s", col, cf.kind)
	}
}

// parseColumn fills one column of a row from a CSV cell
func parseColumn(tm *TeamMatch, col, cell string, dateFormats []string) error {
	switch col {
	case ColDate:
		var lastErr error
		for _, layout := range dateFormats {
			d, err := time.Parse(layout, cell)
			if err == nil {
				tm.Date = d
				return nil
			}
			lastErr = err
		}
		return fmt.Errorf("cannot parse date %q: %w", cell, lastErr)
	case ColTeam:
		tm.Team = cell
		return nil
	case ColOpponent:
		tm.Opponent = cell
		return nil
	}
	cf, ok := columnIndex[col]
	if !ok {
		return fmt.Errorf("unknown column: %s", col)
	}
	v := reflect.ValueOf(tm).Elem().Field(cf.index)
	switch cf.kind {
	case reflect.Int:
		n, err := parseInt(cell)
		if err != nil {
			return fmt.Errorf("column %s: %w", col, err)
		}
		v.SetInt(int64(n))
	case reflect.Float64:
		f, err := parseFloat(cell)
		if err != nil {
			return fmt.Errorf("column %s: %w", col, err)
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("column %s has unsupported kind %s", col, cf.kind)
	}
	return nil
}
