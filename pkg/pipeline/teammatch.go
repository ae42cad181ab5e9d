package pipeline

import (
	"sort"
	"time"
)

// TeamMatch is one row of the team-match panel: a single match seen
// from one team's perspective, plus every feature derived for it along
// the pipeline. The column annotations carry the exact CSV header
// vocabulary, so the table layer can address fields generically while
// storage stays struct-typed.
type TeamMatch struct {
	// Compound key fields
	Season   int       `column:"Season"`
	Div      int       `column:"Div"`
	Date     time.Time `column:"Date"`
	Team     string    `column:"Team"`
	Opponent string    `column:"Opponent"`
	Home     int       `column:"Home"`

	// Match outcome
	GoalsFor     int `column:"GoalsFor"`
	GoalsAgainst int `column:"GoalsAgainst"`
	GoalDiff     int `column:"GoalDiff"`
	Points       int `column:"Points"`

	// Post-match season cumulation
	PostTotalGoalsFor     int `column:"PostTotalGoalsFor"`
	PostTotalGoalsAgainst int `column:"PostTotalGoalsAgainst"`
	PostTotalGoalDiff     int `column:"PostTotalGoalDiff"`
	PostTotalPoints       int `column:"PostTotalPoints"`
	PostTotalWins         int `column:"PostTotalWins"`
	PostTotalDraws        int `column:"PostTotalDraws"`
	PostTotalLosses       int `column:"PostTotalLosses"`

	// Pre-match season cumulation (post minus the match's own contribution)
	PreTotalGoalsFor     int `column:"PreTotalGoalsFor"`
	PreTotalGoalsAgainst int `column:"PreTotalGoalsAgainst"`
	PreTotalGoalDiff     int `column:"PreTotalGoalDiff"`
	PreTotalPoints       int `column:"PreTotalPoints"`
	PreTotalWins         int `column:"PreTotalWins"`
	PreTotalDraws        int `column:"PreTotalDraws"`
	PreTotalLosses       int `column:"PreTotalLosses"`

	// League table state as of the match date
	PreRank       int `column:"PreRank"`
	PreTotalRank  int `column:"PreTotalRank"`
	PostRank      int `column:"PostRank"`
	PostTotalRank int `column:"PostTotalRank"`

	PreMinTotalPoints  int `column:"PreMinTotalPoints"`
	PreMaxTotalPoints  int `column:"PreMaxTotalPoints"`
	PostMinTotalPoints int `column:"PostMinTotalPoints"`
	PostMaxTotalPoints int `column:"PostMaxTotalPoints"`

	// Performance features
	Zone                      float64 `column:"Zone"`
	PreTotalRankPerformance   float64 `column:"PreTotalRankPerformance"`
	PostTotalRankPerformance  float64 `column:"PostTotalRankPerformance"`
	PreTotalPointPerformance  float64 `column:"PreTotalPointPerformance"`
	PostTotalPointPerformance float64 `column:"PostTotalPointPerformance"`
	SeasonalWinLossRatio      float64 `column:"SeasonalWinLossRatio"`
	SeasonalWinRatio          float64 `column:"SeasonalWinRatio"`

	// Momentum features (all strictly pre-match)
	PreWinStreak            int     `column:"PreWinStreak"`
	PreLossStreak           int     `column:"PreLossStreak"`
	PreRollingPointRatio    float64 `column:"PreRollingPointRatio"`
	PreRollingGoalDiffRatio float64 `column:"PreRollingGoalDiffRatio"`
	PreGoalSuperiority      float64 `column:"PreGoalSuperiority"`
	PreEwmaGoalDiff         float64 `column:"PreEwmaGoalDiff"`

	// Previous-season features
	PrevSeasonDiv                   float64 `column:"PrevSeasonDiv"`
	PrevSeasonTotalRank             float64 `column:"PrevSeasonTotalRank"`
	PrevSeasonTotalWins             float64 `column:"PrevSeasonTotalWins"`
	PrevSeasonTotalDraws            float64 `column:"PrevSeasonTotalDraws"`
	PrevSeasonTotalLosses           float64 `column:"PrevSeasonTotalLosses"`
	PrevSeasonTotalGoalDiff         float64 `column:"PrevSeasonTotalGoalDiff"`
	PrevSeasonTotalPointPerformance float64 `column:"PrevSeasonTotalPointPerformance"`

	// Relegation/promotion interaction features
	RelEffectPrevSeasonTotalRank             float64 `column:"RelEffectPrevSeasonTotalRank"`
	RelEffectPrevSeasonTotalWins             float64 `column:"RelEffectPrevSeasonTotalWins"`
	RelEffectPrevSeasonTotalDraws            float64 `column:"RelEffectPrevSeasonTotalDraws"`
	RelEffectPrevSeasonTotalLosses           float64 `column:"RelEffectPrevSeasonTotalLosses"`
	RelEffectPrevSeasonTotalGoalDiff         float64 `column:"RelEffectPrevSeasonTotalGoalDiff"`
	RelEffectPrevSeasonTotalPointPerformance float64 `column:"RelEffectPrevSeasonTotalPointPerformance"`

	PromEffectPrevSeasonTotalRank             float64 `column:"PromEffectPrevSeasonTotalRank"`
	PromEffectPrevSeasonTotalWins             float64 `column:"PromEffectPrevSeasonTotalWins"`
	PromEffectPrevSeasonTotalDraws            float64 `column:"PromEffectPrevSeasonTotalDraws"`
	PromEffectPrevSeasonTotalLosses           float64 `column:"PromEffectPrevSeasonTotalLosses"`
	PromEffectPrevSeasonTotalGoalDiff         float64 `column:"PromEffectPrevSeasonTotalGoalDiff"`
	PromEffectPrevSeasonTotalPointPerformance float64 `column:"PromEffectPrevSeasonTotalPointPerformance"`

	// Exponentially weighted multi-season history
	PrevHistDiv                   float64 `column:"PrevHistDiv"`
	PrevHistTotalRank             float64 `column:"PrevHistTotalRank"`
	PrevHistTotalWins             float64 `column:"PrevHistTotalWins"`
	PrevHistTotalDraws            float64 `column:"PrevHistTotalDraws"`
	PrevHistTotalLosses           float64 `column:"PrevHistTotalLosses"`
	PrevHistTotalGoalDiff         float64 `column:"PrevHistTotalGoalDiff"`
	PrevHistTotalPointPerformance float64 `column:"PrevHistTotalPointPerformance"`
}

// Clone returns a copy of the row
func (tm *TeamMatch) Clone() *TeamMatch {
	c := *tm
	return &c
}

// Table is the team-match panel plus the set of columns populated so
// far. Stages declare the columns they consume via Require and the
// columns they produce via AddColumns, which is the schema check at
// every stage boundary.
type Table struct {
	Rows []*TeamMatch
	cols map[string]bool
}

// NewTable creates a table over the given rows with the given columns
// marked as populated
func NewTable(rows []*TeamMatch, cols ...string) *Table {
	t := &Table{Rows: rows, cols: make(map[string]bool)}
	t.AddColumns(cols...)
	return t
}

// Has reports whether a column has been populated
func (t *Table) Has(col string) bool {
	return t.cols[col]
}

// AddColumns marks columns as populated
func (t *Table) AddColumns(cols ...string) {
	for _, c := range cols {
		t.cols[c] = true
	}
}

// Columns returns the populated columns in canonical (struct field) order
func (t *Table) Columns() []string {
	out := make([]string, 0, len(t.cols))
	for _, c := range allColumns() {
		if t.cols[c] {
			out = append(out, c)
		}
	}
	return out
}

// Require returns a MissingColumnError naming every absent column,
// or nil when all are present. Every stage calls this before touching
// a single row.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.cols[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	rows := make([]*TeamMatch, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	return NewTable(rows, t.Columns()...)
}

// Sort orders rows by (Season, Div, Date, Team) ascending. The whole
// pipeline depends on this ordering: within a season a team's rows are
// chronological, which is what makes the prefix sums and shifted
// windows pre-match quantities.
func (t *Table) Sort() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Div != b.Div {
			return a.Div < b.Div
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Team < b.Team
	})
}

// seasonTeam is the grouping key for per-team season aggregates
type seasonTeam struct {
	season int
	team   string
}

// groupBySeasonTeam collects row indices per (season, team), in table
// order. Call Sort first so each group is chronological.
func (t *Table) groupBySeasonTeam() (map[seasonTeam][]int, []seasonTeam) {
	groups := make(map[seasonTeam][]int)
	var order []seasonTeam
	for i, r := range t.Rows {
		k := seasonTeam{r.Season, r.Team}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	return groups, order
}
