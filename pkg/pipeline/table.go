package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/hendrikgbrg/Bundesliga-Forecasting/internal/logger"
)

// The daily-table engine reconstructs, for every date any match was
// played in a season/division, the complete league table as it stood
// at that instant, including teams idle that day. This is where the
// tie-break and forward-fill semantics live; a mistake here silently
// corrupts every downstream feature.

// cumState is a team's cumulative season state at some instant
type cumState struct {
	goalsFor     int
	goalsAgainst int
	goalDiff     int
	points       int
}

// tableEntry is one cell of the season snapshot: one team on one
// match-day of its season/division
type tableEntry struct {
	season int
	div    int
	date   time.Time
	team   string
	played bool

	pre  cumState
	post cumState

	preRank       int
	preTotalRank  int
	postRank      int
	postTotalRank int

	preMinPoints  int
	preMaxPoints  int
	postMinPoints int
	postMaxPoints int
}

type snapshotKey struct {
	season int
	div    int
	date   time.Time
	team   string
}

type dayKey struct {
	season int
	div    int
	date   time.Time
}

// AddDailyTables builds the full season snapshot (calendar cross-join,
// forward-fill, dense ranks, extrema) and merges the ranking columns
// back onto the team-match panel.
func AddDailyTables(cfg *Config, t *Table) error {
	logger.Info("Adding daily-table features to the panel...")
	if err := t.Require(
		ColSeason, ColDiv, ColDate, ColTeam,
		ColGoalsFor, ColGoalsAgainst, ColPoints,
		ColPreTotalPoints, ColPreTotalGoalDiff, ColPreTotalGoalsFor,
		ColPostTotalPoints, ColPostTotalGoalDiff, ColPostTotalGoalsFor,
	); err != nil {
		return err
	}

	entries := createDailyTables(t)
	forwardFill(entries)
	computeRanks(cfg, entries)
	addTableExtrema(entries)
	return mergeBack(t, entries)
}

// createDailyTables cross-joins the distinct (season, div, date)
// triples with the distinct (season, div, team) pairs and left-joins
// the actual team-match rows, so every team has a cell on every
// match-day of its season/division
func createDailyTables(t *Table) []*tableEntry {
	logger.Info("Creating the season snapshot from the team-date calendar...")

	type divKey struct {
		season int
		div    int
	}
	dateSet := make(map[dayKey]bool)
	teamSet := make(map[divKey]map[string]bool)
	actual := make(map[snapshotKey]*TeamMatch)

	for _, r := range t.Rows {
		dateSet[dayKey{r.Season, r.Div, r.Date}] = true
		dk := divKey{r.Season, r.Div}
		if teamSet[dk] == nil {
			teamSet[dk] = make(map[string]bool)
		}
		teamSet[dk][r.Team] = true
		actual[snapshotKey{r.Season, r.Div, r.Date, r.Team}] = r
	}

	days := make([]dayKey, 0, len(dateSet))
	for d := range dateSet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		a, b := days[i], days[j]
		if a.season != b.season {
			return a.season < b.season
		}
		if a.div != b.div {
			return a.div < b.div
		}
		return a.date.Before(b.date)
	})

	var entries []*tableEntry
	for _, d := range days {
		teams := make([]string, 0, len(teamSet[divKey{d.season, d.div}]))
		for team := range teamSet[divKey{d.season, d.div}] {
			teams = append(teams, team)
		}
		sort.Strings(teams)
		for _, team := range teams {
			e := &tableEntry{season: d.season, div: d.div, date: d.date, team: team}
			if r, ok := actual[snapshotKey{d.season, d.div, d.date, team}]; ok {
				e.played = true
				e.post = cumState{
					goalsFor:     r.PostTotalGoalsFor,
					goalsAgainst: r.PostTotalGoalsAgainst,
					goalDiff:     r.PostTotalGoalDiff,
					points:       r.PostTotalPoints,
				}
			}
			entries = append(entries, e)
		}
	}
	return entries
}

// forwardFill carries each team's post-match state over its
// non-playing days and derives the pre-match state as the previous
// calendar day's post state. Before a team's first match of the season
// both states are all zero.
func forwardFill(entries []*tableEntry) {
	logger.Info("Forward-filling cumulative state over non-playing days...")

	byTeam := make(map[seasonTeam][]*tableEntry)
	for _, e := range entries {
		k := seasonTeam{e.season, e.team}
		byTeam[k] = append(byTeam[k], e)
	}
	// entries are already date-ascending within each (season, team)
	for _, seq := range byTeam {
		var cur cumState
		for _, e := range seq {
			e.pre = cur
			if e.played {
				cur = e.post
			}
			e.post = cur
		}
	}
}

// rankKey builds the composite ordering key: the primary metric is
// weighted so heavily that no combination of the lower-priority
// metrics can overturn it
func rankKey(s cumState, base float64) float64 {
	return float64(s.points)*base*base + float64(s.goalDiff)*base + float64(s.goalsFor)
}

// computeRanks assigns dense ranks, descending (rank 1 = best), within
// every (season, div, date) group, once over the pre-match state and
// once over the post-match state. The total rank offsets division 2 by
// the configured division size, producing a single cross-division
// ordering.
func computeRanks(cfg *Config, entries []*tableEntry) {
	logger.Info("Calculating dense ranks within each season snapshot day...")

	groups := make(map[dayKey][]*tableEntry)
	for _, e := range entries {
		groups[dayKey{e.season, e.div, e.date}] = append(groups[dayKey{e.season, e.div, e.date}], e)
	}

	for _, group := range groups {
		preRanks := denseRank(group, func(e *tableEntry) float64 { return rankKey(e.pre, cfg.RankWeightBase) })
		postRanks := denseRank(group, func(e *tableEntry) float64 { return rankKey(e.post, cfg.RankWeightBase) })
		for i, e := range group {
			e.preRank = preRanks[i]
			e.postRank = postRanks[i]
			offset := (e.div - 1) * cfg.DivisionSize
			e.preTotalRank = e.preRank + offset
			e.postTotalRank = e.postRank + offset
		}
	}
}

// denseRank ranks a group descending by key: ties share a rank and the
// next distinct key's rank is exactly one greater
func denseRank(group []*tableEntry, key func(*tableEntry) float64) []int {
	distinct := make(map[float64]bool, len(group))
	for _, e := range group {
		distinct[key(e)] = true
	}
	keys := make([]float64, 0, len(distinct))
	for k := range distinct {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(keys)))

	rankOf := make(map[float64]int, len(keys))
	for i, k := range keys {
		rankOf[k] = i + 1
	}
	ranks := make([]int, len(group))
	for i, e := range group {
		ranks[i] = rankOf[key(e)]
	}
	return ranks
}

// addTableExtrema records the best and worst point totals in each
// division on each day, for later performance normalization
func addTableExtrema(entries []*tableEntry) {
	logger.Info("Determining point extrema within each season snapshot day...")

	groups := make(map[dayKey][]*tableEntry)
	for _, e := range entries {
		groups[dayKey{e.season, e.div, e.date}] = append(groups[dayKey{e.season, e.div, e.date}], e)
	}
	for _, group := range groups {
		preMin, preMax := group[0].pre.points, group[0].pre.points
		postMin, postMax := group[0].post.points, group[0].post.points
		for _, e := range group[1:] {
			preMin = min(preMin, e.pre.points)
			preMax = max(preMax, e.pre.points)
			postMin = min(postMin, e.post.points)
			postMax = max(postMax, e.post.points)
		}
		for _, e := range group {
			e.preMinPoints, e.preMaxPoints = preMin, preMax
			e.postMinPoints, e.postMaxPoints = postMin, postMax
		}
	}
}

// mergeBack copies ranks and extrema from the snapshot onto the
// team-match rows by (season, date, team)
func mergeBack(t *Table, entries []*tableEntry) error {
	logger.Info("Merging season snapshot back into the panel...")

	type mergeKey struct {
		season int
		date   time.Time
		team   string
	}
	byKey := make(map[mergeKey]*tableEntry, len(entries))
	for _, e := range entries {
		byKey[mergeKey{e.season, e.date, e.team}] = e
	}

	for _, r := range t.Rows {
		e, ok := byKey[mergeKey{r.Season, r.Date, r.Team}]
		if !ok {
			return fmt.Errorf("no snapshot entry for %s on %s (season %d)", r.Team, r.Date.Format("2006-01-02"), r.Season)
		}
		r.PreRank = e.preRank
		r.PreTotalRank = e.preTotalRank
		r.PostRank = e.postRank
		r.PostTotalRank = e.postTotalRank
		r.PreMinTotalPoints = e.preMinPoints
		r.PreMaxTotalPoints = e.preMaxPoints
		r.PostMinTotalPoints = e.postMinPoints
		r.PostMaxTotalPoints = e.postMaxPoints
	}

	t.AddColumns(
		ColPreRank, ColPreTotalRank, ColPostRank, ColPostTotalRank,
		ColPreMinTotalPoints, ColPreMaxTotalPoints,
		ColPostMinTotalPoints, ColPostMaxTotalPoints,
	)
	return nil
}
