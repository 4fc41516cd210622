package dvp

import (
	"sort"
	"strconv"
	"time"

	"github.com/Zelus7/fantasy-dvp-builder/internal/models"
	"github.com/Zelus7/fantasy-dvp-builder/internal/scoring"
)

// SourceTag identifies where the published numbers came from.
const SourceTag = "Sleeper per-player weekly (external builder)"

// WeekRange returns the inclusive season-to-date window [1..through].
func WeekRange(through int) []int {
	if through < 1 {
		return nil
	}
	weeks := make([]int, through)
	for i := range weeks {
		weeks[i] = i + 1
	}
	return weeks
}

// BuildReport converts accumulated totals into the ranked document handed to
// the publisher. Teams sort by points allowed descending; ties break on team
// code ascending so the ordering is deterministic. Points are rounded to one
// decimal here only (half to even, matching the published tables' existing
// values at the .X5 boundary); totals stay full precision until this step.
func BuildReport(pos string, season int, weeks []int, mode scoring.Mode, source string, totals models.DefenseTotals) *models.DVPReport {
	type entry struct {
		team string
		pts  float64
	}

	entries := make([]entry, 0, len(totals))
	for team, pts := range totals {
		entries = append(entries, entry{team: team, pts: pts})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pts != entries[j].pts {
			return entries[i].pts > entries[j].pts
		}
		return entries[i].team < entries[j].team
	})

	data := make([]models.RankedDefense, len(entries))
	for i, e := range entries {
		data[i] = models.RankedDefense{
			Rank:          i + 1,
			Team:          e.team,
			PointsAllowed: roundPoints(e.pts),
		}
	}

	through := 0
	if len(weeks) > 0 {
		through = weeks[len(weeks)-1]
	}

	return &models.DVPReport{
		Position:    pos,
		Season:      season,
		Weeks:       weeks,
		Through:     through,
		Scoring:     string(mode),
		Source:      source,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Data:        data,
	}
}

// roundPoints rounds to one decimal via the decimal string representation:
// nearest value, ties to even. Scaling through binary floats instead would
// drift off the published values at the .X5 boundary.
func roundPoints(pts float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(pts, 'f', 1, 64), 64)
	if err != nil {
		return pts
	}
	return rounded
}
