package dvp

import (
	"log/slog"
	"strings"

	"github.com/Zelus7/fantasy-dvp-builder/internal/models"
	"github.com/Zelus7/fantasy-dvp-builder/internal/scoring"
)

// StatsProvider fetches one player's raw stat record for one week. A nil
// record with a nil error means no data exists for that pair.
type StatsProvider interface {
	PlayerWeekStats(pid string, season, week int) (map[string]any, error)
}

// OpponentAliases are the provider fields that may carry the opponent team
// abbreviation, in priority order. First non-empty match wins.
var OpponentAliases = []string{"opponent", "opp", "opponent_team", "opp_abbr"}

// Aggregator builds points-allowed totals for one position by walking
// candidate players across a week range. It never aborts on a per-row
// failure: bad fetches are counted and the loop moves on.
type Aggregator struct {
	provider        StatsProvider
	opponentAliases []string
}

func NewAggregator(provider StatsProvider) *Aggregator {
	return &Aggregator{
		provider:        provider,
		opponentAliases: OpponentAliases,
	}
}

// Build aggregates fantasy points allowed per opponent defense. When
// maxPlayers is positive only the first maxPlayers candidates are used,
// a deliberate cap for rate limiting and testing.
func (a *Aggregator) Build(pos string, season int, weeks []int, mode scoring.Mode, playerIDs []string, maxPlayers int) (models.DefenseTotals, models.AggregateCounters) {
	ids := playerIDs
	if maxPlayers > 0 && len(ids) > maxPlayers {
		ids = ids[:maxPlayers]
	}

	totals := models.DefenseTotals{}
	counters := models.AggregateCounters{PlayersUsed: len(ids)}

	for _, pid := range ids {
		for _, week := range weeks {
			row, err := a.provider.PlayerWeekStats(pid, season, week)
			if err != nil {
				counters.CallsErr++
				slog.Debug("Weekly stats fetch failed", "position", pos, "player", pid, "week", week, "error", err)
				continue
			}

			counters.CallsOK++
			if row == nil {
				counters.CallsNull++
				continue
			}

			// Some provider shapes nest the counters under "stats",
			// others are flat.
			stats := row
			if nested, ok := row["stats"].(map[string]any); ok {
				stats = nested
			}

			opp := opponentFrom(row, a.opponentAliases)
			if opp == "" {
				continue
			}
			counters.RowsWithOpponent++

			pts := scoring.Compute(stats, mode)
			if pts <= 0 {
				continue
			}
			counters.RowsWithPoints++
			totals[opp] += pts
		}
	}

	return totals, counters
}

func opponentFrom(row map[string]any, aliases []string) string {
	for _, key := range aliases {
		s, ok := row[key].(string)
		if !ok {
			continue
		}
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			return s
		}
	}
	return ""
}
