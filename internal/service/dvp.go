package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Zelus7/fantasy-dvp-builder/internal/api/sleeper"
	"github.com/Zelus7/fantasy-dvp-builder/internal/api/worker"
	"github.com/Zelus7/fantasy-dvp-builder/internal/config"
	"github.com/Zelus7/fantasy-dvp-builder/internal/dvp"
	"github.com/Zelus7/fantasy-dvp-builder/internal/models"
	"github.com/Zelus7/fantasy-dvp-builder/internal/repository/memory"
	"github.com/Zelus7/fantasy-dvp-builder/internal/scoring"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DVPService drives one DvP build: resolve the week range, load the player
// directory, then aggregate, rank and publish per position.
type DVPService struct {
	sleeper     *sleeper.Client
	worker      *worker.Client
	repo        *memory.Repository
	cfg         *config.Config
	sendSummary func(string) error
}

// NewDVPService wires the service. sendSummary may be nil when no notifier
// is configured.
func NewDVPService(sleeperClient *sleeper.Client, workerClient *worker.Client, repo *memory.Repository, cfg *config.Config, sendSummary func(string) error) *DVPService {
	return &DVPService{
		sleeper:     sleeperClient,
		worker:      workerClient,
		repo:        repo,
		cfg:         cfg,
		sendSummary: sendSummary,
	}
}

// Run executes one full build across the configured positions. A failed
// week resolution, directory fetch or upload is fatal; an empty position is
// not.
func (s *DVPService) Run() error {
	mode, err := scoring.ParseMode(s.cfg.Build.Scoring)
	if err != nil {
		return err
	}

	season := s.cfg.Build.Season
	if season == 0 {
		season = time.Now().Year()
	}

	through := s.cfg.Build.Through
	if through > 0 {
		slog.Info("Using provided through week", "week", through)
	} else {
		through, err = s.worker.CurrentWeek(season)
		if err != nil {
			return fmt.Errorf("resolving current week: %w", err)
		}
		slog.Info("Current fantasy week from Worker", "week", through)
	}

	// Always a cumulative season-to-date window, never a single week.
	weeks := dvp.WeekRange(through)
	slog.Info("Aggregating weeks", "from", 1, "through", through)

	directory, err := s.getDirectory()
	if err != nil {
		return err
	}

	aggregator := dvp.NewAggregator(s.sleeper)
	var summary strings.Builder
	fmt.Fprintf(&summary, "*DvP build* season %d, %s scoring, through week %d\n", season, mode, through)

	for _, pos := range s.cfg.PositionList() {
		slog.Info("Building DvP", "position", pos, "season", season, "scoring", mode)

		ids := filterPlayerIDs(directory.Players, pos)
		slog.Info("Candidate players", "position", pos, "count", len(ids))
		if len(ids) == 0 {
			logUnknownPosition(pos, directory.Players)
			continue
		}

		totals, counters := aggregator.Build(pos, season, weeks, mode, ids, s.cfg.Build.MaxPlayersPerPos)
		slog.Info("Aggregation finished",
			"position", pos,
			"callsOK", counters.CallsOK,
			"callsErr", counters.CallsErr,
			"callsNull", counters.CallsNull,
			"rowsWithPoints", counters.RowsWithPoints,
			"rowsWithOpponent", counters.RowsWithOpponent,
			"playersUsed", counters.PlayersUsed,
		)

		if len(totals) == 0 {
			slog.Warn("No totals computed, skipping upload", "position", pos)
			continue
		}

		report := dvp.BuildReport(pos, season, weeks, mode, dvp.SourceTag, totals)
		ack, err := s.worker.PublishDVP(report)
		if err != nil {
			return fmt.Errorf("uploading %s report: %w", pos, err)
		}
		slog.Info("Report uploaded", "position", pos, "defenses", len(report.Data), "ack", ack)
		fmt.Fprintf(&summary, "%s: %d defenses ranked\n", pos, len(report.Data))
	}

	slog.Info("All positions processed")

	if s.sendSummary != nil {
		if err := s.sendSummary(summary.String()); err != nil {
			slog.Error("Failed to send run summary", "error", err)
		}
	}

	return nil
}

// getDirectory returns the cached player directory, refreshing it when
// missing or older than a day. The staleness window only matters in
// scheduled mode; a one-shot run always fetches.
func (s *DVPService) getDirectory() (*models.PlayerDirectory, error) {
	directory := s.repo.GetDirectory()
	if directory == nil || time.Since(directory.LastUpdated) > 24*time.Hour {
		slog.Info("Downloading player directory")
		players, err := s.sleeper.Players()
		if err != nil {
			return nil, fmt.Errorf("fetching player directory: %w", err)
		}
		directory = &models.PlayerDirectory{Players: players, LastUpdated: time.Now()}
		s.repo.SaveDirectory(directory)
		slog.Info("Player directory loaded", "players", len(players))
	}
	return directory, nil
}

// filterPlayerIDs returns the ids of every player whose eligible roster
// positions include pos, case-insensitively. Ids are sorted so directory
// iteration order, and with it the candidate cap, is deterministic.
func filterPlayerIDs(players map[string]models.SleeperPlayer, pos string) []string {
	var ids []string
	for pid, player := range players {
		for _, fp := range player.FantasyPositions {
			if strings.EqualFold(fp, pos) {
				ids = append(ids, pid)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// logUnknownPosition warns about a position with no candidates and, when a
// close match exists among the positions actually present in the directory,
// suggests it.
func logUnknownPosition(pos string, players map[string]models.SleeperPlayer) {
	if suggestion := suggestPosition(pos, knownPositions(players)); suggestion != "" {
		slog.Warn("No players for position", "position", pos, "didYouMean", suggestion)
		return
	}
	slog.Warn("No players for position", "position", pos)
}

func knownPositions(players map[string]models.SleeperPlayer) []string {
	seen := map[string]bool{}
	for _, player := range players {
		for _, fp := range player.FantasyPositions {
			seen[strings.ToUpper(fp)] = true
		}
	}
	positions := make([]string, 0, len(seen))
	for p := range seen {
		positions = append(positions, p)
	}
	sort.Strings(positions)
	return positions
}

// suggestPosition picks the closest known position by Levenshtein
// similarity, requiring better than half the characters to line up.
func suggestPosition(pos string, known []string) string {
	best := ""
	bestScore := 0.5
	for _, candidate := range known {
		distance := fuzzy.LevenshteinDistance(strings.ToUpper(pos), candidate)
		maxLen := float64(max(len(pos), len(candidate)))
		if maxLen == 0 {
			continue
		}
		similarity := 1 - float64(distance)/maxLen
		if similarity > bestScore {
			bestScore = similarity
			best = candidate
		}
	}
	return best
}
