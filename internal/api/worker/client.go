package worker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Zelus7/fantasy-dvp-builder/internal/models"
)

// ErrWeekUnresolved signals that the /currentweek response matched none of
// the accepted shapes.
var ErrWeekUnresolved = errors.New("could not determine current week")

// Config holds the Worker connection and ESPN credential settings.
type Config struct {
	BaseURL  string
	LeagueID string
	SWID     string
	ESPNS2   string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.SWID = NormalizeSWID(cfg.SWID)
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cfg:        cfg,
	}
}

// NormalizeSWID ensures the SWID cookie value carries the surrounding braces
// the Worker expects.
func NormalizeSWID(swid string) string {
	if swid == "" || strings.HasPrefix(swid, "{") {
		return swid
	}
	return "{" + strings.Trim(swid, "{}") + "}"
}

// currentWeekResponse covers the three shapes the Worker may forward: a
// trimmed {"currentWeek": N}, a raw ESPN scoreboard with a status object, or
// a bare scoringPeriodId.
type currentWeekResponse struct {
	CurrentWeek int `json:"currentWeek"`
	Status      struct {
		CurrentMatchupPeriod int `json:"currentMatchupPeriod"`
		LatestScoringPeriod  int `json:"latestScoringPeriod"`
	} `json:"status"`
	ScoringPeriodID int `json:"scoringPeriodId"`
}

// CurrentWeek queries the Worker's /currentweek endpoint and derives the
// current fantasy week, trying the accepted response shapes in priority
// order.
func (c *Client) CurrentWeek(season int) (int, error) {
	req, err := http.NewRequest(http.MethodGet, c.cfg.BaseURL+"/currentweek", nil)
	if err != nil {
		return 0, fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	q.Set("season", strconv.Itoa(season))
	q.Set("leagueId", c.cfg.LeagueID)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("X-ESPN-S2", c.cfg.ESPNS2)
	req.Header.Set("X-ESPN-SWID", c.cfg.SWID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var week currentWeekResponse
	if err := json.NewDecoder(resp.Body).Decode(&week); err != nil {
		return 0, fmt.Errorf("error decoding response: %w", err)
	}

	switch {
	case week.CurrentWeek > 0:
		return week.CurrentWeek, nil
	case week.Status.CurrentMatchupPeriod > 0:
		return week.Status.CurrentMatchupPeriod, nil
	case week.Status.LatestScoringPeriod > 0:
		return week.Status.LatestScoringPeriod, nil
	case week.ScoringPeriodID > 0:
		return week.ScoringPeriodID, nil
	}

	return 0, fmt.Errorf("resolving week from /currentweek response: %w", ErrWeekUnresolved)
}

// PublishDVP uploads one finished report to the Worker's KV cache and
// returns the decoded acknowledgment body. A non-success status fails with
// the store's response attached: the decoded JSON body when possible, a
// truncated raw excerpt otherwise.
func (c *Client) PublishDVP(report *models.DVPReport) (map[string]any, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("error marshalling report: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+"/dvp/cache_put", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	var ack map[string]any
	if err := json.Unmarshal(body, &ack); err != nil {
		ack = map[string]any{"raw": truncate(string(body), 200)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cache_put failed with status %d: %v", resp.StatusCode, ack)
	}

	return ack, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
