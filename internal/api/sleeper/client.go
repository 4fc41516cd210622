package sleeper

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Zelus7/fantasy-dvp-builder/internal/models"
)

// DefaultBaseURL is the public Sleeper API host.
const DefaultBaseURL = "https://api.sleeper.com"

// Config holds the Sleeper client settings. RequestDelay is the pause
// enforced between consecutive weekly-stats requests; zero disables
// throttling entirely, which tests rely on.
type Config struct {
	BaseURL      string
	RequestDelay time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		delay:      cfg.RequestDelay,
	}
}

// throttle pauses so at least the configured delay elapses between
// consecutive stats requests. It runs before every attempt, on success and
// failure paths alike, so error storms cannot hammer the provider. The mutex
// is held across the sleep so concurrent callers are paced as one stream,
// not just kept race-free.
func (c *Client) throttle() {
	if c.delay <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRequest.IsZero() {
		if elapsed := time.Since(c.lastRequest); elapsed < c.delay {
			time.Sleep(c.delay - elapsed)
		}
	}
	c.lastRequest = time.Now()
}

// Players downloads the full NFL player directory keyed by player id.
// A response that is not a JSON object is an error, never an empty result.
func (c *Client) Players() (map[string]models.SleeperPlayer, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/players/nfl", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var players map[string]models.SleeperPlayer
	if err := json.NewDecoder(resp.Body).Decode(&players); err != nil {
		return nil, fmt.Errorf("unexpected players response shape: %w", err)
	}

	return players, nil
}

// PlayerWeekStats fetches one player's raw stat record for one week.
// A nil record with a nil error means the provider has no data for that
// (player, week) pair: an empty body, a literal null, or a body that is not
// a JSON object.
func (c *Client) PlayerWeekStats(pid string, season, week int) (map[string]any, error) {
	c.throttle()

	url := fmt.Sprintf("%s/stats/nfl/player/%s?season=%d&season_type=regular&week=%d",
		c.baseURL, pid, season, week)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" || text == "null" {
		return nil, nil
	}

	var row any
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	record, ok := row.(map[string]any)
	if !ok {
		return nil, nil
	}

	return record, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")
}
