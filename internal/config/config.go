package config

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Worker   Worker
	Sleeper  Sleeper
	Build    Build
	Telegram Telegram
}

// Worker holds the cache-store connection and the ESPN credentials the
// Worker forwards when resolving the current week.
type Worker struct {
	BaseURL  string `envconfig:"WORKER_URL"`
	LeagueID string `envconfig:"LEAGUE_ID"`
	SWID     string `envconfig:"SWID"`
	ESPNS2   string `envconfig:"ESPN_S2"`
}

type Sleeper struct {
	BaseURL        string `envconfig:"SLEEPER_URL"`
	RequestDelayMS int    `envconfig:"REQUEST_DELAY_MS" default:"50"`
}

type Build struct {
	Scoring          string `envconfig:"SCORING" default:"half"`
	Season           int    `envconfig:"SEASON"`
	Through          int    `envconfig:"THROUGH"`
	Positions        string `envconfig:"POSITIONS" default:"WR,RB,QB,TE"`
	MaxPlayersPerPos int    `envconfig:"MAX_PLAYERS_PER_POS"`
	Cron             string `envconfig:"CRON"`
}

type Telegram struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate runs after CLI flags have been merged on top of the environment,
// which is why the struct tags don't mark anything required.
func (c *Config) Validate() error {
	if c.Worker.BaseURL == "" {
		return errors.New("worker base URL is required (--worker-url or WORKER_URL)")
	}
	if c.Worker.LeagueID == "" {
		return errors.New("league id is required (--league-id or LEAGUE_ID)")
	}
	if c.Worker.SWID == "" {
		return errors.New("SWID cookie value is required (--swid or SWID)")
	}
	if c.Worker.ESPNS2 == "" {
		return errors.New("espn_s2 cookie value is required (--s2 or ESPN_S2)")
	}
	return nil
}

// PositionList splits the configured comma-separated positions, trimmed and
// uppercased, empty entries dropped.
func (c *Config) PositionList() []string {
	var positions []string
	for _, p := range strings.Split(c.Build.Positions, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			positions = append(positions, p)
		}
	}
	return positions
}

// RequestDelay converts the configured millisecond delay into a duration.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.Sleeper.RequestDelayMS) * time.Millisecond
}
