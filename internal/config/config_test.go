package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	cfg := &Config{Worker: Worker{
		BaseURL:  "https://proxy.example.workers.dev",
		LeagueID: "99",
		SWID:     "{SWID}",
		ESPNS2:   "s2",
	}}
	assert.NoError(t, cfg.Validate())

	missing := []func(*Config){
		func(c *Config) { c.Worker.BaseURL = "" },
		func(c *Config) { c.Worker.LeagueID = "" },
		func(c *Config) { c.Worker.SWID = "" },
		func(c *Config) { c.Worker.ESPNS2 = "" },
	}
	for _, blank := range missing {
		broken := *cfg
		blank(&broken)
		assert.Error(t, broken.Validate())
	}
}

func TestPositionList(t *testing.T) {
	cfg := &Config{Build: Build{Positions: " wr, rb ,QB,,te "}}
	assert.Equal(t, []string{"WR", "RB", "QB", "TE"}, cfg.PositionList())

	cfg.Build.Positions = ""
	assert.Empty(t, cfg.PositionList())
}

func TestRequestDelay(t *testing.T) {
	cfg := &Config{Sleeper: Sleeper{RequestDelayMS: 50}}
	assert.Equal(t, 50*time.Millisecond, cfg.RequestDelay())
}
