package models

import "time"

// SleeperPlayer is the subset of the Sleeper players/nfl entry we need for
// candidate selection.
type SleeperPlayer struct {
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Position         string   `json:"position"`
	Team             string   `json:"team"`
	FantasyPositions []string `json:"fantasy_positions"`
	Active           bool     `json:"active"`
}

// PlayerDirectory holds the full Sleeper player listing keyed by player id.
// It is loaded once per run and treated as immutable afterward.
type PlayerDirectory struct {
	Players     map[string]SleeperPlayer
	LastUpdated time.Time
}
