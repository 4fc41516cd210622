package models

// DefenseTotals accumulates fantasy points allowed per opponent team
// abbreviation, scoped to one (position, season, week range, scoring mode)
// combination. Only strictly positive, opponent-attributed rows are added,
// so totals are a lower bound rather than a complete count.
type DefenseTotals map[string]float64

// AggregateCounters summarizes one position's aggregation pass.
type AggregateCounters struct {
	CallsOK          int
	CallsErr         int
	CallsNull        int
	RowsWithPoints   int
	RowsWithOpponent int
	PlayersUsed      int
}

// RankedDefense is one row of the published DvP table.
type RankedDefense struct {
	Rank          int     `json:"rank"`
	Team          string  `json:"team"`
	PointsAllowed float64 `json:"pointsAllowed"`
}

// DVPReport is the document uploaded to the Worker KV cache. Immutable once
// built.
type DVPReport struct {
	Position    string          `json:"position"`
	Season      int             `json:"season"`
	Weeks       []int           `json:"weeks"`
	Through     int             `json:"through"`
	Scoring     string          `json:"scoring"`
	Source      string          `json:"source"`
	GeneratedAt string          `json:"generatedAt"`
	Data        []RankedDefense `json:"data"`
}
