package scoring

import (
	"fmt"
	"strconv"
)

// Mode selects the per-reception bonus applied by Compute.
type Mode string

const (
	ModeStandard Mode = "std"
	ModeHalfPPR  Mode = "half"
	ModePPR      Mode = "ppr"
)

// ParseMode validates a scoring mode string from the CLI or environment.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStandard, ModeHalfPPR, ModePPR:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid scoring mode %q (want std, half or ppr)", s)
}

// ReceptionBonus returns the points awarded per reception under the mode.
func (m Mode) ReceptionBonus() float64 {
	switch m {
	case ModePPR:
		return 1.0
	case ModeHalfPPR:
		return 0.5
	default:
		return 0.0
	}
}

// PointAliases are the provider fields that carry a precomputed fantasy point
// total. When one of these is present and numeric, its value is returned
// as-is and nothing is recomputed. Order matters: first match wins.
var PointAliases = []string{
	"pts_half_ppr",
	"fpts_half_ppr",
	"pts_hppr",
	"pts_ppr",
	"pts_std",
	"fpts",
}

// Ordered alias lists for each stat component, first match wins. The provider
// has shipped several spellings of the same counters over time.
var (
	ReceptionAliases    = []string{"rec", "receptions"}
	ReceivingYdAliases  = []string{"rec_yd", "receiving_yards", "receiving_yds"}
	ReceivingTDAliases  = []string{"rec_td", "receiving_tds"}
	RushingYdAliases    = []string{"rush_yd", "rushing_yards", "rushing_yds"}
	RushingTDAliases    = []string{"rush_td", "rushing_tds"}
	PassingYdAliases    = []string{"pass_yd", "passing_yards", "passing_yds"}
	PassingTDAliases    = []string{"pass_td", "passing_tds"}
	InterceptionAliases = []string{"interceptions", "ints"}
	FumbleLostAliases   = []string{"fum_lost", "fumbles_lost", "fum"}
)

// Compute maps one raw per-game stats record to a fantasy point value.
// It never fails: absent or non-numeric fields count as zero.
//
// The formula must stay exactly as published rankings depend on it:
// recBonus + recYd/10 + 6*recTD + rushYd/10 + 6*rushTD + passYd/25 +
// 4*passTD - 2*interceptions - 2*fumblesLost.
func Compute(stats map[string]any, mode Mode) float64 {
	if pts, ok := directPoints(stats); ok {
		return pts
	}

	rec := lookup(stats, ReceptionAliases)
	recYd := lookup(stats, ReceivingYdAliases)
	recTD := lookup(stats, ReceivingTDAliases)
	rushYd := lookup(stats, RushingYdAliases)
	rushTD := lookup(stats, RushingTDAliases)
	passYd := lookup(stats, PassingYdAliases)
	passTD := lookup(stats, PassingTDAliases)
	ints := lookup(stats, InterceptionAliases)
	fumLost := lookup(stats, FumbleLostAliases)

	return mode.ReceptionBonus()*rec +
		recYd/10 + 6*recTD +
		rushYd/10 + 6*rushTD +
		passYd/25 + 4*passTD -
		2*ints - 2*fumLost
}

// directPoints checks the precomputed point-total aliases. Only genuinely
// numeric values short-circuit; a string "12.3" does not.
func directPoints(stats map[string]any) (float64, bool) {
	for _, key := range PointAliases {
		switch v := stats[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		}
	}
	return 0, false
}

func lookup(stats map[string]any, aliases []string) float64 {
	for _, key := range aliases {
		v, ok := stats[key]
		if !ok || v == nil {
			continue
		}
		return toFloat(v)
	}
	return 0
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
