package odds

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"sharppicks/internal/espn"
)

// Source tiers, best first
const (
	TierVerified    = 1 // verified third-party export with public betting data
	TierSynthesized = 2 // derived from team records
	TierEstimate    = 3 // fixed conservative default
)

// Quote is the odds figure set attached to a recommendation at resolution
// time. Exactly one quote is produced per resolve call and the tier is always
// set.
type Quote struct {
	Tier           int               `json:"tier"`
	Spread         string            `json:"spread"`
	Moneyline      string            `json:"moneyline"`
	Total          string            `json:"total"`
	SpreadPoints   decimal.Decimal   `json:"spread_points"` // positive = home favored
	PublicFavorite string            `json:"public_favorite,omitempty"`
	PublicBetting  map[string]string `json:"public_betting,omitempty"`
}

var winCountPattern = regexp.MustCompile(`^(\d+)-`)

// sportTotals holds per-sport base over/under figures and the per-win
// variance applied to them
var sportTotals = map[string]struct {
	base     float64
	variance float64
}{
	"nfl":   {47.5, 1.5},
	"ncaaf": {47.5, 1.5},
	"cfb":   {47.5, 1.5},
	"nba":   {220.5, 2.0},
	"ncaab": {220.5, 2.0},
	"mlb":   {8.5, 0.3},
	"nhl":   {6.5, 0.2},
}

const defaultTotal = 45.5

// Resolver produces an odds quote for a scheduled event, trying sources in
// fixed priority order. Every call returns a usable quote; internal parse
// failures demote to the next tier and are never propagated.
type Resolver struct {
	store *Store
}

// NewResolver creates a resolver backed by the verified-odds store
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the best available quote for the event
func (r *Resolver) Resolve(event espn.Event, sport string) Quote {
	if game, ok := r.store.GameFor(sport, event.Name); ok {
		if quote, ok := verifiedQuote(game, event); ok {
			return quote
		}
	}

	if quote, ok := synthesizeFromRecords(event, sport); ok {
		return quote
	}

	return estimateQuote(event, sport)
}

// verifiedQuote formats a tier-1 quote from a verified export entry
func verifiedQuote(game VerifiedGame, event espn.Event) (Quote, bool) {
	favorite := game.Spread.Favorite
	underdog := game.Spread.Underdog
	if favorite.Team == "" || favorite.Line == "" {
		return Quote{}, false
	}

	quote := Quote{
		Tier: TierVerified,
		Spread: fmt.Sprintf("%s %s (Public: %s), %s %s (Public: %s)",
			favorite.Team, favorite.Line, favorite.PublicBettingPercentage,
			underdog.Team, underdog.Line, underdog.PublicBettingPercentage),
		Moneyline: valueOrNA(game.Moneyline),
		Total:     valueOrNA(game.Total),
		PublicBetting: map[string]string{
			"favorite": favorite.PublicBettingPercentage,
			"underdog": underdog.PublicBettingPercentage,
		},
	}

	// The public favorite is whichever side draws over half the tickets
	if pct, err := parsePercent(favorite.PublicBettingPercentage); err == nil {
		if pct > 50 {
			quote.PublicFavorite = favorite.Team
		} else {
			quote.PublicFavorite = underdog.Team
		}
	}

	if line, err := decimal.NewFromString(strings.TrimSpace(favorite.Line)); err == nil {
		points := line.Abs()
		if !MatchesMatchup(event.HomeTeam.Name, favorite.Team) {
			points = points.Neg()
		}
		quote.SpreadPoints = points
	}

	return quote, true
}

// synthesizeFromRecords derives a tier-2 quote from each side's win count
func synthesizeFromRecords(event espn.Event, sport string) (Quote, bool) {
	homeWins, okHome := parseWins(event.HomeTeam.Record)
	awayWins, okAway := parseWins(event.AwayTeam.Record)
	if !okHome || !okAway {
		return Quote{}, false
	}

	winDiff := homeWins - awayWins

	// Each win of differential is worth 1.5 points, plus home field
	spread := decimal.NewFromInt(int64(winDiff)).
		Mul(decimal.NewFromFloat(1.5)).
		Add(decimal.NewFromFloat(2.5))
	spread = clampSpread(spread)

	homeML, awayML := moneylineFromSpread(spread)

	totals, ok := sportTotals[strings.ToLower(sport)]
	if !ok {
		totals.base = defaultTotal
	}
	total := decimal.NewFromFloat(totals.base).
		Add(decimal.NewFromInt(int64(abs(winDiff))).Mul(decimal.NewFromFloat(totals.variance)))

	return Quote{
		Tier:         TierSynthesized,
		Spread:       formatSpread(event, spread),
		Moneyline:    fmt.Sprintf("%s %+d, %s %+d", event.HomeTeam.Name, homeML, event.AwayTeam.Name, awayML),
		Total:        "O/U " + total.StringFixed(1),
		SpreadPoints: spread,
	}, true
}

// estimateQuote is the tier-3 default: a three point home favorite at
// standard juice. This tier never fails.
func estimateQuote(event espn.Event, sport string) Quote {
	totals, ok := sportTotals[strings.ToLower(sport)]
	if !ok {
		totals.base = defaultTotal
	}

	spread := decimal.NewFromInt(3)
	return Quote{
		Tier:         TierEstimate,
		Spread:       formatSpread(event, spread),
		Moneyline:    fmt.Sprintf("%s -110, %s +100", event.HomeTeam.Name, event.AwayTeam.Name),
		Total:        "O/U " + decimal.NewFromFloat(totals.base).StringFixed(1),
		SpreadPoints: spread,
	}
}

// moneylineFromSpread derives home/away moneylines proportional to the line
func moneylineFromSpread(spread decimal.Decimal) (int, int) {
	points, _ := spread.Abs().Float64()
	switch {
	case points >= 7:
		return -(180 + int(points*20)), 150 + int(points*15)
	case points >= 3:
		return -(140 + int(points*15)), 120 + int(points*10)
	default:
		return -110, 100
	}
}

// formatSpread renders a signed home line as "<favorite> -<points>"
func formatSpread(event espn.Event, spread decimal.Decimal) string {
	if spread.Sign() >= 0 {
		return fmt.Sprintf("%s -%s", event.HomeTeam.Name, spread.Abs().String())
	}
	return fmt.Sprintf("%s -%s", event.AwayTeam.Name, spread.Abs().String())
}

// clampSpread caps a synthesized line at ±14 points
func clampSpread(spread decimal.Decimal) decimal.Decimal {
	limit := decimal.NewFromInt(14)
	if spread.GreaterThan(limit) {
		return limit
	}
	if spread.LessThan(limit.Neg()) {
		return limit.Neg()
	}
	return spread
}

// parseWins extracts the leading win count from a "W-L" shaped record
func parseWins(record string) (int, bool) {
	match := winCountPattern.FindStringSubmatch(strings.TrimSpace(record))
	if match == nil {
		return 0, false
	}
	wins, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return wins, true
}

func parsePercent(value string) (int, error) {
	return strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(value), "%"))
}

func valueOrNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
