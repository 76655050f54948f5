package services

import (
	"context"
	"fmt"
	"strings"

	"sharppicks/internal/espn"
	"sharppicks/internal/models"
	"sharppicks/internal/odds"
	"sharppicks/internal/openai"
	"sharppicks/internal/pickcache"
)

// Human-readable bet type names used in prompts
var betTypeNames = map[string]string{
	"spread":    "Spread",
	"moneyline": "Moneyline",
	"overunder": "Over/Under",
	"1q":        "1st Quarter",
	"2q":        "2nd Quarter",
	"1h":        "1st Half",
	"3q":        "3rd Quarter",
	"4q":        "4th Quarter",
	"2h":        "2nd Half",
	"f5":        "First 5 Innings",
	"1p":        "1st Period",
	"2p":        "2nd Period",
	"3p":        "3rd Period",
}

const analystSystemPrompt = "You are an expert sports analyst with access to comprehensive real-world data. " +
	"Analyze games considering injuries, weather, travel, scheduling, team dynamics, and situational factors " +
	"to provide accurate, realistic betting picks with high Expected Value. Your analysis must be thorough and data-driven."

// PredictorService produces betting recommendations, preferring precomputed
// cached picks and falling back to live analysis
type PredictorService struct {
	ai            *openai.Client
	feed          *espn.Client
	resolver      *odds.Resolver
	store         *odds.Store
	cache         *pickcache.Cache
	lookaheadDays int
}

// NewPredictorService creates the predictor with its data sources
func NewPredictorService(ai *openai.Client, feed *espn.Client, store *odds.Store, cache *pickcache.Cache, lookaheadDays int) *PredictorService {
	return &PredictorService{
		ai:            ai,
		feed:          feed,
		resolver:      odds.NewResolver(store),
		store:         store,
		cache:         cache,
		lookaheadDays: lookaheadDays,
	}
}

// UpcomingGames lists scheduled games for a sport over the lookahead window
func (s *PredictorService) UpcomingGames(ctx context.Context, sport string) ([]espn.Event, error) {
	return s.feed.UpcomingGames(ctx, sport, s.lookaheadDays)
}

// TodaysGames lists games scheduled for today only
func (s *PredictorService) TodaysGames(ctx context.Context, sport string) ([]espn.Event, error) {
	return s.feed.GamesForDate(ctx, sport, timeNow())
}

// BestPick serves the current best expected-value pick for a sport. Cached
// analysis wins; only a cache miss triggers a live completion round trip.
func (s *PredictorService) BestPick(ctx context.Context, sport string) (*models.Recommendation, error) {
	if rec, err := s.cache.BestPick(sport, timeNow()); err == nil {
		return rec, nil
	}

	games, err := s.feed.UpcomingGames(ctx, sport, s.lookaheadDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming games: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("no upcoming %s games found", strings.ToUpper(sport))
	}

	raw, err := s.ai.Complete(ctx, analystSystemPrompt, s.slatePrompt(sport, games), 800)
	if err != nil {
		return nil, err
	}

	rec := ParseResponse(raw, games)
	if rec.Source == "" {
		rec.Source = "Live AI Analysis"
	}
	return &rec, nil
}

// AnalyzeGame analyzes one scheduled game for a specific bet type, embedding
// resolved odds and any expert annotation in the prompt
func (s *PredictorService) AnalyzeGame(ctx context.Context, event espn.Event, sport, betType string) (*models.Recommendation, error) {
	quote := s.resolver.Resolve(event, sport)

	raw, err := s.ai.Complete(ctx, analystSystemPrompt, s.gamePrompt(event, sport, betType, quote), 800)
	if err != nil {
		return nil, err
	}

	rec := ParseResponse(raw, []espn.Event{event})
	rec.BetType = betTypeName(betType)
	rec.Game = &event
	rec.Odds = &quote
	return &rec, nil
}

// GenerateReasoning produces standalone analyst reasoning for a pick being
// delivered to a user
func (s *PredictorService) GenerateReasoning(ctx context.Context, rec models.Recommendation, sport string) (string, error) {
	prompt := fmt.Sprintf(`Analyze this sports betting pick and provide detailed reasoning:

Game: %s
Pick: %s
Odds: %s
Sport: %s

Provide a professional analysis covering:
1. Why this is a strong pick
2. Key factors supporting this bet
3. Team/player context
4. Statistical edge
5. Risk assessment

Keep it concise (3-4 sentences) but informative. Sound like a professional sports analyst.`,
		valueOrNA(rec.BestEVPick), valueOrNA(rec.Pick), valueOrNA(rec.ExpectedValue), strings.ToUpper(sport))

	system := "You are a professional sports betting analyst. Provide clear, confident analysis without disclaimers or warnings."

	raw, err := s.ai.Complete(ctx, system, prompt, 300)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// slatePrompt asks for the single best expected-value pick across a slate
func (s *PredictorService) slatePrompt(sport string, games []espn.Event) string {
	var b strings.Builder
	for i, game := range games {
		fmt.Fprintf(&b, "Game %d: %s\n", i+1, game.Name)
		fmt.Fprintf(&b, "  Home: %s (%s)\n", game.HomeTeam.Name, game.HomeTeam.Record)
		fmt.Fprintf(&b, "  Away: %s (%s)\n", game.AwayTeam.Name, game.AwayTeam.Record)
		fmt.Fprintf(&b, "  Date: %s\n  Status: %s\n", game.Date, game.Status)
	}

	return fmt.Sprintf(`Analyze these upcoming %s games and identify the SINGLE BEST Expected Value pick:

%s
IMPORTANT GUIDELINES:
- Home teams are typically favored (they have negative spreads like -3.5)
- Away teams are typically underdogs (they have positive spreads like +3.5)
- Better records usually mean the team is favored
- Moneyline favorites are denoted with negative odds (e.g., -150)
- Moneyline underdogs are denoted with positive odds (e.g., +130)
- NEVER pick an underdog with a negative spread

Consider injuries, weather, travel and scheduling, team dynamics, and situational factors,
then identify the ONE pick with the HIGHEST Expected Value.

Provide your response in this EXACT format:

BEST EV PICK: [Game name]
PICK: [Your recommendation with realistic odds - Examples: "Chiefs -6.5 (-110)", "Bills +7.5 (+105)", "Under 47.5 (-105)", "Chiefs ML (-180)"]
CONFIDENCE: [60-95]%%
EXPECTED VALUE: [Percentage, e.g., +15.2%%]
REASONING: [2-3 sentences explaining why this has the best EV. Always remind users to verify current lines with their sportsbook.]

KEY FACTORS:
- [Injury impact, weather effect, or travel factor]
- [Specific matchup advantage or situational factor]
- [Statistical trend or team dynamic supporting the pick]

Be scientific and data-driven. Make sure your pick makes logical sense.`, strings.ToUpper(sport), b.String())
}

// gamePrompt asks for a bet-type-specific pick on one game, grounded on the
// resolved betting lines
func (s *PredictorService) gamePrompt(event espn.Event, sport, betType string, quote odds.Quote) string {
	betName := betTypeName(betType)

	expertBlock := "No expert pick available for this game."
	if pick, ok := s.store.ExpertFor(sport, event.Name); ok {
		expertBlock = formatExpertPick(pick)
	}

	return fmt.Sprintf(`Analyze this SPECIFIC %s game for %s betting using comprehensive real-world data analysis and EXPERT INSIGHTS.

GAME TO ANALYZE:
%s
Home: %s (%s)
Away: %s (%s)
Date: %s

CURRENT BETTING LINES:
- Spread: %s
- Moneyline: %s
- Total (O/U): %s

EXPERT PICK ANALYSIS:
%s

IMPORTANT: Use these betting lines when making your pick recommendation. Always verify current lines with your sportsbook before placing bets.

BET TYPE: %s

CRITICAL RULES:
- Use the CURRENT BETTING LINES above as reference
- Home teams with better records are FAVORITES (negative spreads like -6.5)
- Away teams with worse records are UNDERDOGS (positive spreads like +6.5)
- NEVER give an underdog a negative spread
- Consider how injuries, weather, and travel specifically impact this %s bet

Provide analysis in this EXACT format:

BEST EV PICK: %s
PICK: [Your %s recommendation - be specific and realistic]
CONFIDENCE: [70-92]%%
EXPECTED VALUE: [+8%% to +18%%]
REASONING: [2-3 sentences specifically about THIS game and why your %s pick has value]

KEY FACTORS:
- [Injury impact, weather effect, or travel factor affecting this game]
- [Specific matchup advantage or situational factor]
- [Statistical trend or team dynamic supporting your pick]

Make sure your pick makes sense for the teams involved and the bet type requested!`,
		strings.ToUpper(sport), betName,
		event.Name,
		event.HomeTeam.Name, event.HomeTeam.Record,
		event.AwayTeam.Name, event.AwayTeam.Record,
		event.Date,
		quote.Spread, quote.Moneyline, quote.Total,
		expertBlock,
		betName, betName,
		event.Name, betName, betName)
}

// formatExpertPick renders an expert annotation for prompt embedding
func formatExpertPick(pick odds.ExpertPick) string {
	factors := "No key factors listed"
	if len(pick.KeyFactors) > 0 {
		factors = strings.Join(pick.KeyFactors, ", ")
	}

	return fmt.Sprintf(`EXPERT RECOMMENDATION: %s
CONFIDENCE LEVEL: %s
EDGE PERCENTAGE: %s
VALUE RATING: %s
KEY FACTORS: %s
EXPERT REASONING: %s

Use this expert analysis to enhance your recommendation and reasoning.`,
		valueOrNA(pick.ExpertPick), valueOrNA(pick.ConfidenceLevel), valueOrNA(pick.EdgePercentage),
		valueOrNA(pick.ValueRating), factors, valueOrNA(pick.ExpertReasoning))
}

func betTypeName(betType string) string {
	if name, ok := betTypeNames[strings.ToLower(betType)]; ok {
		return name
	}
	return betType
}

func valueOrNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
