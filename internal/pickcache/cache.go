package pickcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"sharppicks/internal/models"
)

// GraceWindow is how long after its scheduled start a game's cached
// recommendation survives before eviction treats the game as finished
const GraceWindow = 3 * time.Hour

// ErrNoPicks means no generation-run artifact covers the sport; callers fall
// back to live analysis
var ErrNoPicks = errors.New("no cached picks for sport")

// File-name sport aliases used by the offline generation job
var fileSports = map[string]string{
	"nfl":   "nfl",
	"nba":   "nba",
	"mlb":   "mlb",
	"nhl":   "nhl",
	"ncaaf": "college-football",
	"cfb":   "college-football",
}

// BestBet is a ranked entry from the generation run's best-bets list
type BestBet struct {
	Game string `json:"game"`
	Pick string `json:"pick"`
}

// BetDetail carries per-game confidence and value figures
type BetDetail struct {
	Confidence  string  `json:"confidence"`
	ValueRating float64 `json:"value_rating"`
}

// GameReasoning is the generation run's explanation block
type GameReasoning struct {
	WhyThisBet     string   `json:"why_this_bet"`
	PrimaryFactors []string `json:"primary_factors"`
}

// CachedGame is one game entry from a processed-picks artifact. Enhanced
// artifacts populate BestBet/Reasoning; simple-formatter artifacts populate
// the per-market pick fields instead.
type CachedGame struct {
	Matchup       string                 `json:"matchup"`
	GameTime      string                 `json:"game_time"`
	BestBet       *BetDetail             `json:"best_bet,omitempty"`
	Reasoning     *GameReasoning         `json:"reasoning,omitempty"`
	GameContext   map[string]interface{} `json:"game_context,omitempty"`
	PublicBetting map[string]interface{} `json:"public_betting,omitempty"`
	SpreadPick    string                 `json:"spread_pick,omitempty"`
	SpreadOdds    string                 `json:"spread_odds,omitempty"`
	TotalPick     string                 `json:"total_pick,omitempty"`
	TotalOdds     string                 `json:"total_odds,omitempty"`
	MoneylinePick string                 `json:"moneyline_pick,omitempty"`
	MoneylineOdds string                 `json:"moneyline_odds,omitempty"`
	Probability   string                 `json:"probability,omitempty"`
	Edge          string                 `json:"edge,omitempty"`
}

// SportPicks is the full per-sport artifact
type SportPicks struct {
	Games       []CachedGame `json:"games"`
	BestBets    []BestBet    `json:"best_bets"`
	TotalGames  int          `json:"total_games"`
	GeneratedAt string       `json:"generated_at"`
	DataSource  string       `json:"data_source"`
	LastUpdated string       `json:"last_updated,omitempty"`
}

// Cache holds per-sport recommendation collections populated from the
// batch-generated artifacts. A single mutex serializes writers (reload and
// eviction); reads take the shared lock.
type Cache struct {
	mu    sync.RWMutex
	dir   string
	picks map[string]*SportPicks
}

// NewCache creates an empty cache reading artifacts from dir
func NewCache(dir string) *Cache {
	return &Cache{
		dir:   dir,
		picks: make(map[string]*SportPicks),
	}
}

// Reload re-reads the latest generation-run artifact per sport
func (c *Cache) Reload() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read picks directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	picks := make(map[string]*SportPicks)
	for sport, fileSport := range fileSports {
		name := latestWithPrefix(names, fileSport+"_picks_")
		if name == "" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			log.Printf("Failed to read picks artifact %s: %v", name, err)
			continue
		}

		var sportPicks SportPicks
		if err := json.Unmarshal(data, &sportPicks); err != nil {
			log.Printf("Failed to parse picks artifact %s: %v", name, err)
			continue
		}

		picks[sport] = &sportPicks
		log.Printf("Loaded %s: %d games, %d best bets", strings.ToUpper(sport), len(sportPicks.Games), len(sportPicks.BestBets))
	}

	c.mu.Lock()
	c.picks = picks
	c.mu.Unlock()

	// Drop anything that finished while the artifact sat on disk
	c.EvictFinished(time.Now())
	return nil
}

// EvictFinished removes cached games whose start time is more than the grace
// window in the past and returns how many were removed. Games whose time
// cannot be parsed are retained.
func (c *Cache) EvictFinished(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for sport, sportPicks := range c.picks {
		kept := sportPicks.Games[:0]
		for _, game := range sportPicks.Games {
			if gameFinished(game.GameTime, now) {
				continue
			}
			kept = append(kept, game)
		}

		if len(kept) < len(sportPicks.Games) {
			removed += len(sportPicks.Games) - len(kept)
			sportPicks.Games = kept
			sportPicks.TotalGames = len(kept)
			sportPicks.LastUpdated = now.Format(time.RFC3339)
			log.Printf("Evicted finished games from %s cache, %d left", strings.ToUpper(sport), len(kept))
		}
	}

	return removed
}

// Get returns the cached collection for a sport
func (c *Cache) Get(sport string) (*SportPicks, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sportPicks, ok := c.picks[strings.ToLower(sport)]
	return sportPicks, ok
}

// Put replaces a sport's collection. Used by tests and the reload path.
func (c *Cache) Put(sport string, picks *SportPicks) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.picks[strings.ToLower(sport)] = picks
}

// BestPick serves the top recommendation for a sport, evicting finished games
// first. Enhanced artifacts are preferred; simple-formatter artifacts fall
// back to edge ranking. ErrNoPicks is returned when the cache has nothing,
// so the caller can generate a pick live.
func (c *Cache) BestPick(sport string, now time.Time) (*models.Recommendation, error) {
	c.EvictFinished(now)

	c.mu.RLock()
	defer c.mu.RUnlock()

	sportPicks, ok := c.picks[strings.ToLower(sport)]
	if !ok {
		return nil, ErrNoPicks
	}

	if len(sportPicks.BestBets) > 0 {
		return enhancedBestPick(sportPicks), nil
	}
	if len(sportPicks.Games) > 0 {
		return edgeRankedPick(sportPicks.Games), nil
	}

	return nil, ErrNoPicks
}

// enhancedBestPick builds a recommendation from the top best-bets entry
func enhancedBestPick(sportPicks *SportPicks) *models.Recommendation {
	top := sportPicks.BestBets[0]

	rec := &models.Recommendation{
		BestEVPick:    top.Game,
		Pick:          top.Pick,
		Confidence:    75,
		ExpectedValue: "+8/10",
		Reasoning:     "Enhanced analysis",
		Source:        "Enhanced AI Analysis",
		GeneratedAt:   parsedOrNow(sportPicks.GeneratedAt),
	}

	for _, game := range sportPicks.Games {
		if game.Matchup != top.Game {
			continue
		}
		if game.BestBet != nil {
			rec.Confidence = parseConfidence(game.BestBet.Confidence, 75)
			rec.ExpectedValue = fmt.Sprintf("+%g/10", game.BestBet.ValueRating)
		}
		if game.Reasoning != nil {
			rec.Reasoning = game.Reasoning.WhyThisBet
			rec.KeyFactors = game.Reasoning.PrimaryFactors
		}
		break
	}

	return rec
}

// edgeRankedPick selects the game with the highest edge from a
// simple-formatter artifact
func edgeRankedPick(games []CachedGame) *models.Recommendation {
	best := games[0]
	bestEdge := 0.0
	for _, game := range games {
		edge, err := strconv.ParseFloat(strings.TrimSuffix(game.Edge, "%"), 64)
		if err == nil && edge > bestEdge {
			bestEdge = edge
			best = game
		}
	}

	pick := "View details for picks"
	switch {
	case best.SpreadPick != "":
		pick = "Spread: " + best.SpreadPick
	case best.TotalPick != "":
		pick = "Total: " + best.TotalPick
	case best.MoneylinePick != "":
		pick = "Moneyline: " + best.MoneylinePick
	}

	ev := "N/A Edge"
	if best.Edge != "" {
		ev = best.Edge + " Edge"
	}

	return &models.Recommendation{
		BestEVPick:    best.Matchup,
		Pick:          pick,
		Confidence:    parseConfidence(best.Probability, 75),
		ExpectedValue: ev,
		Reasoning:     fmt.Sprintf("Model shows %s probability with %s edge", valueOr(best.Probability, "N/A"), valueOr(best.Edge, "N/A")),
		Source:        "Pattern Matching",
		GeneratedAt:   time.Now(),
	}
}

// gameFinished reports whether a game started more than the grace window ago.
// Unparseable times fail open: the game is kept.
func gameFinished(gameTime string, now time.Time) bool {
	if gameTime == "" {
		return false
	}
	started, err := parseGameTime(gameTime)
	if err != nil {
		return false
	}
	return now.Sub(started) > GraceWindow
}

func parseGameTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized game time %q", value)
}

// parseConfidence extracts the leading integer of a percentage-like string
func parseConfidence(value string, fallback int) int {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), "%")
	if n, err := strconv.Atoi(trimmed); err == nil && n >= 0 && n <= 100 {
		return n
	}
	return fallback
}

func parsedOrNow(value string) time.Time {
	if parsed, err := parseGameTime(value); err == nil {
		return parsed
	}
	return time.Now()
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func latestWithPrefix(sorted []string, prefix string) string {
	latest := ""
	for _, name := range sorted {
		if strings.HasPrefix(name, prefix) {
			latest = name
		}
	}
	return latest
}
