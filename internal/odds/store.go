package odds

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Sports with verified-odds exports
var exportSports = []string{"nfl", "nba", "mlb", "nhl", "cfb"}

// SpreadSide is one side of a verified spread with its public betting share
type SpreadSide struct {
	Team                    string `json:"team"`
	Line                    string `json:"line"`
	PublicBettingPercentage string `json:"public_betting_percentage"`
}

// VerifiedGame is one game entry from a verified-odds export document
type VerifiedGame struct {
	Matchup string `json:"matchup"`
	Spread  struct {
		Favorite SpreadSide `json:"favorite"`
		Underdog SpreadSide `json:"underdog"`
	} `json:"spread"`
	Moneyline string `json:"moneyline,omitempty"`
	Total     string `json:"total,omitempty"`
}

// ExpertPick is an annotated best bet from the sibling expert-picks document
type ExpertPick struct {
	Matchup         string   `json:"matchup"`
	ExpertPick      string   `json:"expert_pick"`
	ConfidenceLevel string   `json:"confidence_level"`
	EdgePercentage  string   `json:"edge_percentage"`
	ValueRating     string   `json:"value_rating"`
	KeyFactors      []string `json:"key_factors"`
	ExpertReasoning string   `json:"expert_reasoning"`
}

type exportDocument struct {
	Games []VerifiedGame `json:"games"`
}

type expertDocument struct {
	ExpertPicks []ExpertPick `json:"expert_picks"`
}

// Store holds the verified-odds exports, keyed by sport. It is reloadable:
// entries reflect the most recent export file per sport at the last Reload.
type Store struct {
	mu      sync.RWMutex
	dir     string
	games   map[string][]VerifiedGame
	experts map[string][]ExpertPick
}

// NewStore creates an empty store reading from dir
func NewStore(dir string) *Store {
	return &Store{
		dir:     dir,
		games:   make(map[string][]VerifiedGame),
		experts: make(map[string][]ExpertPick),
	}
}

// Reload re-reads the latest export documents from disk. Per-sport failures
// are logged and skipped so one bad file does not discard the other sports.
func (s *Store) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read odds directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "auto_") && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}

	games := make(map[string][]VerifiedGame)
	experts := make(map[string][]ExpertPick)

	for _, sport := range exportSports {
		if name := latestFile(names, fmt.Sprintf("auto_%s_odds_", sport), "expert_bets"); name != "" {
			var doc exportDocument
			if err := readJSON(filepath.Join(s.dir, name), &doc); err != nil {
				log.Printf("Failed to load %s odds export %s: %v", sport, name, err)
			} else {
				games[sport] = doc.Games
				log.Printf("Loaded %s: %d games with verified odds", strings.ToUpper(sport), len(doc.Games))
			}
		}

		if name := latestFile(names, fmt.Sprintf("auto_%s_expert_bets_", sport), ""); name != "" {
			var doc expertDocument
			if err := readJSON(filepath.Join(s.dir, name), &doc); err != nil {
				log.Printf("Failed to load %s expert picks %s: %v", sport, name, err)
			} else {
				experts[sport] = doc.ExpertPicks
				log.Printf("Loaded %s: %d expert best bets", strings.ToUpper(sport), len(doc.ExpertPicks))
			}
		}
	}

	s.mu.Lock()
	s.games = games
	s.experts = experts
	s.mu.Unlock()

	return nil
}

// GameFor finds the verified game matching an event name by fuzzy matchup
// containment. Returns false when no export covers the event.
func (s *Store) GameFor(sport, eventName string) (VerifiedGame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, game := range s.games[strings.ToLower(sport)] {
		if MatchesMatchup(eventName, game.Matchup) {
			return game, true
		}
	}
	return VerifiedGame{}, false
}

// ExpertFor finds the expert annotation matching an event name, if any
func (s *Store) ExpertFor(sport, eventName string) (ExpertPick, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pick := range s.experts[strings.ToLower(sport)] {
		if MatchesMatchup(eventName, pick.Matchup) {
			return pick, true
		}
	}
	return ExpertPick{}, false
}

// latestFile returns the lexically greatest name with the given prefix,
// excluding names containing the exclude marker. Export filenames embed a
// timestamp, so lexical order is chronological order.
func latestFile(names []string, prefix, exclude string) string {
	var matches []string
	for _, name := range names {
		if !strings.Contains(name, prefix) {
			continue
		}
		if exclude != "" && strings.Contains(name, exclude) {
			continue
		}
		matches = append(matches, name)
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[len(matches)-1]
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
