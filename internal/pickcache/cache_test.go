package pickcache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEvictFinishedGraceWindow(t *testing.T) {
	now := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)
	cache := NewCache("")
	cache.Put("nfl", &SportPicks{
		Games: []CachedGame{
			{Matchup: "Old Game", GameTime: now.Add(-4 * time.Hour).Format(time.RFC3339)},
			{Matchup: "Recent Game", GameTime: now.Add(-2 * time.Hour).Format(time.RFC3339)},
			{Matchup: "Upcoming Game", GameTime: now.Add(1 * time.Hour).Format(time.RFC3339)},
		},
		TotalGames: 3,
	})

	removed := cache.EvictFinished(now)
	if removed != 1 {
		t.Fatalf("expected 1 eviction, got %d", removed)
	}

	picks, _ := cache.Get("nfl")
	if len(picks.Games) != 2 {
		t.Fatalf("expected 2 games left, got %d", len(picks.Games))
	}
	for _, game := range picks.Games {
		if game.Matchup == "Old Game" {
			t.Error("finished game survived eviction")
		}
	}
	if picks.TotalGames != 2 {
		t.Errorf("expected total games 2, got %d", picks.TotalGames)
	}
}

func TestEvictFinishedIdempotent(t *testing.T) {
	now := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)
	cache := NewCache("")
	cache.Put("nba", &SportPicks{
		Games: []CachedGame{
			{Matchup: "Done", GameTime: now.Add(-5 * time.Hour).Format(time.RFC3339)},
			{Matchup: "Live", GameTime: now.Add(-1 * time.Hour).Format(time.RFC3339)},
		},
	})

	if removed := cache.EvictFinished(now); removed != 1 {
		t.Fatalf("first sweep removed %d", removed)
	}
	if removed := cache.EvictFinished(now); removed != 0 {
		t.Fatalf("second sweep removed %d, want 0", removed)
	}
}

func TestEvictFinishedRetainsUnparseableTimes(t *testing.T) {
	now := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)
	cache := NewCache("")
	cache.Put("mlb", &SportPicks{
		Games: []CachedGame{
			{Matchup: "Garbled", GameTime: "TBD"},
			{Matchup: "Missing"},
		},
	})

	if removed := cache.EvictFinished(now); removed != 0 {
		t.Fatalf("eviction removed %d games with bad times, want 0", removed)
	}
	picks, _ := cache.Get("mlb")
	if len(picks.Games) != 2 {
		t.Fatalf("expected both games retained, got %d", len(picks.Games))
	}
}

func TestBestPickEnhancedArtifact(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	cache := NewCache("")
	cache.Put("nfl", &SportPicks{
		Games: []CachedGame{
			{
				Matchup:  "Chicago Bears vs Green Bay Packers",
				GameTime: now.Add(6 * time.Hour).Format(time.RFC3339),
				BestBet:  &BetDetail{Confidence: "82%", ValueRating: 8.5},
				Reasoning: &GameReasoning{
					WhyThisBet:     "Home team covers in division games",
					PrimaryFactors: []string{"Rest advantage", "Line movement"},
				},
			},
		},
		BestBets:    []BestBet{{Game: "Chicago Bears vs Green Bay Packers", Pick: "Packers -3.5"}},
		GeneratedAt: now.Format(time.RFC3339),
	})

	rec, err := cache.BestPick("nfl", now)
	if err != nil {
		t.Fatalf("BestPick failed: %v", err)
	}
	if rec.Pick != "Packers -3.5" {
		t.Errorf("unexpected pick %q", rec.Pick)
	}
	if rec.Confidence != 82 {
		t.Errorf("expected confidence 82, got %d", rec.Confidence)
	}
	if rec.ExpectedValue != "+8.5/10" {
		t.Errorf("unexpected expected value %q", rec.ExpectedValue)
	}
	if rec.Reasoning != "Home team covers in division games" {
		t.Errorf("unexpected reasoning %q", rec.Reasoning)
	}
	if len(rec.KeyFactors) != 2 {
		t.Errorf("expected 2 key factors, got %d", len(rec.KeyFactors))
	}
	if rec.Source != "Enhanced AI Analysis" {
		t.Errorf("unexpected source %q", rec.Source)
	}
}

func TestBestPickEdgeRankedFallback(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(6 * time.Hour).Format(time.RFC3339)
	cache := NewCache("")
	cache.Put("nba", &SportPicks{
		Games: []CachedGame{
			{Matchup: "Lakers vs Celtics", GameTime: future, SpreadPick: "Celtics -4.5", Edge: "3.2%", Probability: "61%"},
			{Matchup: "Heat vs Knicks", GameTime: future, SpreadPick: "Heat +2.5", Edge: "7.8%", Probability: "68%"},
		},
	})

	rec, err := cache.BestPick("nba", now)
	if err != nil {
		t.Fatalf("BestPick failed: %v", err)
	}
	if rec.BestEVPick != "Heat vs Knicks" {
		t.Errorf("expected highest-edge game, got %q", rec.BestEVPick)
	}
	if rec.Pick != "Spread: Heat +2.5" {
		t.Errorf("unexpected pick %q", rec.Pick)
	}
	if rec.Confidence != 68 {
		t.Errorf("expected confidence 68, got %d", rec.Confidence)
	}
	if rec.Source != "Pattern Matching" {
		t.Errorf("unexpected source %q", rec.Source)
	}
}

func TestBestPickNoCachedSport(t *testing.T) {
	cache := NewCache("")
	if _, err := cache.BestPick("nhl", time.Now()); !errors.Is(err, ErrNoPicks) {
		t.Fatalf("expected ErrNoPicks, got %v", err)
	}
}

func TestBestPickEvictsBeforeServing(t *testing.T) {
	now := time.Date(2026, 1, 15, 23, 0, 0, 0, time.UTC)
	cache := NewCache("")
	cache.Put("nfl", &SportPicks{
		Games: []CachedGame{
			{Matchup: "Stale Game", GameTime: now.Add(-8 * time.Hour).Format(time.RFC3339)},
		},
		BestBets: []BestBet{{Game: "Stale Game", Pick: "Home ML"}},
	})

	// The best-bets list still references the game, but serving should not
	// resurrect the evicted entry's detail
	rec, err := cache.BestPick("nfl", now)
	if err != nil {
		t.Fatalf("BestPick failed: %v", err)
	}
	if rec.Confidence != 75 {
		t.Errorf("expected fallback confidence for evicted detail, got %d", rec.Confidence)
	}
}

func TestReloadPicksLatestArtifact(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "nfl_picks_20260110_090000.json", SportPicks{
		Games: []CachedGame{{Matchup: "Old Slate", GameTime: time.Now().Add(2 * time.Hour).Format(time.RFC3339)}},
	})
	writeArtifact(t, dir, "nfl_picks_20260115_090000.json", SportPicks{
		Games: []CachedGame{{Matchup: "New Slate", GameTime: time.Now().Add(2 * time.Hour).Format(time.RFC3339)}},
	})

	cache := NewCache(dir)
	if err := cache.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	picks, ok := cache.Get("nfl")
	if !ok {
		t.Fatal("nfl picks missing after reload")
	}
	if len(picks.Games) != 1 || picks.Games[0].Matchup != "New Slate" {
		t.Errorf("expected latest artifact, got %+v", picks.Games)
	}
}

func TestReloadCollegeFootballAliases(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "college-football_picks_20260115.json", SportPicks{
		Games: []CachedGame{{Matchup: "Rivalry Game", GameTime: time.Now().Add(2 * time.Hour).Format(time.RFC3339)}},
	})

	cache := NewCache(dir)
	if err := cache.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	for _, sport := range []string{"ncaaf", "cfb"} {
		if _, ok := cache.Get(sport); !ok {
			t.Errorf("expected %s to resolve to college football artifact", sport)
		}
	}
}

func writeArtifact(t *testing.T, dir, name string, picks SportPicks) {
	t.Helper()
	data, err := json.Marshal(picks)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}
