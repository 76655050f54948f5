package espn

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func scoreboardEventJSON(id, name string, completed bool) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": %q,
		"shortName": "AWY @ HME",
		"date": "2026-01-18T18:00Z",
		"status": {"type": {"description": "Scheduled", "completed": %t}},
		"competitions": [{
			"competitors": [
				{
					"homeAway": "home",
					"team": {"displayName": "Home Team", "abbreviation": "HME"},
					"records": [{"summary": "9-4"}]
				},
				{
					"homeAway": "away",
					"team": {"displayName": "Away Team", "abbreviation": "AWY"},
					"records": [{"summary": "4-9"}]
				}
			]
		}]
	}`, id, name, completed)
}

func testClient(url string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURLs:   map[string]string{"nfl": url},
	}
}

func TestGamesForDateSkipsCompleted(t *testing.T) {
	body := fmt.Sprintf(`{"events": [%s, %s]}`,
		scoreboardEventJSON("1", "Away Team at Home Team", false),
		scoreboardEventJSON("2", "Finished Game", true))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dates") == "" {
			t.Error("expected dates query parameter")
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	events, err := testClient(server.URL).GamesForDate(context.Background(), "nfl", time.Now())
	if err != nil {
		t.Fatalf("GamesForDate failed: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	event := events[0]
	if event.HomeTeam.Name != "Home Team" || event.HomeTeam.Record != "9-4" {
		t.Errorf("unexpected home team: %+v", event.HomeTeam)
	}
	if event.AwayTeam.Name != "Away Team" || event.AwayTeam.Record != "4-9" {
		t.Errorf("unexpected away team: %+v", event.AwayTeam)
	}
	if event.Sport != "NFL" {
		t.Errorf("expected sport tag NFL, got %q", event.Sport)
	}
}

func TestGamesForDateMissingRecords(t *testing.T) {
	body := `{"events": [{
		"id": "3",
		"name": "Away Team at Home Team",
		"shortName": "AWY @ HME",
		"date": "2026-01-18T18:00Z",
		"status": {"type": {"description": "Scheduled", "completed": false}},
		"competitions": [{
			"competitors": [
				{"homeAway": "home", "team": {"displayName": "Home Team", "abbreviation": "HME"}},
				{"homeAway": "away", "team": {"displayName": "Away Team", "abbreviation": "AWY"}}
			]
		}]
	}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	events, err := testClient(server.URL).GamesForDate(context.Background(), "nfl", time.Now())
	if err != nil {
		t.Fatalf("GamesForDate failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].HomeTeam.Record != "N/A" {
		t.Errorf("expected N/A record placeholder, got %q", events[0].HomeTeam.Record)
	}
}

func TestUpcomingGamesDeduplicates(t *testing.T) {
	body := fmt.Sprintf(`{"events": [%s]}`,
		scoreboardEventJSON("42", "Away Team at Home Team", false))

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(body))
	}))
	defer server.Close()

	events, err := testClient(server.URL).UpcomingGames(context.Background(), "nfl", 3)
	if err != nil {
		t.Fatalf("UpcomingGames failed: %v", err)
	}

	if calls != 3 {
		t.Errorf("expected 3 scoreboard fetches, got %d", calls)
	}
	if len(events) != 1 {
		t.Errorf("same event on every date should appear once, got %d", len(events))
	}
}

func TestUpcomingGamesSkipsFailedDates(t *testing.T) {
	body := fmt.Sprintf(`{"events": [%s]}`,
		scoreboardEventJSON("7", "Away Team at Home Team", false))

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	events, err := testClient(server.URL).UpcomingGames(context.Background(), "nfl", 2)
	if err != nil {
		t.Fatalf("UpcomingGames failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("later dates should survive an earlier failure, got %d events", len(events))
	}
}

func TestSupportedSport(t *testing.T) {
	for _, sport := range []string{"nfl", "NBA", "mlb", "nhl", "ncaaf", "ncaab"} {
		if !SupportedSport(sport) {
			t.Errorf("expected %s to be supported", sport)
		}
	}
	if SupportedSport("cricket") {
		t.Error("cricket should not be supported")
	}
}

func TestUpcomingGamesWindowIsPinnable(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time {
		return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	}
	defer func() { timeNow = restore }()

	var dates []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dates = append(dates, r.URL.Query().Get("dates"))
		w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	if _, err := testClient(server.URL).UpcomingGames(context.Background(), "nfl", 3); err != nil {
		t.Fatalf("UpcomingGames failed: %v", err)
	}

	want := []string{"20260115", "20260116", "20260117"}
	if len(dates) != len(want) {
		t.Fatalf("expected %d fetches, got %d", len(want), len(dates))
	}
	for i, date := range want {
		if dates[i] != date {
			t.Errorf("fetch %d: expected date %s, got %s", i, date, dates[i])
		}
	}
}
