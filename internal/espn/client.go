package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// timeNow is swapped by tests that pin the lookahead window
var timeNow = time.Now

// Per-sport scoreboard endpoints
var scoreboardURLs = map[string]string{
	"nfl":   "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard",
	"nba":   "https://site.api.espn.com/apis/site/v2/sports/basketball/nba/scoreboard",
	"mlb":   "https://site.api.espn.com/apis/site/v2/sports/baseball/mlb/scoreboard",
	"nhl":   "https://site.api.espn.com/apis/site/v2/sports/hockey/nhl/scoreboard",
	"ncaaf": "https://site.api.espn.com/apis/site/v2/sports/football/college-football/scoreboard",
	"ncaab": "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball/scoreboard",
}

// Client fetches scheduled games from the public scoreboard feed
type Client struct {
	httpClient *http.Client
	baseURLs   map[string]string
}

// NewClient creates a scoreboard client with a bounded request timeout
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURLs: scoreboardURLs,
	}
}

// SupportedSport reports whether a scoreboard endpoint exists for the sport
func SupportedSport(sport string) bool {
	_, ok := scoreboardURLs[strings.ToLower(sport)]
	return ok
}

// GamesForDate fetches the scoreboard for a single date and returns the
// events that have not finished yet
func (c *Client) GamesForDate(ctx context.Context, sport string, date time.Time) ([]Event, error) {
	baseURL, ok := c.baseURLs[strings.ToLower(sport)]
	if !ok {
		baseURL = c.baseURLs["nfl"]
	}
	url := fmt.Sprintf("%s?dates=%s", baseURL, date.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scoreboard API error: %d - %s", resp.StatusCode, string(body))
	}

	var board scoreboard
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard: %w", err)
	}

	events := make([]Event, 0, len(board.Events))
	for _, raw := range board.Events {
		if raw.Status.Type.Completed {
			continue
		}
		event, err := convertEvent(raw, sport)
		if err != nil {
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// UpcomingGames fetches non-completed games for today through days-1 ahead,
// deduplicated by event id
func (c *Client) UpcomingGames(ctx context.Context, sport string, days int) ([]Event, error) {
	if days < 1 {
		days = 1
	}

	seen := make(map[string]bool)
	var all []Event

	for offset := 0; offset < days; offset++ {
		date := timeNow().AddDate(0, 0, offset)
		events, err := c.GamesForDate(ctx, sport, date)
		if err != nil {
			// Skip this date, later dates may still work
			continue
		}
		for _, event := range events {
			if seen[event.ID] {
				continue
			}
			seen[event.ID] = true
			all = append(all, event)
		}
	}

	return all, nil
}

// convertEvent maps a raw scoreboard event into our Event shape
func convertEvent(raw scoreboardEvent, sport string) (Event, error) {
	if len(raw.Competitions) == 0 || len(raw.Competitions[0].Competitors) < 2 {
		return Event{}, fmt.Errorf("event %s has no competitors", raw.ID)
	}

	event := Event{
		ID:        raw.ID,
		Name:      raw.Name,
		ShortName: raw.ShortName,
		Date:      raw.Date,
		Status:    raw.Status.Type.Description,
		Sport:     strings.ToUpper(sport),
	}

	for _, competitor := range raw.Competitions[0].Competitors {
		team := Team{
			Name:      competitor.Team.DisplayName,
			ShortName: competitor.Team.Abbreviation,
			Logo:      competitor.Team.Logo,
			Record:    "N/A",
		}
		if len(competitor.Records) > 0 && competitor.Records[0].Summary != "" {
			team.Record = competitor.Records[0].Summary
		}

		if competitor.HomeAway == "away" {
			event.AwayTeam = team
		} else {
			event.HomeTeam = team
		}
	}

	return event, nil
}
