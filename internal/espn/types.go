package espn

// Team is one participant in a scheduled matchup
type Team struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Logo      string `json:"logo,omitempty"`
	Record    string `json:"record"` // "W-L" shaped summary, "N/A" when missing
}

// Event is a scheduled game from the scoreboard feed. Events are owned by the
// feed and immutable once fetched.
type Event struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Sport     string `json:"sport"`
	HomeTeam  Team   `json:"home_team"`
	AwayTeam  Team   `json:"away_team"`
}

// scoreboard mirrors the subset of the ESPN scoreboard document we consume
type scoreboard struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Date      string `json:"date"`
	Status    struct {
		Type struct {
			Description string `json:"description"`
			Completed   bool   `json:"completed"`
		} `json:"type"`
	} `json:"status"`
	Competitions []struct {
		Competitors []struct {
			HomeAway string `json:"homeAway"`
			Team     struct {
				DisplayName  string `json:"displayName"`
				Abbreviation string `json:"abbreviation"`
				Logo         string `json:"logo"`
			} `json:"team"`
			Records []struct {
				Summary string `json:"summary"`
			} `json:"records"`
		} `json:"competitors"`
	} `json:"competitions"`
}
