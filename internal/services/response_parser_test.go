package services

import (
	"testing"

	"sharppicks/internal/espn"
)

func testEvents() []espn.Event {
	return []espn.Event{
		{
			Name:      "Chicago Bears at Green Bay Packers",
			ShortName: "CHI @ GB",
			HomeTeam:  espn.Team{Name: "Green Bay Packers", Record: "9-4"},
			AwayTeam:  espn.Team{Name: "Chicago Bears", Record: "4-9"},
		},
		{
			Name:      "Miami Dolphins at Buffalo Bills",
			ShortName: "MIA @ BUF",
			HomeTeam:  espn.Team{Name: "Buffalo Bills", Record: "10-3"},
			AwayTeam:  espn.Team{Name: "Miami Dolphins", Record: "8-5"},
		},
	}
}

func TestParseResponseFullOutput(t *testing.T) {
	raw := `BEST EV PICK: Chicago Bears at Green Bay Packers
PICK: Packers -6.5 (-110)
CONFIDENCE: 82%
EXPECTED VALUE: +12.4%
REASONING: The Packers have dominated at home this season.
Their defense matches up well against the Bears offense.

KEY FACTORS:
- Home field advantage in cold weather
- Bears starting backup quarterback
- Line movement toward the home side`

	rec := ParseResponse(raw, testEvents())

	if rec.BestEVPick != "Chicago Bears at Green Bay Packers" {
		t.Errorf("unexpected best ev pick %q", rec.BestEVPick)
	}
	if rec.Pick != "Packers -6.5 (-110)" {
		t.Errorf("unexpected pick %q", rec.Pick)
	}
	if rec.Confidence != 82 {
		t.Errorf("expected confidence 82, got %d", rec.Confidence)
	}
	if rec.ExpectedValue != "+12.4%" {
		t.Errorf("unexpected expected value %q", rec.ExpectedValue)
	}
	if rec.Reasoning != "The Packers have dominated at home this season. Their defense matches up well against the Bears offense." {
		t.Errorf("continuation lines not joined: %q", rec.Reasoning)
	}
	if len(rec.KeyFactors) != 3 {
		t.Fatalf("expected 3 key factors, got %d", len(rec.KeyFactors))
	}
	if rec.KeyFactors[0] != "Home field advantage in cold weather" {
		t.Errorf("unexpected first factor %q", rec.KeyFactors[0])
	}
	if rec.Game == nil || rec.Game.HomeTeam.Name != "Green Bay Packers" {
		t.Error("expected game bound to the named event")
	}
}

func TestParseResponseBindsByShortName(t *testing.T) {
	raw := "BEST EV PICK: MIA @ BUF\nPICK: Bills -4.5\nCONFIDENCE: 78%\nEXPECTED VALUE: +9%\nREASONING: Solid spot."

	rec := ParseResponse(raw, testEvents())
	if rec.Game == nil || rec.Game.HomeTeam.Name != "Buffalo Bills" {
		t.Error("expected binding through short name")
	}
}

func TestParseResponseEmptyFallsBack(t *testing.T) {
	events := testEvents()
	rec := ParseResponse("", events)

	if rec.BestEVPick != events[0].Name {
		t.Errorf("expected first game as fallback, got %q", rec.BestEVPick)
	}
	if rec.Pick != "Green Bay Packers ML" {
		t.Errorf("expected home moneyline fallback, got %q", rec.Pick)
	}
	if rec.Confidence != 75 {
		t.Errorf("expected default confidence 75, got %d", rec.Confidence)
	}
	if rec.ExpectedValue != "+8.5%" {
		t.Errorf("unexpected fallback expected value %q", rec.ExpectedValue)
	}
	if len(rec.KeyFactors) != 4 {
		t.Errorf("expected canned key factors, got %d", len(rec.KeyFactors))
	}
}

func TestParseResponseMissingPickFallsBack(t *testing.T) {
	raw := "BEST EV PICK: Chicago Bears at Green Bay Packers\nCONFIDENCE: 90%"

	rec := ParseResponse(raw, testEvents())
	if rec.Pick != "Green Bay Packers ML" {
		t.Errorf("partial output should fall back, got pick %q", rec.Pick)
	}
}

func TestParseResponseNoGamesFallback(t *testing.T) {
	rec := ParseResponse("garbage", nil)
	if rec.BestEVPick != "No games available" {
		t.Errorf("unexpected empty-slate fallback %q", rec.BestEVPick)
	}
	if rec.Game != nil {
		t.Error("no game should be bound with an empty slate")
	}
}

func TestParseResponseJunkConfidence(t *testing.T) {
	raw := "BEST EV PICK: Chicago Bears at Green Bay Packers\nPICK: Packers ML\nCONFIDENCE: very high\nEXPECTED VALUE: +10%"

	rec := ParseResponse(raw, testEvents())
	if rec.Confidence != 75 {
		t.Errorf("junk confidence should default to 75, got %d", rec.Confidence)
	}
}

func TestParseResponseDefaultsExpectedValue(t *testing.T) {
	raw := `BEST EV PICK: Chicago Bears at Green Bay Packers
PICK: Packers -6.5 (-110)
CONFIDENCE: 82%
REASONING: Strong home side.`

	rec := ParseResponse(raw, testEvents())

	if rec.Pick != "Packers -6.5 (-110)" {
		t.Fatalf("unexpected pick %q", rec.Pick)
	}
	if rec.ExpectedValue != "+10%" {
		t.Errorf("expected default EV label, got %q", rec.ExpectedValue)
	}

	// A bare label must not clear the default either
	withEmptyLabel := raw + "\nEXPECTED VALUE:"
	rec = ParseResponse(withEmptyLabel, testEvents())
	if rec.ExpectedValue != "+10%" {
		t.Errorf("empty EV label should keep the default, got %q", rec.ExpectedValue)
	}
}
