package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"sharppicks/internal/espn"
	"sharppicks/internal/odds"
)

// Recommendation is a fully-resolved betting pick. The parser guarantees that
// Pick, Confidence and ExpectedValue are always populated, falling back to
// defaults when the completion output omits them.
type Recommendation struct {
	BestEVPick    string      `json:"best_ev_pick"`
	Pick          string      `json:"pick"`
	BetType       string      `json:"bet_type,omitempty"`
	Confidence    int         `json:"confidence"` // integer percent, 0-100
	ExpectedValue string      `json:"expected_value"`
	Reasoning     string      `json:"reasoning"`
	KeyFactors    []string    `json:"key_factors"`
	GeneratedAt   time.Time   `json:"generated_at"`
	Source        string      `json:"source,omitempty"`
	Game          *espn.Event `json:"game_details,omitempty"`
	Odds          *odds.Quote `json:"odds,omitempty"`
}

// RecommendationList stores delivered picks as a JSON column
type RecommendationList []Recommendation

func (l RecommendationList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *RecommendationList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}
