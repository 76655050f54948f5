package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCombinedOdds(t *testing.T) {
	legs := []ParlayLeg{
		{Odds: "+110"},
		{Odds: "+10%"},
	}

	// 2.1 * 1.1 = 2.31
	got := combinedOdds(legs)
	want := decimal.NewFromFloat(2.31)
	if !got.Round(4).Equal(want) {
		t.Errorf("combinedOdds = %s, want %s", got, want)
	}
}

func TestCombinedOddsFallbackForJunk(t *testing.T) {
	got := combinedOdds([]ParlayLeg{{Odds: "even"}, {Odds: ""}})
	// Both legs take the default 1.9 multiplier
	want := decimal.NewFromFloat(3.61)
	if !got.Round(4).Equal(want) {
		t.Errorf("combinedOdds = %s, want %s", got, want)
	}
}

func TestOverallConfidencePenalizesExtraLegs(t *testing.T) {
	legs := []ParlayLeg{
		{Confidence: 90},
		{Confidence: 88},
		{Confidence: 86},
	}

	// avg 88, minus 2 extra legs * 5 = 78
	confidence, high := overallConfidence(legs)
	if confidence != 78 {
		t.Errorf("expected 78, got %d", confidence)
	}
	if high != 3 {
		t.Errorf("expected 3 high-confidence legs, got %d", high)
	}
}

func TestOverallConfidenceClamped(t *testing.T) {
	low := []ParlayLeg{{Confidence: 60}, {Confidence: 60}, {Confidence: 60}, {Confidence: 60}}
	if confidence, _ := overallConfidence(low); confidence != 75 {
		t.Errorf("expected floor 75, got %d", confidence)
	}

	high := []ParlayLeg{{Confidence: 99}}
	if confidence, _ := overallConfidence(high); confidence != 95 {
		t.Errorf("expected ceiling 95, got %d", confidence)
	}
}

func TestRiskAndStakeTiers(t *testing.T) {
	tests := []struct {
		confidence int
		risk       string
		stake      string
	}{
		{90, "Low", "$75-$150"},
		{82, "Moderate", "$50-$100"},
		{76, "Higher", "$25-$50"},
	}

	for _, tt := range tests {
		risk, stake := riskAndStake(tt.confidence)
		if risk != tt.risk || stake != tt.stake {
			t.Errorf("confidence %d: got %s/%s, want %s/%s", tt.confidence, risk, stake, tt.risk, tt.stake)
		}
	}
}
