package odds

import (
	"strings"
)

// NormalizeMatchup case-folds a matchup name and rewrites the "at"/"@"
// separators to a neutral "vs" so feed and export spellings line up
func NormalizeMatchup(name string) string {
	cleaned := strings.ToLower(name)
	cleaned = strings.ReplaceAll(cleaned, " at ", " vs ")
	cleaned = strings.ReplaceAll(cleaned, "@", " vs ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// matchupTokens splits a normalized matchup into team-name tokens, dropping
// the separator itself
func matchupTokens(name string) []string {
	var tokens []string
	for _, token := range strings.Fields(NormalizeMatchup(name)) {
		if token == "vs" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// MatchesMatchup reports whether any token of the cleaned event name appears
// in the stored matchup string. Containment is substring-based so "Packers"
// matches "Green Bay Packers vs Chicago Bears".
func MatchesMatchup(eventName, matchup string) bool {
	stored := NormalizeMatchup(matchup)
	for _, token := range matchupTokens(eventName) {
		if strings.Contains(stored, token) {
			return true
		}
	}
	return false
}
