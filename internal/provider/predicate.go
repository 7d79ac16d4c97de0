package provider

import "strings"

// RatingPredicate decides whether a textual rating counts as positive
// verification. Injected at construction so the vocabulary can be replaced
// without touching the clients.
type RatingPredicate func(rating string) bool

// positiveTokens is the controlled rating vocabulary for corroboration
var positiveTokens = []string{"true", "correct"}

// DefaultRatingPredicate reports whether a rating corroborates the claim.
// The match is a case-insensitive substring check over a two-token
// vocabulary, so compound ratings such as "Half True" also match. Known to
// be imprecise; any other rating is treated as neutral.
func DefaultRatingPredicate(rating string) bool {
	lowered := strings.ToLower(rating)
	for _, token := range positiveTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}
