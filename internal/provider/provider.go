package provider

import (
	"context"
)

// Kind distinguishes how a provider expresses its judgment
type Kind string

const (
	KindNumeric     Kind = "numeric"     // Continuous 0..1 score, normalized to integer percent
	KindQualitative Kind = "qualitative" // Discrete verdict mapped through a rating predicate
)

// Result is one provider's contribution for a single claim. It is ephemeral:
// the aggregator converts each succeeded result into exactly one fact-check
// entry and discards the rest.
type Result struct {
	Source       string `json:"source"`
	Kind         Kind   `json:"kind"`
	Score        int    `json:"score"` // Normalized 0-100; meaningless unless Succeeded
	Explanation  string `json:"explanation"`
	Corroborated bool   `json:"corroborated,omitempty"` // Qualitative only: independent review rated the claim true/correct
	Succeeded    bool   `json:"succeeded"`
	ErrorDetail  string `json:"errorDetail,omitempty"`
}

// Provider is implemented by every verification service adapter.
//
// Check never returns an error: transport failures, malformed payloads and
// missing credentials all come back as a failed Result, so one provider can
// never abort a processing pass.
type Provider interface {
	Name() string
	Kind() Kind
	Check(ctx context.Context, text string) Result
}

// failure builds a failed Result carrying no score and no evidence
func failure(name string, kind Kind, detail string) Result {
	return Result{
		Source:      name,
		Kind:        kind,
		Succeeded:   false,
		ErrorDetail: detail,
	}
}
