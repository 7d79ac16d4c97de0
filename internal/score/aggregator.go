package score

import (
	"github.com/veristream/veristream/internal/model"
	"github.com/veristream/veristream/internal/provider"
)

// corroborationFloor is the minimum aggregated confidence once any
// independent review corroborates the claim. A floor, not an average:
// corroboration is not diluted by a lower numeric score.
const corroborationFloor = 80

// Aggregation is the combined outcome of one scoring pass
type Aggregation struct {
	Confidence int
	Entries    []model.FactCheckEntry
}

// Aggregator combines provider results into a single confidence value and
// the fact-check entries to persist. Pure: no I/O, no shared state.
type Aggregator struct{}

// NewAggregator creates a new aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate merges the results of one pass.
//
// Results must be in provider invocation order; entry order follows it, so
// repeated passes over identical inputs produce identical output. Failed
// results contribute no score and no entry. The base confidence is the first
// succeeded numeric result (0 when that provider failed); corroboration from
// any succeeded qualitative result raises it to at least corroborationFloor.
func (a *Aggregator) Aggregate(claimID uint64, results []provider.Result) Aggregation {
	base := 0
	for _, r := range results {
		if r.Succeeded && r.Kind == provider.KindNumeric {
			base = r.Score
			break
		}
	}

	corroborated := false
	for _, r := range results {
		if r.Succeeded && r.Kind == provider.KindQualitative && r.Corroborated {
			corroborated = true
			break
		}
	}

	confidence := base
	if corroborated && confidence < corroborationFloor {
		confidence = corroborationFloor
	}

	var entries []model.FactCheckEntry
	for _, r := range results {
		if !r.Succeeded {
			continue
		}
		entries = append(entries, model.FactCheckEntry{
			ClaimID:            claimID,
			VerificationSource: r.Source,
			Explanation:        r.Explanation,
			ConfidenceScore:    r.Score,
		})
	}

	return Aggregation{Confidence: confidence, Entries: entries}
}
