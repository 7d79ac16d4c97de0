package score

import "github.com/veristream/veristream/internal/model"

// Classification thresholds. Both comparisons in Classify are strict: a
// confidence of exactly 80 is flagged, not verified, and exactly 40 is
// flagged, not debunked. Rewriting these with >= or <= changes the
// classification of the boundary values; the tests pin both.
const (
	verifiedAbove = 80
	debunkedBelow = 40
)

// Classify maps an aggregated confidence to a lifecycle status
func Classify(confidence int) model.Status {
	switch {
	case confidence > verifiedAbove:
		return model.StatusVerified
	case confidence < debunkedBelow:
		return model.StatusDebunked
	default:
		return model.StatusFlagged
	}
}
