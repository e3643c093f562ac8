package recommend

import "context"

// Narrated is a Recommendation decorated with free-text commentary.
// The commentary elaborates on the reason code; it never replaces it.
type Narrated struct {
	Recommendation
	Commentary string
}

// Narrator attaches prose to an already-ranked recommendation list. A
// narrator must not reorder, drop, or substitute entries; callers verify
// the returned list with SameSelection and fall back to the plain list
// on any mismatch.
type Narrator interface {
	Narrate(ctx context.Context, recs []Recommendation) ([]Narrated, error)
}

// NoopNarrator returns the input list with empty commentary.
type NoopNarrator struct{}

// Narrate implements Narrator.
func (NoopNarrator) Narrate(_ context.Context, recs []Recommendation) ([]Narrated, error) {
	out := make([]Narrated, len(recs))
	for i, r := range recs {
		out[i] = Narrated{Recommendation: r}
	}
	return out, nil
}

// SameSelection reports whether narrated carries exactly the same
// problem ids in the same order as recs.
func SameSelection(recs []Recommendation, narrated []Narrated) bool {
	if len(recs) != len(narrated) {
		return false
	}
	for i := range recs {
		if recs[i].ProblemID != narrated[i].ProblemID {
			return false
		}
	}
	return true
}
