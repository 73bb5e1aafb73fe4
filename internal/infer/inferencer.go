package infer

// Evidence aggregation: the first matching pattern for a candidate sets the
// score floor; every additional matching pattern for the same candidate adds
// 0.2× its own base confidence. Scores saturate at maxAggregateconfidence so
// consensus across cheap heuristics is rewarded without ever reaching
// certainty.
const (
	extraMatchWeight       = 0.2
	maxAggregateConfidence = 0.98
	softDefaultConfidence  = 0.3
)

// inferField runs a registry against the text and resolves the best
// candidate. Ties are broken by registration order. When nothing matches it
// returns the optional default at the soft-default confidence, or a pending
// value when no default is given.
func inferField[T ~string](text string, registry []pattern, def *T) FieldValue[T] {
	scores := make(map[string]float64)
	firstSeen := make(map[string]int)
	order := 0

	for _, p := range registry {
		if !p.re.MatchString(text) {
			continue
		}
		if _, seen := scores[p.value]; !seen {
			scores[p.value] = p.confidence
			firstSeen[p.value] = order
			order++
			continue
		}
		s := scores[p.value] + extraMatchWeight*p.confidence
		if s > maxAggregateConfidence {
			s = maxAggregateConfidence
		}
		scores[p.value] = s
	}

	if len(scores) == 0 {
		if def != nil {
			return FieldValue[T]{Value: def, Confidence: softDefaultConfidence, Source: SourcePending}
		}
		return Pending[T]()
	}

	var winner string
	best := -1.0
	for value, score := range scores {
		if score > best || (score == best && firstSeen[value] < firstSeen[winner]) {
			winner = value
			best = score
		}
	}
	return NewFieldValue(T(winner), best)
}
