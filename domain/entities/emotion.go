package entities

import (
	"fmt"
	"math"

	"github.com/Tagaingne/dream-synthesizer/domain"
)

// sharpeningFactor is applied inside the exponent before normalization.
// It pushes the dominant emotion toward a higher relative weight than a
// plain softmax would give it. Tunable constant, not derived from data.
const sharpeningFactor = 10.0

// EmotionScores holds raw per-label model outputs. Values may be any
// finite real number, including negatives (logits, confidence deltas).
// The label set is open: whatever labels the classifier emits.
type EmotionScores map[string]float64

// EmotionDistribution is a discrete probability distribution over emotion
// labels. After Normalize, every value lies in (0, 1] and the values sum
// to 1 within floating-point tolerance.
type EmotionDistribution map[string]float64

// Normalize converts raw scores into a fresh probability distribution
// using a sharpened softmax: exp(k*v) / sum(exp(k*v)), k = sharpeningFactor.
// Every output is strictly positive regardless of input sign. An empty
// mapping is a precondition violation.
func (s EmotionScores) Normalize() (EmotionDistribution, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty emotion score mapping", domain.ErrInvalidInput)
	}

	exps := make(map[string]float64, len(s))
	var total float64
	for label, v := range s {
		e := math.Exp(sharpeningFactor * v)
		exps[label] = e
		total += e
	}

	dist := make(EmotionDistribution, len(s))
	for label, e := range exps {
		dist[label] = e / total
	}
	return dist, nil
}

// Sum returns the total weight of the distribution.
func (d EmotionDistribution) Sum() float64 {
	var total float64
	for _, v := range d {
		total += v
	}
	return total
}

// Dominant returns the label carrying the most weight, or "" when the
// distribution is empty.
func (d EmotionDistribution) Dominant() string {
	var best string
	max := math.Inf(-1)
	for label, v := range d {
		if v > max {
			best, max = label, v
		}
	}
	return best
}
