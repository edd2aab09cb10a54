package classify

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Result is the outcome of scoring one evaluation.
type Result struct {
	Label             string `json:"label"`
	ConfidencePercent int    `json:"confidence_percent"`
	Recognized        bool   `json:"recognized"`
}

// NotRecognized is returned when there is no ink or no positive score.
var NotRecognized = Result{}

// String formats the result for display.
func (r Result) String() string {
	if !r.Recognized {
		return "Not recognised"
	}
	return fmt.Sprintf("%s  %d%%", r.Label, r.ConfidencePercent)
}

// Score picks the highest-scoring label and its relative confidence.
//
// Confidence is the winning score divided by the sum of all strictly
// positive scores, as a rounded percentage. Non-positive scores are treated
// as no evidence and left out of the denominator. This is a relative
// measure, not a softmax probability. Ties go to the lowest index. If no
// score is positive the result is NotRecognized.
//
// scores and labels must have the same length; a mismatch is a programming
// error and panics.
func Score(scores []float64, labels LabelSet) Result {
	if len(scores) != len(labels) {
		panic(fmt.Sprintf("classify: %d scores for %d labels", len(scores), len(labels)))
	}
	if len(scores) == 0 {
		return NotRecognized
	}

	positiveSum := sumPositive(scores)
	if positiveSum == 0 {
		return NotRecognized
	}

	idx := floats.MaxIdx(scores)
	return Result{
		Label:             labels[idx],
		ConfidencePercent: int(math.Round(scores[idx] * 100 / positiveSum)),
		Recognized:        true,
	}
}

// Candidate is one label's share of the positive score mass.
type Candidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Share float64 `json:"share"`
}

// Breakdown lists every label with a positive score, highest first, with
// its share of the positive sum.
func Breakdown(scores []float64, labels LabelSet) []Candidate {
	positiveSum := sumPositive(scores)
	if positiveSum == 0 {
		return nil
	}

	var out []Candidate
	for i, s := range scores {
		if s > 0 && i < len(labels) {
			out = append(out, Candidate{Label: labels[i], Score: s, Share: s / positiveSum})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func sumPositive(scores []float64) float64 {
	var sum float64
	for _, s := range scores {
		if s > 0 {
			sum += s
		}
	}
	return sum
}
