package classify

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"github.com/ironsheep/sketch-classifier/internal/imaging"
	"github.com/ironsheep/sketch-classifier/internal/log"
)

// Evaluation is a scored classifier run.
type Evaluation struct {
	Result     Result      `json:"result"`
	Mode       Mode        `json:"mode"`
	Candidates []Candidate `json:"candidates,omitempty"`
	Scores     []float64   `json:"scores,omitempty"`
}

// Predict resizes img to the model's input resolution, runs the classifier
// and checks the score vector against the model's label set.
func Predict(ctx context.Context, m Model, img image.Image) ([]float64, error) {
	input, err := imaging.ToTensor(img, m.Spec.Resolution)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build classifier input")
	}

	scores, err := m.Classifier.Predict(ctx, input)
	if err != nil {
		return nil, errors.Wrapf(err, "%s classifier", m.Spec.Mode)
	}

	if len(scores) != len(m.Spec.Labels) {
		return nil, errors.Wrapf(ErrScoreMismatch, "%s classifier returned %d scores for %d labels",
			m.Spec.Mode, len(scores), len(m.Spec.Labels))
	}
	return scores, nil
}

// Evaluate runs Predict and scores the result.
func Evaluate(ctx context.Context, m Model, img image.Image) (Evaluation, error) {
	scores, err := Predict(ctx, m, img)
	if err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{
		Result:     Score(scores, m.Spec.Labels),
		Mode:       m.Spec.Mode,
		Candidates: Breakdown(scores, m.Spec.Labels),
		Scores:     scores,
	}
	for _, c := range ev.Candidates {
		log.Trace.Printf("%s: %v  share: %.3f", c.Label, c.Score, c.Share)
	}
	return ev, nil
}
