package session

import (
	"context"
	"image"

	"github.com/ironsheep/sketch-classifier/internal/classify"
	"github.com/ironsheep/sketch-classifier/internal/imaging"
	"github.com/ironsheep/sketch-classifier/internal/log"
)

// frame is the evaluation input captured under the session lock.
type frame struct {
	img      image.Image
	smoothed bool
	cropped  bool
}

// capture copies the active buffer's pixels. ok is false when there is no
// ink to evaluate.
//
// Emptiness is decided on the raw box: no raw ink means nothing was drawn.
// With smoothing on, the smoothed box must be non-empty as well; a short
// stroke that never crossed the threshold has no smoothed ink and the raw
// buffer is not used in its place.
func (s *Session) capture() (f frame, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracker.Ink().Box().Empty() {
		return frame{}, false, nil
	}

	ink := s.tracker.Ink()
	if s.opts.SmoothingOn {
		ink = s.smoother.Ink()
	}
	box := ink.Box()
	if box.Empty() {
		return frame{}, false, nil
	}

	surface := ink.Surface()
	f.smoothed = s.opts.SmoothingOn

	if !s.opts.RescalerOn {
		f.img = surface.ReadRect(surface.Bounds())
		return f, true, nil
	}

	region := box.Rect().Intersect(surface.Bounds())
	if region.Empty() {
		return frame{}, false, nil
	}

	img, err := imaging.NormalizeFrame(surface.Snapshot(), region, s.background)
	if err != nil {
		return frame{}, false, err
	}
	f.img = img
	f.cropped = true
	return f, true, nil
}

// Evaluate classifies the current ink.
//
// With no ink it returns classify.NotRecognized without invoking the
// classifier. Otherwise it returns classify.ErrNotReady unless a model is
// loaded for the selected mode. The classifier and label set come from one
// Model snapshot, so a concurrent mode switch cannot pair scores with the
// wrong labels.
func (s *Session) Evaluate(ctx context.Context) (classify.Evaluation, error) {
	f, ok, err := s.capture()
	if err != nil {
		return classify.Evaluation{}, err
	}
	if !ok {
		log.Trace.Printf("evaluate: no ink")
		return classify.Evaluation{Result: classify.NotRecognized, Mode: s.manager.Mode()}, nil
	}

	model, err := s.manager.Active()
	if err != nil {
		return classify.Evaluation{}, err
	}

	ev, err := classify.Evaluate(ctx, model, f.img)
	if err != nil {
		return classify.Evaluation{}, err
	}
	log.Info.Printf("evaluate (%s): %s", model.Spec.Mode, ev.Result)
	return ev, nil
}

// ClassifyImage runs an arbitrary image through the active model without
// cropping. It is used for sketches saved to disk.
func (s *Session) ClassifyImage(ctx context.Context, img image.Image) (classify.Evaluation, error) {
	model, err := s.manager.Active()
	if err != nil {
		return classify.Evaluation{}, err
	}
	return classify.Evaluate(ctx, model, img)
}

// Export encodes the image Evaluate would classify. Without ink the whole
// active canvas is exported. If maxSize is positive the image is shrunk to
// fit within it.
func (s *Session) Export(maxSize int) (*imaging.ExportResult, error) {
	f, ok, err := s.capture()
	if err != nil {
		return nil, err
	}
	if !ok {
		s.mu.Lock()
		ink := s.tracker.Ink()
		if s.opts.SmoothingOn {
			ink = s.smoother.Ink()
		}
		f = frame{
			img:      ink.Surface().ReadRect(ink.Surface().Bounds()),
			smoothed: s.opts.SmoothingOn,
		}
		s.mu.Unlock()
	}

	return imaging.Export(f.img, imaging.ExportFilename(f.smoothed, f.cropped), maxSize)
}
