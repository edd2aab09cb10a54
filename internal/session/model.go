package session

import (
	"context"

	"github.com/ironsheep/sketch-classifier/internal/classify"
)

// ChangeModel switches to mode. Ink is untouched. See classify.Manager.Switch
// for the channel semantics.
func (s *Session) ChangeModel(ctx context.Context, mode classify.Mode) <-chan error {
	return s.manager.Switch(ctx, mode)
}

// ToggleModel switches between the basic and advanced models.
func (s *Session) ToggleModel(ctx context.Context) <-chan error {
	return s.manager.Toggle(ctx)
}

// WaitReady blocks until the newest model load settles.
func (s *Session) WaitReady(ctx context.Context) error {
	return s.manager.Wait(ctx)
}

// Ready reports whether Evaluate can run the classifier.
func (s *Session) Ready() bool { return s.manager.Ready() }

// ModelState returns the classifier lifecycle state.
func (s *Session) ModelState() classify.State { return s.manager.State() }

// Mode returns the selected mode.
func (s *Session) Mode() classify.Mode { return s.manager.Mode() }

// Labels returns the selected mode's label set.
func (s *Session) Labels() classify.LabelSet { return s.manager.Labels() }
