// Package session ties the stroke recorders, the frame normalizer and the
// classifier manager into one drawing session.
//
// Pointer events are applied synchronously under the session lock. Model
// switches run in the background on the classify.Manager and never touch
// ink state.
package session

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/ironsheep/sketch-classifier/internal/canvas"
	"github.com/ironsheep/sketch-classifier/internal/classify"
	"github.com/ironsheep/sketch-classifier/internal/config"
	"github.com/ironsheep/sketch-classifier/internal/log"
	"github.com/ironsheep/sketch-classifier/internal/stroke"
)

// State is the drawing state of a session.
type State int

const (
	// Idle means no ink has been tracked since the last clear.
	Idle State = iota
	// Drawing means the pointer is pressed.
	Drawing
	// IdleWithInk means the pointer is up and ink is available to evaluate.
	IdleWithInk
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case IdleWithInk:
		return "idle_with_ink"
	default:
		return "unknown"
	}
}

// Options are the runtime toggles of the pipeline.
type Options struct {
	// StrokeLength is the smoothing commit threshold in pixels.
	StrokeLength float64 `json:"stroke_length"`
	// RescalerOn crops evaluation input to a square frame around the ink.
	RescalerOn bool `json:"rescaler_on"`
	// SmoothingOn feeds the smoother and evaluates its buffer instead of
	// the raw one.
	SmoothingOn bool `json:"smoothing_on"`
}

// DefaultOptions returns a 15px stroke length with cropping on and
// smoothing off.
func DefaultOptions() Options {
	return Options{
		StrokeLength: stroke.DefaultStrokeLength,
		RescalerOn:   true,
		SmoothingOn:  false,
	}
}

// Session is one drawing surface pair with its classifier.
type Session struct {
	manager *classify.Manager

	mu         sync.Mutex
	opts       Options
	background color.Color
	rawCanvas  *canvas.Canvas
	smoCanvas  *canvas.Canvas
	tracker    *stroke.Tracker
	smoother   *stroke.Smoother
}

// New creates a session with two blank canvases. No model is loaded; call
// ChangeModel to start one.
func New(opts Options, canvasOpts canvas.Options, manager *classify.Manager) *Session {
	raw := canvas.New(canvasOpts)
	smo := canvas.New(canvasOpts)

	return &Session{
		manager:    manager,
		opts:       opts,
		background: raw.Background(),
		rawCanvas:  raw,
		smoCanvas:  smo,
		tracker:    stroke.NewTracker(stroke.NewInkBuffer(raw)),
		smoother:   stroke.NewSmoother(stroke.NewInkBuffer(smo), opts.StrokeLength),
	}
}

// NewFromConfig builds a session from cfg and starts loading the configured
// mode's model with loader.
func NewFromConfig(ctx context.Context, cfg config.Config, loader classify.Loader) (*Session, <-chan error) {
	opts := Options{
		StrokeLength: cfg.StrokeLength,
		RescalerOn:   cfg.RescalerOn,
		SmoothingOn:  cfg.SmoothingOn,
	}
	s := New(opts, cfg.CanvasOptions(), classify.NewManager(loader, cfg.Catalog()))
	return s, s.ChangeModel(ctx, cfg.StartMode())
}

// PointerDown starts a stroke at p.
func (s *Session) PointerDown(p image.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Down(p)
	s.smoother.Down(p)
}

// PointerMove extends the current stroke to p. It is a no-op while the
// pointer is up.
func (s *Session) PointerMove(p image.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Move(p)
	if s.opts.SmoothingOn {
		s.smoother.Move(p)
	}
}

// PointerUp ends the current stroke.
func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

// PointerLeave ends the current stroke, exactly like PointerUp.
func (s *Session) PointerLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

func (s *Session) release() {
	s.tracker.Up()
	s.smoother.Up()
}

// State reports the drawing state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.tracker.Pressed():
		return Drawing
	case !s.tracker.Ink().Box().Empty():
		return IdleWithInk
	default:
		return Idle
	}
}

// Clear blanks both canvases and resets both bounding boxes. Any stroke in
// progress ends. Model state is untouched.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.release()
	s.tracker.Ink().Reset()
	s.smoother.Ink().Reset()
	log.Trace.Printf("session cleared")
}

// Options returns the current toggles.
func (s *Session) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Configure replaces the toggles. Ink already drawn is kept.
func (s *Session) Configure(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.smoother.SetStrokeLength(opts.StrokeLength)
	opts.StrokeLength = s.smoother.StrokeLength()
	s.opts = opts
	log.Trace.Printf("session options: stroke_length=%v rescaler=%v smoothing=%v",
		opts.StrokeLength, opts.RescalerOn, opts.SmoothingOn)
}

// Boxes returns the raw and smoothed bounding boxes.
func (s *Session) Boxes() (raw, smoothed stroke.BoundingBox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Ink().Box(), s.smoother.Ink().Box()
}

// Segments returns the number of raw and smoothed segments since the last
// clear.
func (s *Session) Segments() (raw, smoothed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Ink().Segments(), s.smoother.Ink().Segments()
}

// Close releases the canvases and the loaded model.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.manager.Close()
	if cerr := s.rawCanvas.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := s.smoCanvas.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
