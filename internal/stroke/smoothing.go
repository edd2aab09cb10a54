package stroke

import "image"

// DefaultStrokeLength is the smoothing threshold in pixels.
const DefaultStrokeLength = 15

// Smoother re-samples the pointer path into its own InkBuffer, committing a
// segment only once the pointer is at least StrokeLength away from the last
// committed point. Shorter movements are not drawn; they merge into the next
// segment that crosses the threshold. A short stroke may therefore commit
// nothing at all.
type Smoother struct {
	ink          *InkBuffer
	strokeLength float64
	pressed      bool
}

// NewSmoother returns a smoothing recorder. A non-positive strokeLength
// falls back to DefaultStrokeLength.
func NewSmoother(ink *InkBuffer, strokeLength float64) *Smoother {
	s := &Smoother{ink: ink}
	s.SetStrokeLength(strokeLength)
	return s
}

// SetStrokeLength changes the commit threshold.
func (s *Smoother) SetStrokeLength(v float64) {
	if v <= 0 {
		v = DefaultStrokeLength
	}
	s.strokeLength = v
}

// StrokeLength returns the commit threshold.
func (s *Smoother) StrokeLength() float64 { return s.strokeLength }

// Down starts a stroke; p becomes the last committed point.
func (s *Smoother) Down(p image.Point) {
	s.pressed = true
	s.ink.MoveTo(p)
}

// Move commits a segment to p when it is far enough from the last
// committed point.
func (s *Smoother) Move(p image.Point) bool {
	if !s.pressed || !ShouldCommit(s.ink.Cursor(), p, s.strokeLength) {
		return false
	}
	s.ink.LineTo(p)
	return true
}

// Up ends the stroke.
func (s *Smoother) Up() {
	s.pressed = false
}

// Ink implements Recorder.
func (s *Smoother) Ink() *InkBuffer { return s.ink }
