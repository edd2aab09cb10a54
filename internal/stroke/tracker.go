package stroke

import "image"

// Recorder consumes pointer events and commits segments into an InkBuffer.
// Tracker and Smoother are the two recorders; a session feeds the same event
// stream to each of its active recorders.
type Recorder interface {
	Down(p image.Point)
	// Move returns true when a segment was committed.
	Move(p image.Point) bool
	Up()
	Ink() *InkBuffer
}

// Tracker records every pointer move while the pointer is pressed.
type Tracker struct {
	ink     *InkBuffer
	pressed bool
}

// NewTracker returns a tracker drawing into ink.
func NewTracker(ink *InkBuffer) *Tracker {
	return &Tracker{ink: ink}
}

// Down starts a stroke at p. The bounding box is kept across strokes.
func (t *Tracker) Down(p image.Point) {
	t.pressed = true
	t.ink.MoveTo(p)
}

// Move draws from the cursor to p if the pointer is pressed.
func (t *Tracker) Move(p image.Point) bool {
	if !t.pressed {
		return false
	}
	t.ink.LineTo(p)
	return true
}

// Up ends the stroke. Pointer-leave is handled the same way.
func (t *Tracker) Up() {
	t.pressed = false
}

// Pressed reports whether a stroke is in progress.
func (t *Tracker) Pressed() bool { return t.pressed }

// Ink implements Recorder.
func (t *Tracker) Ink() *InkBuffer { return t.ink }
