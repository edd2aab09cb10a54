package stroke

import (
	"image"

	"github.com/ironsheep/sketch-classifier/internal/canvas"
)

// InkBuffer couples a pixel surface with the bounding box of the ink drawn on
// it and the cursor the next segment starts from.
type InkBuffer struct {
	surface  canvas.Surface
	box      BoundingBox
	cursor   image.Point
	segments int
}

// NewInkBuffer wraps a surface. The surface is filled and the box is empty.
func NewInkBuffer(s canvas.Surface) *InkBuffer {
	b := &InkBuffer{surface: s}
	b.Reset()
	return b
}

// Reset clears the surface and returns the box to its sentinel.
func (b *InkBuffer) Reset() {
	bounds := b.surface.Bounds()
	b.surface.Fill()
	b.box = EmptyBox(bounds.Dx(), bounds.Dy())
	b.segments = 0
}

// MoveTo places the cursor without drawing.
func (b *InkBuffer) MoveTo(p image.Point) {
	b.cursor = p
}

// LineTo draws a segment from the cursor to p, expands the box to include p
// and advances the cursor.
func (b *InkBuffer) LineTo(p image.Point) {
	b.surface.DrawSegment(b.cursor, p)
	b.box = b.box.Include(p)
	b.cursor = p
	b.segments++
}

// Box returns the current bounding box.
func (b *InkBuffer) Box() BoundingBox { return b.box }

// Cursor returns the point the next segment will start from.
func (b *InkBuffer) Cursor() image.Point { return b.cursor }

// Segments returns the number of segments drawn since the last Reset.
func (b *InkBuffer) Segments() int { return b.segments }

// Surface returns the underlying pixel surface.
func (b *InkBuffer) Surface() canvas.Surface { return b.surface }
