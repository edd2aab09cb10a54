package stroke

import (
	"image"
	"math"
)

// BoundingBox is the inclusive pixel extent of tracked ink.
//
// A fresh box is empty: MinX/MinY hold the canvas dimensions and MaxX/MaxY
// are zero, so any tracked point collapses it onto that point. The box only
// ever grows until it is reset.
type BoundingBox struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// EmptyBox returns the "no ink yet" sentinel for a canvas of the given size.
func EmptyBox(width, height int) BoundingBox {
	return BoundingBox{MinX: width, MinY: height}
}

// Include returns the box expanded to contain p. Each axis is widened
// independently.
func (b BoundingBox) Include(p image.Point) BoundingBox {
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	return b
}

// Empty reports whether no point has been included since the sentinel.
func (b BoundingBox) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Width is the inclusive horizontal extent (a single column is 1 wide).
func (b BoundingBox) Width() int {
	return 1 + b.MaxX - b.MinX
}

// Height is the inclusive vertical extent.
func (b BoundingBox) Height() int {
	return 1 + b.MaxY - b.MinY
}

// Side is the edge length of the square frame that holds the box.
func (b BoundingBox) Side() int {
	if b.Width() > b.Height() {
		return b.Width()
	}
	return b.Height()
}

// Rect converts the box to an image.Rectangle (Max exclusive).
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.MinX, b.MinY, b.MaxX+1, b.MaxY+1)
}

// Distance is the Euclidean distance between two points in pixels.
func Distance(a, b image.Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ShouldCommit reports whether a move from last to p is long enough to be
// committed by a smoothing stage with the given threshold.
func ShouldCommit(last, p image.Point, threshold float64) bool {
	return Distance(last, p) >= threshold
}
