// Package stroke turns a stream of pointer events into ink.
//
// Two recorders share the same event stream:
//
//   - Tracker commits every pointer move as a line segment.
//   - Smoother commits a segment only when the pointer has travelled at least
//     the configured stroke length from the last committed point, discarding
//     freehand jitter and producing a tighter bounding box.
//
// Each recorder owns an InkBuffer: a pixel surface, its BoundingBox and the
// cursor the next segment starts from. Buffers are independent; the smoothed
// buffer never reads the raw one.
//
// # Bounding Boxes
//
// BoundingBox is a value type. Include returns a widened copy, so the box
// observed by a caller never changes underneath it. Only the end point of a
// segment is included; the pointer-down position alone does not count as ink.
// Width and Height are inclusive, so a box around a single pixel is 1x1.
package stroke
