package geometry

import (
	"fmt"
	"math"
)

// Rect represents a window position and size, either in percent of a
// workspace (0-100) or in absolute pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// PercentFrame is the implicit 100x100 reference used for ppt geometry.
var PercentFrame = Rect{X: 0, Y: 0, Width: 100, Height: 100}

// Shape is the size of the managed window relative to its reference frame.
type Shape struct {
	X float64
	Y float64
}

// round is the single rounding primitive used for all geometry. Half-to-even
// keeps results identical to the ppt arithmetic users already tuned against.
func round(v float64) int {
	return int(math.RoundToEven(v))
}

// place computes the offset and size of one axis.
func place(loc Loc, fraction float64, offset, extent int) (pos, size int) {
	size = round(fraction * float64(extent))
	switch loc {
	case LocCenter:
		pos = offset + round(float64(extent)/2-float64(size)/2)
	case LocHigh:
		pos = offset + extent - size
	default:
		pos = offset
	}
	return pos, size
}

// TargetRect computes where the managed window should sit. A nil frame means
// percent units relative to the window's own workspace; otherwise the result
// is in the frame's absolute pixel space.
func TargetRect(shape Shape, pos Position, frame *Rect) Rect {
	ref := PercentFrame
	if frame != nil {
		ref = *frame
	}
	x, w := place(pos.X, shape.X, ref.X, ref.Width)
	y, h := place(pos.Y, shape.Y, ref.Y, ref.Height)
	return Rect{X: x, Y: y, Width: w, Height: h}
}

type memoKey struct {
	shape    Shape
	pos      Position
	absolute bool
	frame    Rect
}

// Memo caches TargetRect results for the duration of one alignment decision
// so every call site in that decision sees the identical rectangle.
type Memo struct {
	rects map[memoKey]Rect
}

// NewMemo creates an empty memo table.
func NewMemo() *Memo {
	return &Memo{rects: make(map[memoKey]Rect)}
}

// Reset drops all cached rectangles. Call at the start of each decision.
func (m *Memo) Reset() {
	clear(m.rects)
}

// Target returns the memoized TargetRect for the given inputs.
func (m *Memo) Target(shape Shape, pos Position, frame *Rect) Rect {
	key := memoKey{shape: shape, pos: pos}
	if frame != nil {
		key.absolute = true
		key.frame = *frame
	}
	if r, ok := m.rects[key]; ok {
		return r
	}
	r := TargetRect(shape, pos, frame)
	m.rects[key] = r
	return r
}
