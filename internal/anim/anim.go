// Package anim drives frame-paced slide animations on the calling goroutine.
//
// Animate blocks for the whole duration. There is no cancellation: callers
// running on an event loop will queue further events until it returns.
package anim

import (
	"math"
	"time"

	"github.com/1broseidon/termdrop/internal/geometry"
)

// Params configures the slide animation. A zero Show or Hide duration
// disables animation in that direction.
type Params struct {
	Enabled bool
	Anchor  geometry.Anchor
	Show    time.Duration
	Hide    time.Duration
	FPS     int
}

// ShowEnabled reports whether entry should animate.
func (p Params) ShowEnabled() bool {
	return p.Enabled && p.Anchor != geometry.AnchorNone && p.Show > 0
}

// HideEnabled reports whether exit should animate.
func (p Params) HideEnabled() bool {
	return p.Enabled && p.Anchor != geometry.AnchorNone && p.Hide > 0
}

// FrameFunc receives each frame position. first and last mark the frames
// that must carry the surrounding commands in the same transaction.
type FrameFunc func(pos int, first, last bool)

// Clock is the time source used for pacing.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Driver paces frames against a fixed start timestamp.
type Driver struct {
	clock Clock
}

// NewDriver creates a driver using the wall clock.
func NewDriver() *Driver {
	return &Driver{clock: realClock{}}
}

// NewDriverWithClock creates a driver with a custom clock.
func NewDriverWithClock(c Clock) *Driver {
	return &Driver{clock: c}
}

// Steps interpolates numSteps integer positions from start to end inclusive
// and drops consecutive duplicates. With offsetParity the interior samples
// are shifted half a step towards end.
func Steps(start, end, numSteps int, offsetParity bool) []int {
	if numSteps < 2 {
		return []int{end}
	}
	span := float64(end - start)
	last := numSteps - 1
	out := make([]int, 0, numSteps)
	for i := 0; i < numSteps; i++ {
		t := float64(i) / float64(last)
		if offsetParity && i > 0 && i < last {
			t = math.Min(1, (float64(i)+0.5)/float64(last))
		}
		pos := int(math.RoundToEven(float64(start) + span*t))
		if len(out) > 0 && out[len(out)-1] == pos {
			continue
		}
		out = append(out, pos)
	}
	return out
}

// Animate slides from start to end over duration at roughly fps frames per
// second, calling frame once per distinct position.
func (d *Driver) Animate(frame FrameFunc, start, end int, duration time.Duration, fps int, offsetParity bool) {
	frames := duration.Seconds() * float64(fps)
	if frames < 2 {
		frame(end, true, true)
		return
	}
	numSteps := int(math.RoundToEven(frames))
	if numSteps < 2 {
		frame(end, true, true)
		return
	}
	positions := Steps(start, end, numSteps, offsetParity)
	if len(positions) < 2 {
		frame(end, true, true)
		return
	}

	// Dedup shrinks the frame count; stretch the delay so the total holds.
	delay := duration / time.Duration(len(positions)-1)
	last := len(positions) - 1
	t0 := d.clock.Now()
	for i, pos := range positions {
		target := t0.Add(time.Duration(i) * delay)
		if wait := target.Sub(d.clock.Now()); wait > 0 {
			d.clock.Sleep(wait)
		}
		frame(pos, i == 0, i == last)
	}
}
