package geometry

import "testing"

func allPositions() []Position {
	var out []Position
	for _, x := range []Loc{LocLow, LocCenter, LocHigh} {
		for _, y := range []Loc{LocLow, LocCenter, LocHigh} {
			out = append(out, Position{X: x, Y: y})
		}
	}
	return out
}

func TestTargetRect_StaysInsideFrame(t *testing.T) {
	frames := []*Rect{nil, {X: 1920, Y: 0, Width: 2560, Height: 1440}, {X: 0, Y: 0, Width: 1366, Height: 767}}
	shapes := []Shape{{1, 1}, {0.5, 0.5}, {1, 0.4}, {0.33, 0.67}, {0, 0}, {0.999, 0.001}}
	for _, frame := range frames {
		ref := PercentFrame
		if frame != nil {
			ref = *frame
		}
		for _, shape := range shapes {
			for _, pos := range allPositions() {
				r := TargetRect(shape, pos, frame)
				if r.X < ref.X || r.Y < ref.Y {
					t.Fatalf("%v %+v %v: rect %v starts before frame %v", pos, shape, frame, r, ref)
				}
				if r.X+r.Width > ref.X+ref.Width || r.Y+r.Height > ref.Y+ref.Height {
					t.Fatalf("%v %+v: rect %v overflows frame %v", pos, shape, r, ref)
				}
			}
		}
	}
}

func TestTargetRect_FullCenterHasNoOffset(t *testing.T) {
	r := TargetRect(Shape{X: 1, Y: 1}, Position{X: LocCenter, Y: LocCenter}, nil)
	if r != (Rect{X: 0, Y: 0, Width: 100, Height: 100}) {
		t.Fatalf("got %v", r)
	}
	frame := Rect{X: 100, Y: 50, Width: 1920, Height: 1080}
	r = TargetRect(Shape{X: 1, Y: 1}, Position{X: LocCenter, Y: LocCenter}, &frame)
	if r != frame {
		t.Fatalf("got %v, want %v", r, frame)
	}
}

func TestTargetRect_AbsoluteCenter(t *testing.T) {
	frame := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	r := TargetRect(Shape{X: 0.5, Y: 0.5}, Position{X: LocCenter, Y: LocCenter}, &frame)
	want := Rect{X: 480, Y: 270, Width: 960, Height: 540}
	if r != want {
		t.Fatalf("got %v, want %v", r, want)
	}
}

func TestTargetRect_AbsoluteUsesFrameOrigin(t *testing.T) {
	frame := Rect{X: 1920, Y: 200, Width: 1280, Height: 1024}
	r := TargetRect(Shape{X: 0.25, Y: 0.5}, Position{X: LocHigh, Y: LocHigh}, &frame)
	want := Rect{X: 1920 + 1280 - 320, Y: 200 + 1024 - 512, Width: 320, Height: 512}
	if r != want {
		t.Fatalf("got %v, want %v", r, want)
	}
}

func TestTargetRect_LegacyRight(t *testing.T) {
	pos, err := ParsePosition("right")
	if err != nil {
		t.Fatalf("ParsePosition: %v", err)
	}
	if !pos.Compat {
		t.Fatalf("expected compat for RIGHT")
	}

	// Already-oriented shape: full width, 40% height, anchored top-right.
	r := TargetRect(Shape{X: 1.0, Y: 0.4}, pos, nil)
	if r != (Rect{X: 0, Y: 0, Width: 100, Height: 40}) {
		t.Fatalf("got %v", r)
	}

	// The legacy CLI reading of "1.0 0.4" is (y, x): a full-height 40% column.
	shape, err := ParseShape([]string{"1.0", "0.4"}, pos.Compat)
	if err != nil {
		t.Fatalf("ParseShape: %v", err)
	}
	r = TargetRect(shape, pos, nil)
	if r != (Rect{X: 60, Y: 0, Width: 40, Height: 100}) {
		t.Fatalf("got %v", r)
	}
}

func TestTargetRect_CenterYWithFortyPercent(t *testing.T) {
	r := TargetRect(Shape{X: 1.0, Y: 0.4}, Position{X: LocHigh, Y: LocCenter}, nil)
	if r != (Rect{X: 0, Y: 30, Width: 100, Height: 40}) {
		t.Fatalf("got %v", r)
	}
}

func TestTargetRect_Idempotent(t *testing.T) {
	frame := Rect{X: 7, Y: 3, Width: 1001, Height: 333}
	shape := Shape{X: 0.335, Y: 0.125}
	for _, pos := range allPositions() {
		a := TargetRect(shape, pos, &frame)
		b := TargetRect(shape, pos, &frame)
		if a != b {
			t.Fatalf("%v: %v != %v", pos, a, b)
		}
	}
}

func TestMemo_ReturnsCachedRectAndResets(t *testing.T) {
	m := NewMemo()
	frame := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	pos := Position{X: LocCenter, Y: LocLow}
	a := m.Target(Shape{X: 0.5, Y: 0.5}, pos, &frame)
	b := m.Target(Shape{X: 0.5, Y: 0.5}, pos, &frame)
	if a != b {
		t.Fatalf("memo mismatch: %v vs %v", a, b)
	}
	rel := m.Target(Shape{X: 0.5, Y: 0.5}, pos, nil)
	if rel == a {
		t.Fatalf("percent and pixel results must be keyed separately")
	}
	if len(m.rects) != 2 {
		t.Fatalf("expected 2 cached entries, got %d", len(m.rects))
	}
	m.Reset()
	if len(m.rects) != 0 {
		t.Fatalf("expected empty memo after reset")
	}
}
