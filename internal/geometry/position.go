package geometry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Loc is an anchor along one axis.
type Loc int

const (
	LocLow    Loc = iota // left or top
	LocCenter            // centre
	LocHigh              // right or bottom
)

// Anchor is the edge a slide animation enters from and exits to.
type Anchor int

const (
	AnchorNone Anchor = iota
	AnchorLeft
	AnchorRight
	AnchorTop
	AnchorBottom
)

func (a Anchor) String() string {
	switch a {
	case AnchorLeft:
		return "left"
	case AnchorRight:
		return "right"
	case AnchorTop:
		return "top"
	case AnchorBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Position anchors the managed window inside its reference rectangle.
// Compat is set for the legacy LEFT/RIGHT names, whose shape is given in
// (y, x) order.
type Position struct {
	X      Loc
	Y      Loc
	Compat bool
}

var xCodes = map[byte]Loc{'L': LocLow, 'C': LocCenter, 'R': LocHigh}
var yCodes = map[byte]Loc{'T': LocLow, 'C': LocCenter, 'B': LocHigh}

var positionAliases = map[string]string{
	"LEFT":   "LT",
	"TOP":    "LT",
	"BOTTOM": "LB",
	"RIGHT":  "RT",
}

// ParsePosition accepts the nine two-letter codes in either order (e.g. "TL"
// or "LT") and the aliases LEFT, TOP, BOTTOM and RIGHT.
func ParsePosition(s string) (Position, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if code, ok := positionAliases[name]; ok {
		pos, _ := ParsePosition(code)
		pos.Compat = name == "LEFT" || name == "RIGHT"
		return pos, nil
	}
	if len(name) != 2 {
		return Position{}, fmt.Errorf("'%s' is not a valid position", s)
	}
	if x, ok := xCodes[name[0]]; ok {
		if y, ok := yCodes[name[1]]; ok {
			return Position{X: x, Y: y}, nil
		}
	}
	if y, ok := yCodes[name[0]]; ok {
		if x, ok := xCodes[name[1]]; ok {
			return Position{X: x, Y: y}, nil
		}
	}
	return Position{}, fmt.Errorf("'%s' is not a valid position", s)
}

// PositionNames lists the accepted position names.
func PositionNames() []string {
	names := []string{"LT", "LC", "LB", "CT", "CC", "CB", "RT", "RC", "RB"}
	for alias := range positionAliases {
		names = append(names, alias)
	}
	sort.Strings(names[9:])
	return names
}

// String returns the canonical x-first code.
func (p Position) String() string {
	if p.Compat {
		if p.X == LocLow {
			return "LEFT"
		}
		return "RIGHT"
	}
	return string([]byte{"LCR"[p.X], "TCB"[p.Y]})
}

// Anchor derives the slide edge. The x anchor wins; a centred x falls back
// to the y anchor, and a pure centre position does not animate.
func (p Position) Anchor() Anchor {
	switch p.X {
	case LocLow:
		return AnchorLeft
	case LocHigh:
		return AnchorRight
	}
	switch p.Y {
	case LocLow:
		return AnchorTop
	case LocHigh:
		return AnchorBottom
	}
	return AnchorNone
}

// ParseFraction reads a decimal ("0.25") or a fraction ("1/4") in [0, 1].
func ParseFraction(s string) (float64, error) {
	s = strings.TrimSpace(s)
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		num, den, ok := strings.Cut(s, "/")
		if !ok {
			return 0, fmt.Errorf("'%s': not a decimal or fraction", s)
		}
		n, nErr := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, dErr := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if nErr != nil || dErr != nil {
			return 0, fmt.Errorf("'%s': not a decimal or fraction", s)
		}
		if d == 0 {
			return 0, fmt.Errorf("'%s': division by zero", s)
		}
		val = n / d
	}
	if val < 0 || val > 1 {
		return 0, fmt.Errorf("'%s': %.3f is not in the range [0, 1]", s, val)
	}
	return val, nil
}

// ParseShape reads two fractions. With compat set they are taken in (y, x)
// order, matching the legacy LEFT/RIGHT positions.
func ParseShape(values []string, compat bool) (Shape, error) {
	if len(values) != 2 {
		return Shape{}, fmt.Errorf("shape needs exactly 2 values, got %d", len(values))
	}
	a, err := ParseFraction(values[0])
	if err != nil {
		return Shape{}, err
	}
	b, err := ParseFraction(values[1])
	if err != nil {
		return Shape{}, err
	}
	if compat {
		return Shape{X: b, Y: a}, nil
	}
	return Shape{X: a, Y: b}, nil
}
