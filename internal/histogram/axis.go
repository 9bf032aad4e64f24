// Package histogram implements binned histograms of rank 1, 2 and 3 with
// uniform axes, underflow/overflow bins and integer bin counts.
package histogram

import (
	"fmt"
	"math"
)

// Axis describes one coordinate dimension with uniform bins.
//
// Index 0 is the underflow bin, indices 1..N are the regular bins and
// index N+1 is the overflow bin. Regular bins are half-open, so a value
// equal to the right edge lands in overflow. NaN also lands in overflow.
type Axis struct {
	channels int
	left     float64
	right    float64
	width    float64
	title    string
}

// NewAxis creates an axis with channels regular bins spanning [left, right).
func NewAxis(channels int, left, right float64, title string) (Axis, error) {
	if channels < 1 {
		return Axis{}, fmt.Errorf("%w: %q has %d channels, need at least 1", ErrInvalidAxis, title, channels)
	}
	if math.IsInf(left, 0) || math.IsInf(right, 0) || !(left < right) {
		return Axis{}, fmt.Errorf("%w: %q has edges [%g, %g)", ErrInvalidAxis, title, left, right)
	}
	width := (right - left) / float64(channels)
	if !(width > 0) || math.IsInf(width, 0) {
		return Axis{}, fmt.Errorf("%w: %q has unusable bin width %g", ErrInvalidAxis, title, width)
	}
	return Axis{
		channels: channels,
		left:     left,
		right:    right,
		width:    width,
		title:    title,
	}, nil
}

// FindBin returns the bin index holding v.
func (a Axis) FindBin(v float64) int {
	if v < a.left {
		return 0
	}
	// Written negated so that NaN goes to overflow.
	if !(v < a.right) {
		return a.channels + 1
	}
	i := 1 + int((v-a.left)/a.width)
	if i > a.channels {
		i = a.channels
	}
	// Rounding in the division can be off by one near an edge; the edge
	// functions are authoritative.
	if v < a.BinLowerEdge(i) {
		i--
	} else if v >= a.BinUpperEdge(i) {
		i++
	}
	return i
}

// BinLowerEdge returns the inclusive lower edge of bin i.
func (a Axis) BinLowerEdge(i int) float64 {
	switch {
	case i <= 0:
		return math.Inf(-1)
	case i == 1:
		return a.left
	case i > a.channels:
		return a.right
	}
	return a.left + float64(i-1)*a.width
}

// BinUpperEdge returns the exclusive upper edge of bin i.
func (a Axis) BinUpperEdge(i int) float64 {
	switch {
	case i <= 0:
		return a.left
	case i >= a.channels+1:
		return math.Inf(1)
	case i == a.channels:
		return a.right
	}
	return a.left + float64(i)*a.width
}

// BinCenter returns the midpoint of regular bin i. Underflow and overflow
// have no finite center and report -Inf and +Inf.
func (a Axis) BinCenter(i int) float64 {
	switch {
	case i <= 0:
		return math.Inf(-1)
	case i > a.channels:
		return math.Inf(1)
	}
	return a.left + (float64(i)-0.5)*a.width
}

// BinCount returns the number of regular bins.
func (a Axis) BinCount() int {
	return a.channels
}

// BinCountAll returns the number of bins including underflow and overflow.
func (a Axis) BinCountAll() int {
	return a.channels + 2
}

func (a Axis) Left() float64 {
	return a.left
}

func (a Axis) Right() float64 {
	return a.right
}

func (a Axis) Width() float64 {
	return a.width
}

func (a Axis) Title() string {
	return a.title
}

// Compatible reports whether both axes have the same channel count and
// bitwise-identical edges. Titles are ignored.
func (a Axis) Compatible(b Axis) bool {
	return a.channels == b.channels &&
		math.Float64bits(a.left) == math.Float64bits(b.left) &&
		math.Float64bits(a.right) == math.Float64bits(b.right)
}

func (a Axis) String() string {
	return fmt.Sprintf("%q %d [%g, %g)", a.title, a.channels, a.left, a.right)
}
