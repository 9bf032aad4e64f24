package histogram

import (
	"fmt"
	"math"
)

// Histogram is the rank-independent view of Histogram1D, Histogram2D and
// Histogram3D used by registries, storage and ingestion code.
type Histogram interface {
	Name() string
	Title() string
	Path() string
	Key() string

	// Rank returns the number of axes.
	Rank() int
	// Axes returns copies of the axes in x, y, z order.
	Axes() []Axis
	// Entries returns the number of Fill calls since construction or the
	// last Reset.
	Entries() uint64
	// Contents returns a row-major copy of all bins, including underflow
	// and overflow, with x varying fastest.
	Contents() []uint64

	// FillPoint fills one sample given as a coordinate slice. Missing
	// coordinates are treated as NaN and extra ones are ignored.
	FillPoint(coords []float64, w uint64)
	Reset()
	// Flush writes any buffered samples into the bins.
	Flush()
	// Close flushes the buffer and unregisters the histogram.
	Close()

	tensor() *binTensor
}

// base holds the state shared by every rank.
type base struct {
	Named
	t        binTensor
	registry Registry
	closed   bool
}

func newBase(name, title string, axes []Axis, o options) base {
	return base{
		Named:    newNamed(name, title, o.path),
		t:        newBinTensor(axes, o.bufSize),
		registry: o.registry,
	}
}

func (b *base) tensor() *binTensor {
	return &b.t
}

func (b *base) Rank() int {
	return len(b.t.axes)
}

func (b *base) Axes() []Axis {
	out := make([]Axis, len(b.t.axes))
	copy(out, b.t.axes)
	return out
}

func (b *base) Entries() uint64 {
	return b.t.entries
}

func (b *base) Contents() []uint64 {
	return b.t.contents()
}

func (b *base) FillPoint(coords []float64, w uint64) {
	var c [3]float64
	for i := range c {
		if i < len(coords) {
			c[i] = coords[i]
		} else {
			c[i] = math.NaN()
		}
	}
	if b.t.bufSize > 0 {
		b.t.stage(c[0], c[1], c[2], w)
		return
	}
	b.t.counts[b.t.locate(c[0], c[1], c[2])] += w
	b.t.entries++
}

// Reset zeroes every bin, including underflow and overflow, clears the
// entry count and discards buffered samples.
func (b *base) Reset() {
	b.t.reset()
}

func (b *base) Flush() {
	b.t.flush()
}

func (b *base) release(h Histogram) {
	if b.closed {
		return
	}
	b.closed = true
	b.t.flush()
	if b.registry != nil {
		b.registry.Unregister(h)
	}
}

func (b *base) register(h Histogram) {
	if b.registry != nil {
		b.registry.Register(h)
	}
}

// New creates a histogram whose rank is the number of axes given.
func New(name, title string, axes []Axis, opts ...Option) (Histogram, error) {
	for i, a := range axes {
		if a.channels < 1 {
			return nil, fmt.Errorf("%w: %s axis is not initialised", ErrInvalidAxis, axisNames[min(i, 2)])
		}
	}
	o := buildOptions(opts)
	switch len(axes) {
	case 1:
		return newHistogram1D(name, title, axes[0], o), nil
	case 2:
		return newHistogram2D(name, title, axes[0], axes[1], o), nil
	case 3:
		return newHistogram3D(name, title, axes[0], axes[1], axes[2], o), nil
	}
	return nil, fmt.Errorf("%w: rank %d is not supported", ErrInvalidAxis, len(axes))
}

// NewLike creates an empty histogram with the same label and binning as h.
// Options are applied after the copied path, so WithPath overrides it.
func NewLike(h Histogram, opts ...Option) (Histogram, error) {
	return New(h.Name(), h.Title(), h.Axes(), append([]Option{WithPath(h.Path())}, opts...)...)
}

// Compatible returns nil if a and b have the same rank and binning.
func Compatible(a, b Histogram) error {
	return a.tensor().compatible(b.tensor())
}

// Merge adds scale times src into dst. It fails with ErrBinningMismatch
// without modifying dst when the operands are not compatible. Bins saturate
// at math.MaxUint64.
func Merge(dst, src Histogram, scale uint64) error {
	return dst.tensor().add(src.tensor(), scale)
}

// Restore overwrites all bins and the entry count of h. contents must use
// the layout returned by Contents.
func Restore(h Histogram, contents []uint64, entries uint64) error {
	return h.tensor().restore(contents, entries)
}
