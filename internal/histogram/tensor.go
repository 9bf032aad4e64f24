package histogram

import (
	"fmt"
	"math"
	"math/bits"
)

var axisNames = [3]string{"x", "y", "z"}

// sample is a Fill call staged in the write-back buffer.
type sample struct {
	x, y, z float64
	w       uint64
}

// binTensor is the dense count storage shared by all ranks. Slots are laid
// out row-major with x fastest: slot = x + y*sy + z*sz.
type binTensor struct {
	axes    []Axis
	sy, sz  int
	counts  []uint64
	entries uint64

	buf     []sample
	bufSize int
}

func newBinTensor(axes []Axis, bufSize int) binTensor {
	t := binTensor{
		axes:    axes,
		bufSize: bufSize,
	}
	size := 1
	for i, a := range axes {
		switch i {
		case 1:
			t.sy = size
		case 2:
			t.sz = size
		}
		size *= a.BinCountAll()
	}
	t.counts = make([]uint64, size)
	if bufSize > 0 {
		t.buf = make([]sample, 0, bufSize)
	}
	return t
}

// locate maps coordinates to a slot. Coordinates beyond the rank are ignored.
func (t *binTensor) locate(x, y, z float64) int {
	s := t.axes[0].FindBin(x)
	if len(t.axes) > 1 {
		s += t.axes[1].FindBin(y) * t.sy
	}
	if len(t.axes) > 2 {
		s += t.axes[2].FindBin(z) * t.sz
	}
	return s
}

// slot translates bin indices to a slot, or -1 if any index is outside
// [0, channels+1].
func (t *binTensor) slot(ix, iy, iz int) int {
	if ix < 0 || ix >= t.axes[0].BinCountAll() {
		return -1
	}
	s := ix
	if len(t.axes) > 1 {
		if iy < 0 || iy >= t.axes[1].BinCountAll() {
			return -1
		}
		s += iy * t.sy
	}
	if len(t.axes) > 2 {
		if iz < 0 || iz >= t.axes[2].BinCountAll() {
			return -1
		}
		s += iz * t.sz
	}
	return s
}

func (t *binTensor) stage(x, y, z float64, w uint64) {
	t.buf = append(t.buf, sample{x: x, y: y, z: z, w: w})
	t.entries++
	if len(t.buf) >= t.bufSize {
		t.flush()
	}
}

// flush is a no-op without pending samples, so reads of a quiescent
// histogram never write.
func (t *binTensor) flush() {
	if len(t.buf) == 0 {
		return
	}
	for _, s := range t.buf {
		t.counts[t.locate(s.x, s.y, s.z)] += s.w
	}
	t.buf = t.buf[:0]
}

func (t *binTensor) get(s int) uint64 {
	if s < 0 {
		return 0
	}
	t.flush()
	return t.counts[s]
}

func (t *binTensor) set(s int, v uint64) {
	if s < 0 {
		return
	}
	t.flush()
	t.counts[s] = v
}

func (t *binTensor) reset() {
	clear(t.counts)
	t.buf = t.buf[:0]
	t.entries = 0
}

func (t *binTensor) compatible(o *binTensor) error {
	if len(t.axes) != len(o.axes) {
		return fmt.Errorf("%w: rank %d vs %d", ErrBinningMismatch, len(t.axes), len(o.axes))
	}
	for i := range t.axes {
		if !t.axes[i].Compatible(o.axes[i]) {
			return fmt.Errorf("%w: %s axis %v vs %v", ErrBinningMismatch, axisNames[i], t.axes[i], o.axes[i])
		}
	}
	return nil
}

// add validates before touching either side, so a mismatch leaves t as it was.
// Bins that would exceed math.MaxUint64 saturate.
func (t *binTensor) add(o *binTensor, scale uint64) error {
	if err := t.compatible(o); err != nil {
		return err
	}
	t.flush()
	o.flush()
	entries := o.entries
	for i, c := range o.counts {
		t.counts[i] = addScaled(t.counts[i], c, scale)
	}
	t.entries += entries
	return nil
}

func (t *binTensor) contents() []uint64 {
	t.flush()
	out := make([]uint64, len(t.counts))
	copy(out, t.counts)
	return out
}

func (t *binTensor) restore(contents []uint64, entries uint64) error {
	if len(contents) != len(t.counts) {
		return fmt.Errorf("%w: %d slots vs %d", ErrBinningMismatch, len(contents), len(t.counts))
	}
	t.buf = t.buf[:0]
	copy(t.counts, contents)
	t.entries = entries
	return nil
}

// addScaled returns a + scale*c, saturating at math.MaxUint64.
func addScaled(a, c, scale uint64) uint64 {
	hi, lo := bits.Mul64(c, scale)
	if hi != 0 {
		return math.MaxUint64
	}
	sum, carry := bits.Add64(a, lo, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}
