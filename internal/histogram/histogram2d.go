package histogram

// Histogram2D counts samples over an x and a y axis.
type Histogram2D struct {
	base
	x, y Axis
}

// NewHistogram2D creates a two-dimensional histogram.
func NewHistogram2D(name, title string,
	xchannels int, xleft, xright float64, xtitle string,
	ychannels int, yleft, yright float64, ytitle string,
	opts ...Option,
) (*Histogram2D, error) {
	x, err := NewAxis(xchannels, xleft, xright, xtitle)
	if err != nil {
		return nil, err
	}
	y, err := NewAxis(ychannels, yleft, yright, ytitle)
	if err != nil {
		return nil, err
	}
	return newHistogram2D(name, title, x, y, buildOptions(opts)), nil
}

func newHistogram2D(name, title string, x, y Axis, o options) *Histogram2D {
	h := &Histogram2D{
		base: newBase(name, title, []Axis{x, y}, o),
		x:    x,
		y:    y,
	}
	h.register(h)
	return h
}

// Fill adds one sample with weight 1.
func (h *Histogram2D) Fill(x, y float64) {
	h.FillWeighted(x, y, 1)
}

// FillWeighted adds one sample with weight w.
func (h *Histogram2D) FillWeighted(x, y float64, w uint64) {
	if h.t.bufSize > 0 {
		h.t.stage(x, y, 0, w)
		return
	}
	h.FillDirect(x, y, w)
}

// FillDirect adds one sample with weight w, bypassing the write-back buffer.
func (h *Histogram2D) FillDirect(x, y float64, w uint64) {
	h.t.counts[h.x.FindBin(x)+h.y.FindBin(y)*h.t.sy] += w
	h.t.entries++
}

// BinContent returns the count in bin (ix, iy), or 0 if either index is
// out of range.
func (h *Histogram2D) BinContent(ix, iy int) uint64 {
	return h.t.get(h.t.slot(ix, iy, 0))
}

// SetBinContent overwrites bin (ix, iy). Out-of-range indices are ignored.
func (h *Histogram2D) SetBinContent(ix, iy int, v uint64) {
	h.t.set(h.t.slot(ix, iy, 0), v)
}

// Add adds scale times the bins of other and sums the entry counts. Bins
// saturate at math.MaxUint64 instead of wrapping.
func (h *Histogram2D) Add(other *Histogram2D, scale uint64) error {
	return h.t.add(&other.t, scale)
}

func (h *Histogram2D) AxisX() Axis {
	return h.x
}

func (h *Histogram2D) AxisY() Axis {
	return h.y
}

func (h *Histogram2D) Close() {
	h.release(h)
}
