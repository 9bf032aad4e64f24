package histogram

// Histogram1D counts samples over one axis.
type Histogram1D struct {
	base
	x Axis
}

// NewHistogram1D creates a one-dimensional histogram with xchannels regular
// bins spanning [xleft, xright).
func NewHistogram1D(name, title string,
	xchannels int, xleft, xright float64, xtitle string,
	opts ...Option,
) (*Histogram1D, error) {
	x, err := NewAxis(xchannels, xleft, xright, xtitle)
	if err != nil {
		return nil, err
	}
	return newHistogram1D(name, title, x, buildOptions(opts)), nil
}

func newHistogram1D(name, title string, x Axis, o options) *Histogram1D {
	h := &Histogram1D{
		base: newBase(name, title, []Axis{x}, o),
		x:    x,
	}
	h.register(h)
	return h
}

// Fill adds one sample with weight 1.
func (h *Histogram1D) Fill(x float64) {
	h.FillWeighted(x, 1)
}

// FillWeighted adds one sample with weight w.
func (h *Histogram1D) FillWeighted(x float64, w uint64) {
	if h.t.bufSize > 0 {
		h.t.stage(x, 0, 0, w)
		return
	}
	h.FillDirect(x, w)
}

// FillDirect adds one sample with weight w, bypassing the write-back buffer.
func (h *Histogram1D) FillDirect(x float64, w uint64) {
	h.t.counts[h.x.FindBin(x)] += w
	h.t.entries++
}

// BinContent returns the count in bin ix, or 0 if ix is out of range.
func (h *Histogram1D) BinContent(ix int) uint64 {
	return h.t.get(h.t.slot(ix, 0, 0))
}

// SetBinContent overwrites bin ix. Out-of-range indices are ignored.
func (h *Histogram1D) SetBinContent(ix int, v uint64) {
	h.t.set(h.t.slot(ix, 0, 0), v)
}

// Add adds scale times the bins of other and sums the entry counts. Bins
// saturate at math.MaxUint64 instead of wrapping.
func (h *Histogram1D) Add(other *Histogram1D, scale uint64) error {
	return h.t.add(&other.t, scale)
}

func (h *Histogram1D) AxisX() Axis {
	return h.x
}

func (h *Histogram1D) Close() {
	h.release(h)
}
