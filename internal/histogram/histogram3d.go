package histogram

// Histogram3D counts samples over x, y and z axes.
type Histogram3D struct {
	base
	x, y, z Axis
}

// NewHistogram3D creates a three-dimensional histogram.
func NewHistogram3D(name, title string,
	xchannels int, xleft, xright float64, xtitle string,
	ychannels int, yleft, yright float64, ytitle string,
	zchannels int, zleft, zright float64, ztitle string,
	opts ...Option,
) (*Histogram3D, error) {
	x, err := NewAxis(xchannels, xleft, xright, xtitle)
	if err != nil {
		return nil, err
	}
	y, err := NewAxis(ychannels, yleft, yright, ytitle)
	if err != nil {
		return nil, err
	}
	z, err := NewAxis(zchannels, zleft, zright, ztitle)
	if err != nil {
		return nil, err
	}
	return newHistogram3D(name, title, x, y, z, buildOptions(opts)), nil
}

func newHistogram3D(name, title string, x, y, z Axis, o options) *Histogram3D {
	h := &Histogram3D{
		base: newBase(name, title, []Axis{x, y, z}, o),
		x:    x,
		y:    y,
		z:    z,
	}
	h.register(h)
	return h
}

// Fill adds one sample with weight 1.
func (h *Histogram3D) Fill(x, y, z float64) {
	h.FillWeighted(x, y, z, 1)
}

// FillWeighted adds one sample with weight w.
func (h *Histogram3D) FillWeighted(x, y, z float64, w uint64) {
	if h.t.bufSize > 0 {
		h.t.stage(x, y, z, w)
		return
	}
	h.FillDirect(x, y, z, w)
}

// FillDirect adds one sample with weight w, bypassing the write-back buffer.
func (h *Histogram3D) FillDirect(x, y, z float64, w uint64) {
	h.t.counts[h.x.FindBin(x)+h.y.FindBin(y)*h.t.sy+h.z.FindBin(z)*h.t.sz] += w
	h.t.entries++
}

// BinContent returns the count in bin (ix, iy, iz), or 0 if any index is
// out of range.
func (h *Histogram3D) BinContent(ix, iy, iz int) uint64 {
	return h.t.get(h.t.slot(ix, iy, iz))
}

// SetBinContent overwrites bin (ix, iy, iz). Out-of-range indices are
// ignored.
func (h *Histogram3D) SetBinContent(ix, iy, iz int, v uint64) {
	h.t.set(h.t.slot(ix, iy, iz), v)
}

// Add adds scale times the bins of other and sums the entry counts. Bins
// saturate at math.MaxUint64 instead of wrapping.
func (h *Histogram3D) Add(other *Histogram3D, scale uint64) error {
	return h.t.add(&other.t, scale)
}

func (h *Histogram3D) AxisX() Axis {
	return h.x
}

func (h *Histogram3D) AxisY() Axis {
	return h.y
}

func (h *Histogram3D) AxisZ() Axis {
	return h.z
}

func (h *Histogram3D) Close() {
	h.release(h)
}
