package histogram

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuffer_MatchesUnbuffered(t *testing.T) {
	for _, size := range []int{1, 3, 64, DefaultBufferSize} {
		plain, _ := NewHistogram2D("p", "", 5, -1, 1, "x", 5, -1, 1, "y")
		buffered, _ := NewHistogram2D("b", "", 5, -1, 1, "x", 5, -1, 1, "y", WithBuffer(size))

		rng := rand.New(rand.NewSource(int64(size)))
		for i := 0; i < 1000; i++ {
			x, y, w := rng.NormFloat64(), rng.NormFloat64(), uint64(rng.Intn(3))
			plain.FillWeighted(x, y, w)
			buffered.FillWeighted(x, y, w)
			if buffered.Entries() != plain.Entries() {
				t.Fatalf("size %d: entries %d vs %d after %d fills", size, buffered.Entries(), plain.Entries(), i+1)
			}
		}

		if diff := cmp.Diff(plain.Contents(), buffered.Contents()); diff != "" {
			t.Errorf("size %d: buffered contents differ (-plain +buffered):\n%s", size, diff)
		}
	}
}

func TestBuffer_FlushBeforeRead(t *testing.T) {
	h := newTest1D(t, 2, 0, 2, WithBuffer(100))
	h.Fill(0.5)
	h.Fill(0.5)

	if got := h.BinContent(1); got != 2 {
		t.Errorf("BinContent(1) = %d with pending samples, want 2", got)
	}
	if h.Entries() != 2 {
		t.Errorf("Entries() = %d, want 2", h.Entries())
	}
}

func TestBuffer_SetBinContentAfterFill(t *testing.T) {
	h := newTest1D(t, 2, 0, 2, WithBuffer(100))
	h.Fill(0.5)
	h.SetBinContent(1, 10)
	h.Fill(0.5)

	if got := h.BinContent(1); got != 11 {
		t.Errorf("BinContent(1) = %d, want 11", got)
	}
}

func TestBuffer_ResetDiscards(t *testing.T) {
	h := newTest1D(t, 2, 0, 2, WithBuffer(100))
	h.Fill(0.5)
	h.Fill(1.5)
	h.Reset()

	if diff := cmp.Diff(make([]uint64, 4), h.Contents()); diff != "" {
		t.Errorf("bins after Reset (-want +got):\n%s", diff)
	}
	if h.Entries() != 0 {
		t.Errorf("Entries() = %d, want 0", h.Entries())
	}
}

func TestBuffer_AddFlushesBothSides(t *testing.T) {
	a := newTest1D(t, 2, 0, 2, WithBuffer(100))
	b := newTest1D(t, 2, 0, 2, WithBuffer(100))
	a.Fill(0.5)
	b.Fill(1.5)
	b.Fill(1.5)

	if err := a.Add(b, 3); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]uint64{0, 1, 6, 0}, bins1D(a)); diff != "" {
		t.Errorf("bins (-want +got):\n%s", diff)
	}
	if a.Entries() != 3 {
		t.Errorf("Entries() = %d, want 3", a.Entries())
	}
}

func TestBuffer_FillDirectBypasses(t *testing.T) {
	h, _ := NewHistogram3D("h", "", 1, 0, 1, "x", 1, 0, 1, "y", 1, 0, 1, "z", WithBuffer(10))
	h.FillDirect(0.5, 0.5, 0.5, 4)

	if len(h.t.buf) != 0 {
		t.Errorf("FillDirect staged %d samples", len(h.t.buf))
	}
	h.Fill(0.5, 0.5, 0.5)
	if len(h.t.buf) != 1 {
		t.Errorf("Fill staged %d samples, want 1", len(h.t.buf))
	}
	if h.Entries() != 2 {
		t.Errorf("Entries() = %d, want 2", h.Entries())
	}
}

func TestBuffer_CloseFlushes(t *testing.T) {
	h := newTest1D(t, 2, 0, 2, WithBuffer(100))
	h.Fill(1.5)
	h.Close()

	if h.t.counts[2] != 1 {
		t.Errorf("Close dropped a buffered sample: counts = %v", h.t.counts)
	}
}

type recordingRegistry struct {
	registered   []Histogram
	unregistered []Histogram
}

func (r *recordingRegistry) Register(h Histogram) {
	r.registered = append(r.registered, h)
}

func (r *recordingRegistry) Unregister(h Histogram) {
	r.unregistered = append(r.unregistered, h)
}

func TestRegistryHooks(t *testing.T) {
	reg := &recordingRegistry{}

	h1, _ := NewHistogram1D("a", "", 1, 0, 1, "x", WithRegistry(reg))
	h2, _ := NewHistogram2D("b", "", 1, 0, 1, "x", 1, 0, 1, "y", WithRegistry(reg), WithPath("dir"))
	h3, _ := NewHistogram3D("c", "", 1, 0, 1, "x", 1, 0, 1, "y", 1, 0, 1, "z", WithRegistry(reg))
	if _, err := NewHistogram1D("bad", "", 0, 0, 1, "x", WithRegistry(reg)); err == nil {
		t.Fatal("expected error")
	}

	if len(reg.registered) != 3 {
		t.Fatalf("registered %d histograms, want 3", len(reg.registered))
	}
	if reg.registered[0] != Histogram(h1) || reg.registered[1] != Histogram(h2) || reg.registered[2] != Histogram(h3) {
		t.Error("registry received unexpected objects")
	}

	h2.Close()
	h2.Close()
	if len(reg.unregistered) != 1 || reg.unregistered[0] != Histogram(h2) {
		t.Errorf("unregistered = %v, want exactly h2 once", reg.unregistered)
	}

	plain, _ := NewHistogram1D("plain", "", 1, 0, 1, "x")
	plain.Close()
}

// readConcurrently runs read from several goroutines at once. Run with -race.
func readConcurrently(read func()) {
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				read()
			}
		}()
	}
	wg.Wait()
}

func TestConcurrentReaders(t *testing.T) {
	t.Run("Unbuffered", func(t *testing.T) {
		h := newTest1D(t, 2, 0, 2)
		h.Fill(0.5)
		readConcurrently(func() {
			if got := h.BinContent(1); got != 1 {
				t.Errorf("BinContent(1) = %d, want 1", got)
			}
		})
	})

	t.Run("BufferedAfterFlush", func(t *testing.T) {
		h := newTest1D(t, 2, 0, 2, WithBuffer(16))
		h.Fill(0.5)
		h.Fill(1.5)
		h.Flush()
		readConcurrently(func() {
			if diff := cmp.Diff([]uint64{0, 1, 1, 0}, h.Contents()); diff != "" {
				t.Errorf("contents (-want +got):\n%s", diff)
			}
		})
	})
}
