package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/histkit/internal/histogram"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	h, err := histogram.NewHistogram2D("ee", "E-E", 4, 0, 4, "E1", 3, -1, 2, "E2", histogram.WithPath("ge"))
	require.NoError(t, err)
	h.FillWeighted(0.5, 0.5, 3)
	h.FillWeighted(-1, 5, 2)
	h.Fill(3.5, 1.9)

	require.NoError(t, db.Save(ctx, h))
	db.cache.Purge()

	loaded, err := db.Load(ctx, "ge", "ee")
	require.NoError(t, err)

	assert.Equal(t, "E-E", loaded.Title())
	assert.Equal(t, "ge/ee", loaded.Key())
	assert.Equal(t, uint64(3), loaded.Entries())
	require.NoError(t, histogram.Compatible(h, loaded))
	if diff := cmp.Diff(h.Contents(), loaded.Contents()); diff != "" {
		t.Errorf("contents mismatch (-saved +loaded):\n%s", diff)
	}
	axes := loaded.Axes()
	assert.Equal(t, "E1", axes[0].Title())
	assert.Equal(t, "E2", axes[1].Title())
}

func TestSave_Overwrites(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	h, err := histogram.NewHistogram1D("n", "", 2, 0, 2, "x")
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, h))

	h.Fill(1.5)
	require.NoError(t, db.Save(ctx, h))

	summaries, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, uint64(1), summaries[0].Entries)

	db.cache.Purge()
	loaded, err := db.Load(ctx, "", "n")
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 0, 1, 0}, loaded.Contents())
}

func TestLoad_CacheReturnsIndependentCopies(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	h, err := histogram.NewHistogram1D("n", "", 2, 0, 2, "x")
	require.NoError(t, err)
	h.Fill(0.5)
	require.NoError(t, db.Save(ctx, h))

	a, err := db.Load(ctx, "", "n")
	require.NoError(t, err)
	a.FillPoint([]float64{0.5}, 10)

	b, err := db.Load(ctx, "", "n")
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1, 0, 0}, b.Contents())
}

func TestLoad_NotFound(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_, err := db.Load(context.Background(), "nope", "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestLoad_Registers(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	h, err := histogram.NewHistogram1D("n", "", 2, 0, 2, "x")
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, h))

	reg := &countingRegistry{}
	loaded, err := db.Load(ctx, "", "n", histogram.WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, 1, reg.registered)
	loaded.Close()
	assert.Equal(t, 1, reg.unregistered)
}

type countingRegistry struct {
	registered, unregistered int
}

func (r *countingRegistry) Register(histogram.Histogram)   { r.registered++ }
func (r *countingRegistry) Unregister(histogram.Histogram) { r.unregistered++ }

func TestList(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	h1, _ := histogram.NewHistogram1D("b", "one", 10, 0, 1, "x", histogram.WithPath("p"))
	h3, _ := histogram.NewHistogram3D("a", "three", 1, 0, 1, "x", 2, 0, 1, "y", 3, 0, 1, "z", histogram.WithPath("p"))
	h0, _ := histogram.NewHistogram1D("top", "", 1, 0, 1, "x")
	for _, h := range []histogram.Histogram{h1, h3, h0} {
		require.NoError(t, db.Save(ctx, h))
	}

	summaries, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	var keys []string
	for _, s := range summaries {
		keys = append(keys, s.Key())
	}
	assert.Equal(t, []string{"top", "p/a", "p/b"}, keys)
	assert.Equal(t, 3, summaries[1].Rank)
	assert.Equal(t, 3*4*5, summaries[1].Slots)
	assert.False(t, summaries[1].UpdatedAt.IsZero())
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	h, _ := histogram.NewHistogram2D("d", "", 1, 0, 1, "x", 1, 0, 1, "y")
	require.NoError(t, db.Save(ctx, h))
	require.NoError(t, db.Delete(ctx, "", "d"))

	_, err := db.Load(ctx, "", "d")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.Delete(ctx, "", "d"), ErrNotFound)

	var axes int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM axes").Scan(&axes))
	assert.Zero(t, axes)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "hist.db")
	ctx := context.Background()

	db, err := New(dbPath)
	require.NoError(t, err)
	h, _ := histogram.NewHistogram1D("n", "", 3, 0, 3, "x")
	h.FillWeighted(2.5, 1<<40)
	require.NoError(t, db.Save(ctx, h))
	require.NoError(t, db.Close())

	db, err = New(dbPath)
	require.NoError(t, err)
	defer db.Close()

	loaded, err := db.Load(ctx, "", "n")
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 0, 0, 1 << 40, 0}, loaded.Contents())
}

func TestCodec_RejectsWrongLength(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	blob := db.encodeContents([]uint64{1, 2, 3})
	got, err := db.decodeContents(blob, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, got)

	_, err = db.decodeContents(blob, 4)
	assert.Error(t, err)
}
