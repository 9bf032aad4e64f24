package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/histkit/internal/histogram"
	"github.com/j-veylop/histkit/internal/logger"
	"github.com/j-veylop/histkit/internal/models"
)

var timeFormats = []string{
	sqlTimeFormat,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// record is a decoded row of the histograms table with its axes.
type record struct {
	path      string
	name      string
	title     string
	axes      []histogram.Axis
	entries   uint64
	contents  []uint64
	updatedAt time.Time
}

func (r *record) build(opts ...histogram.Option) (histogram.Histogram, error) {
	h, err := histogram.New(r.name, r.title, r.axes, append([]histogram.Option{histogram.WithPath(r.path)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := histogram.Restore(h, r.contents, r.entries); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}

func cacheKey(path, name string) string {
	return path + "\x00" + name
}

// Save stores h under its path and name, replacing any previous version.
func (db *DB) Save(ctx context.Context, h histogram.Histogram) error {
	rec := &record{
		path:      h.Path(),
		name:      h.Name(),
		title:     h.Title(),
		axes:      h.Axes(),
		entries:   h.Entries(),
		contents:  h.Contents(),
		updatedAt: time.Now().UTC(),
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO histograms (path, name, title, rank, entries, slots, contents, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path, name) DO UPDATE SET
			title = excluded.title,
			rank = excluded.rank,
			entries = excluded.entries,
			slots = excluded.slots,
			contents = excluded.contents,
			updated_at = excluded.updated_at
	`
	_, err = tx.ExecContext(ctx, query,
		rec.path,
		rec.name,
		rec.title,
		len(rec.axes),
		int64(rec.entries),
		len(rec.contents),
		db.encodeContents(rec.contents),
		rec.updatedAt.Format(sqlTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to save histogram %s: %w", h.Key(), err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM histograms WHERE path = ? AND name = ?", rec.path, rec.name).Scan(&id); err != nil {
		return fmt.Errorf("failed to look up histogram id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM axes WHERE histogram_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear axes: %w", err)
	}
	for dim, a := range rec.axes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO axes (histogram_id, dim, channels, left_edge, right_edge, title)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, dim, a.BinCount(), a.Left(), a.Right(), a.Title())
		if err != nil {
			return fmt.Errorf("failed to save axis %d: %w", dim, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit histogram %s: %w", h.Key(), err)
	}

	db.cache.Add(cacheKey(rec.path, rec.name), rec)
	logger.Debug("saved histogram", "key", h.Key(), "entries", rec.entries)
	return nil
}

// Load rebuilds the histogram stored under path and name. Options are passed
// to the histogram constructor, e.g. to register it or enable buffering.
func (db *DB) Load(ctx context.Context, path, name string, opts ...histogram.Option) (histogram.Histogram, error) {
	if v, ok := db.cache.Get(cacheKey(path, name)); ok {
		return v.(*record).build(opts...)
	}

	rec, err := db.loadRecord(ctx, path, name)
	if err != nil {
		return nil, err
	}
	db.cache.Add(cacheKey(path, name), rec)
	return rec.build(opts...)
}

func (db *DB) loadRecord(ctx context.Context, path, name string) (*record, error) {
	var (
		id      int64
		entries int64
		slots   int
		blob    []byte
		updated string
	)
	rec := &record{path: path, name: name}

	err := db.QueryRowContext(ctx, `
		SELECT id, title, entries, slots, contents, updated_at
		FROM histograms
		WHERE path = ? AND name = ?
	`, path, name).Scan(&id, &rec.title, &entries, &slots, &blob, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, histogram.JoinKey(path, name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query histogram: %w", err)
	}
	rec.entries = uint64(entries)
	rec.updatedAt, _ = parseTimeString(updated)

	rows, err := db.QueryContext(ctx, `
		SELECT channels, left_edge, right_edge, title
		FROM axes
		WHERE histogram_id = ?
		ORDER BY dim
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query axes: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	for rows.Next() {
		var (
			channels    int
			left, right float64
			title       string
		)
		if err := rows.Scan(&channels, &left, &right, &title); err != nil {
			return nil, fmt.Errorf("failed to scan axis: %w", err)
		}
		a, err := histogram.NewAxis(channels, left, right, title)
		if err != nil {
			return nil, fmt.Errorf("stored axis is invalid: %w", err)
		}
		rec.axes = append(rec.axes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rec.contents, err = db.decodeContents(blob, slots)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns summaries of all stored histograms ordered by path and name.
func (db *DB) List(ctx context.Context) ([]models.Summary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT path, name, title, rank, entries, slots, updated_at
		FROM histograms
		ORDER BY path, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query histograms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []models.Summary
	for rows.Next() {
		var (
			s       models.Summary
			entries int64
			updated string
		)
		if err := rows.Scan(&s.Path, &s.Name, &s.Title, &s.Rank, &entries, &s.Slots, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan histogram summary: %w", err)
		}
		s.Entries = uint64(entries)
		s.UpdatedAt, _ = parseTimeString(updated)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// Delete removes the histogram stored under path and name.
func (db *DB) Delete(ctx context.Context, path, name string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// foreign_keys is a per-connection pragma, so axes are removed by hand.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM axes WHERE histogram_id IN (
			SELECT id FROM histograms WHERE path = ? AND name = ?
		)
	`, path, name); err != nil {
		return fmt.Errorf("failed to delete axes: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM histograms WHERE path = ? AND name = ?", path, name)
	if err != nil {
		return fmt.Errorf("failed to delete histogram: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, histogram.JoinKey(path, name))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	db.cache.Remove(cacheKey(path, name))
	return nil
}
