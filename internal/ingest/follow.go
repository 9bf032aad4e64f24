package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/histkit/internal/histogram"
	"github.com/j-veylop/histkit/internal/logger"
)

// ErrFileGone is returned by Follow when the followed file is removed or
// renamed.
var ErrFileGone = errors.New("followed file was removed")

// tail reads complete lines appended to a file, holding back a trailing
// partial line until its newline arrives.
type tail struct {
	f       *os.File
	pending []byte
	lineNo  int
}

func (t *tail) fill(h histogram.Histogram) (Stats, error) {
	data, err := io.ReadAll(t.f)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read appended samples: %w", err)
	}
	t.pending = append(t.pending, data...)

	end := bytes.LastIndexByte(t.pending, '\n')
	if end < 0 {
		return Stats{}, nil
	}
	lines := bytes.Split(t.pending[:end], []byte{'\n'})
	text := make([]string, len(lines))
	for i, l := range lines {
		text[i] = string(bytes.TrimSuffix(l, []byte{'\r'}))
	}
	// The lines alias pending, so compact only after copying them out.
	t.pending = append(t.pending[:0], t.pending[end+1:]...)

	st, err := fillLines(h, text, t.lineNo+1)
	t.lineNo += len(text)
	return st, err
}

// Follow fills h with the samples already in the file at path, then keeps
// filling as lines are appended. onBatch, if not nil, is called after every
// batch with the running totals. Follow returns when ctx is done (with a nil
// error), when the file goes away, or on a malformed line.
func Follow(ctx context.Context, h histogram.Histogram, path string, onBatch func(Stats)) (Stats, error) {
	path = filepath.Clean(path)
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open samples: %w", err)
	}
	defer func() { _ = f.Close() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: a watch on the file itself does not report its
	// removal while we hold it open.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return Stats{}, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	t := &tail{f: f}
	var total Stats

	batch := func() error {
		st, err := t.fill(h)
		total.merge(st)
		if err != nil {
			return err
		}
		if st.Lines > 0 && onBatch != nil {
			onBatch(total)
		}
		return nil
	}

	if err := batch(); err != nil {
		return total, err
	}

	for {
		select {
		case <-ctx.Done():
			return total, nil

		case event, ok := <-watcher.Events:
			if !ok {
				return total, nil
			}
			if event.Name != path {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// Pick up whatever was written before the file went away.
				if err := batch(); err != nil {
					return total, err
				}
				return total, fmt.Errorf("%w: %s", ErrFileGone, path)
			}
			if event.Has(fsnotify.Write) {
				if err := batch(); err != nil {
					return total, err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return total, nil
			}
			logger.Warn("file watcher error", "path", path, "error", err)
		}
	}
}
