// Package ingest fills histograms from text streams of samples.
//
// Each non-blank line holds one sample: the coordinates, one per axis,
// followed by an optional unsigned integer weight. Fields are separated by
// whitespace or commas. Lines starting with '#' are comments.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/histkit/internal/histogram"
	"github.com/j-veylop/histkit/internal/logger"
)

// ErrMalformedSample is returned for lines that cannot be parsed.
var ErrMalformedSample = errors.New("malformed sample")

// chunkLines is the number of lines handed to a worker at a time.
const chunkLines = 1024

// Sample is one parsed line.
type Sample struct {
	Coords []float64
	Weight uint64
}

// Stats summarises an ingestion run.
type Stats struct {
	Lines   int
	Samples int
	Weight  uint64
}

func (s *Stats) merge(o Stats) {
	s.Lines += o.Lines
	s.Samples += o.Samples
	s.Weight += o.Weight
}

// ParseSample parses one line for a histogram of the given rank. ok is false
// for blank lines and comments.
func ParseSample(line string, rank int) (sample Sample, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Sample{}, false, nil
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != rank && len(fields) != rank+1 {
		return Sample{}, false, fmt.Errorf("%w: want %d or %d fields, got %d", ErrMalformedSample, rank, rank+1, len(fields))
	}

	sample.Coords = make([]float64, rank)
	for i := 0; i < rank; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Sample{}, false, fmt.Errorf("%w: coordinate %d: %v", ErrMalformedSample, i+1, err)
		}
		sample.Coords[i] = v
	}

	sample.Weight = 1
	if len(fields) == rank+1 {
		w, err := strconv.ParseUint(fields[rank], 10, 64)
		if err != nil {
			return Sample{}, false, fmt.Errorf("%w: weight: %v", ErrMalformedSample, err)
		}
		sample.Weight = w
	}

	return sample, true, nil
}

// fillLines parses and fills a batch of lines. first is the 1-based line
// number of lines[0], used in error messages.
func fillLines(h histogram.Histogram, lines []string, first int) (Stats, error) {
	var st Stats
	rank := h.Rank()
	for i, line := range lines {
		st.Lines++
		s, ok, err := ParseSample(line, rank)
		if err != nil {
			return st, fmt.Errorf("line %d: %w", first+i, err)
		}
		if !ok {
			continue
		}
		h.FillPoint(s.Coords, s.Weight)
		st.Samples++
		st.Weight += s.Weight
	}
	return st, nil
}

// FillFrom fills h with every sample read from r.
func FillFrom(ctx context.Context, h histogram.Histogram, r io.Reader) (Stats, error) {
	var st Stats
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		if lineNo%chunkLines == 0 {
			if err := ctx.Err(); err != nil {
				return st, err
			}
		}
		lineNo++
		got, err := fillLines(h, []string{scanner.Text()}, lineNo)
		st.merge(got)
		if err != nil {
			return st, err
		}
	}
	if err := scanner.Err(); err != nil {
		return st, fmt.Errorf("failed to read samples: %w", err)
	}
	return st, nil
}

type chunk struct {
	first int
	lines []string
}

// FillParallel fills h from r using one private histogram per worker and
// merges the partial results into h once all input is consumed. With more
// than one worker h is left untouched on error.
func FillParallel(ctx context.Context, h histogram.Histogram, r io.Reader, workers int) (Stats, error) {
	if workers <= 1 {
		return FillFrom(ctx, h, r)
	}

	parts := make([]histogram.Histogram, workers)
	for i := range parts {
		part, err := histogram.NewLike(h)
		if err != nil {
			return Stats{}, err
		}
		parts[i] = part
	}

	g, ctx := errgroup.WithContext(ctx)
	chunks := make(chan chunk, workers)

	g.Go(func() error {
		defer close(chunks)
		scanner := bufio.NewScanner(r)
		c := chunk{first: 1}
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			c.lines = append(c.lines, scanner.Text())
			if len(c.lines) == chunkLines {
				if err := ctx.Err(); err != nil {
					return err
				}
				select {
				case chunks <- c:
				case <-ctx.Done():
					return ctx.Err()
				}
				c = chunk{first: lineNo + 1}
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read samples: %w", err)
		}
		if len(c.lines) > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case chunks <- c:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	stats := make([]Stats, workers)
	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			for c := range chunks {
				got, err := fillLines(part, c.lines, c.first)
				stats[i].merge(got)
				if err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var total Stats
	for i, part := range parts {
		if err := histogram.Merge(h, part, 1); err != nil {
			return total, err
		}
		total.merge(stats[i])
	}
	logger.Debug("parallel fill finished", "key", h.Key(), "workers", workers, "samples", total.Samples)
	return total, nil
}
