// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"

	"github.com/j-veylop/histkit/internal/histogram"
)

// AxisDefinition describes one axis of a histogram definition.
type AxisDefinition struct {
	Channels int     `yaml:"channels"`
	Left     float64 `yaml:"left"`
	Right    float64 `yaml:"right"`
	Title    string  `yaml:"title"`
}

// Definition describes a histogram to be created.
type Definition struct {
	Name  string           `yaml:"name"`
	Title string           `yaml:"title"`
	Path  string           `yaml:"path"`
	Axes  []AxisDefinition `yaml:"axes"`
}

// Key returns the path/name key of the definition.
func (d Definition) Key() string {
	return histogram.JoinKey(d.Path, d.Name)
}

// Build creates the histogram described by d.
func (d Definition) Build(opts ...histogram.Option) (histogram.Histogram, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("histogram definition without a name")
	}
	axes := make([]histogram.Axis, 0, len(d.Axes))
	for _, ad := range d.Axes {
		a, err := histogram.NewAxis(ad.Channels, ad.Left, ad.Right, ad.Title)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Key(), err)
		}
		axes = append(axes, a)
	}
	h, err := histogram.New(d.Name, d.Title, axes, append([]histogram.Option{histogram.WithPath(d.Path)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Key(), err)
	}
	return h, nil
}

// Summary is the stored description of a histogram, without bin contents.
type Summary struct {
	Path      string
	Name      string
	Title     string
	Rank      int
	Entries   uint64
	Slots     int
	UpdatedAt time.Time
}

// Key returns the path/name key of the summary.
func (s Summary) Key() string {
	return histogram.JoinKey(s.Path, s.Name)
}
