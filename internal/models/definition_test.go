package models

import (
	"errors"
	"testing"

	"github.com/j-veylop/histkit/internal/histogram"
)

func TestDefinition_Build(t *testing.T) {
	def := Definition{
		Name:  "ee",
		Title: "E-E matrix",
		Path:  "ge",
		Axes: []AxisDefinition{
			{Channels: 100, Left: 0, Right: 1000, Title: "E1"},
			{Channels: 50, Left: 0, Right: 500, Title: "E2"},
		},
	}

	h, err := def.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if h.Rank() != 2 {
		t.Errorf("Rank() = %d, want 2", h.Rank())
	}
	if h.Key() != "ge/ee" || def.Key() != "ge/ee" {
		t.Errorf("keys = %q, %q", h.Key(), def.Key())
	}
	if len(h.Contents()) != 102*52 {
		t.Errorf("len(Contents()) = %d", len(h.Contents()))
	}
}

func TestDefinition_BuildErrors(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		want error
	}{
		{"BadAxis", Definition{Name: "a", Axes: []AxisDefinition{{Channels: 0, Left: 0, Right: 1}}}, histogram.ErrInvalidAxis},
		{"NoAxes", Definition{Name: "a"}, histogram.ErrInvalidAxis},
		{"NoName", Definition{Axes: []AxisDefinition{{Channels: 1, Left: 0, Right: 1}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.def.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	if got := (Summary{Name: "x"}).Key(); got != "x" {
		t.Errorf("Key() = %q", got)
	}
	if got := (Definition{Path: "ge/", Name: "x"}).Key(); got != "ge/x" {
		t.Errorf("Definition.Key() = %q, want ge/x", got)
	}
	if got := (Summary{Path: "p", Name: "x"}).Key(); got != "p/x" {
		t.Errorf("Key() = %q", got)
	}
}
