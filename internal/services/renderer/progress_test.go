package renderer_test

import (
	"testing"

	"visionforge/internal/services/renderer"
)

func TestParseProgress(t *testing.T) {
	cases := []struct {
		name    string
		line    string
		want    int
		matched bool
	}{
		{"explicit percent", "Rendering 42%", 42, true},
		{"percent with decimals", "bundling 87.5% done", 87, true},
		{"fraction", "Rendered frames 120/480", 25, true},
		{"fraction complete", "480/480 frames", 99, true},
		{"percent caps at 99", "encoded 100%", 99, true},
		{"over-reported percent", "progress 250%", 99, true},
		{"zero", "starting 0%", 0, true},
		{"percent wins over fraction", "frame 10/100 (55%)", 55, true},
		{"no token", "Launching headless browser", 0, false},
		{"zero total ignored", "chunk 3/0", 0, false},
		{"empty", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, matched := renderer.ParseProgress(tc.line)
			if matched != tc.matched {
				t.Fatalf("ParseProgress(%q) matched=%v, want %v", tc.line, matched, tc.matched)
			}
			if got != tc.want {
				t.Fatalf("ParseProgress(%q) = %d, want %d", tc.line, got, tc.want)
			}
		})
	}
}
