package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/lottie"
)

const pulse = "../../testdata/pulse.json"

var quiet = slog.New(slog.DiscardHandler)

func TestParseFrames(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"0", []float64{0}, false},
		{"0, 15,30", []float64{0, 15, 30}, false},
		{"10-13", []float64{10, 11, 12, 13}, false},
		{"0-20:10,7.5", []float64{0, 10, 20, 7.5}, false},
		{"-2-0", []float64{-2, -1, 0}, false},
		{"", nil, true},
		{"a", nil, true},
		{"5-1", nil, true},
		{"0-4:0", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFrames(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFrames(%q) error = %v", tt.in, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseFrames(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.yaml")
	cfg := `jobs:
  - input: ` + pulse + `
    frames: "0-59:30"
  - name: intro
    input: ` + pulse + `
    marker: intro
    step: 10
    format: summary
  - input: ` + pulse + `
    playback: {style: throbbing, seconds: 4, fps: 2}
`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(c.Jobs) != 3 {
		t.Fatalf("got %d jobs", len(c.Jobs))
	}
	j := c.Jobs[0]
	if j.Name != "pulse" || j.Format != formatSVG || j.Output != "." || j.Step != 1 {
		t.Errorf("defaults not applied: %+v", j)
	}

	anim, err := lottie.LoadFile(pulse)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		job  Job
		want []float64
	}{
		{c.Jobs[0], []float64{0, 30}},
		{c.Jobs[1], []float64{0, 10, 20}},
		// Forward for 2s, back for 2s.
		{c.Jobs[2], []float64{0, 14.75, 29.5, 44.25, 59, 44.25, 29.5, 14.75, 0}},
	}
	for _, tt := range tests {
		got, err := tt.job.frames(anim)
		if err != nil {
			t.Fatalf("%s: %v", tt.job.Name, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("%s frames = %v, want %v", tt.job.Name, got, tt.want)
		}
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no input", "jobs:\n  - name: x\n", "without input"},
		{"format", "jobs:\n  - input: a.json\n    format: gif\n", `unknown format "gif", want svg or summary`},
		{"style", "jobs:\n  - input: a.json\n    playback: {style: bounce}\n", "playback style"},
		{"frames", "jobs:\n  - input: a.json\n    frames: x\n", "bad frame"},
		{"yaml", "jobs: [", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := loadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestRunJobs(t *testing.T) {
	out := t.TempDir()
	jobs := []Job{
		{Name: "svg", Input: pulse, Output: out, Frames: "0,29.5,59", Format: formatSVG, Step: 1},
		{Name: "sum", Input: pulse, Output: out, Frames: "10", Format: formatSummary, Step: 1},
	}
	results, err := runJobs(context.Background(), jobs, quiet)
	if err != nil {
		t.Fatalf("runJobs: %v", err)
	}
	if len(results[0].files) != 3 || results[0].frames != 3 {
		t.Fatalf("svg job wrote %v", results[0].files)
	}
	want := filepath.Join(out, "svg_0029.5.svg")
	if results[0].files[1] != want {
		t.Errorf("file name = %s, want %s", results[0].files[1], want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	for _, s := range []string{`viewBox="0 0 100 100"`, `<path d="M`, `xlink:href="images/img_0.png"`, `<g opacity="0.5">`} {
		if !strings.Contains(doc, s) {
			t.Errorf("svg lacks %s", s)
		}
	}

	rows := results[1].rows
	if len(rows) != 2 || rows[0][1] != "badge" || rows[1][1] != "dot" || rows[1][4] != "2" {
		t.Errorf("summary rows = %v", rows)
	}
}

func TestRunJobsError(t *testing.T) {
	jobs := []Job{{Name: "missing", Input: "does-not-exist.json", Format: formatSummary, Step: 1}}
	if _, err := runJobs(context.Background(), jobs, quiet); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("error = %v", err)
	}
}

func TestFrameName(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0000"}, {12, "0012"}, {12.5, "0012.5"}, {12345, "12345"},
		{-5, "-0005"}, {-2.5, "-0002.5"},
	}
	for _, tt := range tests {
		if got := frameName(tt.in); got != tt.want {
			t.Errorf("frameName(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormats(t *testing.T) {
	got := formats()
	if !slices.Contains(got, formatSVG) || got[len(got)-1] != formatSummary {
		t.Errorf("formats() = %v, want the svg backend and summary", got)
	}
}
