package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/lottie"
	"github.com/gogpu/lottie/recording"
)

// Config is a batch of render jobs read from YAML:
//
//	jobs:
//	  - name: spinner
//	    input: spinner.json
//	    output: out/spinner
//	    frames: "0-59:10"
//	  - input: badge.json
//	    marker: intro
//	    format: summary
//	  - input: pulse.json
//	    playback: {style: throbbing, speed: 2, seconds: 3, fps: 10}
type Config struct {
	Jobs []Job `yaml:"jobs"`
}

// Job renders one document.
type Job struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Format string `yaml:"format"` // a recording backend or summary

	// Frame selection: Frames, then Marker, then Playback; all frames when
	// none is set.
	Frames   string    `yaml:"frames"`
	Marker   string    `yaml:"marker"`
	Step     float64   `yaml:"step"`
	Playback *Playback `yaml:"playback"`
}

// Playback samples a simulated Player instead of listing frames.
type Playback struct {
	Style   string  `yaml:"style"`
	Speed   float64 `yaml:"speed"`
	Seconds float64 `yaml:"seconds"`
	FPS     float64 `yaml:"fps"`
	Start   float64 `yaml:"start"` // offset in seconds
}

const (
	formatSVG     = "svg"
	formatSummary = "summary"
)

var errNoInput = errors.New("job without input")

// formats lists the registered recording backends plus the summary table.
func formats() []string {
	return append(recording.Backends(), formatSummary)
}

// loadConfig reads and checks a YAML config.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range cfg.Jobs {
		if err := cfg.Jobs[i].normalize(); err != nil {
			return nil, fmt.Errorf("%s: job %d: %w", path, i, err)
		}
	}
	return &cfg, nil
}

func (j *Job) normalize() error {
	if j.Input == "" {
		return errNoInput
	}
	if j.Name == "" {
		base := j.Input[strings.LastIndexAny(j.Input, `/\`)+1:]
		j.Name = strings.TrimSuffix(base, ".json")
	}
	if j.Output == "" {
		j.Output = "."
	}
	switch {
	case j.Format == "":
		j.Format = formatSVG
	case j.Format == formatSummary, slices.Contains(recording.Backends(), j.Format):
	default:
		return fmt.Errorf("unknown format %q, want %s", j.Format, strings.Join(formats(), " or "))
	}
	if j.Step <= 0 {
		j.Step = 1
	}
	if j.Frames != "" {
		if _, err := parseFrames(j.Frames); err != nil {
			return err
		}
	}
	if p := j.Playback; p != nil {
		if _, ok := lottie.ParseStyle(p.Style); !ok && p.Style != "" {
			return fmt.Errorf("unknown playback style %q", p.Style)
		}
	}
	return nil
}

// parseFrames parses a comma separated list of frames and ranges. A range
// is "from-to" with an optional ":step"; both ends are inclusive.
func parseFrames(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		step := 1.0
		if i := strings.IndexByte(part, ':'); i >= 0 {
			v, err := strconv.ParseFloat(part[i+1:], 64)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("bad step in %q", part)
			}
			step, part = v, part[:i]
		}
		// A leading minus belongs to the first number.
		if i := strings.IndexByte(part[1:], '-'); i >= 0 {
			from, err1 := strconv.ParseFloat(part[:i+1], 64)
			to, err2 := strconv.ParseFloat(part[i+2:], 64)
			if err1 != nil || err2 != nil || to < from {
				return nil, fmt.Errorf("bad frame range %q", part)
			}
			for f := from; f <= to+1e-9; f += step {
				out = append(out, f)
			}
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad frame %q", part)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no frames in %q", s)
	}
	return out, nil
}

// frames resolves the job's frame selection against a.
func (j *Job) frames(a *lottie.Animation) ([]float64, error) {
	switch {
	case j.Frames != "":
		return parseFrames(j.Frames)
	case j.Marker != "":
		m, ok := a.Document().Marker(j.Marker)
		if !ok {
			return nil, fmt.Errorf("%w: %q", lottie.ErrUnknownMarker, j.Marker)
		}
		return span(m.Time, m.Time+max(m.Duration, 1)-1, j.Step), nil
	case j.Playback != nil:
		return j.Playback.frames(a), nil
	default:
		return span(a.InPoint(), a.OutPoint()-1, j.Step), nil
	}
}

func span(from, to, step float64) []float64 {
	var out []float64
	for f := from; f <= to+1e-9; f += step {
		out = append(out, f)
	}
	return out
}

// frames steps a Player with a fake clock and collects the frame of every
// tick.
func (p *Playback) frames(a *lottie.Animation) []float64 {
	style, _ := lottie.ParseStyle(p.Style)
	if p.Style == "" {
		style = lottie.Loop
	}
	fps := p.FPS
	if fps <= 0 {
		fps = a.FrameRate()
	}
	seconds := p.Seconds
	if seconds <= 0 {
		seconds = a.Duration().Seconds()
	}
	cfg := lottie.PlaybackWithStyle(style, a)
	cfg.StartOffset = time.Duration(p.Start * float64(time.Second))
	cfg.Duration -= cfg.StartOffset

	player := lottie.NewPlayer(a)
	if p.Speed > 0 {
		player.SetSpeed(p.Speed)
	}
	clock := time.Unix(0, 0)
	player.Start(cfg, clock)

	n := int(math.Round(seconds * fps))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		player.Step(clock.Add(time.Duration(float64(i) / fps * float64(time.Second))))
		out = append(out, player.Frame())
	}
	return out
}
