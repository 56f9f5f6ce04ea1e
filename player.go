package lottie

import (
	"context"
	"time"
)

// Style selects how a Player runs through its time range.
type Style int

const (
	// Linear plays the range once and stops on the last frame.
	Linear Style = iota
	// Throbbing plays the range forward, then backward, repeatedly.
	Throbbing
	// Loop plays the range forward repeatedly.
	Loop
)

func (s Style) String() string {
	switch s {
	case Linear:
		return "linear"
	case Throbbing:
		return "throbbing"
	case Loop:
		return "loop"
	default:
		return unknownStr
	}
}

const unknownStr = "unknown"

// ParseStyle converts a style name as printed by String.
func ParseStyle(s string) (Style, bool) {
	for _, st := range []Style{Linear, Throbbing, Loop} {
		if st.String() == s {
			return st, true
		}
	}
	return Linear, false
}

// PlaybackConfig selects the time range a Player covers: from StartOffset
// to StartOffset+Duration, both measured from the first frame. Out of range
// values are clamped to the animation.
type PlaybackConfig struct {
	StartOffset time.Duration
	Duration    time.Duration
	Style       Style
}

// DefaultPlayback loops over the whole animation.
func DefaultPlayback(a *Animation) PlaybackConfig {
	return PlaybackWithStyle(Loop, a)
}

// PlaybackWithStyle plays the whole animation with the given style.
func PlaybackWithStyle(style Style, a *Animation) PlaybackConfig {
	return PlaybackConfig{Duration: a.Duration(), Style: style}
}

// PlayState is the state of a Player.
type PlayState int

// Player states.
const (
	Stopped PlayState = iota
	Playing
	Paused
	Ended
)

func (s PlayState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return unknownStr
	}
}

// Player converts wall-clock ticks into frames of one Animation. The
// caller owns the clock: it passes a timestamp to Step on every tick and
// renders the resulting Frame. Several players driven by the same ticks
// stay in sync.
//
// Example:
//
//	p := lottie.NewPlayer(anim)
//	p.Start(lottie.PlaybackWithStyle(lottie.Throbbing, anim), time.Now())
//	for range ticker.C {
//	    frame, err := p.Render(ctx, time.Now())
//	    ...
//	}
//
// A Player is not safe for concurrent use.
type Player struct {
	anim  *Animation
	cfg   PlaybackConfig
	state PlayState
	speed float64

	start, end time.Duration // clamped range, from the first frame
	last       time.Time
	elapsed    time.Duration // scaled by speed, monotonically increasing
	cycles     int
	position   time.Duration // within the current cycle, from start
}

// NewPlayer creates a stopped player.
func NewPlayer(a *Animation) *Player {
	return &Player{anim: a, speed: 1}
}

// Start begins playback of cfg at now.
func (p *Player) Start(cfg PlaybackConfig, now time.Time) {
	total := p.anim.Duration()
	p.cfg = cfg
	p.start = min(max(cfg.StartOffset, 0), total)
	p.end = min(max(cfg.StartOffset+cfg.Duration, p.start), total)
	p.last = now
	p.elapsed = 0
	p.cycles = 0
	p.position = 0
	p.state = Playing
}

// Pause freezes playback at its current position.
func (p *Player) Pause() {
	if p.state == Playing {
		p.state = Paused
	}
}

// Resume continues a paused player; time spent paused is skipped.
func (p *Player) Resume(now time.Time) {
	if p.state == Paused {
		p.state = Playing
		p.last = now
	}
}

// Stop resets the player to the first frame.
func (p *Player) Stop() {
	*p = Player{anim: p.anim, speed: p.speed}
}

// SetSpeed changes the playback rate: 1 is real time, 2 twice as fast.
// Non-positive speeds are ignored.
func (p *Player) SetSpeed(speed float64) {
	if speed > 0 {
		p.speed = speed
	}
}

// State returns the current state.
func (p *Player) State() PlayState { return p.state }

// Config returns the configuration passed to Start.
func (p *Player) Config() PlaybackConfig { return p.cfg }

// CompletedCycles returns how many times the range has been covered.
func (p *Player) CompletedCycles() int { return p.cycles }

// Step advances playback to now.
func (p *Player) Step(now time.Time) {
	if p.state != Playing {
		return
	}
	if d := now.Sub(p.last); d > 0 {
		p.elapsed += time.Duration(float64(d) * p.speed)
	}
	p.last = now

	cycle := p.end - p.start
	if cycle <= 0 {
		p.position = 0
		if p.cfg.Style == Linear {
			p.state = Ended
		}
		return
	}
	p.cycles = int(p.elapsed / cycle)
	p.position = p.elapsed % cycle
	switch p.cfg.Style {
	case Linear:
		if p.cycles > 0 {
			p.cycles = 1
			p.position = cycle
			p.state = Ended
		}
	case Throbbing:
		if p.cycles%2 == 1 {
			p.position = cycle - p.position
		}
	}
}

// Progress returns the normalized position within the whole animation: 0
// is the first frame and 1 the last. It reports false while stopped.
func (p *Player) Progress() (float64, bool) {
	if p.state == Stopped {
		return 0, false
	}
	total := p.anim.Duration()
	if total <= 0 {
		return 0, true
	}
	return float64(p.start+p.position) / float64(total), true
}

// Frame returns the document frame for the current position.
func (p *Player) Frame() float64 {
	t, _ := p.Progress()
	return p.anim.FrameAt(t)
}

// Render steps to now and renders the current frame.
func (p *Player) Render(ctx context.Context, now time.Time) (*Frame, error) {
	p.Step(now)
	return p.anim.Render(ctx, p.Frame())
}
