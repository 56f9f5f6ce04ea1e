package lottie

import (
	"context"
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

func progress(t *testing.T, p *Player) float64 {
	t.Helper()
	v, ok := p.Progress()
	if !ok {
		t.Fatalf("Progress unavailable in state %v", p.State())
	}
	return v
}

func TestPlayerStyles(t *testing.T) {
	a := load(t)
	tests := []struct {
		style  Style
		at     time.Duration
		want   float64
		cycles int
		state  PlayState
	}{
		{Linear, time.Second, 0.5, 0, Playing},
		{Linear, 3 * time.Second, 1, 1, Ended},
		{Loop, 2500 * time.Millisecond, 0.25, 1, Playing},
		{Loop, 4 * time.Second, 0, 2, Playing},
		{Throbbing, 500 * time.Millisecond, 0.25, 0, Playing},
		{Throbbing, 2500 * time.Millisecond, 0.75, 1, Playing},
		{Throbbing, 4500 * time.Millisecond, 0.25, 2, Playing},
	}
	for _, tt := range tests {
		t.Run(tt.style.String()+"/"+tt.at.String(), func(t *testing.T) {
			p := NewPlayer(a)
			p.Start(PlaybackWithStyle(tt.style, a), t0)
			p.Step(at(tt.at))
			if got := progress(t, p); got != tt.want {
				t.Errorf("progress = %v, want %v", got, tt.want)
			}
			if p.CompletedCycles() != tt.cycles || p.State() != tt.state {
				t.Errorf("cycles %d state %v, want %d %v", p.CompletedCycles(), p.State(), tt.cycles, tt.state)
			}
		})
	}
}

func TestPlayerSubRange(t *testing.T) {
	a := load(t)
	p := NewPlayer(a)
	// The end is clamped to the animation duration, leaving a 1s cycle.
	p.Start(PlaybackConfig{StartOffset: time.Second, Duration: 5 * time.Second, Style: Loop}, t0)
	p.Step(at(500 * time.Millisecond))
	if got := progress(t, p); got != 0.75 {
		t.Errorf("progress = %v, want 0.75", got)
	}
	p.Step(at(1500 * time.Millisecond))
	if got := progress(t, p); got != 0.75 || p.CompletedCycles() != 1 {
		t.Errorf("progress = %v cycles %d, want 0.75 after one cycle", got, p.CompletedCycles())
	}
}

func TestPlayerPauseResume(t *testing.T) {
	a := load(t)
	p := NewPlayer(a)
	p.Start(DefaultPlayback(a), t0)
	if p.Config().Style != Loop {
		t.Errorf("default style = %v, want loop", p.Config().Style)
	}
	p.Step(at(500 * time.Millisecond))
	p.Pause()
	p.Step(at(1500 * time.Millisecond))
	if got := progress(t, p); got != 0.25 || p.State() != Paused {
		t.Errorf("paused progress = %v state %v", got, p.State())
	}
	p.Resume(at(1500 * time.Millisecond))
	p.Step(at(2 * time.Second))
	if got := progress(t, p); got != 0.5 {
		t.Errorf("resumed progress = %v, want 0.5", got)
	}
}

func TestPlayerSpeed(t *testing.T) {
	a := load(t)
	p := NewPlayer(a)
	p.SetSpeed(2)
	p.SetSpeed(0)
	p.Start(PlaybackWithStyle(Linear, a), t0)
	p.Step(at(500 * time.Millisecond))
	if got := progress(t, p); got != 0.5 {
		t.Errorf("progress at 2x = %v, want 0.5", got)
	}
}

func TestPlayerStopAndRender(t *testing.T) {
	a := load(t)
	p := NewPlayer(a)
	if _, ok := p.Progress(); ok || p.State() != Stopped {
		t.Error("new player should be stopped without progress")
	}
	p.Start(PlaybackWithStyle(Linear, a), t0)
	f, err := p.Render(context.Background(), at(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if f.Number != 29.5 {
		t.Errorf("rendered frame %v, want 29.5", f.Number)
	}
	p.Stop()
	if _, ok := p.Progress(); ok || p.State() != Stopped {
		t.Error("Stop should reset the player")
	}
}

func TestParseStyle(t *testing.T) {
	for _, s := range []Style{Linear, Throbbing, Loop} {
		if got, ok := ParseStyle(s.String()); !ok || got != s {
			t.Errorf("ParseStyle(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseStyle("bounce"); ok {
		t.Error("ParseStyle accepted an unknown name")
	}
	if Style(9).String() != "unknown" || PlayState(9).String() != "unknown" {
		t.Error("out of range values should print unknown")
	}
}
