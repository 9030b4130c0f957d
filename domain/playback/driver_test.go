package playback

import (
	"context"
	"sync"
	"testing"
	"time"
)

// collectFrames gathers frames published by a driver until the expected
// count arrives or the timeout fires.
type frameCollector struct {
	mu     sync.Mutex
	frames []State
}

func (c *frameCollector) add(s State) {
	c.mu.Lock()
	c.frames = append(c.frames, s)
	c.mu.Unlock()
}

func (c *frameCollector) snapshot() []State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]State, len(c.frames))
	copy(out, c.frames)
	return out
}

func (c *frameCollector) waitFor(t *testing.T, n int) []State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if frames := c.snapshot(); len(frames) >= n {
			return frames
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d frames (have %d)", n, len(c.snapshot()))
	return nil
}

func TestDriverTicksUntilStopAtEnd(t *testing.T) {
	collector := &frameCollector{}
	d := NewDriver(NewState(true, 100, 1000, LoopStopAtEnd), 364, collector.add)
	d.sleep = func(time.Duration) {}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	// 0 -> 100 -> 200 -> 300 -> 364(paused); four frames then silence.
	frames := collector.waitFor(t, 4)
	days := []int{frames[0].Day, frames[1].Day, frames[2].Day, frames[3].Day}
	want := []int{100, 200, 300, 364}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("frame %d day = %d, want %d", i, days[i], want[i])
		}
	}
	if frames[3].Playing {
		t.Error("final frame should be paused")
	}

	// Give the loop a chance to misbehave; no further frames may appear.
	time.Sleep(20 * time.Millisecond)
	if got := len(collector.snapshot()); got > 4 {
		t.Errorf("driver kept ticking after stop-at-end: %d frames", got)
	}
	if st := d.State(); st.Day != 364 || st.Playing {
		t.Errorf("resting state = %+v, want day 364 paused", st)
	}
}

func TestDriverLoopModeWrapsForever(t *testing.T) {
	collector := &frameCollector{}
	d := NewDriver(NewState(true, 200, 1000, LoopRestart), 364, collector.add)
	d.sleep = func(time.Duration) {}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	frames := collector.waitFor(t, 5)
	sawWrap := false
	for _, f := range frames {
		if f.Day == 0 {
			sawWrap = true
		}
		if !f.Playing {
			t.Errorf("loop mode paused at day %d", f.Day)
		}
	}
	if !sawWrap {
		t.Error("never wrapped back to day 0")
	}
}

func TestDriverApplyWakesPausedLoop(t *testing.T) {
	collector := &frameCollector{}
	d := NewDriver(NewState(false, 50, 1000, LoopStopAtEnd), 364, collector.add)
	d.sleep = func(time.Duration) {}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	// Paused: no frames arrive on their own.
	time.Sleep(10 * time.Millisecond)
	if got := len(collector.snapshot()); got != 0 {
		t.Fatalf("paused driver published %d frames", got)
	}

	d.Apply(State.TogglePlayPause)

	// The Apply itself publishes one frame, then ticking resumes.
	frames := collector.waitFor(t, 3)
	if !frames[0].Playing {
		t.Error("first frame after resume should be playing")
	}
}

func TestDriverScrubWhilePaused(t *testing.T) {
	d := NewDriver(NewState(false, 5, 10, LoopStopAtEnd), 364, nil)

	st := d.Apply(func(s State) State { return s.Scrub(9999, 364) })
	if st.Day != 364 {
		t.Errorf("scrub past the end landed on %d, want 364", st.Day)
	}
	st = d.Apply(func(s State) State { return s.Scrub(-1, 364) })
	if st.Day != 0 {
		t.Errorf("scrub before the start landed on %d, want 0", st.Day)
	}
}
