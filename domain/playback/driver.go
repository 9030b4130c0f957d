package playback

import (
	"context"
	"sync"
	"time"
)

// FrameFunc is called after every state change with the new state. For ticks
// it fires after the throttle sleep, mirroring the mutate-sleep-rerender
// order of the original animation loop.
type FrameFunc func(State)

// Driver runs the autoplay loop for one session. A single goroutine owns the
// loop, so ticks are serialized: a pause request is observed at the start of
// the next tick, never mid-tick.
type Driver struct {
	mu     sync.Mutex
	state  State
	maxDay int
	wake   chan struct{}
	frame  FrameFunc

	// sleep is swappable for tests.
	sleep func(time.Duration)
}

// NewDriver creates a driver with the given initial state.
func NewDriver(initial State, maxDay int, frame FrameFunc) *Driver {
	return &Driver{
		state:  initial,
		maxDay: maxDay,
		wake:   make(chan struct{}, 1),
		frame:  frame,
		sleep:  time.Sleep,
	}
}

// State returns a snapshot of the current playback state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Apply runs a transition against the current state and publishes the result
// as a frame. It also wakes the run loop in case the transition resumed
// playback.
func (d *Driver) Apply(fn func(State) State) State {
	d.mu.Lock()
	d.state = fn(d.state)
	next := d.state
	d.mu.Unlock()

	if d.frame != nil {
		d.frame(next)
	}
	select {
	case d.wake <- struct{}{}:
	default:
	}
	return next
}

// Run drives the autoplay loop until the context is cancelled. While paused
// it blocks waiting for a wake-up; while playing it ticks, sleeps 1/FPS and
// then publishes the frame.
func (d *Driver) Run(ctx context.Context) {
	for {
		d.mu.Lock()
		playing := d.state.Playing
		d.mu.Unlock()

		if !playing {
			select {
			case <-ctx.Done():
				return
			case <-d.wake:
				continue
			}
		}

		d.mu.Lock()
		next, advanced := d.state.Tick(d.maxDay)
		d.state = next
		fps := next.FPS
		d.mu.Unlock()

		if !advanced {
			continue
		}

		// Throttle before triggering the re-render, like the original
		// sleep-then-rerun loop.
		d.sleep(time.Second / time.Duration(fps))

		select {
		case <-ctx.Done():
			return
		default:
		}
		if d.frame != nil {
			d.frame(next)
		}
	}
}
