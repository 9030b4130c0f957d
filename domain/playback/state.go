// Package playback implements the autoplay state machine for the day index.
// State is an immutable value object: every transition takes a State and
// returns a new one, so the machine is independent of any rendering layer.
package playback

// LoopMode controls what a tick does when it would advance past the last day.
type LoopMode int

const (
	// LoopStopAtEnd clamps to the last day and pauses.
	LoopStopAtEnd LoopMode = iota
	// LoopRestart wraps around to day 0 and keeps playing.
	LoopRestart
)

func (m LoopMode) String() string {
	if m == LoopRestart {
		return "loop"
	}
	return "stop-at-end"
}

// ParseLoopMode maps the wire/config spelling onto a LoopMode. Anything that
// is not "loop" means stop-at-end.
func ParseLoopMode(s string) LoopMode {
	if s == "loop" {
		return LoopRestart
	}
	return LoopStopAtEnd
}

// State holds the playback position and parameters. Day is always within
// [0, maxDay]; the transition functions maintain that bound.
type State struct {
	Day      int      `json:"day"`
	Playing  bool     `json:"playing"`
	StepDays int      `json:"step_days"`
	FPS      int      `json:"fps"`
	Loop     LoopMode `json:"loop_mode"`
}

// NewState returns the initial state: day 0, playing iff autoPlay.
func NewState(autoPlay bool, stepDays, fps int, loop LoopMode) State {
	return State{
		Day:      0,
		Playing:  autoPlay,
		StepDays: clampMin(stepDays, 1),
		FPS:      clampMin(fps, 1),
		Loop:     loop,
	}
}

// Start rewinds to day 0. The playing flag is unchanged.
func (s State) Start() State {
	s.Day = 0
	return s
}

// TogglePlayPause flips between Playing and Paused.
func (s State) TogglePlayPause() State {
	s.Playing = !s.Playing
	return s
}

// JumpToEnd moves to the last day. The playing flag is unchanged.
func (s State) JumpToEnd(maxDay int) State {
	s.Day = maxDay
	return s
}

// Scrub moves to an arbitrary day. Out-of-range values are clamped, never
// rejected.
func (s State) Scrub(day, maxDay int) State {
	if day < 0 {
		day = 0
	}
	if day > maxDay {
		day = maxDay
	}
	s.Day = day
	return s
}

// Tick advances the day by the step size. While paused it is a no-op. In
// stop-at-end mode a tick that reaches or passes maxDay clamps to exactly
// maxDay and pauses within the same tick; in loop mode it wraps to day 0 and
// keeps playing. The advanced return value reports whether the state changed.
func (s State) Tick(maxDay int) (State, bool) {
	if !s.Playing {
		return s, false
	}
	next := s.Day + s.StepDays
	if next > maxDay {
		if s.Loop == LoopRestart {
			next = 0
		} else {
			next = maxDay
			s.Playing = false
		}
	}
	s.Day = next
	return s, true
}

// SetStepDays sets the per-tick step size, effective on the next tick.
func (s State) SetStepDays(step int) State {
	s.StepDays = clampMin(step, 1)
	return s
}

// SetFPS sets the target frame rate, effective on the next tick.
func (s State) SetFPS(fps int) State {
	s.FPS = clampMin(fps, 1)
	return s
}

// SetLoop sets the loop mode, effective on the next tick.
func (s State) SetLoop(mode LoopMode) State {
	s.Loop = mode
	return s
}

func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}
