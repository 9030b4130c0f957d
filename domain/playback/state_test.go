package playback

import (
	"testing"
)

const maxDay = 364

func TestScrubClampsOutOfRangeDays(t *testing.T) {
	tests := []struct {
		name     string
		day      int
		expected int
	}{
		{"negative day clamps to zero", -10, 0},
		{"zero stays zero", 0, 0},
		{"in-range day is kept", 120, 120},
		{"max day is kept", maxDay, maxDay},
		{"past the end clamps to max", maxDay + 50, maxDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(false, 1, 10, LoopStopAtEnd).Scrub(tt.day, maxDay)
			if s.Day != tt.expected {
				t.Errorf("Scrub(%d) day = %d, want %d", tt.day, s.Day, tt.expected)
			}
			if s.Playing {
				t.Errorf("Scrub(%d) changed the playing flag", tt.day)
			}
		})
	}
}

func TestTickWhilePausedIsNoOp(t *testing.T) {
	s := NewState(false, 5, 10, LoopStopAtEnd).Scrub(100, maxDay)

	next, advanced := s.Tick(maxDay)
	if advanced {
		t.Error("Tick while paused reported an advance")
	}
	if next != s {
		t.Errorf("Tick while paused changed state: %+v -> %+v", s, next)
	}
}

func TestTickStopAtEndClampsAndPauses(t *testing.T) {
	s := NewState(true, 5, 10, LoopStopAtEnd).Scrub(maxDay-2, maxDay)

	// The tick that passes the end must clamp to exactly maxDay and pause
	// within the same tick.
	next, advanced := s.Tick(maxDay)
	if !advanced {
		t.Fatal("expected the boundary tick to advance")
	}
	if next.Day != maxDay {
		t.Errorf("boundary tick day = %d, want %d", next.Day, maxDay)
	}
	if next.Playing {
		t.Error("boundary tick left the machine playing at the last day")
	}

	// Further ticks never advance past maxDay.
	for i := 0; i < 3; i++ {
		again, adv := next.Tick(maxDay)
		if adv {
			t.Errorf("tick %d after the end advanced", i)
		}
		if again.Day != maxDay {
			t.Errorf("tick %d after the end moved day to %d", i, again.Day)
		}
		next = again
	}
}

func TestTickStopAtEndExactLanding(t *testing.T) {
	// Landing exactly on maxDay does not pause: only exceeding it does.
	s := NewState(true, 4, 10, LoopStopAtEnd).Scrub(maxDay-4, maxDay)
	next, _ := s.Tick(maxDay)
	if next.Day != maxDay {
		t.Fatalf("day = %d, want %d", next.Day, maxDay)
	}
	if !next.Playing {
		t.Error("exact landing on the last day paused early")
	}
	// The following tick exceeds the end, clamps and pauses.
	next, _ = next.Tick(maxDay)
	if next.Day != maxDay || next.Playing {
		t.Errorf("post-landing tick = %+v, want day %d paused", next, maxDay)
	}
}

func TestTickLoopWrapsToZeroAndKeepsPlaying(t *testing.T) {
	s := NewState(true, 10, 10, LoopRestart).Scrub(maxDay-3, maxDay)

	next, advanced := s.Tick(maxDay)
	if !advanced {
		t.Fatal("expected the wrapping tick to advance")
	}
	if next.Day != 0 {
		t.Errorf("wrapping tick day = %d, want 0", next.Day)
	}
	if !next.Playing {
		t.Error("wrapping tick paused the machine")
	}
}

func TestJumpToEndIgnoresPlaybackState(t *testing.T) {
	for _, playing := range []bool{true, false} {
		s := NewState(playing, 5, 10, LoopStopAtEnd)
		next := s.JumpToEnd(maxDay)
		if next.Day != maxDay {
			t.Errorf("JumpToEnd day = %d, want %d", next.Day, maxDay)
		}
		if next.Playing != playing {
			t.Error("JumpToEnd changed the playing flag")
		}
	}
}

func TestStartRewindsWithoutPausing(t *testing.T) {
	s := NewState(true, 5, 10, LoopStopAtEnd).Scrub(200, maxDay)
	next := s.Start()
	if next.Day != 0 {
		t.Errorf("Start day = %d, want 0", next.Day)
	}
	if !next.Playing {
		t.Error("Start changed the playing flag")
	}
}

func TestParameterSettersClampToMinimums(t *testing.T) {
	s := NewState(false, 5, 10, LoopStopAtEnd)
	if got := s.SetStepDays(0).StepDays; got != 1 {
		t.Errorf("SetStepDays(0) = %d, want 1", got)
	}
	if got := s.SetFPS(-3).FPS; got != 1 {
		t.Errorf("SetFPS(-3) = %d, want 1", got)
	}
	if got := NewState(false, 0, 0, LoopStopAtEnd); got.StepDays != 1 || got.FPS != 1 {
		t.Errorf("NewState clamps = %+v, want step 1 fps 1", got)
	}
}

func TestParseLoopMode(t *testing.T) {
	if ParseLoopMode("loop") != LoopRestart {
		t.Error(`ParseLoopMode("loop") != LoopRestart`)
	}
	if ParseLoopMode("stop-at-end") != LoopStopAtEnd {
		t.Error(`ParseLoopMode("stop-at-end") != LoopStopAtEnd`)
	}
	if ParseLoopMode("") != LoopStopAtEnd {
		t.Error("unknown spellings must mean stop-at-end")
	}
}
