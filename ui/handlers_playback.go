package ui

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketviz/domain/playback"
	"marketviz/internal/session"
)

// sessionFromQuery resolves the session named by ?session=ID. A missing or
// unknown ID yields an error response and a false second return.
func (s *Server) sessionFromQuery(c *gin.Context) (*session.Session, bool) {
	id := c.Query("session")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session query parameter is required"})
		return nil, false
	}
	found, exists := s.sessions.Get(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return found, true
}

func stateJSON(id string, st playback.State) gin.H {
	return gin.H{
		"session_id": id,
		"day":        st.Day,
		"playing":    st.Playing,
		"step_days":  st.StepDays,
		"fps":        st.FPS,
		"loop_mode":  st.Loop.String(),
	}
}

// handleCreateSession starts a new playback session. When auto-play is
// configured the session is already ticking by the time this returns.
func (s *Server) handleCreateSession(c *gin.Context) {
	sess := s.sessions.Create()
	log.Printf("[Playback] Session %s created (total %d)", sess.ID, s.sessions.Count())
	c.JSON(http.StatusCreated, gin.H{
		"session_id": sess.ID,
		"max_day":    s.sessions.MaxDay(),
		"state":      stateJSON(sess.ID, sess.State()),
	})
}

func (s *Server) handleCloseSession(c *gin.Context) {
	id := c.Param("id")
	s.sessions.Close(id)
	log.Printf("[Playback] Session %s closed (total %d)", id, s.sessions.Count())
	c.JSON(http.StatusOK, gin.H{"closed": id})
}

func (s *Server) handlePlaybackState(c *gin.Context) {
	sess, ok := s.sessionFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateJSON(sess.ID, sess.State()))
}

func (s *Server) handleToggle(c *gin.Context) {
	sess, ok := s.sessionFromQuery(c)
	if !ok {
		return
	}
	st := sess.Apply(playback.State.TogglePlayPause)
	c.JSON(http.StatusOK, stateJSON(sess.ID, st))
}

func (s *Server) handleStart(c *gin.Context) {
	sess, ok := s.sessionFromQuery(c)
	if !ok {
		return
	}
	st := sess.Apply(playback.State.Start)
	c.JSON(http.StatusOK, stateJSON(sess.ID, st))
}

func (s *Server) handleEnd(c *gin.Context) {
	sess, ok := s.sessionFromQuery(c)
	if !ok {
		return
	}
	maxDay := s.sessions.MaxDay()
	st := sess.Apply(func(st playback.State) playback.State {
		return st.JumpToEnd(maxDay)
	})
	c.JSON(http.StatusOK, stateJSON(sess.ID, st))
}

// handleScrub moves the session to an arbitrary day. Out-of-range days are
// clamped by the state machine, never rejected.
func (s *Server) handleScrub(c *gin.Context) {
	sess, ok := s.sessionFromQuery(c)
	if !ok {
		return
	}
	var req struct {
		Day *int `json:"day"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Day == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day is required"})
		return
	}
	maxDay := s.sessions.MaxDay()
	st := sess.Apply(func(st playback.State) playback.State {
		return st.Scrub(*req.Day, maxDay)
	})
	c.JSON(http.StatusOK, stateJSON(sess.ID, st))
}

// handleOptions adjusts step size, frame rate, or loop mode mid-run. Omitted
// fields keep their current values; changes take effect on the next tick.
func (s *Server) handleOptions(c *gin.Context) {
	sess, ok := s.sessionFromQuery(c)
	if !ok {
		return
	}
	var req struct {
		StepDays *int    `json:"step_days"`
		FPS      *int    `json:"fps"`
		LoopMode *string `json:"loop_mode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid options payload"})
		return
	}
	st := sess.Apply(func(st playback.State) playback.State {
		if req.StepDays != nil {
			st = st.SetStepDays(*req.StepDays)
		}
		if req.FPS != nil {
			st = st.SetFPS(*req.FPS)
		}
		if req.LoopMode != nil {
			st = st.SetLoop(playback.ParseLoopMode(*req.LoopMode))
		}
		return st
	})
	c.JSON(http.StatusOK, stateJSON(sess.ID, st))
}
