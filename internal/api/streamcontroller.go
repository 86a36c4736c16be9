package api

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ivlev/overlaycue/internal/logging"
	"github.com/ivlev/overlaycue/internal/timeline"
)

// Tick is one playback-clock reading pushed by a client
type Tick struct {
	T        *float64 `json:"t"`
	Viewport string   `json:"viewport,omitempty"`
	Width    int      `json:"width,omitempty"` // px, used when viewport is empty
}

// Message is what the server sends on the stream
type Message struct {
	Type     string               `json:"type"` // hello, state or error
	Session  string               `json:"session,omitempty"`
	Page     string               `json:"page,omitempty"`
	Language timeline.Language    `json:"language,omitempty"`
	State    *timeline.FrameState `json:"state,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// RegisterStreamRoutes registers the websocket tick stream.
func RegisterStreamRoutes(r *gin.Engine, s *Server) {
	r.GET("/ws/pages/:page", s.handleStream)
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(s.origins) == 0 || origin == "" || slices.Contains(s.origins, origin)
		},
	}
}

// handleStream answers every tick with the frame state of the page. The
// clock lives in the client; a tick that jumps backward (loop, seek) is
// answered like any other.
func (s *Server) handleStream(c *gin.Context) {
	st, ok := s.stage(c)
	if !ok {
		return
	}
	conn, err := s.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.RequestLogger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	log := logging.RequestLogger.With("session", session, "page", st.Page())
	log.Debug("stream opened")

	if err := conn.WriteJSON(Message{Type: "hello", Session: session, Page: st.Page(), Language: st.Language()}); err != nil {
		return
	}

	for {
		var tick Tick
		if err := conn.ReadJSON(&tick); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("stream read failed", "error", err)
			}
			log.Debug("stream closed")
			return
		}

		reply := s.answer(st.State, tick)
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("stream write failed", "error", err)
			return
		}
	}
}

func (s *Server) answer(state func(float64, timeline.Viewport) (timeline.FrameState, error), tick Tick) Message {
	if tick.T == nil {
		return Message{Type: "error", Error: "missing t"}
	}
	width := ""
	if tick.Width != 0 {
		width = strconv.Itoa(tick.Width)
	}
	vp, err := s.resolveViewport(tick.Viewport, width)
	if err != nil {
		return Message{Type: "error", Error: err.Error()}
	}
	fs, err := state(*tick.T, vp)
	if err != nil {
		return Message{Type: "error", Error: err.Error()}
	}
	return Message{Type: "state", State: &fs}
}
