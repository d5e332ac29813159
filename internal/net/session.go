package net

import (
	"bytes"
	"encoding/json"
	"image/png"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"LocalSketch/internal/errors"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
	"LocalSketch/internal/surface"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 16 << 20 // uploads arrive base64-encoded
	sendBuffer     = 32
)

// session is one browser connection with its own drawing surface. The
// reader goroutine drives the surface; the writer goroutine owns all
// writes to conn.
type session struct {
	id      string
	conn    *websocket.Conn
	surface *surface.Surface
	log     *log.Logger

	send   chan []byte   // JSON text messages
	frames chan struct{} // 1-slot: a new frame is pending
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	prompts map[string]func(string, bool)
}

func newSession(conn *websocket.Conn, opts surface.Options, logger *log.Logger) *session {
	id := uuid.NewString()
	s := &session{
		id:      id,
		conn:    conn,
		log:     logger.With("session", id[:8]),
		send:    make(chan []byte, sendBuffer),
		frames:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		prompts: make(map[string]func(string, bool)),
	}
	opts.Logger = s.log
	s.surface = surface.New(opts)
	s.surface.SetPrompter(surface.PrompterFunc(s.requestText))
	s.surface.OnChange = func(state.Rect) { s.pushFrame() }
	opts = s.surface.Options()
	s.surface.Attach(render.NewRaster(opts.Width, opts.Height))
	return s
}

func (s *session) hello() helloMessage {
	opts := s.surface.Options()
	return helloMessage{
		Type:    TypeHello,
		Session: s.id,
		Width:   opts.Width,
		Height:  opts.Height,
		Tool:    s.surface.Tool().String(),
		Color:   state.FormatColor(s.surface.Color()),
	}
}

func (s *session) settings() settingsMessage {
	return settingsMessage{
		Type:  TypeSettings,
		Tool:  s.surface.Tool().String(),
		Color: state.FormatColor(s.surface.Color()),
	}
}

// close stops the writer and closes the connection. Safe to call twice.
func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *session) pushFrame() {
	select {
	case s.frames <- struct{}{}:
	default:
	}
}

func (s *session) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("marshal message", "err", err)
		return
	}
	select {
	case s.send <- data:
	case <-s.done:
	}
}

func (s *session) sendError(err error) {
	s.log.Debug("client error", "err", err)
	s.sendJSON(newErrorMessage(err))
}

func (s *session) requestText(at state.Point, reply func(string, bool)) {
	id := uuid.NewString()
	s.mu.Lock()
	s.prompts[id] = reply
	s.mu.Unlock()
	s.sendJSON(promptMessage{Type: TypePrompt, PromptID: id, X: at.X, Y: at.Y})
}

func (s *session) takePrompt(id string) (func(string, bool), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reply, ok := s.prompts[id]
	delete(s.prompts, id)
	return reply, ok
}

// writeLoop sends queued messages, pending frames and pings until the
// session closes.
func (s *session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.send:
			if err := s.write(websocket.TextMessage, msg); err != nil {
				s.log.Debug("write failed", "err", err)
				return
			}
		case <-s.frames:
			frame, err := s.encodeFrame()
			if err != nil {
				s.log.Error("encode frame", "err", err)
				continue
			}
			if err := s.write(websocket.BinaryMessage, frame); err != nil {
				s.log.Debug("write failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) write(kind int, data []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(kind, data)
}

func (s *session) encodeFrame() ([]byte, error) {
	frame := s.surface.Frame()
	if frame == nil {
		return nil, errors.New(errors.ErrCodeInternal, "surface has no frame")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// readLoop applies client messages to the surface until the connection
// fails. Bad messages are answered with an error message.
func (s *session) readLoop() {
	defer s.close()
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("connection lost", "err", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			s.sendError(errors.New(errors.ErrCodeInvalidMessage, "expected a text message"))
			continue
		}
		msg, err := DecodeClientMessage(data)
		if err != nil {
			s.sendError(err)
			continue
		}
		if err := s.handle(msg); err != nil {
			s.sendError(err)
		}
	}
}

func (s *session) handle(m ClientMessage) error {
	switch m.Type {
	case TypePointer:
		p := state.Point{X: m.X, Y: m.Y}
		switch m.Phase {
		case PhaseDown:
			s.surface.PointerDown(p)
		case PhaseMove:
			s.surface.PointerMove(p)
		case PhaseUp:
			s.surface.PointerUp()
		case PhaseLeave:
			s.surface.PointerLeave()
		}
	case TypeTool:
		t, err := state.ParseTool(m.Tool)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "tool")
		}
		s.surface.SetTool(t)
		s.sendJSON(s.settings())
	case TypeColor:
		c, err := state.ParseColor(m.Color)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "color")
		}
		s.surface.SetColor(c)
		s.sendJSON(s.settings())
	case TypeText:
		reply, ok := s.takePrompt(m.PromptID)
		if !ok {
			return errors.New(errors.ErrCodeInvalidMessage, "unknown prompt %q", m.PromptID)
		}
		reply(m.Text, !m.Cancelled)
	case TypeImage:
		data, err := m.ImageBytes()
		if err != nil {
			return err
		}
		go func() {
			if err := <-s.surface.LoadImage(bytes.NewReader(data)); err != nil {
				s.sendError(err)
			}
		}()
	}
	return nil
}
