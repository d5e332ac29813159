package net

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/state"
	"LocalSketch/internal/surface"
)

type client struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T) (*Server, *client, helloMessage) {
	t.Helper()
	srv := NewServer(surface.DefaultOptions(), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	c := &client{t: t, conn: conn}
	var hello helloMessage
	c.next(TypeHello, &hello)
	return srv, c, hello
}

func lookup(srv *Server, id string) *session {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return srv.sessions[id]
}

func (c *client) send(v any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(v))
}

// next reads until a text message of type kind arrives and decodes it into
// v. Binary frames are skipped.
func (c *client) next(kind string, v any) {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		mt, data, err := c.conn.ReadMessage()
		require.NoError(c.t, err)
		if mt != websocket.TextMessage {
			continue
		}
		var head struct{ Type string }
		require.NoError(c.t, json.Unmarshal(data, &head))
		if head.Type == kind {
			require.NoError(c.t, json.Unmarshal(data, v))
			return
		}
	}
}

// frame reads until a binary message arrives.
func (c *client) frame() []byte {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		mt, data, err := c.conn.ReadMessage()
		require.NoError(c.t, err)
		if mt == websocket.BinaryMessage {
			return data
		}
	}
}

func TestHelloAndInitialFrame(t *testing.T) {
	srv, c, hello := dial(t)

	assert.NotEmpty(t, hello.Session)
	assert.Equal(t, 450, hello.Width)
	assert.Equal(t, 300, hello.Height)
	assert.Equal(t, "pencil", hello.Tool)
	assert.Equal(t, "#000000", hello.Color)
	assert.Eventually(t, func() bool { return srv.Sessions() == 1 }, time.Second, 10*time.Millisecond)

	img, err := png.Decode(bytes.NewReader(c.frame()))
	require.NoError(t, err)
	assert.Equal(t, 450, img.Bounds().Dx())
	r, g, b, _ := img.At(200, 150).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestSettingsRoundTrip(t *testing.T) {
	_, c, _ := dial(t)

	c.send(ClientMessage{Type: TypeTool, Tool: "eraser"})
	var s settingsMessage
	c.next(TypeSettings, &s)
	assert.Equal(t, "eraser", s.Tool)

	c.send(ClientMessage{Type: TypeColor, Color: "#ff0000"})
	c.next(TypeSettings, &s)
	assert.Equal(t, "#ff0000", s.Color)

	c.send(ClientMessage{Type: TypeTool, Tool: "spray"})
	var e errorMessage
	c.next(TypeError, &e)
	assert.Equal(t, "INVALID_INPUT", string(e.Code))
}

func TestStrokeOverSocket(t *testing.T) {
	srv, c, hello := dial(t)

	c.send(ClientMessage{Type: TypePointer, Phase: PhaseDown, X: 10, Y: 10})
	c.send(ClientMessage{Type: TypePointer, Phase: PhaseMove, X: 50, Y: 10})
	c.send(ClientMessage{Type: TypePointer, Phase: PhaseUp})
	// Messages are applied in order, so the settings reply follows the stroke.
	c.send(ClientMessage{Type: TypeTool, Tool: "pencil"})
	var s settingsMessage
	c.next(TypeSettings, &s)

	sess := lookup(srv, hello.Session)
	require.NotNil(t, sess)
	snap := sess.surface.Snapshot()
	require.Len(t, snap.Strokes, 1)
	assert.Equal(t, []state.Point{{X: 10, Y: 10}, {X: 50, Y: 10}}, snap.Strokes[0].Points)
}

func TestTextPromptOverSocket(t *testing.T) {
	srv, c, hello := dial(t)

	c.send(ClientMessage{Type: TypeTool, Tool: "text"})
	c.send(ClientMessage{Type: TypePointer, Phase: PhaseDown, X: 100, Y: 100})
	var p promptMessage
	c.next(TypePrompt, &p)
	require.NotEmpty(t, p.PromptID)
	assert.Equal(t, float32(100), p.X)

	c.send(ClientMessage{Type: TypeText, PromptID: p.PromptID, Text: "hi"})
	sess := lookup(srv, hello.Session)
	require.NotNil(t, sess)
	require.Eventually(t, func() bool { return len(sess.surface.Snapshot().Texts) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "hi", sess.surface.Snapshot().Texts[0].Text)

	// A prompt is answered once.
	c.send(ClientMessage{Type: TypeText, PromptID: p.PromptID, Text: "again"})
	var e errorMessage
	c.next(TypeError, &e)
	assert.Equal(t, "INVALID_MESSAGE", string(e.Code))
}

func TestBadImageReportsError(t *testing.T) {
	_, c, _ := dial(t)

	c.send(ClientMessage{Type: TypeImage, Data: "bm90IGFuIGltYWdl"})
	var e errorMessage
	c.next(TypeError, &e)
	assert.Equal(t, "INVALID_IMAGE", string(e.Code))
}

func TestMalformedMessageKeepsSession(t *testing.T) {
	_, c, _ := dial(t)

	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var e errorMessage
	c.next(TypeError, &e)
	assert.Equal(t, "INVALID_MESSAGE", string(e.Code))

	c.send(ClientMessage{Type: TypeTool, Tool: "image"})
	var s settingsMessage
	c.next(TypeSettings, &s)
	assert.Equal(t, "image", s.Tool)
}

func TestHTTPRoutes(t *testing.T) {
	ts := httptest.NewServer(NewServer(surface.DefaultOptions(), nil).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, "ok", health["status"])

	resp, err = http.Get(ts.URL + "/")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(page), `new WebSocket(`)
	// Leaving the canvas mid-drag must reach the server as a leave.
	assert.NotContains(t, string(page), "setPointerCapture")
	assert.Contains(t, string(page), `"pointerleave"`)
	assert.Contains(t, string(page), `inside ? "move" : "leave"`)
}

func TestLeaveEndsStrokeOverSocket(t *testing.T) {
	srv, c, hello := dial(t)

	c.send(ClientMessage{Type: TypePointer, Phase: PhaseDown, X: 10, Y: 10})
	c.send(ClientMessage{Type: TypePointer, Phase: PhaseMove, X: 50, Y: 10})
	c.send(ClientMessage{Type: TypePointer, Phase: PhaseLeave, X: 460, Y: 10})
	c.send(ClientMessage{Type: TypePointer, Phase: PhaseMove, X: 470, Y: 20})
	// A color change keeps any stroke in progress, so only the leave can end it.
	c.send(ClientMessage{Type: TypeColor, Color: "#000000"})
	var s settingsMessage
	c.next(TypeSettings, &s)

	sess := lookup(srv, hello.Session)
	require.NotNil(t, sess)
	snap := sess.surface.Snapshot()
	assert.Nil(t, snap.Current)
	require.Len(t, snap.Strokes, 1)
	assert.Equal(t, []state.Point{{X: 10, Y: 10}, {X: 50, Y: 10}}, snap.Strokes[0].Points)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(surface.DefaultOptions(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "ws://" + ln.Addr().String() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return")
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestShareURL(t *testing.T) {
	u, err := ShareURL("192.168.1.20:8888")
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.20:8888/", u)

	u, err = ShareURL(":8888")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(u, ":8888/"), u)

	_, err = ShareURL("no-port")
	assert.Error(t, err)
}
