package server

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/glyphdust/pkg/errors"
	"github.com/matzehuels/glyphdust/pkg/field"
	"github.com/matzehuels/glyphdust/pkg/observability"
)

const (
	writeWait      = 5 * time.Second
	maxControlSize = 4 << 10
)

// Control is a client message steering a stream. Fields left out are
// unchanged.
type Control struct {
	// Pointer is the pointer in particle space; send Release to remove it.
	Pointer *[2]float32 `json:"pointer,omitempty"`
	Release bool        `json:"release,omitempty"`

	// Grayscale toggles the luma filter.
	Grayscale *bool `json:"grayscale,omitempty"`

	// Target morphs the field into another session's buffer, which must
	// have the same particle count.
	Target string `json:"target,omitempty"`
}

// Notice is a server text message sent after the initial document.
type Notice struct {
	Event   string      `json:"event"`
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// handleStream animates a session's buffer from its entrance and streams
// every tick until the client leaves or MaxStream elapses. Ticks of a
// settled field with no pointer are not sent.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	doc, err := s.loadSession(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if doc.Profile == nil {
		s.writeError(w, errors.New(errors.ErrCodeInternal, "session %s has no profile", id))
		return
	}
	f, err := field.New(doc.Count, *doc.Profile)
	if err == nil {
		err = f.Initialize(doc.Buffer(), field.InitEntrance)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	hooks := observability.Server()
	hooks.OnStreamOpen(ctx, id)
	frames, err := s.stream(ctx, conn, f, doc.Count)
	hooks.OnStreamClose(ctx, id, frames, err)
	s.logger.Debug("stream closed", "id", id, "frames", frames, "error", err)
}

func (s *Server) stream(ctx context.Context, conn *websocket.Conn, f *field.Field, count int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.maxStream)
	defer cancel()

	if err := s.sendDocument(conn, f); err != nil {
		return 0, err
	}

	controls := make(chan Control, 16)
	go readControls(conn, controls)

	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	var (
		pointer = field.NoPointer
		frame   = make([]byte, count*3*4)
		frames  int
		idle    bool
	)
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream ended"),
				time.Now().Add(writeWait))
			if ctx.Err() == context.DeadlineExceeded {
				return frames, nil
			}
			return frames, ctx.Err()

		case c, ok := <-controls:
			if !ok {
				return frames, nil
			}
			if c.Release {
				pointer = field.NoPointer
			} else if c.Pointer != nil {
				pointer = field.Pointer{X: c.Pointer[0], Y: c.Pointer[1]}
			}
			if c.Grayscale != nil {
				f.SetGrayscale(*c.Grayscale)
				if err := s.sendDocument(conn, f); err != nil {
					return frames, err
				}
			}
			if c.Target != "" {
				if err := s.retarget(ctx, f, c.Target); err != nil {
					if err := s.notify(conn, Notice{Event: "error", Code: errors.GetCode(err), Message: errors.UserMessage(err)}); err != nil {
						return frames, err
					}
				} else if err := s.sendDocument(conn, f); err != nil {
					return frames, err
				}
			}
			idle = false

		case <-ticker.C:
			f.Tick(pointer)
			settled := f.State() == field.Settled && pointer == field.NoPointer
			if settled && idle {
				continue
			}
			idle = settled
			encodePositions(frame, f.Positions())
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return frames, err
			}
			frames++
		}
	}
}

// sendDocument sends the field's target with its display colors.
func (s *Server) sendDocument(conn *websocket.Conn, f *field.Field) error {
	target, _ := f.Target()
	colors := target.Colors
	if f.Grayscale() {
		colors = make([]float32, len(target.Colors))
		field.Grayscale(colors, target.Colors)
	}
	doc := struct {
		Event     string        `json:"event"`
		Count     int           `json:"count"`
		Positions []float32     `json:"positions"`
		Colors    []float32     `json:"colors"`
		Profile   field.Profile `json:"profile"`
	}{"target", target.Len(), target.Positions, colors, f.Profile()}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(doc)
}

func (s *Server) notify(conn *websocket.Conn, n Notice) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(n)
}

// retarget installs another session's buffer as the field's target.
func (s *Server) retarget(ctx context.Context, f *field.Field, id string) error {
	doc, err := s.loadSession(ctx, id)
	if err != nil {
		return err
	}
	return f.SetTarget(doc.Buffer())
}

// readControls forwards client messages until the connection fails, then
// closes out. Messages are dropped while the stream is busy.
func readControls(conn *websocket.Conn, out chan<- Control) {
	defer close(out)
	conn.SetReadLimit(maxControlSize)
	for {
		var c Control
		if err := conn.ReadJSON(&c); err != nil {
			if isJSONError(err) {
				continue
			}
			return
		}
		select {
		case out <- c:
		default:
		}
	}
}

func isJSONError(err error) bool {
	switch err.(type) {
	case *json.SyntaxError, *json.UnmarshalTypeError:
		return true
	}
	return false
}

// encodePositions writes positions into dst as little-endian float32s.
func encodePositions(dst []byte, positions []float32) {
	for i, v := range positions {
		if 4*i+4 > len(dst) {
			return
		}
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
	}
}
