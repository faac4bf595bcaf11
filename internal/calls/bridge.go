package calls

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// frame types on the bridge socket
const (
	FrameCommand = "command" // server -> client: start or stop the voice call
	FrameStatus  = "status"  // server -> client: session snapshot
	FrameEvent   = "event"   // client -> server: voice collaborator event
	FrameError   = "error"   // server -> client: rejected event
)

const (
	CommandStart = "start"
	CommandStop  = "stop"
)

type Frame struct {
	Type      string            `json:"type"`
	Command   string            `json:"command,omitempty"`
	Target    string            `json:"target,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
	Event     *Event            `json:"event,omitempty"`
	Status    *Snapshot         `json:"status,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Bridge relays between a session and the browser that hosts the voice SDK.
// It is the session's Agent: commands become frames, and SDK events sent back
// by the browser are dispatched to the session.
type Bridge struct {
	conn   *websocket.Conn
	logger *zap.Logger

	// a peer that stops answering pings for pongWait is dropped
	pongWait   time.Duration
	pingPeriod time.Duration

	writeMu sync.Mutex
}

func NewBridge(conn *websocket.Conn, logger *zap.Logger) *Bridge {
	return &Bridge{conn: conn, logger: logger, pongWait: pongWait, pingPeriod: pingPeriod}
}

func (b *Bridge) Start(_ context.Context, target string, variables map[string]string) error {
	return b.write(Frame{Type: FrameCommand, Command: CommandStart, Target: target, Variables: variables})
}

func (b *Bridge) Stop(context.Context) error {
	return b.write(Frame{Type: FrameCommand, Command: CommandStop})
}

// Serve attaches to session and pumps client frames until the socket closes.
func (b *Bridge) Serve(ctx context.Context, session *Session) error {
	detach := session.Attach(ctx, b)
	defer detach()

	unwatch := session.Watch(func(snap Snapshot) {
		if err := b.write(Frame{Type: FrameStatus, Status: &snap}); err != nil {
			b.logger.Debug("Dropped status frame", zap.String("session_id", snap.ID), zap.Error(err))
		}
	})
	defer unwatch()

	initial := session.Snapshot()
	if err := b.write(Frame{Type: FrameStatus, Status: &initial}); err != nil {
		return err
	}

	b.conn.SetPongHandler(func(string) error {
		return b.conn.SetReadDeadline(time.Now().Add(b.pongWait))
	})
	stopPing := make(chan struct{})
	defer close(stopPing)
	go b.pingLoop(stopPing)

	for {
		// renewed per frame, so a slow dispatch does not count against the peer
		b.conn.SetReadDeadline(time.Now().Add(b.pongWait))
		var frame Frame
		if err := b.conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		if frame.Type != FrameEvent || frame.Event == nil {
			b.write(Frame{Type: FrameError, Error: "expected an event frame"})
			continue
		}
		if frame.Event.Type.Internal() {
			b.write(Frame{Type: FrameError, Error: "event type " + string(frame.Event.Type) + " is not accepted"})
			continue
		}
		if _, err := session.Dispatch(ctx, *frame.Event); err != nil {
			b.write(Frame{Type: FrameError, Error: err.Error()})
		}
	}
}

func (b *Bridge) pingLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(b.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.writeMu.Lock()
			err := b.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			b.writeMu.Unlock()
			if err != nil {
				b.logger.Debug("Bridge ping failed", zap.Error(err))
				return
			}
		}
	}
}

func (b *Bridge) write(f Frame) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if b.conn == nil {
		return errors.New("bridge is not connected")
	}
	b.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return b.conn.WriteJSON(f)
}
