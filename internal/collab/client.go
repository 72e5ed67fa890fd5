package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/editor"
	"github.com/canvasdraw/editor/backend-go/internal/render"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 4 << 20
)

// Client is one websocket connection editing a drawing. Its session is
// only touched by the goroutine running ReadPump.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	UserID      string
	DisplayName string
	DrawingID   string
	ClientID    string

	room     *Room
	session  *editor.Session
	recorder *render.Recorder

	sendMu sync.Mutex
	send   chan []byte
	closed bool

	// pending is the newest document committed by another client and not
	// yet applied to the session.
	pendingMu  sync.Mutex
	pending    *document.Record
	pendingSeq int64

	// committed is the room sequence number of this client's last commit.
	committed int64

	// pointer is a cursor reported by presence.update since the last frame.
	pointer *CursorPos
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, drawingID, clientID string) *Client {
	c := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		UserID:      userID,
		DisplayName: displayName,
		DrawingID:   drawingID,
		ClientID:    clientID,
		session:     editor.New(hub.opts.Session),
		recorder:    render.NewRecorder(),
	}
	c.session.OnCommit(func(doc document.Record) {
		c.committed = hub.commit(c, doc)
	})
	return c
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "user", c.UserID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "user", c.UserID)
			c.sendError("", "invalid message")
			continue
		}

		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.DrawingID = c.DrawingID

		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// handleMessage runs on the ReadPump goroutine.
func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case TypeInput:
		var p InputPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			c.sendError("", "invalid input payload")
			return
		}
		if err := c.session.Apply(p.Events...); err != nil {
			c.sendError("", err.Error())
		}

	case TypeFrame:
		var p FramePayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				c.sendError("", "invalid frame payload")
				return
			}
		}
		if err := c.session.Apply(p.Events...); err != nil {
			c.sendError("", err.Error())
			return
		}
		c.frame(msg.Seq)

	case TypeCommand:
		var p CommandPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			c.sendError("", "invalid command payload")
			return
		}
		c.applyPending()
		res, err := c.session.Execute(p.Command)
		if err != nil {
			c.sendError(p.ID, err.Error())
			return
		}
		if ack, err := newMessage(TypeCommandAck, CommandAckPayload{ID: p.ID, Result: res}); err == nil {
			ack.Seq = msg.Seq
			c.Send(ack)
		}
		c.hub.publishPresence(c)

	default:
		c.hub.handleMessage(c, msg)
	}
}

// frame applies queued syncs, advances the session and sends what it drew.
func (c *Client) frame(seq int64) {
	c.applyPending()
	c.session.Frame()
	c.pointer = nil

	c.recorder.Reset()
	c.session.Render(c.recorder)

	res := FrameResultPayload{
		Commands: c.recorder.Commands(),
		Message:  c.session.Message(),
	}
	if tree := c.session.Tree(); tree.Exists(c.session.Selected()) {
		res.Selected = tree.Name(c.session.Selected())
	}
	cursor := c.session.Cursor()
	res.Cursor = CursorPos{X: cursor.X, Y: cursor.Y}

	msg, err := newMessage(TypeFrameResult, res)
	if err != nil {
		slog.Error("marshal frame result", "error", err)
		return
	}
	msg.Seq = seq
	c.Send(msg)

	c.hub.publishPresence(c)
}

// presence describes the session for the other clients of the room.
func (c *Client) presence() PresencePayload {
	p := PresencePayload{
		ClientID:    c.ClientID,
		UserID:      c.UserID,
		DisplayName: c.DisplayName,
		Transform:   c.session.TransformMode(),
	}
	if tree := c.session.Tree(); tree.Exists(c.session.Selected()) {
		p.Selection = tree.Name(c.session.Selected())
	}
	if c.pointer != nil {
		cursor := *c.pointer
		p.Cursor = &cursor
	} else {
		cursor := c.session.Cursor()
		p.Cursor = &CursorPos{X: cursor.X, Y: cursor.Y}
	}
	if r, ok := c.session.Marquee(); ok {
		p.Marquee = &r
	}
	return p
}

func (c *Client) queueSync(doc document.Record, seq int64) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	if seq > c.pendingSeq {
		c.pending = &doc
		c.pendingSeq = seq
	}
}

func (c *Client) applyPending() {
	c.pendingMu.Lock()
	doc, seq := c.pending, c.pendingSeq
	c.pending = nil
	c.pendingMu.Unlock()

	// A later local commit already overwrote the room's document.
	if doc == nil || seq < c.committed {
		return
	}
	if err := c.session.Sync(*doc); err != nil {
		slog.Warn("apply synced document", "error", err, "user", c.UserID)
	}
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "user", c.UserID)
	}
}

func (c *Client) sendError(id, text string) {
	if msg, err := newMessage(TypeError, ErrorPayload{ID: id, Error: text}); err == nil {
		c.Send(msg)
	}
}

func (c *Client) close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
