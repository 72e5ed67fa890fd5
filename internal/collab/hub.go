package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/editor"
)

// DocLoader returns the saved document of a drawing.
type DocLoader func(ctx context.Context, drawingID string) (document.Record, error)

// DocSaver stores the document of a drawing.
type DocSaver func(ctx context.Context, drawingID string, doc document.Record) error

var ErrHubStopped = errors.New("hub stopped")

// Room is the set of clients editing one drawing and the latest document
// any of them committed.
type Room struct {
	drawingID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager

	mu    sync.Mutex
	doc   document.Record
	seq   int64
	saved int64
}

func NewRoom(drawingID string, doc document.Record) *Room {
	return &Room{
		drawingID: drawingID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		doc:       doc,
	}
}

// commit stores doc as the room's latest version and returns its sequence
// number.
func (r *Room) commit(doc document.Record) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc
	r.seq++
	return r.seq
}

// snapshot returns the latest document and its sequence number.
func (r *Room) snapshot() (document.Record, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc, r.seq
}

func (r *Room) dirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq != r.saved
}

func (r *Room) markSaved(seq int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq > r.saved {
		r.saved = seq
	}
}

type HubOptions struct {
	Loader DocLoader
	Saver  DocSaver
	// Session configures the editing session of every client.
	Session editor.Config
	// Autosave is how often edited rooms are saved. Zero saves only when
	// the last client leaves and on Stop.
	Autosave time.Duration
}

type registration struct {
	client *Client
	done   chan error
}

type Hub struct {
	opts HubOptions

	mu         sync.RWMutex
	rooms      map[string]*Room // drawingID -> room
	register   chan registration
	unregister chan *Client
	stop       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once
}

func NewHub(opts HubOptions) *Hub {
	return &Hub{
		opts:       opts,
		rooms:      make(map[string]*Room),
		register:   make(chan registration),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.stopped)

	var tick <-chan time.Time
	if h.opts.Autosave > 0 {
		ticker := time.NewTicker(h.opts.Autosave)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case reg := <-h.register:
			reg.done <- h.addClient(reg.client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-tick:
			h.saveAll()
		case <-h.stop:
			h.saveAll()
			return
		}
	}
}

// Stop saves every edited room and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.stopped
}

// Register adds client to the room of its drawing, loading the drawing
// when the room is new. The client's session holds the room's document
// when Register returns.
func (h *Hub) Register(client *Client) error {
	done := make(chan error, 1)
	select {
	case h.register <- registration{client: client, done: done}:
	case <-h.stopped:
		return ErrHubStopped
	}
	return <-done
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

func (h *Hub) addClient(client *Client) error {
	h.mu.RLock()
	room, ok := h.rooms[client.DrawingID]
	h.mu.RUnlock()

	if !ok {
		doc, err := h.opts.Loader(context.Background(), client.DrawingID)
		if err != nil {
			return fmt.Errorf("load drawing %s: %w", client.DrawingID, err)
		}
		room = NewRoom(client.DrawingID, doc)
	}

	doc, _ := room.snapshot()
	if err := client.session.Load(doc); err != nil {
		return fmt.Errorf("open drawing %s: %w", client.DrawingID, err)
	}
	client.room = room

	h.mu.Lock()
	h.rooms[client.DrawingID] = room
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	if msg, err := newMessage(TypeWelcome, WelcomePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
		Document: doc,
	}); err == nil {
		client.Send(msg)
	}

	// Send current presence state to new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	room.presence.Update(client.ClientID, client.presence())

	joinMsg, err := newMessage(TypePresenceJoin, PresenceJoinPayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	if err == nil {
		joinMsg.UserID = client.UserID
		h.broadcastToRoom(client.DrawingID, joinMsg, client.ClientID)
	}

	slog.Info("client joined", "user", client.UserID, "drawing", client.DrawingID)
	return nil
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()
	room.presence.Remove(client.ClientID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.DrawingID)
	}
	h.mu.Unlock()

	if empty {
		h.save(room)
	}

	leaveMsg, err := newMessage(TypePresenceLeave, PresenceLeavePayload{ClientID: client.ClientID, UserID: client.UserID})
	if err == nil {
		leaveMsg.UserID = client.UserID
		h.broadcastToRoom(client.DrawingID, leaveMsg, "")
	}

	slog.Info("client left", "user", client.UserID, "drawing", client.DrawingID)
}

// commit publishes a document committed by sender to the other clients of
// its room and returns its sequence number.
func (h *Hub) commit(sender *Client, doc document.Record) int64 {
	room := sender.room
	seq := room.commit(doc)

	msg, err := newMessage(TypeDocSync, DocSyncPayload{UserID: sender.UserID, Document: doc})
	if err != nil {
		slog.Error("marshal doc sync", "error", err)
		return seq
	}
	msg.Seq = seq
	msg.UserID = sender.UserID

	for _, c := range h.roomClients(room.drawingID, sender.ClientID) {
		c.queueSync(doc, seq)
		c.Send(msg)
	}
	return seq
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.save(r)
	}
}

func (h *Hub) save(room *Room) {
	if !room.dirty() || h.opts.Saver == nil {
		return
	}
	doc, seq := room.snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.opts.Saver(ctx, room.drawingID, doc); err != nil {
		slog.Error("save drawing", "drawing", room.drawingID, "error", err)
		return
	}
	room.markSaved(seq)
	slog.Info("drawing saved", "drawing", room.drawingID, "seq", seq)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	default:
		sender.sendError("", fmt.Sprintf("unknown message type %q", msg.Type))
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

// handlePresenceUpdate takes the cursor a client reports between frames.
// Everything else in its presence comes from its session.
func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}
	if presence.Cursor != nil {
		sender.pointer = presence.Cursor
	}
	h.publishPresence(sender)
}

// publishPresence broadcasts the sender's presence when it changed. It
// runs on the sender's ReadPump goroutine.
func (h *Hub) publishPresence(sender *Client) {
	presence := sender.presence()
	if !sender.room.presence.Update(sender.ClientID, presence) {
		return
	}

	outMsg, err := newMessage(TypePresenceUpdate, presence)
	if err != nil {
		return
	}
	outMsg.UserID = sender.UserID
	outMsg.ClientID = sender.ClientID
	h.broadcastToRoom(sender.DrawingID, outMsg, sender.ClientID)
}

func (h *Hub) roomClients(drawingID, excludeClientID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[drawingID]
	if !ok {
		return nil
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	return clients
}

func (h *Hub) broadcastToRoom(drawingID string, msg *Message, excludeClientID string) {
	for _, c := range h.roomClients(drawingID, excludeClientID) {
		c.Send(msg)
	}
}
