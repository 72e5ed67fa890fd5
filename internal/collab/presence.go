package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager tracks what every connection of a room is doing in its
// editing session. Entries are keyed by client id, so two tabs of one user
// show up separately.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]PresencePayload // clientID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]PresencePayload),
	}
}

// Update stores p for clientID and reports whether it differs from what
// was stored before.
func (pm *PresenceManager) Update(clientID string, p PresencePayload) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if old, ok := pm.presences[clientID]; ok && old.equal(p) {
		return false
	}
	pm.presences[clientID] = p.clone()
	return true
}

func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, clientID)
}

func (pm *PresenceManager) Get(clientID string) (PresencePayload, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.presences[clientID]
	return p.clone(), ok
}

func (pm *PresenceManager) GetAll() map[string]PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		result[k] = v.clone()
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}

func (p PresencePayload) clone() PresencePayload {
	if p.Cursor != nil {
		c := *p.Cursor
		p.Cursor = &c
	}
	if p.Marquee != nil {
		m := *p.Marquee
		p.Marquee = &m
	}
	return p
}

func (p PresencePayload) equal(o PresencePayload) bool {
	if p.ClientID != o.ClientID || p.UserID != o.UserID || p.DisplayName != o.DisplayName ||
		p.Selection != o.Selection || p.Transform != o.Transform {
		return false
	}
	if (p.Cursor == nil) != (o.Cursor == nil) || p.Cursor != nil && *p.Cursor != *o.Cursor {
		return false
	}
	if (p.Marquee == nil) != (o.Marquee == nil) || p.Marquee != nil && *p.Marquee != *o.Marquee {
		return false
	}
	return true
}
