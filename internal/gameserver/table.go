package gameserver

import (
	"sync"

	"github.com/veydras/realmd/internal/model"
)

// Table routes player entity ids to their sessions. Written when a player
// enters or leaves an instance; read concurrently by instance snapshot
// emitters. A stale read that loses one snapshot for a leaving player is
// acceptable, so sync.Map fits.
type Table struct {
	clients sync.Map // map[model.EntityID]*Client
}

// NewTable creates an empty routing table.
func NewTable() *Table {
	return &Table{}
}

// Register binds a player id to its session.
func (t *Table) Register(playerID model.EntityID, c *Client) {
	t.clients.Store(playerID, c)
}

// Unregister removes a player id.
func (t *Table) Unregister(playerID model.EntityID) {
	t.clients.Delete(playerID)
}

// Get returns the session for a player id, or nil.
func (t *Table) Get(playerID model.EntityID) *Client {
	if v, ok := t.clients.Load(playerID); ok {
		return v.(*Client)
	}
	return nil
}

// Count returns the number of routed players.
func (t *Table) Count() int {
	n := 0
	t.clients.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
