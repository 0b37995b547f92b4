package gameserver

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veydras/realmd/internal/config"
	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/geom"
	"github.com/veydras/realmd/internal/instance"
	"github.com/veydras/realmd/internal/model"
	"github.com/veydras/realmd/internal/protocol"
	"github.com/veydras/realmd/internal/ticker"
)

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	s := NewServer(config.Default(), store, ticker.NewLoop(), NewAdminList(t.TempDir()+"/admins.txt"))
	s.Bootstrap(context.Background())
	return s, store
}

// tickAll advances every registered instance once, draining queued
// commands the way the tick loop would.
func tickAll(s *Server, tick uint64) {
	s.mu.Lock()
	batch := make([]*instance.Instance, 0, len(s.instances))
	for _, in := range s.instances {
		batch = append(batch, in)
	}
	s.mu.Unlock()
	for _, in := range batch {
		in.Update(0.05, tick, time.Now())
	}
}

func TestServer_Bootstrap_StandingInstances(t *testing.T) {
	s, _ := newTestServer(t)

	assert.NotNil(t, s.nexus)
	assert.NotNil(t, s.realm)
	assert.True(t, s.nexus.SafeZone)
	assert.False(t, s.realm.SafeZone)
	assert.Equal(t, 2, s.loop.Count())
}

func TestServer_CheckOrigin(t *testing.T) {
	s, _ := newTestServer(t)

	mkReq := func(origin string) *http.Request {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	assert.True(t, s.checkOrigin(mkReq("")), "absent origin accepted")
	assert.True(t, s.checkOrigin(mkReq("http://localhost:5173")))
	assert.False(t, s.checkOrigin(mkReq("https://evil.example.com")))
}

func TestServer_EnsureVault_LazyAndKeyed(t *testing.T) {
	s, _ := newTestServer(t)

	vaultA := s.ensureVault(1)
	vaultB := s.ensureVault(2)
	require.NotNil(t, vaultA)
	require.NotNil(t, vaultB)

	assert.Equal(t, "vault-1", vaultA.ID)
	assert.Equal(t, "vault-2", vaultB.ID)
	assert.Equal(t, model.KindVault, vaultA.Kind)
	assert.True(t, vaultA.SafeZone)

	// Idempotent: second entry reuses the instance.
	assert.Same(t, vaultA, s.ensureVault(1))
}

func TestServer_VaultTransfer_PersistsImmediately(t *testing.T) {
	s, store := newTestServer(t)
	vault := s.ensureVault(1)

	p := newResidentWizard(t)
	p.Inventory[0] = "health_potion"
	vault.AddPlayer(p)

	items := s.vaultTransfer(p, protocol.VaultTransferData{FromVault: false, FromSlot: 0, ToSlot: 2})
	require.NotNil(t, items)
	assert.Equal(t, "health_potion", items[2])
	assert.Empty(t, p.Inventory[0])

	// The write-through to the store runs asynchronously; wait for it to
	// land.
	require.Eventually(t, func() bool {
		saved, _ := store.GetVaultItems(context.Background(), 1)
		return saved[2] == "health_potion"
	}, time.Second, 10*time.Millisecond)

	// Reverse direction.
	items = s.vaultTransfer(p, protocol.VaultTransferData{FromVault: true, FromSlot: 2, ToSlot: 5})
	require.NotNil(t, items)
	assert.Empty(t, items[2])
	assert.Equal(t, "health_potion", p.Inventory[5])

	require.Eventually(t, func() bool {
		saved, _ := store.GetVaultItems(context.Background(), 1)
		return saved[2] == ""
	}, time.Second, 10*time.Millisecond)
}

func TestServer_VaultTransfer_RejectsBadSlots(t *testing.T) {
	s, _ := newTestServer(t)
	vault := s.ensureVault(1)
	p := newResidentWizard(t)
	vault.AddPlayer(p)

	assert.Nil(t, s.vaultTransfer(p, protocol.VaultTransferData{FromVault: true, FromSlot: constants.VaultSize, ToSlot: 0}))
	assert.Nil(t, s.vaultTransfer(p, protocol.VaultTransferData{FromVault: false, FromSlot: -1, ToSlot: 0}))
}

// Vault isolation: a session resident in its own vault cannot pass the
// ownVault gate against someone else's vault, so cross-account transfers
// drop before touching any state.
func TestClient_OwnVaultGate(t *testing.T) {
	s, store := newTestServer(t)
	accA, err := store.CreateAccount(context.Background(), "a", "pw")
	require.NoError(t, err)
	accB, err := store.CreateAccount(context.Background(), "b", "pw")
	require.NoError(t, err)

	vaultA := s.ensureVault(accA.ID)
	vaultB := s.ensureVault(accB.ID)

	clientB := &Client{server: s}
	clientB.account = accB

	assert.True(t, clientB.ownVault(vaultB))
	assert.False(t, clientB.ownVault(vaultA), "B passed the gate for A's vault")
	assert.False(t, clientB.ownVault(s.nexus))
}

func TestServer_MintDungeon_AndReap(t *testing.T) {
	s, _ := newTestServer(t)

	id := s.mintDungeon(s.realm, "cube_citadel", geom.Vec2{X: 10, Y: 10})
	require.NotEmpty(t, id)

	s.mu.Lock()
	dungeon := s.instances[id]
	s.mu.Unlock()
	require.NotNil(t, dungeon)
	assert.Equal(t, model.KindDungeon, dungeon.Kind)
	assert.Equal(t, RealmID, dungeon.Dungeon.SourceInstanceID)
	assert.True(t, dungeon.Dungeon.InitialSpawnDone, "initial bulk spawn missing")
	assert.Equal(t, 3, s.loop.Count())

	// Unknown dungeon def mints nothing.
	assert.Empty(t, s.mintDungeon(s.realm, "no-such-dungeon", geom.Vec2{}))

	// Reaped when the last player leaves.
	c := &Client{server: s}
	p := newResidentWizard(t)
	dungeon.AddPlayer(p)
	c.setResident(p, dungeon)
	require.NotNil(t, dungeon.RemovePlayer(p.ID()))
	s.afterLeave(c, dungeon)

	s.mu.Lock()
	_, still := s.instances[id]
	s.mu.Unlock()
	assert.False(t, still, "empty dungeon not reaped")
	assert.Equal(t, 2, s.loop.Count())
}

func TestServer_PlayerDeath_Permadeath(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()
	acc, err := store.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)
	rec, err := store.CreateCharacter(ctx, acc.ID, "alice", "wizard")
	require.NoError(t, err)

	c := &Client{server: s, send: make(chan []byte, sendQueueSize)}
	c.account = acc
	s.enterWorld(c, rec)
	tickAll(s, 1)

	p := c.Player()
	require.NotNil(t, p)
	require.NotNil(t, c.Instance())

	s.handlePlayerDeath(p, "pirate")

	assert.Nil(t, c.Player(), "session still attached to dead character")
	assert.Nil(t, s.table.Get(p.ID()), "routing table still holds dead player")
	require.Eventually(t, func() bool {
		saved, _ := store.GetCharacter(ctx, rec.ID)
		return saved != nil && !saved.Alive
	}, time.Second, 10*time.Millisecond)
}

func TestServer_Transfer_AtomicMove(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()
	acc, _ := store.CreateAccount(ctx, "alice", "pw")
	rec, err := store.CreateCharacter(ctx, acc.ID, "alice", "wizard")
	require.NoError(t, err)

	c := &Client{server: s, send: make(chan []byte, sendQueueSize)}
	c.account = acc
	s.enterWorld(c, rec)
	tickAll(s, 1)

	p := c.Player()
	require.NotNil(t, p)
	require.Equal(t, NexusID, p.InstanceID)

	s.transfer(c, s.nexus, p, s.realm)
	assert.Equal(t, RealmID, p.InstanceID)
	assert.Nil(t, s.nexus.Player(p.ID()))
	assert.Same(t, p, s.realm.Player(p.ID()))
	assert.Same(t, s.realm, c.Instance())
}

func TestRecordRoundTrip(t *testing.T) {
	p := newResidentWizard(t)
	p.Level = 7
	p.Exp = 42
	p.Counters.EnemiesKilled = 13
	p.Inventory[3] = "health_potion"

	rec := recordFromPlayer(99, p)
	back := playerFromRecord(rec)

	assert.Equal(t, p.Level, back.Level)
	assert.Equal(t, p.Exp, back.Exp)
	assert.Equal(t, p.Base, back.Base)
	assert.Equal(t, p.Equipment, back.Equipment)
	assert.Equal(t, p.Inventory, back.Inventory)
	assert.Equal(t, p.Counters, back.Counters)
}
