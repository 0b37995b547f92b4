package gameserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veydras/realmd/internal/constants"
)

func TestClient_RateLimited_BurstTripsAndResets(t *testing.T) {
	c := &Client{}

	// Back-to-back calls land well inside the 10ms gap, so the burst
	// counter grows until it trips.
	tripped := false
	for i := 0; i < constants.InputBurstLimit+2 && !tripped; i++ {
		tripped = c.rateLimited()
	}
	assert.True(t, tripped, "burst never tripped the limiter")

	// A calm message resets the counter.
	c.lastMsgAt = time.Now().Add(-time.Second)
	assert.False(t, c.rateLimited())
	assert.Zero(t, c.burst)
}

func TestClient_AuthAllowed_FivePerMinute(t *testing.T) {
	c := &Client{}
	for i := range constants.AuthAttemptLimit {
		assert.True(t, c.authAllowed(), "attempt %d rejected", i)
	}
	assert.False(t, c.authAllowed(), "sixth attempt inside the window allowed")

	// Attempts age out of the window.
	for i := range c.authTimes {
		c.authTimes[i] = time.Now().Add(-2 * constants.AuthAttemptWindow)
	}
	assert.True(t, c.authAllowed())
}

func TestAdminList_LoadAndCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admins.txt")
	require.NoError(t, os.WriteFile(path, []byte("# staff\nAlice\n  bob  \n\n"), 0o644))

	list := NewAdminList(path)
	assert.True(t, list.IsAdmin("alice"))
	assert.True(t, list.IsAdmin("ALICE"))
	assert.True(t, list.IsAdmin("Bob"))
	assert.False(t, list.IsAdmin("mallory"))
	assert.False(t, list.IsAdmin("# staff"))
}

func TestAdminList_MissingFileIsEmpty(t *testing.T) {
	list := NewAdminList(filepath.Join(t.TempDir(), "nope.txt"))
	assert.False(t, list.IsAdmin("anyone"))
}

func TestAdminList_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admins.txt")
	require.NoError(t, os.WriteFile(path, []byte("alice\n"), 0o644))

	list := NewAdminList(path)
	require.True(t, list.IsAdmin("alice"))

	require.NoError(t, os.WriteFile(path, []byte("bob\n"), 0o644))
	list.reload()
	assert.False(t, list.IsAdmin("alice"))
	assert.True(t, list.IsAdmin("bob"))
}

func TestTable_RegisterLookup(t *testing.T) {
	table := NewTable()
	p := newResidentWizard(t)
	c := &Client{}

	assert.Nil(t, table.Get(p.ID()))
	table.Register(p.ID(), c)
	assert.Same(t, c, table.Get(p.ID()))
	assert.Equal(t, 1, table.Count())
	table.Unregister(p.ID())
	assert.Nil(t, table.Get(p.ID()))
}
