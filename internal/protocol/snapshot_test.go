package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/geom"
	"github.com/veydras/realmd/internal/model"
)

func TestViewPlayer_ProjectsPublicFieldsOnly(t *testing.T) {
	require.NoError(t, content.Load())
	class := content.GetClass("wizard")
	p := model.NewPlayer(1, 1, "alice", "wizard", geom.Vec2{X: 3, Y: 4})
	p.Base = class.Start
	p.MaxHP = class.StartHP
	p.HP = 80
	p.Level = 5

	view := ViewPlayer(p)
	assert.Equal(t, p.ID().String(), view.ID)
	assert.Equal(t, "alice", view.Name)
	assert.Equal(t, 80, view.HP)
	assert.Equal(t, class.StartHP, view.MaxHP)
	assert.Equal(t, 5, view.Level)
	assert.Equal(t, 3.0, view.Pos.X)
}

func TestViewSelf_CarriesPrivateState(t *testing.T) {
	require.NoError(t, content.Load())
	class := content.GetClass("wizard")
	p := model.NewPlayer(1, 1, "alice", "wizard", geom.Vec2{})
	p.MaxMP = class.StartMP
	p.MP = 40
	p.Level = 3
	p.Inventory[2] = "health_potion"

	self := ViewSelf(p)
	assert.Equal(t, 40, self.MP)
	assert.Equal(t, content.ExpForNextLevel(3), self.ExpNext)
	assert.Equal(t, "health_potion", self.Inventory[2])
}

func TestViewLoot_CopiesItems(t *testing.T) {
	bag := model.NewLootBag(geom.Vec2{X: 1, Y: 2}, []string{"a"}, time.Now().Add(time.Minute), model.NilID, false)
	view := ViewLoot(bag)
	bag.Items[0] = "mutated"
	assert.Equal(t, "a", view.Items[0], "view must not alias live bag state")
}

func TestSnapshot_EncodesAsFrame(t *testing.T) {
	raw, err := Encode(MsgSnapshot, Snapshot{Tick: 7, SelfID: "x"})
	require.NoError(t, err)

	frame, err := DecodeBinary(raw)
	require.NoError(t, err)
	assert.Equal(t, MsgSnapshot, frame.Type)

	var snap Snapshot
	require.NoError(t, frame.Payload(&snap))
	assert.Equal(t, uint64(7), snap.Tick)
	assert.Equal(t, "x", snap.SelfID)
}
