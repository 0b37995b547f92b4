package gameserver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/geom"
	"github.com/veydras/realmd/internal/instance"
	"github.com/veydras/realmd/internal/protocol"
)

// handleAdminCommand parses a slash command from an allowlisted sender.
// Returns false for unknown commands so they fall through as chat.
func (c *Client) handleAdminCommand(msg string) bool {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return false
	}
	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return false
	}
	playerID := p.ID()

	reply := func(text string) {
		c.SendMessage(protocol.MsgChatEvent, protocol.ChatEvent{From: "server", Message: text})
	}

	switch fields[0] {
	case "/give":
		if len(fields) < 2 {
			reply("usage: /give <itemId>")
			return true
		}
		itemID := fields[1]
		if content.GetItem(itemID) == nil {
			reply("unknown item: " + itemID)
			return true
		}
		inst.Enqueue(func(in *instance.Instance) {
			resident := in.Player(playerID)
			if resident == nil {
				return
			}
			if slot := resident.FirstFreeInventorySlot(); slot >= 0 {
				resident.Inventory[slot] = itemID
			}
		})

	case "/items":
		filter := ""
		if len(fields) > 1 {
			filter = strings.ToLower(fields[1])
		}
		var ids []string
		for id := range content.Items() {
			if filter == "" || strings.Contains(strings.ToLower(id), filter) {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		reply(strings.Join(ids, ", "))

	case "/heal":
		inst.Enqueue(func(in *instance.Instance) {
			if resident := in.Player(playerID); resident != nil {
				resident.HP = resident.EffectiveMaxHP()
				resident.MP = resident.EffectiveMaxMP()
			}
		})

	case "/level":
		if len(fields) < 2 {
			reply("usage: /level <n>")
			return true
		}
		target, err := strconv.Atoi(fields[1])
		if err != nil || target < 1 || target > content.MaxLevel {
			reply(fmt.Sprintf("level must be 1..%d", content.MaxLevel))
			return true
		}
		inst.Enqueue(func(in *instance.Instance) {
			resident := in.Player(playerID)
			if resident == nil {
				return
			}
			for resident.Level < target {
				resident.GainExp(content.ExpForNextLevel(resident.Level))
			}
		})

	case "/spawn":
		if len(fields) < 2 {
			reply("usage: /spawn <enemyId>")
			return true
		}
		enemyID := fields[1]
		if content.GetEnemy(enemyID) == nil {
			reply("unknown enemy: " + enemyID)
			return true
		}
		inst.Enqueue(func(in *instance.Instance) {
			if resident := in.Player(playerID); resident != nil {
				in.SpawnEnemy(enemyID, resident.Pos.Add(geom.Vec2{X: 2}))
			}
		})

	case "/tp":
		if len(fields) < 3 {
			reply("usage: /tp <x> <y>")
			return true
		}
		x, errX := strconv.ParseFloat(fields[1], 64)
		y, errY := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil {
			reply("usage: /tp <x> <y>")
			return true
		}
		inst.Enqueue(func(in *instance.Instance) {
			resident := in.Player(playerID)
			if resident == nil {
				return
			}
			dest := geom.Vec2{X: x, Y: y}
			if in.Map.CanOccupy(dest, resident.Radius) {
				resident.Pos = dest
			}
		})

	case "/help":
		reply("/give <itemId> | /items [filter] | /heal | /level <n> | /spawn <enemyId> | /tp <x> <y>")

	default:
		return false
	}
	return true
}
