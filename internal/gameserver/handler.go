package gameserver

import (
	"html"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/content"
	"github.com/veydras/realmd/internal/db"
	"github.com/veydras/realmd/internal/geom"
	"github.com/veydras/realmd/internal/instance"
	"github.com/veydras/realmd/internal/model"
	"github.com/veydras/realmd/internal/protocol"
)

// genericAuthError avoids account enumeration: the same message comes back
// for a missing user, a wrong password and a taken username.
const genericAuthError = "Invalid username or password"

// handle dispatches one decoded frame. Unknown types drop silently.
func (c *Client) handle(frame *protocol.Frame) {
	switch frame.Type {
	case protocol.MsgAuth:
		c.handleAuth(frame)
	case protocol.MsgAuthToken:
		c.handleAuthToken(frame)
	case protocol.MsgLogout:
		c.handleLogout(frame)
	case protocol.MsgRegister:
		c.handleRegister(frame)
	case protocol.MsgCreateCharacter:
		c.handleCreateCharacter(frame)
	case protocol.MsgSelectCharacter:
		c.handleSelectCharacter(frame)
	case protocol.MsgInput:
		c.handleInput(frame)
	case protocol.MsgShoot:
		c.handleShoot(frame)
	case protocol.MsgUseAbility:
		c.handleUseAbility()
	case protocol.MsgPickupLoot:
		c.handlePickupLoot(frame)
	case protocol.MsgEnterPortal:
		c.handleEnterPortal(frame)
	case protocol.MsgReturnToNexus:
		c.handleReturnToNexus()
	case protocol.MsgChat:
		c.handleChat(frame)
	case protocol.MsgSwapItems:
		c.handleSwapItems(frame)
	case protocol.MsgDropItem:
		c.handleDropItem(frame)
	case protocol.MsgInteractVaultChest:
		c.handleInteractVaultChest()
	case protocol.MsgVaultTransfer:
		c.handleVaultTransfer(frame)
	case protocol.MsgCloseVault:
		c.handleCloseVault()
	default:
		slog.Debug("unknown message type", "type", frame.Type)
	}
}

// resident returns the session's player and instance, or nils when the
// session has no character in play.
func (c *Client) resident() (*model.Player, *instance.Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player, c.inst
}

// --- Authentication ---

func (c *Client) handleAuth(frame *protocol.Frame) {
	if !c.authAllowed() {
		c.SendMessage(protocol.MsgError, protocol.ErrorEvent{Message: "rate-limited"})
		return
	}
	var data protocol.AuthData
	if err := frame.Payload(&data); err != nil {
		return
	}

	acc, err := c.server.store.ValidateLogin(c.server.ctx, data.User, data.Pass)
	if err != nil {
		slog.Error("validating login", "error", err)
		acc = nil
	}
	if acc == nil {
		c.SendMessage(protocol.MsgAuthResult, protocol.AuthResult{OK: false, Error: genericAuthError})
		return
	}
	c.finishAuth(acc, "")
}

func (c *Client) handleAuthToken(frame *protocol.Frame) {
	if !c.authAllowed() {
		c.SendMessage(protocol.MsgError, protocol.ErrorEvent{Message: "rate-limited"})
		return
	}
	var data protocol.AuthTokenData
	if err := frame.Payload(&data); err != nil {
		return
	}

	acc, err := c.server.store.ValidateSession(c.server.ctx, data.Token)
	if err != nil {
		slog.Error("validating session", "error", err)
		acc = nil
	}
	if acc == nil {
		c.SendMessage(protocol.MsgAuthResult, protocol.AuthResult{OK: false, Error: genericAuthError})
		return
	}
	c.finishAuth(acc, data.Token)
}

// finishAuth issues (or reuses) a session token and pushes the character
// list.
func (c *Client) finishAuth(acc *db.Account, token string) {
	if token == "" {
		var err error
		token, err = c.server.store.CreateSession(c.server.ctx, acc.ID)
		if err != nil {
			slog.Error("creating session", "accountID", acc.ID, "error", err)
			c.SendMessage(protocol.MsgAuthResult, protocol.AuthResult{OK: false, Error: genericAuthError})
			return
		}
	}

	c.mu.Lock()
	c.account = acc
	c.token = token
	c.mu.Unlock()

	c.SendMessage(protocol.MsgAuthResult, protocol.AuthResult{
		OK:      true,
		Token:   token,
		Account: acc.Username,
		Chars:   c.server.characterInfos(acc.ID),
	})
}

func (c *Client) handleLogout(frame *protocol.Frame) {
	var data protocol.LogoutData
	if err := frame.Payload(&data); err != nil {
		return
	}
	if err := c.server.store.RevokeSession(c.server.ctx, data.Token); err != nil {
		slog.Error("revoking session", "error", err)
	}
	c.mu.Lock()
	c.account = nil
	c.token = ""
	c.mu.Unlock()
}

func (c *Client) handleRegister(frame *protocol.Frame) {
	if !c.authAllowed() {
		c.SendMessage(protocol.MsgError, protocol.ErrorEvent{Message: "rate-limited"})
		return
	}
	var data protocol.RegisterData
	if err := frame.Payload(&data); err != nil {
		return
	}

	if _, err := c.server.store.CreateAccount(c.server.ctx, data.User, data.Pass); err != nil {
		// Account-exists reads identically to any other failure.
		c.SendMessage(protocol.MsgRegisterResult, protocol.RegisterResult{OK: false, Error: genericAuthError})
		return
	}
	c.SendMessage(protocol.MsgRegisterResult, protocol.RegisterResult{OK: true})
}

// --- Character selection ---

func (c *Client) handleCreateCharacter(frame *protocol.Frame) {
	acc := c.Account()
	if acc == nil {
		return
	}
	var data protocol.CreateCharacterData
	if err := frame.Payload(&data); err != nil {
		return
	}

	// The character is named after the account.
	if _, err := c.server.store.CreateCharacter(c.server.ctx, acc.ID, acc.Username, data.ClassID); err != nil {
		slog.Debug("creating character", "accountID", acc.ID, "class", data.ClassID, "error", err)
		c.SendMessage(protocol.MsgError, protocol.ErrorEvent{Message: "cannot create character"})
		return
	}
	c.SendMessage(protocol.MsgCharacterList, protocol.CharacterList{Characters: c.server.characterInfos(acc.ID)})
}

func (c *Client) handleSelectCharacter(frame *protocol.Frame) {
	acc := c.Account()
	if acc == nil {
		return
	}
	if p, _ := c.resident(); p != nil {
		return // already in play
	}
	var data protocol.SelectCharacterData
	if err := frame.Payload(&data); err != nil {
		return
	}

	rec, err := c.server.store.GetCharacter(c.server.ctx, data.CharacterID)
	if err != nil {
		slog.Error("loading character", "characterID", data.CharacterID, "error", err)
		return
	}
	if rec == nil || rec.AccountID != acc.ID || !rec.Alive {
		return // wrong owner or dead: silent
	}

	c.server.enterWorld(c, rec)
}

// --- Gameplay ---

func (c *Client) handleInput(frame *protocol.Frame) {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	var data protocol.InputData
	if err := frame.Payload(&data); err != nil {
		return
	}

	move := geom.Vec2{X: data.MoveDirection.X, Y: data.MoveDirection.Y}
	mag := move.Len()
	if mag > 1.1 || math.IsNaN(mag) {
		return // sanitization: impossible input
	}
	if mag > 1 {
		move = move.Normalize()
	}
	if math.IsNaN(data.AimAngle) || math.IsInf(data.AimAngle, 0) {
		return
	}

	// Single assignment; the tick picks it up and fires while held.
	p.SetInput(model.Input{Move: move, Aim: data.AimAngle, Shooting: data.Shooting})
}

func (c *Client) handleShoot(frame *protocol.Frame) {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	var data protocol.ShootData
	if err := frame.Payload(&data); err != nil {
		return
	}
	if math.IsNaN(data.AimAngle) || math.IsInf(data.AimAngle, 0) {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		if resident := in.Player(playerID); resident != nil {
			in.FireWeapon(resident, data.AimAngle)
		}
	})
}

func (c *Client) handleUseAbility() {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		if resident := in.Player(playerID); resident != nil {
			in.UseAbility(resident, in.Now())
		}
	})
}

func (c *Client) handlePickupLoot(frame *protocol.Frame) {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	var data protocol.PickupLootData
	if err := frame.Payload(&data); err != nil {
		return
	}
	lootID, err := uuid.Parse(data.LootID)
	if err != nil {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		if resident := in.Player(playerID); resident != nil {
			in.TryPickupLoot(resident, lootID)
		}
	})
}

func (c *Client) handleEnterPortal(frame *protocol.Frame) {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	var data protocol.EnterPortalData
	if err := frame.Payload(&data); err != nil {
		return
	}
	portalID, err := uuid.Parse(data.PortalID)
	if err != nil {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		resident := in.Player(playerID)
		if resident == nil {
			return
		}
		portal := in.TryEnterPortal(resident, portalID)
		if portal == nil {
			return
		}
		c.server.resolvePortal(c, in, resident, portal)
	})
}

func (c *Client) handleReturnToNexus() {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		if resident := in.Player(playerID); resident != nil {
			c.server.transfer(c, in, resident, c.server.nexus)
		}
	})
}

func (c *Client) handleChat(frame *protocol.Frame) {
	p, inst := c.resident()
	acc := c.Account()
	if p == nil || inst == nil || acc == nil {
		return
	}
	var data protocol.ChatData
	if err := frame.Payload(&data); err != nil {
		return
	}

	msg := strings.TrimSpace(data.Message)
	if msg == "" || len(msg) > constants.ChatMaxLength {
		return
	}
	msg = html.EscapeString(msg)

	if strings.HasPrefix(msg, "/") && c.server.admins.IsAdmin(acc.Username) {
		if c.handleAdminCommand(msg) {
			return
		}
		// Unknown admin commands fall through as ordinary chat.
	}

	from := p.Name
	inst.Enqueue(func(in *instance.Instance) {
		in.Broadcast(protocol.MsgChatEvent, protocol.ChatEvent{From: from, Message: msg})
	})
}

func (c *Client) handleSwapItems(frame *protocol.Frame) {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	var data protocol.SwapItemsData
	if err := frame.Payload(&data); err != nil {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		if resident := in.Player(playerID); resident != nil {
			swapItems(resident, data.From, data.To)
		}
	})
}

func (c *Client) handleDropItem(frame *protocol.Frame) {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	var data protocol.DropItemData
	if err := frame.Payload(&data); err != nil {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		resident := in.Player(playerID)
		if resident == nil {
			return
		}
		itemID := takeSlot(resident, data.Slot)
		if itemID == "" {
			return
		}
		resident.ClampVitals()
		in.DropItem(resident, itemID, in.Now())
	})
}

// --- Item slot plumbing ---

const totalSlots = constants.EquipmentSize + constants.InventorySize

// slotItem reads the combined slot space: 0..3 equipment, 4..11 inventory.
func slotItem(p *model.Player, slot int) string {
	switch {
	case slot < 0 || slot >= totalSlots:
		return ""
	case slot < constants.EquipmentSize:
		return p.Equipment[slot]
	default:
		return p.Inventory[slot-constants.EquipmentSize]
	}
}

func setSlot(p *model.Player, slot int, itemID string) {
	switch {
	case slot < 0 || slot >= totalSlots:
	case slot < constants.EquipmentSize:
		p.Equipment[slot] = itemID
	default:
		p.Inventory[slot-constants.EquipmentSize] = itemID
	}
}

// takeSlot clears a slot and returns what was in it.
func takeSlot(p *model.Player, slot int) string {
	itemID := slotItem(p, slot)
	if itemID != "" {
		setSlot(p, slot, "")
	}
	return itemID
}

// canPlace reports whether the item may occupy the slot for this class.
// Inventory accepts anything; equipment slots are typed.
func canPlace(class *content.Class, slot int, itemID string) bool {
	if slot >= constants.EquipmentSize {
		return true
	}
	if itemID == "" {
		return true
	}
	it := content.GetItem(itemID)
	if it == nil {
		return false
	}
	switch slot {
	case model.SlotWeapon:
		return it.Weapon != nil && it.Weapon.Type == class.WeaponType
	case model.SlotAbility:
		return it.Ability != nil && it.Ability.Type == class.AbilityType
	case model.SlotArmor:
		return it.Armor != nil && it.Armor.Type == class.ArmorType
	case model.SlotRing:
		return it.Ring != nil
	}
	return false
}

// swapItems exchanges two slots with class-compatibility validation, then
// clamps vitals against the new effective maximums.
func swapItems(p *model.Player, from, to int) {
	if from == to || from < 0 || to < 0 || from >= totalSlots || to >= totalSlots {
		return
	}
	class := p.Class()
	if class == nil {
		return
	}
	a, b := slotItem(p, from), slotItem(p, to)
	if !canPlace(class, to, a) || !canPlace(class, from, b) {
		return
	}
	setSlot(p, from, b)
	setSlot(p, to, a)
	p.ClampVitals()
}
