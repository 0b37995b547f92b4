package gameserver

import (
	"fmt"
	"log/slog"

	"github.com/veydras/realmd/internal/constants"
	"github.com/veydras/realmd/internal/instance"
	"github.com/veydras/realmd/internal/model"
	"github.com/veydras/realmd/internal/protocol"
)

// vaultInstanceID derives the deterministic vault id for an account.
func vaultInstanceID(accountID int64) string {
	return fmt.Sprintf("vault-%d", accountID)
}

// ownVault reports whether the instance is this session's own vault. Every
// vault mutation is gated on it; acting on another account's vault drops
// silently.
func (c *Client) ownVault(in *instance.Instance) bool {
	acc := c.Account()
	if acc == nil {
		return false
	}
	return in.Kind == model.KindVault && in.ID == vaultInstanceID(acc.ID)
}

func (c *Client) handleInteractVaultChest() {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		resident := in.Player(playerID)
		if resident == nil || !c.ownVault(in) {
			return
		}
		if in.ChestInRange(resident) == nil {
			return
		}
		items := c.server.vaultItems(resident.AccountID)
		if items == nil {
			return
		}
		c.mu.Lock()
		c.vaultOpen = true
		c.mu.Unlock()
		c.SendMessage(protocol.MsgVaultOpen, protocol.VaultOpen{Items: items})
	})
}

func (c *Client) handleVaultTransfer(frame *protocol.Frame) {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	var data protocol.VaultTransferData
	if err := frame.Payload(&data); err != nil {
		return
	}
	playerID := p.ID()
	inst.Enqueue(func(in *instance.Instance) {
		resident := in.Player(playerID)
		if resident == nil || !c.ownVault(in) {
			slog.Debug("vault transfer outside own vault dropped", "instance", in.ID)
			return
		}
		c.mu.Lock()
		open := c.vaultOpen
		c.mu.Unlock()
		if !open {
			return
		}
		items := c.server.vaultTransfer(resident, data)
		if items == nil {
			return
		}
		c.SendMessage(protocol.MsgVaultUpdate, protocol.VaultUpdate{Items: items})
	})
}

func (c *Client) handleCloseVault() {
	p, inst := c.resident()
	if p == nil || inst == nil {
		return
	}
	accountID := int64(0)
	if acc := c.Account(); acc != nil {
		accountID = acc.ID
	}
	inst.Enqueue(func(in *instance.Instance) {
		c.mu.Lock()
		wasOpen := c.vaultOpen
		c.vaultOpen = false
		c.mu.Unlock()
		if wasOpen && c.ownVault(in) {
			c.server.persistVault(accountID)
		}
	})
}

// vaultTransfer performs the atomic vault-slot <-> inventory-slot swap and
// persists immediately. Returns the new vault contents, or nil when the
// transfer was rejected.
func (s *Server) vaultTransfer(p *model.Player, data protocol.VaultTransferData) []string {
	s.mu.Lock()
	vault := s.vaults[p.AccountID]
	s.mu.Unlock()
	if vault == nil {
		return nil
	}

	if data.FromVault {
		if data.FromSlot < 0 || data.FromSlot >= constants.VaultSize {
			return nil
		}
		if data.ToSlot < 0 || data.ToSlot >= constants.InventorySize {
			return nil
		}
		vault.items[data.FromSlot], p.Inventory[data.ToSlot] = p.Inventory[data.ToSlot], vault.items[data.FromSlot]
	} else {
		if data.FromSlot < 0 || data.FromSlot >= constants.InventorySize {
			return nil
		}
		if data.ToSlot < 0 || data.ToSlot >= constants.VaultSize {
			return nil
		}
		p.Inventory[data.FromSlot], vault.items[data.ToSlot] = vault.items[data.ToSlot], p.Inventory[data.FromSlot]
	}

	s.persistVault(p.AccountID)
	return append([]string(nil), vault.items...)
}

// vaultItems returns a copy of the cached vault contents.
func (s *Server) vaultItems(accountID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	vault := s.vaults[accountID]
	if vault == nil {
		return nil
	}
	return append([]string(nil), vault.items...)
}

// persistVault writes the cached vault contents through to the store.
func (s *Server) persistVault(accountID int64) {
	s.mu.Lock()
	vault := s.vaults[accountID]
	s.mu.Unlock()
	if vault == nil {
		return
	}
	items := append([]string(nil), vault.items...)
	go func() {
		if err := s.store.SaveVaultItems(s.ctx, accountID, items); err != nil {
			slog.Error("persisting vault", "accountID", accountID, "error", err)
		}
	}()
}
