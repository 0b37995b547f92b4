package model

import "github.com/veydras/realmd/internal/geom"

// VaultChest is the static interaction point inside a vault instance.
type VaultChest struct {
	Entity
}

// NewVaultChest builds a chest at the vault's fixed anchor.
func NewVaultChest(pos geom.Vec2) *VaultChest {
	return &VaultChest{Entity: NewEntity(pos, 0.5)}
}
