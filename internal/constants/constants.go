// Package constants holds the tunable gameplay values shared across the
// simulation, session and orchestration layers.
package constants

import "time"

const (
	// TickRate is the simulation frequency in Hz. Snapshots go out at half
	// of it.
	TickRate   = 20
	TickPeriod = time.Second / TickRate

	// SnapshotEvery is the tick modulus for snapshot emission (10 Hz).
	SnapshotEvery = 2

	// AOIRadius is the client visibility cutoff in tiles (Euclidean).
	AOIRadius = 15.0

	PickupRange             = 1.0
	PortalInteractRange     = 1.5
	VaultChestInteractRange = 1.5

	PlayerRadius = 0.35

	// EnemyAggroRange is the target-acquisition radius in tiles.
	EnemyAggroRange = 15.0

	VaultSize     = 8
	InventorySize = 8
	EquipmentSize = 4

	// MaxAlivePerClass caps alive characters per class per account.
	MaxAlivePerClass = 2

	ChatMaxLength = 200

	AuthAttemptLimit  = 5
	AuthAttemptWindow = 60 * time.Second

	// Input messages closer together than InputBurstGap count toward a
	// burst; a burst above InputBurstLimit trips the rate limiter.
	InputBurstGap   = 10 * time.Millisecond
	InputBurstLimit = 100

	DungeonPortalExpiry = 120 * time.Second
	LootDespawn         = 60 * time.Second

	// SoulboundThreshold is the fraction of an enemy's max hp a player must
	// have dealt to qualify for soulbound drops.
	SoulboundThreshold = 0.05

	// SafeZoneRegenFraction is the per-second hp/mp regen in safe zones,
	// as a fraction of the effective maximum.
	SafeZoneRegenFraction = 0.2

	// SessionTokenBytes is the raw size of a session token before hex
	// encoding.
	SessionTokenBytes = 32
	SessionLifetime   = 30 * 24 * time.Hour

	AutosaveInterval = 30 * time.Second

	// MaxHitTracked bounds a piercing projectile's hit set.
	MaxHitTracked = 64
)
