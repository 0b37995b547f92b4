package model

import (
	"time"

	"github.com/veydras/realmd/internal/geom"
)

// Portal transfers players to another instance. A portal with an expiry
// blinks faster as time runs out and removes itself at the deadline.
type Portal struct {
	Entity

	TargetInstance string
	TargetKind     InstanceKind
	Name           string

	SpawnedAt time.Time
	ExpiresAt time.Time // zero = permanent
	Visible   bool
}

// NewPortal builds a portal. expiresAt zero means permanent.
func NewPortal(pos geom.Vec2, targetInstance string, targetKind InstanceKind, name string, spawnedAt, expiresAt time.Time) *Portal {
	return &Portal{
		Entity:         NewEntity(pos, 0.6),
		TargetInstance: targetInstance,
		TargetKind:     targetKind,
		Name:           name,
		SpawnedAt:      spawnedAt,
		ExpiresAt:      expiresAt,
		Visible:        true,
	}
}

// blinkPeriod returns the blink cadence for the remaining lifetime, or 0
// for steady visibility.
func blinkPeriod(remaining time.Duration) time.Duration {
	switch {
	case remaining >= 30*time.Second:
		return 0
	case remaining >= 10*time.Second:
		return 500 * time.Millisecond
	case remaining >= 3*time.Second:
		return 250 * time.Millisecond
	default:
		return 100 * time.Millisecond
	}
}

// Update advances blink visibility and self-removes at expiry.
func (p *Portal) Update(now time.Time) {
	if p.ExpiresAt.IsZero() {
		p.Visible = true
		return
	}
	if !now.Before(p.ExpiresAt) {
		p.MarkRemoved()
		return
	}
	period := blinkPeriod(p.ExpiresAt.Sub(now))
	if period == 0 {
		p.Visible = true
		return
	}
	bucket := now.Sub(p.SpawnedAt) / period
	p.Visible = bucket%2 == 0
}
