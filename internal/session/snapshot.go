package session

import (
	"time"

	"github.com/mmynk/skydragon/internal/calculator"
	"github.com/mmynk/skydragon/internal/models"
)

// Snapshot is a read-only copy of everything a view can read. It shares no
// memory with the store.
type Snapshot struct {
	// TakenAt is the instant derived values were computed for.
	TakenAt time.Time

	Active    models.Subscription
	HasActive bool
	Progress  calculator.Progress

	// ActiveTier is the catalog entry of the active subscription.
	ActiveTier models.ServiceTier

	History   []models.Subscription // most recent first
	Referrals []models.Referral
	Reward    models.ReferralReward
	Payments  []models.Payment // most recent first

	Catalog     []models.ServiceTier
	GiftCatalog []models.ServiceTier
}

// Snapshot copies the current state and computes derived values at now.
// A subscription whose end date the store clock has reached is expired first.
func (s *Store) Snapshot(now time.Time) Snapshot {
	defer s.lock()()

	snap := Snapshot{
		TakenAt:     now,
		History:     reversed(s.history),
		Referrals:   append([]models.Referral(nil), s.referrals...),
		Reward:      s.reward(),
		Payments:    reversed(s.payments),
		Catalog:     cloneTiers(s.catalog),
		GiftCatalog: cloneTiers(s.giftTiers()),
	}
	if s.active != nil {
		snap.Active = *s.active
		snap.HasActive = true
		snap.Progress = ComputeProgress(*s.active, now)
		if tier, err := s.tier(s.active.TierID); err == nil {
			snap.ActiveTier = tier.Clone()
		}
	}
	return snap
}
