package models

import "time"

// ReferralStatus is the state of an invited contact.
type ReferralStatus string

const (
	ReferralInvited   ReferralStatus = "invited"
	ReferralActivated ReferralStatus = "activated"
)

// Referral is a contact invited through the user's referral link.
// Referrals are only ever appended; activation is the only transition.
type Referral struct {
	// ID is the unique identifier (UUID format).
	ID string

	// Name is the display name of the invited contact.
	Name string

	// InvitedAt is when the invitation was accepted.
	InvitedAt time.Time

	// Status is invited until the backend confirms a purchase.
	Status ReferralStatus

	// ActivatedAt is set on the invited→activated transition.
	ActivatedAt time.Time
}

// Activated reports whether the referred user has purchased a tier.
func (r Referral) Activated() bool {
	return r.Status == ReferralActivated
}

// ReferralReward is the bonus earned from activated referrals.
// It is derived on demand and never stored.
type ReferralReward struct {
	Days           int
	ActivatedCount int
}
