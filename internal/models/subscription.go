package models

import "time"

// SubscriptionStatus is the lifecycle state of a Subscription.
type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

// Subscription is a purchased tier instance.
// At most one subscription is active per session; the rest live in history.
type Subscription struct {
	// ID is the unique identifier (UUID format).
	ID string

	// TierID references the ServiceTier that was purchased.
	TierID int

	// TierName is the tier's display name at purchase time.
	TierName string

	// StartDate is when the subscription became active.
	StartDate time.Time

	// EndDate is when the subscription lapses. When a subscription is
	// superseded by a new purchase, EndDate is moved back to the purchase moment.
	EndDate time.Time

	// Status is active or expired.
	Status SubscriptionStatus

	// AutoRenewal records whether the user wants the subscription repurchased
	// at expiry. Renewal itself is executed by the backend.
	AutoRenewal bool

	// Devices is the number of devices currently using the subscription.
	Devices int
}

// Active reports whether the subscription is the active one.
func (s Subscription) Active() bool {
	return s.Status == SubscriptionActive
}

// Expire returns a copy of s marked expired and ending at 'at'.
// The end date is never moved later than it already was.
func (s Subscription) Expire(at time.Time) Subscription {
	s.Status = SubscriptionExpired
	if at.Before(s.EndDate) {
		s.EndDate = at
	}
	return s
}
