package models

import "time"

// PaymentStatus is the outcome of a transaction.
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is a completed transaction record. Payments are append-only.
type Payment struct {
	// ID is the unique identifier (UUID format).
	ID string

	// Date is when the outcome was recorded.
	Date time.Time

	// Description is the line shown in payment history,
	// e.g. "Valdrim (1 month)" or "Gift for @alex - Shaargos".
	Description string

	// Amount is the charged amount in whole currency units.
	Amount int

	// Status is success or failed.
	Status PaymentStatus

	// TierID references the purchased tier.
	TierID int

	// Gift marks payments made for another user.
	Gift bool

	// Recipient is the gift recipient reference; empty for own purchases.
	Recipient string
}
