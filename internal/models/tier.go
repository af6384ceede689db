package models

import (
	"errors"
	"fmt"
	"strings"
)

// UnlimitedDevices is the DeviceLimit value of tiers without a device cap.
const UnlimitedDevices = 0

var ErrInvalidTier = errors.New("invalid service tier")

// ServiceTier is a catalog entry describing a purchasable plan.
// Tiers are reference data: created at startup and never mutated.
type ServiceTier struct {
	// ID is the catalog identifier of the tier.
	ID int

	// Name is the display name (e.g. "Valdrim").
	Name string

	// Price is the cost of one period, in whole currency units.
	Price int

	// PeriodLabel is the human-readable billing period (e.g. "1 month").
	PeriodLabel string

	// DurationDays is the length of one billing period.
	DurationDays int

	// Features is the ordered list of selling points shown with the tier.
	Features []string

	// Popular marks the tier that is highlighted in the catalog.
	Popular bool

	// DeviceLimit is the number of devices a subscription may use.
	// UnlimitedDevices (0) means no cap.
	DeviceLimit int

	// DragonPower is a 0-100 presentation rating.
	DragonPower int

	// ColorTag is an opaque presentation hint for the renderer.
	ColorTag string
}

// Validate checks the numeric and naming invariants of the tier.
func (t ServiceTier) Validate() error {
	switch {
	case t.ID <= 0:
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidTier, t.ID)
	case strings.TrimSpace(t.Name) == "":
		return fmt.Errorf("%w: tier %d has no name", ErrInvalidTier, t.ID)
	case t.Price <= 0:
		return fmt.Errorf("%w: tier %d price must be positive, got %d", ErrInvalidTier, t.ID, t.Price)
	case t.DurationDays <= 0:
		return fmt.Errorf("%w: tier %d duration must be positive, got %d", ErrInvalidTier, t.ID, t.DurationDays)
	case t.DeviceLimit < 0:
		return fmt.Errorf("%w: tier %d device limit must not be negative", ErrInvalidTier, t.ID)
	case t.DragonPower < 0 || t.DragonPower > 100:
		return fmt.Errorf("%w: tier %d dragon power must be within 0-100", ErrInvalidTier, t.ID)
	}
	return nil
}

// Unlimited reports whether the tier has no device cap.
func (t ServiceTier) Unlimited() bool {
	return t.DeviceLimit == UnlimitedDevices
}

// AllowsDevices reports whether n devices fit within the tier's limit.
func (t ServiceTier) AllowsDevices(n int) bool {
	if n < 0 {
		return false
	}
	return t.Unlimited() || n <= t.DeviceLimit
}

// Clone returns a copy that shares no memory with t.
func (t ServiceTier) Clone() ServiceTier {
	t.Features = append([]string(nil), t.Features...)
	return t
}

// DeviceLimitLabel renders the limit for display ("5", "unlimited").
func (t ServiceTier) DeviceLimitLabel() string {
	if t.Unlimited() {
		return "unlimited"
	}
	return fmt.Sprintf("%d", t.DeviceLimit)
}
