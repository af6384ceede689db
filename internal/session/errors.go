package session

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTier          = errors.New("unknown service tier")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrReferralNotFound     = errors.New("referral not found")
	ErrExternalChannel      = errors.New("external channel failure")

	ErrInvalidPeriods      = errors.New("quantity of periods must be at least 1")
	ErrInvalidRecipient    = errors.New("gift recipient required")
	ErrDeviceLimitExceeded = errors.New("device count outside tier limit")
	ErrInboxClosed         = errors.New("notification inbox closed")
)

// ExternalChannelError reports a failure of the payment gateway or the
// referral backend. It is the only error kind that is shown to the user as
// a dismissible notice.
type ExternalChannelError struct {
	// Channel names the failing collaborator ("payment-gateway", "referral-feed").
	Channel string
	Err     error
}

// NewExternalChannelError wraps err as a failure of the named channel.
func NewExternalChannelError(channel string, err error) *ExternalChannelError {
	return &ExternalChannelError{Channel: channel, Err: err}
}

func (e *ExternalChannelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Channel, ErrExternalChannel)
	}
	return fmt.Sprintf("%s: %v: %v", e.Channel, ErrExternalChannel, e.Err)
}

func (e *ExternalChannelError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrExternalChannel) match any ExternalChannelError.
func (e *ExternalChannelError) Is(target error) bool {
	return target == ErrExternalChannel
}

// IsDomainError reports whether err is one of the recoverable domain errors
// that leave the store unchanged.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrUnknownTier,
		ErrNoActiveSubscription,
		ErrReferralNotFound,
		ErrInvalidPeriods,
		ErrInvalidRecipient,
		ErrDeviceLimitExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
