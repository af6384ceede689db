package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Observer receives the outcome of every store intent.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveIntent(intent string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveIntent(string, error) {}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for purchases, payments and referrals.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the generator of subscription, referral and payment IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers an observer for intent outcomes.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

func defaultID() string {
	return uuid.New().String()
}
