// Package session holds the subscription session state of the shell: the
// active subscription and its history, referrals, payments and the tier
// catalog. The Store is the only owner of this state; views read snapshots
// and send intents back through its methods.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/skydragon/internal/calculator"
	"github.com/mmynk/skydragon/internal/models"
)

// giftCatalogSize is the number of leading catalog tiers offered as gifts.
const giftCatalogSize = 3

// Intent names reported to the Observer.
const (
	IntentPurchase         = "purchase"
	IntentToggleRenewal    = "toggle_auto_renewal"
	IntentRecordReferral   = "record_referral"
	IntentActivateReferral = "activate_referral"
	IntentRecordGift       = "record_gift"
	IntentFailedPayment    = "record_failed_payment"
	IntentUpdateDevices    = "update_devices"
	IntentExpire           = "expire"
)

// Store is the Subscription Session Store.
//
// Every method runs under a single mutex, so intents are atomic and never
// interleave. Failed intents leave the state unchanged. Methods that read or
// change the active subscription first expire it when the store clock has
// reached its end date.
type Store struct {
	mu sync.Mutex

	catalog   []models.ServiceTier
	tierIndex map[int]int

	active    *models.Subscription
	history   []models.Subscription // oldest first
	referrals []models.Referral     // recording order
	refIndex  map[string]int
	payments  []models.Payment // oldest first

	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
	observer Observer
}

// NewStore creates a Store over the given catalog.
// The catalog is validated and copied; duplicate tier IDs are rejected.
func NewStore(catalog []models.ServiceTier, opts ...Option) (*Store, error) {
	s := &Store{
		tierIndex: make(map[int]int, len(catalog)),
		refIndex:  make(map[string]int),
		now:       time.Now,
		newID:     defaultID,
		logger:    slog.Default(),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.catalog = make([]models.ServiceTier, 0, len(catalog))
	for _, tier := range catalog {
		if err := tier.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.tierIndex[tier.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate tier id %d", models.ErrInvalidTier, tier.ID)
		}
		s.tierIndex[tier.ID] = len(s.catalog)
		s.catalog = append(s.catalog, tier.Clone())
	}

	return s, nil
}

// Catalog returns the purchasable tiers in catalog order.
func (s *Store) Catalog() []models.ServiceTier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTiers(s.catalog)
}

// GiftCatalog returns the tiers offered on the gift screen.
func (s *Store) GiftCatalog() []models.ServiceTier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTiers(s.giftTiers())
}

// Tier looks up a catalog tier by ID.
func (s *Store) Tier(id int) (models.ServiceTier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tier, err := s.tier(id)
	if err != nil {
		return models.ServiceTier{}, err
	}
	return tier.Clone(), nil
}

// ActiveSubscription returns the active subscription, if any.
func (s *Store) ActiveSubscription() (models.Subscription, bool) {
	defer s.lock()()
	if s.active == nil {
		return models.Subscription{}, false
	}
	return *s.active, true
}

// History returns the expired subscriptions, most recent first.
func (s *Store) History() []models.Subscription {
	defer s.lock()()
	return reversed(s.history)
}

// PaymentHistory returns all payments, most recent first.
func (s *Store) PaymentHistory() []models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reversed(s.payments)
}

// Referrals returns the referrals in the order they were recorded.
func (s *Store) Referrals() []models.Referral {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Referral(nil), s.referrals...)
}

// Purchase buys periods consecutive periods of the tier. Purchase and renewal
// are the same operation: an existing active subscription is superseded and
// moved to history, ending at the purchase moment.
func (s *Store) Purchase(tierID, periods int) (models.Subscription, error) {
	return s.PurchaseAt(tierID, periods, time.Time{})
}

// PurchaseAt is Purchase for a payment completed at a known instant, such as
// a backend confirmation applied after the fact. The new subscription and
// its payment start at at; a zero at means the store clock.
func (s *Store) PurchaseAt(tierID, periods int, at time.Time) (sub models.Subscription, err error) {
	defer func() { s.observer.ObserveIntent(IntentPurchase, err) }()
	defer s.lock()()

	tier, err := s.tier(tierID)
	if err != nil {
		return models.Subscription{}, err
	}
	if periods < 1 {
		return models.Subscription{}, fmt.Errorf("%w: got %d", ErrInvalidPeriods, periods)
	}

	now := at
	if now.IsZero() {
		now = s.now()
	}
	if s.active != nil {
		superseded := s.active.Expire(now)
		s.history = append(s.history, superseded)
		s.logger.Info("Subscription superseded",
			"subscription_id", superseded.ID,
			"tier_id", superseded.TierID,
		)
	}

	sub = models.Subscription{
		ID:        s.newID(),
		TierID:    tier.ID,
		TierName:  tier.Name,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, tier.DurationDays*periods),
		Status:    models.SubscriptionActive,
	}
	active := sub
	s.active = &active

	s.payments = append(s.payments, models.Payment{
		ID:          s.newID(),
		Date:        now,
		Description: purchaseDescription(tier, periods),
		Amount:      tier.Price * periods,
		Status:      models.PaymentSuccess,
		TierID:      tier.ID,
	})

	s.logger.Info("Purchase completed",
		"subscription_id", sub.ID,
		"tier_id", tier.ID,
		"periods", periods,
		"amount", tier.Price*periods,
		"end_date", sub.EndDate,
	)

	return sub, nil
}

// ToggleAutoRenewal flips the auto-renewal flag of the active subscription
// and returns the new value.
func (s *Store) ToggleAutoRenewal() (enabled bool, err error) {
	defer func() { s.observer.ObserveIntent(IntentToggleRenewal, err) }()
	defer s.lock()()

	if s.active == nil {
		return false, ErrNoActiveSubscription
	}
	s.active.AutoRenewal = !s.active.AutoRenewal

	s.logger.Info("Auto-renewal toggled",
		"subscription_id", s.active.ID,
		"auto_renewal", s.active.AutoRenewal,
	)
	return s.active.AutoRenewal, nil
}

// UpdateDevices records the number of devices using the active subscription.
func (s *Store) UpdateDevices(n int) (err error) {
	defer func() { s.observer.ObserveIntent(IntentUpdateDevices, err) }()
	defer s.lock()()

	if s.active == nil {
		return ErrNoActiveSubscription
	}
	tier, err := s.tier(s.active.TierID)
	if err != nil {
		return err
	}
	if !tier.AllowsDevices(n) {
		return fmt.Errorf("%w: %d devices, limit %s", ErrDeviceLimitExceeded, n, tier.DeviceLimitLabel())
	}
	s.active.Devices = n
	return nil
}

// ExpireDue moves the active subscription to history once its end date has
// been reached. It reports whether a subscription expired.
func (s *Store) ExpireDue(now time.Time) (expired bool) {
	defer func() {
		if expired {
			s.observer.ObserveIntent(IntentExpire, nil)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expireDueLocked(now)
}

// lock acquires s.mu and expires the active subscription if the store clock
// has reached its end date. The returned func releases s.mu and then reports
// the expiry.
func (s *Store) lock() (unlock func()) {
	s.mu.Lock()
	expired := s.expireDueLocked(s.now())
	return func() {
		s.mu.Unlock()
		if expired {
			s.observer.ObserveIntent(IntentExpire, nil)
		}
	}
}

// expireDueLocked must be called with s.mu held.
func (s *Store) expireDueLocked(now time.Time) bool {
	if s.active == nil || now.Before(s.active.EndDate) {
		return false
	}
	expired := s.active.Expire(s.active.EndDate)
	s.history = append(s.history, expired)
	s.active = nil

	s.logger.Info("Subscription expired", "subscription_id", expired.ID, "end_date", expired.EndDate)
	return true
}

// RecordReferral appends an invited referral.
func (s *Store) RecordReferral(name string, date time.Time) models.Referral {
	defer s.observer.ObserveIntent(IntentRecordReferral, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordReferral(s.newID(), name, date)
}

// RecordReferralWithID appends an invited referral under an ID assigned by
// the referral backend. An empty id is replaced by a generated one. A
// referral that was already recorded under id is returned unchanged.
func (s *Store) RecordReferralWithID(id, name string, date time.Time) (models.Referral, error) {
	recorded := false
	defer func() {
		if recorded {
			s.observer.ObserveIntent(IntentRecordReferral, nil)
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = s.newID()
	}
	if idx, ok := s.refIndex[id]; ok {
		return s.referrals[idx], nil
	}
	recorded = true
	return s.recordReferral(id, name, date), nil
}

func (s *Store) recordReferral(id, name string, date time.Time) models.Referral {
	ref := models.Referral{
		ID:        id,
		Name:      strings.TrimSpace(name),
		InvitedAt: date,
		Status:    models.ReferralInvited,
	}
	s.refIndex[ref.ID] = len(s.referrals)
	s.referrals = append(s.referrals, ref)

	s.logger.Info("Referral recorded", "referral_id", ref.ID, "name", ref.Name)
	return ref
}

// ActivateReferral marks a referral as activated. Activating an already
// activated referral is a no-op.
func (s *Store) ActivateReferral(id string) (ref models.Referral, err error) {
	defer func() { s.observer.ObserveIntent(IntentActivateReferral, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.refIndex[id]
	if !ok {
		return models.Referral{}, fmt.Errorf("%w: %s", ErrReferralNotFound, id)
	}
	r := &s.referrals[idx]
	if r.Activated() {
		return *r, nil
	}
	r.Status = models.ReferralActivated
	r.ActivatedAt = s.now()

	s.logger.Info("Referral activated",
		"referral_id", r.ID,
		"activated_count", s.activatedCount(),
	)
	return *r, nil
}

// RewardSummary derives the referral reward from the current referrals.
func (s *Store) RewardSummary() models.ReferralReward {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reward()
}

// RecordGift records a paid gift of the tier for another user. No
// subscription is created for the giver.
func (s *Store) RecordGift(tierID int, recipient string) (p models.Payment, err error) {
	defer func() { s.observer.ObserveIntent(IntentRecordGift, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	tier, err := s.tier(tierID)
	if err != nil {
		return models.Payment{}, err
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return models.Payment{}, ErrInvalidRecipient
	}

	p = models.Payment{
		ID:          s.newID(),
		Date:        s.now(),
		Description: fmt.Sprintf("Gift for %s - %s", recipient, tier.Name),
		Amount:      tier.Price,
		Status:      models.PaymentSuccess,
		TierID:      tier.ID,
		Gift:        true,
		Recipient:   recipient,
	}
	s.payments = append(s.payments, p)

	s.logger.Info("Gift recorded", "payment_id", p.ID, "tier_id", tier.ID, "recipient", recipient)
	return p, nil
}

// RecordFailedPayment records a declined payment for the tier. Subscriptions
// are not touched.
func (s *Store) RecordFailedPayment(tierID int, description string) (p models.Payment, err error) {
	defer func() { s.observer.ObserveIntent(IntentFailedPayment, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	tier, err := s.tier(tierID)
	if err != nil {
		return models.Payment{}, err
	}
	if strings.TrimSpace(description) == "" {
		description = purchaseDescription(tier, 1)
	}

	p = models.Payment{
		ID:          s.newID(),
		Date:        s.now(),
		Description: description,
		Amount:      tier.Price,
		Status:      models.PaymentFailed,
		TierID:      tier.ID,
	}
	s.payments = append(s.payments, p)

	s.logger.Warn("Payment declined", "payment_id", p.ID, "tier_id", tier.ID)
	return p, nil
}

// Progress computes the progress of the active subscription at now.
func (s *Store) Progress(now time.Time) (calculator.Progress, error) {
	defer s.lock()()
	if s.active == nil {
		return calculator.Progress{}, ErrNoActiveSubscription
	}
	return ComputeProgress(*s.active, now), nil
}

// ComputeProgress computes the progress of sub at now. It is a pure function.
func ComputeProgress(sub models.Subscription, now time.Time) calculator.Progress {
	return calculator.ComputeProgress(sub.StartDate, sub.EndDate, now)
}

func (s *Store) tier(id int) (models.ServiceTier, error) {
	idx, ok := s.tierIndex[id]
	if !ok {
		return models.ServiceTier{}, fmt.Errorf("%w: %d", ErrUnknownTier, id)
	}
	return s.catalog[idx], nil
}

func (s *Store) giftTiers() []models.ServiceTier {
	if len(s.catalog) <= giftCatalogSize {
		return s.catalog
	}
	return s.catalog[:giftCatalogSize]
}

func (s *Store) activatedCount() int {
	n := 0
	for _, r := range s.referrals {
		if r.Activated() {
			n++
		}
	}
	return n
}

func (s *Store) reward() models.ReferralReward {
	n := s.activatedCount()
	return models.ReferralReward{
		Days:           calculator.RewardDaysFor(n),
		ActivatedCount: n,
	}
}

func purchaseDescription(tier models.ServiceTier, periods int) string {
	if periods == 1 {
		return fmt.Sprintf("%s (%s)", tier.Name, tier.PeriodLabel)
	}
	return fmt.Sprintf("%s (%d x %s)", tier.Name, periods, tier.PeriodLabel)
}

func cloneTiers(tiers []models.ServiceTier) []models.ServiceTier {
	out := make([]models.ServiceTier, len(tiers))
	for i, t := range tiers {
		out[i] = t.Clone()
	}
	return out
}

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
