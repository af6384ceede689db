// Package gateway connects purchase and gift intents to the external
// payment gateway and records the outcome in the session store.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmynk/skydragon/internal/models"
	"github.com/mmynk/skydragon/internal/session"
)

// Channel is the name reported in ExternalChannelError for gateway failures.
const Channel = "payment-gateway"

// Outcome is the gateway's verdict on a submitted payment.
type Outcome struct {
	Approved bool

	// Reason explains a declined payment.
	Reason string
}

// Gateway submits payments to the external payment processor.
// A returned error means the channel itself failed; a declined payment is
// reported through Outcome.
type Gateway interface {
	SubmitPayment(ctx context.Context, tierID, amount int) (Outcome, error)
}

// Checkout validates intents locally, submits them to the gateway and
// applies the outcome to the store. Outcomes are applied even when the
// screen that started the checkout is no longer shown.
type Checkout struct {
	gateway Gateway
	store   *session.Store
	logger  *slog.Logger
}

// NewCheckout creates a checkout over the given gateway and store.
func NewCheckout(gw Gateway, store *session.Store, logger *slog.Logger) *Checkout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checkout{gateway: gw, store: store, logger: logger}
}

// ErrDeclined is returned when the gateway declines a payment.
var ErrDeclined = errors.New("payment declined")

// Purchase pays for periods periods of the tier and activates it.
func (c *Checkout) Purchase(ctx context.Context, tierID, periods int) (models.Subscription, error) {
	tier, err := c.store.Tier(tierID)
	if err != nil {
		return models.Subscription{}, err
	}
	if periods < 1 {
		return models.Subscription{}, fmt.Errorf("%w: got %d", session.ErrInvalidPeriods, periods)
	}

	if err := c.submit(ctx, tier, tier.Price*periods); err != nil {
		return models.Subscription{}, err
	}
	return c.store.Purchase(tierID, periods)
}

// Gift pays for one period of the tier on behalf of recipient.
func (c *Checkout) Gift(ctx context.Context, tierID int, recipient string) (models.Payment, error) {
	tier, err := c.store.Tier(tierID)
	if err != nil {
		return models.Payment{}, err
	}
	if strings.TrimSpace(recipient) == "" {
		return models.Payment{}, session.ErrInvalidRecipient
	}

	if err := c.submit(ctx, tier, tier.Price); err != nil {
		return models.Payment{}, err
	}
	return c.store.RecordGift(tierID, recipient)
}

func (c *Checkout) submit(ctx context.Context, tier models.ServiceTier, amount int) error {
	c.logger.Info("Submitting payment", "tier_id", tier.ID, "amount", amount)

	outcome, err := c.gateway.SubmitPayment(ctx, tier.ID, amount)
	if err != nil {
		c.logger.Error("Payment gateway failed", "tier_id", tier.ID, "error", err)
		return session.NewExternalChannelError(Channel, err)
	}
	if !outcome.Approved {
		description := fmt.Sprintf("%s (%s)", tier.Name, tier.PeriodLabel)
		if outcome.Reason != "" {
			description = fmt.Sprintf("%s - %s", description, outcome.Reason)
		}
		if _, err := c.store.RecordFailedPayment(tier.ID, description); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrDeclined, outcome.Reason)
	}
	return nil
}

// Simulated is an in-process gateway for offline runs. It approves every
// payment except for the tiers listed in Decline.
type Simulated struct {
	mu      sync.Mutex
	Decline map[int]string
	Err     error
	calls   []int
}

// SubmitPayment approves or declines according to the configuration.
func (g *Simulated) SubmitPayment(ctx context.Context, tierID, amount int) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, tierID)

	if g.Err != nil {
		return Outcome{}, g.Err
	}
	if reason, ok := g.Decline[tierID]; ok {
		return Outcome{Approved: false, Reason: reason}, nil
	}
	return Outcome{Approved: true}, nil
}

// Calls returns the tier IDs submitted so far.
func (g *Simulated) Calls() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int(nil), g.calls...)
}
