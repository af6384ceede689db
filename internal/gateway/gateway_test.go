package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/skydragon/internal/models"
	"github.com/mmynk/skydragon/internal/session"
	"github.com/mmynk/skydragon/internal/storage"
)

func newCheckout(t *testing.T, gw Gateway) (*Checkout, *session.Store) {
	t.Helper()
	tiers, err := storage.DefaultCatalog().LoadCatalog(context.Background())
	require.NoError(t, err)
	store, err := session.NewStore(tiers)
	require.NoError(t, err)
	return NewCheckout(gw, store, nil), store
}

func TestCheckoutPurchaseApproved(t *testing.T) {
	gw := &Simulated{}
	checkout, store := newCheckout(t, gw)

	sub, err := checkout.Purchase(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.TierID)
	assert.Equal(t, []int{2}, gw.Calls())

	payments := store.PaymentHistory()
	require.Len(t, payments, 1)
	assert.Equal(t, 600, payments[0].Amount)
}

func TestCheckoutUnknownTierSkipsGateway(t *testing.T) {
	gw := &Simulated{}
	checkout, store := newCheckout(t, gw)

	_, err := checkout.Purchase(context.Background(), 77, 1)
	require.ErrorIs(t, err, session.ErrUnknownTier)
	_, err = checkout.Gift(context.Background(), 77, "@friend")
	require.ErrorIs(t, err, session.ErrUnknownTier)
	_, err = checkout.Gift(context.Background(), 1, "")
	require.ErrorIs(t, err, session.ErrInvalidRecipient)

	assert.Empty(t, gw.Calls())
	assert.Empty(t, store.PaymentHistory())
}

func TestCheckoutDeclined(t *testing.T) {
	gw := &Simulated{Decline: map[int]string{1: "insufficient funds"}}
	checkout, store := newCheckout(t, gw)

	_, err := checkout.Purchase(context.Background(), 1, 1)
	require.ErrorIs(t, err, ErrDeclined)

	_, ok := store.ActiveSubscription()
	assert.False(t, ok)
	payments := store.PaymentHistory()
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentFailed, payments[0].Status)
	assert.Contains(t, payments[0].Description, "insufficient funds")
}

func TestCheckoutChannelFailure(t *testing.T) {
	gw := &Simulated{Err: errors.New("connection refused")}
	checkout, store := newCheckout(t, gw)

	_, err := checkout.Gift(context.Background(), 1, "@friend")
	require.ErrorIs(t, err, session.ErrExternalChannel)

	var extErr *session.ExternalChannelError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, Channel, extErr.Channel)
	assert.Empty(t, store.PaymentHistory(), "channel failures leave the store unchanged")
}

func TestCheckoutGift(t *testing.T) {
	checkout, store := newCheckout(t, &Simulated{})

	p, err := checkout.Gift(context.Background(), 1, "@friend")
	require.NoError(t, err)
	assert.True(t, p.Gift)

	_, ok := store.ActiveSubscription()
	assert.False(t, ok)
}
