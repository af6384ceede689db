package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/skydragon/internal/models"
	"github.com/mmynk/skydragon/internal/navigation"
	"github.com/mmynk/skydragon/internal/session"
)

var (
	_ session.Observer      = (*Recorder)(nil)
	_ session.InboxObserver = (*Recorder)(nil)
	_ navigation.Observer   = (*Recorder)(nil)
)

func TestRecorderCountsResults(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)

	rec.ObserveIntent(session.IntentPurchase, nil)
	rec.ObserveIntent(session.IntentPurchase, fmt.Errorf("wrap: %w", session.ErrUnknownTier))
	rec.ObserveIntent(session.IntentPurchase, session.NewExternalChannelError("payment-gateway", errors.New("down")))
	rec.ObserveNotification(string(session.NotifyReferralActivated), session.ErrReferralNotFound)
	rec.ObserveNavigation(models.ScreenHome, models.ScreenSubscriptions)
	rec.ObserveNavigation(models.ScreenSubscriptions, models.ScreenSubscriptions)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.intents.WithLabelValues(session.IntentPurchase, ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.intents.WithLabelValues(session.IntentPurchase, ResultRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.intents.WithLabelValues(session.IntentPurchase, ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.notifications.WithLabelValues("referral_activated", ResultRejected)))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.navigations.WithLabelValues(models.ScreenSubscriptions.String())))
}

func TestRecorderReusesRegisteredCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg)
	require.NoError(t, err)
	second, err := NewRecorder(reg)
	require.NoError(t, err)

	first.ObserveIntent(session.IntentToggleRenewal, nil)
	second.ObserveIntent(session.IntentToggleRenewal, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(first.intents.WithLabelValues(session.IntentToggleRenewal, ResultOK)))
}

func TestHandlerExposesCounters(t *testing.T) {
	rec, err := NewRecorder(nil)
	require.NoError(t, err)
	rec.ObserveNavigation(models.ScreenHome, models.ScreenReferrals)

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), "skydragon_navigation_transitions_total"))
}
