package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/skydragon/internal/auth"
	"github.com/mmynk/skydragon/internal/session"
	"github.com/mmynk/skydragon/internal/storage"
)

func newInbox(t *testing.T) (*session.Inbox, *session.Store) {
	t.Helper()
	tiers, err := storage.DefaultCatalog().LoadCatalog(context.Background())
	require.NoError(t, err)
	store, err := session.NewStore(tiers)
	require.NoError(t, err)
	return session.NewInbox(store), store
}

// serve starts a websocket server that writes frames and then closes.
func serve(t *testing.T, frames []string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "bye"))
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func collect(t *testing.T, inbox *session.Inbox) []session.Event {
	t.Helper()
	var events []session.Event
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-inbox.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("timed out waiting for inbox to finish")
			return events
		}
	}
}

func TestClientForwardsVerifiedNotifications(t *testing.T) {
	tokens, err := auth.NewTokenManager("feed-secret", time.Hour)
	require.NoError(t, err)

	invited, err := tokens.Generate(session.Notification{Kind: session.NotifyReferralInvited, ReferralID: "r1", Name: "Ann"})
	require.NoError(t, err)
	activated, err := tokens.Generate(session.Notification{Kind: session.NotifyReferralActivated, ReferralID: "r1"})
	require.NoError(t, err)

	forger, err := auth.NewTokenManager("wrong-secret", time.Hour)
	require.NoError(t, err)
	forged, err := forger.Generate(session.Notification{Kind: session.NotifyPaymentCompleted, TierID: 4})
	require.NoError(t, err)

	url := serve(t, []string{invited, forged, "garbage", activated})
	inbox, store := newInbox(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = inbox.Run(ctx) }()

	require.NoError(t, NewClient(url, tokens, inbox).Run(ctx))

	events := collect(t, inbox)
	require.Len(t, events, 3)
	assert.Equal(t, session.NotifyReferralInvited, events[0].Notification.Kind)
	assert.Equal(t, session.NotifyReferralActivated, events[1].Notification.Kind)
	assert.True(t, events[2].Terminal)
	assert.ErrorIs(t, events[2].Err, session.ErrExternalChannel)

	refs := store.Referrals()
	require.Len(t, refs, 1)
	assert.Equal(t, "Ann", refs[0].Name)
	_, ok := store.ActiveSubscription()
	assert.False(t, ok, "forged payment must not apply")
}

func TestClientDialFailureIsTerminal(t *testing.T) {
	tokens, err := auth.NewTokenManager("feed-secret", time.Hour)
	require.NoError(t, err)
	inbox, _ := newInbox(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = inbox.Run(ctx) }()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	require.NoError(t, NewClient(url, tokens, inbox).Run(ctx))

	events := collect(t, inbox)
	require.Len(t, events, 1)
	assert.True(t, events[0].Terminal)
	var extErr *session.ExternalChannelError
	require.ErrorAs(t, events[0].Err, &extErr)
	assert.Equal(t, Channel, extErr.Channel)
}
