package navigation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/skydragon/internal/models"
)

type recordingObserver struct {
	mu          sync.Mutex
	transitions [][2]models.Screen
}

func (o *recordingObserver) ObserveNavigation(from, to models.Screen) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, [2]models.Screen{from, to})
}

func TestInitializeSkipSplash(t *testing.T) {
	c := New(WithSkipSplash())
	assert.Equal(t, PhaseLoading, c.Phase())

	require.NoError(t, c.Initialize(context.Background()))
	assert.Equal(t, PhaseReady, c.Phase())
	assert.True(t, c.ContentLoaded())
	assert.Equal(t, models.ScreenHome, c.Current())
}

func TestInitializeRunsSplashSequence(t *testing.T) {
	c := New(WithTimings(10*time.Millisecond, 80*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- c.Initialize(context.Background()) }()

	require.Eventually(t, func() bool { return c.Phase() == PhaseSplash }, time.Second, time.Millisecond)
	require.Eventually(t, c.ContentLoaded, time.Second, time.Millisecond)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Initialize did not return")
	}
	assert.Equal(t, PhaseReady, c.Phase())
	assert.Equal(t, models.ScreenHome, c.Current())
}

func TestInitializeCancelled(t *testing.T) {
	c := New(WithTimings(time.Hour, time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Initialize(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PhaseReady, c.Phase())
	assert.Equal(t, models.ScreenHome, c.Current())
}

func TestNavigateIsTotal(t *testing.T) {
	c := New(WithSkipSplash())
	require.NoError(t, c.Initialize(context.Background()))

	for _, s := range models.AllScreens() {
		assert.Equal(t, s, c.Navigate(s))
		assert.Equal(t, s, c.Current())
	}

	for _, bad := range []models.Screen{-3, models.Screen(models.ScreenCount), 1000} {
		c.Navigate(models.ScreenGift)
		assert.Equal(t, models.ScreenHome, c.Navigate(bad))
		assert.True(t, c.Current().Valid())
	}
}

func TestNavigateByName(t *testing.T) {
	c := New(WithSkipSplash())

	assert.Equal(t, models.ScreenPaymentHistory, c.NavigateByName("payment-history"))
	assert.Equal(t, models.ScreenHome, c.NavigateByName("nowhere"))
	assert.Equal(t, models.ScreenHome, c.Current())
}

func TestFullyConnected(t *testing.T) {
	c := New(WithSkipSplash())
	for _, from := range models.AllScreens() {
		for _, to := range models.AllScreens() {
			c.Navigate(from)
			require.Equal(t, to, c.Navigate(to), "%v -> %v", from, to)
		}
	}
}

func TestBack(t *testing.T) {
	c := New(WithSkipSplash())

	c.Navigate(models.ScreenPaymentHistory)
	assert.Equal(t, models.ScreenSubscriptions, c.Back(), "default parent")
	assert.Equal(t, models.ScreenHome, c.Back())

	c.NavigateWithReturn(models.ScreenTerms, models.ScreenServices)
	assert.Equal(t, models.ScreenServices, c.Back(), "explicit return target")
	assert.Equal(t, models.ScreenHome, c.Back(), "return target is used once")

	c.NavigateWithReturn(models.ScreenGift, models.Screen(-1))
	assert.Equal(t, models.ScreenHome, c.Back(), "invalid return target resolves to home")
}

func TestConcurrentBackStepsOncePerCall(t *testing.T) {
	for i := 0; i < 100; i++ {
		obs := &recordingObserver{}
		c := New(WithSkipSplash(), WithObserver(obs))
		c.NavigateWithReturn(models.ScreenPaymentHistory, models.ScreenSubscriptions)

		var wg sync.WaitGroup
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Back()
			}()
		}
		wg.Wait()

		require.Equal(t, models.ScreenHome, c.Current())

		obs.mu.Lock()
		froms := []models.Screen{obs.transitions[1][0], obs.transitions[2][0]}
		obs.mu.Unlock()
		assert.ElementsMatch(t, []models.Screen{models.ScreenPaymentHistory, models.ScreenSubscriptions}, froms)
	}
}

func TestObserverSeesTransitions(t *testing.T) {
	obs := &recordingObserver{}
	c := New(WithSkipSplash(), WithObserver(obs))

	c.Navigate(models.ScreenServices)
	c.Navigate(models.ScreenGift)
	c.Back()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, [][2]models.Screen{
		{models.ScreenHome, models.ScreenServices},
		{models.ScreenServices, models.ScreenGift},
		{models.ScreenGift, models.ScreenHome},
	}, obs.transitions)
}
