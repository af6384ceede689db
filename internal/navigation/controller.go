// Package navigation implements the screen state machine of the shell:
// a loading phase, a splash phase, then a fully connected graph of screens.
package navigation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/skydragon/internal/models"
)

// Phase is the startup phase of the controller.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseSplash
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSplash:
		return "splash"
	default:
		return "ready"
	}
}

const (
	DefaultLoadDelay      = 500 * time.Millisecond
	DefaultSplashDuration = 2500 * time.Millisecond
)

// Observer receives every screen transition.
type Observer interface {
	ObserveNavigation(from, to models.Screen)
}

type nopObserver struct{}

func (nopObserver) ObserveNavigation(models.Screen, models.Screen) {}

// Option configures a Controller.
type Option func(*Controller)

// WithTimings sets the delay before content is marked loaded and the total
// time the splash stays up. total is measured from the start of Initialize.
func WithTimings(load, total time.Duration) Option {
	return func(c *Controller) {
		c.loadDelay = load
		c.splashDuration = total
	}
}

// WithSkipSplash makes Initialize settle on home immediately.
func WithSkipSplash() Option {
	return func(c *Controller) {
		c.skipSplash = true
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers an observer for screen transitions.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// Controller owns the current screen. It is safe for concurrent use.
type Controller struct {
	mu            sync.RWMutex
	phase         Phase
	contentLoaded bool
	current       models.Screen
	returnTo      models.Screen
	hasReturn     bool

	loadDelay      time.Duration
	splashDuration time.Duration
	skipSplash     bool

	logger   *slog.Logger
	observer Observer
}

// New creates a controller in the loading phase.
func New(opts ...Option) *Controller {
	c := &Controller{
		phase:          PhaseLoading,
		current:        models.ScreenHome,
		loadDelay:      DefaultLoadDelay,
		splashDuration: DefaultSplashDuration,
		logger:         slog.Default(),
		observer:       nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize runs the startup sequence: loading → splash → home. It blocks
// for the splash duration unless the splash is skipped. If ctx is cancelled
// the controller still settles on home and ctx.Err() is returned.
func (c *Controller) Initialize(ctx context.Context) error {
	if c.skipSplash {
		c.settle()
		return nil
	}

	c.setPhase(PhaseSplash)

	load := time.NewTimer(c.loadDelay)
	defer load.Stop()
	total := time.NewTimer(c.splashDuration)
	defer total.Stop()

	loadC := load.C
	for {
		select {
		case <-ctx.Done():
			c.settle()
			return ctx.Err()
		case <-loadC:
			c.mu.Lock()
			c.contentLoaded = true
			c.mu.Unlock()
			loadC = nil
			c.logger.Debug("Splash content loaded")
		case <-total.C:
			c.settle()
			return nil
		}
	}
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
	c.logger.Debug("Navigation phase", "phase", p)
}

func (c *Controller) settle() {
	c.mu.Lock()
	c.phase = PhaseReady
	c.contentLoaded = true
	c.current = models.ScreenHome
	c.hasReturn = false
	c.mu.Unlock()
	c.logger.Info("Navigation ready", "screen", models.ScreenHome)
}

// Phase returns the startup phase.
func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// ContentLoaded reports whether the splash has marked its content loaded.
func (c *Controller) ContentLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contentLoaded
}

// Current returns the current screen.
func (c *Controller) Current() models.Screen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Navigate makes target the current screen. Values outside the screen set
// resolve to home. Any explicit return target is cleared.
func (c *Controller) Navigate(target models.Screen) models.Screen {
	return c.navigate(target.Normalize(), models.ScreenHome, false)
}

// NavigateByName navigates to the screen with the given route name.
// Unknown names resolve to home.
func (c *Controller) NavigateByName(name string) models.Screen {
	return c.Navigate(models.ParseScreen(name))
}

// NavigateWithReturn navigates to target and records returnTo as the
// destination of the next Back.
func (c *Controller) NavigateWithReturn(target, returnTo models.Screen) models.Screen {
	return c.navigate(target.Normalize(), returnTo.Normalize(), true)
}

// Back leaves the current screen for the recorded return target, or for the
// screen's parent when none was recorded. The target is resolved and applied
// under one lock, so concurrent calls each step back once.
func (c *Controller) Back() models.Screen {
	c.mu.Lock()
	target := c.current.Parent()
	if c.hasReturn {
		target = c.returnTo
	}
	from := c.moveLocked(target, models.ScreenHome, false)
	c.mu.Unlock()

	c.report(from, target)
	return target
}

func (c *Controller) navigate(target, returnTo models.Screen, hasReturn bool) models.Screen {
	c.mu.Lock()
	from := c.moveLocked(target, returnTo, hasReturn)
	c.mu.Unlock()

	c.report(from, target)
	return target
}

// moveLocked must be called with c.mu held.
func (c *Controller) moveLocked(target, returnTo models.Screen, hasReturn bool) models.Screen {
	from := c.current
	c.current = target
	c.returnTo = returnTo
	c.hasReturn = hasReturn
	return from
}

func (c *Controller) report(from, to models.Screen) {
	c.logger.Debug("Navigate", "from", from, "to", to)
	c.observer.ObserveNavigation(from, to)
}
