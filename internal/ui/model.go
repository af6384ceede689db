// Package ui renders the session state in the terminal with bubbletea.
// Views read a session.Snapshot; every mutation goes through the store or
// the checkout.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/skydragon/internal/gateway"
	"github.com/mmynk/skydragon/internal/models"
	"github.com/mmynk/skydragon/internal/navigation"
	"github.com/mmynk/skydragon/internal/session"
	"github.com/mmynk/skydragon/internal/share"
)

// Deps wires the model to the session layer.
type Deps struct {
	Navigator *navigation.Controller
	Store     *session.Store
	Checkout  *gateway.Checkout

	// Events is the inbox event stream. Nil disables backend updates.
	Events <-chan session.Event

	Sharer share.Sharer
	Links  share.LinkBuilder
	UserID string

	// Servers is listed on the stats screen.
	Servers []models.Server

	// Seed drives the splash particles.
	Seed uint64

	Now    func() time.Time
	Logger *slog.Logger
}

// Model is the bubbletea model of the shell.
type Model struct {
	ctx      context.Context
	nav      *navigation.Controller
	store    *session.Store
	checkout *gateway.Checkout
	events   <-chan session.Event
	sharer   share.Sharer
	links    share.LinkBuilder
	userID   string
	servers  []models.Server
	now      func() time.Time
	logger   *slog.Logger

	keys      keyMap
	spinner   spinner.Model
	recipient textinput.Model
	bar       progress.Model
	particles *Particles

	ready   bool
	cursor  int
	periods int
	showQR  bool
	pending bool

	status    string
	statusErr bool

	// notice is the dismissible external channel failure.
	notice string

	width  int
	height int
}

// New creates the model. ctx bounds the splash sequence and in-flight
// payments.
func New(ctx context.Context, deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Sharer == nil {
		deps.Sharer = share.ClipboardSharer{Logger: deps.Logger}
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	ti := textinput.New()
	ti.Placeholder = "@username"
	ti.CharLimit = 64
	ti.Width = 32

	return Model{
		ctx:       ctx,
		nav:       deps.Navigator,
		store:     deps.Store,
		checkout:  deps.Checkout,
		events:    deps.Events,
		sharer:    deps.Sharer,
		links:     deps.Links,
		userID:    deps.UserID,
		servers:   deps.Servers,
		now:       deps.Now,
		logger:    deps.Logger,
		keys:      defaultKeyMap(),
		spinner:   sp,
		recipient: ti,
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		particles: NewParticles(deps.Seed),
		periods:   1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		initialize(m.ctx, m.nav),
		m.spinner.Tick,
		tickParticles(),
		waitForEvent(m.events),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(40, max(10, msg.Width-20))
		return m, nil

	case readyMsg:
		m.ready = true
		if msg.err != nil {
			m.logger.Debug("Splash interrupted", "error", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case particleTickMsg:
		if m.ready {
			return m, nil
		}
		m.particles.Step()
		return m, tickParticles()

	case inboxMsg:
		return m.handleEvent(msg.event)

	case inboxClosedMsg:
		m.events = nil
		return m, nil

	case intentResultMsg:
		m.pending = false
		m.report(msg.ok, msg.err)
		if msg.err == nil && m.nav.Current() == models.ScreenGift {
			m.recipient.Reset()
		}
		return m, nil

	case shareResultMsg:
		if msg.err != nil {
			m.logger.Warn("Share failed", "error", msg.err)
			m.setStatus("Could not copy the link", true)
		} else {
			m.setStatus("Link copied", false)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.ready && m.nav.Current() == models.ScreenGift {
		var cmd tea.Cmd
		m.recipient, cmd = m.recipient.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleEvent(ev session.Event) (tea.Model, tea.Cmd) {
	if ev.Terminal {
		m.notice = ev.Err.Error()
		m.events = nil
		return m, nil
	}
	if ev.Err != nil {
		m.logger.Warn("Backend notification rejected", "kind", ev.Notification.Kind, "error", ev.Err)
		m.setStatus(describeError(ev.Err), true)
	} else {
		m.setStatus(eventMessage(ev.Notification), false)
	}
	return m, waitForEvent(m.events)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if !m.ready {
		return m, nil
	}

	screen := m.nav.Current()
	if screen == models.ScreenGift {
		return m.handleGiftKey(msg)
	}

	switch {
	case m.notice != "" && key.Matches(msg, m.keys.Dismiss):
		m.notice = ""
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		return m.arrive(m.nav.Back())
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil
	}

	switch screen {
	case models.ScreenHome:
		if key.Matches(msg, m.keys.Select) && m.cursor < len(homeMenu) {
			return m.arrive(m.nav.Navigate(homeMenu[m.cursor]))
		}
	case models.ScreenServices:
		switch {
		case key.Matches(msg, m.keys.Select):
			return m.purchase()
		case key.Matches(msg, m.keys.More):
			m.periods++
		case key.Matches(msg, m.keys.Less):
			m.periods = max(1, m.periods-1)
		}
	case models.ScreenSubscriptions:
		switch {
		case key.Matches(msg, m.keys.Toggle):
			enabled, err := m.store.ToggleAutoRenewal()
			m.report(fmt.Sprintf("Auto-renewal %s", onOff(enabled)), err)
		case key.Matches(msg, m.keys.History):
			return m.arrive(m.nav.NavigateWithReturn(models.ScreenPaymentHistory, models.ScreenSubscriptions))
		case key.Matches(msg, m.keys.Select):
			return m.arrive(m.nav.NavigateWithReturn(models.ScreenServices, models.ScreenSubscriptions))
		}
	case models.ScreenReferrals:
		switch {
		case key.Matches(msg, m.keys.Share):
			link, err := m.links.Link(m.userID)
			if err != nil {
				m.setStatus("Set user_id to get your referral link", true)
				return m, nil
			}
			return m, shareLink(m.sharer, link)
		case key.Matches(msg, m.keys.QR):
			m.showQR = !m.showQR
		}
	}
	return m, nil
}

// handleGiftKey routes keys while the recipient input has focus.
func (m Model) handleGiftKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		return m.arrive(m.nav.Back())
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case tea.KeyEnter:
		return m.gift()
	}

	var cmd tea.Cmd
	m.recipient, cmd = m.recipient.Update(msg)
	return m, cmd
}

// arrive resets per-screen view state after a transition.
func (m Model) arrive(screen models.Screen) (tea.Model, tea.Cmd) {
	m.cursor = 0
	m.periods = 1
	m.showQR = false
	m.status = ""
	if screen == models.ScreenGift {
		return m, m.recipient.Focus()
	}
	m.recipient.Blur()
	return m, nil
}

func (m Model) purchase() (tea.Model, tea.Cmd) {
	tiers := m.store.Catalog()
	if m.pending || m.cursor >= len(tiers) {
		return m, nil
	}
	tier := tiers[m.cursor]
	periods := m.periods

	m.pending = true
	m.setStatus(fmt.Sprintf("Processing payment for %s...", tier.Name), false)

	ctx, checkout := m.ctx, m.checkout
	return m, func() tea.Msg {
		sub, err := checkout.Purchase(ctx, tier.ID, periods)
		if err != nil {
			return intentResultMsg{err: err}
		}
		return intentResultMsg{ok: fmt.Sprintf("%s active until %s", sub.TierName, sub.EndDate.Format(dateLayout))}
	}
}

func (m Model) gift() (tea.Model, tea.Cmd) {
	tiers := m.store.GiftCatalog()
	if m.pending || m.cursor >= len(tiers) {
		return m, nil
	}
	tier := tiers[m.cursor]
	recipient := strings.TrimSpace(m.recipient.Value())
	if recipient == "" {
		m.report("", session.ErrInvalidRecipient)
		return m, nil
	}

	m.pending = true
	m.setStatus(fmt.Sprintf("Sending %s to %s...", tier.Name, recipient), false)

	ctx, checkout := m.ctx, m.checkout
	return m, func() tea.Msg {
		if _, err := checkout.Gift(ctx, tier.ID, recipient); err != nil {
			return intentResultMsg{err: err}
		}
		return intentResultMsg{ok: fmt.Sprintf("Gift sent to %s", recipient)}
	}
}

func (m *Model) moveCursor(delta int) {
	n := m.listLen()
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m *Model) listLen() int {
	switch m.nav.Current() {
	case models.ScreenHome:
		return len(homeMenu)
	case models.ScreenServices:
		return len(m.store.Catalog())
	case models.ScreenGift:
		return len(m.store.GiftCatalog())
	default:
		return 0
	}
}

// report shows the outcome of an intent. Channel failures raise the
// dismissible notice; everything else is an inline status line.
func (m *Model) report(ok string, err error) {
	switch {
	case err == nil:
		m.setStatus(ok, false)
	case errors.Is(err, session.ErrExternalChannel):
		m.logger.Error("External channel failed", "error", err)
		m.notice = err.Error()
	default:
		m.setStatus(describeError(err), true)
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m Model) View() string {
	if !m.ready {
		return m.splashView()
	}

	screen := m.nav.Current()
	snap := m.store.Snapshot(m.now())

	sections := []string{titleStyle.Render(screenTitles[screen])}
	if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice+"  "+mutedStyle.Render("(x to dismiss)")))
	}
	sections = append(sections, renderers[screen](&m, snap))
	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	sections = append(sections, m.helpView(screen))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) splashView() string {
	width, height := m.width, m.height
	if width == 0 {
		width, height = 60, 12
	}

	label := "Waking the dragon"
	if m.nav.ContentLoaded() {
		label = "Almost there"
	}
	center := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("SkyDragon VPN"),
		m.spinner.View()+" "+label,
	)
	field := m.particles.Render(width, max(1, height-4))
	return lipgloss.JoinVertical(lipgloss.Center, center, field)
}

func (m Model) helpView(screen models.Screen) string {
	bindings := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select}
	switch screen {
	case models.ScreenServices:
		bindings = append(bindings, m.keys.More, m.keys.Less)
	case models.ScreenSubscriptions:
		bindings = []key.Binding{m.keys.Toggle, m.keys.History, m.keys.Select}
	case models.ScreenReferrals:
		bindings = []key.Binding{m.keys.Share, m.keys.QR}
	}
	if screen != models.ScreenHome {
		bindings = append(bindings, m.keys.Back)
	}
	bindings = append(bindings, m.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, keyStyle.Render(h.Key)+" "+mutedStyle.Render(h.Desc))
	}
	return "\n" + strings.Join(parts, "  ")
}

func describeError(err error) string {
	switch {
	case errors.Is(err, session.ErrUnknownTier):
		return "That plan is no longer available"
	case errors.Is(err, session.ErrNoActiveSubscription):
		return "You have no active subscription"
	case errors.Is(err, session.ErrReferralNotFound):
		return "Referral not found"
	case errors.Is(err, session.ErrInvalidRecipient):
		return "Enter the recipient's username"
	case errors.Is(err, session.ErrInvalidPeriods):
		return "Choose at least one period"
	case errors.Is(err, session.ErrDeviceLimitExceeded):
		return "Device limit reached for this plan"
	case errors.Is(err, gateway.ErrDeclined):
		return "Payment declined: " + strings.TrimPrefix(err.Error(), gateway.ErrDeclined.Error()+": ")
	default:
		return err.Error()
	}
}

func eventMessage(n session.Notification) string {
	switch n.Kind {
	case session.NotifyReferralInvited:
		return fmt.Sprintf("%s joined through your link", n.Name)
	case session.NotifyReferralActivated:
		return "A friend activated their subscription"
	case session.NotifyPaymentCompleted:
		return "Payment confirmed"
	case session.NotifyGiftCompleted:
		return fmt.Sprintf("Gift delivered to %s", n.Recipient)
	case session.NotifyPaymentDeclined:
		return "A payment was declined"
	case session.NotifyDevicesUpdated:
		return fmt.Sprintf("Devices in use: %d", n.Devices)
	default:
		return string(n.Kind)
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
