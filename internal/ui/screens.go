package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/skydragon/internal/calculator"
	"github.com/mmynk/skydragon/internal/models"
	"github.com/mmynk/skydragon/internal/session"
	"github.com/mmynk/skydragon/internal/share"
)

const (
	dateLayout = "02 Jan 2006"
	currency   = "₽"

	supportURL = "https://t.me/skydragonsupport"
	channelURL = "https://t.me/SkyDragonVPN"
)

type renderFunc func(m *Model, snap session.Snapshot) string

// renderers has one entry per screen; the array length keeps the table
// in step with the Screen enum.
var renderers = [models.ScreenCount]renderFunc{
	models.ScreenHome:           renderHome,
	models.ScreenServices:       renderServices,
	models.ScreenSubscriptions:  renderSubscriptions,
	models.ScreenPaymentHistory: renderPaymentHistory,
	models.ScreenReferrals:      renderReferrals,
	models.ScreenSupport:        renderSupport,
	models.ScreenStats:          renderStats,
	models.ScreenInstructions:   renderInstructions,
	models.ScreenTerms:          renderTerms,
	models.ScreenGift:           renderGift,
}

var screenTitles = [models.ScreenCount]string{
	models.ScreenHome:           "SkyDragon VPN",
	models.ScreenServices:       "Plans",
	models.ScreenSubscriptions:  "My subscription",
	models.ScreenPaymentHistory: "Payment history",
	models.ScreenReferrals:      "Invite friends",
	models.ScreenSupport:        "Support",
	models.ScreenStats:          "Stats",
	models.ScreenInstructions:   "Setup",
	models.ScreenTerms:          "Terms of service",
	models.ScreenGift:           "Gift a subscription",
}

// homeMenu lists the screens reachable from home, in display order.
var homeMenu = []models.Screen{
	models.ScreenServices,
	models.ScreenSubscriptions,
	models.ScreenReferrals,
	models.ScreenGift,
	models.ScreenStats,
	models.ScreenInstructions,
	models.ScreenSupport,
	models.ScreenTerms,
}

func renderHome(m *Model, snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(activeSummary(m, snap))
	b.WriteString("\n\n")
	for i, screen := range homeMenu {
		b.WriteString(menuLine(i == m.cursor, screenTitles[screen]))
		b.WriteString("\n")
	}
	return b.String()
}

func activeSummary(m *Model, snap session.Snapshot) string {
	if !snap.HasActive {
		return cardStyle.Render("No active subscription.\n" +
			mutedStyle.Render("Pick a plan to start protecting your traffic."))
	}
	tier := lipgloss.NewStyle().Bold(true).Foreground(tierColor(snap.ActiveTier.ColorTag))
	lines := []string{
		tier.Render(snap.Active.TierName),
		fmt.Sprintf("%d days remaining", snap.Progress.DaysRemaining),
		m.bar.ViewAs(snap.Progress.Ratio),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderServices(m *Model, snap session.Snapshot) string {
	var b strings.Builder
	for i, tier := range snap.Catalog {
		b.WriteString(tierCard(tier, i == m.cursor))
		b.WriteString("\n")
	}
	if m.cursor < len(snap.Catalog) {
		tier := snap.Catalog[m.cursor]
		fmt.Fprintf(&b, "\nPeriods: %d  Total: %d %s\n", m.periods, tier.Price*m.periods, currency)
	}
	return b.String()
}

func tierCard(tier models.ServiceTier, selected bool) string {
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	name := lipgloss.NewStyle().Bold(true).Foreground(tierColor(tier.ColorTag)).Render(tier.Name)
	if tier.Popular {
		name += " " + successStyle.Render("popular")
	}

	lines := []string{
		name,
		fmt.Sprintf("%d %s / %s", tier.Price, currency, tier.PeriodLabel),
		mutedStyle.Render(fmt.Sprintf("Devices: %s  Dragon power: %d", tier.DeviceLimitLabel(), tier.DragonPower)),
	}
	for _, f := range tier.Features {
		lines = append(lines, "  + "+f)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func renderSubscriptions(m *Model, snap session.Snapshot) string {
	var b strings.Builder
	if snap.HasActive {
		renewal := errorStyle.Render("off")
		if snap.Active.AutoRenewal {
			renewal = successStyle.Render("on")
		}
		limit := snap.ActiveTier.DeviceLimitLabel()
		lines := []string{
			lipgloss.NewStyle().Bold(true).Render(snap.Active.TierName),
			fmt.Sprintf("Started:  %s", snap.Active.StartDate.Format(dateLayout)),
			fmt.Sprintf("Ends:     %s", snap.Active.EndDate.Format(dateLayout)),
			fmt.Sprintf("Devices:  %d / %s", snap.Active.Devices, limit),
			fmt.Sprintf("Auto-renewal: %s", renewal),
			m.bar.ViewAs(snap.Progress.Ratio),
		}
		b.WriteString(cardStyle.Render(strings.Join(lines, "\n")))
	} else {
		b.WriteString(mutedStyle.Render("No active subscription."))
	}
	b.WriteString("\n\n")

	if len(snap.History) > 0 {
		b.WriteString(headerStyle.Render("History"))
		b.WriteString("\n")
		for _, sub := range snap.History {
			fmt.Fprintf(&b, "%s  %s - %s\n", sub.TierName,
				sub.StartDate.Format(dateLayout), sub.EndDate.Format(dateLayout))
		}
	}
	return b.String()
}

func renderPaymentHistory(_ *Model, snap session.Snapshot) string {
	if len(snap.Payments) == 0 {
		return mutedStyle.Render("No payments yet.")
	}
	var b strings.Builder
	for _, p := range snap.Payments {
		status := successStyle.Render("paid")
		if p.Status == models.PaymentFailed {
			status = errorStyle.Render("failed")
		}
		fmt.Fprintf(&b, "%s  %-40s %6d %s  %s\n",
			p.Date.Format(dateLayout), p.Description, p.Amount, currency, status)
	}
	return b.String()
}

func renderReferrals(m *Model, snap session.Snapshot) string {
	var b strings.Builder

	link, err := m.links.Link(m.userID)
	if err != nil {
		b.WriteString(mutedStyle.Render("Set user_id to get your referral link."))
	} else {
		b.WriteString(cardStyle.Render(link))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Bonus earned: %d days from %d activated friends\n",
		snap.Reward.Days, snap.Reward.ActivatedCount)
	fmt.Fprintf(&b, "%d more activations until the next %d days\n\n",
		calculator.ReferralsUntilNextReward(snap.Reward.ActivatedCount), calculator.RewardDays)

	if len(snap.Referrals) == 0 {
		b.WriteString(mutedStyle.Render("Nobody has joined through your link yet."))
		b.WriteString("\n")
	}
	for _, ref := range snap.Referrals {
		status := mutedStyle.Render("invited")
		if ref.Activated() {
			status = successStyle.Render("activated")
		}
		fmt.Fprintf(&b, "%-20s %s  %s\n", ref.Name, ref.InvitedAt.Format(dateLayout), status)
	}

	if m.showQR && err == nil {
		qr, qrErr := share.QRCode(link)
		if qrErr != nil {
			b.WriteString(errorStyle.Render(qrErr.Error()))
		} else {
			b.WriteString("\n" + qr)
		}
	}
	return b.String()
}

func renderSupport(_ *Model, _ session.Snapshot) string {
	return strings.Join([]string{
		"Questions about payments or connection problems?",
		"",
		"Support: " + keyStyle.Render(supportURL),
		"News:    " + keyStyle.Render(channelURL),
		"",
		mutedStyle.Render("We usually reply within a few hours."),
	}, "\n")
}

func renderStats(m *Model, snap session.Snapshot) string {
	spent := 0
	for _, p := range snap.Payments {
		if p.Status == models.PaymentSuccess {
			spent += p.Amount
		}
	}
	power := 0
	days := 0
	if snap.HasActive {
		power = snap.ActiveTier.DragonPower
		days = snap.Progress.DaysRemaining
	}

	lines := []string{
		fmt.Sprintf("Dragon power:     %d", power),
		fmt.Sprintf("Days remaining:   %d", days),
		fmt.Sprintf("Subscriptions:    %d", subscriptionCount(snap)),
		fmt.Sprintf("Friends invited:  %d", len(snap.Referrals)),
		fmt.Sprintf("Bonus days:       %d", snap.Reward.Days),
		fmt.Sprintf("Total spent:      %d %s", spent, currency),
	}

	var b strings.Builder
	b.WriteString(cardStyle.Render(strings.Join(lines, "\n")))
	if len(m.servers) > 0 {
		b.WriteString("\n\n")
		b.WriteString(headerStyle.Render("Servers"))
		b.WriteString("\n")
		for _, srv := range m.servers {
			b.WriteString(serverLine(srv))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// subscriptionCount is every subscription of the session, active included.
func subscriptionCount(snap session.Snapshot) int {
	n := len(snap.History)
	if snap.HasActive {
		n++
	}
	return n
}

func serverLine(srv models.Server) string {
	if !srv.Online() {
		return fmt.Sprintf("%-18s %s", srv.Name, errorStyle.Render("offline"))
	}
	load := successStyle
	switch {
	case srv.Load >= 80:
		load = errorStyle
	case srv.Load >= 50:
		load = lipgloss.NewStyle().Foreground(accent)
	}
	return fmt.Sprintf("%-18s %s  ping %3d ms  load %s", srv.Name,
		successStyle.Render("online"), srv.PingMS, load.Render(fmt.Sprintf("%3d%%", srv.Load)))
}

func renderInstructions(_ *Model, _ session.Snapshot) string {
	steps := []string{
		"Buy a plan on the Plans screen.",
		"Install a WireGuard-compatible client for your device.",
		"Import the configuration the bot sends you.",
		"Connect and check your IP address changed.",
	}
	var b strings.Builder
	for i, s := range steps {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render(fmt.Sprintf("%d.", i+1)), s)
	}
	return b.String()
}

func renderTerms(_ *Model, _ session.Snapshot) string {
	return strings.Join([]string{
		"Subscriptions are prepaid and start immediately after payment.",
		"A new purchase replaces the current subscription.",
		fmt.Sprintf("Referral bonuses of %d days are granted for every %d activated friends.",
			calculator.RewardDays, calculator.ReferralsPerReward),
		"Gifts are delivered to the recipient and do not extend your own plan.",
	}, "\n")
}

func renderGift(m *Model, snap session.Snapshot) string {
	var b strings.Builder
	for i, tier := range snap.GiftCatalog {
		b.WriteString(menuLine(i == m.cursor,
			fmt.Sprintf("%s  %d %s / %s", tier.Name, tier.Price, currency, tier.PeriodLabel)))
		b.WriteString("\n")
	}
	b.WriteString("\nRecipient: ")
	b.WriteString(m.recipient.View())
	b.WriteString("\n")
	return b.String()
}

func menuLine(selected bool, label string) string {
	if selected {
		return keyStyle.Render("> " + label)
	}
	return "  " + label
}
