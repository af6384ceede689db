package models

// Screen identifies one of the fixed screens of the shell.
// The zero value is ScreenHome.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenServices
	ScreenSubscriptions
	ScreenPaymentHistory
	ScreenReferrals
	ScreenSupport
	ScreenStats
	ScreenInstructions
	ScreenTerms
	ScreenGift

	// ScreenCount is the number of screens. Use it to size lookup tables
	// that must have an entry for every screen.
	ScreenCount int = iota
)

var screenNames = [ScreenCount]string{
	ScreenHome:           "home",
	ScreenServices:       "services",
	ScreenSubscriptions:  "subscriptions",
	ScreenPaymentHistory: "payment-history",
	ScreenReferrals:      "referrals",
	ScreenSupport:        "support",
	ScreenStats:          "stats",
	ScreenInstructions:   "instructions",
	ScreenTerms:          "terms",
	ScreenGift:           "gift",
}

// AllScreens returns every screen in declaration order.
func AllScreens() []Screen {
	screens := make([]Screen, ScreenCount)
	for i := range screens {
		screens[i] = Screen(i)
	}
	return screens
}

// Valid reports whether s is a member of the screen set.
func (s Screen) Valid() bool {
	return s >= 0 && int(s) < ScreenCount
}

// Normalize returns s, or ScreenHome when s is outside the screen set.
func (s Screen) Normalize() Screen {
	if !s.Valid() {
		return ScreenHome
	}
	return s
}

// String returns the route name of the screen (e.g. "payment-history").
func (s Screen) String() string {
	return screenNames[s.Normalize()]
}

// Parent returns the screen a back action leads to when no explicit
// return target was recorded.
func (s Screen) Parent() Screen {
	switch s.Normalize() {
	case ScreenPaymentHistory:
		return ScreenSubscriptions
	default:
		return ScreenHome
	}
}

// ParseScreen resolves a route name to a Screen.
// Unknown names resolve to ScreenHome; the function never fails.
func ParseScreen(name string) Screen {
	for i, n := range screenNames {
		if n == name {
			return Screen(i)
		}
	}
	return ScreenHome
}
