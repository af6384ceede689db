package models

import "testing"

func TestParseScreen(t *testing.T) {
	tests := []struct {
		name string
		want Screen
	}{
		{name: "home", want: ScreenHome},
		{name: "services", want: ScreenServices},
		{name: "subscriptions", want: ScreenSubscriptions},
		{name: "payment-history", want: ScreenPaymentHistory},
		{name: "referrals", want: ScreenReferrals},
		{name: "support", want: ScreenSupport},
		{name: "stats", want: ScreenStats},
		{name: "instructions", want: ScreenInstructions},
		{name: "terms", want: ScreenTerms},
		{name: "gift", want: ScreenGift},
		{name: "", want: ScreenHome},
		{name: "settings", want: ScreenHome},
		{name: "Payment-History", want: ScreenHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseScreen(tt.name); got != tt.want {
				t.Errorf("ParseScreen(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestScreenRoundTrip(t *testing.T) {
	screens := AllScreens()
	if len(screens) != ScreenCount {
		t.Fatalf("AllScreens() returned %d screens, want %d", len(screens), ScreenCount)
	}
	for _, s := range screens {
		if !s.Valid() {
			t.Errorf("%d should be valid", s)
		}
		if got := ParseScreen(s.String()); got != s {
			t.Errorf("ParseScreen(%q) = %v, want %v", s.String(), got, s)
		}
	}
}

func TestScreenNormalize(t *testing.T) {
	for _, s := range []Screen{-1, Screen(ScreenCount), 99} {
		if s.Valid() {
			t.Errorf("%d should be invalid", s)
		}
		if got := s.Normalize(); got != ScreenHome {
			t.Errorf("Screen(%d).Normalize() = %v, want home", s, got)
		}
		if got := s.String(); got != "home" {
			t.Errorf("Screen(%d).String() = %q, want home", s, got)
		}
	}
}

func TestScreenParent(t *testing.T) {
	if got := ScreenPaymentHistory.Parent(); got != ScreenSubscriptions {
		t.Errorf("payment-history parent = %v, want subscriptions", got)
	}
	if got := ScreenGift.Parent(); got != ScreenHome {
		t.Errorf("gift parent = %v, want home", got)
	}
}
