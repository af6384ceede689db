package models

import (
	"errors"
	"testing"
)

func validTier() ServiceTier {
	return ServiceTier{
		ID:           1,
		Name:         "Valdrim",
		Price:        300,
		PeriodLabel:  "1 month",
		DurationDays: 30,
		Features:     []string{"5 devices", "All servers"},
		DeviceLimit:  5,
		DragonPower:  70,
	}
}

func TestServiceTierValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServiceTier)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ServiceTier) {}},
		{name: "unlimited devices", mutate: func(t *ServiceTier) { t.DeviceLimit = UnlimitedDevices }},
		{name: "zero id", mutate: func(t *ServiceTier) { t.ID = 0 }, wantErr: true},
		{name: "blank name", mutate: func(t *ServiceTier) { t.Name = "  " }, wantErr: true},
		{name: "zero price", mutate: func(t *ServiceTier) { t.Price = 0 }, wantErr: true},
		{name: "zero duration", mutate: func(t *ServiceTier) { t.DurationDays = 0 }, wantErr: true},
		{name: "negative device limit", mutate: func(t *ServiceTier) { t.DeviceLimit = -1 }, wantErr: true},
		{name: "power above 100", mutate: func(t *ServiceTier) { t.DragonPower = 101 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := validTier()
			tt.mutate(&tier)
			err := tier.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTier) {
					t.Errorf("expected ErrInvalidTier, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestServiceTierAllowsDevices(t *testing.T) {
	tier := validTier()
	if !tier.AllowsDevices(5) {
		t.Error("5 devices should fit a limit of 5")
	}
	if tier.AllowsDevices(6) {
		t.Error("6 devices should not fit a limit of 5")
	}
	if tier.AllowsDevices(-1) {
		t.Error("negative device counts are never allowed")
	}

	tier.DeviceLimit = UnlimitedDevices
	if !tier.AllowsDevices(1000) {
		t.Error("unlimited tier should allow any count")
	}
	if got := tier.DeviceLimitLabel(); got != "unlimited" {
		t.Errorf("DeviceLimitLabel() = %q, want unlimited", got)
	}
}

func TestServiceTierClone(t *testing.T) {
	tier := validTier()
	clone := tier.Clone()
	clone.Features[0] = "changed"
	if tier.Features[0] != "5 devices" {
		t.Error("Clone must not share the features slice")
	}
}
