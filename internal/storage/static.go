package storage

import (
	"context"

	"github.com/mmynk/skydragon/internal/models"
)

// Ensure StaticCatalog implements CatalogSource
var _ CatalogSource = StaticCatalog(nil)

// StaticCatalog is a catalog compiled into the binary.
type StaticCatalog []models.ServiceTier

// LoadCatalog returns a copy of the static tiers.
func (c StaticCatalog) LoadCatalog(ctx context.Context) ([]models.ServiceTier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.ServiceTier, len(c))
	for i, t := range c {
		out[i] = t.Clone()
	}
	return out, nil
}

// Close is a no-op.
func (StaticCatalog) Close() error {
	return nil
}

// DefaultCatalog returns the built-in tiers.
func DefaultCatalog() StaticCatalog {
	return StaticCatalog{
		{
			ID:           1,
			Name:         "Shaargos",
			Price:        100,
			PeriodLabel:  "1 week",
			DurationDays: 7,
			Features:     []string{"1 device", "All servers", "Unlimited traffic"},
			DeviceLimit:  1,
			DragonPower:  40,
			ColorTag:     "emerald",
		},
		{
			ID:           2,
			Name:         "Valdrim",
			Price:        300,
			PeriodLabel:  "1 month",
			DurationDays: 30,
			Features:     []string{"Up to 3 devices", "All servers", "Unlimited traffic", "Priority support"},
			Popular:      true,
			DeviceLimit:  3,
			DragonPower:  70,
			ColorTag:     "amber",
		},
		{
			ID:           3,
			Name:         "Irdrax",
			Price:        800,
			PeriodLabel:  "3 months",
			DurationDays: 90,
			Features:     []string{"Up to 5 devices", "All servers", "Unlimited traffic", "Priority support"},
			DeviceLimit:  5,
			DragonPower:  85,
			ColorTag:     "crimson",
		},
		{
			ID:           4,
			Name:         "Aurelion",
			Price:        2900,
			PeriodLabel:  "1 year",
			DurationDays: 365,
			Features:     []string{"Unlimited devices", "All servers", "Unlimited traffic", "Personal support"},
			DeviceLimit:  models.UnlimitedDevices,
			DragonPower:  100,
			ColorTag:     "violet",
		},
	}
}
