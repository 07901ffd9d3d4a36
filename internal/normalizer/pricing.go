package normalizer

import "steamdata/internal/models"

// Availability holds the purchase options derived from package groups.
// The flags are independent.
type Availability struct {
	FreeVersion  bool
	Purchase     bool
	Subscription bool
}

// Pricing is the price block converted to major units.
type Pricing struct {
	Currency string
	Initial  float64
	Final    float64
}

// PackageAvailability derives the availability flags from package groups.
func (c *Coercer) PackageAvailability(groups []models.PackageGroup) Availability {
	var a Availability

	for _, g := range groups {
		if Truthy(g.IsRecurringSubscription) {
			a.Subscription = true
		}

		for _, sub := range g.Subs {
			if Truthy(sub.IsFreeLicense) {
				a.FreeVersion = true
			}

			if c.ToInt(sub.PriceInCentsWithDiscount, 0) > 0 {
				a.Purchase = true
			}
		}
	}

	return a
}

// Prices reads the price overview. Minor-unit prices are divided by 100 and
// default to 0.0 when absent.
func (c *Coercer) Prices(po models.PriceOverview, textDefault string) Pricing {
	return Pricing{
		Currency: NormalizeText(po.Currency, textDefault),
		Initial:  c.ToFloat(po.Initial, 0) / 100,
		Final:    c.ToFloat(po.Final, 0) / 100,
	}
}
