package app

import config "github.com/ragment/ragment-api/api/config"

// planByPriceID maps Stripe price ids to internal plan names. The table is a
// process-wide constant; prices are created in the Stripe dashboard and new
// entries are added here when a plan launches.
var planByPriceID = map[string]string{
	"price_1Sfi5zSC6OSw12xOkHbGIB3t": "starter",
	"price_1Sfi6pSC6OSw12xOTbyvt0dN": "pro",
}

// ResolvePlan maps a Stripe price id to the internal plan name. Unknown price
// ids resolve to the free plan; this function has no failure mode.
func ResolvePlan(priceID string) string {
	if plan, ok := planByPriceID[priceID]; ok {
		return plan
	}
	return config.FreePlan
}
