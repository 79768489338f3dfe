package policy

import "github.com/goliatone/go-listings/core"

// StandardPolicies builds the three default policy payloads for a seller
// account, named per configuration. These mirror a small-volume collector
// setup: calculated USPS shipping, immediate payment, 30-day returns paid
// by the buyer.
func StandardPolicies(cfg core.Config) []core.PolicyPayload {
	return []core.PolicyPayload{
		core.FulfillmentPolicy{
			Name:          cfg.PolicyNames.Fulfillment,
			Description:   "Calculated USPS shipping with a three day handling window.",
			MarketplaceID: cfg.MarketplaceID,
			HandlingDays:  3,
			CostType:      "CALCULATED",
			OptionType:    "DOMESTIC",
			ShippingServices: []core.ShippingService{{
				CarrierCode: "USPS",
				ServiceCode: "USPSPriority",
			}},
		},
		core.PaymentPolicy{
			Name:          cfg.PolicyNames.Payment,
			Description:   "Managed payments with immediate pay required.",
			MarketplaceID: cfg.MarketplaceID,
			ImmediatePay:  true,
		},
		core.ReturnPolicy{
			Name:              cfg.PolicyNames.Return,
			Description:       "Thirty day returns, buyer pays return shipping.",
			MarketplaceID:     cfg.MarketplaceID,
			ReturnsAccepted:   true,
			ReturnPeriodDays:  30,
			RefundMethod:      "MONEY_BACK",
			ShippingCostPayer: "BUYER",
		},
	}
}
