package ebay

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-listings/core"
)

type availabilityPayload struct {
	PickupAtLocationAvailability []any                  `json:"pickupAtLocationAvailability"`
	ShipToLocationAvailability   shipToLocationQuantity `json:"shipToLocationAvailability"`
}

type shipToLocationQuantity struct {
	Quantity int `json:"quantity"`
}

type productPayload struct {
	Title     string              `json:"title"`
	Aspects   map[string][]string `json:"aspects,omitempty"`
	ImageURLs []string            `json:"imageUrls,omitempty"`
}

type dimensionsPayload struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
	Unit   string `json:"unit"`
}

type weightPayload struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

type packageWeightAndSizePayload struct {
	Dimensions dimensionsPayload `json:"dimensions"`
	Weight     weightPayload     `json:"weight"`
}

type inventoryItemPayload struct {
	Availability         availabilityPayload         `json:"availability"`
	Condition            string                      `json:"condition"`
	ConditionDescription string                      `json:"conditionDescription,omitempty"`
	Product              productPayload              `json:"product"`
	PackageWeightAndSize packageWeightAndSizePayload `json:"packageWeightAndSize"`
}

func buildInventoryItemPayload(record core.InventoryRecord) inventoryItemPayload {
	return inventoryItemPayload{
		Availability: availabilityPayload{
			PickupAtLocationAvailability: []any{},
			ShipToLocationAvailability:   shipToLocationQuantity{Quantity: record.Quantity},
		},
		Condition:            record.Condition,
		ConditionDescription: record.ConditionNotes,
		Product: productPayload{
			Title:     record.Title,
			Aspects:   record.Aspects,
			ImageURLs: record.ImageURLs,
		},
		PackageWeightAndSize: packageWeightAndSizePayload{
			Dimensions: dimensionsPayload{
				Length: strconv.Itoa(record.Dimensions.Length),
				Width:  strconv.Itoa(record.Dimensions.Width),
				Height: strconv.Itoa(record.Dimensions.Height),
				Unit:   record.Dimensions.Unit,
			},
			Weight: weightPayload{
				Value: strconv.Itoa(record.Weight.Value),
				Unit:  record.Weight.Unit,
			},
		},
	}
}

type listingPoliciesPayload struct {
	FulfillmentPolicyID string `json:"fulfillmentPolicyId"`
	PaymentPolicyID     string `json:"paymentPolicyId"`
	ReturnPolicyID      string `json:"returnPolicyId"`
}

type pricePayload struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type pricingSummaryPayload struct {
	Price pricePayload `json:"price"`
}

type offerPayload struct {
	SKU                string                 `json:"sku"`
	MarketplaceID      string                 `json:"marketplaceId"`
	Format             string                 `json:"format"`
	AvailableQuantity  int                    `json:"availableQuantity"`
	CategoryID         string                 `json:"categoryId"`
	ListingDuration    string                 `json:"listingDuration,omitempty"`
	ListingPolicies    listingPoliciesPayload `json:"listingPolicies"`
	ListingDescription string                 `json:"listingDescription,omitempty"`
	PricingSummary     pricingSummaryPayload  `json:"pricingSummary"`
	MerchantLocationKey string                `json:"merchantLocationKey,omitempty"`
}

func buildOfferPayload(draft core.OfferDraft) offerPayload {
	return offerPayload{
		SKU:               draft.SKU,
		MarketplaceID:     draft.MarketplaceID,
		Format:            draft.Format,
		AvailableQuantity: draft.Quantity,
		CategoryID:        draft.CategoryID,
		ListingDuration:   draft.ListingDuration,
		ListingPolicies: listingPoliciesPayload{
			FulfillmentPolicyID: draft.Policies.FulfillmentID,
			PaymentPolicyID:     draft.Policies.PaymentID,
			ReturnPolicyID:      draft.Policies.ReturnID,
		},
		ListingDescription:  draft.Description,
		PricingSummary:      pricingSummaryPayload{Price: pricePayload{Value: draft.Price.Value.StringFixed(2), Currency: draft.Price.Currency}},
		MerchantLocationKey: draft.MerchantLocationKey,
	}
}

type categoryTypePayload struct {
	Name string `json:"name"`
}

type timeSpanPayload struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

type shippingServicePayload struct {
	ShippingCarrierCode string `json:"shippingCarrierCode"`
	ShippingServiceCode string `json:"shippingServiceCode"`
	FreeShipping        bool   `json:"freeShipping"`
}

type shippingOptionPayload struct {
	CostType         string                   `json:"costType"`
	OptionType       string                   `json:"optionType"`
	ShippingServices []shippingServicePayload `json:"shippingServices"`
}

type fulfillmentPolicyPayload struct {
	Name            string                  `json:"name"`
	Description     string                  `json:"description,omitempty"`
	MarketplaceID   string                  `json:"marketplaceId"`
	CategoryTypes   []categoryTypePayload   `json:"categoryTypes"`
	HandlingTime    timeSpanPayload         `json:"handlingTime"`
	ShippingOptions []shippingOptionPayload `json:"shippingOptions"`
}

type paymentPolicyPayload struct {
	Name          string                `json:"name"`
	Description   string                `json:"description,omitempty"`
	MarketplaceID string                `json:"marketplaceId"`
	CategoryTypes []categoryTypePayload `json:"categoryTypes"`
	ImmediatePay  bool                  `json:"immediatePay"`
}

type internationalOverridePayload struct {
	ReturnsAccepted bool `json:"returnsAccepted"`
}

type returnPolicyPayload struct {
	Name                    string                       `json:"name"`
	Description             string                       `json:"description,omitempty"`
	MarketplaceID           string                       `json:"marketplaceId"`
	RefundMethod            string                       `json:"refundMethod"`
	ReturnsAccepted         bool                         `json:"returnsAccepted"`
	ReturnPeriod            timeSpanPayload              `json:"returnPeriod"`
	ReturnShippingCostPayer string                       `json:"returnShippingCostPayer"`
	InternationalOverride   internationalOverridePayload `json:"internationalOverride"`
}

// buildPolicyPayload is the single exhaustive mapping from the policy
// tagged union to wire payloads. Adding a policy type without extending
// this switch fails loudly at the call site.
func buildPolicyPayload(payload core.PolicyPayload) (any, error) {
	switch typed := payload.(type) {
	case core.FulfillmentPolicy:
		services := make([]shippingServicePayload, 0, len(typed.ShippingServices))
		for _, service := range typed.ShippingServices {
			services = append(services, shippingServicePayload{
				ShippingCarrierCode: service.CarrierCode,
				ShippingServiceCode: service.ServiceCode,
				FreeShipping:        service.FreeShipping,
			})
		}
		return fulfillmentPolicyPayload{
			Name:          typed.Name,
			Description:   typed.Description,
			MarketplaceID: typed.MarketplaceID,
			CategoryTypes: defaultCategoryTypes(),
			HandlingTime:  timeSpanPayload{Value: typed.HandlingDays, Unit: "DAY"},
			ShippingOptions: []shippingOptionPayload{{
				CostType:         typed.CostType,
				OptionType:       typed.OptionType,
				ShippingServices: services,
			}},
		}, nil
	case core.PaymentPolicy:
		return paymentPolicyPayload{
			Name:          typed.Name,
			Description:   typed.Description,
			MarketplaceID: typed.MarketplaceID,
			CategoryTypes: defaultCategoryTypes(),
			ImmediatePay:  typed.ImmediatePay,
		}, nil
	case core.ReturnPolicy:
		return returnPolicyPayload{
			Name:                    typed.Name,
			Description:             typed.Description,
			MarketplaceID:           typed.MarketplaceID,
			RefundMethod:            typed.RefundMethod,
			ReturnsAccepted:         typed.ReturnsAccepted,
			ReturnPeriod:            timeSpanPayload{Value: typed.ReturnPeriodDays, Unit: "DAY"},
			ReturnShippingCostPayer: typed.ShippingCostPayer,
			InternationalOverride:   internationalOverridePayload{ReturnsAccepted: typed.InternationalReturns},
		}, nil
	default:
		return nil, fmt.Errorf("ebay: unsupported policy payload type %T", payload)
	}
}

func defaultCategoryTypes() []categoryTypePayload {
	return []categoryTypePayload{{Name: "ALL_EXCLUDING_MOTORS_VEHICLES"}}
}

type locationAddressPayload struct {
	AddressLine1    string `json:"addressLine1"`
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
}

type locationDetailPayload struct {
	Address locationAddressPayload `json:"address"`
}

type inventoryLocationPayload struct {
	Name                   string                `json:"name"`
	Location               locationDetailPayload `json:"location"`
	MerchantLocationStatus string                `json:"merchantLocationStatus"`
}

type programPayload struct {
	ProgramType string `json:"programType"`
}
