package ebay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-listings/core"
)

type remoteErrorBody struct {
	Errors []struct {
		ErrorID     int    `json:"errorId"`
		Message     string `json:"message"`
		LongMessage string `json:"longMessage"`
	} `json:"errors"`
}

// decodeBody tolerantly unmarshals a response body. A missing or
// non-parseable body leaves the target at its zero value; it never fails
// the operation.
func decodeBody(body []byte, target any) {
	if len(body) == 0 {
		return
	}
	_ = json.Unmarshal(body, target)
}

// remoteMessage extracts the most descriptive error text the body offers,
// preferring longMessage over message.
func remoteMessage(body []byte) string {
	var parsed remoteErrorBody
	decodeBody(body, &parsed)
	for _, item := range parsed.Errors {
		if msg := strings.TrimSpace(item.LongMessage); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(item.Message); msg != "" {
			return msg
		}
	}
	return ""
}

func remoteRejection(operation string, res core.TransportResponse, metadata map[string]any) error {
	message := remoteMessage(res.Body)
	if message == "" {
		message = strings.TrimSpace(string(res.Body))
	}
	if message == "" {
		message = "no response body"
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["operation"] = operation
	return core.NewRemoteRejectionError(
		fmt.Sprintf("ebay: %s rejected: %s", operation, message),
		res.StatusCode,
		metadata,
	)
}

type offerBody struct {
	OfferID       string `json:"offerId"`
	SKU           string `json:"sku"`
	MarketplaceID string `json:"marketplaceId"`
	Format        string `json:"format"`
	Status        string `json:"status"`
	Listing       *struct {
		ListingID     string `json:"listingId"`
		ListingStatus string `json:"listingStatus"`
	} `json:"listing"`
}

type offersBody struct {
	Offers []offerBody `json:"offers"`
}

func (b offerBody) toDomain() core.Offer {
	offer := core.Offer{
		OfferID:       b.OfferID,
		SKU:           b.SKU,
		MarketplaceID: b.MarketplaceID,
		Format:        b.Format,
		Status:        b.Status,
	}
	if b.Listing != nil {
		offer.Listing = &core.ListingRef{
			ListingID:     b.Listing.ListingID,
			ListingStatus: b.Listing.ListingStatus,
		}
	}
	return offer
}

// Policy list responses key both the collection and the identifier by
// policy type: fulfillmentPolicies[].fulfillmentPolicyId and so on.
func policyCollectionKey(policyType core.PolicyType) string {
	return string(policyType) + "Policies"
}

func policyIDKey(policyType core.PolicyType) string {
	return string(policyType) + "PolicyId"
}

func decodePolicyList(body []byte, policyType core.PolicyType) []core.RemotePolicy {
	var parsed map[string]json.RawMessage
	decodeBody(body, &parsed)

	raw, ok := parsed[policyCollectionKey(policyType)]
	if !ok {
		return nil
	}
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	idKey := policyIDKey(policyType)
	out := make([]core.RemotePolicy, 0, len(entries))
	for _, entry := range entries {
		id, _ := entry[idKey].(string)
		name, _ := entry["name"].(string)
		if strings.TrimSpace(id) == "" {
			continue
		}
		out = append(out, core.RemotePolicy{Type: policyType, ID: id, Name: name})
	}
	return out
}

func decodePolicyID(body []byte, policyType core.PolicyType) string {
	var parsed map[string]any
	decodeBody(body, &parsed)
	id, _ := parsed[policyIDKey(policyType)].(string)
	return strings.TrimSpace(id)
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
