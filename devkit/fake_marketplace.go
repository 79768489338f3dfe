// Package devkit provides in-memory fakes for exercising the listing
// workflow without a live marketplace account. The fake marketplace
// mirrors remote semantics closely enough that the managers' guard and
// idempotency paths can be driven end to end in tests.
package devkit

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/goliatone/go-listings/core"
)

// FakeMarketplaceClient is a stateful in-memory stand-in for the remote
// marketplace. Operations mutate shared state the way the real APIs do:
// offers reference inventory items, publishing mints a listing, ending a
// listing flips both status fields.
type FakeMarketplaceClient struct {
	mu     sync.Mutex
	nextID int

	policies       map[core.PolicyType][]core.RemotePolicy
	policyPayloads map[string]core.PolicyPayload
	inventory      map[string]core.InventoryRecord
	offers         map[string]core.Offer
	listings       map[string]string
	locations      map[string]bool
	optedIn        bool

	calls    []string
	failures map[string]error
}

func NewFakeMarketplaceClient() *FakeMarketplaceClient {
	return &FakeMarketplaceClient{
		policies:       map[core.PolicyType][]core.RemotePolicy{},
		policyPayloads: map[string]core.PolicyPayload{},
		inventory:      map[string]core.InventoryRecord{},
		offers:         map[string]core.Offer{},
		listings:       map[string]string{},
		locations:      map[string]bool{},
		failures:       map[string]error{},
	}
}

// FailWith scripts an error for the named operation. The error is
// returned on every call until cleared with a nil value.
func (c *FakeMarketplaceClient) FailWith(operation string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, operation)
		return
	}
	c.failures[operation] = err
}

// Calls lists the operations invoked, in order.
func (c *FakeMarketplaceClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// SeedPolicy registers an existing remote policy.
func (c *FakeMarketplaceClient) SeedPolicy(policyType core.PolicyType, id string, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policies[policyType] = append(c.policies[policyType], core.RemotePolicy{Type: policyType, ID: id, Name: name})
}

// SeedStandardPolicies registers the three default-named policies and
// returns the seeded identifier set.
func (c *FakeMarketplaceClient) SeedStandardPolicies() core.PolicyIDSet {
	c.SeedPolicy(core.PolicyTypeFulfillment, "fulfillment-1", "standard shipping")
	c.SeedPolicy(core.PolicyTypePayment, "payment-1", "standard payment")
	c.SeedPolicy(core.PolicyTypeReturn, "return-1", "standard return")
	return core.PolicyIDSet{FulfillmentID: "fulfillment-1", PaymentID: "payment-1", ReturnID: "return-1"}
}

// Offer returns a copy of the stored offer, if any.
func (c *FakeMarketplaceClient) Offer(offerID string) (core.Offer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	offer, ok := c.offers[offerID]
	return offer, ok
}

// SetListingStatus overrides a listing's remote status, including the
// copy nested in any offer referencing it.
func (c *FakeMarketplaceClient) SetListingStatus(listingID string, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings[listingID] = status
	for id, offer := range c.offers {
		if offer.Listing != nil && offer.Listing.ListingID == listingID {
			offer.Listing.ListingStatus = status
			c.offers[id] = offer
		}
	}
}

// InventoryItem returns a copy of the stored inventory record, if any.
func (c *FakeMarketplaceClient) InventoryItem(sku string) (core.InventoryRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.inventory[sku]
	return record, ok
}

// HasLocation reports whether the merchant location was created.
func (c *FakeMarketplaceClient) HasLocation(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locations[key]
}

// OptedIn reports whether the selling policy opt-in was issued.
func (c *FakeMarketplaceClient) OptedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.optedIn
}

func (c *FakeMarketplaceClient) begin(operation string) error {
	c.calls = append(c.calls, operation)
	if err, ok := c.failures[operation]; ok {
		return err
	}
	return nil
}

func (c *FakeMarketplaceClient) mint(prefix string) string {
	c.nextID++
	return fmt.Sprintf("%s-%d", prefix, c.nextID)
}

func (c *FakeMarketplaceClient) GetOffersBySKU(_ context.Context, sku string) ([]core.Offer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("GetOffersBySKU"); err != nil {
		return nil, err
	}
	var out []core.Offer
	for _, offer := range c.offers {
		if offer.SKU == strings.TrimSpace(sku) {
			out = append(out, offer)
		}
	}
	return out, nil
}

func (c *FakeMarketplaceClient) CreateOffer(_ context.Context, draft core.OfferDraft) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("CreateOffer"); err != nil {
		return "", err
	}
	if err := draft.Validate(); err != nil {
		return "", core.NewBadInputError(err.Error())
	}
	if _, ok := c.inventory[draft.SKU]; !ok {
		return "", core.NewRemoteRejectionError(
			fmt.Sprintf("devkit: no inventory item for sku %q", draft.SKU), 400, nil)
	}
	offerID := c.mint("offer")
	c.offers[offerID] = core.Offer{
		OfferID:       offerID,
		SKU:           draft.SKU,
		MarketplaceID: draft.MarketplaceID,
		Format:        draft.Format,
		Status:        "UNPUBLISHED",
	}
	return offerID, nil
}

func (c *FakeMarketplaceClient) UpdateOffer(_ context.Context, offerID string, draft core.OfferDraft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("UpdateOffer"); err != nil {
		return err
	}
	offer, ok := c.offers[offerID]
	if !ok {
		return core.NewRemoteRejectionError(fmt.Sprintf("devkit: no offer %q", offerID), 404, nil)
	}
	offer.Format = draft.Format
	offer.MarketplaceID = draft.MarketplaceID
	c.offers[offerID] = offer
	return nil
}

func (c *FakeMarketplaceClient) DeleteOffer(_ context.Context, offerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("DeleteOffer"); err != nil {
		return err
	}
	if _, ok := c.offers[offerID]; !ok {
		return core.NewRemoteRejectionError(fmt.Sprintf("devkit: no offer %q", offerID), 404, nil)
	}
	delete(c.offers, offerID)
	return nil
}

func (c *FakeMarketplaceClient) PutInventoryItem(_ context.Context, sku string, record core.InventoryRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("PutInventoryItem"); err != nil {
		return err
	}
	if err := record.Validate(); err != nil {
		return core.NewBadInputError(err.Error())
	}
	c.inventory[strings.TrimSpace(sku)] = record
	return nil
}

func (c *FakeMarketplaceClient) DeleteInventoryItem(_ context.Context, sku string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("DeleteInventoryItem"); err != nil {
		return err
	}
	key := strings.TrimSpace(sku)
	if _, ok := c.inventory[key]; !ok {
		return core.NewNotFoundError(fmt.Sprintf("devkit: no inventory item for sku %q", key))
	}
	delete(c.inventory, key)
	return nil
}

func (c *FakeMarketplaceClient) CreateInventoryLocation(_ context.Context, locationKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("CreateInventoryLocation"); err != nil {
		return err
	}
	c.locations[strings.TrimSpace(locationKey)] = true
	return nil
}

func (c *FakeMarketplaceClient) GetPolicies(_ context.Context, policyType core.PolicyType) ([]core.RemotePolicy, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("GetPolicies"); err != nil {
		return nil, err
	}
	return append([]core.RemotePolicy(nil), c.policies[policyType]...), nil
}

func (c *FakeMarketplaceClient) CreatePolicy(_ context.Context, payload core.PolicyPayload) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("CreatePolicy"); err != nil {
		return "", err
	}
	policyType := payload.PolicyType()
	remoteID := c.mint(string(policyType))
	c.policies[policyType] = append(c.policies[policyType], core.RemotePolicy{
		Type: policyType,
		ID:   remoteID,
		Name: payload.PolicyName(),
	})
	c.policyPayloads[remoteID] = payload
	return remoteID, nil
}

func (c *FakeMarketplaceClient) UpdatePolicy(_ context.Context, remoteID string, payload core.PolicyPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("UpdatePolicy"); err != nil {
		return err
	}
	found := false
	for _, list := range c.policies {
		for _, remote := range list {
			if remote.ID == remoteID {
				found = true
			}
		}
	}
	if !found {
		return core.NewRemoteRejectionError(fmt.Sprintf("devkit: no policy %q", remoteID), 404, nil)
	}
	if stored, ok := c.policyPayloads[remoteID]; ok && reflect.DeepEqual(stored, payload) {
		return core.NewRemoteRejectionError(
			"devkit: the policy update would not change anything", 400, nil)
	}
	c.policyPayloads[remoteID] = payload
	return nil
}

func (c *FakeMarketplaceClient) DeletePolicy(_ context.Context, policyType core.PolicyType, remoteID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("DeletePolicy"); err != nil {
		return err
	}
	list := c.policies[policyType]
	for index, remote := range list {
		if remote.ID == remoteID {
			c.policies[policyType] = append(list[:index], list[index+1:]...)
			delete(c.policyPayloads, remoteID)
			return nil
		}
	}
	return core.NewNotFoundError(fmt.Sprintf("devkit: no %s policy %q", policyType, remoteID))
}

func (c *FakeMarketplaceClient) OptInSellingPolicies(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("OptInSellingPolicies"); err != nil {
		return err
	}
	c.optedIn = true
	return nil
}

func (c *FakeMarketplaceClient) PublishOffer(_ context.Context, offerID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("PublishOffer"); err != nil {
		return "", err
	}
	offer, ok := c.offers[offerID]
	if !ok {
		return "", core.NewRemoteRejectionError(fmt.Sprintf("devkit: no offer %q", offerID), 404, nil)
	}
	listingID := c.mint("listing")
	offer.Status = "PUBLISHED"
	offer.Listing = &core.ListingRef{ListingID: listingID, ListingStatus: "ACTIVE"}
	c.offers[offerID] = offer
	c.listings[listingID] = "Active"
	return listingID, nil
}

func (c *FakeMarketplaceClient) EndListing(_ context.Context, listingID string, _ string) (core.EndListingResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("EndListing"); err != nil {
		return core.EndListingResult{}, err
	}
	status, ok := c.listings[listingID]
	if !ok {
		return core.EndListingResult{}, core.NewRemoteRejectionError(
			fmt.Sprintf("devkit: no listing %q", listingID), 404, nil)
	}
	if strings.EqualFold(status, "Completed") || strings.EqualFold(status, "Ended") {
		return core.EndListingResult{AlreadyEnded: true}, nil
	}
	c.listings[listingID] = "Completed"
	for id, offer := range c.offers {
		if offer.Listing != nil && offer.Listing.ListingID == listingID {
			offer.Status = "ENDED"
			offer.Listing.ListingStatus = "ENDED"
			c.offers[id] = offer
		}
	}
	return core.EndListingResult{}, nil
}

func (c *FakeMarketplaceClient) GetListingStatus(_ context.Context, listingID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("GetListingStatus"); err != nil {
		return "", err
	}
	status, ok := c.listings[listingID]
	if !ok {
		return "", core.NewNotFoundError(fmt.Sprintf("devkit: no listing %q", listingID))
	}
	return status, nil
}

var _ core.MarketplaceClient = (*FakeMarketplaceClient)(nil)
