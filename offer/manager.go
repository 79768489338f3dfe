// Package offer builds and upserts the sellable offer for a SKU and
// drives the publish, end, status, and guarded delete transitions.
package offer

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-listings/core"
)

// PolicySetResolver resolves the three named business policies to remote
// identifiers. Resolution happens fresh on every offer write; identifiers
// are never cached across calls.
type PolicySetResolver interface {
	ResolveSet(ctx context.Context, names core.PolicyNamesConfig) (core.PolicyIDSet, error)
}

// Manager sequences offer operations against the remote marketplace.
// Offer existence is always determined by querying offers-by-SKU; no
// offer state is held locally.
type Manager struct {
	client   core.MarketplaceClient
	policies PolicySetResolver
	cfg      core.Config
	logger   core.Logger
}

func NewManager(client core.MarketplaceClient, policies PolicySetResolver, cfg core.Config, logger core.Logger) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("offer: marketplace client is required")
	}
	if policies == nil {
		return nil, fmt.Errorf("offer: policy resolver is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("offer: %w", err)
	}
	_, logger = glog.Resolve("offer", nil, logger)
	return &Manager{client: client, policies: policies, cfg: cfg, logger: logger}, nil
}

// UpsertAction reports which write path an upsert took.
type UpsertAction string

const (
	ActionCreated UpsertAction = "created"
	ActionUpdated UpsertAction = "updated"
)

type UpsertResult struct {
	Action  UpsertAction
	OfferID string
}

// Input is the per-sell variable part of an offer; everything else comes
// from configuration.
type Input struct {
	Price       core.Money
	Description string
}

// Upsert creates or updates the single offer for a SKU. Policy
// resolution is a hard precondition: if any of the three named policies
// is missing remotely, no offer write is attempted.
func (m *Manager) Upsert(ctx context.Context, sku string, input Input) (UpsertResult, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return UpsertResult{}, core.NewBadInputError("offer: sku is required")
	}

	policyIDs, err := m.policies.ResolveSet(ctx, m.cfg.PolicyNames)
	if err != nil {
		return UpsertResult{}, err
	}

	draft := core.OfferDraft{
		SKU:                 sku,
		MarketplaceID:       m.cfg.MarketplaceID,
		Format:              "FIXED_PRICE",
		Quantity:            1,
		CategoryID:          m.cfg.CategoryID,
		ListingDuration:     m.cfg.ListingDuration,
		Policies:            policyIDs,
		Description:         input.Description,
		Price:               input.Price,
		MerchantLocationKey: m.cfg.MerchantLocationKey,
	}
	if err := draft.Validate(); err != nil {
		return UpsertResult{}, core.NewBadInputError(err.Error())
	}

	offers, err := m.client.GetOffersBySKU(ctx, sku)
	if err != nil {
		return UpsertResult{}, err
	}
	if len(offers) > 0 {
		offerID := offers[0].OfferID
		if err := m.client.UpdateOffer(ctx, offerID, draft); err != nil {
			return UpsertResult{}, err
		}
		m.logger.Info("offer updated", "sku", sku, "offer_id", offerID)
		return UpsertResult{Action: ActionUpdated, OfferID: offerID}, nil
	}

	offerID, err := m.client.CreateOffer(ctx, draft)
	if err != nil {
		return UpsertResult{}, err
	}
	m.logger.Info("offer created", "sku", sku, "offer_id", offerID)
	return UpsertResult{Action: ActionCreated, OfferID: offerID}, nil
}

// PublishOutcome reports a publish attempt. AlreadyPublished mirrors the
// idempotent end semantics: publishing a live offer is a no-op success.
type PublishOutcome struct {
	NoOffer          bool
	AlreadyPublished bool
	OfferID          string
	ListingID        string
}

func (m *Manager) Publish(ctx context.Context, sku string) (PublishOutcome, error) {
	offers, err := m.client.GetOffersBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return PublishOutcome{}, err
	}
	if len(offers) == 0 {
		return PublishOutcome{NoOffer: true}, nil
	}

	current := offers[0]
	if current.IsLive() {
		outcome := PublishOutcome{AlreadyPublished: true, OfferID: current.OfferID}
		if current.Listing != nil {
			outcome.ListingID = current.Listing.ListingID
		}
		return outcome, nil
	}

	listingID, err := m.client.PublishOffer(ctx, current.OfferID)
	if err != nil {
		return PublishOutcome{}, err
	}
	m.logger.Info("offer published", "sku", sku, "offer_id", current.OfferID, "listing_id", listingID)
	return PublishOutcome{OfferID: current.OfferID, ListingID: listingID}, nil
}

// EndOutcome reports an end attempt. AlreadyEnded is a terminal success,
// not an error.
type EndOutcome struct {
	NoOffer      bool
	NoListing    bool
	AlreadyEnded bool
	ListingID    string
}

func (m *Manager) End(ctx context.Context, sku string, reason string) (EndOutcome, error) {
	offers, err := m.client.GetOffersBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return EndOutcome{}, err
	}
	if len(offers) == 0 {
		return EndOutcome{NoOffer: true}, nil
	}
	current := offers[0]
	if current.Listing == nil || strings.TrimSpace(current.Listing.ListingID) == "" {
		return EndOutcome{NoListing: true}, nil
	}

	listingID := current.Listing.ListingID
	result, err := m.client.EndListing(ctx, listingID, reason)
	if err != nil {
		return EndOutcome{}, err
	}
	if result.AlreadyEnded {
		m.logger.Info("listing already ended", "sku", sku, "listing_id", listingID)
		return EndOutcome{AlreadyEnded: true, ListingID: listingID}, nil
	}
	m.logger.Info("listing ended", "sku", sku, "listing_id", listingID)
	return EndOutcome{ListingID: listingID}, nil
}

// StatusOutcome is the derived listing state for a SKU plus the raw
// remote fields it was derived from.
type StatusOutcome struct {
	State         core.ListingState
	OfferID       string
	ListingID     string
	ListingStatus string
}

func (m *Manager) Status(ctx context.Context, sku string) (StatusOutcome, error) {
	offers, err := m.client.GetOffersBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return StatusOutcome{}, err
	}
	if len(offers) == 0 {
		return StatusOutcome{State: core.ListingStateNoOffer}, nil
	}
	current := offers[0]
	if current.Listing == nil || strings.TrimSpace(current.Listing.ListingID) == "" {
		return StatusOutcome{State: core.ListingStateDraft, OfferID: current.OfferID}, nil
	}

	listingID := current.Listing.ListingID
	remoteStatus, err := m.client.GetListingStatus(ctx, listingID)
	if err != nil {
		if core.IsNotFound(err) {
			return StatusOutcome{State: core.ListingStateDraft, OfferID: current.OfferID, ListingID: listingID}, nil
		}
		return StatusOutcome{}, err
	}

	state := core.ListingStateEnded
	if strings.EqualFold(strings.TrimSpace(remoteStatus), "Active") {
		state = core.ListingStatePublished
	}
	return StatusOutcome{
		State:         state,
		OfferID:       current.OfferID,
		ListingID:     listingID,
		ListingStatus: remoteStatus,
	}, nil
}

// DeleteOutcome reports a guarded delete. When the guard trips, no
// remote write was issued.
type DeleteOutcome struct {
	GuardRejected    bool
	BlockingOfferID  string
	OffersDeleted    int
	InventoryMissing bool
}

// Delete removes every offer for the SKU and then the inventory item.
// The guard re-queries the remote state immediately before deleting:
// any offer whose status is published, or whose nested listing status is
// active, aborts the whole operation with no writes. The inventory
// delete is attempted even when no offers exist.
func (m *Manager) Delete(ctx context.Context, sku string) (DeleteOutcome, error) {
	sku = strings.TrimSpace(sku)
	offers, err := m.client.GetOffersBySKU(ctx, sku)
	if err != nil {
		return DeleteOutcome{}, err
	}
	for _, current := range offers {
		if current.IsLive() {
			m.logger.Warn("delete blocked by live offer", "sku", sku, "offer_id", current.OfferID)
			return DeleteOutcome{GuardRejected: true, BlockingOfferID: current.OfferID}, nil
		}
	}

	deleted := 0
	for _, current := range offers {
		if err := m.client.DeleteOffer(ctx, current.OfferID); err != nil {
			return DeleteOutcome{OffersDeleted: deleted}, err
		}
		deleted++
	}

	outcome := DeleteOutcome{OffersDeleted: deleted}
	if err := m.client.DeleteInventoryItem(ctx, sku); err != nil {
		if !core.IsNotFound(err) {
			return outcome, err
		}
		outcome.InventoryMissing = true
	}
	m.logger.Info("offer and inventory deleted",
		"sku", sku,
		"offers_deleted", deleted,
		"inventory_missing", outcome.InventoryMissing,
	)
	return outcome, nil
}
