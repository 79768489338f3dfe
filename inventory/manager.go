// Package inventory owns the inventory item side of the listing
// workflow: building the full SKU record from a catalog product and
// replacing it remotely.
package inventory

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-listings/core"
)

// Manager upserts inventory records. Upserts always send the whole
// record with PUT semantics; there is no partial patch and no existence
// check, so create and update share one operation and one outcome.
type Manager struct {
	client core.MarketplaceClient
	logger core.Logger
}

func NewManager(client core.MarketplaceClient, logger core.Logger) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("inventory: marketplace client is required")
	}
	_, logger = glog.Resolve("inventory", nil, logger)
	return &Manager{client: client, logger: logger}, nil
}

func (m *Manager) Upsert(ctx context.Context, record core.InventoryRecord) error {
	if err := record.Validate(); err != nil {
		return core.NewBadInputError(err.Error())
	}
	if err := m.client.PutInventoryItem(ctx, record.SKU, record); err != nil {
		return err
	}
	m.logger.Info("inventory item replaced",
		"sku", record.SKU,
		"image_count", len(record.ImageURLs),
	)
	return nil
}

// EnsureLocation creates the merchant inventory location. The remote
// call is idempotent; an existing location is not an error.
func (m *Manager) EnsureLocation(ctx context.Context, locationKey string) error {
	if strings.TrimSpace(locationKey) == "" {
		return core.NewBadInputError("inventory: location key is required")
	}
	return m.client.CreateInventoryLocation(ctx, locationKey)
}

// BuildRecord assembles the full inventory record for a catalog product.
// Aspects are emitted sparsely: an aspect is present only when its source
// value is non-empty. Weight is folded to ounces and dimensions stay
// whole inches.
func BuildRecord(product core.Product, cfg core.Config, title string, imageURLs []string) (core.InventoryRecord, error) {
	sku, err := core.SKUForProduct(product.ID)
	if err != nil {
		return core.InventoryRecord{}, core.NewBadInputError(err.Error())
	}

	aspects := map[string][]string{
		"Organization": {"NASCAR"},
		"Material":     {"Diecast"},
	}
	addAspect(aspects, "Scale", product.Scale)
	addAspect(aspects, "Driver", product.Driver)
	addAspect(aspects, "Vehicle Model", product.Model)
	addAspect(aspects, "Vehicle Year", product.Year)
	addAspect(aspects, "Edition", product.Edition)
	addAspect(aspects, "Type", product.Type)
	if product.Autographed {
		aspects["Autographed"] = []string{"Yes"}
	} else {
		aspects["Autographed"] = []string{"No"}
	}

	return core.InventoryRecord{
		SKU:            sku,
		Title:          title,
		Condition:      cfg.Condition,
		ConditionNotes: cfg.ConditionNotes,
		Aspects:        aspects,
		ImageURLs:      imageURLs,
		Dimensions: core.PackageDimensions{
			Length: product.Length,
			Width:  product.Width,
			Height: product.Height,
			Unit:   "INCH",
		},
		Weight:   core.CombineWeight(product.WeightLbs, product.WeightOz),
		Quantity: 1,
	}, nil
}

func addAspect(aspects map[string][]string, name string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	aspects[name] = []string{value}
}
