// Package lifecycle sequences the catalog, rendering, inventory,
// policy, and offer layers into the listing commands the CLI exposes:
// sell, publish, status, end, delete.
package lifecycle

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/inventory"
	"github.com/goliatone/go-listings/offer"
	"github.com/goliatone/go-listings/pricing"
	"github.com/goliatone/go-listings/render"
)

// Dependencies wires the controller. Every field is required except
// Logger, which falls back to the package logger.
type Dependencies struct {
	Inventory *inventory.Manager
	Offers    *offer.Manager
	Products  core.ProductSource
	Images    core.ImageSource
	Config    core.Config
	Logger    core.Logger
}

type Controller struct {
	inventory *inventory.Manager
	offers    *offer.Manager
	products  core.ProductSource
	images    core.ImageSource
	cfg       core.Config
	logger    core.Logger
}

func NewController(deps Dependencies) (*Controller, error) {
	if deps.Inventory == nil {
		return nil, fmt.Errorf("lifecycle: inventory manager is required")
	}
	if deps.Offers == nil {
		return nil, fmt.Errorf("lifecycle: offer manager is required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("lifecycle: product source is required")
	}
	if deps.Images == nil {
		return nil, fmt.Errorf("lifecycle: image source is required")
	}
	if err := deps.Config.Validate(); err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}
	_, logger := glog.Resolve("lifecycle", nil, deps.Logger)
	return &Controller{
		inventory: deps.Inventory,
		offers:    deps.Offers,
		products:  deps.Products,
		images:    deps.Images,
		cfg:       deps.Config,
		logger:    logger,
	}, nil
}

// PriceSource records where the sell price came from.
type PriceSource string

const (
	PriceSourceOverride PriceSource = "override"
	PriceSourceCatalog  PriceSource = "catalog"
	PriceSourceFormula  PriceSource = "formula"
)

// SellRequest drives one sell. Template is the authored HTML template
// text; Price overrides both the catalog price and the formula when set.
type SellRequest struct {
	ProductID string
	Template  string
	Price     core.Money
}

// SellReport is the structured outcome of a sell.
type SellReport struct {
	SKU         string
	Title       string
	Price       core.Money
	PriceSource PriceSource
	ImageCount  int
	OfferAction offer.UpsertAction
	OfferID     string
}

// Sell builds the full listing for a product: renders the description
// document, replaces the remote inventory record, and upserts the offer.
// The listing stays unpublished; publish is a separate command.
func (c *Controller) Sell(ctx context.Context, req SellRequest) (SellReport, error) {
	sku, err := core.SKUForProduct(req.ProductID)
	if err != nil {
		return SellReport{}, core.NewBadInputError(err.Error())
	}
	if strings.TrimSpace(req.Template) == "" {
		return SellReport{}, core.NewBadInputError("lifecycle: listing template is required")
	}

	product, err := c.products.Product(ctx, req.ProductID)
	if err != nil {
		return SellReport{}, err
	}

	hosted, err := c.images.HostedImages(ctx, sku)
	if err != nil {
		return SellReport{}, err
	}
	imageURLs := make([]string, 0, len(hosted))
	for _, image := range hosted {
		if strings.TrimSpace(image.HostedURL) == "" {
			continue
		}
		imageURLs = append(imageURLs, image.HostedURL)
	}
	if len(imageURLs) == 0 {
		c.logger.Warn("selling without hosted images", "sku", sku)
	}

	doc, err := render.Parse(strings.NewReader(render.RenderDescription(req.Template, product)))
	if err != nil {
		return SellReport{}, err
	}
	title := doc.Title
	if title == "" {
		title = render.TruncateTitle(product.Description)
	}
	if title == "" {
		return SellReport{}, core.NewBadInputError("lifecycle: listing has no title")
	}

	price, source := c.resolvePrice(req, product)

	if err := c.inventory.EnsureLocation(ctx, c.cfg.MerchantLocationKey); err != nil {
		return SellReport{}, err
	}

	record, err := inventory.BuildRecord(product, c.cfg, title, imageURLs)
	if err != nil {
		return SellReport{}, err
	}
	if err := c.inventory.Upsert(ctx, record); err != nil {
		return SellReport{}, err
	}

	result, err := c.offers.Upsert(ctx, sku, offer.Input{
		Price:       price,
		Description: doc.Description,
	})
	if err != nil {
		return SellReport{}, err
	}

	c.logger.Info("sell completed",
		"sku", sku,
		"offer_id", result.OfferID,
		"action", string(result.Action),
		"price", price.String(),
		"price_source", string(source),
	)
	return SellReport{
		SKU:         sku,
		Title:       title,
		Price:       price,
		PriceSource: source,
		ImageCount:  len(imageURLs),
		OfferAction: result.Action,
		OfferID:     result.OfferID,
	}, nil
}

// resolvePrice prefers an explicit override, then the catalog row, then
// the collectible scoring formula.
func (c *Controller) resolvePrice(req SellRequest, product core.Product) (core.Money, PriceSource) {
	if !req.Price.IsZero() {
		return req.Price, PriceSourceOverride
	}
	if !product.Price.IsZero() {
		return product.Price, PriceSourceCatalog
	}
	card := pricing.Score(product, c.cfg.Currency)
	return card.Price, PriceSourceFormula
}

// Render produces the listing document for a product without touching
// the remote system.
func (c *Controller) Render(ctx context.Context, productID string, template string) (core.ListingDocument, error) {
	if strings.TrimSpace(template) == "" {
		return core.ListingDocument{}, core.NewBadInputError("lifecycle: listing template is required")
	}
	product, err := c.products.Product(ctx, productID)
	if err != nil {
		return core.ListingDocument{}, err
	}
	return render.Parse(strings.NewReader(render.RenderDescription(template, product)))
}

// Price computes the collectible scorecard and ladder price for a
// product from its catalog row.
func (c *Controller) Price(ctx context.Context, productID string) (pricing.Scorecard, error) {
	product, err := c.products.Product(ctx, productID)
	if err != nil {
		return pricing.Scorecard{}, err
	}
	return pricing.Score(product, c.cfg.Currency), nil
}

// PublishReport is the structured outcome of a publish.
type PublishReport struct {
	SKU              string
	NoOffer          bool
	AlreadyPublished bool
	OfferID          string
	ListingID        string
}

// Publish takes the SKU's offer live. Publishing an already live offer
// reports AlreadyPublished and succeeds, mirroring the end semantics.
func (c *Controller) Publish(ctx context.Context, productID string) (PublishReport, error) {
	sku, err := core.SKUForProduct(productID)
	if err != nil {
		return PublishReport{}, core.NewBadInputError(err.Error())
	}
	outcome, err := c.offers.Publish(ctx, sku)
	if err != nil {
		return PublishReport{}, err
	}
	return PublishReport{
		SKU:              sku,
		NoOffer:          outcome.NoOffer,
		AlreadyPublished: outcome.AlreadyPublished,
		OfferID:          outcome.OfferID,
		ListingID:        outcome.ListingID,
	}, nil
}

// EndReport is the structured outcome of an end.
type EndReport struct {
	SKU          string
	NoOffer      bool
	NoListing    bool
	AlreadyEnded bool
	ListingID    string
}

func (c *Controller) End(ctx context.Context, productID string, reason string) (EndReport, error) {
	sku, err := core.SKUForProduct(productID)
	if err != nil {
		return EndReport{}, core.NewBadInputError(err.Error())
	}
	outcome, err := c.offers.End(ctx, sku, reason)
	if err != nil {
		return EndReport{}, err
	}
	return EndReport{
		SKU:          sku,
		NoOffer:      outcome.NoOffer,
		NoListing:    outcome.NoListing,
		AlreadyEnded: outcome.AlreadyEnded,
		ListingID:    outcome.ListingID,
	}, nil
}

// StatusReport is the derived lifecycle state for a product.
type StatusReport struct {
	SKU           string
	State         core.ListingState
	OfferID       string
	ListingID     string
	ListingStatus string
}

// Status recomputes the listing state from the remote system; nothing
// is read from or written to local storage.
func (c *Controller) Status(ctx context.Context, productID string) (StatusReport, error) {
	sku, err := core.SKUForProduct(productID)
	if err != nil {
		return StatusReport{}, core.NewBadInputError(err.Error())
	}
	outcome, err := c.offers.Status(ctx, sku)
	if err != nil {
		return StatusReport{}, err
	}
	return StatusReport{
		SKU:           sku,
		State:         outcome.State,
		OfferID:       outcome.OfferID,
		ListingID:     outcome.ListingID,
		ListingStatus: outcome.ListingStatus,
	}, nil
}

// DeleteReport is the structured outcome of a guarded delete.
type DeleteReport struct {
	SKU              string
	GuardRejected    bool
	BlockingOfferID  string
	OffersDeleted    int
	InventoryMissing bool
}

// Delete removes the SKU's offers and inventory item unless a live
// offer blocks it. When the guard rejects, nothing was deleted.
func (c *Controller) Delete(ctx context.Context, productID string) (DeleteReport, error) {
	sku, err := core.SKUForProduct(productID)
	if err != nil {
		return DeleteReport{}, core.NewBadInputError(err.Error())
	}
	outcome, err := c.offers.Delete(ctx, sku)
	if err != nil {
		return DeleteReport{}, err
	}
	return DeleteReport{
		SKU:              sku,
		GuardRejected:    outcome.GuardRejected,
		BlockingOfferID:  outcome.BlockingOfferID,
		OffersDeleted:    outcome.OffersDeleted,
		InventoryMissing: outcome.InventoryMissing,
	}, nil
}
