package lifecycle_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/devkit"
	"github.com/goliatone/go-listings/inventory"
	"github.com/goliatone/go-listings/lifecycle"
	"github.com/goliatone/go-listings/offer"
	"github.com/goliatone/go-listings/policy"
)

const listingTemplate = `<html>
<head><title>{{ year }} {{ driver }} {{ model }} {{ scale }} Diecast</title></head>
<body>
<h1>{{ description }}</h1>
<p>Limited to {{ max }} units.</p>
</body>
</html>`

type stubProductSource struct {
	products map[string]core.Product
}

func (s *stubProductSource) Product(_ context.Context, productID string) (core.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return core.Product{}, core.NewNotFoundError("lifecycle test: no product " + productID)
	}
	return product, nil
}

type stubImageSource struct {
	images map[string][]core.HostedImage
}

func (s *stubImageSource) HostedImages(_ context.Context, sku string) ([]core.HostedImage, error) {
	return s.images[sku], nil
}

func catalogProduct(id string) core.Product {
	return core.Product{
		ID:          id,
		Description: "2002 Dale Earnhardt Jr. #8 Budweiser Monte Carlo",
		Scale:       "1:24",
		Driver:      "Dale Earnhardt Jr.",
		Model:       "Monte Carlo",
		Year:        "2002",
		Edition:     "Elite",
		Type:        "Car",
		Autographed: true,
		MaxQuantity: 2508,
		WeightLbs:   2,
		WeightOz:    3,
		Length:      13,
		Width:       7,
		Height:      6,
	}
}

func newTestController(t *testing.T) (*lifecycle.Controller, *devkit.FakeMarketplaceClient) {
	t.Helper()

	products := &stubProductSource{products: map[string]core.Product{
		"007": catalogProduct("007"),
	}}
	images := &stubImageSource{images: map[string][]core.HostedImage{
		"DIECAST-007": {
			{SKU: "DIECAST-007", HostedURL: "https://i.ebayimg.example.com/front.jpg", Position: 0},
			{SKU: "DIECAST-007", HostedURL: "https://i.ebayimg.example.com/side.jpg", Position: 1},
		},
	}}
	return newControllerWithSources(t, products, images)
}

func money(t *testing.T, value string) core.Money {
	t.Helper()
	price, err := core.NewMoney(value, "USD")
	if err != nil {
		t.Fatalf("new money: %v", err)
	}
	return price
}

func TestSell_BuildsInventoryAndOffer(t *testing.T) {
	controller, remote := newTestController(t)
	ctx := context.Background()

	report, err := controller.Sell(ctx, lifecycle.SellRequest{
		ProductID: "007",
		Template:  listingTemplate,
		Price:     money(t, "49.99"),
	})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if report.SKU != "DIECAST-007" {
		t.Fatalf("expected sku DIECAST-007, got %q", report.SKU)
	}
	if report.OfferAction != offer.ActionCreated {
		t.Fatalf("expected first sell to create, got %q", report.OfferAction)
	}
	if report.Title != "2002 Dale Earnhardt Jr. Monte Carlo 1:24 Diecast" {
		t.Fatalf("unexpected title %q", report.Title)
	}
	if report.PriceSource != lifecycle.PriceSourceOverride {
		t.Fatalf("expected override price source, got %q", report.PriceSource)
	}
	if report.ImageCount != 2 {
		t.Fatalf("expected 2 hosted images, got %d", report.ImageCount)
	}

	record, ok := remote.InventoryItem("DIECAST-007")
	if !ok {
		t.Fatal("expected a remote inventory item")
	}
	if record.Weight.Value != 35 || record.Weight.Unit != "OUNCE" {
		t.Fatalf("expected 35 OUNCE weight, got %+v", record.Weight)
	}
	if len(record.ImageURLs) != 2 {
		t.Fatalf("expected hosted urls on the record, got %v", record.ImageURLs)
	}
	if !remote.HasLocation("WAREHOUSE") {
		t.Fatal("expected the merchant location to be ensured")
	}

	stored, ok := remote.Offer(report.OfferID)
	if !ok {
		t.Fatal("expected the offer stored remotely")
	}
	if !strings.Contains(stored.Description, "<h1>2002 Dale Earnhardt Jr. #8 Budweiser Monte Carlo</h1>") {
		t.Fatalf("expected the rendered fragment in the offer description, got %q", stored.Description)
	}
	if strings.Contains(stored.Description, "{{") {
		t.Fatalf("raw template tokens leaked into the description: %q", stored.Description)
	}
}

func TestSell_PriceFallsBackToCatalogThenFormula(t *testing.T) {
	controller, _ := newTestController(t)
	ctx := context.Background()

	report, err := controller.Sell(ctx, lifecycle.SellRequest{ProductID: "007", Template: listingTemplate})
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if report.PriceSource != lifecycle.PriceSourceFormula {
		t.Fatalf("expected formula pricing without a catalog price, got %q", report.PriceSource)
	}
	if report.Price.Value.IsZero() {
		t.Fatal("expected the formula to produce a price")
	}

	priced := catalogProduct("003")
	priced.Price = money(t, "54.99")
	products := &stubProductSource{products: map[string]core.Product{"003": priced}}
	images := &stubImageSource{images: map[string][]core.HostedImage{}}
	controller2, _ := newControllerWithSources(t, products, images)

	report, err = controller2.Sell(ctx, lifecycle.SellRequest{ProductID: "003", Template: listingTemplate})
	if err != nil {
		t.Fatalf("sell priced product: %v", err)
	}
	if report.PriceSource != lifecycle.PriceSourceCatalog {
		t.Fatalf("expected catalog price source, got %q", report.PriceSource)
	}
	if report.Price.Value.StringFixed(2) != "54.99" {
		t.Fatalf("expected catalog price 54.99, got %s", report.Price)
	}
}

func newControllerWithSources(t *testing.T, products *stubProductSource, images *stubImageSource) (*lifecycle.Controller, *devkit.FakeMarketplaceClient) {
	t.Helper()

	remote := devkit.NewFakeMarketplaceClient()
	remote.SeedStandardPolicies()
	cfg := core.DefaultConfig()
	resolver, err := policy.NewResolver(remote, nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	inventoryManager, err := inventory.NewManager(remote, nil)
	if err != nil {
		t.Fatalf("new inventory manager: %v", err)
	}
	offerManager, err := offer.NewManager(remote, resolver, cfg, nil)
	if err != nil {
		t.Fatalf("new offer manager: %v", err)
	}
	controller, err := lifecycle.NewController(lifecycle.Dependencies{
		Inventory: inventoryManager,
		Offers:    offerManager,
		Products:  products,
		Images:    images,
		Config:    cfg,
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return controller, remote
}

func TestSell_MissingProductSurfacesNotFound(t *testing.T) {
	controller, _ := newTestController(t)
	_, err := controller.Sell(context.Background(), lifecycle.SellRequest{ProductID: "404", Template: listingTemplate})
	if err == nil {
		t.Fatal("expected a missing product to fail the sell")
	}
	if !core.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestSell_RequiresTemplate(t *testing.T) {
	controller, remote := newTestController(t)
	_, err := controller.Sell(context.Background(), lifecycle.SellRequest{ProductID: "007"})
	if err == nil {
		t.Fatal("expected a missing template to be rejected")
	}
	if len(remote.Calls()) != 0 {
		t.Fatalf("expected no remote calls on a usage error, got %v", remote.Calls())
	}
}

func TestLifecycle_FullScenario(t *testing.T) {
	controller, remote := newTestController(t)
	ctx := context.Background()

	sell, err := controller.Sell(ctx, lifecycle.SellRequest{
		ProductID: "007",
		Template:  listingTemplate,
		Price:     money(t, "49.99"),
	})
	if err != nil {
		t.Fatalf("initial sell: %v", err)
	}
	if sell.OfferAction != offer.ActionCreated {
		t.Fatalf("expected created, got %q", sell.OfferAction)
	}

	resell, err := controller.Sell(ctx, lifecycle.SellRequest{
		ProductID: "007",
		Template:  listingTemplate,
		Price:     money(t, "54.99"),
	})
	if err != nil {
		t.Fatalf("repriced sell: %v", err)
	}
	if resell.OfferAction != offer.ActionUpdated {
		t.Fatalf("expected the second sell to update, got %q", resell.OfferAction)
	}
	if resell.OfferID != sell.OfferID {
		t.Fatalf("expected the same offer, got %q then %q", sell.OfferID, resell.OfferID)
	}

	status, err := controller.Status(ctx, "007")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.State != core.ListingStateDraft {
		t.Fatalf("expected draft before publish, got %q", status.State)
	}

	published, err := controller.Publish(ctx, "007")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.ListingID == "" {
		t.Fatal("expected a listing id from publish")
	}

	republished, err := controller.Publish(ctx, "007")
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !republished.AlreadyPublished {
		t.Fatal("expected republish to report already published")
	}

	blocked, err := controller.Delete(ctx, "007")
	if err != nil {
		t.Fatalf("guarded delete: %v", err)
	}
	if !blocked.GuardRejected {
		t.Fatal("expected the delete guard to reject a live listing")
	}
	if _, ok := remote.Offer(sell.OfferID); !ok {
		t.Fatal("guard rejection must not delete the offer")
	}

	ended, err := controller.End(ctx, "007", "")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.AlreadyEnded {
		t.Fatal("expected a fresh end, not already-ended")
	}

	reended, err := controller.End(ctx, "007", "")
	if err != nil {
		t.Fatalf("re-end: %v", err)
	}
	if !reended.AlreadyEnded {
		t.Fatal("expected the second end to report already ended")
	}

	deleted, err := controller.Delete(ctx, "007")
	if err != nil {
		t.Fatalf("delete after end: %v", err)
	}
	if deleted.GuardRejected {
		t.Fatal("expected the delete to pass after ending")
	}
	if deleted.OffersDeleted != 1 {
		t.Fatalf("expected one offer deleted, got %d", deleted.OffersDeleted)
	}
	if _, ok := remote.InventoryItem("DIECAST-007"); ok {
		t.Fatal("expected the inventory item removed")
	}

	final, err := controller.Status(ctx, "007")
	if err != nil {
		t.Fatalf("final status: %v", err)
	}
	if final.State != core.ListingStateNoOffer {
		t.Fatalf("expected no-offer after delete, got %q", final.State)
	}
}
