package main

import (
	"context"
	"fmt"

	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-listings/auth"
	"github.com/goliatone/go-listings/catalog"
	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/ebay"
	"github.com/goliatone/go-listings/eps"
	"github.com/goliatone/go-listings/inventory"
	"github.com/goliatone/go-listings/lifecycle"
	"github.com/goliatone/go-listings/offer"
	"github.com/goliatone/go-listings/policy"
	sqlstore "github.com/goliatone/go-listings/store/sql"
	"github.com/goliatone/go-listings/transport"
)

// application bundles the wired services a subcommand works with. The
// catalog connection is the only resource that needs closing.
type application struct {
	cfg        core.Config
	client     *ebay.Client
	db         *persistence.Client
	products   *sqlstore.CachedProductStore
	images     *sqlstore.ImageStore
	policies   *policy.Resolver
	controller *lifecycle.Controller
	importer   *catalog.Importer
	uploads    *eps.Service
}

func buildApplication(ctx context.Context, cfg core.Config) (*application, error) {
	client, err := buildMarketplaceClient(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlstore.Connect(ctx, cfg.Catalog)
	if err != nil {
		return nil, err
	}
	app, err := assembleApplication(cfg, client, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func buildMarketplaceClient(cfg core.Config) (*ebay.Client, error) {
	tokens, err := auth.NewRefreshTokenSource(auth.RefreshTokenSourceConfig{
		Credentials: credentialsFromConfig(cfg),
		Sandbox:     cfg.IsSandbox(),
	})
	if err != nil {
		return nil, err
	}
	return ebay.New(ebay.Config{
		Sandbox:       cfg.IsSandbox(),
		MarketplaceID: cfg.MarketplaceID,
		Transport:     transport.NewRESTAdapter(nil),
		Tokens:        tokens,
		Location: ebay.LocationConfig{
			Name:            cfg.MerchantLocationKey,
			AddressLine1:    cfg.ShippingAddress.AddressLine1,
			City:            cfg.ShippingAddress.City,
			StateOrProvince: cfg.ShippingAddress.StateOrProvince,
			PostalCode:      cfg.ShippingAddress.PostalCode,
			Country:         cfg.ShippingAddress.Country,
		},
		Limiter: ebay.NewAdaptivePolicy(),
	})
}

func assembleApplication(cfg core.Config, client *ebay.Client, db *persistence.Client) (*application, error) {
	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(db)
	if err != nil {
		return nil, err
	}
	cacheConfig := repositorycache.DefaultConfig()
	cacheService, err := repositorycache.NewCacheService(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("build catalog cache: %w", err)
	}
	products, err := sqlstore.NewCachedProductStore(factory.ProductStore(), cacheService)
	if err != nil {
		return nil, err
	}

	policies, err := policy.NewResolver(client, nil)
	if err != nil {
		return nil, err
	}
	inventoryManager, err := inventory.NewManager(client, nil)
	if err != nil {
		return nil, err
	}
	offerManager, err := offer.NewManager(client, policies, cfg, nil)
	if err != nil {
		return nil, err
	}
	controller, err := lifecycle.NewController(lifecycle.Dependencies{
		Inventory: inventoryManager,
		Offers:    offerManager,
		Products:  products,
		Images:    factory.ImageStore(),
		Config:    cfg,
	})
	if err != nil {
		return nil, err
	}
	// The importer writes through the cached store so stale catalog
	// entries are invalidated on re-import.
	importer, err := catalog.NewImporter(products, cfg.Currency, nil)
	if err != nil {
		return nil, err
	}
	uploads, err := eps.NewService(client, factory.ImageStore(), nil)
	if err != nil {
		return nil, err
	}

	return &application{
		cfg:        cfg,
		client:     client,
		db:         db,
		products:   products,
		images:     factory.ImageStore(),
		policies:   policies,
		controller: controller,
		importer:   importer,
		uploads:    uploads,
	}, nil
}

func (a *application) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func credentialsFromConfig(cfg core.Config) auth.Credentials {
	return auth.Credentials{
		AppID:        cfg.Credentials.AppID,
		CertID:       cfg.Credentials.CertID,
		RefreshToken: cfg.Credentials.RefreshToken,
	}
}
