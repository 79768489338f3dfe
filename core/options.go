package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

// ConfigProvider loads the effective configuration on top of defaults.
type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

// RawConfigLoader produces the raw key/value tree cfgx builds from.
type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

// OptionsResolver merges defaults, loaded config, and runtime overrides.
type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// NewStaticRawConfigLoader wraps an already-parsed config tree.
func NewStaticRawConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GoOptionsResolver layers defaults < loaded config < runtime overrides.
type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			configToLayerMap(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			configToLayerMap(loaded, false),
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			configToLayerMap(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	setString := func(key string, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			layer[key] = value
		}
	}
	setString("environment", cfg.Environment)
	setString("marketplace_id", cfg.MarketplaceID)
	setString("merchant_location_key", cfg.MerchantLocationKey)
	setString("category_id", cfg.CategoryID)
	setString("currency", cfg.Currency)
	setString("condition", cfg.Condition)
	setString("condition_notes", cfg.ConditionNotes)
	setString("listing_duration", cfg.ListingDuration)

	if includeZero || cfg.PolicyNames != (PolicyNamesConfig{}) {
		layer["policy_names"] = map[string]any{
			"fulfillment": cfg.PolicyNames.Fulfillment,
			"payment":     cfg.PolicyNames.Payment,
			"return":      cfg.PolicyNames.Return,
		}
	}
	if includeZero || cfg.Credentials != (CredentialsConfig{}) {
		layer["credentials"] = map[string]any{
			"app_id":        cfg.Credentials.AppID,
			"cert_id":       cfg.Credentials.CertID,
			"dev_id":        cfg.Credentials.DevID,
			"refresh_token": cfg.Credentials.RefreshToken,
			"user_token":    cfg.Credentials.UserToken,
			"redirect_name": cfg.Credentials.RedirectName,
		}
	}
	if includeZero || cfg.ShippingAddress != (ShippingAddressConfig{}) {
		layer["shipping_address"] = map[string]any{
			"address_line_1":    cfg.ShippingAddress.AddressLine1,
			"city":              cfg.ShippingAddress.City,
			"state_or_province": cfg.ShippingAddress.StateOrProvince,
			"postal_code":       cfg.ShippingAddress.PostalCode,
			"country":           cfg.ShippingAddress.Country,
		}
	}
	if includeZero || cfg.Catalog != (CatalogConfig{}) {
		layer["catalog"] = map[string]any{
			"driver": cfg.Catalog.Driver,
			"dsn":    cfg.Catalog.DSN,
		}
	}
	return layer
}

var _ ConfigProvider = (*CfgxConfigProvider)(nil)
var _ OptionsResolver = GoOptionsResolver{}
