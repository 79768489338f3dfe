package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/goliatone/go-listings/core"
)

const defaultConfigPath = "listings.json"

// globalFlags are shared by every subcommand: the config file path plus
// the runtime overrides layered on top of it.
type globalFlags struct {
	configPath  string
	environment string
	marketplace string
	locationKey string
	currency    string
}

func bindGlobalFlags(fs *flag.FlagSet) *globalFlags {
	g := &globalFlags{}
	fs.StringVar(&g.configPath, "config", defaultConfigPath, "path to the JSON config file")
	fs.StringVar(&g.environment, "env", "", "environment override (sandbox or production)")
	fs.StringVar(&g.marketplace, "marketplace", "", "marketplace id override")
	fs.StringVar(&g.locationKey, "location", "", "merchant location key override")
	fs.StringVar(&g.currency, "currency", "", "currency override")
	return g
}

func (g *globalFlags) runtimeOverrides() core.Config {
	return core.Config{
		Environment:         g.environment,
		MarketplaceID:       g.marketplace,
		MerchantLocationKey: g.locationKey,
		Currency:            g.currency,
	}
}

// loadConfig layers defaults < config file < runtime flag overrides. A
// missing file at the default path is fine; an explicit path must exist.
func (g *globalFlags) loadConfig(ctx context.Context) (core.Config, error) {
	raw, err := readConfigFile(g.configPath)
	if err != nil {
		return core.Config{}, err
	}

	defaults := core.DefaultConfig()
	provider := core.NewCfgxConfigProvider(core.NewStaticRawConfigLoader(raw))
	loaded, err := provider.Load(ctx, defaults)
	if err != nil {
		return core.Config{}, fmt.Errorf("load config %s: %w", g.configPath, err)
	}

	resolved, err := core.GoOptionsResolver{}.Resolve(defaults, loaded, g.runtimeOverrides())
	if err != nil {
		return core.Config{}, err
	}
	return resolved, nil
}

func readConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == defaultConfigPath {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return raw, nil
}
