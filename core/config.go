package core

import (
	"fmt"
	"strings"
)

const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

type CredentialsConfig struct {
	AppID        string `koanf:"app_id" mapstructure:"app_id"`
	CertID       string `koanf:"cert_id" mapstructure:"cert_id"`
	DevID        string `koanf:"dev_id" mapstructure:"dev_id"`
	RefreshToken string `koanf:"refresh_token" mapstructure:"refresh_token"`
	UserToken    string `koanf:"user_token" mapstructure:"user_token"`
	RedirectName string `koanf:"redirect_name" mapstructure:"redirect_name"`
}

type PolicyNamesConfig struct {
	Fulfillment string `koanf:"fulfillment" mapstructure:"fulfillment"`
	Payment     string `koanf:"payment" mapstructure:"payment"`
	Return      string `koanf:"return" mapstructure:"return"`
}

type ShippingAddressConfig struct {
	AddressLine1    string `koanf:"address_line_1" mapstructure:"address_line_1"`
	City            string `koanf:"city" mapstructure:"city"`
	StateOrProvince string `koanf:"state_or_province" mapstructure:"state_or_province"`
	PostalCode      string `koanf:"postal_code" mapstructure:"postal_code"`
	Country         string `koanf:"country" mapstructure:"country"`
}

type CatalogConfig struct {
	Driver string `koanf:"driver" mapstructure:"driver"`
	DSN    string `koanf:"dsn" mapstructure:"dsn"`
}

type Config struct {
	Environment         string                `koanf:"environment" mapstructure:"environment"`
	MarketplaceID       string                `koanf:"marketplace_id" mapstructure:"marketplace_id"`
	MerchantLocationKey string                `koanf:"merchant_location_key" mapstructure:"merchant_location_key"`
	CategoryID          string                `koanf:"category_id" mapstructure:"category_id"`
	Currency            string                `koanf:"currency" mapstructure:"currency"`
	Condition           string                `koanf:"condition" mapstructure:"condition"`
	ConditionNotes      string                `koanf:"condition_notes" mapstructure:"condition_notes"`
	ListingDuration     string                `koanf:"listing_duration" mapstructure:"listing_duration"`
	Credentials         CredentialsConfig     `koanf:"credentials" mapstructure:"credentials"`
	PolicyNames         PolicyNamesConfig     `koanf:"policy_names" mapstructure:"policy_names"`
	ShippingAddress     ShippingAddressConfig `koanf:"shipping_address" mapstructure:"shipping_address"`
	Catalog             CatalogConfig         `koanf:"catalog" mapstructure:"catalog"`
}

func DefaultConfig() Config {
	return Config{
		Environment:         EnvironmentSandbox,
		MarketplaceID:       "EBAY_US",
		MerchantLocationKey: "WAREHOUSE",
		CategoryID:          "180272",
		Currency:            "USD",
		Condition:           "USED_EXCELLENT",
		ConditionNotes:      "In good condition. Displayed only in a glass case in a smoke-free home.",
		ListingDuration:     "GTC",
		PolicyNames: PolicyNamesConfig{
			Fulfillment: "standard shipping",
			Payment:     "standard payment",
			Return:      "standard return",
		},
		Catalog: CatalogConfig{
			Driver: "sqlite",
			DSN:    "file:listings.db?cache=shared",
		},
	}
}

func (c Config) Validate() error {
	switch strings.TrimSpace(c.Environment) {
	case EnvironmentSandbox, EnvironmentProduction:
	default:
		return fmt.Errorf("core: environment must be %q or %q", EnvironmentSandbox, EnvironmentProduction)
	}
	if strings.TrimSpace(c.MarketplaceID) == "" {
		return fmt.Errorf("core: marketplace_id is required")
	}
	if strings.TrimSpace(c.MerchantLocationKey) == "" {
		return fmt.Errorf("core: merchant_location_key is required")
	}
	if strings.TrimSpace(c.Currency) == "" {
		return fmt.Errorf("core: currency is required")
	}
	for _, name := range []struct {
		field string
		value string
	}{
		{"policy_names.fulfillment", c.PolicyNames.Fulfillment},
		{"policy_names.payment", c.PolicyNames.Payment},
		{"policy_names.return", c.PolicyNames.Return},
	} {
		if strings.TrimSpace(name.value) == "" {
			return fmt.Errorf("core: %s is required", name.field)
		}
	}
	return nil
}

// IsSandbox selects the sandbox API hosts.
func (c Config) IsSandbox() bool {
	return strings.TrimSpace(c.Environment) != EnvironmentProduction
}
