// Package sqlstore persists the seller-side catalog: diecast product
// rows and the marketplace-hosted image URLs recorded after upload.
// The marketplace remains the single source of truth for listing
// lifecycle state; nothing here mirrors offers or listings.
package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type productRecord struct {
	bun.BaseModel `bun:"table:listing_products,alias:lp"`

	ID            string    `bun:"id,pk"`
	ProductID     string    `bun:"product_id,notnull"`
	Description   string    `bun:"description"`
	Scale         string    `bun:"scale"`
	Driver        string    `bun:"driver"`
	Model         string    `bun:"model"`
	Year          string    `bun:"year"`
	Edition       string    `bun:"edition"`
	Type          string    `bun:"type"`
	Autographed   bool      `bun:"autographed,notnull"`
	MaxQuantity   int       `bun:"max_quantity,notnull"`
	Special       bool      `bun:"special,notnull"`
	Issue         bool      `bun:"issue,notnull"`
	WeightLbs     int       `bun:"weight_lbs,notnull"`
	WeightOz      int       `bun:"weight_oz,notnull"`
	Length        int       `bun:"length,notnull"`
	Width         int       `bun:"width,notnull"`
	Height        int       `bun:"height,notnull"`
	PriceValue    string    `bun:"price_value"`
	PriceCurrency string    `bun:"price_currency"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type hostedImageRecord struct {
	bun.BaseModel `bun:"table:listing_hosted_images,alias:lhi"`

	ID        string    `bun:"id,pk"`
	SKU       string    `bun:"sku,notnull"`
	SourceURL string    `bun:"source_url,notnull"`
	HostedURL string    `bun:"hosted_url"`
	Position  int       `bun:"position,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
