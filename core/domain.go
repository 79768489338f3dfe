package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SKUPrefix is the fixed prefix applied to every product identifier. SKUs
// are derived, never user supplied.
const SKUPrefix = "DIECAST-"

// SKUForProduct derives the stable SKU for an external product identifier.
func SKUForProduct(productID string) (string, error) {
	trimmed := strings.TrimSpace(productID)
	if trimmed == "" {
		return "", fmt.Errorf("core: product id is required")
	}
	return SKUPrefix + trimmed, nil
}

// ListingState is derived from remote offer and listing status on every
// query; it is never persisted.
type ListingState string

const (
	ListingStateNoOffer   ListingState = "no_offer"
	ListingStateDraft     ListingState = "offer_draft"
	ListingStatePublished ListingState = "offer_published"
	ListingStateEnded     ListingState = "offer_ended"
)

// Money pairs a decimal amount with an ISO currency code.
type Money struct {
	Value    decimal.Decimal
	Currency string
}

func NewMoney(value string, currency string) (Money, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Money{}, fmt.Errorf("core: parse money value %q: %w", value, err)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Money{}, fmt.Errorf("core: money currency is required")
	}
	return Money{Value: amount, Currency: currency}, nil
}

func (m Money) IsZero() bool {
	return m.Value.IsZero() && strings.TrimSpace(m.Currency) == ""
}

func (m Money) String() string {
	return m.Value.StringFixed(2) + " " + m.Currency
}

// PackageDimensions are always emitted as whole inches.
type PackageDimensions struct {
	Length int
	Width  int
	Height int
	Unit   string
}

// PackageWeight is always emitted in ounces.
type PackageWeight struct {
	Value int
	Unit  string
}

// CombineWeight folds pounds and ounces into a single ounce figure.
func CombineWeight(pounds int, ounces int) PackageWeight {
	return PackageWeight{Value: pounds*16 + ounces, Unit: "OUNCE"}
}

// InventoryRecord is the full physical/product description for one SKU.
// Upserts always send the entire record; there is no partial update.
type InventoryRecord struct {
	SKU            string
	Title          string
	Condition      string
	ConditionNotes string
	Aspects        map[string][]string
	ImageURLs      []string
	Dimensions     PackageDimensions
	Weight         PackageWeight
	Quantity       int
}

func (r InventoryRecord) Validate() error {
	if strings.TrimSpace(r.SKU) == "" {
		return fmt.Errorf("core: inventory record sku is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("core: inventory record title is required")
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("core: inventory record quantity must be positive")
	}
	return nil
}

// PolicyIDSet holds the three resolved business policy identifiers an offer
// must reference. All three are required before any offer write.
type PolicyIDSet struct {
	FulfillmentID string
	PaymentID     string
	ReturnID      string
}

func (s PolicyIDSet) Validate() error {
	if strings.TrimSpace(s.FulfillmentID) == "" {
		return fmt.Errorf("core: fulfillment policy id is required")
	}
	if strings.TrimSpace(s.PaymentID) == "" {
		return fmt.Errorf("core: payment policy id is required")
	}
	if strings.TrimSpace(s.ReturnID) == "" {
		return fmt.Errorf("core: return policy id is required")
	}
	return nil
}

// OfferDraft is the client-side offer description sent on create and update.
type OfferDraft struct {
	SKU                 string
	MarketplaceID       string
	Format              string
	Quantity            int
	CategoryID          string
	ListingDuration     string
	Policies            PolicyIDSet
	Description         string
	Price               Money
	MerchantLocationKey string
}

func (d OfferDraft) Validate() error {
	if strings.TrimSpace(d.SKU) == "" {
		return fmt.Errorf("core: offer draft sku is required")
	}
	if strings.TrimSpace(d.MarketplaceID) == "" {
		return fmt.Errorf("core: offer draft marketplace id is required")
	}
	if d.Quantity <= 0 {
		return fmt.Errorf("core: offer draft quantity must be positive")
	}
	if d.Price.Value.Sign() <= 0 {
		return fmt.Errorf("core: offer draft price must be positive")
	}
	if err := d.Policies.Validate(); err != nil {
		return err
	}
	return nil
}

// ListingRef is the published-listing handle nested in a remote offer.
type ListingRef struct {
	ListingID     string
	ListingStatus string
}

// Offer is the remote offer record as reported by the marketplace. Listing
// is nil until the offer has been published at least once.
type Offer struct {
	OfferID       string
	SKU           string
	MarketplaceID string
	Format        string
	Status        string
	Listing       *ListingRef
}

// IsLive reports whether the offer would block destructive operations.
// Both status fields are checked independently: the remote API populates
// offer.status and listing.listingStatus from different subsystems and
// either one alone may mark the offer live.
func (o Offer) IsLive() bool {
	if strings.EqualFold(strings.TrimSpace(o.Status), "PUBLISHED") {
		return true
	}
	if o.Listing != nil && strings.EqualFold(strings.TrimSpace(o.Listing.ListingStatus), "ACTIVE") {
		return true
	}
	return false
}

// Product is one catalog row: the physical item description plus the
// scoring inputs used by pricing.
type Product struct {
	ID          string
	Description string
	Scale       string
	Driver      string
	Model       string
	Year        string
	Edition     string
	Type        string
	Autographed bool
	MaxQuantity int
	Special     bool
	Issue       bool
	WeightLbs   int
	WeightOz    int
	Length      int
	Width       int
	Height      int
	Price       Money
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("core: product id is required")
	}
	return nil
}

// HostedImage is one marketplace-hosted image URL for a SKU, ordered by
// position.
type HostedImage struct {
	SKU       string
	SourceURL string
	HostedURL string
	Position  int
}
