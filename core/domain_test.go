package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSKUForProduct(t *testing.T) {
	cases := []struct {
		name      string
		productID string
		want      string
		wantErr   bool
	}{
		{name: "plain_id", productID: "007", want: "DIECAST-007"},
		{name: "trims_whitespace", productID: "  042 ", want: "DIECAST-042"},
		{name: "empty", productID: "   ", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SKUForProduct(tc.productID)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("derive sku: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCombineWeight(t *testing.T) {
	cases := []struct {
		name   string
		pounds int
		ounces int
		want   int
	}{
		{name: "pounds_only", pounds: 2, ounces: 0, want: 32},
		{name: "mixed", pounds: 1, ounces: 5, want: 21},
		{name: "ounces_only", pounds: 0, ounces: 9, want: 9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CombineWeight(tc.pounds, tc.ounces)
			if got.Value != tc.want {
				t.Fatalf("expected %d oz, got %d", tc.want, got.Value)
			}
			if got.Unit != "OUNCE" {
				t.Fatalf("expected OUNCE unit, got %q", got.Unit)
			}
		})
	}
}

func TestOfferIsLive(t *testing.T) {
	cases := []struct {
		name  string
		offer Offer
		want  bool
	}{
		{
			name:  "published_status_only",
			offer: Offer{Status: "PUBLISHED"},
			want:  true,
		},
		{
			name:  "published_status_lowercase",
			offer: Offer{Status: "published"},
			want:  true,
		},
		{
			name:  "active_listing_only",
			offer: Offer{Status: "UNPUBLISHED", Listing: &ListingRef{ListingID: "110", ListingStatus: "Active"}},
			want:  true,
		},
		{
			name:  "ended_listing",
			offer: Offer{Status: "UNPUBLISHED", Listing: &ListingRef{ListingID: "110", ListingStatus: "ENDED"}},
			want:  false,
		},
		{
			name:  "draft_without_listing",
			offer: Offer{Status: "UNPUBLISHED"},
			want:  false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.offer.IsLive(); got != tc.want {
				t.Fatalf("expected live=%t, got %t", tc.want, got)
			}
		})
	}
}

func TestOfferDraftValidate(t *testing.T) {
	valid := OfferDraft{
		SKU:           "DIECAST-007",
		MarketplaceID: "EBAY_US",
		Format:        "FIXED_PRICE",
		Quantity:      1,
		CategoryID:    "180272",
		Policies: PolicyIDSet{
			FulfillmentID: "f-1",
			PaymentID:     "p-1",
			ReturnID:      "r-1",
		},
		Price: Money{Value: decimal.RequireFromString("49.99"), Currency: "USD"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}

	missingPolicy := valid
	missingPolicy.Policies.ReturnID = " "
	if err := missingPolicy.Validate(); err == nil {
		t.Fatalf("expected missing return policy id to fail validation")
	}

	zeroPrice := valid
	zeroPrice.Price = Money{Value: decimal.Zero, Currency: "USD"}
	if err := zeroPrice.Validate(); err == nil {
		t.Fatalf("expected zero price to fail validation")
	}
}

func TestNewMoney(t *testing.T) {
	money, err := NewMoney("49.99", "usd")
	if err != nil {
		t.Fatalf("new money: %v", err)
	}
	if money.Currency != "USD" {
		t.Fatalf("expected USD, got %q", money.Currency)
	}
	if money.String() != "49.99 USD" {
		t.Fatalf("unexpected string form %q", money.String())
	}
	if _, err := NewMoney("not-a-number", "USD"); err == nil {
		t.Fatalf("expected parse failure")
	}
}
