// Package pricing scores diecast collectibles and maps the score to a
// fixed asking-price ladder.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-listings/core"
)

// Scoring weights. They sum to 1.0; authenticity and packaging are
// constant contributions for items sold from a curated collection.
const (
	weightRarity       = 0.30
	weightBuild        = 0.20
	weightAutograph    = 0.15
	weightSpecial      = 0.10
	weightAuthenticity = 0.10
	weightRelevance    = 0.10
	weightPackaging    = 0.05

	issuePenalty = 0.85
)

// driverRelevance ranks drivers by collector demand. Matching is by
// substring so suffixed forms ("dale earnhardt sr.") still hit.
var driverRelevance = []struct {
	name  string
	score float64
}{
	{"dale earnhardt jr.", 0.95},
	{"dale earnhardt", 1.00},
	{"jeff gordon", 1.00},
	{"jimmie johnson", 1.00},
	{"richard petty", 1.00},
	{"bobby allison", 0.95},
	{"david pearson", 0.95},
	{"aj foyt", 0.95},
	{"mark martin", 0.90},
	{"tony stewart", 0.90},
	{"junior johnson", 0.90},
	{"bill elliott", 0.85},
	{"brad keselowski", 0.85},
	{"joey logano", 0.85},
	{"kyle busch", 0.85},
	{"darrell waltrip", 0.80},
	{"terry labonte", 0.80},
	{"ernie irvan", 0.75},
	{"kasey kahne", 0.75},
	{"ricky rudd", 0.75},
	{"alex bowman", 0.70},
	{"william byron", 0.70},
	{"austin dillon", 0.65},
	{"daniel suarez", 0.65},
	{"juan pablo montoya", 0.65},
	{"jeb burton", 0.60},
	{"casey mears", 0.60},
	{"kenny irwin", 0.60},
	{"trevor bayne", 0.60},
	{"ward burton", 0.60},
	{"brian vickers", 0.55},
	{"marcos ambrose", 0.55},
}

// priceLadder maps descending score thresholds to asking prices. The
// first threshold the score exceeds wins; the tail entry is the floor.
var priceLadder = []struct {
	threshold float64
	price     string
}{
	{0.95, "199.99"},
	{0.90, "179.99"},
	{0.85, "159.99"},
	{0.80, "139.99"},
	{0.75, "119.99"},
	{0.70, "99.99"},
	{0.65, "89.99"},
	{0.60, "74.99"},
	{0.55, "64.99"},
	{0.50, "54.99"},
	{0.45, "49.99"},
	{0.40, "44.99"},
	{0.35, "39.99"},
	{0.30, "34.99"},
	{0.25, "29.99"},
}

const floorPrice = "24.99"

// Scorecard is the full scoring breakdown for one product.
type Scorecard struct {
	ProductID    string
	Rarity       float64
	Build        float64
	Autograph    float64
	Relevance    float64
	Special      float64
	Authenticity float64
	Packaging    float64
	Reduced      bool
	Score        float64
	Price        core.Money
}

// Score computes the collectible score and ladder price for a product.
func Score(product core.Product, currency string) Scorecard {
	card := Scorecard{
		ProductID:    product.ID,
		Rarity:       rarityScore(product.MaxQuantity),
		Build:        buildScore(product.Edition),
		Relevance:    relevanceScore(product.Driver),
		Authenticity: 1.0,
		Packaging:    1.0,
		Reduced:      product.Issue,
	}
	if product.Autographed {
		card.Autograph = 1.0
	}
	if product.Special {
		card.Special = 1.0
	}

	score := card.Rarity*weightRarity +
		card.Build*weightBuild +
		card.Autograph*weightAutograph +
		card.Special*weightSpecial +
		card.Authenticity*weightAuthenticity +
		card.Relevance*weightRelevance +
		card.Packaging*weightPackaging
	if card.Reduced {
		score *= issuePenalty
	}
	card.Score = score
	card.Price = core.Money{Value: ladderPrice(score), Currency: strings.ToUpper(strings.TrimSpace(currency))}
	return card
}

// rarityScore: production runs under 500 are top rarity; runs of 10k or
// more score zero. An unknown run (zero) counts as unlimited.
func rarityScore(maxQuantity int) float64 {
	if maxQuantity <= 0 {
		return 0.0
	}
	switch {
	case maxQuantity < 500:
		return 1.0
	case maxQuantity < 1000:
		return 0.8
	case maxQuantity < 5000:
		return 0.6
	case maxQuantity < 10000:
		return 0.3
	default:
		return 0.0
	}
}

func buildScore(edition string) float64 {
	edition = strings.ToLower(strings.TrimSpace(edition))
	if strings.Contains(edition, "elite") {
		return 1.0
	}
	for _, tier := range []string{"limited", "preview", "platinum", "preferred", "galaxy"} {
		if strings.Contains(edition, tier) {
			return 0.3
		}
	}
	return 0.0
}

func relevanceScore(driver string) float64 {
	key := strings.ToLower(strings.TrimSpace(driver))
	if key == "" {
		return 0.0
	}
	for _, entry := range driverRelevance {
		if strings.Contains(key, entry.name) {
			return entry.score
		}
	}
	return 0.0
}

func ladderPrice(score float64) decimal.Decimal {
	for _, rung := range priceLadder {
		if score > rung.threshold {
			return decimal.RequireFromString(rung.price)
		}
	}
	return decimal.RequireFromString(floorPrice)
}
