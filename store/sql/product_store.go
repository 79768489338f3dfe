package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-listings/core"
)

// ProductStore persists the diecast catalog. Catalog rows are static
// seller-side data; no listing lifecycle state is ever stored here.
type ProductStore struct {
	db   *bun.DB
	repo repository.Repository[*productRecord]
}

func NewProductStore(db *bun.DB) (*ProductStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*productRecord](db, productHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid product repository wiring: %w", err)
		}
	}
	return &ProductStore{db: db, repo: repo}, nil
}

// Product resolves a catalog row by product identifier.
func (s *ProductStore) Product(ctx context.Context, productID string) (core.Product, error) {
	if s == nil || s.repo == nil {
		return core.Product{}, fmt.Errorf("sqlstore: product store is not configured")
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return core.Product{}, core.NewBadInputError("sqlstore: product id is required")
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectBy("product_id", "=", productID),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.Product{}, err
	}
	if len(records) == 0 {
		return core.Product{}, core.NewNotFoundError(fmt.Sprintf("sqlstore: no product %q", productID))
	}
	return records[0].toDomain(), nil
}

// Upsert inserts or fully replaces a catalog row keyed by product id.
func (s *ProductStore) Upsert(ctx context.Context, product core.Product) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: product store is not configured")
	}
	if err := product.Validate(); err != nil {
		return core.NewBadInputError(err.Error())
	}
	now := time.Now().UTC()

	existing, _, err := s.repo.List(ctx,
		repository.SelectBy("product_id", "=", strings.TrimSpace(product.ID)),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return err
	}

	record := recordFromProduct(product)
	record.UpdatedAt = now
	if len(existing) == 0 {
		record.ID = uuid.NewString()
		record.CreatedAt = now
		_, createErr := s.repo.Create(ctx, record)
		return createErr
	}

	record.ID = existing[0].ID
	record.CreatedAt = existing[0].CreatedAt
	_, updateErr := s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	return updateErr
}

// List returns the full catalog ordered by product id.
func (s *ProductStore) List(ctx context.Context) ([]core.Product, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: product store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.OrderBy("product_id ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.Product, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}

func (r *productRecord) toDomain() core.Product {
	if r == nil {
		return core.Product{}
	}
	product := core.Product{
		ID:          r.ProductID,
		Description: r.Description,
		Scale:       r.Scale,
		Driver:      r.Driver,
		Model:       r.Model,
		Year:        r.Year,
		Edition:     r.Edition,
		Type:        r.Type,
		Autographed: r.Autographed,
		MaxQuantity: r.MaxQuantity,
		Special:     r.Special,
		Issue:       r.Issue,
		WeightLbs:   r.WeightLbs,
		WeightOz:    r.WeightOz,
		Length:      r.Length,
		Width:       r.Width,
		Height:      r.Height,
	}
	if strings.TrimSpace(r.PriceValue) != "" {
		if value, err := decimal.NewFromString(strings.TrimSpace(r.PriceValue)); err == nil {
			product.Price = core.Money{Value: value, Currency: r.PriceCurrency}
		}
	}
	return product
}

func recordFromProduct(product core.Product) *productRecord {
	record := &productRecord{
		ProductID:   strings.TrimSpace(product.ID),
		Description: product.Description,
		Scale:       product.Scale,
		Driver:      product.Driver,
		Model:       product.Model,
		Year:        product.Year,
		Edition:     product.Edition,
		Type:        product.Type,
		Autographed: product.Autographed,
		MaxQuantity: product.MaxQuantity,
		Special:     product.Special,
		Issue:       product.Issue,
		WeightLbs:   product.WeightLbs,
		WeightOz:    product.WeightOz,
		Length:      product.Length,
		Width:       product.Width,
		Height:      product.Height,
	}
	if !product.Price.IsZero() {
		record.PriceValue = product.Price.Value.String()
		record.PriceCurrency = product.Price.Currency
	}
	return record
}

var _ core.ProductSource = (*ProductStore)(nil)
var _ ProductCatalog = (*ProductStore)(nil)
