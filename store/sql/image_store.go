package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-listings/core"
)

// ImageStore records marketplace-hosted image URLs per SKU. A record
// batch fully replaces the SKU's previous set so positions stay dense
// after re-uploads.
type ImageStore struct {
	db   *bun.DB
	repo repository.Repository[*hostedImageRecord]
}

func NewImageStore(db *bun.DB) (*ImageStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*hostedImageRecord](db, hostedImageHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid hosted image repository wiring: %w", err)
		}
	}
	return &ImageStore{db: db, repo: repo}, nil
}

// HostedImages lists the hosted image URLs for a SKU in display order.
func (s *ImageStore) HostedImages(ctx context.Context, sku string) ([]core.HostedImage, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: image store is not configured")
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, core.NewBadInputError("sqlstore: sku is required")
	}

	records, _, err := s.repo.List(ctx,
		repository.SelectBy("sku", "=", sku),
		repository.OrderBy("position ASC"),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.HostedImage, 0, len(records))
	for _, record := range records {
		out = append(out, core.HostedImage{
			SKU:       record.SKU,
			SourceURL: record.SourceURL,
			HostedURL: record.HostedURL,
			Position:  record.Position,
		})
	}
	return out, nil
}

// RecordHostedImages replaces the stored image set for the batch's SKU.
// All images in one batch must share a SKU.
func (s *ImageStore) RecordHostedImages(ctx context.Context, images []core.HostedImage) error {
	if s == nil || s.db == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: image store is not configured")
	}
	if len(images) == 0 {
		return nil
	}
	sku := strings.TrimSpace(images[0].SKU)
	if sku == "" {
		return core.NewBadInputError("sqlstore: hosted image sku is required")
	}
	for _, image := range images {
		if strings.TrimSpace(image.SKU) != sku {
			return core.NewBadInputError("sqlstore: hosted image batch must share one sku")
		}
	}
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// The repository has no bulk delete-by-column; the replace
		// semantics need one raw statement inside the transaction.
		if _, err := tx.NewDelete().
			Model((*hostedImageRecord)(nil)).
			Where("sku = ?", sku).
			Exec(ctx); err != nil {
			return err
		}
		for _, image := range images {
			record := &hostedImageRecord{
				ID:        uuid.NewString(),
				SKU:       sku,
				SourceURL: image.SourceURL,
				HostedURL: image.HostedURL,
				Position:  image.Position,
				CreatedAt: now,
			}
			if _, err := s.repo.CreateTx(ctx, tx, record); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ core.ImageSource = (*ImageStore)(nil)
var _ core.ImageRecorder = (*ImageStore)(nil)
