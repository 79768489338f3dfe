// Package eps mirrors externally hosted product photos onto the
// marketplace picture service and records the hosted URLs for later
// sells.
package eps

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-listings/core"
)

// Service uploads image source URLs one at a time and writes the
// successful results to the image ledger. A failed upload is recorded
// in the report and skipped; it never aborts the batch.
type Service struct {
	uploader core.ImageUploader
	recorder core.ImageRecorder
	logger   core.Logger
}

func NewService(uploader core.ImageUploader, recorder core.ImageRecorder, logger core.Logger) (*Service, error) {
	if uploader == nil {
		return nil, fmt.Errorf("eps: image uploader is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("eps: image recorder is required")
	}
	_, logger = glog.Resolve("eps", nil, logger)
	return &Service{uploader: uploader, recorder: recorder, logger: logger}, nil
}

// UploadResult is the outcome for one source URL.
type UploadResult struct {
	SourceURL string
	HostedURL string
	Err       error
}

func (r UploadResult) Succeeded() bool {
	return r.Err == nil
}

// UploadReport covers one batch in source order.
type UploadReport struct {
	SKU     string
	Results []UploadResult
}

func (r UploadReport) Uploaded() int {
	count := 0
	for _, result := range r.Results {
		if result.Succeeded() {
			count++
		}
	}
	return count
}

func (r UploadReport) Failed() int {
	return len(r.Results) - r.Uploaded()
}

// UploadForSKU uploads every source URL and replaces the SKU's ledger
// entries with the successful hosted URLs, positions following source
// order. The ledger write is skipped when nothing uploaded.
func (s *Service) UploadForSKU(ctx context.Context, productID string, sourceURLs []string) (UploadReport, error) {
	if s == nil || s.uploader == nil || s.recorder == nil {
		return UploadReport{}, fmt.Errorf("eps: upload service is not configured")
	}
	sku, err := core.SKUForProduct(productID)
	if err != nil {
		return UploadReport{}, core.NewBadInputError(err.Error())
	}
	if len(sourceURLs) == 0 {
		return UploadReport{}, core.NewBadInputError("eps: no source urls to upload")
	}

	report := UploadReport{SKU: sku}
	var hosted []core.HostedImage
	for _, sourceURL := range sourceURLs {
		sourceURL = strings.TrimSpace(sourceURL)
		if sourceURL == "" {
			continue
		}

		hostedURL, err := s.uploader.UploadImage(ctx, sourceURL)
		result := UploadResult{SourceURL: sourceURL, HostedURL: hostedURL, Err: err}
		report.Results = append(report.Results, result)
		if err != nil {
			s.logger.Warn("image upload failed",
				"sku", sku,
				"source_url", sourceURL,
				"error", err,
			)
			continue
		}
		hosted = append(hosted, core.HostedImage{
			SKU:       sku,
			SourceURL: sourceURL,
			HostedURL: hostedURL,
			Position:  len(hosted),
		})
	}

	if len(hosted) > 0 {
		if err := s.recorder.RecordHostedImages(ctx, hosted); err != nil {
			return report, err
		}
	}

	s.logger.Info("image batch uploaded",
		"sku", sku,
		"uploaded", report.Uploaded(),
		"failed", report.Failed(),
	)
	return report, nil
}
