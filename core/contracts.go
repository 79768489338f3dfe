package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// TransportRequest is a protocol-agnostic outbound request.
type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

// TransportResponse is the raw outcome of a transport call.
type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// TokenSource mints bearer tokens for marketplace calls. Invalidate drops
// the cached token so the next Token call refreshes; clients call it after
// a 401 before retrying once.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// EndListingResult distinguishes a fresh end from the idempotent case where
// the remote listing was already ended.
type EndListingResult struct {
	AlreadyEnded bool
}

// MarketplaceClient executes typed operations against the marketplace's
// inventory, account, and trading APIs. Implementations report remote
// rejections as errors carrying the remote status code and extracted
// message; expected absence is modeled in the return values, not as errors.
type MarketplaceClient interface {
	GetOffersBySKU(ctx context.Context, sku string) ([]Offer, error)
	CreateOffer(ctx context.Context, draft OfferDraft) (string, error)
	UpdateOffer(ctx context.Context, offerID string, draft OfferDraft) error
	DeleteOffer(ctx context.Context, offerID string) error

	PutInventoryItem(ctx context.Context, sku string, record InventoryRecord) error
	DeleteInventoryItem(ctx context.Context, sku string) error
	CreateInventoryLocation(ctx context.Context, locationKey string) error

	GetPolicies(ctx context.Context, policyType PolicyType) ([]RemotePolicy, error)
	CreatePolicy(ctx context.Context, payload PolicyPayload) (string, error)
	UpdatePolicy(ctx context.Context, remoteID string, payload PolicyPayload) error
	DeletePolicy(ctx context.Context, policyType PolicyType, remoteID string) error
	OptInSellingPolicies(ctx context.Context) error

	PublishOffer(ctx context.Context, offerID string) (string, error)
	EndListing(ctx context.Context, listingID string, reason string) (EndListingResult, error)
	GetListingStatus(ctx context.Context, listingID string) (string, error)
}

// ImageUploader pushes an externally hosted image to the marketplace
// picture service and returns the hosted URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, externalURL string) (string, error)
}

// ProductSource resolves a catalog row by product identifier.
type ProductSource interface {
	Product(ctx context.Context, productID string) (Product, error)
}

// ImageSource lists the ordered hosted image URLs recorded for a SKU.
type ImageSource interface {
	HostedImages(ctx context.Context, sku string) ([]HostedImage, error)
}

// ImageRecorder persists upload results for later sells.
type ImageRecorder interface {
	RecordHostedImages(ctx context.Context, images []HostedImage) error
}

// ListingDocument is the rendered description fragment and truncated title
// produced by the description renderer.
type ListingDocument struct {
	Title       string
	Description string
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

var _ MetricsRecorder = NopMetricsRecorder{}
