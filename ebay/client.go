package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"

	"github.com/goliatone/go-listings/core"
)

const (
	sandboxBaseURL    = "https://api.sandbox.ebay.com"
	productionBaseURL = "https://api.ebay.com"
)

const defaultCallTimeout = 30 * time.Second

// LocationConfig describes the merchant inventory location created before
// the first sell.
type LocationConfig struct {
	Name            string
	AddressLine1    string
	City            string
	StateOrProvince string
	PostalCode      string
	Country         string
}

type Config struct {
	Sandbox       bool
	MarketplaceID string
	Transport     core.TransportAdapter
	Tokens        core.TokenSource
	Trading       TradingConfig
	Location      LocationConfig
	Logger        core.Logger
	Metrics       core.MetricsRecorder
	Limiter       *AdaptivePolicy
}

// Client implements core.MarketplaceClient against the eBay Sell Inventory,
// Sell Account, and Trading APIs.
type Client struct {
	baseURL       string
	marketplaceID string
	transport     core.TransportAdapter
	tokens        core.TokenSource
	trading       TradingConfig
	tradingURL    string
	location      LocationConfig
	logger        core.Logger
	metrics       core.MetricsRecorder
	limiter       *AdaptivePolicy
}

func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, fmt.Errorf("ebay: transport adapter is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("ebay: token source is required")
	}
	if strings.TrimSpace(cfg.MarketplaceID) == "" {
		return nil, fmt.Errorf("ebay: marketplace id is required")
	}

	baseURL := productionBaseURL
	tradingURL := productionTradingURL
	if cfg.Sandbox {
		baseURL = sandboxBaseURL
		tradingURL = sandboxTradingURL
	}
	_, logger := glog.Resolve("ebay", nil, cfg.Logger)
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = core.NopMetricsRecorder{}
	}

	return &Client{
		baseURL:       baseURL,
		marketplaceID: strings.TrimSpace(cfg.MarketplaceID),
		transport:     cfg.Transport,
		tokens:        cfg.Tokens,
		trading:       cfg.Trading,
		tradingURL:    tradingURL,
		location:      cfg.Location,
		logger:        logger,
		metrics:       metrics,
		limiter:       cfg.Limiter,
	}, nil
}

func (c *Client) GetOffersBySKU(ctx context.Context, sku string) ([]core.Offer, error) {
	res, err := c.call(ctx, bucketInventory, http.MethodGet, "/sell/inventory/v1/offer",
		map[string]string{"sku": strings.TrimSpace(sku)}, nil)
	if err != nil {
		return nil, err
	}
	// 404 means no offers exist for the SKU; expected absence, not failure.
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !isSuccess(res.StatusCode) {
		return nil, remoteRejection("get offers by sku", res, map[string]any{"sku": sku})
	}
	var parsed offersBody
	decodeBody(res.Body, &parsed)
	offers := make([]core.Offer, 0, len(parsed.Offers))
	for _, entry := range parsed.Offers {
		offers = append(offers, entry.toDomain())
	}
	return offers, nil
}

func (c *Client) CreateOffer(ctx context.Context, draft core.OfferDraft) (string, error) {
	if err := draft.Validate(); err != nil {
		return "", err
	}
	res, err := c.call(ctx, bucketInventory, http.MethodPost, "/sell/inventory/v1/offer", nil, buildOfferPayload(draft))
	if err != nil {
		return "", err
	}
	if !isSuccess(res.StatusCode) {
		return "", remoteRejection("create offer", res, map[string]any{"sku": draft.SKU})
	}
	var parsed struct {
		OfferID string `json:"offerId"`
	}
	decodeBody(res.Body, &parsed)
	return parsed.OfferID, nil
}

func (c *Client) UpdateOffer(ctx context.Context, offerID string, draft core.OfferDraft) error {
	if strings.TrimSpace(offerID) == "" {
		return core.NewBadInputError("ebay: offer id is required")
	}
	if err := draft.Validate(); err != nil {
		return err
	}
	res, err := c.call(ctx, bucketInventory, http.MethodPut, "/sell/inventory/v1/offer/"+strings.TrimSpace(offerID), nil, buildOfferPayload(draft))
	if err != nil {
		return err
	}
	if !isSuccess(res.StatusCode) {
		return remoteRejection("update offer", res, map[string]any{"sku": draft.SKU, "offer_id": offerID})
	}
	return nil
}

func (c *Client) DeleteOffer(ctx context.Context, offerID string) error {
	if strings.TrimSpace(offerID) == "" {
		return core.NewBadInputError("ebay: offer id is required")
	}
	res, err := c.call(ctx, bucketInventory, http.MethodDelete, "/sell/inventory/v1/offer/"+strings.TrimSpace(offerID), nil, nil)
	if err != nil {
		return err
	}
	if !isSuccess(res.StatusCode) {
		return remoteRejection("delete offer", res, map[string]any{"offer_id": offerID})
	}
	return nil
}

func (c *Client) PutInventoryItem(ctx context.Context, sku string, record core.InventoryRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	res, err := c.call(ctx, bucketInventory, http.MethodPut, "/sell/inventory/v1/inventory_item/"+strings.TrimSpace(sku), nil, buildInventoryItemPayload(record))
	if err != nil {
		return err
	}
	if !isSuccess(res.StatusCode) {
		return remoteRejection("put inventory item", res, map[string]any{"sku": sku})
	}
	return nil
}

func (c *Client) DeleteInventoryItem(ctx context.Context, sku string) error {
	res, err := c.call(ctx, bucketInventory, http.MethodDelete, "/sell/inventory/v1/inventory_item/"+strings.TrimSpace(sku), nil, nil)
	if err != nil {
		return err
	}
	if res.StatusCode == http.StatusNotFound {
		return core.NewNotFoundError(fmt.Sprintf("ebay: no inventory item for sku %q", sku))
	}
	if !isSuccess(res.StatusCode) {
		return remoteRejection("delete inventory item", res, map[string]any{"sku": sku})
	}
	return nil
}

func (c *Client) CreateInventoryLocation(ctx context.Context, locationKey string) error {
	key := strings.TrimSpace(locationKey)
	if key == "" {
		return core.NewBadInputError("ebay: location key is required")
	}
	name := strings.TrimSpace(c.location.Name)
	if name == "" {
		name = "Warehouse"
	}
	payload := inventoryLocationPayload{
		Name: name,
		Location: locationDetailPayload{Address: locationAddressPayload{
			AddressLine1:    c.location.AddressLine1,
			City:            c.location.City,
			StateOrProvince: c.location.StateOrProvince,
			PostalCode:      c.location.PostalCode,
			Country:         c.location.Country,
		}},
		MerchantLocationStatus: "ENABLED",
	}
	res, err := c.call(ctx, bucketInventory, http.MethodPost, "/sell/inventory/v1/location/"+key, nil, payload)
	if err != nil {
		return err
	}
	// 409 means the location already exists; create is idempotent here.
	if res.StatusCode == http.StatusConflict {
		return nil
	}
	if !isSuccess(res.StatusCode) {
		return remoteRejection("create inventory location", res, map[string]any{"location_key": key})
	}
	return nil
}

func (c *Client) GetPolicies(ctx context.Context, policyType core.PolicyType) ([]core.RemotePolicy, error) {
	if err := policyType.Validate(); err != nil {
		return nil, err
	}
	res, err := c.call(ctx, bucketAccount, http.MethodGet, "/sell/account/v1/"+string(policyType)+"_policy",
		map[string]string{"marketplace_id": c.marketplaceID}, nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(res.StatusCode) {
		return nil, remoteRejection("get policies", res, map[string]any{"policy_type": string(policyType)})
	}
	return decodePolicyList(res.Body, policyType), nil
}

func (c *Client) CreatePolicy(ctx context.Context, payload core.PolicyPayload) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", err
	}
	body, err := buildPolicyPayload(payload)
	if err != nil {
		return "", err
	}
	policyType := payload.PolicyType()
	res, err := c.call(ctx, bucketAccount, http.MethodPost, "/sell/account/v1/"+string(policyType)+"_policy", nil, body)
	if err != nil {
		return "", err
	}
	if !isSuccess(res.StatusCode) {
		return "", remoteRejection("create policy", res, map[string]any{
			"policy_type": string(policyType),
			"policy_name": payload.PolicyName(),
		})
	}
	return decodePolicyID(res.Body, policyType), nil
}

func (c *Client) UpdatePolicy(ctx context.Context, remoteID string, payload core.PolicyPayload) error {
	if strings.TrimSpace(remoteID) == "" {
		return core.NewBadInputError("ebay: policy id is required")
	}
	if err := payload.Validate(); err != nil {
		return err
	}
	body, err := buildPolicyPayload(payload)
	if err != nil {
		return err
	}
	policyType := payload.PolicyType()
	res, err := c.call(ctx, bucketAccount, http.MethodPut, "/sell/account/v1/"+string(policyType)+"_policy/"+strings.TrimSpace(remoteID), nil, body)
	if err != nil {
		return err
	}
	if !isSuccess(res.StatusCode) {
		return remoteRejection("update policy", res, map[string]any{
			"policy_type": string(policyType),
			"policy_id":   remoteID,
		})
	}
	return nil
}

func (c *Client) DeletePolicy(ctx context.Context, policyType core.PolicyType, remoteID string) error {
	if err := policyType.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(remoteID) == "" {
		return core.NewBadInputError("ebay: policy id is required")
	}
	res, err := c.call(ctx, bucketAccount, http.MethodDelete, "/sell/account/v1/"+string(policyType)+"_policy/"+strings.TrimSpace(remoteID), nil, nil)
	if err != nil {
		return err
	}
	if res.StatusCode == http.StatusNotFound {
		return core.NewNotFoundError(fmt.Sprintf("ebay: no %s policy %q", policyType, remoteID))
	}
	if !isSuccess(res.StatusCode) {
		return remoteRejection("delete policy", res, map[string]any{
			"policy_type": string(policyType),
			"policy_id":   remoteID,
		})
	}
	return nil
}

func (c *Client) OptInSellingPolicies(ctx context.Context) error {
	res, err := c.call(ctx, bucketAccount, http.MethodPost, "/sell/account/v1/program/opt_in", nil,
		programPayload{ProgramType: "SELLING_POLICY_MANAGEMENT"})
	if err != nil {
		return err
	}
	// 409 reports an existing opt-in, which is the desired end state.
	if res.StatusCode == http.StatusConflict {
		return nil
	}
	if !isSuccess(res.StatusCode) {
		return remoteRejection("opt in selling policies", res, nil)
	}
	return nil
}

func (c *Client) PublishOffer(ctx context.Context, offerID string) (string, error) {
	if strings.TrimSpace(offerID) == "" {
		return "", core.NewBadInputError("ebay: offer id is required")
	}
	res, err := c.call(ctx, bucketInventory, http.MethodPost, "/sell/inventory/v1/offer/"+strings.TrimSpace(offerID)+"/publish", nil, nil)
	if err != nil {
		return "", err
	}
	if !isSuccess(res.StatusCode) {
		return "", remoteRejection("publish offer", res, map[string]any{"offer_id": offerID})
	}
	var parsed struct {
		ListingID string `json:"listingId"`
	}
	decodeBody(res.Body, &parsed)
	return parsed.ListingID, nil
}

// call executes one REST request with bearer auth, rate-limit accounting,
// and a single retry after token invalidation on 401.
func (c *Client) call(
	ctx context.Context,
	bucket string,
	method string,
	path string,
	query map[string]string,
	payload any,
) (core.TransportResponse, error) {
	if c == nil || c.transport == nil {
		return core.TransportResponse{}, core.NewInternalError("ebay: client is not configured")
	}
	if err := c.limiter.BeforeCall(bucket); err != nil {
		return core.TransportResponse{}, err
	}

	var body []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return core.TransportResponse{}, core.NewInternalError(fmt.Sprintf("ebay: encode %s payload: %v", path, err))
		}
		body = encoded
	}

	requestID := uuid.NewString()
	res, err := c.send(ctx, method, path, query, body, requestID)
	if err != nil {
		return core.TransportResponse{}, err
	}
	if res.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate()
		res, err = c.send(ctx, method, path, query, body, requestID)
		if err != nil {
			return core.TransportResponse{}, err
		}
	}

	c.limiter.Observe(bucket, res)
	c.observe(ctx, bucket, method, path, requestID, res.StatusCode)
	return res, nil
}

func (c *Client) send(
	ctx context.Context,
	method string,
	path string,
	query map[string]string,
	body []byte,
	requestID string,
) (core.TransportResponse, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return core.TransportResponse{}, err
	}
	return c.transport.Do(ctx, core.TransportRequest{
		Method: method,
		URL:    c.baseURL + path,
		Query:  query,
		Headers: map[string]string{
			"Authorization":    "Bearer " + token,
			"Content-Type":     "application/json",
			"Content-Language": "en-US",
			"X-Request-ID":     requestID,
		},
		Body:    body,
		Timeout: defaultCallTimeout,
	})
}

func (c *Client) observe(ctx context.Context, bucket string, method string, path string, requestID string, status int) {
	tags := map[string]string{
		"bucket": bucket,
		"method": method,
		"status": fmt.Sprintf("%d", status),
	}
	c.metrics.IncCounter(ctx, "listings.ebay.calls.total", 1, tags)
	if c.logger == nil {
		return
	}
	c.logger.Debug("ebay call completed",
		"bucket", bucket,
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", status,
	)
}

var _ core.MarketplaceClient = (*Client)(nil)
