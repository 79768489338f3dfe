package ebay

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-listings/core"
)

const (
	sandboxTradingURL    = "https://api.sandbox.ebay.com/ws/api.dll"
	productionTradingURL = "https://api.ebay.com/ws/api.dll"
)

const (
	defaultTradingSiteID        = "0"
	defaultCompatibilityLevel   = "1193"
	tradingErrorAlreadyEnded    = "1047"
	defaultEndingReason         = "NotAvailable"
	tradingNamespace            = "urn:ebay:apis:eBLBaseComponents"
	callEndFixedPriceItem       = "EndFixedPriceItem"
	callGetItem                 = "GetItem"
	callUploadSiteHostedPicture = "UploadSiteHostedPictures"
)

// TradingConfig carries the legacy Trading API headers. Zero values fall
// back to site 0 (US) and a recent compatibility level.
type TradingConfig struct {
	SiteID             string
	CompatibilityLevel string
}

type endFixedPriceItemRequest struct {
	XMLName      xml.Name `xml:"EndFixedPriceItemRequest"`
	Namespace    string   `xml:"xmlns,attr"`
	ItemID       string   `xml:"ItemID"`
	EndingReason string   `xml:"EndingReason"`
}

type getItemRequest struct {
	XMLName   xml.Name `xml:"GetItemRequest"`
	Namespace string   `xml:"xmlns,attr"`
	ItemID    string   `xml:"ItemID"`
}

type uploadPicturesRequest struct {
	XMLName            xml.Name `xml:"UploadSiteHostedPicturesRequest"`
	Namespace          string   `xml:"xmlns,attr"`
	ExternalPictureURL string   `xml:"ExternalPictureURL"`
	PictureSet         string   `xml:"PictureSet"`
}

type tradingError struct {
	ErrorCode    string `xml:"ErrorCode"`
	ShortMessage string `xml:"ShortMessage"`
	LongMessage  string `xml:"LongMessage"`
	Severity     string `xml:"SeverityCode"`
}

type tradingResponse struct {
	Ack    string         `xml:"Ack"`
	Errors []tradingError `xml:"Errors"`

	// GetItem
	Item struct {
		SellingStatus struct {
			ListingStatus string `xml:"ListingStatus"`
		} `xml:"SellingStatus"`
	} `xml:"Item"`

	// UploadSiteHostedPictures
	SiteHostedPictureDetails struct {
		FullURL string `xml:"FullURL"`
	} `xml:"SiteHostedPictureDetails"`
}

func (r tradingResponse) succeeded() bool {
	ack := strings.TrimSpace(r.Ack)
	return strings.EqualFold(ack, "Success") || strings.EqualFold(ack, "Warning")
}

func (r tradingResponse) hasErrorCode(code string) bool {
	for _, item := range r.Errors {
		if strings.TrimSpace(item.ErrorCode) == code {
			return true
		}
	}
	return false
}

func (r tradingResponse) message() string {
	for _, item := range r.Errors {
		if msg := strings.TrimSpace(item.LongMessage); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(item.ShortMessage); msg != "" {
			return msg
		}
	}
	return ""
}

func (c *Client) EndListing(ctx context.Context, listingID string, reason string) (core.EndListingResult, error) {
	if strings.TrimSpace(listingID) == "" {
		return core.EndListingResult{}, core.NewBadInputError("ebay: listing id is required")
	}
	if strings.TrimSpace(reason) == "" {
		reason = defaultEndingReason
	}
	parsed, res, err := c.tradingCall(ctx, callEndFixedPriceItem, endFixedPriceItemRequest{
		Namespace:    tradingNamespace,
		ItemID:       strings.TrimSpace(listingID),
		EndingReason: reason,
	})
	if err != nil {
		return core.EndListingResult{}, err
	}
	if parsed.succeeded() {
		return core.EndListingResult{}, nil
	}
	// Error 1047 reports the auction was already closed; the listing is in
	// the state the caller wanted.
	if parsed.hasErrorCode(tradingErrorAlreadyEnded) {
		return core.EndListingResult{AlreadyEnded: true}, nil
	}
	return core.EndListingResult{}, tradingRejection("end listing", parsed, res, map[string]any{"listing_id": listingID})
}

func (c *Client) GetListingStatus(ctx context.Context, listingID string) (string, error) {
	if strings.TrimSpace(listingID) == "" {
		return "", core.NewBadInputError("ebay: listing id is required")
	}
	parsed, res, err := c.tradingCall(ctx, callGetItem, getItemRequest{
		Namespace: tradingNamespace,
		ItemID:    strings.TrimSpace(listingID),
	})
	if err != nil {
		return "", err
	}
	if !parsed.succeeded() {
		return "", tradingRejection("get listing status", parsed, res, map[string]any{"listing_id": listingID})
	}
	return strings.TrimSpace(parsed.Item.SellingStatus.ListingStatus), nil
}

// UploadImage asks the picture service to fetch an externally hosted image
// and returns the marketplace-hosted URL.
func (c *Client) UploadImage(ctx context.Context, externalURL string) (string, error) {
	if strings.TrimSpace(externalURL) == "" {
		return "", core.NewBadInputError("ebay: external image url is required")
	}
	parsed, res, err := c.tradingCall(ctx, callUploadSiteHostedPicture, uploadPicturesRequest{
		Namespace:          tradingNamespace,
		ExternalPictureURL: strings.TrimSpace(externalURL),
		PictureSet:         "Supersize",
	})
	if err != nil {
		return "", err
	}
	if !parsed.succeeded() {
		return "", tradingRejection("upload image", parsed, res, map[string]any{"source_url": externalURL})
	}
	hosted := strings.TrimSpace(parsed.SiteHostedPictureDetails.FullURL)
	if hosted == "" {
		return "", core.NewRemoteRejectionError("ebay: upload image returned no hosted url", res.StatusCode, map[string]any{"source_url": externalURL})
	}
	return hosted, nil
}

func (c *Client) tradingCall(ctx context.Context, callName string, payload any) (tradingResponse, core.TransportResponse, error) {
	if c == nil || c.transport == nil {
		return tradingResponse{}, core.TransportResponse{}, core.NewInternalError("ebay: client is not configured")
	}
	if err := c.limiter.BeforeCall(bucketTrading); err != nil {
		return tradingResponse{}, core.TransportResponse{}, err
	}

	body, err := xml.Marshal(payload)
	if err != nil {
		return tradingResponse{}, core.TransportResponse{}, core.NewInternalError(fmt.Sprintf("ebay: encode %s request: %v", callName, err))
	}
	body = append([]byte(xml.Header), body...)

	res, err := c.sendTrading(ctx, callName, body)
	if err != nil {
		return tradingResponse{}, core.TransportResponse{}, err
	}
	if res.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate()
		res, err = c.sendTrading(ctx, callName, body)
		if err != nil {
			return tradingResponse{}, core.TransportResponse{}, err
		}
	}
	c.limiter.Observe(bucketTrading, res)
	c.observe(ctx, bucketTrading, http.MethodPost, callName, "", res.StatusCode)

	if !isSuccess(res.StatusCode) {
		return tradingResponse{}, res, core.NewRemoteRejectionError(
			fmt.Sprintf("ebay: %s returned status %d", callName, res.StatusCode),
			res.StatusCode,
			map[string]any{"call": callName},
		)
	}

	var parsed tradingResponse
	if err := xml.Unmarshal(res.Body, &parsed); err != nil {
		return tradingResponse{}, res, core.NewInternalError(fmt.Sprintf("ebay: decode %s response: %v", callName, err))
	}
	return parsed, res, nil
}

func (c *Client) sendTrading(ctx context.Context, callName string, body []byte) (core.TransportResponse, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return core.TransportResponse{}, err
	}
	siteID := strings.TrimSpace(c.trading.SiteID)
	if siteID == "" {
		siteID = defaultTradingSiteID
	}
	compat := strings.TrimSpace(c.trading.CompatibilityLevel)
	if compat == "" {
		compat = defaultCompatibilityLevel
	}
	return c.transport.Do(ctx, core.TransportRequest{
		Method: http.MethodPost,
		URL:    c.tradingURL,
		Headers: map[string]string{
			"Content-Type":                    "text/xml",
			"X-EBAY-API-CALL-NAME":            callName,
			"X-EBAY-API-SITEID":               siteID,
			"X-EBAY-API-COMPATIBILITY-LEVEL":  compat,
			"X-EBAY-API-IAF-TOKEN":            token,
			"X-EBAY-API-RESPONSE-ENCODING":    "XML",
			"X-EBAY-API-DETAIL-LEVEL":         "0",
			"X-EBAY-API-REQUEST-CONTENT-TYPE": "XML",
		},
		Body:    body,
		Timeout: defaultCallTimeout,
	})
}

func tradingRejection(operation string, parsed tradingResponse, res core.TransportResponse, metadata map[string]any) error {
	message := parsed.message()
	if message == "" {
		message = "ack " + strconv.Quote(parsed.Ack)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["operation"] = operation
	metadata["ack"] = parsed.Ack
	if len(parsed.Errors) > 0 {
		metadata["error_code"] = parsed.Errors[0].ErrorCode
	}
	return core.NewRemoteRejectionError(
		fmt.Sprintf("ebay: %s rejected: %s", operation, message),
		res.StatusCode,
		metadata,
	)
}

var _ core.ImageUploader = (*Client)(nil)
