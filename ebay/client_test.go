package ebay

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-listings/core"
)

type fakeTransport struct {
	responses []core.TransportResponse
	errors    []error
	requests  []core.TransportRequest
}

func (t *fakeTransport) Kind() string { return "fake" }

func (t *fakeTransport) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	index := len(t.requests)
	t.requests = append(t.requests, req)
	if index < len(t.errors) && t.errors[index] != nil {
		return core.TransportResponse{}, t.errors[index]
	}
	if index >= len(t.responses) {
		index = len(t.responses) - 1
	}
	return t.responses[index], nil
}

type fakeTokens struct {
	tokens      []string
	issued      int
	invalidated int
}

func (t *fakeTokens) Token(context.Context) (string, error) {
	index := t.issued
	if index >= len(t.tokens) {
		index = len(t.tokens) - 1
	}
	t.issued++
	return t.tokens[index], nil
}

func (t *fakeTokens) Invalidate() { t.invalidated++ }

func jsonResponse(status int, body string) core.TransportResponse {
	return core.TransportResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(body),
	}
}

func newTestClient(t *testing.T, transport *fakeTransport, tokens core.TokenSource) *Client {
	t.Helper()
	if tokens == nil {
		tokens = &fakeTokens{tokens: []string{"tok-1"}}
	}
	client, err := New(Config{
		Sandbox:       true,
		MarketplaceID: "EBAY_US",
		Transport:     transport,
		Tokens:        tokens,
		Limiter:       NewAdaptivePolicy(),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func testDraft() core.OfferDraft {
	return core.OfferDraft{
		SKU:           "DIECAST-007",
		MarketplaceID: "EBAY_US",
		Format:        "FIXED_PRICE",
		Quantity:      1,
		CategoryID:    "180272",
		Price:         core.Money{Value: decimal.RequireFromString("49.99"), Currency: "USD"},
		Policies: core.PolicyIDSet{
			FulfillmentID: "f-1",
			PaymentID:     "p-1",
			ReturnID:      "r-1",
		},
	}
}

func TestGetOffersBySKU(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(200, `{"offers":[{"offerId":"o-1","sku":"DIECAST-007","status":"PUBLISHED","listing":{"listingId":"l-1","listingStatus":"ACTIVE"}}]}`),
	}}
	client := newTestClient(t, transport, nil)

	offers, err := client.GetOffersBySKU(context.Background(), "DIECAST-007")
	if err != nil {
		t.Fatalf("get offers: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected one offer, got %d", len(offers))
	}
	if offers[0].OfferID != "o-1" || offers[0].Listing == nil || offers[0].Listing.ListingID != "l-1" {
		t.Fatalf("unexpected offer %+v", offers[0])
	}

	sent := transport.requests[0]
	if sent.Query["sku"] != "DIECAST-007" {
		t.Fatalf("expected sku query, got %v", sent.Query)
	}
	if got := sent.Headers["Authorization"]; got != "Bearer tok-1" {
		t.Fatalf("unexpected auth header %q", got)
	}
	if !strings.HasSuffix(sent.URL, "/sell/inventory/v1/offer") {
		t.Fatalf("unexpected url %q", sent.URL)
	}
	if !strings.HasPrefix(sent.URL, "https://api.sandbox.ebay.com") {
		t.Fatalf("expected sandbox base, got %q", sent.URL)
	}
}

func TestGetOffersBySKUNotFoundMeansNone(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(404, `{"errors":[{"errorId":25710,"message":"not found"}]}`),
	}}
	client := newTestClient(t, transport, nil)

	offers, err := client.GetOffersBySKU(context.Background(), "DIECAST-404")
	if err != nil {
		t.Fatalf("expected absence without error, got %v", err)
	}
	if len(offers) != 0 {
		t.Fatalf("expected no offers, got %d", len(offers))
	}
}

func TestCreateOfferSendsPayload(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(201, `{"offerId":"o-9"}`),
	}}
	client := newTestClient(t, transport, nil)

	offerID, err := client.CreateOffer(context.Background(), testDraft())
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	if offerID != "o-9" {
		t.Fatalf("unexpected offer id %q", offerID)
	}

	var sent map[string]any
	if err := json.Unmarshal(transport.requests[0].Body, &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	if sent["sku"] != "DIECAST-007" || sent["format"] != "FIXED_PRICE" {
		t.Fatalf("unexpected payload %v", sent)
	}
	pricing := sent["pricingSummary"].(map[string]any)["price"].(map[string]any)
	if pricing["value"] != "49.99" || pricing["currency"] != "USD" {
		t.Fatalf("unexpected price %v", pricing)
	}
}

func TestCreateOfferRemoteRejectionCarriesLongMessage(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(400, `{"errors":[{"errorId":25002,"message":"short","longMessage":"A user error has occurred. Invalid price."}]}`),
	}}
	client := newTestClient(t, transport, nil)

	_, err := client.CreateOffer(context.Background(), testDraft())
	if err == nil {
		t.Fatalf("expected remote rejection")
	}
	if !core.IsRemoteRejection(err) {
		t.Fatalf("expected remote rejection category, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid price") {
		t.Fatalf("expected long message in error, got %q", err.Error())
	}
	if got := core.RemoteStatus(err); got != 400 {
		t.Fatalf("expected status 400, got %d", got)
	}
}

func TestCallRetriesOnceAfterUnauthorized(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(401, `{"errors":[{"errorId":1001,"message":"expired token"}]}`),
		jsonResponse(200, `{"offers":[]}`),
	}}
	tokens := &fakeTokens{tokens: []string{"stale", "fresh"}}
	client := newTestClient(t, transport, tokens)

	if _, err := client.GetOffersBySKU(context.Background(), "DIECAST-007"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if tokens.invalidated != 1 {
		t.Fatalf("expected one invalidation, got %d", tokens.invalidated)
	}
	if len(transport.requests) != 2 {
		t.Fatalf("expected exactly two calls, got %d", len(transport.requests))
	}
	if got := transport.requests[1].Headers["Authorization"]; got != "Bearer fresh" {
		t.Fatalf("expected fresh token on retry, got %q", got)
	}
}

func TestCreateInventoryLocationConflictIsSuccess(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(409, `{"errors":[{"errorId":25801,"message":"location exists"}]}`),
	}}
	client := newTestClient(t, transport, nil)

	if err := client.CreateInventoryLocation(context.Background(), "WAREHOUSE"); err != nil {
		t.Fatalf("expected conflict to succeed, got %v", err)
	}
	if !strings.HasSuffix(transport.requests[0].URL, "/sell/inventory/v1/location/WAREHOUSE") {
		t.Fatalf("unexpected url %q", transport.requests[0].URL)
	}
}

func TestOptInSellingPolicies(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"no content", 204, false},
		{"already opted in", 409, false},
		{"rejected", 400, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			transport := &fakeTransport{responses: []core.TransportResponse{
				jsonResponse(tc.status, ``),
			}}
			client := newTestClient(t, transport, nil)
			err := client.OptInSellingPolicies(context.Background())
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for status %d", tc.status)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected success for status %d, got %v", tc.status, err)
			}
		})
	}
}

func TestGetPoliciesDecodesTypedKeys(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(200, `{"fulfillmentPolicies":[{"fulfillmentPolicyId":"f-1","name":"standard shipping"},{"fulfillmentPolicyId":"f-2","name":"expedited"}]}`),
	}}
	client := newTestClient(t, transport, nil)

	policies, err := client.GetPolicies(context.Background(), core.PolicyTypeFulfillment)
	if err != nil {
		t.Fatalf("get policies: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("expected two policies, got %d", len(policies))
	}
	if policies[0].ID != "f-1" || policies[0].Name != "standard shipping" {
		t.Fatalf("unexpected policy %+v", policies[0])
	}
	if transport.requests[0].Query["marketplace_id"] != "EBAY_US" {
		t.Fatalf("expected marketplace query, got %v", transport.requests[0].Query)
	}
}

func TestCreatePolicyReturnsTypedID(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(201, `{"paymentPolicyId":"p-7"}`),
	}}
	client := newTestClient(t, transport, nil)

	id, err := client.CreatePolicy(context.Background(), core.PaymentPolicy{
		Name:          "standard payment",
		MarketplaceID: "EBAY_US",
		ImmediatePay:  true,
	})
	if err != nil {
		t.Fatalf("create policy: %v", err)
	}
	if id != "p-7" {
		t.Fatalf("unexpected policy id %q", id)
	}
	if !strings.HasSuffix(transport.requests[0].URL, "/sell/account/v1/payment_policy") {
		t.Fatalf("unexpected url %q", transport.requests[0].URL)
	}
}

func TestPublishOfferReturnsListingID(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(200, `{"listingId":"110555"}`),
	}}
	client := newTestClient(t, transport, nil)

	listingID, err := client.PublishOffer(context.Background(), "o-1")
	if err != nil {
		t.Fatalf("publish offer: %v", err)
	}
	if listingID != "110555" {
		t.Fatalf("unexpected listing id %q", listingID)
	}
	if !strings.HasSuffix(transport.requests[0].URL, "/sell/inventory/v1/offer/o-1/publish") {
		t.Fatalf("unexpected url %q", transport.requests[0].URL)
	}
}

func TestPutInventoryItemPayloadShape(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		jsonResponse(204, ``),
	}}
	client := newTestClient(t, transport, nil)

	record := core.InventoryRecord{
		SKU:       "DIECAST-007",
		Title:     "Aston Martin DB5 1:18",
		Condition: "USED_EXCELLENT",
		Aspects:   map[string][]string{"Brand": {"AUTOart"}},
		Dimensions: core.PackageDimensions{
			Length: 14, Width: 7, Height: 6, Unit: "INCH",
		},
		Weight:   core.CombineWeight(2, 3),
		Quantity: 1,
	}
	if err := client.PutInventoryItem(context.Background(), record.SKU, record); err != nil {
		t.Fatalf("put inventory item: %v", err)
	}

	var sent map[string]any
	if err := json.Unmarshal(transport.requests[0].Body, &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	weight := sent["packageWeightAndSize"].(map[string]any)["weight"].(map[string]any)
	if weight["value"] != "35" || weight["unit"] != "OUNCE" {
		t.Fatalf("expected weight in ounces, got %v", weight)
	}
	availability := sent["availability"].(map[string]any)
	ship := availability["shipToLocationAvailability"].(map[string]any)
	if ship["quantity"] != float64(1) {
		t.Fatalf("unexpected quantity %v", ship)
	}
	if _, ok := availability["pickupAtLocationAvailability"]; !ok {
		t.Fatalf("expected empty pickup availability list to be present")
	}
}

func TestBeforeCallThrottlesAfterTooManyRequests(t *testing.T) {
	transport := &fakeTransport{responses: []core.TransportResponse{
		{
			StatusCode: 429,
			Headers:    map[string]string{"Retry-After": "30"},
			Body:       []byte(`{"errors":[{"errorId":25001,"message":"rate limit"}]}`),
		},
	}}
	client := newTestClient(t, transport, nil)

	_, err := client.GetOffersBySKU(context.Background(), "DIECAST-007")
	if err == nil {
		t.Fatalf("expected rejection from 429")
	}

	// The bucket now cools down; the next call is refused locally.
	_, err = client.GetOffersBySKU(context.Background(), "DIECAST-007")
	if err == nil {
		t.Fatalf("expected throttled error")
	}
	if !strings.Contains(err.Error(), "throttled") {
		t.Fatalf("expected throttle message, got %q", err.Error())
	}
	if len(transport.requests) != 1 {
		t.Fatalf("expected second call to be refused before transport, got %d calls", len(transport.requests))
	}
}
