package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/lifecycle"
	"github.com/goliatone/go-listings/pricing"
)

type stubStatusReader struct {
	report lifecycle.StatusReport
	err    error
}

func (s stubStatusReader) Status(_ context.Context, productID string) (lifecycle.StatusReport, error) {
	if s.err != nil {
		return lifecycle.StatusReport{}, s.err
	}
	return s.report, nil
}

type stubPolicyReader struct {
	policies map[core.PolicyType][]core.RemotePolicy
	calls    []core.PolicyType
}

func (s *stubPolicyReader) GetPolicies(_ context.Context, policyType core.PolicyType) ([]core.RemotePolicy, error) {
	s.calls = append(s.calls, policyType)
	return s.policies[policyType], nil
}

func TestStatusQuery_DelegatesToReader(t *testing.T) {
	want := lifecycle.StatusReport{
		SKU:       "DIECAST-007",
		State:     core.ListingStatePublished,
		OfferID:   "offer-1",
		ListingID: "listing-1",
	}
	q := NewStatusQuery(stubStatusReader{report: want})

	got, err := q.Query(context.Background(), StatusMessage{ProductID: "007"})
	if err != nil {
		t.Fatalf("status query: %v", err)
	}
	if got.State != want.State || got.ListingID != want.ListingID {
		t.Fatalf("unexpected status report: %#v", got)
	}
}

func TestReadPoliciesQuery_SingleFamily(t *testing.T) {
	reader := &stubPolicyReader{policies: map[core.PolicyType][]core.RemotePolicy{
		core.PolicyTypePayment: {{Type: core.PolicyTypePayment, ID: "payment-1", Name: "standard payment"}},
	}}
	q := NewReadPoliciesQuery(reader)

	got, err := q.Query(context.Background(), ReadPoliciesMessage{PolicyType: core.PolicyTypePayment})
	if err != nil {
		t.Fatalf("read policies: %v", err)
	}
	if len(got) != 1 || got[0].ID != "payment-1" {
		t.Fatalf("unexpected policies: %#v", got)
	}
	if len(reader.calls) != 1 {
		t.Fatalf("expected one remote read, got %v", reader.calls)
	}
}

func TestReadPoliciesQuery_EmptyTypeReadsAllFamilies(t *testing.T) {
	reader := &stubPolicyReader{policies: map[core.PolicyType][]core.RemotePolicy{
		core.PolicyTypeFulfillment: {{Type: core.PolicyTypeFulfillment, ID: "fulfillment-1", Name: "standard shipping"}},
		core.PolicyTypePayment:     {{Type: core.PolicyTypePayment, ID: "payment-1", Name: "standard payment"}},
		core.PolicyTypeReturn:      {{Type: core.PolicyTypeReturn, ID: "return-1", Name: "standard return"}},
	}}
	q := NewReadPoliciesQuery(reader)

	got, err := q.Query(context.Background(), ReadPoliciesMessage{})
	if err != nil {
		t.Fatalf("read all policies: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected all three families, got %#v", got)
	}
	if len(reader.calls) != 3 {
		t.Fatalf("expected a read per family, got %v", reader.calls)
	}
}

type stubPriceReader struct {
	card pricing.Scorecard
}

func (s stubPriceReader) Price(_ context.Context, productID string) (pricing.Scorecard, error) {
	return s.card, nil
}

func TestPriceQuery_DelegatesToReader(t *testing.T) {
	price, err := core.NewMoney("49.99", "USD")
	if err != nil {
		t.Fatalf("new money: %v", err)
	}
	q := NewPriceQuery(stubPriceReader{card: pricing.Scorecard{ProductID: "007", Score: 0.62, Price: price}})

	got, err := q.Query(context.Background(), PriceMessage{ProductID: "007"})
	if err != nil {
		t.Fatalf("price query: %v", err)
	}
	if got.Price.Value.StringFixed(2) != "49.99" {
		t.Fatalf("unexpected scorecard: %#v", got)
	}
}

type stubRenderer struct {
	doc core.ListingDocument
}

func (s stubRenderer) Render(_ context.Context, productID string, template string) (core.ListingDocument, error) {
	return s.doc, nil
}

func TestRenderListingQuery_DelegatesToRenderer(t *testing.T) {
	q := NewRenderListingQuery(stubRenderer{doc: core.ListingDocument{Title: "t", Description: "<p>d</p>"}})

	got, err := q.Query(context.Background(), RenderListingMessage{ProductID: "007", Template: "<p>{{ description }}</p>"})
	if err != nil {
		t.Fatalf("render query: %v", err)
	}
	if got.Description != "<p>d</p>" {
		t.Fatalf("unexpected document: %#v", got)
	}
}

func TestQueryMessages_Validate(t *testing.T) {
	cases := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{"status ok", StatusMessage{ProductID: "007"}, false},
		{"status blank", StatusMessage{}, true},
		{"policies empty type ok", ReadPoliciesMessage{}, false},
		{"policies known type ok", ReadPoliciesMessage{PolicyType: core.PolicyTypeReturn}, false},
		{"policies unknown type", ReadPoliciesMessage{PolicyType: "warranty"}, true},
		{"price blank", PriceMessage{}, true},
		{"render missing template", RenderListingMessage{ProductID: "007"}, true},
		{"render ok", RenderListingMessage{ProductID: "007", Template: "<p>{{ description }}</p>"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected a validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
