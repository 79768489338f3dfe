package command

import (
	"context"
	"io"
	"strings"
	"testing"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-listings/catalog"
	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/eps"
	"github.com/goliatone/go-listings/lifecycle"
	"github.com/goliatone/go-listings/offer"
	"github.com/goliatone/go-listings/policy"
)

type stubListingService struct {
	sellFn    func(ctx context.Context, req lifecycle.SellRequest) (lifecycle.SellReport, error)
	publishFn func(ctx context.Context, productID string) (lifecycle.PublishReport, error)
	endFn     func(ctx context.Context, productID string, reason string) (lifecycle.EndReport, error)
	deleteFn  func(ctx context.Context, productID string) (lifecycle.DeleteReport, error)
}

func (s stubListingService) Sell(ctx context.Context, req lifecycle.SellRequest) (lifecycle.SellReport, error) {
	return s.sellFn(ctx, req)
}

func (s stubListingService) Publish(ctx context.Context, productID string) (lifecycle.PublishReport, error) {
	return s.publishFn(ctx, productID)
}

func (s stubListingService) End(ctx context.Context, productID string, reason string) (lifecycle.EndReport, error) {
	return s.endFn(ctx, productID, reason)
}

func (s stubListingService) Delete(ctx context.Context, productID string) (lifecycle.DeleteReport, error) {
	return s.deleteFn(ctx, productID)
}

type stubPolicyWriter struct {
	updateFn func(ctx context.Context, payload core.PolicyPayload) (policy.UpdateResult, error)
	ensureFn func(ctx context.Context, payloads []core.PolicyPayload) (map[core.PolicyType]string, error)
}

func (s stubPolicyWriter) Update(ctx context.Context, payload core.PolicyPayload) (policy.UpdateResult, error) {
	return s.updateFn(ctx, payload)
}

func (s stubPolicyWriter) EnsureStandardPolicies(ctx context.Context, payloads []core.PolicyPayload) (map[core.PolicyType]string, error) {
	return s.ensureFn(ctx, payloads)
}

func TestSellCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	expected := lifecycle.SellReport{SKU: "DIECAST-007", OfferAction: offer.ActionCreated, OfferID: "offer-1"}
	called := false

	svc := stubListingService{
		sellFn: func(_ context.Context, req lifecycle.SellRequest) (lifecycle.SellReport, error) {
			called = true
			if req.ProductID != "007" {
				t.Fatalf("expected product 007, got %q", req.ProductID)
			}
			return expected, nil
		},
	}

	cmd := NewSellCommand(svc)
	collector := gocmd.NewResult[lifecycle.SellReport]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := cmd.Execute(ctx, SellMessage{Request: lifecycle.SellRequest{
		ProductID: "007",
		Template:  "<html><body><p>listing</p></body></html>",
	}})
	if err != nil {
		t.Fatalf("execute sell: %v", err)
	}
	if !called {
		t.Fatalf("expected sell service invocation")
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result.SKU != expected.SKU || result.OfferID != expected.OfferID {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestLifecycleCommands_DelegateToService(t *testing.T) {
	t.Run("publish", func(t *testing.T) {
		svc := stubListingService{
			publishFn: func(_ context.Context, productID string) (lifecycle.PublishReport, error) {
				if productID != "007" {
					t.Fatalf("unexpected product id %q", productID)
				}
				return lifecycle.PublishReport{SKU: "DIECAST-007", ListingID: "listing-1"}, nil
			},
		}
		cmd := NewPublishCommand(svc)
		collector := gocmd.NewResult[lifecycle.PublishReport]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := cmd.Execute(ctx, PublishMessage{ProductID: "007"}); err != nil {
			t.Fatalf("execute publish: %v", err)
		}
		stored, ok := collector.Load()
		if !ok || stored.ListingID != "listing-1" {
			t.Fatalf("unexpected publish result: %#v", stored)
		}
	})

	t.Run("end passes the reason through", func(t *testing.T) {
		svc := stubListingService{
			endFn: func(_ context.Context, productID string, reason string) (lifecycle.EndReport, error) {
				if reason != "NotAvailable" {
					t.Fatalf("unexpected reason %q", reason)
				}
				return lifecycle.EndReport{SKU: "DIECAST-007", ListingID: "listing-1"}, nil
			},
		}
		cmd := NewEndCommand(svc)
		if err := cmd.Execute(context.Background(), EndMessage{ProductID: "007", Reason: "NotAvailable"}); err != nil {
			t.Fatalf("execute end: %v", err)
		}
	})

	t.Run("delete stores the guard outcome", func(t *testing.T) {
		svc := stubListingService{
			deleteFn: func(_ context.Context, productID string) (lifecycle.DeleteReport, error) {
				return lifecycle.DeleteReport{SKU: "DIECAST-007", GuardRejected: true, BlockingOfferID: "offer-1"}, nil
			},
		}
		cmd := NewDeleteCommand(svc)
		collector := gocmd.NewResult[lifecycle.DeleteReport]()
		ctx := gocmd.ContextWithResult(context.Background(), collector)
		if err := cmd.Execute(ctx, DeleteMessage{ProductID: "007"}); err != nil {
			t.Fatalf("execute delete: %v", err)
		}
		stored, ok := collector.Load()
		if !ok || !stored.GuardRejected {
			t.Fatalf("expected the guard outcome stored, got %#v", stored)
		}
	})
}

func TestWritePoliciesCommand_UpdatesEachPayload(t *testing.T) {
	var updated []string
	svc := stubPolicyWriter{
		updateFn: func(_ context.Context, payload core.PolicyPayload) (policy.UpdateResult, error) {
			updated = append(updated, payload.PolicyName())
			return policy.UpdateResult{RemoteID: "remote-" + payload.PolicyName()}, nil
		},
	}

	cmd := NewWritePoliciesCommand(svc)
	collector := gocmd.NewResult[[]policy.UpdateResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	msg := WritePoliciesMessage{Payloads: []core.PolicyPayload{
		core.PaymentPolicy{Name: "standard payment"},
		core.ReturnPolicy{Name: "standard return", ReturnsAccepted: true, ReturnPeriodDays: 30},
	}}
	if err := cmd.Execute(ctx, msg); err != nil {
		t.Fatalf("execute write policies: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("expected both payloads updated, got %v", updated)
	}
	results, ok := collector.Load()
	if !ok || len(results) != 2 {
		t.Fatalf("expected both update results stored, got %#v", results)
	}
}

func TestEnablePoliciesCommand_StoresIdentifierMap(t *testing.T) {
	svc := stubPolicyWriter{
		ensureFn: func(_ context.Context, payloads []core.PolicyPayload) (map[core.PolicyType]string, error) {
			if len(payloads) != 1 {
				t.Fatalf("expected one payload, got %d", len(payloads))
			}
			return map[core.PolicyType]string{core.PolicyTypePayment: "payment-1"}, nil
		},
	}

	cmd := NewEnablePoliciesCommand(svc)
	collector := gocmd.NewResult[map[core.PolicyType]string]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	msg := EnablePoliciesMessage{Payloads: []core.PolicyPayload{core.PaymentPolicy{Name: "standard payment"}}}
	if err := cmd.Execute(ctx, msg); err != nil {
		t.Fatalf("execute enable policies: %v", err)
	}
	ids, ok := collector.Load()
	if !ok || ids[core.PolicyTypePayment] != "payment-1" {
		t.Fatalf("expected the identifier map stored, got %#v", ids)
	}
}

type stubCatalogImporter struct {
	report catalog.ImportReport
}

func (s stubCatalogImporter) ImportProducts(_ context.Context, r io.Reader) (catalog.ImportReport, error) {
	if r == nil {
		return catalog.ImportReport{}, io.ErrUnexpectedEOF
	}
	return s.report, nil
}

func TestImportCatalogCommand_StoresReport(t *testing.T) {
	cmd := NewImportCatalogCommand(stubCatalogImporter{report: catalog.ImportReport{Imported: 3}})
	collector := gocmd.NewResult[catalog.ImportReport]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := cmd.Execute(ctx, ImportCatalogMessage{Source: strings.NewReader("id\n007\n")}); err != nil {
		t.Fatalf("execute import: %v", err)
	}
	report, ok := collector.Load()
	if !ok || report.Imported != 3 {
		t.Fatalf("expected the import report stored, got %#v", report)
	}
}

type stubImageUploadService struct {
	report eps.UploadReport
}

func (s stubImageUploadService) UploadForSKU(_ context.Context, productID string, sourceURLs []string) (eps.UploadReport, error) {
	return s.report, nil
}

func TestUploadImagesCommand_StoresReport(t *testing.T) {
	report := eps.UploadReport{SKU: "DIECAST-007", Results: []eps.UploadResult{{SourceURL: "https://x.example.com/a.jpg", HostedURL: "https://eps.example.com/a.jpg"}}}
	cmd := NewUploadImagesCommand(stubImageUploadService{report: report})
	collector := gocmd.NewResult[eps.UploadReport]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	msg := UploadImagesMessage{ProductID: "007", SourceURLs: []string{"https://x.example.com/a.jpg"}}
	if err := cmd.Execute(ctx, msg); err != nil {
		t.Fatalf("execute upload: %v", err)
	}
	stored, ok := collector.Load()
	if !ok || stored.Uploaded() != 1 {
		t.Fatalf("expected the upload report stored, got %#v", stored)
	}
}

func TestCommandMessages_Validate(t *testing.T) {
	cases := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{"sell ok", SellMessage{Request: lifecycle.SellRequest{ProductID: "007", Template: "<p>x</p>"}}, false},
		{"sell missing product", SellMessage{Request: lifecycle.SellRequest{Template: "<p>x</p>"}}, true},
		{"sell missing template", SellMessage{Request: lifecycle.SellRequest{ProductID: "007"}}, true},
		{"publish ok", PublishMessage{ProductID: "007"}, false},
		{"publish blank", PublishMessage{ProductID: "  "}, true},
		{"end ok without reason", EndMessage{ProductID: "007"}, false},
		{"delete blank", DeleteMessage{}, true},
		{"write policies empty", WritePoliciesMessage{}, true},
		{"write policies invalid payload", WritePoliciesMessage{Payloads: []core.PolicyPayload{core.PaymentPolicy{}}}, true},
		{"enable policies ok", EnablePoliciesMessage{Payloads: []core.PolicyPayload{core.PaymentPolicy{Name: "standard payment"}}}, false},
		{"import missing source", ImportCatalogMessage{}, true},
		{"upload missing urls", UploadImagesMessage{ProductID: "007"}, true},
		{"upload ok", UploadImagesMessage{ProductID: "007", SourceURLs: []string{"https://x.example.com/a.jpg"}}, false},
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

func TestCommands_NilServiceIsDependencyError(t *testing.T) {
	if err := (&SellCommand{}).Execute(context.Background(), SellMessage{}); err == nil {
		t.Fatal("expected a dependency error from a nil service")
	}
	if err := (&WritePoliciesCommand{}).Execute(context.Background(), WritePoliciesMessage{}); err == nil {
		t.Fatal("expected a dependency error from a nil policy writer")
	}
}
