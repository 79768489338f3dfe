package policy

import (
	"context"
	"testing"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/devkit"
)

func newTestResolver(t *testing.T) (*Resolver, *devkit.FakeMarketplaceClient) {
	t.Helper()
	remote := devkit.NewFakeMarketplaceClient()
	resolver, err := NewResolver(remote, nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver, remote
}

func TestResolveMatchesCaseInsensitively(t *testing.T) {
	resolver, remote := newTestResolver(t)
	remote.SeedPolicy(core.PolicyTypeFulfillment, "fulfillment-1", "standard shipping")

	id, err := resolver.Resolve(context.Background(), core.PolicyTypeFulfillment, "Standard Shipping")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "fulfillment-1" {
		t.Fatalf("unexpected policy id %q", id)
	}
}

func TestResolveNotFound(t *testing.T) {
	resolver, _ := newTestResolver(t)

	_, err := resolver.Resolve(context.Background(), core.PolicyTypePayment, "standard payment")
	if err == nil {
		t.Fatalf("expected not-found error")
	}
	if !core.IsNotFound(err) {
		t.Fatalf("expected not-found category, got %v", err)
	}
}

func TestResolveSetFailsOnAnyMissingPolicy(t *testing.T) {
	resolver, remote := newTestResolver(t)
	remote.SeedPolicy(core.PolicyTypeFulfillment, "fulfillment-1", "standard shipping")
	remote.SeedPolicy(core.PolicyTypePayment, "payment-1", "standard payment")

	names := core.PolicyNamesConfig{
		Fulfillment: "standard shipping",
		Payment:     "standard payment",
		Return:      "standard return",
	}
	_, err := resolver.ResolveSet(context.Background(), names)
	if !core.IsNotFound(err) {
		t.Fatalf("expected not-found for missing return policy, got %v", err)
	}

	remote.SeedPolicy(core.PolicyTypeReturn, "return-1", "standard return")
	set, err := resolver.ResolveSet(context.Background(), names)
	if err != nil {
		t.Fatalf("resolve set: %v", err)
	}
	if set.FulfillmentID != "fulfillment-1" || set.PaymentID != "payment-1" || set.ReturnID != "return-1" {
		t.Fatalf("unexpected id set %+v", set)
	}
}

func TestCreateReusesExistingPolicy(t *testing.T) {
	resolver, remote := newTestResolver(t)
	remote.SeedPolicy(core.PolicyTypePayment, "payment-1", "Standard Payment")

	id, err := resolver.Create(context.Background(), core.PaymentPolicy{
		Name:          "standard payment",
		MarketplaceID: "EBAY_US",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "payment-1" {
		t.Fatalf("expected existing policy to be reused, got %q", id)
	}
	for _, call := range remote.Calls() {
		if call == "CreatePolicy" {
			t.Fatalf("expected no create call for existing policy")
		}
	}
}

func TestCreateMissingPolicy(t *testing.T) {
	resolver, _ := newTestResolver(t)

	id, err := resolver.Create(context.Background(), core.ReturnPolicy{
		Name:             "standard return",
		MarketplaceID:    "EBAY_US",
		ReturnsAccepted:  true,
		ReturnPeriodDays: 30,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected minted policy id")
	}
	resolved, err := resolver.Resolve(context.Background(), core.PolicyTypeReturn, "standard return")
	if err != nil || resolved != id {
		t.Fatalf("expected created policy to resolve to %q, got %q (%v)", id, resolved, err)
	}
}

func TestUpdateRequiresExactCaseMatch(t *testing.T) {
	resolver, remote := newTestResolver(t)
	remote.SeedPolicy(core.PolicyTypePayment, "payment-1", "standard payment")

	// Case-mismatched name must not resolve for update, and must not
	// fall back to create.
	_, err := resolver.Update(context.Background(), core.PaymentPolicy{
		Name:          "Standard Payment",
		MarketplaceID: "EBAY_US",
	})
	if !core.IsNotFound(err) {
		t.Fatalf("expected not-found for case mismatch, got %v", err)
	}
	for _, call := range remote.Calls() {
		if call == "CreatePolicy" {
			t.Fatalf("update must never fall back to create")
		}
	}

	result, err := resolver.Update(context.Background(), core.PaymentPolicy{
		Name:          "standard payment",
		MarketplaceID: "EBAY_US",
		ImmediatePay:  true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if result.RemoteID != "payment-1" || result.NoChange {
		t.Fatalf("unexpected update result %+v", result)
	}
}

func TestUpdateNoChangeIsSuccessWithWarning(t *testing.T) {
	resolver, _ := newTestResolver(t)

	payload := core.PaymentPolicy{Name: "standard payment", MarketplaceID: "EBAY_US", ImmediatePay: true}
	if _, err := resolver.Create(context.Background(), payload); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Re-applying identical content trips the remote "no change"
	// rejection, which the resolver reports as success.
	result, err := resolver.Update(context.Background(), payload)
	if err != nil {
		t.Fatalf("expected no-change update to succeed, got %v", err)
	}
	if !result.NoChange {
		t.Fatalf("expected no-change flag, got %+v", result)
	}
}

func TestDeleteMatchesCaseInsensitively(t *testing.T) {
	resolver, remote := newTestResolver(t)
	remote.SeedPolicy(core.PolicyTypeReturn, "return-1", "standard return")

	if err := resolver.Delete(context.Background(), core.PolicyTypeReturn, "STANDARD RETURN"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := resolver.Delete(context.Background(), core.PolicyTypeReturn, "standard return"); !core.IsNotFound(err) {
		t.Fatalf("expected not-found after delete, got %v", err)
	}
}

func TestEnsureStandardPolicies(t *testing.T) {
	resolver, remote := newTestResolver(t)
	cfg := core.DefaultConfig()

	ids, err := resolver.EnsureStandardPolicies(context.Background(), StandardPolicies(cfg))
	if err != nil {
		t.Fatalf("ensure standard policies: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected three policy ids, got %d", len(ids))
	}
	if !remote.OptedIn() {
		t.Fatalf("expected selling policy opt-in")
	}

	// A second run reuses the existing policies.
	again, err := resolver.EnsureStandardPolicies(context.Background(), StandardPolicies(cfg))
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	for policyType, id := range ids {
		if again[policyType] != id {
			t.Fatalf("expected stable id for %s, got %q then %q", policyType, id, again[policyType])
		}
	}
}
