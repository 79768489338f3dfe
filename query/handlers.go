// Package query exposes the read-only listing operations as go-command
// query handlers.
package query

import (
	"context"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/lifecycle"
	"github.com/goliatone/go-listings/pricing"
)

type ListingStatusReader interface {
	Status(ctx context.Context, productID string) (lifecycle.StatusReport, error)
}

type PolicyReader interface {
	GetPolicies(ctx context.Context, policyType core.PolicyType) ([]core.RemotePolicy, error)
}

type PriceReader interface {
	Price(ctx context.Context, productID string) (pricing.Scorecard, error)
}

type ListingRenderer interface {
	Render(ctx context.Context, productID string, template string) (core.ListingDocument, error)
}

type StatusQuery struct {
	reader ListingStatusReader
}

func NewStatusQuery(reader ListingStatusReader) *StatusQuery {
	return &StatusQuery{reader: reader}
}

func (q *StatusQuery) Query(ctx context.Context, msg StatusMessage) (lifecycle.StatusReport, error) {
	if q == nil || q.reader == nil {
		return lifecycle.StatusReport{}, queryDependencyError("query: status reader is required")
	}
	return q.reader.Status(ctx, msg.ProductID)
}

type ReadPoliciesQuery struct {
	reader PolicyReader
}

func NewReadPoliciesQuery(reader PolicyReader) *ReadPoliciesQuery {
	return &ReadPoliciesQuery{reader: reader}
}

// Query lists the remote policies of the requested family, or of all
// three when the message leaves the family empty.
func (q *ReadPoliciesQuery) Query(ctx context.Context, msg ReadPoliciesMessage) ([]core.RemotePolicy, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: policy reader is required")
	}
	if msg.PolicyType != "" {
		return q.reader.GetPolicies(ctx, msg.PolicyType)
	}

	var all []core.RemotePolicy
	for _, policyType := range core.PolicyTypes() {
		policies, err := q.reader.GetPolicies(ctx, policyType)
		if err != nil {
			return nil, err
		}
		all = append(all, policies...)
	}
	return all, nil
}

type PriceQuery struct {
	reader PriceReader
}

func NewPriceQuery(reader PriceReader) *PriceQuery {
	return &PriceQuery{reader: reader}
}

func (q *PriceQuery) Query(ctx context.Context, msg PriceMessage) (pricing.Scorecard, error) {
	if q == nil || q.reader == nil {
		return pricing.Scorecard{}, queryDependencyError("query: price reader is required")
	}
	return q.reader.Price(ctx, msg.ProductID)
}

type RenderListingQuery struct {
	renderer ListingRenderer
}

func NewRenderListingQuery(renderer ListingRenderer) *RenderListingQuery {
	return &RenderListingQuery{renderer: renderer}
}

func (q *RenderListingQuery) Query(ctx context.Context, msg RenderListingMessage) (core.ListingDocument, error) {
	if q == nil || q.renderer == nil {
		return core.ListingDocument{}, queryDependencyError("query: listing renderer is required")
	}
	return q.renderer.Render(ctx, msg.ProductID, msg.Template)
}
