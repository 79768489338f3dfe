package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/lifecycle"
	"github.com/goliatone/go-listings/pricing"
)

var (
	_ gocmd.Querier[StatusMessage, lifecycle.StatusReport]      = (*StatusQuery)(nil)
	_ gocmd.Querier[ReadPoliciesMessage, []core.RemotePolicy]   = (*ReadPoliciesQuery)(nil)
	_ gocmd.Querier[PriceMessage, pricing.Scorecard]            = (*PriceQuery)(nil)
	_ gocmd.Querier[RenderListingMessage, core.ListingDocument] = (*RenderListingQuery)(nil)
)
