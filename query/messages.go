package query

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-listings/core"
)

const (
	TypeStatus        = "listings.query.status"
	TypeReadPolicies  = "listings.query.policies.read"
	TypePrice         = "listings.query.price"
	TypeRenderListing = "listings.query.render"
)

type StatusMessage struct {
	ProductID string
}

func (StatusMessage) Type() string { return TypeStatus }

func (m StatusMessage) Validate() error {
	if strings.TrimSpace(m.ProductID) == "" {
		return fmt.Errorf("query: product id is required")
	}
	return nil
}

// ReadPoliciesMessage lists the remote policies of one type. An empty
// PolicyType reads all three families.
type ReadPoliciesMessage struct {
	PolicyType core.PolicyType
}

func (ReadPoliciesMessage) Type() string { return TypeReadPolicies }

func (m ReadPoliciesMessage) Validate() error {
	if m.PolicyType == "" {
		return nil
	}
	if err := m.PolicyType.Validate(); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

type PriceMessage struct {
	ProductID string
}

func (PriceMessage) Type() string { return TypePrice }

func (m PriceMessage) Validate() error {
	if strings.TrimSpace(m.ProductID) == "" {
		return fmt.Errorf("query: product id is required")
	}
	return nil
}

type RenderListingMessage struct {
	ProductID string
	Template  string
}

func (RenderListingMessage) Type() string { return TypeRenderListing }

func (m RenderListingMessage) Validate() error {
	if strings.TrimSpace(m.ProductID) == "" {
		return fmt.Errorf("query: product id is required")
	}
	if strings.TrimSpace(m.Template) == "" {
		return fmt.Errorf("query: listing template is required")
	}
	return nil
}
