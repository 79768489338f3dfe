package core

import (
	"fmt"
	"strings"
)

// PolicyType tags the three business policy families offers depend on.
type PolicyType string

const (
	PolicyTypeFulfillment PolicyType = "fulfillment"
	PolicyTypePayment     PolicyType = "payment"
	PolicyTypeReturn      PolicyType = "return"
)

func (t PolicyType) Validate() error {
	switch t {
	case PolicyTypeFulfillment, PolicyTypePayment, PolicyTypeReturn:
		return nil
	default:
		return fmt.Errorf("core: unknown policy type %q", string(t))
	}
}

func PolicyTypes() []PolicyType {
	return []PolicyType{PolicyTypeFulfillment, PolicyTypePayment, PolicyTypeReturn}
}

// RemotePolicy is a policy as listed by the marketplace account API.
type RemotePolicy struct {
	Type PolicyType
	ID   string
	Name string
}

// PolicyPayload is the tagged union of the three concrete policy rule sets.
// Identity is (type, name); the remote system assigns the identifier.
type PolicyPayload interface {
	PolicyType() PolicyType
	PolicyName() string
	Validate() error
}

// ShippingService describes one carrier service inside a fulfillment policy.
type ShippingService struct {
	CarrierCode  string
	ServiceCode  string
	FreeShipping bool
}

// FulfillmentPolicy carries handling time and shipping options.
type FulfillmentPolicy struct {
	Name             string
	Description      string
	MarketplaceID    string
	HandlingDays     int
	CostType         string
	OptionType       string
	ShippingServices []ShippingService
}

func (p FulfillmentPolicy) PolicyType() PolicyType { return PolicyTypeFulfillment }
func (p FulfillmentPolicy) PolicyName() string     { return p.Name }

func (p FulfillmentPolicy) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("core: fulfillment policy name is required")
	}
	if p.HandlingDays < 0 {
		return fmt.Errorf("core: fulfillment handling days must not be negative")
	}
	if len(p.ShippingServices) == 0 {
		return fmt.Errorf("core: fulfillment policy requires at least one shipping service")
	}
	return nil
}

// PaymentPolicy carries payment terms.
type PaymentPolicy struct {
	Name          string
	Description   string
	MarketplaceID string
	ImmediatePay  bool
}

func (p PaymentPolicy) PolicyType() PolicyType { return PolicyTypePayment }
func (p PaymentPolicy) PolicyName() string     { return p.Name }

func (p PaymentPolicy) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("core: payment policy name is required")
	}
	return nil
}

// ReturnPolicy carries return terms.
type ReturnPolicy struct {
	Name                 string
	Description          string
	MarketplaceID        string
	ReturnsAccepted      bool
	ReturnPeriodDays     int
	RefundMethod         string
	ShippingCostPayer    string
	InternationalReturns bool
}

func (p ReturnPolicy) PolicyType() PolicyType { return PolicyTypeReturn }
func (p ReturnPolicy) PolicyName() string     { return p.Name }

func (p ReturnPolicy) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("core: return policy name is required")
	}
	if p.ReturnsAccepted && p.ReturnPeriodDays <= 0 {
		return fmt.Errorf("core: return period must be positive when returns are accepted")
	}
	return nil
}

var _ PolicyPayload = FulfillmentPolicy{}
var _ PolicyPayload = PaymentPolicy{}
var _ PolicyPayload = ReturnPolicy{}
