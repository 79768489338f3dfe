package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/lifecycle"
)

const (
	TypeSell           = "listings.command.sell"
	TypePublish        = "listings.command.publish"
	TypeEnd            = "listings.command.end"
	TypeDelete         = "listings.command.delete"
	TypeWritePolicies  = "listings.command.policies.write"
	TypeEnablePolicies = "listings.command.policies.enable"
	TypeImportCatalog  = "listings.command.catalog.import"
	TypeUploadImages   = "listings.command.images.upload"
)

type SellMessage struct {
	Request lifecycle.SellRequest
}

func (SellMessage) Type() string { return TypeSell }

func (m SellMessage) Validate() error {
	if strings.TrimSpace(m.Request.ProductID) == "" {
		return fmt.Errorf("command: product id is required")
	}
	if strings.TrimSpace(m.Request.Template) == "" {
		return fmt.Errorf("command: listing template is required")
	}
	return nil
}

type PublishMessage struct {
	ProductID string
}

func (PublishMessage) Type() string { return TypePublish }

func (m PublishMessage) Validate() error {
	return validateProductID(m.ProductID)
}

type EndMessage struct {
	ProductID string
	Reason    string
}

func (EndMessage) Type() string { return TypeEnd }

func (m EndMessage) Validate() error {
	return validateProductID(m.ProductID)
}

type DeleteMessage struct {
	ProductID string
}

func (DeleteMessage) Type() string { return TypeDelete }

func (m DeleteMessage) Validate() error {
	return validateProductID(m.ProductID)
}

// WritePoliciesMessage updates existing named policies in place.
type WritePoliciesMessage struct {
	Payloads []core.PolicyPayload
}

func (WritePoliciesMessage) Type() string { return TypeWritePolicies }

func (m WritePoliciesMessage) Validate() error {
	return validatePayloads(m.Payloads)
}

// EnablePoliciesMessage opts the seller into policy management and
// creates any of the named policies that do not exist yet.
type EnablePoliciesMessage struct {
	Payloads []core.PolicyPayload
}

func (EnablePoliciesMessage) Type() string { return TypeEnablePolicies }

func (m EnablePoliciesMessage) Validate() error {
	return validatePayloads(m.Payloads)
}

// ImportCatalogMessage carries an already opened CSV stream; file
// handling stays at the CLI boundary.
type ImportCatalogMessage struct {
	Source io.Reader
}

func (ImportCatalogMessage) Type() string { return TypeImportCatalog }

func (m ImportCatalogMessage) Validate() error {
	if m.Source == nil {
		return fmt.Errorf("command: catalog source is required")
	}
	return nil
}

type UploadImagesMessage struct {
	ProductID  string
	SourceURLs []string
}

func (UploadImagesMessage) Type() string { return TypeUploadImages }

func (m UploadImagesMessage) Validate() error {
	if err := validateProductID(m.ProductID); err != nil {
		return err
	}
	if len(m.SourceURLs) == 0 {
		return fmt.Errorf("command: at least one source url is required")
	}
	return nil
}

func validateProductID(productID string) error {
	if strings.TrimSpace(productID) == "" {
		return fmt.Errorf("command: product id is required")
	}
	return nil
}

func validatePayloads(payloads []core.PolicyPayload) error {
	if len(payloads) == 0 {
		return fmt.Errorf("command: at least one policy payload is required")
	}
	for _, payload := range payloads {
		if payload == nil {
			return fmt.Errorf("command: policy payload must not be nil")
		}
		if err := payload.Validate(); err != nil {
			return fmt.Errorf("command: %w", err)
		}
	}
	return nil
}
