// Package command exposes the mutating listing operations as
// go-command handlers. Results flow to the caller through result
// collectors on the context.
package command

import (
	"context"
	"io"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-listings/catalog"
	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/eps"
	"github.com/goliatone/go-listings/lifecycle"
	"github.com/goliatone/go-listings/policy"
)

type ListingService interface {
	Sell(ctx context.Context, req lifecycle.SellRequest) (lifecycle.SellReport, error)
	Publish(ctx context.Context, productID string) (lifecycle.PublishReport, error)
	End(ctx context.Context, productID string, reason string) (lifecycle.EndReport, error)
	Delete(ctx context.Context, productID string) (lifecycle.DeleteReport, error)
}

type PolicyWriter interface {
	Update(ctx context.Context, payload core.PolicyPayload) (policy.UpdateResult, error)
	EnsureStandardPolicies(ctx context.Context, payloads []core.PolicyPayload) (map[core.PolicyType]string, error)
}

type CatalogImporter interface {
	ImportProducts(ctx context.Context, r io.Reader) (catalog.ImportReport, error)
}

type ImageUploadService interface {
	UploadForSKU(ctx context.Context, productID string, sourceURLs []string) (eps.UploadReport, error)
}

type SellCommand struct {
	service ListingService
}

func NewSellCommand(service ListingService) *SellCommand {
	return &SellCommand{service: service}
}

func (c *SellCommand) Execute(ctx context.Context, msg SellMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: listing service is required")
	}
	out, err := c.service.Sell(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type PublishCommand struct {
	service ListingService
}

func NewPublishCommand(service ListingService) *PublishCommand {
	return &PublishCommand{service: service}
}

func (c *PublishCommand) Execute(ctx context.Context, msg PublishMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: listing service is required")
	}
	out, err := c.service.Publish(ctx, msg.ProductID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type EndCommand struct {
	service ListingService
}

func NewEndCommand(service ListingService) *EndCommand {
	return &EndCommand{service: service}
}

func (c *EndCommand) Execute(ctx context.Context, msg EndMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: listing service is required")
	}
	out, err := c.service.End(ctx, msg.ProductID, msg.Reason)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type DeleteCommand struct {
	service ListingService
}

func NewDeleteCommand(service ListingService) *DeleteCommand {
	return &DeleteCommand{service: service}
}

func (c *DeleteCommand) Execute(ctx context.Context, msg DeleteMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: listing service is required")
	}
	out, err := c.service.Delete(ctx, msg.ProductID)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

// WritePoliciesCommand updates each named policy in place. The update
// path requires the policy to already exist remotely; it never creates.
type WritePoliciesCommand struct {
	service PolicyWriter
}

func NewWritePoliciesCommand(service PolicyWriter) *WritePoliciesCommand {
	return &WritePoliciesCommand{service: service}
}

func (c *WritePoliciesCommand) Execute(ctx context.Context, msg WritePoliciesMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: policy writer is required")
	}
	results := make([]policy.UpdateResult, 0, len(msg.Payloads))
	for _, payload := range msg.Payloads {
		result, err := c.service.Update(ctx, payload)
		if err != nil {
			return err
		}
		results = append(results, result)
	}
	storeResult(ctx, results)
	return nil
}

type EnablePoliciesCommand struct {
	service PolicyWriter
}

func NewEnablePoliciesCommand(service PolicyWriter) *EnablePoliciesCommand {
	return &EnablePoliciesCommand{service: service}
}

func (c *EnablePoliciesCommand) Execute(ctx context.Context, msg EnablePoliciesMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: policy writer is required")
	}
	out, err := c.service.EnsureStandardPolicies(ctx, msg.Payloads)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ImportCatalogCommand struct {
	service CatalogImporter
}

func NewImportCatalogCommand(service CatalogImporter) *ImportCatalogCommand {
	return &ImportCatalogCommand{service: service}
}

func (c *ImportCatalogCommand) Execute(ctx context.Context, msg ImportCatalogMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: catalog importer is required")
	}
	out, err := c.service.ImportProducts(ctx, msg.Source)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UploadImagesCommand struct {
	service ImageUploadService
}

func NewUploadImagesCommand(service ImageUploadService) *UploadImagesCommand {
	return &UploadImagesCommand{service: service}
}

func (c *UploadImagesCommand) Execute(ctx context.Context, msg UploadImagesMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: image upload service is required")
	}
	out, err := c.service.UploadForSKU(ctx, msg.ProductID, msg.SourceURLs)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
