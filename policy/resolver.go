// Package policy maps human-readable business policy names to remote
// policy identifiers. All lookups hit the remote account API; nothing is
// cached, so policy identifiers are always current at the cost of one
// round trip per resolution.
package policy

import (
	"context"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-listings/core"
)

// Resolver resolves, creates, updates, and deletes named business
// policies. Identity is (type, name); the remote system owns identifiers.
type Resolver struct {
	client core.MarketplaceClient
	logger core.Logger
}

func NewResolver(client core.MarketplaceClient, logger core.Logger) (*Resolver, error) {
	if client == nil {
		return nil, fmt.Errorf("policy: marketplace client is required")
	}
	_, logger = glog.Resolve("policy", nil, logger)
	return &Resolver{client: client, logger: logger}, nil
}

// Resolve finds the remote identifier for a policy by case-insensitive
// name match. Returns a not-found error when no policy carries the name.
func (r *Resolver) Resolve(ctx context.Context, policyType core.PolicyType, name string) (string, error) {
	return r.resolve(ctx, policyType, name, false)
}

func (r *Resolver) resolve(ctx context.Context, policyType core.PolicyType, name string, exactCase bool) (string, error) {
	if err := policyType.Validate(); err != nil {
		return "", core.NewBadInputError(err.Error())
	}
	wanted := strings.TrimSpace(name)
	if wanted == "" {
		return "", core.NewBadInputError("policy: name is required")
	}

	policies, err := r.client.GetPolicies(ctx, policyType)
	if err != nil {
		return "", err
	}
	for _, remote := range policies {
		if matchName(remote.Name, wanted, exactCase) {
			return remote.ID, nil
		}
	}
	return "", core.NewNotFoundError(fmt.Sprintf("policy: no %s policy named %q", policyType, wanted))
}

func matchName(remote string, wanted string, exactCase bool) bool {
	remote = strings.TrimSpace(remote)
	if exactCase {
		return remote == wanted
	}
	return strings.EqualFold(remote, wanted)
}

// ResolveSet resolves all three policy names an offer write requires.
// Missing resolution is a hard precondition failure; no partial set is
// returned.
func (r *Resolver) ResolveSet(ctx context.Context, names core.PolicyNamesConfig) (core.PolicyIDSet, error) {
	fulfillmentID, err := r.Resolve(ctx, core.PolicyTypeFulfillment, names.Fulfillment)
	if err != nil {
		return core.PolicyIDSet{}, err
	}
	paymentID, err := r.Resolve(ctx, core.PolicyTypePayment, names.Payment)
	if err != nil {
		return core.PolicyIDSet{}, err
	}
	returnID, err := r.Resolve(ctx, core.PolicyTypeReturn, names.Return)
	if err != nil {
		return core.PolicyIDSet{}, err
	}
	return core.PolicyIDSet{
		FulfillmentID: fulfillmentID,
		PaymentID:     paymentID,
		ReturnID:      returnID,
	}, nil
}

// Create ensures a policy with the payload's name exists and returns its
// identifier. An existing policy matched case-insensitively is reused
// rather than duplicated.
func (r *Resolver) Create(ctx context.Context, payload core.PolicyPayload) (string, error) {
	if payload == nil {
		return "", core.NewBadInputError("policy: payload is required")
	}
	if err := payload.Validate(); err != nil {
		return "", core.NewBadInputError(err.Error())
	}

	existing, err := r.resolve(ctx, payload.PolicyType(), payload.PolicyName(), false)
	if err == nil {
		r.logger.Debug("policy already exists",
			"policy_type", string(payload.PolicyType()),
			"policy_name", payload.PolicyName(),
			"policy_id", existing,
		)
		return existing, nil
	}
	if !core.IsNotFound(err) {
		return "", err
	}

	remoteID, err := r.client.CreatePolicy(ctx, payload)
	if err != nil {
		return "", err
	}
	r.logger.Info("policy created",
		"policy_type", string(payload.PolicyType()),
		"policy_name", payload.PolicyName(),
		"policy_id", remoteID,
	)
	return remoteID, nil
}

// UpdateResult reports an update outcome. NoChange marks the remote
// "would not change anything" rejection, which counts as success.
type UpdateResult struct {
	RemoteID string
	NoChange bool
}

// Update rewrites an existing policy. The name match is exact-case: the
// update path never normalizes and never falls back to create.
func (r *Resolver) Update(ctx context.Context, payload core.PolicyPayload) (UpdateResult, error) {
	if payload == nil {
		return UpdateResult{}, core.NewBadInputError("policy: payload is required")
	}
	if err := payload.Validate(); err != nil {
		return UpdateResult{}, core.NewBadInputError(err.Error())
	}

	remoteID, err := r.resolve(ctx, payload.PolicyType(), payload.PolicyName(), true)
	if err != nil {
		return UpdateResult{}, err
	}

	if err := r.client.UpdatePolicy(ctx, remoteID, payload); err != nil {
		if isNoChangeRejection(err) {
			r.logger.Warn("policy update made no change",
				"policy_type", string(payload.PolicyType()),
				"policy_name", payload.PolicyName(),
				"policy_id", remoteID,
			)
			return UpdateResult{RemoteID: remoteID, NoChange: true}, nil
		}
		return UpdateResult{}, err
	}
	return UpdateResult{RemoteID: remoteID}, nil
}

// isNoChangeRejection detects the remote validation error raised when an
// update payload is identical to the stored policy.
func isNoChangeRejection(err error) bool {
	if !core.IsRemoteRejection(err) {
		return false
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "no change") || strings.Contains(message, "not change")
}

// Delete removes a policy by case-insensitive name match. Returns a
// not-found error when no policy carries the name.
func (r *Resolver) Delete(ctx context.Context, policyType core.PolicyType, name string) error {
	remoteID, err := r.resolve(ctx, policyType, name, false)
	if err != nil {
		return err
	}
	if err := r.client.DeletePolicy(ctx, policyType, remoteID); err != nil {
		return err
	}
	r.logger.Info("policy deleted",
		"policy_type", string(policyType),
		"policy_name", name,
		"policy_id", remoteID,
	)
	return nil
}

// EnsureStandardPolicies opts the account into seller policy management
// and creates any of the given policies that do not exist yet. Returns
// the identifiers keyed by policy type.
func (r *Resolver) EnsureStandardPolicies(ctx context.Context, payloads []core.PolicyPayload) (map[core.PolicyType]string, error) {
	if err := r.client.OptInSellingPolicies(ctx); err != nil {
		return nil, err
	}
	ids := make(map[core.PolicyType]string, len(payloads))
	for _, payload := range payloads {
		remoteID, err := r.Create(ctx, payload)
		if err != nil {
			return nil, err
		}
		ids[payload.PolicyType()] = remoteID
	}
	return ids, nil
}
