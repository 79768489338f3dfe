package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-listings/auth"
	"github.com/goliatone/go-listings/catalog"
	"github.com/goliatone/go-listings/command"
	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/eps"
	"github.com/goliatone/go-listings/policy"
	"github.com/goliatone/go-listings/query"
)

func runImport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	filePath := fs.String("file", "", "path to the catalog CSV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*filePath) == "" {
		return fmt.Errorf("a -file CSV path is required")
	}
	source, err := os.Open(*filePath)
	if err != nil {
		return fmt.Errorf("open catalog file: %w", err)
	}
	defer source.Close()

	return withApplication(ctx, g, func(app *application) error {
		msg := command.ImportCatalogMessage{Source: source}
		if err := msg.Validate(); err != nil {
			return err
		}
		collector := gocmd.NewResult[catalog.ImportReport]()
		if err := command.NewImportCatalogCommand(app.importer).Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
			return reportFailure(stderr, err)
		}
		report, _ := collector.Load()
		fmt.Fprintf(stdout, "imported %d product(s), %d failure(s)\n", report.Imported, len(report.Failures))
		for _, failure := range report.Failures {
			fmt.Fprintf(stderr, "  line %d: %v\n", failure.Line, failure.Err)
		}
		return nil
	})
}

func runUpload(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	product := fs.String("product", "", "product identifier")
	filePath := fs.String("file", "", "path to a file of source image URLs, one per line")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*filePath) == "" {
		return fmt.Errorf("a -file URL list is required")
	}
	source, err := os.Open(*filePath)
	if err != nil {
		return fmt.Errorf("open url list: %w", err)
	}
	urls, err := catalog.ReadImageURLList(source)
	source.Close()
	if err != nil {
		return fmt.Errorf("read url list: %w", err)
	}

	return withApplication(ctx, g, func(app *application) error {
		msg := command.UploadImagesMessage{ProductID: *product, SourceURLs: urls}
		if err := msg.Validate(); err != nil {
			return err
		}
		collector := gocmd.NewResult[eps.UploadReport]()
		if err := command.NewUploadImagesCommand(app.uploads).Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
			return reportFailure(stderr, err)
		}
		report, _ := collector.Load()
		fmt.Fprintf(stdout, "%s: uploaded %d of %d image(s)\n", report.SKU, report.Uploaded(), len(report.Results))
		for _, result := range report.Results {
			if result.Succeeded() {
				fmt.Fprintf(stdout, "  %s -> %s\n", result.SourceURL, result.HostedURL)
			} else {
				fmt.Fprintf(stderr, "  %s failed: %v\n", result.SourceURL, result.Err)
			}
		}
		return nil
	})
}

func runPolicies(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("policies", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	family := fs.String("type", "", "policy family to act on (fulfillment, payment, return); empty means all")
	ensure := fs.Bool("ensure", false, "opt in and create any missing standard policies")
	update := fs.Bool("update", false, "rewrite the standard policies in place")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ensure && *update {
		return fmt.Errorf("-ensure and -update are mutually exclusive")
	}

	return withApplication(ctx, g, func(app *application) error {
		payloads := standardPayloads(app.cfg, core.PolicyType(strings.TrimSpace(*family)))
		switch {
		case *ensure:
			return ensurePolicies(ctx, app, payloads, stdout, stderr)
		case *update:
			return updatePolicies(ctx, app, payloads, stdout, stderr)
		default:
			return listPolicies(ctx, app, core.PolicyType(strings.TrimSpace(*family)), stdout, stderr)
		}
	})
}

func listPolicies(ctx context.Context, app *application, family core.PolicyType, stdout, stderr io.Writer) error {
	msg := query.ReadPoliciesMessage{PolicyType: family}
	if err := msg.Validate(); err != nil {
		return err
	}
	policies, err := query.NewReadPoliciesQuery(app.client).Query(ctx, msg)
	if err != nil {
		return reportFailure(stderr, err)
	}
	if len(policies) == 0 {
		fmt.Fprintln(stdout, "no policies found")
		return nil
	}
	for _, remote := range policies {
		fmt.Fprintf(stdout, "%-12s %-16s %s\n", remote.Type, remote.ID, remote.Name)
	}
	return nil
}

func ensurePolicies(ctx context.Context, app *application, payloads []core.PolicyPayload, stdout, stderr io.Writer) error {
	msg := command.EnablePoliciesMessage{Payloads: payloads}
	if err := msg.Validate(); err != nil {
		return err
	}
	collector := gocmd.NewResult[map[core.PolicyType]string]()
	if err := command.NewEnablePoliciesCommand(app.policies).Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
		return reportFailure(stderr, err)
	}
	identifiers, _ := collector.Load()
	for _, payload := range payloads {
		fmt.Fprintf(stdout, "%-12s %s\n", payload.PolicyType(), identifiers[payload.PolicyType()])
	}
	return nil
}

func updatePolicies(ctx context.Context, app *application, payloads []core.PolicyPayload, stdout, stderr io.Writer) error {
	msg := command.WritePoliciesMessage{Payloads: payloads}
	if err := msg.Validate(); err != nil {
		return err
	}
	collector := gocmd.NewResult[[]policy.UpdateResult]()
	if err := command.NewWritePoliciesCommand(app.policies).Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
		return reportFailure(stderr, err)
	}
	results, _ := collector.Load()
	for i, payload := range payloads {
		if i >= len(results) {
			break
		}
		state := "updated"
		if results[i].NoChange {
			state = "unchanged"
		}
		fmt.Fprintf(stdout, "%-12s %-16s %s\n", payload.PolicyType(), results[i].RemoteID, state)
	}
	return nil
}

// standardPayloads narrows the standard policy set to one family when
// requested.
func standardPayloads(cfg core.Config, family core.PolicyType) []core.PolicyPayload {
	payloads := policy.StandardPolicies(cfg)
	if family == "" {
		return payloads
	}
	filtered := make([]core.PolicyPayload, 0, 1)
	for _, payload := range payloads {
		if payload.PolicyType() == family {
			filtered = append(filtered, payload)
		}
	}
	return filtered
}

func runToken(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	code := fs.String("code", "", "authorization code from the consent redirect")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	creds := credentialsFromConfig(cfg)

	// Without a code, print the consent URL the seller has to visit.
	if strings.TrimSpace(*code) == "" {
		link, err := auth.ConsentURL(creds, cfg.Credentials.RedirectName, cfg.IsSandbox(), nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, link)
		fmt.Fprintln(stdout, "\nvisit the URL, authorize the application, then rerun with -code")
		return nil
	}

	grant, err := auth.ExchangeAuthorizationCode(ctx, nil, creds, cfg.Credentials.RedirectName, cfg.IsSandbox(), *code)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "refresh_token: %s\n", grant.RefreshToken)
	fmt.Fprintf(stdout, "access_token:  %s (expires in %s)\n", grant.AccessToken, grant.ExpiresIn)
	fmt.Fprintln(stdout, "\nstore the refresh token under credentials.refresh_token in the config file")
	return nil
}
