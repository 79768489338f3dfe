package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-listings/command"
	"github.com/goliatone/go-listings/core"
	"github.com/goliatone/go-listings/lifecycle"
	"github.com/goliatone/go-listings/query"
)

func runSell(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	product := fs.String("product", "", "product identifier")
	templatePath := fs.String("template", "", "path to the listing HTML template")
	priceOverride := fs.String("price", "", "price override, e.g. 54.99")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	template, err := readTemplate(*templatePath)
	if err != nil {
		return err
	}
	var price core.Money
	if strings.TrimSpace(*priceOverride) != "" {
		price, err = core.NewMoney(*priceOverride, cfg.Currency)
		if err != nil {
			return err
		}
	}

	msg := command.SellMessage{Request: lifecycle.SellRequest{
		ProductID: *product,
		Template:  template,
		Price:     price,
	}}
	if err := msg.Validate(); err != nil {
		return err
	}

	app, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	collector := gocmd.NewResult[lifecycle.SellReport]()
	if err := command.NewSellCommand(app.controller).Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
		return reportFailure(stderr, err)
	}
	report, _ := collector.Load()
	fmt.Fprintf(stdout, "%s: offer %s (%s)\n", report.SKU, report.OfferID, report.OfferAction)
	fmt.Fprintf(stdout, "  title:  %s\n", report.Title)
	fmt.Fprintf(stdout, "  price:  %s (%s)\n", report.Price, report.PriceSource)
	fmt.Fprintf(stdout, "  images: %d\n", report.ImageCount)
	return nil
}

func runPublish(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	product := fs.String("product", "", "product identifier")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withApplication(ctx, g, func(app *application) error {
		msg := command.PublishMessage{ProductID: *product}
		if err := msg.Validate(); err != nil {
			return err
		}
		collector := gocmd.NewResult[lifecycle.PublishReport]()
		if err := command.NewPublishCommand(app.controller).Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
			return reportFailure(stderr, err)
		}
		report, _ := collector.Load()
		switch {
		case report.NoOffer:
			fmt.Fprintf(stdout, "%s: no offer to publish; run sell first\n", report.SKU)
		case report.AlreadyPublished:
			fmt.Fprintf(stdout, "%s: already live as listing %s\n", report.SKU, report.ListingID)
		default:
			fmt.Fprintf(stdout, "%s: published listing %s (offer %s)\n", report.SKU, report.ListingID, report.OfferID)
		}
		return nil
	})
}

func runEnd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("end", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	product := fs.String("product", "", "product identifier")
	reason := fs.String("reason", "", "ending reason (defaults to NotAvailable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withApplication(ctx, g, func(app *application) error {
		msg := command.EndMessage{ProductID: *product, Reason: *reason}
		if err := msg.Validate(); err != nil {
			return err
		}
		collector := gocmd.NewResult[lifecycle.EndReport]()
		if err := command.NewEndCommand(app.controller).Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
			return reportFailure(stderr, err)
		}
		report, _ := collector.Load()
		switch {
		case report.NoOffer:
			fmt.Fprintf(stdout, "%s: no offer exists\n", report.SKU)
		case report.NoListing:
			fmt.Fprintf(stdout, "%s: offer was never published; nothing to end\n", report.SKU)
		case report.AlreadyEnded:
			fmt.Fprintf(stdout, "%s: listing %s was already ended\n", report.SKU, report.ListingID)
		default:
			fmt.Fprintf(stdout, "%s: ended listing %s\n", report.SKU, report.ListingID)
		}
		return nil
	})
}

func runStatus(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	product := fs.String("product", "", "product identifier")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withApplication(ctx, g, func(app *application) error {
		msg := query.StatusMessage{ProductID: *product}
		if err := msg.Validate(); err != nil {
			return err
		}
		report, err := query.NewStatusQuery(app.controller).Query(ctx, msg)
		if err != nil {
			return reportFailure(stderr, err)
		}
		fmt.Fprintf(stdout, "%s: %s\n", report.SKU, report.State)
		if report.OfferID != "" {
			fmt.Fprintf(stdout, "  offer:   %s\n", report.OfferID)
		}
		if report.ListingID != "" {
			fmt.Fprintf(stdout, "  listing: %s (%s)\n", report.ListingID, report.ListingStatus)
		}
		return nil
	})
}

func runDelete(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	product := fs.String("product", "", "product identifier")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withApplication(ctx, g, func(app *application) error {
		msg := command.DeleteMessage{ProductID: *product}
		if err := msg.Validate(); err != nil {
			return err
		}
		collector := gocmd.NewResult[lifecycle.DeleteReport]()
		if err := command.NewDeleteCommand(app.controller).Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
			return reportFailure(stderr, err)
		}
		report, _ := collector.Load()
		if report.GuardRejected {
			fmt.Fprintf(stdout, "%s: offer %s is still live; end the listing first\n", report.SKU, report.BlockingOfferID)
			return nil
		}
		fmt.Fprintf(stdout, "%s: removed %d offer(s)", report.SKU, report.OffersDeleted)
		if report.InventoryMissing {
			fmt.Fprint(stdout, "; no inventory record existed")
		}
		fmt.Fprintln(stdout)
		return nil
	})
}

func runPrice(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("price", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	product := fs.String("product", "", "product identifier")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withApplication(ctx, g, func(app *application) error {
		msg := query.PriceMessage{ProductID: *product}
		if err := msg.Validate(); err != nil {
			return err
		}
		card, err := query.NewPriceQuery(app.controller).Query(ctx, msg)
		if err != nil {
			return reportFailure(stderr, err)
		}
		fmt.Fprintf(stdout, "%s: score %.3f, price %s\n", card.ProductID, card.Score, card.Price)
		fmt.Fprintf(stdout, "  rarity %.2f  build %.2f  autograph %.2f  special %.2f\n",
			card.Rarity, card.Build, card.Autograph, card.Special)
		fmt.Fprintf(stdout, "  authenticity %.2f  relevance %.2f  packaging %.2f\n",
			card.Authenticity, card.Relevance, card.Packaging)
		if card.Reduced {
			fmt.Fprintln(stdout, "  reduced for known issues")
		}
		return nil
	})
}

func runRender(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	g := bindGlobalFlags(fs)
	product := fs.String("product", "", "product identifier")
	templatePath := fs.String("template", "", "path to the listing HTML template")
	if err := fs.Parse(args); err != nil {
		return err
	}

	template, err := readTemplate(*templatePath)
	if err != nil {
		return err
	}
	return withApplication(ctx, g, func(app *application) error {
		msg := query.RenderListingMessage{ProductID: *product, Template: template}
		if err := msg.Validate(); err != nil {
			return err
		}
		doc, err := query.NewRenderListingQuery(app.controller).Query(ctx, msg)
		if err != nil {
			return reportFailure(stderr, err)
		}
		fmt.Fprintf(stdout, "title: %s\n\n", doc.Title)
		fmt.Fprintln(stdout, doc.Description)
		return nil
	})
}

// reportFailure prints an operation failure without failing the
// process: setup problems exit nonzero, remote rejections do not.
func reportFailure(stderr io.Writer, err error) error {
	fmt.Fprintf(stderr, "operation failed: %v\n", err)
	return nil
}

// withApplication loads config, wires the application, and tears it
// down after the subcommand body runs.
func withApplication(ctx context.Context, g *globalFlags, body func(app *application) error) error {
	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	app, err := buildApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return body(app)
}

func readTemplate(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("a -template file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(data), nil
}
