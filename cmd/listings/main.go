// Command listings manages eBay listings for a diecast collectible
// catalog: importing products, uploading images, and driving each
// listing through sell, publish, end, and delete.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

type runner func(ctx context.Context, args []string, stdout, stderr io.Writer) error

var subcommands = map[string]runner{
	"sell":     runSell,
	"publish":  runPublish,
	"end":      runEnd,
	"status":   runStatus,
	"delete":   runDelete,
	"price":    runPrice,
	"render":   runRender,
	"import":   runImport,
	"upload":   runUpload,
	"policies": runPolicies,
	"token":    runToken,
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "listings: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return fmt.Errorf("a subcommand is required")
	}
	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		usage(stdout)
		return nil
	}
	cmd, ok := subcommands[name]
	if !ok {
		usage(stderr)
		return fmt.Errorf("unknown subcommand %q", name)
	}
	return cmd(ctx, args[1:], stdout, stderr)
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: listings <subcommand> [flags]

Catalog:
  import    load products from a CSV file into the local catalog
  upload    push a product's source images to picture hosting

Listing lifecycle:
  sell      build the inventory record and offer for a product
  publish   take a product's offer live
  end       end a product's live listing
  status    report a product's listing state
  delete    remove a product's offers and inventory record

Account:
  policies  list, update, or provision the seller policies
  price     score a product and suggest a price
  render    render a product's listing document
  token     mint or exchange OAuth consent tokens

Run "listings <subcommand> -h" for the flags of each subcommand.
`)
}
