// Package catalog imports product rows and image URL lists from their
// interchange files into the local store. CSV is the row format; image
// source lists are plain text, one URL per line.
package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-listings/core"
)

// ProductWriter receives imported catalog rows.
type ProductWriter interface {
	Upsert(ctx context.Context, product core.Product) error
}

// Importer loads catalog CSV files into the product store. Rows are
// keyed by the id column; re-importing a file replaces existing rows.
type Importer struct {
	store    ProductWriter
	currency string
	logger   core.Logger
}

func NewImporter(store ProductWriter, currency string, logger core.Logger) (*Importer, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog: product writer is required")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	_, logger = glog.Resolve("catalog", nil, logger)
	return &Importer{store: store, currency: currency, logger: logger}, nil
}

// ImportReport summarizes one import run. Row failures are collected,
// not fatal, so one bad row never blocks the rest of the file.
type ImportReport struct {
	Imported int
	Failures []RowFailure
}

type RowFailure struct {
	Line int
	Err  error
}

// ImportProducts reads a header-led CSV and upserts each row. Column
// order is free; unknown columns are ignored.
func (i *Importer) ImportProducts(ctx context.Context, r io.Reader) (ImportReport, error) {
	if i == nil || i.store == nil {
		return ImportReport{}, fmt.Errorf("catalog: importer is not configured")
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportReport{}, core.NewBadInputError(fmt.Sprintf("catalog: read csv header: %v", err))
	}
	columns := map[string]int{}
	for index, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = index
	}
	if _, ok := columns["id"]; !ok {
		return ImportReport{}, core.NewBadInputError("catalog: csv is missing the id column")
	}

	report := ImportReport{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Failures = append(report.Failures, RowFailure{Line: parseErrorLine(err), Err: err})
			continue
		}
		// FieldPos reports the physical file line, which diverges from
		// the record count when a quoted field spans lines.
		line, _ := reader.FieldPos(0)

		product, err := i.productFromRow(columns, row)
		if err != nil {
			report.Failures = append(report.Failures, RowFailure{Line: line, Err: err})
			continue
		}
		if err := i.store.Upsert(ctx, product); err != nil {
			report.Failures = append(report.Failures, RowFailure{Line: line, Err: err})
			continue
		}
		report.Imported++
	}

	i.logger.Info("catalog import finished",
		"imported", report.Imported,
		"failed", len(report.Failures),
	)
	return report, nil
}

// parseErrorLine recovers the file line from a csv parse failure;
// FieldPos is unusable when Read returned no record.
func parseErrorLine(err error) int {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Line
	}
	return 0
}

func (i *Importer) productFromRow(columns map[string]int, row []string) (core.Product, error) {
	cell := func(name string) string {
		index, ok := columns[name]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}

	product := core.Product{
		ID:          cell("id"),
		Description: cell("description"),
		Scale:       cell("scale"),
		Driver:      cell("driver"),
		Model:       cell("model"),
		Year:        cell("year"),
		Edition:     cell("edition"),
		Type:        cell("type"),
		Autographed: strings.EqualFold(cell("autographed"), "true"),
		Special:     cell("special") != "",
		Issue:       cell("issue") != "",
	}
	if product.ID == "" {
		return core.Product{}, core.NewBadInputError("catalog: row is missing an id")
	}

	var err error
	if product.MaxQuantity, err = parseIntCell(cell("max")); err != nil {
		return core.Product{}, err
	}
	if product.WeightLbs, err = parseIntCell(cell("lbs")); err != nil {
		return core.Product{}, err
	}
	if product.WeightOz, err = parseIntCell(cell("oz")); err != nil {
		return core.Product{}, err
	}
	if product.Length, err = parseIntCell(cell("l")); err != nil {
		return core.Product{}, err
	}
	if product.Width, err = parseIntCell(cell("w")); err != nil {
		return core.Product{}, err
	}
	if product.Height, err = parseIntCell(cell("h")); err != nil {
		return core.Product{}, err
	}

	if price := cell("price"); price != "" {
		money, err := core.NewMoney(price, i.currency)
		if err != nil {
			return core.Product{}, core.NewBadInputError(err.Error())
		}
		product.Price = money
	}
	return product, nil
}

// parseIntCell accepts spreadsheet-flavored integers: "2508", "2508.0"
// and blank cells all parse; anything else is a row error.
func parseIntCell(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed != float64(int(parsed)) {
		return 0, core.NewBadInputError(fmt.Sprintf("catalog: %q is not a whole number", value))
	}
	return int(parsed), nil
}

// ReadImageURLList reads an image source list, one URL per line, blank
// lines skipped.
func ReadImageURLList(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read url list: %w", err)
	}
	return urls, nil
}
