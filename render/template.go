package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-listings/core"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// Substitute replaces {{ column }} tokens with the matching value.
// Whitespace inside the braces is tolerated. Tokens without a matching
// column render as empty strings so a sparse row never leaks raw
// placeholders into the listing body.
func Substitute(template string, values map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		match := tokenPattern.FindStringSubmatch(token)
		if len(match) != 2 {
			return ""
		}
		return values[match[1]]
	})
}

// RenderDescription fills an authored HTML template from a catalog row.
func RenderDescription(template string, product core.Product) string {
	return Substitute(template, TemplateValues(product))
}

// TemplateValues maps a catalog row onto its template columns. Integers
// render without a decimal part and empty optional fields render as "".
func TemplateValues(product core.Product) map[string]string {
	values := map[string]string{
		"id":          strings.TrimSpace(product.ID),
		"description": product.Description,
		"scale":       product.Scale,
		"driver":      product.Driver,
		"model":       product.Model,
		"year":        product.Year,
		"edition":     product.Edition,
		"type":        product.Type,
		"autographed": strconv.FormatBool(product.Autographed),
		"max":         strconv.Itoa(product.MaxQuantity),
		"special":     flagValue(product.Special),
		"issue":       flagValue(product.Issue),
		"lbs":         strconv.Itoa(product.WeightLbs),
		"oz":          strconv.Itoa(product.WeightOz),
		"l":           strconv.Itoa(product.Length),
		"w":           strconv.Itoa(product.Width),
		"h":           strconv.Itoa(product.Height),
	}
	if !product.Price.IsZero() {
		values["price"] = product.Price.Value.StringFixed(2)
	} else {
		values["price"] = ""
	}
	return values
}

func flagValue(flag bool) string {
	if flag {
		return "true"
	}
	return ""
}
