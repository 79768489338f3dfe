// Package render extracts the listing description fragment and title
// from an authored HTML document.
package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-listings/core"
)

// MaxTitleRunes is the marketplace's listing title limit.
const MaxTitleRunes = 80

// Parse reads an HTML document and returns the listing description and
// title. The description is the inner markup of <body> keeping element
// children only; stray text directly under <body> is dropped. The title
// comes from <title>, trimmed and truncated to the marketplace limit.
func Parse(r io.Reader) (core.ListingDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return core.ListingDocument{}, fmt.Errorf("render: parse html: %w", err)
	}

	doc := core.ListingDocument{
		Title:       TruncateTitle(titleText(root)),
		Description: bodyFragment(root),
	}
	return doc, nil
}

// TruncateTitle trims and caps a title at the marketplace rune limit.
func TruncateTitle(title string) string {
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if len(runes) <= MaxTitleRunes {
		return title
	}
	return string(runes[:MaxTitleRunes])
}

func titleText(root *html.Node) string {
	node := findElement(root, "title")
	if node == nil {
		return ""
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}
	return b.String()
}

func bodyFragment(root *html.Node) string {
	body := findElement(root, "body")
	if body == nil {
		return ""
	}
	var b strings.Builder
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if err := html.Render(&b, child); err != nil {
			continue
		}
	}
	return b.String()
}

func findElement(node *html.Node, tag string) *html.Node {
	if node.Type == html.ElementNode && node.Data == tag {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}
