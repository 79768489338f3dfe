// Package ebay implements the marketplace client against the eBay Sell
// Inventory, Sell Account, and legacy Trading APIs. All calls go through
// the transport adapter; the package owns payload shapes, response
// decoding, rate-limit accounting, and the single 401 retry.
package ebay
