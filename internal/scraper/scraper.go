// Package scraper talks to third-party catalog and inventory APIs.
package scraper

import (
	"context"

	"github.com/ypeng90/shopper/internal/domain"
)

// Client is the capability a store-chain scraper exposes. Every method
// degrades to nil on invalid input or on an external failure; failures are
// logged inside the client and never surface to callers.
type Client interface {
	// SearchProduct resolves a UPC/TCIN keyword to a product summary.
	SearchProduct(ctx context.Context, keyword string) *domain.ProductSummary
	// StoresByZipcode lists physical locations near a zipcode, capped at
	// one page.
	StoresByZipcode(ctx context.Context, zipcode string) []domain.StoreLocation
	// QuantityBySKUZipcode lists per-location quantities for a SKU within a
	// radius of the zipcode, capped at one page.
	QuantityBySKUZipcode(ctx context.Context, sku, zipcode string) []domain.StoreQuantity
}
