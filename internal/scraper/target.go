package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ypeng90/shopper/internal/domain"
	"github.com/ypeng90/shopper/internal/validate"
)

const (
	targetRedskyKey   = "9f36aeafbe60771e321a7cc95a78140772ab3e96"
	targetLocationKey = "8df66ea1e1fc070a6ea99e942431c9cd67a80f02"

	redskyBaseURL   = "https://redsky.target.com/redsky_aggregations/v1"
	locationBaseURL = "https://api.target.com/location_proximities/v1"

	// One result page; a full page from location search is treated as
	// saturated coverage and makes the zip mapping worth caching.
	PageSize = 20
)

// Target scrapes Target's public catalog and fulfillment APIs.
type Target struct {
	http *Fetcher
	log  *zap.SugaredLogger

	redskyBase   string
	locationBase string
}

func NewTarget(f *Fetcher, log *zap.SugaredLogger) *Target {
	return &Target{
		http:         f,
		log:          log,
		redskyBase:   redskyBaseURL,
		locationBase: locationBaseURL,
	}
}

type plpSearchResponse struct {
	Data struct {
		Search struct {
			Products []struct {
				TCIN string `json:"tcin"`
				Item struct {
					ProductDescription struct {
						Title string `json:"title"`
					} `json:"product_description"`
				} `json:"item"`
			} `json:"products"`
		} `json:"search"`
	} `json:"data"`
}

// SearchProduct resolves a UPC/TCIN keyword to {sku, name}. Returns nil on
// invalid input, no match, or a degraded fetch.
func (t *Target) SearchProduct(ctx context.Context, keyword string) *domain.ProductSummary {
	keyword, ok := validate.Keyword(keyword)
	if !ok {
		return nil
	}

	url := fmt.Sprintf(
		"%s/web/plp_search_v1?key=%s&channel=WEB&keyword=%s&page=/s/%s&pricing_store_id=1296",
		t.redskyBase, targetRedskyKey, keyword, keyword,
	)
	var rsp plpSearchResponse
	if err := t.http.GetJSON(ctx, url, &rsp); err != nil {
		t.log.Warnw("target product search failed", "keyword", keyword, "error", err)
		return nil
	}
	if len(rsp.Data.Search.Products) == 0 {
		return nil
	}

	p := rsp.Data.Search.Products[0]
	name, ok := validate.Name(p.Item.ProductDescription.Title)
	if !ok {
		return nil
	}
	return &domain.ProductSummary{SKU: p.TCIN, Name: name}
}

type fiatsResponse struct {
	Data struct {
		FulfillmentFiats struct {
			Locations []struct {
				Store struct {
					StoreID json.Number `json:"store_id"`
				} `json:"store"`
				AvailableQuantity float64 `json:"location_available_to_promise_quantity"`
			} `json:"locations"`
		} `json:"fulfillment_fiats"`
	} `json:"data"`
}

// QuantityBySKUZipcode lists per-location available quantities for a SKU
// within a 50 mile radius, capped at one page.
func (t *Target) QuantityBySKUZipcode(ctx context.Context, sku, zipcode string) []domain.StoreQuantity {
	sku, okSKU := validate.SKU(sku)
	zipcode, okZip := validate.Zipcode(zipcode)
	if !okSKU || !okZip {
		return nil
	}

	url := fmt.Sprintf(
		"%s/web_platform/fiats_v1?key=%s&tcin=%s&nearby=%s&radius=50&limit=%d&include_only_available_stores=true&requested_quantity=0",
		t.redskyBase, targetRedskyKey, sku, zipcode, PageSize,
	)
	var rsp fiatsResponse
	if err := t.http.GetJSON(ctx, url, &rsp); err != nil {
		t.log.Warnw("target quantity lookup failed", "sku", sku, "zipcode", zipcode, "error", err)
		return nil
	}

	var out []domain.StoreQuantity
	for _, loc := range rsp.Data.FulfillmentFiats.Locations {
		out = append(out, domain.StoreQuantity{
			SKU:      sku,
			Quantity: int(loc.AvailableQuantity),
			Store:    "tgt",
			StoreID:  loc.Store.StoreID.String(),
		})
	}
	return out
}

type nearbyLocationsResponse struct {
	Locations []struct {
		LocationID    json.Number `json:"location_id"`
		LocationNames []struct {
			Name string `json:"name"`
		} `json:"location_names"`
		Address struct {
			AddressLine1 string `json:"address_line1"`
			City         string `json:"city"`
			State        string `json:"state"`
			PostalCode   string `json:"postal_code"`
		} `json:"address"`
		Geographic struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"geographic_specifications"`
	} `json:"locations"`
}

// StoresByZipcode lists physical Target locations within a 100 mile radius of
// the zipcode, capped at one page.
func (t *Target) StoresByZipcode(ctx context.Context, zipcode string) []domain.StoreLocation {
	zipcode, ok := validate.Zipcode(zipcode)
	if !ok {
		return nil
	}

	url := fmt.Sprintf(
		"%s/nearby_locations?limit=%d&unit=mile&within=100&place=%s&type=store&key=%s",
		t.locationBase, PageSize, zipcode, targetLocationKey,
	)
	var rsp nearbyLocationsResponse
	if err := t.http.GetJSON(ctx, url, &rsp); err != nil {
		t.log.Warnw("target location search failed", "zipcode", zipcode, "error", err)
		return nil
	}

	var out []domain.StoreLocation
	for _, loc := range rsp.Locations {
		name := ""
		if len(loc.LocationNames) > 0 {
			name = validate.AlnumSpace(loc.LocationNames[0].Name)
		}
		// postal codes may arrive as ZIP+4
		zip := loc.Address.PostalCode
		if i := strings.IndexByte(zip, '-'); i >= 0 {
			zip = zip[:i]
		}
		out = append(out, domain.StoreLocation{
			Store:     "tgt",
			StoreID:   loc.LocationID.String(),
			Name:      name,
			Address:   validate.AlnumSpace(loc.Address.AddressLine1),
			City:      validate.AlnumSpace(loc.Address.City),
			State:     validate.AlnumSpace(loc.Address.State),
			Zipcode:   zip,
			Latitude:  loc.Geographic.Latitude,
			Longitude: loc.Geographic.Longitude,
		})
	}
	return out
}
