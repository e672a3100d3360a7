package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	applog "github.com/ypeng90/shopper/internal/log"
)

func newTestTarget(t *testing.T, handler http.Handler) (*Target, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tgt := NewTarget(NewFetcher(time.Second, 0), applog.Nop())
	tgt.redskyBase = srv.URL
	tgt.locationBase = srv.URL
	return tgt, srv
}

func TestSearchProduct(t *testing.T) {
	tgt, _ := newTestTarget(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/web/plp_search_v1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("keyword"); got != "036000291452" {
			t.Errorf("unexpected keyword %q", got)
		}
		w.Write([]byte(`{"data":{"search":{"products":[
			{"tcin":"81911643","item":{"product_description":{"title":"LEGO Star Wars: X-Wing Starfighter!"}}}
		]}}}`))
	}))

	p := tgt.SearchProduct(context.Background(), "036000291452")
	if p == nil {
		t.Fatal("want a product summary")
	}
	if p.SKU != "81911643" {
		t.Fatalf("want sku 81911643, got %q", p.SKU)
	}
	// titles are stored in sanitized form
	if p.Name != "LEGO Star Wars X Wing Starfighter" {
		t.Fatalf("unexpected name %q", p.Name)
	}
}

func TestSearchProductInvalidKeyword(t *testing.T) {
	var calls atomic.Int32
	tgt, _ := newTestTarget(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	for _, kw := range []string{"1234567", "8191164a", ""} {
		if p := tgt.SearchProduct(context.Background(), kw); p != nil {
			t.Errorf("keyword %q: want nil, got %+v", kw, p)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("invalid keyword must not reach the wire, got %d calls", calls.Load())
	}
}

func TestSearchProductNoMatch(t *testing.T) {
	tgt, _ := newTestTarget(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"search":{"products":[]}}}`))
	}))
	if p := tgt.SearchProduct(context.Background(), "81911643"); p != nil {
		t.Fatalf("want nil for empty result, got %+v", p)
	}
}

func TestQuantityBySKUZipcode(t *testing.T) {
	tgt, _ := newTestTarget(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/web_platform/fiats_v1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("tcin") != "81911643" || q.Get("nearby") != "92128" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data":{"fulfillment_fiats":{"locations":[
			{"store":{"store_id":1296},"location_available_to_promise_quantity":7.0},
			{"store":{"store_id":"2438"},"location_available_to_promise_quantity":0}
		]}}}`))
	}))

	readings := tgt.QuantityBySKUZipcode(context.Background(), "81911643", "92128")
	if len(readings) != 2 {
		t.Fatalf("want 2 readings, got %d", len(readings))
	}
	first := readings[0]
	if first.Store != "tgt" || first.StoreID != "1296" || first.SKU != "81911643" || first.Quantity != 7 {
		t.Fatalf("bad reading: %+v", first)
	}
	if readings[1].StoreID != "2438" || readings[1].Quantity != 0 {
		t.Fatalf("bad reading: %+v", readings[1])
	}
}

func TestQuantityDegradesOnFetchError(t *testing.T) {
	tgt, _ := newTestTarget(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	if readings := tgt.QuantityBySKUZipcode(context.Background(), "81911643", "92128"); readings != nil {
		t.Fatalf("want nil on degraded fetch, got %+v", readings)
	}
}

func TestStoresByZipcode(t *testing.T) {
	tgt, _ := newTestTarget(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nearby_locations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"locations":[{
			"location_id":1296,
			"location_names":[{"name":"San Diego Carmel Mtn."}],
			"address":{"address_line1":"11290 Rancho Carmel Dr","city":"San Diego","state":"CA","postal_code":"92128-3430"},
			"geographic_specifications":{"latitude":32.98,"longitude":-117.08}
		}]}`))
	}))

	locations := tgt.StoresByZipcode(context.Background(), "92128")
	if len(locations) != 1 {
		t.Fatalf("want 1 location, got %d", len(locations))
	}
	l := locations[0]
	if l.Store != "tgt" || l.StoreID != "1296" {
		t.Fatalf("bad location: %+v", l)
	}
	if l.Name != "San Diego Carmel Mtn" {
		t.Fatalf("name not sanitized: %q", l.Name)
	}
	if l.Zipcode != "92128" {
		t.Fatalf("ZIP+4 not reduced: %q", l.Zipcode)
	}
	if l.Latitude != 32.98 || l.Longitude != -117.08 {
		t.Fatalf("bad coordinates: %+v", l)
	}
}

func TestStoresByZipcodeInvalidZip(t *testing.T) {
	var calls atomic.Int32
	tgt, _ := newTestTarget(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	if locations := tgt.StoresByZipcode(context.Background(), "9212"); locations != nil {
		t.Fatalf("want nil for bad zip, got %+v", locations)
	}
	if calls.Load() != 0 {
		t.Fatalf("invalid zip must not reach the wire, got %d calls", calls.Load())
	}
}
