package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ypeng90/shopper/internal/config"
	"github.com/ypeng90/shopper/internal/domain"
	"github.com/ypeng90/shopper/internal/repos"
	"github.com/ypeng90/shopper/internal/scraper"
	"github.com/ypeng90/shopper/internal/tasks"
	"github.com/ypeng90/shopper/internal/validate"
)

// ErrInvalidZipcode rejects a malformed zipcode before any datastore or
// external call is made.
var ErrInvalidZipcode = errors.New("invalid zipcode")

// InventoryService orchestrates the inventory-refresh pipeline: store
// discovery per zipcode, per-product quantity refresh gated by the freshness
// policy, and the final aggregated read.
type InventoryService struct {
	products *repos.ProductRepo
	stores   *repos.StoreRepo
	inv      *repos.InventoryRepo
	users    *repos.UserRepo
	clients  map[string]scraper.Client
	queue    *tasks.Queue
	log      *zap.SugaredLogger

	window    time.Duration
	threshold int
	pageSize  int
}

func NewInventoryService(
	products *repos.ProductRepo,
	stores *repos.StoreRepo,
	inv *repos.InventoryRepo,
	users *repos.UserRepo,
	clients map[string]scraper.Client,
	queue *tasks.Queue,
	cfg config.RefreshConfig,
	log *zap.SugaredLogger,
) *InventoryService {
	return &InventoryService{
		products:  products,
		stores:    stores,
		inv:       inv,
		users:     users,
		clients:   clients,
		queue:     queue,
		log:       log,
		window:    cfg.ParseFreshnessWindow(),
		threshold: cfg.CoverageThreshold,
		pageSize:  cfg.PageSize,
	}
}

// countFresh is the freshness policy: how many locations mapped to this
// zipcode already hold a reading newer than the window. Fails open to 0 so a
// datastore hiccup triggers a re-fetch rather than an error.
func (s *InventoryService) countFresh(sku, store, zipcode string) int {
	cutoff := time.Now().UTC().Add(-s.window)
	n, err := s.inv.CountFresh(sku, store, zipcode, cutoff)
	if err != nil {
		s.log.Errorw("fresh count failed", "sku", sku, "store", store, "zipcode", zipcode, "error", err)
		return 0
	}
	return n
}

// EnsureStores populates store locations and the zip-to-store mapping for one
// chain around a zipcode. Idempotent and fail-open: an existing mapping skips
// the lookup entirely, and errors are logged without propagating.
//
// The mapping is cached only when the location search returns a full page;
// a partial page is treated as incomplete information and re-discovered on
// the next request.
func (s *InventoryService) EnsureStores(ctx context.Context, store, zipcode string) {
	mapped, err := s.stores.HasMapping(store, zipcode)
	if err != nil {
		s.log.Errorw("mapping lookup failed", "store", store, "zipcode", zipcode, "error", err)
	}
	if mapped {
		return
	}

	client, ok := s.clients[store]
	if !ok {
		return
	}

	s.log.Infow("discovering stores", "store", store, "zipcode", zipcode)
	locations := client.StoresByZipcode(ctx, zipcode)
	if len(locations) == 0 {
		return
	}
	if err := s.stores.AddStores(locations); err != nil {
		s.log.Errorw("persist store locations failed", "store", store, "zipcode", zipcode, "error", err)
		return
	}

	if len(locations) != s.pageSize {
		return
	}
	mappings := make([]domain.ZipStoreMapping, 0, len(locations))
	for _, l := range locations {
		mappings = append(mappings, domain.ZipStoreMapping{
			Store:   store,
			Zipcode: zipcode,
			StoreID: l.StoreID,
		})
	}
	if err := s.stores.AddMappings(mappings); err != nil {
		s.log.Errorw("persist zip mapping failed", "store", store, "zipcode", zipcode, "error", err)
	}
}

// RefreshQuantity refreshes readings for one (sku, store) pair around a
// zipcode. Skips the external call when enough fresh readings exist. External
// fetch failures degrade to zero writes; only a failed persist returns an
// error, so a scheduled run can be retried safely against idempotent upserts.
func (s *InventoryService) RefreshQuantity(ctx context.Context, sku, store, zipcode string) error {
	if n := s.countFresh(sku, store, zipcode); n >= s.threshold {
		return nil
	}

	client, ok := s.clients[store]
	if !ok {
		return nil
	}
	readings := client.QuantityBySKUZipcode(ctx, sku, zipcode)
	if len(readings) == 0 {
		return nil
	}

	// Snapshots are zip-scoped: keep only locations mapped to this zipcode.
	mapped, err := s.stores.MappedIDs(store, zipcode)
	if err != nil {
		return fmt.Errorf("load zip mapping %s/%s: %w", store, zipcode, err)
	}
	keep := readings[:0]
	for _, rd := range readings {
		if mapped[rd.StoreID] {
			keep = append(keep, rd)
		}
	}
	if len(keep) == 0 {
		return nil
	}

	if err := s.inv.UpsertQuantities(keep); err != nil {
		return fmt.Errorf("persist quantities %s@%s: %w", sku, store, err)
	}
	return nil
}

// RefreshAndList is the synchronous page-load path: discover stores as
// needed, refresh every tracked (sku, store) pair inline, then return the
// aggregated view. A datastore failure returns an error so callers can tell
// "could not compute" from "nothing to show".
func (s *InventoryService) RefreshAndList(ctx context.Context, userID int64, zipcode string) ([]domain.StoreInventory, error) {
	zipcode, ok := validate.Zipcode(zipcode)
	if !ok {
		return nil, ErrInvalidZipcode
	}

	products, err := s.products.ListTracked(userID)
	if err != nil {
		return nil, fmt.Errorf("list tracked products: %w", err)
	}

	seen := map[string]bool{}
	for _, p := range products {
		if seen[p.Store] {
			continue
		}
		seen[p.Store] = true
		s.EnsureStores(ctx, p.Store, zipcode)
	}

	for _, p := range products {
		if err := s.RefreshQuantity(ctx, p.SKU, p.Store, zipcode); err != nil {
			s.log.Errorw("quantity refresh failed", "sku", p.SKU, "store", p.Store, "error", err)
		}
	}

	view, err := s.inv.ListInventory(userID, zipcode)
	if err != nil {
		return nil, fmt.Errorf("aggregate inventory: %w", err)
	}
	return view, nil
}

// Preload warms the cache in the background on session start: resolve the
// user's saved zipcode, then fan a refresh unit out per tracked product.
// No-op when the user never set a zipcode.
func (s *InventoryService) Preload(userID int64) {
	s.queue.Enqueue("preload", func(ctx context.Context) error {
		zipcode, err := s.users.Zipcode(userID)
		if err != nil {
			return fmt.Errorf("resolve zipcode: %w", err)
		}
		if zipcode == "" {
			return nil
		}
		products, err := s.products.ListTracked(userID)
		if err != nil {
			return fmt.Errorf("list tracked products: %w", err)
		}
		for _, p := range products {
			p := p
			s.queue.Enqueue("refresh."+p.Store+"."+p.SKU, func(ctx context.Context) error {
				s.EnsureStores(ctx, p.Store, zipcode)
				return s.RefreshQuantity(ctx, p.SKU, p.Store, zipcode)
			})
		}
		return nil
	})
}
