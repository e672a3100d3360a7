package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ypeng90/shopper/internal/domain"
	"github.com/ypeng90/shopper/internal/repos"
	"github.com/ypeng90/shopper/internal/scraper"
	"github.com/ypeng90/shopper/internal/tasks"
	"github.com/ypeng90/shopper/internal/validate"
)

// ErrInvalidInput rejects malformed product fields before any work happens.
var ErrInvalidInput = errors.New("invalid input")

// ProductService covers the tracked-product operations around the refresh
// pipeline: listing, adding, flipping tracking, catalog search and the
// asynchronous zipcode update.
type ProductService struct {
	products *repos.ProductRepo
	users    *repos.UserRepo
	clients  map[string]scraper.Client
	queue    *tasks.Queue
	log      *zap.SugaredLogger
}

func NewProductService(
	products *repos.ProductRepo,
	users *repos.UserRepo,
	clients map[string]scraper.Client,
	queue *tasks.Queue,
	log *zap.SugaredLogger,
) *ProductService {
	return &ProductService{
		products: products,
		users:    users,
		clients:  clients,
		queue:    queue,
		log:      log,
	}
}

// ListProducts returns everything the user has added, tracked or not.
func (s *ProductService) ListProducts(userID int64) ([]domain.TrackedProduct, error) {
	return s.products.ListAll(userID)
}

// AddProduct stores a new tracked product. Duplicates are silently ignored;
// the return value reports whether a row was inserted.
func (s *ProductService) AddProduct(userID int64, sku, name, store string) (bool, error) {
	store, okStore := validate.Store(store)
	name, okName := validate.Name(name)
	if !okStore || !okName || sku == "" || len(sku) > 15 {
		return false, ErrInvalidInput
	}
	return s.products.Add(userID, sku, name, store)
}

// SetTrack flips the tracked flag on an existing product.
func (s *ProductService) SetTrack(userID int64, sku, store string, track bool) (bool, error) {
	store, ok := validate.Store(store)
	if !ok || sku == "" {
		return false, ErrInvalidInput
	}
	return s.products.SetTrack(userID, sku, store, track)
}

// Search resolves a keyword against one chain's catalog. Returns nil when the
// chain is unsupported, nothing matched, or the lookup degraded.
func (s *ProductService) Search(ctx context.Context, store, keyword string) *domain.ProductSummary {
	client, ok := s.clients[store]
	if !ok {
		return nil
	}
	return client.SearchProduct(ctx, keyword)
}

// UpdateZipcode validates and then applies the zipcode asynchronously; the
// caller does not wait for the write.
func (s *ProductService) UpdateZipcode(userID int64, zipcode string) error {
	zipcode, ok := validate.Zipcode(zipcode)
	if !ok {
		return ErrInvalidZipcode
	}
	s.queue.Enqueue("update_zipcode", func(context.Context) error {
		if err := s.users.SetZipcode(userID, zipcode); err != nil {
			return fmt.Errorf("set zipcode: %w", err)
		}
		return nil
	})
	return nil
}
