package repos_test

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/ypeng90/shopper/internal/domain"
	"github.com/ypeng90/shopper/internal/repos"
)

const (
	testUser = int64(51589605)
	testSKU  = "81911643"
	testZip  = "92128"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func addLocation(t *testing.T, db *sqlx.DB, storeID, name string) {
	t.Helper()
	err := repos.NewStoreRepo(db).AddStores([]domain.StoreLocation{{
		Store:     "tgt",
		StoreID:   storeID,
		Name:      name,
		Address:   "11290 Rancho Carmel Dr",
		City:      "San Diego",
		State:     "CA",
		Zipcode:   testZip,
		Latitude:  32.98,
		Longitude: -117.08,
	}})
	if err != nil {
		t.Fatal(err)
	}
}

func addMapping(t *testing.T, db *sqlx.DB, zipcode, storeID string) {
	t.Helper()
	err := repos.NewStoreRepo(db).AddMappings([]domain.ZipStoreMapping{{
		Store:   "tgt",
		Zipcode: zipcode,
		StoreID: storeID,
	}})
	if err != nil {
		t.Fatal(err)
	}
}

func upsert(t *testing.T, db *sqlx.DB, sku, storeID string, qty int) {
	t.Helper()
	err := repos.NewInventoryRepo(db).UpsertQuantities([]domain.StoreQuantity{{
		SKU:      sku,
		Quantity: qty,
		Store:    "tgt",
		StoreID:  storeID,
	}})
	if err != nil {
		t.Fatal(err)
	}
}
