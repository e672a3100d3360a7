package repos_test

import (
	"testing"

	"github.com/ypeng90/shopper/internal/repos"
)

func TestMappingLifecycle(t *testing.T) {
	db := memdb(t)
	stores := repos.NewStoreRepo(db)

	ok, err := stores.HasMapping("tgt", testZip)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("empty table must report no mapping")
	}

	addMapping(t, db, testZip, "1296")
	addMapping(t, db, testZip, "2438")
	// re-adding the same row is a no-op
	addMapping(t, db, testZip, "1296")

	ok, err = stores.HasMapping("tgt", testZip)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("mapping must be visible after insert")
	}

	ids, err := stores.MappedIDs("tgt", testZip)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || !ids["1296"] || !ids["2438"] {
		t.Fatalf("bad mapped set: %v", ids)
	}

	// other zipcodes stay isolated
	ids, err = stores.MappedIDs("tgt", "10001")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("foreign zip must map nothing, got %v", ids)
	}
}

func TestAddStoresIdempotent(t *testing.T) {
	db := memdb(t)

	addLocation(t, db, "1296", "San Diego Carmel Mtn")
	addLocation(t, db, "1296", "Different Name")

	var rows int
	if err := db.Get(&rows, `SELECT COUNT(*) FROM stores`); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Fatalf("want 1 store row, got %d", rows)
	}
	var name string
	if err := db.Get(&name, `SELECT store_name FROM stores WHERE store = 'tgt' AND store_id = '1296'`); err != nil {
		t.Fatal(err)
	}
	if name != "San Diego Carmel Mtn" {
		t.Fatalf("first write must win, got %q", name)
	}
}
