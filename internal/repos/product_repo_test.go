package repos_test

import (
	"testing"

	"github.com/ypeng90/shopper/internal/repos"
)

func TestProductAddAndList(t *testing.T) {
	db := memdb(t)
	products := repos.NewProductRepo(db)

	inserted, err := products.Add(testUser, testSKU, "Lego Set", "tgt")
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("first insert must report a new row")
	}

	inserted, err = products.Add(testUser, testSKU, "Renamed", "tgt")
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Fatal("duplicate key must be ignored")
	}

	all, err := products.ListAll(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Name != "Lego Set" {
		t.Fatalf("bad list: %+v", all)
	}

	// users stay isolated
	all, err = products.ListAll(12345)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("foreign user must see nothing, got %+v", all)
	}
}

func TestListTrackedFiltersFlag(t *testing.T) {
	db := memdb(t)
	products := repos.NewProductRepo(db)

	if _, err := products.Add(testUser, testSKU, "Lego Set", "tgt"); err != nil {
		t.Fatal(err)
	}
	if _, err := products.Add(testUser, "99999999", "Board Game", "tgt"); err != nil {
		t.Fatal(err)
	}

	matched, err := products.SetTrack(testUser, "99999999", "tgt", false)
	if err != nil {
		t.Fatal(err)
	}
	if !matched {
		t.Fatal("existing row must be matched")
	}

	tracked, err := products.ListTracked(testUser)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracked) != 1 || tracked[0].SKU != testSKU {
		t.Fatalf("bad tracked list: %+v", tracked)
	}

	matched, err = products.SetTrack(testUser, "00000000", "tgt", true)
	if err != nil {
		t.Fatal(err)
	}
	if matched {
		t.Fatal("unknown row must not be matched")
	}
}
