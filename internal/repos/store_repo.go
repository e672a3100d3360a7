package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/ypeng90/shopper/internal/domain"
)

type StoreRepo struct{ db *sqlx.DB }

func NewStoreRepo(db *sqlx.DB) *StoreRepo { return &StoreRepo{db: db} }

// HasMapping reports whether any location is already mapped to this
// store+zipcode. An existing mapping short-circuits discovery regardless of
// age; mappings carry no TTL.
func (r *StoreRepo) HasMapping(store, zipcode string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
		SELECT COUNT(*) FROM zipcode_stores_mapping
		WHERE store = ? AND zipcode = ?
	`, store, zipcode)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MappedIDs returns the set of location IDs mapped to this store+zipcode.
func (r *StoreRepo) MappedIDs(store, zipcode string) (map[string]bool, error) {
	var ids []string
	err := r.db.Select(&ids, `
		SELECT store_id FROM zipcode_stores_mapping
		WHERE store = ? AND zipcode = ?
	`, store, zipcode)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// AddStores inserts discovered locations, never overwriting existing rows.
func (r *StoreRepo) AddStores(locations []domain.StoreLocation) error {
	if len(locations) == 0 {
		return nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range locations {
		if _, err := tx.Exec(`
			INSERT INTO stores(store, store_id, store_name, address, city, state, zipcode, latitude, longitude)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(store, store_id) DO NOTHING
		`, l.Store, l.StoreID, l.Name, l.Address, l.City, l.State, l.Zipcode, l.Latitude, l.Longitude); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AddMappings inserts zip-to-store mappings, ignoring duplicates.
func (r *StoreRepo) AddMappings(mappings []domain.ZipStoreMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range mappings {
		if _, err := tx.Exec(`
			INSERT INTO zipcode_stores_mapping(store, zipcode, store_id)
			VALUES (?, ?, ?)
			ON CONFLICT(store, zipcode, store_id) DO NOTHING
		`, m.Store, m.Zipcode, m.StoreID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
