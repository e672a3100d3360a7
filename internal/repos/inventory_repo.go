package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ypeng90/shopper/internal/domain"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// CountFresh returns how many locations mapped to this zipcode have a
// snapshot for the SKU newer than the cutoff. Pure read, no side effects.
func (r *InventoryRepo) CountFresh(sku, store, zipcode string, cutoff time.Time) (int, error) {
	var n int
	err := r.db.Get(&n, `
		SELECT COUNT(got.store_id)
		FROM (
			SELECT store_id FROM inventory
			WHERE sku = ? AND store = ? AND check_time > ?
		) got
		INNER JOIN (
			SELECT store_id FROM zipcode_stores_mapping
			WHERE store = ? AND zipcode = ?
		) need
		ON got.store_id = need.store_id
	`, sku, store, cutoff, store, zipcode)
	return n, err
}

// UpsertQuantities writes one snapshot per location. The quantity is always
// overwritten and check_time always advances, even when the quantity is
// unchanged; staleness is judged by check_time alone.
func (r *InventoryRepo) UpsertQuantities(readings []domain.StoreQuantity) error {
	if len(readings) == 0 {
		return nil
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, q := range readings {
		if _, err := tx.Exec(`
			INSERT INTO inventory(sku, quantity, store, store_id, check_time)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(sku, store, store_id) DO UPDATE SET
				quantity = excluded.quantity,
				check_time = excluded.check_time
		`, q.SKU, q.Quantity, q.Store, q.StoreID, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type inventoryRow struct {
	Store     string    `db:"store"`
	StoreID   string    `db:"store_id"`
	StoreName string    `db:"store_name"`
	Address   string    `db:"address"`
	City      string    `db:"city"`
	State     string    `db:"state"`
	Zipcode   string    `db:"zipcode"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	SKU       string    `db:"sku"`
	Name      string    `db:"name"`
	Quantity  int       `db:"quantity"`
	CheckTime time.Time `db:"check_time"`
}

// ListInventory assembles the nested store -> products view for one user and
// zipcode: tracked products joined with their snapshots, restricted to
// locations mapped to the zipcode.
func (r *InventoryRepo) ListInventory(userID int64, zipcode string) ([]domain.StoreInventory, error) {
	var rows []inventoryRow
	err := r.db.Select(&rows, `
		SELECT q.store, q.store_id, s.store_name, s.address, s.city, s.state, s.zipcode,
		       s.latitude, s.longitude, q.sku, p.name, q.quantity, q.check_time
		FROM inventory q
		INNER JOIN products p
			ON p.sku = q.sku AND p.store = q.store AND p.userid = ? AND p.track = 1
		INNER JOIN zipcode_stores_mapping m
			ON m.store = q.store AND m.store_id = q.store_id AND m.zipcode = ?
		INNER JOIN stores s
			ON s.store = q.store AND s.store_id = q.store_id
		ORDER BY q.store, q.store_id, q.sku
	`, userID, zipcode)
	if err != nil {
		return nil, err
	}

	out := []domain.StoreInventory{}
	for _, row := range rows {
		n := len(out)
		if n == 0 || out[n-1].Store != row.Store || out[n-1].StoreID != row.StoreID {
			out = append(out, domain.StoreInventory{
				Store:     row.Store,
				StoreID:   row.StoreID,
				Name:      row.StoreName,
				Address:   row.Address + ", " + row.City + ", " + row.State + " " + row.Zipcode,
				Latitude:  row.Latitude,
				Longitude: row.Longitude,
			})
			n++
		}
		grp := &out[n-1]
		grp.Total += row.Quantity
		grp.Products = append(grp.Products, domain.ProductQuantity{
			SKU:      row.SKU,
			Name:     row.Name,
			Quantity: row.Quantity,
		})
	}
	return out, nil
}

// Snapshot returns one stored reading, mostly for tests and debugging.
func (r *InventoryRepo) Snapshot(sku, store, storeID string) (*domain.InventorySnapshot, error) {
	var s domain.InventorySnapshot
	err := r.db.Get(&s, `
		SELECT sku, quantity, store, store_id, check_time
		FROM inventory
		WHERE sku = ? AND store = ? AND store_id = ?
	`, sku, store, storeID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
