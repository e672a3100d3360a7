package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/ypeng90/shopper/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// ListAll returns every product a user has added, tracked or not.
func (r *ProductRepo) ListAll(userID int64) ([]domain.TrackedProduct, error) {
	var out []domain.TrackedProduct
	err := r.db.Select(&out, `
		SELECT userid, sku, name, store, track
		FROM products
		WHERE userid = ?
		ORDER BY store, sku
	`, userID)
	return out, err
}

// ListTracked returns only products with tracking enabled.
func (r *ProductRepo) ListTracked(userID int64) ([]domain.TrackedProduct, error) {
	var out []domain.TrackedProduct
	err := r.db.Select(&out, `
		SELECT userid, sku, name, store, track
		FROM products
		WHERE userid = ? AND track = 1
		ORDER BY store, sku
	`, userID)
	return out, err
}

// Add inserts a product, silently ignoring duplicates. Returns whether a row
// was actually inserted.
func (r *ProductRepo) Add(userID int64, sku, name, store string) (bool, error) {
	res, err := r.db.Exec(`
		INSERT INTO products(userid, sku, name, store)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(userid, sku, store) DO NOTHING
	`, userID, sku, name, store)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetTrack flips the tracked flag. Returns whether a row matched.
func (r *ProductRepo) SetTrack(userID int64, sku, store string, track bool) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE products SET track = ?
		WHERE userid = ? AND sku = ? AND store = ?
	`, track, userID, sku, store)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
