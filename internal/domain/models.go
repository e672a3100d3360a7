package domain

import "time"

// TrackedProduct is a SKU+store pair a user monitors.
type TrackedProduct struct {
	UserID int64  `db:"userid" json:"-"`
	SKU    string `db:"sku" json:"sku"`
	Name   string `db:"name" json:"name"`
	Store  string `db:"store" json:"store"`
	Track  bool   `db:"track" json:"track"`
}

// ProductSummary is the result of a keyword search against a store catalog.
type ProductSummary struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// StoreLocation is one physical store of a chain.
type StoreLocation struct {
	Store     string  `db:"store"`
	StoreID   string  `db:"store_id"`
	Name      string  `db:"store_name"`
	Address   string  `db:"address"`
	City      string  `db:"city"`
	State     string  `db:"state"`
	Zipcode   string  `db:"zipcode"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

// ZipStoreMapping records that a location is within search radius of a zipcode.
type ZipStoreMapping struct {
	Store   string `db:"store"`
	Zipcode string `db:"zipcode"`
	StoreID string `db:"store_id"`
}

// StoreQuantity is one location quantity returned by an external lookup.
type StoreQuantity struct {
	SKU      string
	Quantity int
	Store    string
	StoreID  string
}

// InventorySnapshot is a point-in-time quantity reading for one location.
// CheckTime always advances on write, even when the quantity is unchanged;
// staleness is judged by CheckTime, not by quantity delta.
type InventorySnapshot struct {
	SKU       string    `db:"sku"`
	Quantity  int       `db:"quantity"`
	Store     string    `db:"store"`
	StoreID   string    `db:"store_id"`
	CheckTime time.Time `db:"check_time"`
}

// ProductQuantity is one tracked product's quantity at a store, in the
// aggregated inventory view.
type ProductQuantity struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// StoreInventory groups tracked-product quantities for one location.
type StoreInventory struct {
	Store     string            `json:"store"`
	StoreID   string            `json:"store_id"`
	Name      string            `json:"name"`
	Address   string            `json:"address"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Total     int               `json:"total"`
	Products  []ProductQuantity `json:"products"`
}
