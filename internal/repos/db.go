package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// OpenDB opens the SQLite database, applies the schema and seeds demo users.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Demo users (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Users: one current zipcode per user; '00000' means never set.
CREATE TABLE IF NOT EXISTS users(
  userid INTEGER PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL DEFAULT '',
  zipcode TEXT NOT NULL DEFAULT '00000'
);

-- Tracked products
CREATE TABLE IF NOT EXISTS products(
  userid INTEGER NOT NULL,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  store TEXT NOT NULL,
  track INTEGER NOT NULL DEFAULT 1,
  PRIMARY KEY(userid, sku, store)
);

-- Physical store locations, discovered lazily per zipcode; append-only.
CREATE TABLE IF NOT EXISTS stores(
  store TEXT NOT NULL,
  store_id TEXT NOT NULL,
  store_name TEXT NOT NULL,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  zipcode TEXT NOT NULL,
  latitude REAL NOT NULL,
  longitude REAL NOT NULL,
  PRIMARY KEY(store, store_id)
);

-- "This location serves this zipcode"
CREATE TABLE IF NOT EXISTS zipcode_stores_mapping(
  store TEXT NOT NULL,
  zipcode TEXT NOT NULL,
  store_id TEXT NOT NULL,
  PRIMARY KEY(store, zipcode, store_id)
);

-- Point-in-time quantity readings
CREATE TABLE IF NOT EXISTS inventory(
  sku TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  store TEXT NOT NULL,
  store_id TEXT NOT NULL,
  check_time DATETIME NOT NULL,
  PRIMARY KEY(sku, store, store_id)
);
CREATE INDEX IF NOT EXISTS idx_inventory_check_time ON inventory(check_time);
CREATE INDEX IF NOT EXISTS idx_mapping_zipcode ON zipcode_stores_mapping(zipcode);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures a couple of demo accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID   int64
		Name string
		Raw  string
	}
	users := []u{
		{51589605, "alice", "Passw0rd!"},
		{51589606, "bob", "Passw0rd!"},
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		h, _ := bcrypt.GenerateFromPassword([]byte(x.Raw), bcrypt.DefaultCost)
		if _, err := tx.Exec(`
			INSERT INTO users(userid, name, password_hash)
			VALUES(?, ?, ?)
			ON CONFLICT(userid) DO NOTHING
		`, x.ID, x.Name, string(h)); err != nil {
			return err
		}
	}
	return tx.Commit()
}
