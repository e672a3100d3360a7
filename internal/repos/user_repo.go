package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Zipcode returns the user's saved zipcode, or "" when none has been set.
func (r *UserRepo) Zipcode(userID int64) (string, error) {
	var zip string
	err := r.db.Get(&zip, `SELECT zipcode FROM users WHERE userid = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if zip == "00000" {
		return "", nil
	}
	return zip, nil
}

// SetZipcode stores the user's current zipcode, last write wins.
func (r *UserRepo) SetZipcode(userID int64, zipcode string) error {
	_, err := r.db.Exec(`
		INSERT INTO users(userid, zipcode)
		VALUES (?, ?)
		ON CONFLICT(userid) DO UPDATE SET zipcode = excluded.zipcode
	`, userID, zipcode)
	return err
}
