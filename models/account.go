package models

import (
	"time"
)

// Account holds the custodial balance for one player identity.
// Accounts are created lazily on first deposit and never destroyed.
type Account struct {
	ID        string    `db:"id"`
	Balance   int64     `db:"balance"`
	Locked    int64     `db:"locked"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Available returns the portion of the balance not reserved by in-flight games.
func (a *Account) Available() int64 {
	return a.Balance - a.Locked
}
