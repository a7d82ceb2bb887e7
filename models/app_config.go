package models

import (
	"time"
)

// MaxFeeBasisPoints is the upper bound for the house fee (100%).
const MaxFeeBasisPoints = 10000

// AppConfig is the singleton admin/fee record written once at
// initialization. FeesAccrued accumulates the house cut of gross
// winnings across all settled games.
type AppConfig struct {
	Admin       string    `db:"admin"`
	FeeBps      int64     `db:"fee_bps"`
	FeesAccrued int64     `db:"fees_accrued"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
