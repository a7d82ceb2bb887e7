package models

import (
	"time"
)

// CommitState represents the commit-reveal phase of one game's randomness
type CommitState string

const (
	CommitStateCommitted CommitState = "committed"
	CommitStateRevealed  CommitState = "revealed"
)

// FairnessCommit is the commit-reveal entry backing one game. The commit
// hash is written before the player's choice is final and never mutated;
// the server seed and outcome bit are filled in at reveal time.
type FairnessCommit struct {
	GameID     int64       `db:"game_id"`
	CommitHash string      `db:"commit_hash"`
	ServerSeed *string     `db:"server_seed"`
	ClientSeed *string     `db:"client_seed"`
	Nonce      *int64      `db:"nonce"`
	OutcomeBit *int16      `db:"outcome_bit"`
	State      CommitState `db:"state"`
	CreatedAt  time.Time   `db:"created_at"`
	RevealedAt *time.Time  `db:"revealed_at"`
}
