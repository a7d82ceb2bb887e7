package models

import (
	"time"
)

// GameStatus represents the settlement state of a game
type GameStatus string

const (
	GameStatusCommitted GameStatus = "committed"
	GameStatusSettled   GameStatus = "settled"
	GameStatusVoided    GameStatus = "voided"
)

// CoinSide represents one side of the binary bet
type CoinSide string

const (
	CoinSideA CoinSide = "A"
	CoinSideB CoinSide = "B"
)

// ValidCoinSide reports whether s is one of the two playable sides.
func ValidCoinSide(s CoinSide) bool {
	return s == CoinSideA || s == CoinSideB
}

// SideFromBit maps the fairness engine's outcome bit to a coin side.
func SideFromBit(bit byte) CoinSide {
	if bit&1 == 0 {
		return CoinSideA
	}
	return CoinSideB
}

// Game represents one coin flip play. A game is created in the committed
// state with the stake locked, and reaches exactly one of the terminal
// states: settled (outcome recorded, stake released) or voided (stake
// returned untouched).
type Game struct {
	ID                 int64      `db:"id"`
	Player             string     `db:"player"`
	Stake              int64      `db:"stake"`
	Choice             CoinSide   `db:"choice"`
	ClientSeed         string     `db:"client_seed"`
	Nonce              int64      `db:"nonce"`
	CommitHash         string     `db:"commit_hash"`
	ServerSeedRevealed *string    `db:"server_seed_revealed"`
	Outcome            *CoinSide  `db:"outcome"`
	Status             GameStatus `db:"status"`
	PayoutDelta        *int64     `db:"payout_delta"`
	CreatedAt          time.Time  `db:"created_at"`
	SettledAt          *time.Time `db:"settled_at"`
}

// IsTerminal reports whether the game can no longer change state.
func (g *Game) IsTerminal() bool {
	return g.Status == GameStatusSettled || g.Status == GameStatusVoided
}

// Won reports whether the recorded outcome matches the player's choice.
// Only meaningful for settled games.
func (g *Game) Won() bool {
	return g.Outcome != nil && *g.Outcome == g.Choice
}

// GameResult is the read-only projection returned to callers.
type GameResult struct {
	GameID             int64
	Player             string
	Stake              int64
	Choice             CoinSide
	ClientSeed         string
	Nonce              int64
	CommitHash         string
	ServerSeedRevealed *string
	Outcome            *CoinSide
	Status             GameStatus
	PayoutDelta        *int64
}
