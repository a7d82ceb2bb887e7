package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/ebubechi-ihediwa/StellarCade/fairness"
)

// MemorySeedVault generates server seeds for new games and keeps them off
// the public record until the operator reveals them. Seeds are released
// exactly once; after a reveal the vault forgets them.
type MemorySeedVault struct {
	mu    sync.Mutex
	seeds map[int64][]byte
}

// NewMemorySeedVault creates an empty seed vault
func NewMemorySeedVault() *MemorySeedVault {
	return &MemorySeedVault{
		seeds: make(map[int64][]byte),
	}
}

// NewCommitment generates and retains a server seed for a game and
// returns its hex-encoded commit hash
func (v *MemorySeedVault) NewCommitment(_ context.Context, gameID int64) (string, error) {
	seed, err := fairness.NewServerSeed()
	if err != nil {
		return "", fmt.Errorf("failed to generate server seed: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.seeds[gameID]; exists {
		return "", fmt.Errorf("seed already retained for game %d", gameID)
	}
	v.seeds[gameID] = seed

	commit := fairness.CommitHash(seed, gameID)
	return fairness.EncodeHex(commit[:]), nil
}

// Reveal surrenders the retained seed for settlement
func (v *MemorySeedVault) Reveal(gameID int64) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	seed, ok := v.seeds[gameID]
	if !ok {
		return nil, fmt.Errorf("no seed retained for game %d", gameID)
	}
	delete(v.seeds, gameID)
	return seed, nil
}
