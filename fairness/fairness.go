// Package fairness defines the published commit-reveal rules for the
// coin flip. Every value here is derivable by a third party from the
// revealed server seed, the client seed, the game id and the nonce, so
// outcomes can be audited without trusting the operator.
//
// Rules:
//
//	commit  = SHA-256(serverSeed || gameID as 8-byte big-endian)
//	digest  = SHA-256(serverSeed || clientSeed || nonce as 8-byte big-endian)
//	outcome = digest[0] & 1
//
// Folding the game id into the commit prevents replaying one seed
// commitment across games.
package fairness

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// SeedSize is the length in bytes of server and client seeds.
const SeedSize = 32

// CommitHash computes the commitment for a server seed bound to one game.
func CommitHash(serverSeed []byte, gameID int64) [sha256.Size]byte {
	h := sha256.New()
	h.Write(serverSeed)
	h.Write(beInt64(gameID))

	var digest [sha256.Size]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// DrawDigest computes the digest both seeds and the nonce mix into.
func DrawDigest(serverSeed, clientSeed []byte, nonce int64) [sha256.Size]byte {
	h := sha256.New()
	h.Write(serverSeed)
	h.Write(clientSeed)
	h.Write(beInt64(nonce))

	var digest [sha256.Size]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// OutcomeBit extracts the outcome from a draw digest.
func OutcomeBit(digest [sha256.Size]byte) byte {
	return digest[0] & 1
}

// NewServerSeed generates a high-entropy server seed using crypto/rand.
func NewServerSeed() ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return seed, nil
}

// EncodeHex renders seeds and digests for storage and transport.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeSeed parses a hex-encoded seed and enforces its length.
func DecodeSeed(s string) ([]byte, error) {
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	return seed, nil
}

func beInt64(v int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	return b[:]
}
