package auth

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// LoggingTransferor stands in for the host-chain token client. It issues
// a transfer reference per movement and logs the intent; a production
// deployment replaces it with a client submitting real token transfers.
type LoggingTransferor struct{}

// NewLoggingTransferor creates a logging token transferor
func NewLoggingTransferor() *LoggingTransferor {
	return &LoggingTransferor{}
}

// TransferIn records an inbound token movement and returns its reference
func (t *LoggingTransferor) TransferIn(_ context.Context, from string, amount int64) (string, error) {
	ref := uuid.NewString()
	log.WithFields(log.Fields{
		"from":        from,
		"amount":      amount,
		"transferRef": ref,
	}).Info("Token transfer in")
	return ref, nil
}

// TransferOut records an outbound token movement and returns its reference
func (t *LoggingTransferor) TransferOut(_ context.Context, to string, amount int64) (string, error) {
	ref := uuid.NewString()
	log.WithFields(log.Fields{
		"to":          to,
		"amount":      amount,
		"transferRef": ref,
	}).Info("Token transfer out")
	return ref, nil
}
