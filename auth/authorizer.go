// Package auth provides the production implementations of the settlement
// core's external collaborators: caller authorization, token transfer and
// operator seed custody.
package auth

import (
	"context"
)

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a context carrying the authenticated caller
// identity. The HTTP layer sets it after authenticating a request.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated caller identity, empty
// when the context carries none.
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}

// ContextAuthorizer verifies a claimed identity against the identity the
// transport layer authenticated into the context. The settlement core
// only consumes the boolean, so swapping in a signature-based authorizer
// requires no core changes.
type ContextAuthorizer struct{}

// NewContextAuthorizer creates a context-backed authorizer
func NewContextAuthorizer() *ContextAuthorizer {
	return &ContextAuthorizer{}
}

// VerifyCaller reports whether the claimed identity matches the
// authenticated one
func (a *ContextAuthorizer) VerifyCaller(ctx context.Context, identity string) bool {
	return identity != "" && IdentityFromContext(ctx) == identity
}
