package memory

import (
	"context"
	"sync"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type TokenRegistry struct {
	mu     sync.RWMutex
	tokens map[ports.Audience]map[string]string
}

var _ ports.TokenRegistry = (*TokenRegistry)(nil)

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{tokens: make(map[ports.Audience]map[string]string)}
}

// Register stores the push token of a client.
func (r *TokenRegistry) Register(audience ports.Audience, clientID string, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tokens[audience] == nil {
		r.tokens[audience] = make(map[string]string)
	}
	r.tokens[audience][clientID] = token
}

func (r *TokenRegistry) Token(_ context.Context, audience ports.Audience, clientID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[audience][clientID]
	if !ok {
		return "", errs.NewObjectNotFoundError("clientId", clientID)
	}
	return token, nil
}

func (r *TokenRegistry) Remove(_ context.Context, audience ports.Audience, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens[audience], clientID)
	return nil
}
