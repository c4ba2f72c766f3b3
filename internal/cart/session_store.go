package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/craftline/storefront-backend/pkg/errors"
	"github.com/craftline/storefront-backend/pkg/redis"
)

// SessionStore persists carts in Redis keyed by an opaque session id. Each
// write refreshes the TTL so an active cart never expires mid-session.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore binds the store to a Redis client and session TTL.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// NewSessionID mints a fresh cart session identifier.
func (s *SessionStore) NewSessionID() string {
	return uuid.NewString()
}

// Get loads the cart for the session. A missing session yields an empty cart,
// not an error; carts come into being lazily on the first write.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session id required")
	}
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart session")
	}
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("decoding cart session %s", sessionID))
	}
	return &c, nil
}

// Save writes the cart back under the session key with a refreshed TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, c *Cart) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session id required")
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart session")
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart session")
	}
	return nil
}

// Clear deletes the session's cart.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session id required")
	}
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart session")
	}
	return nil
}
