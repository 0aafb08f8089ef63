package credentials

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/cryptox"
)

// sealSalt is fixed per application; the secret is the per-install input.
var sealSalt = []byte("fittrack/credentials/v1")

// SealedStore encrypts values before handing them to the inner Store.
// Keys are stored in the clear so Remove works without the secret.
type SealedStore struct {
	inner Store
	key   []byte
}

func NewSealedStore(inner Store, secret []byte) *SealedStore {
	return &SealedStore{inner: inner, key: cryptox.DeriveKey(secret, sealSalt)}
}

func (s *SealedStore) Get(ctx context.Context, key string) (string, bool, error) {
	encoded, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false, fmt.Errorf("failed to decode credential[%s]: %w", key, err)
	}
	plain, err := cryptox.Open(s.key, sealed)
	if err != nil {
		return "", false, fmt.Errorf("failed to open credential[%s]: %w", key, err)
	}
	return string(plain), true, nil
}

func (s *SealedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := cryptox.Seal(s.key, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to seal credential[%s]: %w", key, err)
	}
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(sealed))
}

func (s *SealedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}
