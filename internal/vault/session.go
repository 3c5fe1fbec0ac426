package vault

import (
	"fmt"

	"github.com/Hussein-Mazeh/givme/krypto"
)

// Session is the resolved key material of one process. It is created by
// the Bootstrapper after a successful unlock or setup and handed to the
// Repository; it is never persisted.
type Session struct {
	keys   krypto.KeyMaterial
	engine *krypto.Engine
}

func newSession(keys krypto.KeyMaterial) (*Session, error) {
	engine, err := krypto.NewEngine(keys)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}
	return &Session{keys: keys, engine: engine}, nil
}

// Engine returns the cipher engine keyed with both session keys.
func (s *Session) Engine() *krypto.Engine { return s.engine }

// SecretKey returns the plaintext secret key recovered at unlock.
func (s *Session) SecretKey() string { return s.keys.SecretKey }
