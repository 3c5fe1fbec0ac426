package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hussein-Mazeh/givme/krypto"
)

// Repository encrypts credentials on the way into Storage and decrypts them
// on the way out. Records are addressed by the deterministic ciphertext of
// the credential name.
type Repository struct {
	store  Storage
	engine *krypto.Engine
}

// NewRepository binds store to the key material of an unlocked session.
func NewRepository(store Storage, s *Session) *Repository {
	return &Repository{store: store, engine: s.Engine()}
}

func (r *Repository) lookupKey(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	return r.engine.EncryptString(name), nil
}

// Exists reports whether a credential named name is stored.
func (r *Repository) Exists(ctx context.Context, name string) (bool, error) {
	key, err := r.lookupKey(name)
	if err != nil {
		return false, err
	}
	ok, err := r.store.ExistsByKey(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check %q: %w", name, err)
	}
	return ok, nil
}

// Get returns the credential stored under name, or ErrNotFound. The
// returned Name is the caller's plaintext name, not a decrypted field.
func (r *Repository) Get(ctx context.Context, name string) (Credential, error) {
	key, err := r.lookupKey(name)
	if err != nil {
		return Credential{}, err
	}

	recs, err := r.store.QueryByKey(ctx, key)
	if err != nil {
		return Credential{}, fmt.Errorf("get %q: %w", name, err)
	}
	if len(recs) == 0 {
		return Credential{}, fmt.Errorf("get %q: %w", name, ErrNotFound)
	}

	rec := recs[0]
	value, err := r.engine.DecryptString(rec.Value)
	if err != nil {
		return Credential{}, fmt.Errorf("decrypt value of %q: %w", name, err)
	}

	var info string
	if rec.Info != "" {
		info, err = r.engine.DecryptString(rec.Info)
		if err != nil {
			return Credential{}, fmt.Errorf("decrypt info of %q: %w", name, err)
		}
	}

	return NewCredential(name, value, info), nil
}

// Put stores a new credential. It returns ErrAlreadyExists without touching
// storage when the name is taken; callers that want to overwrite use Update.
func (r *Repository) Put(ctx context.Context, cred Credential) error {
	key, err := r.lookupKey(cred.Name)
	if err != nil {
		return err
	}

	exists, err := r.store.ExistsByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("check %q: %w", cred.Name, err)
	}
	if exists {
		return fmt.Errorf("put %q: %w", cred.Name, ErrAlreadyExists)
	}

	if err := r.store.Insert(ctx, r.seal(key, cred)); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return fmt.Errorf("put %q: %w", cred.Name, ErrAlreadyExists)
		}
		return fmt.Errorf("insert %q: %w", cred.Name, err)
	}
	return nil
}

// Update overwrites an existing credential, or returns ErrNotFound.
func (r *Repository) Update(ctx context.Context, cred Credential) error {
	key, err := r.lookupKey(cred.Name)
	if err != nil {
		return err
	}

	exists, err := r.store.ExistsByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("check %q: %w", cred.Name, err)
	}
	if !exists {
		return fmt.Errorf("update %q: %w", cred.Name, ErrNotFound)
	}

	if err := r.store.UpdateByKey(ctx, key, r.seal(key, cred)); err != nil {
		return fmt.Errorf("update %q: %w", cred.Name, err)
	}
	return nil
}

// Delete removes the credential named name. Deleting a missing credential
// succeeds; use Exists first to tell the two apart.
func (r *Repository) Delete(ctx context.Context, name string) error {
	key, err := r.lookupKey(name)
	if err != nil {
		return err
	}
	if err := r.store.DeleteByKey(ctx, key); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}

func (r *Repository) seal(key string, cred Credential) Record {
	rec := Record{Key: key, Value: r.engine.EncryptString(cred.Value)}
	if cred.HasInfo() {
		rec.Info = r.engine.EncryptString(cred.Info)
	}
	return rec
}
