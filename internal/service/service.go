// Package service composes storage, bootstrap and the credential repository
// into the operations exposed by the command line.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Hussein-Mazeh/givme/internal/config"
	"github.com/Hussein-Mazeh/givme/internal/db"
	"github.com/Hussein-Mazeh/givme/internal/logging"
	"github.com/Hussein-Mazeh/givme/internal/vault"
	"github.com/Hussein-Mazeh/givme/store"
)

// ErrNotOverwritten is returned by Store when the operator declines to
// replace an existing credential.
var ErrNotOverwritten = errors.New("existing credential kept")

// Service exposes high-level vault operations for the CLI.
type Service struct {
	db      *db.DB
	records *db.RecordStore
	boot    *vault.Bootstrapper
	prompt  vault.Prompter
	log     *logging.Logger

	session *vault.Session
	repo    *vault.Repository
}

// New opens the vault database named by cfg. The vault stays locked until
// the first operation that needs key material.
func New(ctx context.Context, cfg *config.Config, p vault.Prompter, log *logging.Logger) (*Service, error) {
	if log == nil {
		log = logging.New(false, false)
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open vault (%s): %w", cfg.DBPath, err)
	}
	log.Infof("using vault %s", database.Path())

	records := db.NewRecordStore(database)
	return &Service{
		db:      database,
		records: records,
		boot:    vault.NewBootstrapper(records, p, cfg.Policy(), log),
		prompt:  p,
		log:     log,
	}, nil
}

// Close releases the database.
func (s *Service) Close() error {
	s.session = nil
	s.repo = nil
	return s.db.Close()
}

// Init runs first-run setup explicitly.
func (s *Service) Init(ctx context.Context) error {
	session, err := s.boot.Setup(ctx)
	if err != nil {
		return err
	}
	s.setSession(session)
	s.log.Infof("vault initialized")
	return nil
}

// Unlock resolves the session, running first-run setup when the vault is
// new. It is a no-op once unlocked.
func (s *Service) Unlock(ctx context.Context) error {
	if s.session != nil {
		return nil
	}
	session, err := s.boot.Resolve(ctx)
	if err != nil {
		return err
	}
	s.setSession(session)
	return nil
}

func (s *Service) setSession(session *vault.Session) {
	s.session = session
	s.repo = vault.NewRepository(s.records, session)
}

// Get returns the credential stored under name.
func (s *Service) Get(ctx context.Context, name string) (vault.Credential, error) {
	if err := s.Unlock(ctx); err != nil {
		return vault.Credential{}, err
	}
	s.log.Debugf("looking up %q", name)
	return s.repo.Get(ctx, name)
}

// Store saves cred. When the name is taken the operator is asked whether to
// overwrite, unless force is set.
func (s *Service) Store(ctx context.Context, cred vault.Credential, force bool) error {
	if err := s.Unlock(ctx); err != nil {
		return err
	}

	err := s.repo.Put(ctx, cred)
	if !errors.Is(err, vault.ErrAlreadyExists) {
		return err
	}

	if !force {
		ok, err := s.prompt.Confirm(fmt.Sprintf("'%s' already exists. Overwrite?", cred.Name))
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if !ok {
			return ErrNotOverwritten
		}
	}

	s.log.Debugf("overwriting %q", cred.Name)
	return s.repo.Update(ctx, cred)
}

// Delete removes the credential stored under name and reports whether it
// existed.
func (s *Service) Delete(ctx context.Context, name string) (bool, error) {
	if err := s.Unlock(ctx); err != nil {
		return false, err
	}

	existed, err := s.repo.Exists(ctx, name)
	if err != nil {
		return false, err
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return false, err
	}
	return existed, nil
}

// SecretKey returns the secret key recovered at unlock.
func (s *Service) SecretKey(ctx context.Context) (string, error) {
	if err := s.Unlock(ctx); err != nil {
		return "", err
	}
	return s.session.SecretKey(), nil
}

// EncryptFile encrypts the contents of src with the session keys and writes
// the base64 result to dst.
func (s *Service) EncryptFile(ctx context.Context, src, dst string) error {
	if err := s.Unlock(ctx); err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	sealed := s.session.Engine().EncryptString(base64.StdEncoding.EncodeToString(data))
	if err := store.WriteFileAtomic(dst, []byte(sealed)); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	s.log.Infof("encrypted %s -> %s (%d bytes)", src, dst, len(data))
	return nil
}

// DecryptFile reverses EncryptFile.
func (s *Service) DecryptFile(ctx context.Context, src, dst string) error {
	if err := s.Unlock(ctx); err != nil {
		return err
	}

	sealed, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	encoded, err := s.session.Engine().DecryptString(strings.TrimSpace(string(sealed)))
	if err != nil {
		return fmt.Errorf("decrypt %s: %w", src, err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}

	if err := store.WriteFileAtomic(dst, data); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	s.log.Infof("decrypted %s -> %s (%d bytes)", src, dst, len(data))
	return nil
}
