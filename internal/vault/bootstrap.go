package vault

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Hussein-Mazeh/givme/auth"
	"github.com/Hussein-Mazeh/givme/krypto"
)

// SecretKeyName is the literal key of the record holding the encrypted secret key.
const SecretKeyName = "secret_key"

// PassphrasePolicy judges a candidate master passphrase at first run.
type PassphrasePolicy interface {
	Evaluate(ctx context.Context, pw string) auth.Assessment
}

// Bootstrapper resolves a Session from the master passphrase. Setup handles
// the first run, Unlock every run after it.
type Bootstrapper struct {
	store  Storage
	prompt Prompter
	policy PassphrasePolicy
	log    Logger
}

// NewBootstrapper wires a Bootstrapper. A nil policy falls back to
// auth.DefaultPolicy and a nil logger discards output.
func NewBootstrapper(store Storage, p Prompter, policy PassphrasePolicy, log Logger) *Bootstrapper {
	if policy == nil {
		policy = auth.DefaultPolicy()
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Bootstrapper{store: store, prompt: p, policy: policy, log: log}
}

// Initialized reports whether the secret key record exists.
func (b *Bootstrapper) Initialized(ctx context.Context) (bool, error) {
	ok, err := b.store.ExistsByKey(ctx, SecretKeyName)
	if err != nil {
		return false, fmt.Errorf("check secret key: %w", err)
	}
	return ok, nil
}

// Resolve runs Setup on a fresh vault and Unlock otherwise. After a setup
// the returned Session is immediately usable, so the caller can go on with
// the operation it was asked for.
func (b *Bootstrapper) Resolve(ctx context.Context) (*Session, error) {
	ok, err := b.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		b.log.Debugf("no secret key found, running first-time setup")
		return b.Setup(ctx)
	}
	return b.Unlock(ctx)
}

// Setup asks for a new master passphrase and bootstraps the vault with it.
func (b *Bootstrapper) Setup(ctx context.Context) (*Session, error) {
	ok, err := b.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, ErrAlreadyInitialized
	}

	pw, err := b.choosePassphrase(ctx)
	if err != nil {
		return nil, err
	}
	return b.SetupWith(ctx, pw)
}

// SetupWith bootstraps the vault with pw: a random secret is generated,
// encrypted with the normalized passphrase standing in for both engine keys,
// and stored under SecretKeyName.
func (b *Bootstrapper) SetupWith(ctx context.Context, pw string) (*Session, error) {
	ok, err := b.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, ErrAlreadyInitialized
	}

	passwordKey := b.passwordKey(pw)

	secret, err := krypto.RandomSecret(krypto.SecretKeySize)
	if err != nil {
		return nil, err
	}

	probe, err := krypto.NewEngine(krypto.KeyMaterial{PasswordKey: passwordKey, SecretKey: passwordKey})
	if err != nil {
		return nil, fmt.Errorf("build probe engine: %w", err)
	}

	b.log.Debugf("storing encrypted secret key")
	rec := Record{Key: SecretKeyName, Value: probe.EncryptString(secret)}
	if err := b.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("store secret key: %w", err)
	}

	return newSession(krypto.KeyMaterial{PasswordKey: passwordKey, SecretKey: secret})
}

// Unlock asks for the master passphrase and recovers the secret key.
func (b *Bootstrapper) Unlock(ctx context.Context) (*Session, error) {
	pw, err := b.prompt.ReadSecret("Enter your Master Key: ")
	if err != nil {
		return nil, fmt.Errorf("read master key: %w", err)
	}
	return b.UnlockWith(ctx, strings.TrimSpace(pw))
}

// UnlockWith recovers the secret key using pw. Any decryption failure of
// the stored probe, or a result that is not a well-formed secret, is
// reported as ErrAuthentication.
func (b *Bootstrapper) UnlockWith(ctx context.Context, pw string) (*Session, error) {
	recs, err := b.store.QueryByKey(ctx, SecretKeyName)
	if err != nil {
		return nil, fmt.Errorf("load secret key: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNotInitialized
	}

	raw, err := base64.StdEncoding.DecodeString(recs[0].Value)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}

	passwordKey := b.passwordKey(pw)
	probe, err := krypto.NewEngine(krypto.KeyMaterial{PasswordKey: passwordKey, SecretKey: passwordKey})
	if err != nil {
		return nil, fmt.Errorf("build probe engine: %w", err)
	}

	secret, err := probe.Decrypt(raw)
	if err != nil {
		if errors.Is(err, krypto.ErrInvalidLength) || errors.Is(err, krypto.ErrInvalidEncoding) {
			return nil, ErrAuthentication
		}
		return nil, fmt.Errorf("decrypt secret key: %w", err)
	}
	if !krypto.IsProbeSecret(secret, krypto.SecretKeySize) {
		return nil, ErrAuthentication
	}

	b.log.Debugf("secret key recovered")
	return newSession(krypto.KeyMaterial{PasswordKey: passwordKey, SecretKey: secret})
}

func (b *Bootstrapper) passwordKey(pw string) string {
	key, truncated := krypto.NormalizePassword(pw, krypto.PasswordKeySize)
	if truncated {
		b.log.Warnf("Master Key is longer than %d characters, only the first %d are used", krypto.PasswordKeySize, krypto.PasswordKeySize)
	}
	return key
}

// choosePassphrase loops until the operator enters a passphrase that is not
// on the deny-list and confirms it. The first deny-listed attempt gets a
// soft remark, later ones a firmer one; both re-prompt.
func (b *Bootstrapper) choosePassphrase(ctx context.Context) (string, error) {
	warned := false
	for {
		pw, err := b.prompt.ReadSecret("Set your Master Key: ")
		if err != nil {
			return "", fmt.Errorf("read master key: %w", err)
		}
		pw = strings.TrimSpace(pw)
		if pw == "" {
			b.log.Warnf("Master Key cannot be empty")
			continue
		}

		assessment := b.policy.Evaluate(ctx, pw)
		if assessment.Common {
			if warned {
				b.log.Warnf("This is a very common password. Try something else.")
			} else {
				b.log.Warnf("Seriously?? Pick something that is not on every cracking list.")
				warned = true
			}
			continue
		}
		for _, w := range assessment.Warnings {
			b.log.Warnf("%s", w)
		}

		confirm, err := b.prompt.ReadSecret("Confirm your Master Key: ")
		if err != nil {
			return "", fmt.Errorf("read master key confirmation: %w", err)
		}
		if strings.TrimSpace(confirm) != pw {
			b.log.Warnf("Unmatched Master Key. Try again...")
			continue
		}
		return pw, nil
	}
}
