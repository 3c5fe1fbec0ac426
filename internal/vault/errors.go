package vault

import "errors"

var (
	// ErrAuthentication indicates the master passphrase did not unlock the secret key.
	ErrAuthentication = errors.New("vault: invalid master passphrase")

	// ErrNotInitialized indicates no secret key has been stored yet.
	ErrNotInitialized = errors.New("vault: not initialized")

	// ErrAlreadyInitialized indicates first-run setup was requested on a bootstrapped vault.
	ErrAlreadyInitialized = errors.New("vault: already initialized")

	// ErrAlreadyExists indicates a credential with the same name is already stored.
	ErrAlreadyExists = errors.New("vault: credential already exists")

	// ErrNotFound indicates no credential is stored under the requested name.
	ErrNotFound = errors.New("vault: credential not found")

	// ErrEmptyName indicates a credential name was empty.
	ErrEmptyName = errors.New("vault: credential name is required")
)
