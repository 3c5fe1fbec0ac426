package vault

import "context"

// Credential is a named secret in plaintext form. It only exists in memory;
// what reaches storage is a Record.
type Credential struct {
	Name  string
	Value string
	// Info is an optional note. An empty Info means no note and is never
	// stored as an empty field.
	Info string
}

// NewCredential builds a Credential. An empty info means no note.
func NewCredential(name, value, info string) Credential {
	return Credential{Name: name, Value: value, Info: info}
}

// HasInfo reports whether the credential carries a note.
func (c Credential) HasInfo() bool { return c.Info != "" }

// Record is the stored form of a Credential: each field independently
// encrypted and base64-encoded. An empty Info is persisted as NULL.
type Record struct {
	Key   string
	Value string
	Info  string
}

// Storage is the persistence collaborator. Keys are opaque, already
// encoded strings; implementations compare them exactly.
type Storage interface {
	QueryByKey(ctx context.Context, key string) ([]Record, error)
	Insert(ctx context.Context, rec Record) error
	UpdateByKey(ctx context.Context, key string, rec Record) error
	// DeleteByKey removes every record under key. Deleting a missing key is not an error.
	DeleteByKey(ctx context.Context, key string) error
	ExistsByKey(ctx context.Context, key string) (bool, error)
}

// Prompter is the interactive collaborator used during bootstrap and
// credential entry.
type Prompter interface {
	// ReadSecret reads a line without echoing it.
	ReadSecret(prompt string) (string, error)
	ReadLine(prompt string) (string, error)
	Confirm(prompt string) (bool, error)
}

// Logger receives operator-facing warnings and debug traces.
type Logger interface {
	Warnf(msg string, args ...any)
	Debugf(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Debugf(string, ...any) {}
