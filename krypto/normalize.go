package krypto

import "strings"

// Key sizes used by the engine, in bytes.
const (
	// PasswordKeySize is the Triple-DES key length derived from the master passphrase.
	PasswordKeySize = 24
	// SecretKeySize is the length of the random secret stored at first run.
	SecretKeySize = 32
)

// NormalizePassword stretches or cuts input to exactly n bytes.
//
// Longer input is truncated to its first n bytes and truncated is reported
// so the caller can warn the operator. Shorter input is repeated byte by
// byte until n bytes have been produced. This is not a KDF: the mapping is
// deterministic and keeps the passphrase entropy as-is.
//
// An empty input has nothing to repeat and yields n NUL bytes.
func NormalizePassword(input string, n int) (key string, truncated bool) {
	if n <= 0 {
		return "", len(input) > 0
	}
	if len(input) > n {
		return input[:n], true
	}
	if input == "" {
		return strings.Repeat("\x00", n), false
	}

	var b strings.Builder
	b.Grow(n)
	for b.Len() < n {
		for i := 0; i < len(input) && b.Len() < n; i++ {
			b.WriteByte(input[i])
		}
	}
	return b.String(), false
}
