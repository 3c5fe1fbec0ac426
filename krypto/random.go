package krypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

// probeAlphabet is printable ASCII without the single quote, so a secret can
// be embedded in a quoted SQL literal without escaping.
var probeAlphabet = func() string {
	var b strings.Builder
	for c := byte(0x20); c < 0x7f; c++ {
		if c != '\'' {
			b.WriteByte(c)
		}
	}
	return b.String()
}()

// RandomSecret returns n characters drawn uniformly from probeAlphabet
// using crypto/rand.
func RandomSecret(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("secret length must be positive")
	}

	// Largest multiple of the alphabet size that fits in a byte; values at or
	// above it are rejected to keep the draw unbiased.
	limit := 256 - 256%len(probeAlphabet)

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate secret: %w", err)
		}
		for _, v := range buf {
			if int(v) >= limit {
				continue
			}
			out = append(out, probeAlphabet[int(v)%len(probeAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// IsProbeSecret reports whether s could have been produced by RandomSecret(n).
func IsProbeSecret(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(probeAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}
