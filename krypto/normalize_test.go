package krypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePassword(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		n         int
		want      string
		truncated bool
	}{
		{name: "truncates", input: "abcdefghij", n: 5, want: "abcde", truncated: true},
		{name: "repeats", input: "ab", n: 5, want: "ababa"},
		{name: "exact length unchanged", input: "abcde", n: 5, want: "abcde"},
		{name: "single char", input: "x", n: 4, want: "xxxx"},
		{name: "passphrase to 24", input: "CorrectHorse", n: 24, want: "CorrectHorseCorrectHorse"},
		{name: "empty input", input: "", n: 3, want: "\x00\x00\x00"},
		{name: "zero length", input: "abc", n: 0, want: "", truncated: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := NormalizePassword(tt.input, tt.n)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.truncated, truncated)
		})
	}
}

func TestNormalizePasswordIsByteExact(t *testing.T) {
	// Multi-byte characters are repeated byte-wise so the result is always n bytes.
	got, truncated := NormalizePassword("héllo", PasswordKeySize)
	assert.False(t, truncated)
	assert.Len(t, got, PasswordKeySize)

	long := strings.Repeat("é", 20) // 40 bytes
	got, truncated = NormalizePassword(long, PasswordKeySize)
	assert.True(t, truncated)
	assert.Len(t, got, PasswordKeySize)
	assert.Equal(t, long[:PasswordKeySize], got)
}
