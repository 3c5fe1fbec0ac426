package auth

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/nbutton23/zxcvbn-go"
)

const specialChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_{|}~`"

// DefaultMinScore is the zxcvbn score below which a passphrase draws a warning.
const DefaultMinScore = 2

// commonPassphrases are refused outright when choosing a master passphrase.
var commonPassphrases = []string{
	"123456",
	"123456789",
	"picture1",
	"password",
	"12345678",
	"111111",
	"123123",
	"12345",
	"1234567890",
	"senha",
}

// Assessment is the outcome of evaluating a candidate master passphrase.
// Only Common blocks the passphrase; everything else is advisory.
type Assessment struct {
	Common      bool
	Score       int
	Breached    bool
	BreachCount int
	Warnings    []string
}

// Policy evaluates candidate master passphrases.
type Policy struct {
	// MinScore is the zxcvbn score (0-4) under which a weakness warning is added.
	MinScore int
	// Breaches, when set, is queried for every candidate that passes the deny-list.
	Breaches *BreachChecker
}

// DefaultPolicy returns a policy with the deny-list, zxcvbn scoring and no breach lookup.
func DefaultPolicy() *Policy {
	return &Policy{MinScore: DefaultMinScore}
}

// IsCommon reports whether pw is on the deny-list.
func IsCommon(pw string) bool {
	for _, c := range commonPassphrases {
		if pw == c {
			return true
		}
	}
	return false
}

// Evaluate scores pw. Network failures of the breach lookup become a warning
// rather than an error so setup keeps working offline.
func (p *Policy) Evaluate(ctx context.Context, pw string) Assessment {
	var a Assessment
	if IsCommon(pw) {
		a.Common = true
		return a
	}

	a.Score = zxcvbn.PasswordStrength(pw, nil).Score
	if a.Score < p.MinScore {
		a.Warnings = append(a.Warnings, fmt.Sprintf("passphrase is weak (strength %d/4)", a.Score))
		a.Warnings = append(a.Warnings, characterHints(pw)...)
	}

	if p.Breaches != nil {
		res, err := p.Breaches.Check(ctx, pw)
		switch {
		case err != nil:
			a.Warnings = append(a.Warnings, "could not check passphrase against known breaches")
		case res.Found:
			a.Breached = true
			a.BreachCount = res.Count
			a.Warnings = append(a.Warnings, fmt.Sprintf("passphrase appears in %d known breaches", res.Count))
		}
	}
	return a
}

// characterHints suggests which character classes would strengthen pw.
func characterHints(pw string) []string {
	var hints []string
	if len(pw) < 12 {
		hints = append(hints, "use at least 12 characters")
	}
	if !hasUpper(pw) {
		hints = append(hints, "add an uppercase letter")
	}
	if !hasDigit(pw) {
		hints = append(hints, "add a digit")
	}
	if !hasSpecial(pw) {
		hints = append(hints, "add a special character")
	}
	return hints
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasSpecial(s string) bool {
	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			return true
		}
	}
	return false
}
