package prompt

import (
	"errors"
	"strings"
	"sync"

	"github.com/Hussein-Mazeh/givme/internal/vault"
)

var _ vault.Prompter = (*Script)(nil)

// ErrScriptExhausted is returned when a Script runs out of answers.
var ErrScriptExhausted = errors.New("prompt: no scripted answer left")

// Script is a Prompter that replays canned answers in order. It stands in
// for the terminal in tests and non-interactive callers.
type Script struct {
	mu      sync.Mutex
	answers []string
	asked   []string
}

// NewScript returns a Script answering with answers in order.
func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

func (s *Script) next(prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.asked = append(s.asked, prompt)
	if len(s.answers) == 0 {
		return "", ErrScriptExhausted
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *Script) ReadSecret(prompt string) (string, error) { return s.next(prompt) }

func (s *Script) ReadLine(prompt string) (string, error) { return s.next(prompt) }

func (s *Script) Confirm(prompt string) (bool, error) {
	a, err := s.next(prompt)
	if err != nil {
		return false, err
	}
	a = strings.ToLower(strings.TrimSpace(a))
	return a == "y" || a == "yes", nil
}

// Asked returns the prompts shown so far.
func (s *Script) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

// Remaining reports how many answers are left.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}
