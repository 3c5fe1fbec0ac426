// Package prompt reads operator input from a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Hussein-Mazeh/givme/internal/vault"
)

var _ vault.Prompter = (*Terminal)(nil)

// Terminal prompts on Out and reads from In. Secrets are read without echo
// when In is a terminal; otherwise they are read as plain lines, which
// keeps piped input working.
type Terminal struct {
	in     *os.File
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminal prompts on stderr and reads from stdin.
func NewTerminal() *Terminal {
	return NewTerminalWith(os.Stdin, os.Stderr)
}

// NewTerminalWith prompts on out and reads from in.
func NewTerminalWith(in *os.File, out io.Writer) *Terminal {
	return &Terminal{in: in, reader: bufio.NewReader(in), out: out}
}

func (t *Terminal) isTerminal() bool {
	return term.IsTerminal(int(t.in.Fd()))
}

// ReadSecret prints prompt and reads a line without echoing it.
func (t *Terminal) ReadSecret(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	if !t.isTerminal() {
		return t.readLine()
	}

	pw, err := term.ReadPassword(int(t.in.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(pw), nil
}

// ReadLine prints prompt and reads one line, without the line terminator.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	return t.readLine()
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	answer, err := t.ReadLine(prompt + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
