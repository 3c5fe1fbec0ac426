package main

import (
	"os"

	"github.com/Hussein-Mazeh/givme/internal/prompt"
)

const cliVersion = "0.1.0"

type userError struct {
	msg string
}

func (e userError) Error() string { return e.msg }

func main() {
	a := newApp(prompt.NewTerminal(), os.Stdout, os.Stderr)
	err := a.rootCmd().Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	os.Exit(a.report(err))
}
