// Package logging prints prefixed, colored operator messages.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger writes info and debug lines to Out and warnings and errors to Err.
// Info lines need Verbose, debug lines need Debug. Both default to stderr so
// command output on stdout stays pipeable.
type Logger struct {
	Verbose bool
	Debug   bool

	Out io.Writer
	Err io.Writer
}

// New returns a Logger writing to the process stderr.
func New(verbose, debug bool) *Logger {
	return &Logger{Verbose: verbose || debug, Debug: debug, Out: os.Stderr, Err: os.Stderr}
}

func (l *Logger) out() io.Writer {
	if l.Out == nil {
		return os.Stderr
	}
	return l.Out
}

func (l *Logger) err() io.Writer {
	if l.Err == nil {
		return os.Stderr
	}
	return l.Err
}

func (l *Logger) Infof(msg string, args ...any) {
	if l.Verbose {
		fmt.Fprintf(l.out(), color.GreenString("[info] ")+msg+"\n", args...)
	}
}

func (l *Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		fmt.Fprintf(l.out(), color.CyanString("[debug] ")+msg+"\n", args...)
	}
}

func (l *Logger) Warnf(msg string, args ...any) {
	fmt.Fprintf(l.err(), color.YellowString("[warn] ")+msg+"\n", args...)
}

func (l *Logger) Errorf(msg string, args ...any) {
	fmt.Fprintf(l.err(), color.RedString("[error] ")+msg+"\n", args...)
}
