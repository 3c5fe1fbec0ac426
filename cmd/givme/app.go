package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/Hussein-Mazeh/givme/internal/config"
	"github.com/Hussein-Mazeh/givme/internal/logging"
	"github.com/Hussein-Mazeh/givme/internal/service"
	"github.com/Hussein-Mazeh/givme/internal/vault"
)

// app carries the state shared by every command of one invocation.
type app struct {
	dbPath  string
	verbose bool
	debug   bool

	prompt     vault.Prompter
	out        io.Writer
	errOut     io.Writer
	loadConfig func() (*config.Config, error)

	log *logging.Logger
	cfg *config.Config
	svc *service.Service
}

// newApp prints command output on out and diagnostics on errOut.
func newApp(p vault.Prompter, out, errOut io.Writer) *app {
	return &app{prompt: p, out: out, errOut: errOut, loadConfig: config.Load}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return userError{msg: err.Error()}
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	a.log = logging.New(a.verbose, a.debug || cfg.Debug)
	a.log.Out, a.log.Err = a.errOut, a.errOut
	a.log.Debugf("running %q with vault %s", cmd.CommandPath(), cfg.DBPath)
	return nil
}

// report prints err and returns the process exit code: 1 for user errors,
// 2 for anything unexpected.
func (a *app) report(err error) int {
	if err == nil {
		return 0
	}

	log := a.log
	if log == nil {
		log = &logging.Logger{Out: a.errOut, Err: a.errOut}
	}

	var uerr userError
	if errors.As(err, &uerr) {
		log.Errorf("%s", uerr.Error())
		return 1
	}

	log.Errorf("unexpected error: %v", err)
	return 2
}

// close releases the vault if a command opened it.
func (a *app) close() error {
	if a.svc == nil {
		return nil
	}
	err := a.svc.Close()
	a.svc = nil
	return err
}

// service opens the vault on first use.
func (a *app) service(ctx context.Context) (*service.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	svc, err := service.New(ctx, a.cfg, a.prompt, a.log)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

// unlocked opens the vault and resolves the session.
func (a *app) unlocked(ctx context.Context) (*service.Service, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}
	if err := svc.Unlock(ctx); err != nil {
		return nil, explain(err)
	}
	return svc, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// startSpinner shows progress for slow operations unless verbose output
// would interleave with it.
func (a *app) startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Writer = a.out
	_ = s.Color("cyan")

	quiet := !a.log.Verbose && !a.log.Debug
	if quiet {
		s.Start()
	} else {
		a.log.Infof("%s", message)
	}

	return s, func() {
		if s.Active() {
			s.Stop()
			return
		}
		if s.FinalMSG != "" {
			a.printf("%s", s.FinalMSG)
		}
	}
}

// explain turns expected vault failures into user errors; anything else is
// passed through and reported as unexpected.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, vault.ErrAuthentication):
		return userError{msg: "Wrong Master Key."}
	case errors.Is(err, vault.ErrNotInitialized):
		return userError{msg: "The vault has not been set up yet. Run 'givme init'."}
	case errors.Is(err, vault.ErrAlreadyInitialized):
		return userError{msg: "The vault is already set up."}
	case errors.Is(err, vault.ErrEmptyName):
		return userError{msg: "A credential name is required."}
	default:
		return err
	}
}
