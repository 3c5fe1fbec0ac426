package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hussein-Mazeh/givme/internal/config"
	"github.com/Hussein-Mazeh/givme/internal/prompt"
)

const master = "v9#Lq!zT4m@Rw8pX"

type harness struct {
	t      *testing.T
	dir    string
	dbPath string
	// stderr holds the diagnostics of the last run.
	stderr string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	color.NoColor = true
	for _, key := range []string{"GIVME_DB_PATH", "GIVME_DEBUG", "GIVME_CHECK_BREACHED"} {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
			os.Unsetenv(key)
		}
	}
	dir := t.TempDir()
	return &harness{t: t, dir: dir, dbPath: filepath.Join(dir, "cred.db")}
}

// run executes one givme invocation with scripted answers and returns stdout.
func (h *harness) run(answers []string, args ...string) (string, error) {
	h.t.Helper()

	var out, errOut bytes.Buffer
	a := newApp(prompt.NewScript(answers...), &out, &errOut)
	a.loadConfig = func() (*config.Config, error) { return config.LoadFrom(h.dir) }

	root := a.rootCmd()
	root.SetArgs(append([]string{"--db", h.dbPath}, args...))
	root.SetOut(&out)
	err := root.Execute()
	require.NoError(h.t, a.close())
	h.stderr = errOut.String()
	return out.String(), err
}

func TestStoreAndGet(t *testing.T) {
	h := newHarness(t)

	// First run sets the Master Key and stores in one go.
	out, err := h.run([]string{master, master, "s3cr3t", "personal"}, "store", "github")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored 'github'")

	out, err = h.run([]string{master}, "get", "github")
	require.NoError(t, err)
	assert.Equal(t, "Here's your 'github': s3cr3t\nNote: personal\n", out)

	out, err = h.run([]string{master}, "github")
	require.NoError(t, err)
	assert.Contains(t, out, "Here's your 'github': s3cr3t")

	out, err = h.run([]string{master}, "get", "-r", "github")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t\n", out)
}

func TestStoreAskBeforeOverwrite(t *testing.T) {
	h := newHarness(t)

	_, err := h.run([]string{master, master, "one", ""}, "store", "github")
	require.NoError(t, err)

	out, err := h.run([]string{master, "two", "", "n"}, "store", "github")
	require.NoError(t, err)
	assert.Contains(t, out, "Kept the existing 'github'")

	_, err = h.run([]string{master, "three"}, "store", "--force", "--info", "work", "github")
	require.NoError(t, err)

	out, err = h.run([]string{master}, "get", "github")
	require.NoError(t, err)
	assert.Equal(t, "Here's your 'github': three\nNote: work\n", out)
}

func TestUserErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run([]string{master, master}, "init")
	require.NoError(t, err)

	_, err = h.run(nil, "init")
	assert.ErrorAs(t, err, &userError{})

	_, err = h.run([]string{"wrong"}, "get", "github")
	var uerr userError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Wrong Master Key.", uerr.msg)

	_, err = h.run([]string{master}, "get", "missing")
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, uerr.msg, "missing")
}

func TestDeleteAndSecretKey(t *testing.T) {
	h := newHarness(t)

	_, err := h.run([]string{master, master, "s3cr3t", ""}, "store", "github")
	require.NoError(t, err)

	out, err := h.run([]string{master}, "delete", "github")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 'github'")

	out, err = h.run([]string{master}, "delete", "github")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing stored under 'github'")

	out, err = h.run([]string{master}, "secret-key")
	require.NoError(t, err)
	assert.Len(t, out, 33)
}

func TestFileCommands(t *testing.T) {
	h := newHarness(t)
	src := filepath.Join(h.dir, "notes.txt")
	enc := filepath.Join(h.dir, "notes.enc")
	dst := filepath.Join(h.dir, "notes.out")
	require.NoError(t, os.WriteFile(src, []byte("meet at noon"), 0o600))

	_, err := h.run([]string{master, master}, "encrypt-file", src, enc)
	require.NoError(t, err)

	_, err = h.run([]string{master}, "decrypt-file", enc, dst)
	require.NoError(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "meet at noon", string(got))
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(nil, "version")
	require.NoError(t, err)
	assert.Equal(t, cliVersion+"\n", out)
}

func TestRawOutputStaysCleanWhenVerbose(t *testing.T) {
	h := newHarness(t)

	_, err := h.run([]string{master, master, "s3cr3t", "personal"}, "store", "github")
	require.NoError(t, err)

	for _, flag := range []string{"--verbose", "--debug"} {
		out, err := h.run([]string{master}, flag, "get", "-r", "github")
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t\n", out, flag)
		assert.Contains(t, h.stderr, "[info] using vault", flag)
	}

	t.Setenv("GIVME_DEBUG", "1")
	out, err := h.run([]string{master}, "get", "-r", "github")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t\n", out)
	assert.Contains(t, h.stderr, "[debug]")
}

func TestShorthandRaw(t *testing.T) {
	h := newHarness(t)

	_, err := h.run([]string{master, master, "s3cr3t", "personal"}, "store", "github")
	require.NoError(t, err)

	out, err := h.run([]string{master}, "github", "-r")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t\n", out)

	out, err = h.run([]string{master}, "--raw", "github")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t\n", out)
}

func TestReportExitCodes(t *testing.T) {
	color.NoColor = true

	var out, errOut bytes.Buffer
	a := newApp(prompt.NewScript(), &out, &errOut)

	assert.Equal(t, 0, a.report(nil))
	assert.Empty(t, errOut.String())

	assert.Equal(t, 1, a.report(userError{msg: "Wrong Master Key."}))
	assert.Equal(t, "[error] Wrong Master Key.\n", errOut.String())

	errOut.Reset()
	assert.Equal(t, 2, a.report(errors.New("disk on fire")))
	assert.Equal(t, "[error] unexpected error: disk on fire\n", errOut.String())
	assert.Empty(t, out.String())
}
