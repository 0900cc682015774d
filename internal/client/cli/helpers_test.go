package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/tadpole/internal/client/repositories/users"
	"github.com/dmitrijs2005/tadpole/internal/client/services"
	"github.com/dmitrijs2005/tadpole/internal/cryptox"
	"github.com/dmitrijs2005/tadpole/internal/logging"
	"github.com/stretchr/testify/require"
)

var fastHasher = cryptox.NewHasher(cryptox.Params{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 32})

type testApp struct {
	*App
	out  *bytes.Buffer
	repo *users.MemoryRepository
}

// stubNoTerminal makes GetPassword read plain lines from the reader.
func stubNoTerminal(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

// newTestApp builds an App over a seeded memory directory whose input is
// the given script, one answer per line.
func newTestApp(t *testing.T, script ...string) *testApp {
	t.Helper()
	stubNoTerminal(t)

	ctx := context.Background()
	repo := users.NewMemoryRepository()
	require.NoError(t, services.EnsureAdmin(ctx, repo, fastHasher, services.DefaultAdminSeed, logging.Discard()))

	dir := services.NewDirectoryService(repo, services.DirectoryOptions{Hasher: fastHasher})
	t.Cleanup(func() { _ = dir.Close() })
	require.NoError(t, dir.Refresh(ctx))

	sess := services.NewSessionService(dir, services.SessionOptions{Hasher: fastHasher})

	input := ""
	if len(script) > 0 {
		input = strings.Join(script, "\n") + "\n"
	}
	out := &bytes.Buffer{}
	app := NewApp(dir, sess, bufio.NewReader(strings.NewReader(input)), out, logging.Discard())
	t.Cleanup(app.unsubscribe)

	return &testApp{App: app, out: out, repo: repo}
}

// feed replaces the remaining input of a.
func (a *testApp) feed(lines ...string) {
	a.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func (a *testApp) loginAdmin(t *testing.T) {
	t.Helper()
	a.feed("admin", "admin123")
	require.NoError(t, a.Login(context.Background()))
	require.True(t, a.isAdmin())
}

// captureREPL redirects printlnFn for the duration of the test.
func captureREPL(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}
