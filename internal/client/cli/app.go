package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/client/services"
	"github.com/dmitrijs2005/tadpole/internal/logging"
)

// loginForm holds what the login prompt keeps after a successful login.
type loginForm struct {
	loginName string
}

type App struct {
	directory services.DirectoryService
	session   services.SessionService
	reader    *bufio.Reader
	out       io.Writer
	log       logging.Logger

	login       loginForm
	snapshots   <-chan models.Snapshot
	unsubscribe func()
	last        models.Snapshot
}

// NewApp wires the REPL to the directory and session services. Prompts and
// command output go to out, input is read from reader.
func NewApp(dir services.DirectoryService, sess services.SessionService, reader *bufio.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}

	a := &App{
		directory: dir,
		session:   sess,
		reader:    reader,
		out:       out,
		log:       log.With("module", "cli"),
	}
	a.snapshots, a.unsubscribe = dir.Subscribe()
	sess.OnLogout(a.clearLoginFields)
	return a
}

// Run starts the REPL and blocks until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.unsubscribe()
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.State() != services.StateLoggedOut
}

func (a *App) isAdmin() bool {
	return a.session.State() == services.StateLoggedInAdmin
}

// getStatus renders the prompt suffix: empty when logged out, the login name
// and role otherwise.
func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf(" [%s, %s]", a.login.loginName, a.session.State())
}

// latest drains pending snapshots and returns the newest one seen so far.
func (a *App) latest() models.Snapshot {
	for {
		select {
		case s, ok := <-a.snapshots:
			if !ok {
				return a.last
			}
			a.last = s
		default:
			return a.last
		}
	}
}

// clearLoginFields resets the login form. It runs on every logout.
func (a *App) clearLoginFields() {
	a.login = loginForm{}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
