package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Passwd(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, help, exit"
	helpUser      = "Available commands: whoami, passwd, logout, help, exit"
	helpAdmin     = "Available commands: (l)ist, add, update <id>, delete <id>, whoami, passwd, logout, help, exit"
)

// runREPL starts a simple read-eval-print loop for the tadpole CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands outside the current role's set are
// reported as unavailable. The loop exits on EOF, when the user types
// "exit" or "quit", or when ctx is done.
//
//	Logged out:        login, help, exit | quit
//	Standard user:     whoami, passwd, logout, help, exit | quit
//	Administrator:     list, add, update <id>, delete <id>, whoami, passwd,
//	                   logout, help, exit | quit
//
// Handler errors are printed and do not stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("tadpole%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || len(line) == 0) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if !allowed(a, cmd) {
			printlnFn("Unknown command:", cmd)
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpUser)
			default:
				printlnFn(helpLoggedOut)
			}
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "passwd":
			cmdErr = a.Passwd(ctx)
		case "l", "list":
			cmdErr = a.List(ctx)
		case "add":
			cmdErr = a.Add(ctx)
		case "update":
			cmdErr = a.Update(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
	}
}

// allowed reports whether cmd belongs to the command set of the current role.
func allowed(a execIface, cmd string) bool {
	switch cmd {
	case "help":
		return true
	case "login":
		return !a.isLoggedIn()
	case "logout", "whoami", "passwd":
		return a.isLoggedIn()
	case "l", "list", "add", "update", "delete":
		return a.isAdmin()
	}
	return false
}
