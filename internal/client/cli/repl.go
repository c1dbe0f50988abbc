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
// args holds the tokens that followed the command name.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Range(ctx context.Context, args []string) error
	Category(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Summary(ctx context.Context, args []string) error
	Total(ctx context.Context, args []string) error
	Chart(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
	Archive(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: add, (l)ist [skip] [limit], range [from] [to], category <name>, " +
		"show <id>, delete <id>, summary [from] [to], total [from] [to], chart [from] [to], " +
		"report [from] [to], archive [from] [to], me, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the expense keeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands other than help, register, login and
// exit require a logged-in session. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ek %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if err := dispatch(ctx, a, cmd, args); err != nil {
			if errors.Is(err, errQuit) {
				printlnFn("Bye!")
				return
			}
			printlnFn("error:", err)
		}
	}
}

var (
	errQuit        = errors.New("quit")
	errNotLoggedIn = errors.New("please login first")
)

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "exit", "quit":
		return errQuit
	}

	cmds := map[string]func() error{
		"logout":   func() error { return a.Logout(ctx) },
		"me":       func() error { return a.Me(ctx) },
		"add":      func() error { return a.Add(ctx) },
		"l":        func() error { return a.List(ctx, args) },
		"list":     func() error { return a.List(ctx, args) },
		"range":    func() error { return a.Range(ctx, args) },
		"category": func() error { return a.Category(ctx, args) },
		"show":     func() error { return a.Show(ctx, args) },
		"delete":   func() error { return a.Delete(ctx, args) },
		"summary":  func() error { return a.Summary(ctx, args) },
		"total":    func() error { return a.Total(ctx, args) },
		"chart":    func() error { return a.Chart(ctx, args) },
		"report":   func() error { return a.Report(ctx, args) },
		"archive":  func() error { return a.Archive(ctx, args) },
	}

	fn, ok := cmds[cmd]
	if !ok {
		printlnFn("Unknown command:", cmd)
		return nil
	}
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return fn()
}
