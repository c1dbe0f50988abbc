package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Me(ctx context.Context) error  { return f.record("me", nil) }
func (f *fakeExec) Add(ctx context.Context) error { return f.record("add", nil) }
func (f *fakeExec) List(ctx context.Context, args []string) error {
	return f.record("list", args)
}
func (f *fakeExec) Range(ctx context.Context, args []string) error {
	return f.record("range", args)
}
func (f *fakeExec) Category(ctx context.Context, args []string) error {
	return f.record("category", args)
}
func (f *fakeExec) Show(ctx context.Context, args []string) error {
	return f.record("show", args)
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	f.record("delete", args)
	return errors.New("boom")
}
func (f *fakeExec) Summary(ctx context.Context, args []string) error {
	return f.record("summary", args)
}
func (f *fakeExec) Total(ctx context.Context, args []string) error {
	return f.record("total", args)
}
func (f *fakeExec) Chart(ctx context.Context, args []string) error {
	return f.record("chart", args)
}
func (f *fakeExec) Report(ctx context.Context, args []string) error {
	return f.record("report", args)
}
func (f *fakeExec) Archive(ctx context.Context, args []string) error {
	return f.record("archive", args)
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			} else if e, ok := v.(error); ok {
				parts = append(parts, e.Error())
			}
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &printed
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	printed := silence(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"list",
		"login",
		"help",
		"add",
		"l 5 10",
		"show 123",
		"summary 2024-01-01 2024-01-31",
		"delete 9",
		"foobar",
		"logout",
		"exit",
		"me",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	assert.Equal(t, []string{"login", "add", "list", "show", "summary", "delete", "logout"}, exec.calls)
	assert.Equal(t, []string{"5", "10"}, exec.args[2])
	assert.Equal(t, []string{"2024-01-01", "2024-01-31"}, exec.args[4])

	assert.Contains(t, *printed, helpLoggedOut)
	assert.Contains(t, *printed, helpLoggedIn)
	assert.Contains(t, *printed, "error: please login first")
	assert.Contains(t, *printed, "error: boom")
	assert.Contains(t, *printed, "Unknown command: foobar")
	assert.Equal(t, "Bye!", (*printed)[len(*printed)-1])
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	silence(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("\n\ntotal")))

	assert.Equal(t, []string{"total"}, exec.calls)
}

func TestRunREPL_QuitImmediately(t *testing.T) {
	silence(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("quit\nlist\n")))

	assert.Empty(t, exec.calls)
}

func TestRangeArgs(t *testing.T) {
	assert.Equal(t, "", rangeArgs(nil).From)
	r := rangeArgs([]string{"-", "2024-02-01"})
	assert.Equal(t, "", r.From)
	assert.Equal(t, "2024-02-01", r.To)
	r = rangeArgs([]string{"2024-01-01"})
	assert.Equal(t, "2024-01-01", r.From)
	assert.Equal(t, "", r.To)
}
