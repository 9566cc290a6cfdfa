package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/medinvest/medinvest/internal/client/navigation"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	st navigation.State

	calls []string
	arg   string
}

func (f *fakeExec) state() navigation.State { return f.st }

func (f *fakeExec) Next(ctx context.Context) error {
	f.calls = append(f.calls, "next")
	return nil
}

func (f *fakeExec) Skip(ctx context.Context) error {
	f.calls = append(f.calls, "skip")
	f.st = navigation.StateAuth
	return nil
}

func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.st = navigation.StateMain
	return nil
}

func (f *fakeExec) BiometricLogin(ctx context.Context) error {
	f.calls = append(f.calls, "biometric")
	return nil
}

func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}

func (f *fakeExec) Ask(ctx context.Context, q string) error {
	f.calls = append(f.calls, "ask")
	f.arg = q
	return nil
}

func (f *fakeExec) Summarize(ctx context.Context) error {
	f.calls = append(f.calls, "summarize")
	return nil
}

func (f *fakeExec) Moderate(ctx context.Context) error {
	f.calls = append(f.calls, "moderate")
	return nil
}

func (f *fakeExec) AnalyzeDeal(ctx context.Context) error {
	f.calls = append(f.calls, "deal")
	return nil
}

func (f *fakeExec) DisableBiometric(ctx context.Context) error {
	f.calls = append(f.calls, "biometric-off")
	return nil
}

func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.st = navigation.StateAuth
	return nil
}

func (f *fakeExec) DevReset(ctx context.Context) error {
	f.calls = append(f.calls, "dev-reset")
	f.st = navigation.StateOnboarding
	return nil
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &out
}

func TestRunREPL_FlowThroughStates(t *testing.T) {
	captureOutput(t)

	input := linesOf(strings.Join([]string{
		"help",
		"login",
		"next",
		"skip",
		"next",
		"login",
		"ask what is a SAFE note",
		"status",
		"logout",
		"foobar",
		"exit",
		"status",
	}, "\n"))

	exec := &fakeExec{st: navigation.StateOnboarding}
	runREPL(context.Background(), exec, func() string { return "status" }, input)

	assert.Equal(t, []string{"next", "skip", "login", "ask", "status", "logout"}, exec.calls)
	assert.Equal(t, "what is a SAFE note", exec.arg)
}

func TestRunREPL_RefusesCommandsOfOtherStates(t *testing.T) {
	out := captureOutput(t)

	input := linesOf("logout\nask x\nbiometric-off\nquit\n")
	exec := &fakeExec{st: navigation.StateAuth}
	runREPL(context.Background(), exec, func() string { return "s" }, input)

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Command not available here. Type 'help'.")
}

func TestRunREPL_UsageAndEOF(t *testing.T) {
	out := captureOutput(t)

	input := linesOf("ask\ndev-reset")
	exec := &fakeExec{st: navigation.StateMain}
	runREPL(context.Background(), exec, func() string { return "s" }, input)

	assert.Equal(t, []string{"dev-reset"}, exec.calls)
	assert.Contains(t, *out, "Usage: ask <question>")
}

func TestRunREPL_HelpDependsOnState(t *testing.T) {
	for st, want := range helpByState {
		out := captureOutput(t)
		exec := &fakeExec{st: st}
		runREPL(context.Background(), exec, func() string { return "s" }, linesOf("help\n"))
		assert.Contains(t, *out, want)
	}
}
