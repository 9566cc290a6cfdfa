package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/medinvest/medinvest/internal/client/console"
	"github.com/medinvest/medinvest/internal/client/navigation"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	state() navigation.State

	Next(ctx context.Context) error
	Skip(ctx context.Context) error

	Login(ctx context.Context) error
	BiometricLogin(ctx context.Context) error

	Status(ctx context.Context) error
	Ask(ctx context.Context, question string) error
	Summarize(ctx context.Context) error
	Moderate(ctx context.Context) error
	AnalyzeDeal(ctx context.Context) error
	DisableBiometric(ctx context.Context) error
	Logout(ctx context.Context) error

	DevReset(ctx context.Context) error
}

var helpByState = map[navigation.State]string{
	navigation.StateOnboarding: "Available commands: next, skip, exit",
	navigation.StateAuth:       "Available commands: login, biometric, exit",
	navigation.StateMain:       "Available commands: status, ask <question>, summarize, moderate, deal, biometric-off, logout, exit",
}

// commandState lists the stack each command belongs to. Commands missing
// here work everywhere.
var commandState = map[string]navigation.State{
	"next":          navigation.StateOnboarding,
	"skip":          navigation.StateOnboarding,
	"login":         navigation.StateAuth,
	"biometric":     navigation.StateAuth,
	"status":        navigation.StateMain,
	"ask":           navigation.StateMain,
	"summarize":     navigation.StateMain,
	"moderate":      navigation.StateMain,
	"deal":          navigation.StateMain,
	"biometric-off": navigation.StateMain,
	"logout":        navigation.StateMain,
}

// runREPL starts a simple read–eval–print loop for the MedInvest client.
//
// It reads a line from lines, parses the first token as the command and
// dispatches to methods on a. Commands that do not belong to the active
// stack are refused. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, lines *console.Lines) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("medinvest %s> ", statusFn()))
		line, err := lines.ReadLine(ctx)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		if want, ok := commandState[cmd]; ok && want != a.state() {
			printlnFn("Command not available here. Type 'help'.")
			continue
		}

		switch cmd {
		case "help":
			printlnFn(helpByState[a.state()])

		case "next":
			_ = a.Next(ctx)
		case "skip":
			_ = a.Skip(ctx)

		case "login":
			_ = a.Login(ctx)
		case "biometric":
			_ = a.BiometricLogin(ctx)

		case "status":
			_ = a.Status(ctx)
		case "ask":
			if len(args) == 0 {
				printlnFn("Usage: ask <question>")
				continue
			}
			_ = a.Ask(ctx, strings.Join(args, " "))
		case "summarize":
			_ = a.Summarize(ctx)
		case "moderate":
			_ = a.Moderate(ctx)
		case "deal":
			_ = a.AnalyzeDeal(ctx)
		case "biometric-off":
			_ = a.DisableBiometric(ctx)
		case "logout":
			_ = a.Logout(ctx)

		case "dev-reset":
			_ = a.DevReset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
