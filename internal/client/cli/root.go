package cli

import (
	"context"
	"fmt"

	"github.com/medinvest/medinvest/internal/client/navigation"
)

func (a *App) getStatus() string {
	s := a.nav.State().String()
	if cur := a.sessions.Current(); cur != nil {
		s = cur.User.Email + " " + s
	}
	if m := a.getMode(); m != "" {
		s = s + " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) state() navigation.State {
	return a.nav.State()
}

// Root restores the previous session, starts navigation and the online
// watcher, and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to MedInvest (type 'help' for commands)")

	if s := a.sessions.Restore(ctx); s != nil {
		printlnFn("Welcome back,", displayName(s.User.FullName, s.User.Email))
	}

	// Transitions only queue work; the REPL goroutine renders screens, so the
	// biometric prompt never races the command reader.
	entered := make(chan navigation.State, 4)
	stop := a.nav.OnTransition(func(tr navigation.Transition) {
		select {
		case entered <- tr.To:
		default:
		}
	})
	defer stop()

	a.enter(ctx, a.nav.Start(ctx))

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	statusFn := func() string {
		a.renderEntered(ctx, entered)
		return a.getStatus()
	}
	runREPL(ctx, a, statusFn, a.lines)
}

// renderEntered renders the screens entered since the last prompt that are
// still current.
func (a *App) renderEntered(ctx context.Context, entered <-chan navigation.State) {
	for {
		select {
		case st := <-entered:
			if st == a.state() {
				a.enter(ctx, st)
			}
		default:
			return
		}
	}
}

// enter renders the screen of a freshly entered stack.
func (a *App) enter(ctx context.Context, st navigation.State) {
	switch st {
	case navigation.StateOnboarding:
		a.slide = 0
		a.showSlide()
	case navigation.StateAuth:
		a.mountLogin(ctx)
	case navigation.StateMain:
		a.history = nil
		printlnFn("You are in. Type 'help' for commands.")
	}
}

func displayName(fullName, email string) string {
	if fullName != "" {
		return fullName
	}
	return email
}
