// Package navigation switches the client between its three root stacks:
// Onboarding, Auth and Main.
package navigation

import (
	"context"
	"sync"

	"github.com/medinvest/medinvest/internal/client/gate"
	"github.com/medinvest/medinvest/internal/client/models"
	"github.com/medinvest/medinvest/internal/client/securestore"
	"github.com/medinvest/medinvest/internal/client/session"
	"github.com/medinvest/medinvest/internal/logging"
)

type State int

const (
	StateOnboarding State = iota
	StateAuth
	StateMain
)

func (s State) String() string {
	switch s {
	case StateOnboarding:
		return "onboarding"
	case StateAuth:
		return "auth"
	case StateMain:
		return "main"
	default:
		return "unknown"
	}
}

// Transition describes one change of the active stack.
type Transition struct {
	From State
	To   State
}

// Sessions is the part of session.Manager the controller needs.
type Sessions interface {
	Current() *models.Session
	Subscribe() (<-chan session.Event, func())
	SignOut(ctx context.Context)
}

// Controller is a three state machine. Onboarding leads to Auth once the
// onboarding flag is set; Auth and Main follow the presence of a session.
// Main only goes back to Auth through SignOut.
type Controller struct {
	mu        sync.Mutex
	state     State
	listeners map[int]func(Transition)
	nextID    int

	store    securestore.Store
	sessions Sessions
	logger   logging.Logger
}

func NewController(store securestore.Store, sessions Sessions, logger logging.Logger) *Controller {
	return &Controller{
		listeners: make(map[int]func(Transition)),
		store:     store,
		sessions:  sessions,
		logger:    logger.With("module", "navigation"),
	}
}

// Start picks the initial stack from the onboarding flag and the current
// session, then follows session events until ctx is done. It returns once
// the initial state is set.
func (c *Controller) Start(ctx context.Context) State {
	events, cancel := c.sessions.Subscribe()

	var initial State
	switch {
	case !gate.OnboardingComplete(ctx, c.store):
		initial = StateOnboarding
	case c.sessions.Current() != nil:
		initial = StateMain
	default:
		initial = StateAuth
	}
	c.mu.Lock()
	c.state = initial
	c.mu.Unlock()

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				c.onSession(ctx)
			}
		}
	}()

	return initial
}

// State returns the active stack.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnTransition registers fn for every transition. The returned func
// unregisters it. fn runs synchronously and must not call back into c.
func (c *Controller) OnTransition(fn func(Transition)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// CompleteOnboarding persists the onboarding flag and leaves the Onboarding
// stack. Finishing and skipping the slides are the same signal.
func (c *Controller) CompleteOnboarding(ctx context.Context) error {
	if err := gate.CompleteOnboarding(ctx, c.store); err != nil {
		return err
	}
	if c.sessions.Current() != nil {
		c.moveFrom(ctx, StateOnboarding, StateMain)
	} else {
		c.moveFrom(ctx, StateOnboarding, StateAuth)
	}
	return nil
}

// SignOut clears the session and resets navigation to the Auth stack.
func (c *Controller) SignOut(ctx context.Context) {
	c.sessions.SignOut(ctx)
	c.moveFrom(ctx, StateMain, StateAuth)
}

// ResetOnboarding clears the onboarding flag and shows onboarding again.
// Developer utility; the session is left untouched.
func (c *Controller) ResetOnboarding(ctx context.Context) error {
	if err := gate.ResetOnboarding(ctx, c.store); err != nil {
		return err
	}
	c.mu.Lock()
	from := c.state
	c.mu.Unlock()
	c.moveFrom(ctx, from, StateOnboarding)
	return nil
}

// Refresh re-evaluates the session now instead of waiting for its event.
func (c *Controller) Refresh(ctx context.Context) {
	c.onSession(ctx)
}

// onSession reads the session afresh; events only signal that it changed.
func (c *Controller) onSession(ctx context.Context) {
	if c.sessions.Current() != nil {
		c.moveFrom(ctx, StateAuth, StateMain)
		return
	}
	c.moveFrom(ctx, StateMain, StateAuth)
}

// moveFrom switches to "to" only while the controller is in "from".
func (c *Controller) moveFrom(ctx context.Context, from, to State) {
	c.mu.Lock()
	if c.state != from || from == to {
		c.mu.Unlock()
		return
	}
	c.state = to
	listeners := make([]func(Transition), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	c.logger.Debug(ctx, "navigation", "from", from, "to", to)
	tr := Transition{From: from, To: to}
	for _, fn := range listeners {
		fn(tr)
	}
}
