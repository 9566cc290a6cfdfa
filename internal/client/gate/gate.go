// Package gate decides which screen the client presents before a session
// exists: onboarding, the biometric prompt or the manual login form.
package gate

import (
	"context"

	"github.com/medinvest/medinvest/internal/client/biometric"
	"github.com/medinvest/medinvest/internal/client/config"
	"github.com/medinvest/medinvest/internal/client/models"
	"github.com/medinvest/medinvest/internal/client/securestore"
	"github.com/medinvest/medinvest/internal/logging"
)

type Screen int

const (
	ScreenOnboarding Screen = iota
	ScreenBiometricPrompt
	ScreenManualForm
)

func (s Screen) String() string {
	switch s {
	case ScreenOnboarding:
		return "onboarding"
	case ScreenBiometricPrompt:
		return "biometric-prompt"
	case ScreenManualForm:
		return "manual-form"
	default:
		return "unknown"
	}
}

// Decision is what the login screen should show.
type Decision struct {
	Screen Screen
	// BiometricButton enables the biometric shortcut on the manual form.
	BiometricButton bool
	// AppleSignIn shows the Apple sign-in button on the manual form.
	AppleSignIn bool
	// BiometricLabel names the sensor on buttons and prompts.
	BiometricLabel string
}

// Biometrics is the part of biometric.Service the gate reads.
type Biometrics interface {
	Status(ctx context.Context) biometric.Status
	IsEnabled(ctx context.Context) bool
	HasCredential(ctx context.Context) bool
	Authenticate(ctx context.Context) *models.Credentials
}

// Authenticator performs a login with replayed credentials.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials, origin models.Origin) (*models.Session, error)
}

// Gate evaluates the login screen rules. It holds no state between calls.
type Gate struct {
	store  securestore.Store
	bio    Biometrics
	auth   Authenticator
	caps   config.Capabilities
	logger logging.Logger
}

func New(store securestore.Store, bio Biometrics, auth Authenticator, caps config.Capabilities, logger logging.Logger) *Gate {
	return &Gate{store: store, bio: bio, auth: auth, caps: caps, logger: logger.With("module", "gate")}
}

// Decide evaluates the rules in order, first match wins:
//  1. onboarding not complete: ScreenOnboarding;
//  2. biometric login enabled, sensor ready and a credential stored:
//     ScreenBiometricPrompt;
//  3. otherwise ScreenManualForm, with the biometric button lit when the
//     sensor is ready and the enabled flag is set.
func (g *Gate) Decide(ctx context.Context) Decision {
	d := Decision{
		Screen:         ScreenManualForm,
		AppleSignIn:    g.caps.AppleSignIn,
		BiometricLabel: g.caps.BiometricLabel,
	}

	if !OnboardingComplete(ctx, g.store) {
		d.Screen = ScreenOnboarding
		return d
	}

	ready := g.bio.Status(ctx).Ready()
	enabled := g.bio.IsEnabled(ctx)
	if enabled && ready && g.bio.HasCredential(ctx) {
		d.Screen = ScreenBiometricPrompt
		return d
	}

	d.BiometricButton = enabled && ready
	return d
}

// MountResult is the outcome of one mount of the login screen.
type MountResult struct {
	Decision Decision
	// Session is set when the biometric auto-prompt logged the user in.
	Session *models.Session
	// Err is the login error after a successful biometric challenge, for
	// display. Biometric failures never surface here.
	Err error
}

// Mount runs one mount of the login screen. On ScreenBiometricPrompt the
// sensor is challenged exactly once; any failure lands on the manual form.
func (g *Gate) Mount(ctx context.Context) MountResult {
	d := g.Decide(ctx)
	if d.Screen != ScreenBiometricPrompt {
		return MountResult{Decision: d}
	}

	s, err := g.BiometricLogin(ctx)
	if s != nil {
		return MountResult{Decision: d, Session: s}
	}

	d.Screen = ScreenManualForm
	d.BiometricButton = true
	return MountResult{Decision: d, Err: err}
}

// BiometricLogin challenges the sensor and replays the stored credential
// through the authenticator. A nil session with a nil error means the
// challenge produced nothing.
func (g *Gate) BiometricLogin(ctx context.Context) (*models.Session, error) {
	creds := g.bio.Authenticate(ctx)
	if creds == nil {
		g.logger.Debug(ctx, "biometric login fell back to manual form")
		return nil, nil
	}
	return g.auth.Login(ctx, *creds, models.OriginBiometric)
}
