package cli

import (
	"context"
	"errors"

	"github.com/medinvest/medinvest/internal/client/gate"
	"github.com/medinvest/medinvest/internal/client/models"
	"github.com/medinvest/medinvest/internal/client/session"
	"github.com/medinvest/medinvest/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// mountLogin shows the login screen. When biometric login is set up the
// sensor prompt fires right away; any failure leaves the manual form.
func (a *App) mountLogin(ctx context.Context) {
	res := a.gate.Mount(ctx)
	if res.Session != nil {
		a.nav.Refresh(ctx)
		return
	}
	if res.Err != nil {
		a.reportLoginError(res.Err)
	}
	a.showManualForm(res.Decision)
}

func (a *App) showManualForm(d gate.Decision) {
	printlnFn("Log in with your email and password: type 'login'.")
	if d.BiometricButton {
		printlnFn("Or type 'biometric' to use " + d.BiometricLabel + ".")
	}
	if d.AppleSignIn {
		printlnFn("Sign in with Apple is available on this device.")
	}
}

// Login prompts for email and password and runs a manual login.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(ctx, a.lines, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	creds := models.Credentials{Email: email, Password: string(password)}
	if _, err := a.auth.Login(ctx, creds, models.OriginManual); err != nil {
		a.reportLoginError(err)
		return err
	}

	a.nav.Refresh(ctx)
	return nil
}

// BiometricLogin is the biometric shortcut on the manual form.
func (a *App) BiometricLogin(ctx context.Context) error {
	d := a.gate.Decide(ctx)
	if !d.BiometricButton && d.Screen != gate.ScreenBiometricPrompt {
		printlnFn("Biometric login is not available.")
		return nil
	}

	s, err := a.gate.BiometricLogin(ctx)
	if err != nil {
		a.reportLoginError(err)
		return err
	}
	if s == nil {
		return nil
	}
	a.nav.Refresh(ctx)
	return nil
}

func (a *App) reportLoginError(err error) {
	var verr *session.ValidationError
	switch {
	case errors.As(err, &verr):
		printlnFn(verr.Message)
	case errors.Is(err, session.ErrLoginInProgress):
	default:
		printlnFn(session.FailureMessage)
	}
}

// Logout revokes the session and returns to the login screen.
func (a *App) Logout(ctx context.Context) error {
	a.nav.SignOut(ctx)
	printlnFn("Signed out.")
	return nil
}

// DisableBiometric forgets the stored credential.
func (a *App) DisableBiometric(ctx context.Context) error {
	if err := a.bio.Disable(ctx); err != nil {
		printlnFn("Could not disable biometric login.")
		return err
	}
	printlnFn("Biometric login disabled.")
	return nil
}
