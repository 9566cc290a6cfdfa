package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/semaphore"

	"github.com/medinvest/medinvest/internal/client/authapi"
	"github.com/medinvest/medinvest/internal/client/biometric"
	"github.com/medinvest/medinvest/internal/client/models"
	"github.com/medinvest/medinvest/internal/logging"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// Biometrics is the part of biometric.Service the login flow needs.
type Biometrics interface {
	Status(ctx context.Context) biometric.Status
	IsEnabled(ctx context.Context) bool
	Enable(ctx context.Context, creds models.Credentials) bool
}

// Authenticator performs the login mutation. At most one login runs at a
// time.
type Authenticator struct {
	api      authapi.Client
	sessions *Manager
	bio      Biometrics
	confirm  Confirmer
	logger   logging.Logger

	validate *validator.Validate
	inFlight *semaphore.Weighted

	// Timeout bounds the backend call. Zero means no extra bound.
	Timeout time.Duration
	// BiometricLabel names the sensor in the opt-in question, e.g. "Face ID".
	BiometricLabel string
}

func NewAuthenticator(api authapi.Client, sessions *Manager, bio Biometrics, confirm Confirmer, logger logging.Logger) *Authenticator {
	return &Authenticator{
		api:            api,
		sessions:       sessions,
		bio:            bio,
		confirm:        confirm,
		logger:         logger.With("module", "auth"),
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		inFlight:       semaphore.NewWeighted(1),
		BiometricLabel: "biometric",
	}
}

// Login validates creds, exchanges them for a session and installs it.
//
// Errors: a *ValidationError (matching ErrValidation) when input is missing;
// ErrLoginInProgress when another login is running, in which case nothing
// else happens; ErrLoginFailed for every backend or transport failure.
func (a *Authenticator) Login(ctx context.Context, creds models.Credentials, origin models.Origin) (*models.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := a.validateCredentials(creds); err != nil {
		return nil, err
	}

	if !a.inFlight.TryAcquire(1) {
		return nil, ErrLoginInProgress
	}
	defer a.inFlight.Release(1)

	s, err := a.callBackend(ctx, creds)
	if err != nil {
		a.logger.Warn(ctx, "login failed", "origin", origin, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	a.sessions.Set(ctx, s)
	a.logger.Info(ctx, "logged in", "origin", origin, "user", s.User.ID)

	if origin == models.OriginManual {
		a.offerBiometrics(ctx, creds)
	}
	return a.sessions.Current(), nil
}

func (a *Authenticator) callBackend(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	s, err := a.api.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Token == "" {
		return nil, errors.New("empty session in login response")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// offerBiometrics asks once per successful manual login whether to remember
// the credential. Only an explicit yes writes anything.
func (a *Authenticator) offerBiometrics(ctx context.Context, creds models.Credentials) {
	if a.bio == nil || a.confirm == nil {
		return
	}
	if !a.bio.Status(ctx).Ready() || a.bio.IsEnabled(ctx) {
		return
	}

	question := fmt.Sprintf("Enable %s login for next time?", a.BiometricLabel)
	ok, err := a.confirm.Confirm(ctx, question)
	if err != nil {
		a.logger.Warn(ctx, "biometric opt-in prompt failed", "error", err)
		return
	}
	if !ok {
		return
	}
	a.bio.Enable(ctx, creds)
}

func (a *Authenticator) validateCredentials(creds models.Credentials) error {
	err := a.validate.Struct(creds)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
	case "email":
		return &ValidationError{Field: field, Message: "email is not a valid address"}
	default:
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s is invalid", field)}
	}
}
