// Package biometric wraps the device biometric sensor: a capability probe
// and biometric-gated storage of login credentials ("biometric replay").
//
// Every sensor failure (not present, not enrolled, cancelled, platform error)
// resolves to a false/nil result. The errors are logged, never returned to
// the caller, so screens can fall back to the manual form.
package biometric

import (
	"context"
	"errors"
)

// Type is the kind of biometric hardware.
type Type string

const (
	TypeFacial      Type = "facial"
	TypeFingerprint Type = "fingerprint"
	TypeNone        Type = "none"
)

var (
	ErrSensorNotPresent = errors.New("biometric sensor not present")
	ErrNotEnrolled      = errors.New("no biometrics enrolled")
	ErrCancelled        = errors.New("biometric challenge cancelled")
	ErrPlatform         = errors.New("biometric platform error")
)

// Status describes what the device can do right now. It is recomputed on
// every probe and never persisted.
type Status struct {
	IsAvailable   bool
	IsEnrolled    bool
	BiometricType Type
}

// Ready reports whether a challenge can be issued.
func (s Status) Ready() bool {
	return s.IsAvailable && s.IsEnrolled
}

// Sensor is the device biometric API.
type Sensor interface {
	// Capabilities queries hardware presence and enrollment.
	Capabilities(ctx context.Context) (Status, error)
	// Challenge asks the user to authenticate. It returns nil on success,
	// ErrCancelled when the user dismisses the prompt or ctx is done, and
	// another error on platform failure.
	Challenge(ctx context.Context, reason string) error
}

// normalize enforces IsEnrolled ⇒ IsAvailable.
func normalize(s Status) Status {
	if !s.IsAvailable {
		return Status{BiometricType: TypeNone}
	}
	if s.BiometricType == "" {
		s.BiometricType = TypeNone
	}
	return s
}
