package biometric

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/medinvest/medinvest/internal/client/models"
	"github.com/medinvest/medinvest/internal/client/securestore"
	"github.com/medinvest/medinvest/internal/common"
	"github.com/medinvest/medinvest/internal/logging"
)

const (
	enableReason       = "Enable biometric login for MedInvest"
	authenticateReason = "Log in to MedInvest"
)

// Service exposes the capability probe and the enable / authenticate /
// disable operations of biometric login.
type Service struct {
	sensor Sensor
	store  securestore.Store
	logger logging.Logger
}

func NewService(sensor Sensor, store securestore.Store, logger logging.Logger) *Service {
	return &Service{sensor: sensor, store: store, logger: logger.With("module", "biometric")}
}

// Status probes the sensor. Probe failures read as "not available".
func (s *Service) Status(ctx context.Context) Status {
	st, err := s.sensor.Capabilities(ctx)
	if err != nil {
		s.logger.Warn(ctx, "capability probe failed", "error", err)
		return Status{BiometricType: TypeNone}
	}
	return normalize(st)
}

// IsEnabled reports the persisted opt-in flag. Storage failures read as false.
func (s *Service) IsEnabled(ctx context.Context) bool {
	enabled, err := securestore.GetBool(ctx, s.store, common.BiometricEnabledKey)
	if err != nil {
		s.logger.Warn(ctx, "reading biometric flag failed", "error", err)
		return false
	}
	return enabled
}

// HasCredential reports whether a well-formed credential is stored.
func (s *Service) HasCredential(ctx context.Context) bool {
	return s.loadCredential(ctx) != nil
}

// Enable runs a sensor challenge and, on success, stores creds together with
// the enabled flag. It reports whether biometric login is now enabled.
func (s *Service) Enable(ctx context.Context, creds models.Credentials) bool {
	if !s.challenge(ctx, enableReason) {
		return false
	}

	blob, err := json.Marshal(creds)
	if err != nil {
		s.logger.Error(ctx, "encoding credential failed", "error", err)
		return false
	}
	defer common.WipeByteArray(blob)

	err = s.store.Batch(ctx, func(ctx context.Context, w securestore.Writer) error {
		if err := w.Set(ctx, common.BiometricCredentialKey, blob); err != nil {
			return err
		}
		return securestore.SetBool(ctx, w, common.BiometricEnabledKey, true)
	})
	if err != nil {
		s.logger.Error(ctx, "storing biometric credential failed", "error", err)
		return false
	}

	s.logger.Info(ctx, "biometric login enabled", "email", creds.Email)
	return true
}

// Authenticate runs a sensor challenge and returns the stored credential.
// It returns nil when biometric login is off, nothing usable is stored, or
// the challenge does not succeed.
func (s *Service) Authenticate(ctx context.Context) *models.Credentials {
	if !s.IsEnabled(ctx) {
		return nil
	}
	creds := s.loadCredential(ctx)
	if creds == nil {
		return nil
	}
	if !s.challenge(ctx, authenticateReason) {
		return nil
	}
	return creds
}

// Disable deletes the stored credential and clears the enabled flag.
func (s *Service) Disable(ctx context.Context) error {
	err := s.store.Batch(ctx, func(ctx context.Context, w securestore.Writer) error {
		if err := w.Delete(ctx, common.BiometricCredentialKey); err != nil {
			return err
		}
		return securestore.SetBool(ctx, w, common.BiometricEnabledKey, false)
	})
	if err != nil {
		s.logger.Error(ctx, "disabling biometric login failed", "error", err)
		return err
	}

	s.logger.Info(ctx, "biometric login disabled")
	return nil
}

func (s *Service) challenge(ctx context.Context, reason string) bool {
	st := s.Status(ctx)
	switch {
	case !st.IsAvailable:
		s.logger.Info(ctx, "challenge skipped", "reason", ErrSensorNotPresent)
		return false
	case !st.IsEnrolled:
		s.logger.Info(ctx, "challenge skipped", "reason", ErrNotEnrolled)
		return false
	}

	err := s.sensor.Challenge(ctx, reason)
	if err == nil && ctx.Err() != nil {
		err = ErrCancelled
	}
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.logger.Info(ctx, "challenge cancelled")
	default:
		s.logger.Warn(ctx, "challenge failed", "error", err)
	}
	return false
}

// loadCredential treats read failures and malformed blobs as "no credential".
func (s *Service) loadCredential(ctx context.Context) *models.Credentials {
	blob, err := s.store.Get(ctx, common.BiometricCredentialKey)
	if err != nil {
		s.logger.Warn(ctx, "reading biometric credential failed", "error", err)
		return nil
	}
	if blob == nil {
		return nil
	}
	defer common.WipeByteArray(blob)

	var creds models.Credentials
	if err := json.Unmarshal(blob, &creds); err != nil || creds.Email == "" || creds.Password == "" {
		s.logger.Warn(ctx, "stored biometric credential is malformed")
		return nil
	}
	return &creds
}
