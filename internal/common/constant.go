// Package common contains shared constants and sentinel errors used across
// MedInvest client and server components.
package common

// Storage keys used by the client secure store.
const (
	OnboardingCompleteKey  = "onboarding.complete"
	BiometricEnabledKey    = "biometric.enabled"
	BiometricCredentialKey = "biometric.credential"
	SessionKey             = "session.current"
	DeviceIDKey            = "device.id"
)

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// DeviceIDHeader tags client requests with the installation id.
const DeviceIDHeader = "X-Device-ID"
