package config

import "strings"

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// Capabilities are platform dependent switches resolved once at startup and
// handed to the screens that need them.
type Capabilities struct {
	Platform       Platform
	AppleSignIn    bool
	BiometricLabel string
}

// ResolveCapabilities maps a platform and sensor type to capability flags.
// Unknown platforms are treated as Android.
func ResolveCapabilities(p Platform, sensorType string) Capabilities {
	p = Platform(strings.ToLower(string(p)))
	if p != PlatformIOS {
		p = PlatformAndroid
	}

	caps := Capabilities{Platform: p, AppleSignIn: p == PlatformIOS}

	switch {
	case p == PlatformIOS && sensorType == "facial":
		caps.BiometricLabel = "Face ID"
	case p == PlatformIOS && sensorType == "fingerprint":
		caps.BiometricLabel = "Touch ID"
	case sensorType == "facial":
		caps.BiometricLabel = "Face Unlock"
	case sensorType == "fingerprint":
		caps.BiometricLabel = "Fingerprint"
	default:
		caps.BiometricLabel = "Biometrics"
	}
	return caps
}
