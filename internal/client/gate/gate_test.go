package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/medinvest/medinvest/internal/client/biometric"
	"github.com/medinvest/medinvest/internal/client/config"
	"github.com/medinvest/medinvest/internal/client/models"
	"github.com/medinvest/medinvest/internal/client/securestore"
	"github.com/medinvest/medinvest/internal/common"
	"github.com/medinvest/medinvest/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ready    = biometric.Status{IsAvailable: true, IsEnrolled: true, BiometricType: biometric.TypeFingerprint}
	notReady = biometric.Status{IsAvailable: true, BiometricType: biometric.TypeFingerprint}
	absent   = biometric.Status{BiometricType: biometric.TypeNone}
	creds    = models.Credentials{Email: "ann@medinvest.io", Password: "s3cret"}
	caps     = config.Capabilities{Platform: config.PlatformIOS, AppleSignIn: true, BiometricLabel: "Touch ID"}
)

type fakeBio struct {
	status     biometric.Status
	enabled    bool
	credential bool
	// challengeOK decides the outcome of Authenticate.
	challengeOK bool

	challenges int
}

func (f *fakeBio) Status(context.Context) biometric.Status { return f.status }

func (f *fakeBio) IsEnabled(context.Context) bool { return f.enabled }

func (f *fakeBio) HasCredential(context.Context) bool { return f.credential }

func (f *fakeBio) Authenticate(context.Context) *models.Credentials {
	if !f.enabled || !f.credential {
		return nil
	}
	f.challenges++
	if !f.challengeOK {
		return nil
	}
	c := creds
	return &c
}

type fakeAuth struct {
	err    error
	calls  []models.Origin
	logins []models.Credentials
}

func (f *fakeAuth) Login(_ context.Context, c models.Credentials, origin models.Origin) (*models.Session, error) {
	f.calls = append(f.calls, origin)
	f.logins = append(f.logins, c)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Session{Token: "tok"}, nil
}

func newGate(t *testing.T, onboarded bool, bio *fakeBio, auth *fakeAuth) (*Gate, *securestore.MemoryStore) {
	t.Helper()
	store := securestore.NewMemoryStore()
	if onboarded {
		require.NoError(t, CompleteOnboarding(context.Background(), store))
	}
	return New(store, bio, auth, caps, logging.NewDiscard()), store
}

func TestDecide_OnboardingFirst(t *testing.T) {
	bios := []*fakeBio{
		{status: ready, enabled: true, credential: true},
		{status: notReady, enabled: true},
		{status: absent},
	}

	for _, bio := range bios {
		g, _ := newGate(t, false, bio, &fakeAuth{})
		d := g.Decide(context.Background())
		assert.Equal(t, ScreenOnboarding, d.Screen)
		assert.False(t, d.BiometricButton)
	}
}

func TestDecide_Rules(t *testing.T) {
	tests := []struct {
		name       string
		bio        *fakeBio
		wantScreen Screen
		wantButton bool
	}{
		{
			name:       "enabled, ready, credential stored",
			bio:        &fakeBio{status: ready, enabled: true, credential: true},
			wantScreen: ScreenBiometricPrompt,
		},
		{
			name:       "enabled, ready, credential missing",
			bio:        &fakeBio{status: ready, enabled: true},
			wantScreen: ScreenManualForm,
			wantButton: true,
		},
		{
			name:       "not enabled",
			bio:        &fakeBio{status: ready, credential: true},
			wantScreen: ScreenManualForm,
		},
		{
			name:       "not enrolled",
			bio:        &fakeBio{status: notReady, enabled: true, credential: true},
			wantScreen: ScreenManualForm,
		},
		{
			name:       "no sensor, no credential",
			bio:        &fakeBio{status: absent},
			wantScreen: ScreenManualForm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newGate(t, true, tt.bio, &fakeAuth{})
			d := g.Decide(context.Background())

			assert.Equal(t, tt.wantScreen, d.Screen)
			assert.Equal(t, tt.wantButton, d.BiometricButton)
			assert.True(t, d.AppleSignIn)
			assert.Equal(t, "Touch ID", d.BiometricLabel)
		})
	}
}

func TestMount_AutoPromptOncePerMount(t *testing.T) {
	bio := &fakeBio{status: ready, enabled: true, credential: true, challengeOK: true}
	auth := &fakeAuth{}
	g, _ := newGate(t, true, bio, auth)

	res := g.Mount(context.Background())
	require.NotNil(t, res.Session)
	assert.Equal(t, ScreenBiometricPrompt, res.Decision.Screen)
	assert.Equal(t, 1, bio.challenges)
	assert.Equal(t, []models.Origin{models.OriginBiometric}, auth.calls)
	assert.Equal(t, []models.Credentials{creds}, auth.logins)

	g.Mount(context.Background())
	assert.Equal(t, 2, bio.challenges)
}

func TestMount_CancelledChallengeFallsBack(t *testing.T) {
	bio := &fakeBio{status: ready, enabled: true, credential: true, challengeOK: false}
	auth := &fakeAuth{}
	g, store := newGate(t, true, bio, auth)
	before := store.Keys()

	res := g.Mount(context.Background())

	assert.Equal(t, ScreenManualForm, res.Decision.Screen)
	assert.True(t, res.Decision.BiometricButton)
	assert.Nil(t, res.Session)
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, bio.challenges)
	assert.Empty(t, auth.calls)
	assert.ElementsMatch(t, before, store.Keys())
}

func TestMount_ReplayRejectedByBackend(t *testing.T) {
	bio := &fakeBio{status: ready, enabled: true, credential: true, challengeOK: true}
	loginErr := errors.New("login failed")
	g, _ := newGate(t, true, bio, &fakeAuth{err: loginErr})

	res := g.Mount(context.Background())

	assert.Equal(t, ScreenManualForm, res.Decision.Screen)
	assert.Nil(t, res.Session)
	assert.ErrorIs(t, res.Err, loginErr)
}

func TestMount_NoPromptOutsideRuleTwo(t *testing.T) {
	bio := &fakeBio{status: absent}
	auth := &fakeAuth{}
	g, _ := newGate(t, true, bio, auth)

	res := g.Mount(context.Background())

	assert.Equal(t, ScreenManualForm, res.Decision.Screen)
	assert.False(t, res.Decision.BiometricButton)
	assert.Zero(t, bio.challenges)
	assert.Empty(t, auth.calls)
}

func TestDecide_WithBiometricService(t *testing.T) {
	ctx := context.Background()
	store := securestore.NewMemoryStore()
	require.NoError(t, CompleteOnboarding(ctx, store))
	require.NoError(t, securestore.SetBool(ctx, store, common.BiometricEnabledKey, true))
	require.NoError(t, store.Set(ctx, common.BiometricCredentialKey, []byte("not json")))

	svc := biometric.NewService(staticSensor{ready}, store, logging.NewDiscard())
	g := New(store, svc, &fakeAuth{}, caps, logging.NewDiscard())

	d := g.Decide(ctx)
	assert.Equal(t, ScreenManualForm, d.Screen, "malformed credential reads as absent")
	assert.True(t, d.BiometricButton)
}

type staticSensor struct{ status biometric.Status }

func (s staticSensor) Capabilities(context.Context) (biometric.Status, error) { return s.status, nil }

func (s staticSensor) Challenge(context.Context, string) error { return nil }
