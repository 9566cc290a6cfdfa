package session

import (
	"context"
	"sync"

	"github.com/medinvest/medinvest/internal/client/biometric"
	"github.com/medinvest/medinvest/internal/client/models"
)

type fakeAPI struct {
	mu sync.Mutex

	LoginRet *models.Session
	LoginErr error
	// LoginGate, when set, blocks Login until closed or ctx is done.
	LoginGate chan struct{}
	// LoginEntered is signalled once Login starts.
	LoginEntered chan struct{}

	MeRet *models.User
	MeErr error

	LogoutErr error

	LoginCalls  int
	LogoutCalls []string
	MeCalls     []string
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.Session, error) {
	f.mu.Lock()
	f.LoginCalls++
	gate, entered := f.LoginGate, f.LoginEntered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	if f.LoginRet == nil {
		return nil, nil
	}
	s := *f.LoginRet
	return &s, nil
}

func (f *fakeAPI) Me(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MeCalls = append(f.MeCalls, token)
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	u := *f.MeRet
	return &u, nil
}

func (f *fakeAPI) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls = append(f.LogoutCalls, token)
	return f.LogoutErr
}

func (f *fakeAPI) Ping(context.Context) error { return nil }

func (f *fakeAPI) loginCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LoginCalls
}

type fakeBiometrics struct {
	status  biometric.Status
	enabled bool

	enableOK    bool
	enableCalls []models.Credentials
}

func (f *fakeBiometrics) Status(context.Context) biometric.Status { return f.status }
func (f *fakeBiometrics) IsEnabled(context.Context) bool { return f.enabled }
func (f *fakeBiometrics) Enable(_ context.Context, creds models.Credentials) bool {
	f.enableCalls = append(f.enableCalls, creds)
	if f.enableOK {
		f.enabled = true
	}
	return f.enableOK
}

type fakeConfirmer struct {
	answer    bool
	err       error
	questions []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, q string) (bool, error) {
	f.questions = append(f.questions, q)
	return f.answer, f.err
}
