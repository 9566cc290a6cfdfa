package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/medinvest/medinvest/internal/client/assistant"
	"github.com/medinvest/medinvest/internal/client/authapi"
	"github.com/medinvest/medinvest/internal/client/biometric"
	"github.com/medinvest/medinvest/internal/client/config"
	"github.com/medinvest/medinvest/internal/client/console"
	"github.com/medinvest/medinvest/internal/client/gate"
	"github.com/medinvest/medinvest/internal/client/navigation"
	"github.com/medinvest/medinvest/internal/client/securestore"
	"github.com/medinvest/medinvest/internal/client/session"
	"github.com/medinvest/medinvest/internal/logging"
)

const storeFile = "secure.db"

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	caps   config.Capabilities
	logger logging.Logger

	store     securestore.Store
	closeFn   func() error
	api       authapi.Client
	sessions  *session.Manager
	bio       *biometric.Service
	auth      *session.Authenticator
	gate      *gate.Gate
	nav       *navigation.Controller
	assistant *assistant.Client

	mu   sync.Mutex
	mode Mode

	slide   int
	history []assistant.Turn

	lines *console.Lines
	out   io.Writer
}

// NewApp opens local storage and builds the client's components.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, closeFn, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:  c,
		caps:    c.Capabilities(),
		logger:  logger,
		store:   store,
		closeFn: closeFn,
		lines:   console.NewLines(os.Stdin),
		out:     os.Stdout,
	}
	api := authapi.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout)
	if id, err := securestore.DeviceID(ctx, store); err != nil {
		logger.Warn(ctx, "device id unavailable", "error", err)
	} else {
		api.WithDeviceID(id)
	}

	a.wire(api)
	return a, nil
}

// wire builds every component on top of a.store and api.
func (a *App) wire(api authapi.Client) {
	a.api = api
	a.sessions = session.NewManager(a.store, api, a.logger)

	sensor := biometric.NewTerminalSensor(sensorType(a.config.SensorType), a.config.SensorEnrolled, a.lines, a.out)
	a.bio = biometric.NewService(sensor, a.store, a.logger)

	a.auth = session.NewAuthenticator(api, a.sessions, a.bio, session.ConfirmFunc(a.confirm), a.logger)
	a.auth.Timeout = a.config.RequestTimeout
	a.auth.BiometricLabel = a.caps.BiometricLabel

	a.gate = gate.New(a.store, a.bio, a.auth, a.caps, a.logger)
	a.nav = navigation.NewController(a.store, a.sessions, a.logger)
	a.assistant = assistant.NewClient(a.config.AssistantURL, a.config.AssistantKey, a.config.AssistantModel, a.config.RequestTimeout, a.logger)
}

func openStore(ctx context.Context, c *config.Config) (securestore.Store, func() error, error) {
	if c.Ephemeral {
		return securestore.NewMemoryStore(), func() error { return nil }, nil
	}

	secret, err := securestore.LoadDeviceSecret(c.DataDir)
	if err != nil {
		return nil, nil, err
	}
	s, err := securestore.Open(ctx, filepath.Join(c.DataDir, storeFile), secret)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing secure store: %w", err)
	}
	return s, s.Close, nil
}

func sensorType(s string) biometric.Type {
	switch biometric.Type(s) {
	case biometric.TypeFacial, biometric.TypeFingerprint:
		return biometric.Type(s)
	default:
		return biometric.TypeNone
	}
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.closeFn(); err != nil {
			a.logger.Error(ctx, "closing secure store", "error", err)
		}
	}()
	a.Root(ctx)
	return nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// pingOnce updates the mode from a single liveness probe.
func (a *App) pingOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			a.setMode(ModeOffline)
		}
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.pingOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.pingOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// confirm asks a yes/no question on the terminal.
func (a *App) confirm(ctx context.Context, question string) (bool, error) {
	answer, err := getSimpleText(ctx, a.lines, question+" [y/N]", a.out)
	if err != nil {
		return false, err
	}
	switch answer {
	case "y", "Y", "yes", "Yes", "YES":
		return true, nil
	default:
		return false, nil
	}
}
