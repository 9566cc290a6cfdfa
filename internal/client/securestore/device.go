package securestore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/medinvest/medinvest/internal/common"
	"github.com/medinvest/medinvest/internal/filex"
)

const (
	deviceSecretFile = "device.key"
	deviceSecretSize = 32
)

// LoadDeviceSecret returns the per-installation secret kept in dataDir,
// generating it on first launch.
func LoadDeviceSecret(dataDir string) ([]byte, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	return filex.ReadOrCreate(filepath.Join(dir, deviceSecretFile), func() []byte {
		return common.GenerateRandByteArray(deviceSecretSize)
	})
}

// DeviceID returns the installation id kept under common.DeviceIDKey,
// assigning a random UUID on first use.
func DeviceID(ctx context.Context, s Store) (string, error) {
	raw, err := s.Get(ctx, common.DeviceIDKey)
	if err != nil {
		return "", err
	}
	if id, err := uuid.ParseBytes(raw); err == nil {
		return id.String(), nil
	}

	id := uuid.NewString()
	if err := s.Set(ctx, common.DeviceIDKey, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}
