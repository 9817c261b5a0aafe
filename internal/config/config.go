package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tacusci"
	appName        = "vidupscale"
	configFileName = "config.json"
	configEnvVar   = "VIDUPSCALE_CONFIG"
)

var fs afero.Fs = afero.NewOsFs()

var profileNames = []string{configFileName, "config.yaml", "config.yml"}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv(configEnvVar)
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	parent := filepath.Join(configParentDir, vendorName, appName)
	for _, name := range profileNames {
		path := filepath.Join(parent, name)
		if _, err := fs.Stat(path); err == nil {
			return path, nil
		}
	}

	return filepath.Join(parent, configFileName), nil
}

func profileExists(path string) (bool, error) {
	_, err := fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
