package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/tauraamui/vidupscale/pkg/configdef"
	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/xerror"
	"gopkg.in/yaml.v2"
)

func create() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	data, err := loadRawDefaultConfig(path)
	if err != nil {
		return xerror.Errorf("unable to init default config into memory: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm); err != nil {
		return xerror.Errorf("unable to create config parent directory: %w", err)
	}

	err = writeConfigToDisk(data, path, false)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return configdef.ErrConfigAlreadyExists
		}
		return err
	}

	log.Info("Written default config profile to %s", path)
	return nil
}

func destroy() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if err := fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return xerror.Errorf("unable to remove config profile: %s: %w", path, err)
	}
	return nil
}

func writeConfigToDisk(data []byte, path string, overwrite bool) error {
	flags := os.O_RDWR | os.O_CREATE
	if !overwrite {
		flags |= os.O_EXCL
	}

	file, err := fs.OpenFile(path, flags, 0666)
	if err != nil {
		return xerror.Errorf("unable to create/open file: %w", err)
	}
	defer file.Close()

	bc, err := file.Write(data)
	if err != nil {
		return xerror.Errorf("unable to write config to file: %s: %w", path, err)
	}

	if bc != len(data) {
		return xerror.Errorf("unable to write full config data to file: %s", path)
	}

	return nil
}

func loadRawDefaultConfig(path string) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(Defaults())
	}
	return json.MarshalIndent(Defaults(), "", " ")
}
