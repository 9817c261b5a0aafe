package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/vidupscale/pkg/configdef"
	"github.com/tauraamui/vidupscale/pkg/log"
	"gopkg.in/yaml.v2"
)

func load() (configdef.Values, error) {
	values := Defaults()

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	exists, err := profileExists(configPath)
	if err != nil {
		return configdef.Values{}, err
	}

	if !exists {
		log.Debug("No config profile at %s, using defaults", configPath)
		return values, nil
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return configdef.Values{}, err
	}

	if err := unmarshal(configPath, file, &values); err != nil {
		return configdef.Values{}, err
	}

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func unmarshal(path string, content []byte, values *configdef.Values) error {
	var err error
	if isYAML(path) {
		err = yaml.Unmarshal(content, values)
	} else {
		err = json.Unmarshal(content, values)
	}
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}
