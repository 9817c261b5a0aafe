package config

import (
	"github.com/tauraamui/vidupscale/internal/config"
	"github.com/tauraamui/vidupscale/pkg/configdef"
)

func DefaultDestroyer() configdef.Destroyer {
	return config.DefaultDestroyer()
}
