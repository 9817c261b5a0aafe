package config

import (
	"github.com/tauraamui/vidupscale/internal/config"
	"github.com/tauraamui/vidupscale/pkg/configdef"
)

func DefaultResolver() configdef.Resolver {
	return config.DefaultResolver()
}

// Defaults are the values used when no profile exists.
func Defaults() configdef.Values {
	return config.Defaults()
}
