package config

import (
	"github.com/tauraamui/vidupscale/internal/config"
	"github.com/tauraamui/vidupscale/pkg/configdef"
)

type CreateResolver interface {
	configdef.CreateResolver
}

func DefaultCreator() configdef.Creator {
	return config.DefaultCreator()
}

func DefaultCreateResolver() CreateResolver {
	return config.DefaultCreateResolver()
}
