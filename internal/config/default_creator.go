package config

import "github.com/tauraamui/vidupscale/pkg/configdef"

func DefaultCreator() configdef.Creator {
	return defaultCreator{}
}

func DefaultCreateResolver() configdef.CreateResolver {
	return defaultCreateResolver{}
}

type defaultCreator struct{}

func (d defaultCreator) Create() error {
	return create()
}

type defaultCreateResolver struct {
	defaultCreator
	defaultResolver
}
