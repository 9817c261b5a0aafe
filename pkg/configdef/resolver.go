package configdef

import "errors"

var ErrConfigAlreadyExists = errors.New("config file already exists")

type Resolver interface {
	Resolve() (Values, error)
}

type Creator interface {
	Create() error
}

type CreateResolver interface {
	Creator
	Resolver
}

type Destroyer interface {
	Destroy() error
}
