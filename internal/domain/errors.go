package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

var (
	ErrModNotFound    = fmt.Errorf("mod %w", ErrNotFound)
	ErrGameNotFound   = fmt.Errorf("game %w", ErrNotFound)
	ErrPluginNotFound = fmt.Errorf("plugin %w", ErrNotFound)
	ErrDuplicateName  = errors.New("name already exists")
	ErrInvalidOrder   = errors.New("order is not a permutation of the current entries")
	ErrInvalidName    = errors.New("invalid name")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrRootNotFound   = errors.New("overlay root not found")
	ErrIO             = errors.New("i/o failure")
)
