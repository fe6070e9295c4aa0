package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrLoadConfig  = errors.New("load config failed")
	ErrLoadSecrets = errors.New("load secrets failed")
)
