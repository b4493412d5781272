package config

import (
	_ "embed"
	"errors"
	"os"
)

//go:embed default_rules.yaml
var defaultRules []byte

// DefaultRules returns the starter rule document shipped with the binary.
func DefaultRules() []byte {
	out := make([]byte, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// EnsureRules writes the starter rules to path unless a file already exists
// there. It reports whether a file was created.
func EnsureRules(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if err := writeAtomic(path, DefaultRules()); err != nil {
		return false, err
	}
	return true, nil
}
