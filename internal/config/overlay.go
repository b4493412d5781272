package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// URLsFile is an optional operator-maintained list of extra source URLs.
type URLsFile struct {
	URLs []string `yaml:"urls"`
}

// OverlayStaticURLs appends the URLs listed in path to rules.StaticURLs.
// A missing file is not an error.
func OverlayStaticURLs(rules *RuleSet, path string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read urls file: %w", err)
	}

	var uf URLsFile
	if err := yaml.Unmarshal(b, &uf); err != nil {
		return fmt.Errorf("parse urls file %s: %w", path, err)
	}
	rules.StaticURLs = append(rules.StaticURLs, uf.URLs...)
	return nil
}
