package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveAtomic writes rules to path through a temp file, keeping the previous
// version as path+".bak".
func SaveAtomic(path string, rules RuleSet) error {
	normalized, v := NormalizeAndValidate(rules)
	if err := v.Err(); err != nil {
		return err
	}

	b, err := yaml.Marshal(&normalized)
	if err != nil {
		return err
	}
	return writeAtomic(path, b)
}

func writeAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
