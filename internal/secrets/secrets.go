// Package secrets resolves credentials from the environment first and the OS
// keychain second.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups the app's secrets in the OS keychain.
	KeyringService = "internscout"
)

// Names that may be kept in the keychain.
var Known = []string{"SHEET_ENDPOINT", "SERP_API_KEY"}

var ErrNotFound = errors.New("secret not found")

// Lookup returns the named secret from the environment, falling back to the
// keychain. A keychain miss or failure is reported as ErrNotFound.
func Lookup(name string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v, nil
	}
	v, err := keyring.Get(KeyringService, name)
	if err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), nil
	}
	return "", fmt.Errorf("%w: %s (set it in the environment or with `secret set %s`)", ErrNotFound, name, name)
}

func Set(name, value string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(KeyringService, name, strings.TrimSpace(value))
}

func Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	return keyring.Delete(KeyringService, name)
}

func checkName(name string) error {
	for _, k := range Known {
		if name == k {
			return nil
		}
	}
	return fmt.Errorf("unknown secret %q (known: %s)", name, strings.Join(Known, ", "))
}
