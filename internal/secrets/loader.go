package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret value comes from.
type Source struct {
	// Name is used in error messages to give context about the secret.
	Name string
	// Value is an inline secret provided via configuration.
	Value string
	// File points to a file containing the secret. When set it takes
	// precedence over Value.
	File string
}

// Load resolves the secret from the source and returns it trimmed. An error is
// returned when neither File nor Value contain a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
