package config

import (
	"fmt"
	"os"
	"strconv"
)

// envInt reads an integer environment variable, falling back when unset.
func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return parsed, nil
}
