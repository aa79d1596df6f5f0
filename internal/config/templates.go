package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

func Template() string {
	return defaultTemplate
}

// WriteTemplate writes the default config to path, creating parent dirs.
func WriteTemplate(path string, overwrite bool) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	if !overwrite {
		if _, err := os.Stat(expanded); err == nil {
			return "", fmt.Errorf("config already exists: %s", expanded)
		}
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return "", err
	}
	return expanded, os.WriteFile(expanded, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `addr = "127.0.0.1:50007"
node = "sbdp"
log_level = "info"

connect_timeout = "5s"
read_timeout = "15s"
write_timeout = "15s"
max_connect_attempts = 5

max_frame_bytes = 8388608
max_value_bytes = 4194304
max_fields = 65536

[backoff]
initial_delay = "250ms"
multiplier = 2.0
max_delay = "5s"
jitter = true
`
