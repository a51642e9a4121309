package localstate

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	envHome   = "LOCALSTATE_HOME" // override for tests
	dirName   = ".linguanote"     // default under $HOME
	prefsFile = "prefs.json"
)

// DataDir returns the directory where local state is stored (~/.linguanote).
// It creates the directory with 0700 permissions if it does not exist.
func DataDir() (string, error) {
	if custom := os.Getenv(envHome); custom != "" {
		if err := os.MkdirAll(custom, 0o700); err != nil {
			return "", err
		}
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// PrefsPath returns the absolute path to the preferences file.
func PrefsPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, prefsFile), nil
}
