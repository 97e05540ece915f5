package config

import (
	"os"
	"path/filepath"
)

// Discover walks up from dir (or the working directory when dir is empty)
// looking for .tkonverter/analysis.yaml. It stops at the filesystem root or
// the user's home directory, whichever comes first. ok is false when no
// config file exists, which callers treat as "use defaults".
func Discover(dir string) (path string, ok bool) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", false
		}
	}
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, ConfigDirName, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// LoadOrDefault resolves configuration for a session: an explicit path wins,
// otherwise a discovered file, otherwise defaults.
func LoadOrDefault(explicit string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path, ok := Discover(""); ok {
		return Load(path)
	}
	return Default(), nil
}
