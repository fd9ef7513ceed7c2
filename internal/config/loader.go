package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/charliek/slotview/internal/constants"
)

// LoadEnvFile reads a .env file and returns the variables as a map
func LoadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("env file not found: %s", path)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	return env, nil
}

// ApplyEnv exports variables into the process environment without
// overriding values that are already set. Returns the keys it set.
func ApplyEnv(env map[string]string) ([]string, error) {
	var set []string
	for k, v := range env {
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return set, fmt.Errorf("setting %s: %w", k, err)
		}
		set = append(set, k)
	}
	return set, nil
}

// resolvePath resolves a potentially relative path against a base directory
func resolvePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ConfigCandidates returns the locations searched for a config file, in order
func ConfigCandidates() []string {
	candidates := []string{
		"slotview.yaml",
		"slotview.yml",
		"slotview.toml",
		".slotview.yaml",
		".slotview.yml",
		".slotview.toml",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(dir, constants.AppName, "config.yaml"),
			filepath.Join(dir, constants.AppName, "config.toml"),
		)
	}
	return candidates
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() (string, error) {
	candidates := ConfigCandidates()

	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	return "", fmt.Errorf("no config file found (tried: %v)", candidates)
}

// CheckFilePermissions checks if a file has secure permissions.
// On Unix-like systems, it verifies the file is not world-writable.
func CheckFilePermissions(path string) error {
	// Skip permission check on Windows
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking file permissions: %w", err)
	}

	// World-writable = others have write (0002)
	if info.Mode().Perm()&0002 != 0 {
		return fmt.Errorf("config file %s has insecure permissions: world-writable files can be modified by any user. Please run: chmod o-w %s", path, path)
	}

	return nil
}
