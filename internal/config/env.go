package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads environment variables from a .env file. A missing file
// is not an error; variables already set in the process take precedence.
func LoadEnvFile(envFilePath ...string) error {
	envFile := ".env"
	if len(envFilePath) > 0 && envFilePath[0] != "" {
		envFile = envFilePath[0]
	}

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("error loading %s file: %w", envFile, err)
	}

	return nil
}

// LoadEnvFromMultiplePaths loads the first .env found in the usual locations
func LoadEnvFromMultiplePaths() (string, error) {
	possiblePaths := []string{
		".env",
		"configs/.env",
		"../.env",
	}
	if home, err := os.UserHomeDir(); err == nil {
		possiblePaths = append(possiblePaths, filepath.Join(home, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := LoadEnvFile(path); err != nil {
			return "", err
		}
		return path, nil
	}

	// no .env anywhere is fine, system environment still applies
	return "", nil
}
