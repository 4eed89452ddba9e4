package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"social-app-go/pkg/logger"
)

const dotenvFilename = ".env"

// loadDotEnv applies the nearest .env directory found walking up from the working directory.
// .env.<ENV> next to it overrides .env, and the process environment overrides both.
func loadDotEnv(log logger.Logger) error {
	dir, err := dotenvDir()
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("dotenv: no file found")
		return nil
	}
	if err != nil {
		return err
	}

	files := []string{filepath.Join(dir, dotenvFilename)}
	if env := strings.TrimSpace(os.Getenv("ENV")); env != "" {
		files = append(files, filepath.Join(dir, dotenvFilename+"."+env))
	}

	merged := map[string]string{}
	for _, file := range files {
		values, err := godotenv.Read(file)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		for key, value := range values {
			merged[key] = value
		}
	}

	applied := 0
	for key, value := range merged {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
		applied++
	}

	log.Info("dotenv: loaded", "dir", dir, "applied", applied, "kept_from_env", len(merged)-applied)
	return nil
}

func dotenvDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, dotenvFilename)); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
