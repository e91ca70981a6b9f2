package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindProjectRoot walks up from start until it finds a directory containing marker.
func FindProjectRoot(start, marker string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", fmt.Errorf("%s not found in %s or any parent directory: %w", marker, start, os.ErrNotExist)
		}
		dir = parentDir
	}
}
