package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	gantryerrors "github.com/abatilo/gantry/internal/errors"
)

//nolint:gochecknoglobals // compiled once
var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// FindProjectRoot walks up from cwd looking for .git directory.
// Returns the directory containing .git, or error if not found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		info, statErr := os.Stat(filepath.Join(dir, ".git"))
		if statErr == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", gantryerrors.NotInRepoError{}
		}
		dir = parent
	}
}

// SanitizePath converts an absolute path to a safe directory name.
// "/Users/abatilo/myproject" -> "Users-abatilo-myproject"
func SanitizePath(path string) string {
	result := strings.TrimPrefix(path, "/")
	result = nonAlnum.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// DefaultBasePath returns ~/.gantry/<sanitized-project-root>.
func DefaultBasePath() (string, error) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		return "", err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, gantryDir, SanitizePath(projectRoot)), nil
}
