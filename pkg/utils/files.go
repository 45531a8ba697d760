package utils

import (
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// SourceName returns path relative to the working directory when it lies
// beneath it, and the cleaned path otherwise. It is used to label tokens.
func SourceName(path string) string {
	fullPath, _, err := GetPathInfo(path)
	if err != nil {
		return filepath.Clean(path)
	}
	wd, err := filepath.Abs(".")
	if err != nil {
		return filepath.Clean(path)
	}
	rel, err := filepath.Rel(wd, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Clean(path)
	}
	return rel
}
