package fileutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rohmanhakim/newsguard/pkg/failure"
)

// GetFileExtension extracts the file extension from a path, or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	// Remove the leading dot
	return strings.TrimPrefix(ext, ".")
}

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	target := filepath.Join(targetPath...)
	if err := os.MkdirAll(target, 0750); err != nil {
		return &FileError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      target,
		}
	}
	return nil
}

// WriteFileAtomic writes data to a sibling temp file and renames it over
// path, so readers observe either the old or the new content.
func WriteFileAtomic(path string, data []byte) failure.ClassifiedError {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &FileError{Message: err.Error(), Retryable: true, Cause: ErrCauseWriteError, Path: path}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &FileError{Message: err.Error(), Retryable: true, Cause: ErrCauseWriteError, Path: path}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &FileError{Message: err.Error(), Retryable: true, Cause: ErrCauseWriteError, Path: path}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &FileError{Message: err.Error(), Retryable: true, Cause: ErrCauseWriteError, Path: path}
	}
	return nil
}
