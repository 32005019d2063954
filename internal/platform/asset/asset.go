// Package asset checks display-only files (figures, datasets). A missing
// asset never fails a view; it becomes a warning next to what did render.
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var ErrMissingAsset = errors.New("missing asset")

// MissingError names the absent asset.
type MissingError struct {
	Name string
	Path string
	Err  error
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s not found at %s: %v", e.Name, e.Path, e.Err)
}

func (e *MissingError) Unwrap() error { return ErrMissingAsset }

// Warning is the user-visible form of a MissingError.
type Warning struct {
	Asset   string `json:"asset"`
	Message string `json:"message"`
}

// Stat reports a *MissingError when path is absent, unreadable or a
// directory.
func Stat(name, path string) error {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return &MissingError{Name: name, Path: path, Err: err}
	case info.IsDir():
		return &MissingError{Name: name, Path: path, Err: fs.ErrInvalid}
	}
	return nil
}

// WarningFor converts err into a Warning. ok is false for errors that are not
// missing-asset errors; callers must treat those as real failures.
func WarningFor(name, message string, err error) (Warning, bool) {
	if !errors.Is(err, ErrMissingAsset) {
		return Warning{}, false
	}
	return Warning{Asset: name, Message: message}, true
}
