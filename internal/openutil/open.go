// Package openutil opens an indexed file or folder in the OS's default
// application, grounded on the teacher's pkg/obsidian/uri.go Uri.Execute.
package openutil

import (
	"errors"
	"fmt"

	"github.com/skratchdot/open-golang/open"
)

// ErrOpenFailed wraps any error the OS open call returns.
var ErrOpenFailed = errors.New("failed to open path")

// Run is a seam over open.Run for tests.
var Run = open.Run

// Open launches path in its OS-registered default application.
func Open(path string) error {
	if err := Run(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOpenFailed, path, err)
	}
	return nil
}
