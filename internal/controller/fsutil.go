package controller

import "os"

// statOK reports whether path currently exists and is stat-able.
func statOK(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
