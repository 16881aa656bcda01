//go:build unix

package comm

import (
	"errors"

	"golang.org/x/sys/unix"
)

// diagnoseOpen gives a short reason for a failed open of a device node, or ""
// when the node looks usable and the failure came from somewhere else.
func diagnoseOpen(path string) string {
	err := unix.Access(path, unix.R_OK|unix.W_OK)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, unix.ENOENT):
		return "device not present"
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return "permission denied"
	default:
		return err.Error()
	}
}
