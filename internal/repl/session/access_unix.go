//go:build !windows

package session

import "golang.org/x/sys/unix"

// checkAccess reports whether the directory can be searched by this process.
func checkAccess(path string) error {
	return unix.Access(path, unix.X_OK)
}
