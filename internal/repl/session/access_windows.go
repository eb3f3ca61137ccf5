//go:build windows

package session

func checkAccess(path string) error {
	return nil
}
