//go:build !windows

package discovery

import "errors"

// FixedDrives is only available on Windows.
func FixedDrives() ([]string, error) {
	return nil, errors.New("fixed drive enumeration requires Windows")
}
