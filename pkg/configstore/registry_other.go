//go:build !windows

package configstore

import "errors"

// OpenSystem returns the platform configuration store. Only Windows has one.
func OpenSystem() (Store, error) {
	return nil, errors.New("configstore: the system registry is only available on Windows")
}
