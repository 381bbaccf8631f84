// pkg/configstore/configstore.go - typed access to the hierarchical configuration store.
//
// The store mirrors the shape of the Windows registry: hives hold keys, keys hold
// subkeys and typed values. Everything else in the module talks to the store
// through the Store and Key interfaces so the traversal and replication logic can
// run against the real registry or the in-memory implementation.

package configstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotExist is returned when a key or value does not exist.
var ErrNotExist = errors.New("configstore: key or value does not exist")

// Hive identifies a top-level root of the store.
type Hive int

const (
	LocalMachine Hive = iota
	CurrentUser
)

// String returns the conventional abbreviation of the hive.
func (h Hive) String() string {
	switch h {
	case LocalMachine:
		return "HKLM"
	case CurrentUser:
		return "HKCU"
	default:
		return "UNKNOWN"
	}
}

// Access selects how a key is opened.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

// Store opens keys below a hive.
type Store interface {
	// OpenKey opens an existing key. Missing keys yield an error matching ErrNotExist.
	OpenKey(hive Hive, path string, access Access) (Key, error)
	// CreateKey opens a key for writing, creating it and any missing parents.
	CreateKey(hive Hive, path string) (Key, error)
}

// Key is an open node of the store.
type Key interface {
	SubKeyNames() ([]string, error)
	ValueNames() ([]string, error)
	GetValue(name string) (Value, error)
	SetValue(name string, v Value) error
	Close() error
}

// Registry layout consumed by the resolver and the replicator.
const (
	ProductsPath = `SOFTWARE\Classes\Installer\Products`
	UserDataPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Installer\UserData`
)

// VendorPath returns the per-user root holding every application of a vendor.
func VendorPath(vendor string) string {
	return `Software\` + vendor
}

// OptionsPath returns the per-user Options subtree of an application.
func OptionsPath(vendor, app string) string {
	return VendorPath(vendor) + `\` + app + `\Options`
}

// JoinPath joins key path elements with the store separator.
func JoinPath(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		e = strings.Trim(e, `\`)
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, `\`)
}

// ReadString returns a string value, tolerating integer values by formatting them.
func ReadString(k Key, name string) (string, error) {
	v, err := k.GetValue(name)
	if err != nil {
		return "", err
	}
	switch v.Kind {
	case KindString, KindExpandString:
		return v.String, nil
	case KindDWord, KindQWord:
		return fmt.Sprintf("%d", v.Integer), nil
	case KindMultiString:
		return strings.Join(v.Strings, ","), nil
	default:
		return "", fmt.Errorf("value %s has unsupported kind %s", name, v.Kind)
	}
}

// ReadInteger returns an integer value.
func ReadInteger(k Key, name string) (uint64, error) {
	v, err := k.GetValue(name)
	if err != nil {
		return 0, err
	}
	if v.Kind != KindDWord && v.Kind != KindQWord {
		return 0, fmt.Errorf("value %s is %s, not an integer", name, v.Kind)
	}
	return v.Integer, nil
}
