//go:build windows

package configstore

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// The registry package has no setter for arbitrary value types.
var procRegSetValueExW = windows.NewLazySystemDLL("advapi32.dll").NewProc("RegSetValueExW")

// RegistryStore is the Store backed by the Windows registry.
type RegistryStore struct{}

// NewRegistryStore returns a Store over the live registry.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{}
}

// OpenSystem returns the registry-backed store.
func OpenSystem() (Store, error) {
	return NewRegistryStore(), nil
}

func rootKey(h Hive) (registry.Key, error) {
	switch h {
	case LocalMachine:
		return registry.LOCAL_MACHINE, nil
	case CurrentUser:
		return registry.CURRENT_USER, nil
	default:
		return 0, fmt.Errorf("unknown hive %d", h)
	}
}

func translateErr(err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("%v: %w", err, ErrNotExist)
	}
	return err
}

// OpenKey implements Store.
func (s *RegistryStore) OpenKey(hive Hive, path string, access Access) (Key, error) {
	root, err := rootKey(hive)
	if err != nil {
		return nil, err
	}
	mode := uint32(registry.READ)
	if access == ReadWrite {
		mode |= registry.WRITE
	}
	k, err := registry.OpenKey(root, path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry key %s\\%s: %w", hive, path, translateErr(err))
	}
	return &registryKey{key: k}, nil
}

// CreateKey implements Store.
func (s *RegistryStore) CreateKey(hive Hive, path string) (Key, error) {
	root, err := rootKey(hive)
	if err != nil {
		return nil, err
	}
	k, _, err := registry.CreateKey(root, path, registry.READ|registry.WRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry key %s\\%s: %w", hive, path, err)
	}
	return &registryKey{key: k}, nil
}

type registryKey struct {
	key registry.Key
}

func (k *registryKey) SubKeyNames() ([]string, error) {
	return k.key.ReadSubKeyNames(-1)
}

func (k *registryKey) ValueNames() ([]string, error) {
	return k.key.ReadValueNames(-1)
}

func (k *registryKey) GetValue(name string) (Value, error) {
	size, valType, err := k.key.GetValue(name, nil)
	if err != nil {
		return Value{}, translateErr(err)
	}

	switch valType {
	case registry.SZ, registry.EXPAND_SZ:
		s, _, err := k.key.GetStringValue(name)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Kind(valType), String: s}, nil
	case registry.DWORD, registry.QWORD:
		n, _, err := k.key.GetIntegerValue(name)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: Kind(valType), Integer: n}, nil
	case registry.MULTI_SZ:
		ss, _, err := k.key.GetStringsValue(name)
		if err != nil {
			return Value{}, err
		}
		return MultiStringValue(ss), nil
	case registry.BINARY:
		b, _, err := k.key.GetBinaryValue(name)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBinary, Binary: b}, nil
	default:
		// Other types (REG_NONE, REG_DWORD_BIG_ENDIAN, ...) are carried as raw bytes.
		raw := make([]byte, size)
		if size > 0 {
			n, _, err := k.key.GetValue(name, raw)
			if err != nil {
				return Value{}, translateErr(err)
			}
			raw = raw[:n]
		}
		return Value{Kind: Kind(valType), Binary: raw}, nil
	}
}

func (k *registryKey) SetValue(name string, v Value) error {
	switch v.Kind {
	case KindString:
		return k.key.SetStringValue(name, v.String)
	case KindExpandString:
		return k.key.SetExpandStringValue(name, v.String)
	case KindDWord:
		return k.key.SetDWordValue(name, uint32(v.Integer))
	case KindQWord:
		return k.key.SetQWordValue(name, v.Integer)
	case KindMultiString:
		return k.key.SetStringsValue(name, v.Strings)
	case KindBinary:
		return k.key.SetBinaryValue(name, v.Binary)
	default:
		return k.setRawValue(name, v.Kind, v.Binary)
	}
}

func (k *registryKey) setRawValue(name string, kind Kind, data []byte) error {
	pname, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	var pdata *byte
	if len(data) > 0 {
		pdata = &data[0]
	}
	r, _, _ := procRegSetValueExW.Call(
		uintptr(k.key),
		uintptr(unsafe.Pointer(pname)),
		0,
		uintptr(kind),
		uintptr(unsafe.Pointer(pdata)),
		uintptr(len(data)),
	)
	if r != 0 {
		return fmt.Errorf("failed to write value %s of kind %s: %w", name, kind, syscall.Errno(r))
	}
	return nil
}

func (k *registryKey) Close() error {
	return k.key.Close()
}
