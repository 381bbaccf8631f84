// pkg/configstore/memory.go - in-memory Store with registry-style case-insensitive names.

package configstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// errReadOnly is returned when writing through a key opened with ReadOnly.
var errReadOnly = errors.New("configstore: key opened read-only")

// MemoryStore is an in-memory Store. Key and value names are matched
// case-insensitively and enumerated in creation order, like the registry.
type MemoryStore struct {
	mu    sync.RWMutex
	hives map[Hive]*memNode
}

type memNode struct {
	name      string
	children  map[string]*memNode
	childList []string
	values    map[string]Value
	valueList []string
}

func newMemNode(name string) *memNode {
	return &memNode{
		name:     name,
		children: make(map[string]*memNode),
		values:   make(map[string]Value),
	}
}

// NewMemoryStore returns an empty store with both hives present.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		hives: map[Hive]*memNode{
			LocalMachine: newMemNode(LocalMachine.String()),
			CurrentUser:  newMemNode(CurrentUser.String()),
		},
	}
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, `\`) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func (s *MemoryStore) walk(hive Hive, path string, create bool) (*memNode, error) {
	node, ok := s.hives[hive]
	if !ok {
		return nil, fmt.Errorf("unknown hive %d: %w", hive, ErrNotExist)
	}
	for _, part := range splitPath(path) {
		lower := strings.ToLower(part)
		child, ok := node.children[lower]
		if !ok {
			if !create {
				return nil, fmt.Errorf("%s\\%s: %w", hive, path, ErrNotExist)
			}
			child = newMemNode(part)
			node.children[lower] = child
			node.childList = append(node.childList, lower)
		}
		node = child
	}
	return node, nil
}

// OpenKey implements Store.
func (s *MemoryStore) OpenKey(hive Hive, path string, access Access) (Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, err := s.walk(hive, path, false)
	if err != nil {
		return nil, err
	}
	return &memKey{store: s, node: node, writable: access == ReadWrite}, nil
}

// CreateKey implements Store.
func (s *MemoryStore) CreateKey(hive Hive, path string) (Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	node, err := s.walk(hive, path, true)
	if err != nil {
		return nil, err
	}
	return &memKey{store: s, node: node, writable: true}, nil
}

// Set writes a value, creating the key as needed.
func (s *MemoryStore) Set(hive Hive, path, name string, v Value) error {
	k, err := s.CreateKey(hive, path)
	if err != nil {
		return err
	}
	defer k.Close()
	return k.SetValue(name, v)
}

type memKey struct {
	store    *MemoryStore
	node     *memNode
	writable bool
	closed   bool
}

func (k *memKey) check() error {
	if k.closed {
		return errors.New("configstore: key is closed")
	}
	return nil
}

func (k *memKey) SubKeyNames() ([]string, error) {
	if err := k.check(); err != nil {
		return nil, err
	}
	k.store.mu.RLock()
	defer k.store.mu.RUnlock()
	names := make([]string, 0, len(k.node.childList))
	for _, lower := range k.node.childList {
		names = append(names, k.node.children[lower].name)
	}
	return names, nil
}

func (k *memKey) ValueNames() ([]string, error) {
	if err := k.check(); err != nil {
		return nil, err
	}
	k.store.mu.RLock()
	defer k.store.mu.RUnlock()
	names := make([]string, 0, len(k.node.valueList))
	for _, name := range k.node.valueList {
		names = append(names, name)
	}
	return names, nil
}

func (k *memKey) GetValue(name string) (Value, error) {
	if err := k.check(); err != nil {
		return Value{}, err
	}
	k.store.mu.RLock()
	defer k.store.mu.RUnlock()
	v, ok := k.node.values[strings.ToLower(name)]
	if !ok {
		return Value{}, fmt.Errorf("value %q: %w", name, ErrNotExist)
	}
	return v.Clone(), nil
}

func (k *memKey) SetValue(name string, v Value) error {
	if err := k.check(); err != nil {
		return err
	}
	if !k.writable {
		return errReadOnly
	}
	k.store.mu.Lock()
	defer k.store.mu.Unlock()
	lower := strings.ToLower(name)
	if _, ok := k.node.values[lower]; !ok {
		k.node.valueList = append(k.node.valueList, name)
	}
	k.node.values[lower] = v.Clone()
	return nil
}

func (k *memKey) Close() error {
	k.closed = true
	return nil
}
