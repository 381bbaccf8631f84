// pkg/replicate/replicate.go - copies per-game option values between games.
//
// Every game keeps its settings under HKCU\Software\<Vendor>\<Game>\Options.
// A copy reads the source subtree once and writes each value to the target
// with its kind preserved. The source is never written.

package replicate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sdporres/wdssupermenu/pkg/configstore"
	"github.com/sdporres/wdssupermenu/pkg/logging"
)

// DefaultVendor is the vendor key the games register their settings under.
const DefaultVendor = "WDS LLC"

var (
	ErrSourceNotFound     = errors.New("source application not found")
	ErrTargetNotFound     = errors.New("target application not found")
	ErrTargetCreateFailed = errors.New("target settings could not be created")
	ErrTargetRunning      = errors.New("target application is running")
	ErrTargetIsSource     = errors.New("target is the source application")
)

// CopyError describes a failed copy for one application.
type CopyError struct {
	Op  string
	App string
	Err error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.App, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// Replicator copies option subtrees within one vendor's settings.
type Replicator struct {
	Store  configstore.Store
	Vendor string
}

// New returns a replicator for vendor. An empty vendor means DefaultVendor.
func New(store configstore.Store, vendor string) *Replicator {
	if vendor == "" {
		vendor = DefaultVendor
	}
	return &Replicator{Store: store, Vendor: vendor}
}

func (r *Replicator) optionsPath(app string) string {
	return configstore.OptionsPath(r.Vendor, app)
}

// CopyOptions copies every option of source to target. With
// requireExistingKey the target subtree must already exist and only options it
// already holds are overwritten; otherwise the subtree is created as needed.
func (r *Replicator) CopyOptions(source, target string, requireExistingKey bool) error {
	values, err := r.Snapshot(source)
	if err != nil {
		return err
	}

	var dst configstore.Key
	if requireExistingKey {
		dst, err = r.Store.OpenKey(configstore.CurrentUser, r.optionsPath(target), configstore.ReadWrite)
		if err != nil {
			if errors.Is(err, configstore.ErrNotExist) {
				return &CopyError{Op: "open", App: target, Err: ErrTargetNotFound}
			}
			return &CopyError{Op: "open", App: target, Err: err}
		}
	} else {
		dst, err = r.Store.CreateKey(configstore.CurrentUser, r.optionsPath(target))
		if err != nil {
			return &CopyError{Op: "create", App: target, Err: fmt.Errorf("%w: %v", ErrTargetCreateFailed, err)}
		}
	}
	defer dst.Close()

	var existing map[string]bool
	if requireExistingKey {
		names, err := dst.ValueNames()
		if err != nil {
			return &CopyError{Op: "read", App: target, Err: err}
		}
		existing = make(map[string]bool, len(names))
		for _, n := range names {
			existing[strings.ToLower(n)] = true
		}
	}

	copied := 0
	for _, name := range sortedNames(values) {
		if existing != nil && !existing[strings.ToLower(name)] {
			continue
		}
		if err := dst.SetValue(name, values[name]); err != nil {
			return &CopyError{Op: "write", App: target, Err: fmt.Errorf("value %s: %w", name, err)}
		}
		copied++
	}
	logging.Info("Copied options", "source", source, "target", target, "values", copied)
	return nil
}

// Snapshot returns every option value of app.
func (r *Replicator) Snapshot(app string) (map[string]configstore.Value, error) {
	src, err := r.Store.OpenKey(configstore.CurrentUser, r.optionsPath(app), configstore.ReadOnly)
	if err != nil {
		if errors.Is(err, configstore.ErrNotExist) {
			return nil, &CopyError{Op: "open", App: app, Err: ErrSourceNotFound}
		}
		return nil, &CopyError{Op: "open", App: app, Err: err}
	}
	defer src.Close()

	names, err := src.ValueNames()
	if err != nil {
		return nil, &CopyError{Op: "read", App: app, Err: err}
	}
	values := make(map[string]configstore.Value, len(names))
	for _, name := range names {
		v, err := src.GetValue(name)
		if err != nil {
			return nil, &CopyError{Op: "read", App: app, Err: fmt.Errorf("value %s: %w", name, err)}
		}
		values[name] = v
	}
	return values, nil
}

// Applications lists the vendor's applications that have an Options subtree,
// sorted by name.
func (r *Replicator) Applications() ([]string, error) {
	vendorKey, err := r.Store.OpenKey(configstore.CurrentUser, configstore.VendorPath(r.Vendor), configstore.ReadOnly)
	if err != nil {
		if errors.Is(err, configstore.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening vendor key: %w", err)
	}
	defer vendorKey.Close()

	apps, err := vendorKey.SubKeyNames()
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}

	var out []string
	for _, app := range apps {
		k, err := r.Store.OpenKey(configstore.CurrentUser, r.optionsPath(app), configstore.ReadOnly)
		if err != nil {
			continue
		}
		k.Close()
		out = append(out, app)
	}
	sort.Strings(out)
	return out, nil
}

func sortedNames(values map[string]configstore.Value) []string {
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
