// pkg/installs/resolver.go - finds the parent directories of a publisher's installs.
//
// Package installs walks the Windows Installer records in the configuration
// store to find where a publisher's products live.
package installs

import (
	"sort"

	"github.com/sdporres/wdssupermenu/pkg/configstore"
	"github.com/sdporres/wdssupermenu/pkg/logging"
	"github.com/sdporres/wdssupermenu/pkg/utils"
)

// InstallProperties are the values read from a per-user product record.
type InstallProperties struct {
	DisplayName     string
	Publisher       string
	InstallLocation string
}

// Resolver reads install records from a configuration store.
type Resolver struct {
	Store configstore.Store
	// ExcludedDisplayNames are skipped by exact display name match.
	ExcludedDisplayNames []string
	// Exists reports whether a file exists; nil uses os.Stat.
	Exists func(path string) bool
}

// NewResolver returns a resolver over store.
func NewResolver(store configstore.Store, excluded []string) *Resolver {
	return &Resolver{Store: store, ExcludedDisplayNames: excluded}
}

// FindInstallParentDirectories returns the normalized parent directories of
// every install location published by publisher. The result is sorted and
// contains no duplicates. Unreadable records are skipped.
func (r *Resolver) FindInstallParentDirectories(publisher string) []string {
	set := make(map[string]struct{})

	for _, props := range r.ReadInstallProperties() {
		if props.Publisher != publisher {
			continue
		}
		if r.excluded(props.DisplayName) {
			logging.Debug("Skipping excluded product", "name", props.DisplayName)
			continue
		}
		parent, ok := ParentOfInstallLocation(props.InstallLocation)
		if !ok {
			logging.Debug("Install location has no usable parent", "name", props.DisplayName, "location", props.InstallLocation)
			continue
		}
		set[parent] = struct{}{}
	}

	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	logging.Info("Resolved install parent directories", "publisher", publisher, "count", len(dirs))
	return dirs
}

// ParentOfInstallLocation computes the normalized parent of an install
// location. A location naming an executable is reduced to its folder first.
// Locations whose parent is a bare volume root are rejected.
func ParentOfInstallLocation(location string) (string, bool) {
	location = utils.TrimSeparators(utils.NormalizeWindowsPath(location))
	if location == "" {
		return "", false
	}
	if utils.Ext(location) == ".exe" {
		location = utils.ParentDir(location)
	}
	parent := utils.ParentDir(location)
	if parent == "" || utils.IsVolumeRoot(parent) {
		return "", false
	}
	return utils.FoldPath(parent), true
}

func (r *Resolver) excluded(displayName string) bool {
	for _, name := range r.ExcludedDisplayNames {
		if name == displayName {
			return true
		}
	}
	return false
}

// ReadInstallProperties enumerates
// UserData\<SID>\Products\<GUID>\InstallProperties for every SID.
func (r *Resolver) ReadInstallProperties() []InstallProperties {
	userData, err := r.Store.OpenKey(configstore.LocalMachine, configstore.UserDataPath, configstore.ReadOnly)
	if err != nil {
		logging.Warn("Failed to open installer user data", "path", configstore.UserDataPath, "error", err)
		return nil
	}
	defer userData.Close()

	sids, err := userData.SubKeyNames()
	if err != nil {
		logging.Warn("Unable to read installer user SIDs", "error", err)
		return nil
	}

	var all []InstallProperties
	for _, sid := range sids {
		all = append(all, r.readUserProducts(sid)...)
	}
	return all
}

func (r *Resolver) readUserProducts(sid string) []InstallProperties {
	productsPath := configstore.JoinPath(configstore.UserDataPath, sid, "Products")
	products, err := r.Store.OpenKey(configstore.LocalMachine, productsPath, configstore.ReadOnly)
	if err != nil {
		logging.Debug("No products for SID", "sid", sid, "error", err)
		return nil
	}
	defer products.Close()

	guids, err := products.SubKeyNames()
	if err != nil {
		logging.Warn("Unable to read products", "sid", sid, "error", err)
		return nil
	}

	var out []InstallProperties
	for _, guid := range guids {
		props, err := r.readInstallProperties(configstore.JoinPath(productsPath, guid, "InstallProperties"))
		if err != nil {
			logging.Debug("Skipping product record", "sid", sid, "product", guid, "error", err)
			continue
		}
		out = append(out, props)
	}
	return out
}

func (r *Resolver) readInstallProperties(path string) (InstallProperties, error) {
	k, err := r.Store.OpenKey(configstore.LocalMachine, path, configstore.ReadOnly)
	if err != nil {
		return InstallProperties{}, err
	}
	defer k.Close()

	var props InstallProperties
	props.DisplayName, _ = configstore.ReadString(k, "DisplayName")
	props.Publisher, _ = configstore.ReadString(k, "Publisher")
	if props.InstallLocation, err = configstore.ReadString(k, "InstallLocation"); err != nil {
		return InstallProperties{}, err
	}
	return props, nil
}
