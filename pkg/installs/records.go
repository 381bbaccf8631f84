// pkg/installs/records.go - reads installer product records and their versions.

package installs

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sdporres/wdssupermenu/pkg/configstore"
	"github.com/sdporres/wdssupermenu/pkg/logging"
	"github.com/sdporres/wdssupermenu/pkg/utils"
)

// Record is a product registered with Windows Installer.
type Record struct {
	ProductName string
	IconPath    string
	VersionRaw  uint32
}

// Version decodes VersionRaw (major<<24 | minor<<16 | patch) as "major.mm.patch".
func (r Record) Version() string {
	if r.VersionRaw == 0 {
		return ""
	}
	major := (r.VersionRaw >> 24) & 0xFF
	minor := (r.VersionRaw >> 16) & 0xFF
	patch := r.VersionRaw & 0xFFFF
	return fmt.Sprintf("%d.%02d.%d", major, minor, patch)
}

// Records holds install records keyed by lower-cased product name.
type Records map[string]Record

// Get returns the record for a product name, ignoring case.
func (rs Records) Get(productName string) (Record, bool) {
	r, ok := rs[strings.ToLower(productName)]
	return r, ok
}

// Lookup returns the first record, in product name order, whose name contains
// folderName. Matching ignores case.
func (rs Records) Lookup(folderName string) (Record, bool) {
	needle := strings.ToLower(folderName)
	if needle == "" {
		return Record{}, false
	}
	for _, key := range rs.keys() {
		if strings.Contains(key, needle) {
			return rs[key], true
		}
	}
	return Record{}, false
}

// HasExecutable reports whether fileName is the icon executable of any record.
func (rs Records) HasExecutable(fileName string) bool {
	for _, r := range rs {
		if strings.EqualFold(utils.BaseName(r.IconPath), fileName) {
			return true
		}
	}
	return false
}

func (rs Records) keys() []string {
	keys := make([]string, 0, len(rs))
	for k := range rs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadRecords enumerates HKLM\SOFTWARE\Classes\Installer\Products. Products
// without a name or without an existing .exe icon are skipped.
func (r *Resolver) ReadRecords() Records {
	records := make(Records)

	productsKey, err := r.Store.OpenKey(configstore.LocalMachine, configstore.ProductsPath, configstore.ReadOnly)
	if err != nil {
		logging.Warn("Failed to open installer products key", "path", configstore.ProductsPath, "error", err)
		return records
	}
	defer productsKey.Close()

	subKeys, err := productsKey.SubKeyNames()
	if err != nil {
		logging.Warn("Unable to read installer product keys", "error", err)
		return records
	}

	exists := r.Exists
	if exists == nil {
		exists = fileExists
	}

	for _, guid := range subKeys {
		rec, err := r.readRecord(guid)
		if err != nil {
			logging.Debug("Skipping installer product", "product", guid, "error", err)
			continue
		}
		if rec.ProductName == "" || rec.IconPath == "" || utils.Ext(rec.IconPath) != ".exe" || !exists(rec.IconPath) {
			continue
		}
		records[strings.ToLower(rec.ProductName)] = rec
		logging.Debug("Cached install record", "product", rec.ProductName, "icon", rec.IconPath, "version", rec.Version())
	}
	return records
}

func (r *Resolver) readRecord(guid string) (Record, error) {
	k, err := r.Store.OpenKey(configstore.LocalMachine, configstore.JoinPath(configstore.ProductsPath, guid), configstore.ReadOnly)
	if err != nil {
		return Record{}, err
	}
	defer k.Close()

	var rec Record
	if rec.ProductName, err = configstore.ReadString(k, "ProductName"); err != nil {
		return Record{}, err
	}
	rec.IconPath, _ = configstore.ReadString(k, "ProductIcon")
	if n, err := configstore.ReadInteger(k, "Version"); err == nil {
		rec.VersionRaw = uint32(n)
	}
	return rec, nil
}
