package installs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdporres/wdssupermenu/pkg/configstore"
)

const testSID = "S-1-5-18"

func addProduct(t *testing.T, s *configstore.MemoryStore, sid, guid, name, publisher, location string) {
	t.Helper()
	path := configstore.JoinPath(configstore.UserDataPath, sid, "Products", guid, "InstallProperties")
	require.NoError(t, s.Set(configstore.LocalMachine, path, "DisplayName", configstore.StringValue(name)))
	require.NoError(t, s.Set(configstore.LocalMachine, path, "Publisher", configstore.StringValue(publisher)))
	require.NoError(t, s.Set(configstore.LocalMachine, path, "InstallLocation", configstore.StringValue(location)))
}

func TestFindInstallParentDirectoriesNoMatches(t *testing.T) {
	s := configstore.NewMemoryStore()
	addProduct(t, s, testSID, "A1", "Other Game", "Other Co", `C:\Other\Game`)

	r := NewResolver(s, nil)
	assert.Empty(t, r.FindInstallParentDirectories("WDS LLC"))
}

func TestFindInstallParentDirectoriesDeduplicates(t *testing.T) {
	s := configstore.NewMemoryStore()
	addProduct(t, s, testSID, "A1", "Foo", "WDS LLC", `C:\WDS\Foo\app.exe`)
	addProduct(t, s, testSID, "A2", "Bar", "WDS LLC", `C:\WDS\Bar\app.exe`)

	r := NewResolver(s, nil)
	assert.Equal(t, []string{`c:\wds`}, r.FindInstallParentDirectories("WDS LLC"))
}

func TestFindInstallParentDirectoriesFilters(t *testing.T) {
	s := configstore.NewMemoryStore()
	addProduct(t, s, testSID, "A1", "Kursk '43", "WDS LLC", `D:\Games\WDS\Kursk '43\`)
	addProduct(t, s, "S-1-5-21-1", "A2", "Bulge '44", "WDS LLC", `E:\John Tiller\Bulge '44`)
	addProduct(t, s, testSID, "A3", "WDS Super Menu", "WDS LLC", `F:\Tools\Menu`)
	addProduct(t, s, testSID, "A4", "Root Install", "WDS LLC", `G:\RootGame`)
	addProduct(t, s, testSID, "A5", "Case", "wds llc", `H:\Elsewhere\Case`)
	addProduct(t, s, testSID, "A6", "Empty", "WDS LLC", ``)

	r := NewResolver(s, []string{"WDS Super Menu"})
	got := r.FindInstallParentDirectories("WDS LLC")
	assert.Equal(t, []string{`d:\games\wds`, `e:\john tiller`}, got)
}

func TestFindInstallParentDirectoriesSkipsRecordsWithoutLocation(t *testing.T) {
	s := configstore.NewMemoryStore()
	path := configstore.JoinPath(configstore.UserDataPath, testSID, "Products", "A1", "InstallProperties")
	require.NoError(t, s.Set(configstore.LocalMachine, path, "DisplayName", configstore.StringValue("Broken")))
	require.NoError(t, s.Set(configstore.LocalMachine, path, "Publisher", configstore.StringValue("WDS LLC")))
	addProduct(t, s, testSID, "A2", "Fine", "WDS LLC", `C:\WDS\Fine`)

	r := NewResolver(s, nil)
	assert.Equal(t, []string{`c:\wds`}, r.FindInstallParentDirectories("WDS LLC"))
}

func TestFindInstallParentDirectoriesMissingUserData(t *testing.T) {
	r := NewResolver(configstore.NewMemoryStore(), nil)
	assert.Empty(t, r.FindInstallParentDirectories("WDS LLC"))
}

func TestParentOfInstallLocation(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`C:\WDS\Foo\app.exe`, `c:\wds`, true},
		{`C:\WDS\Foo\`, `c:\wds`, true},
		{`C:/WDS/Foo`, `c:\wds`, true},
		{`C:\Spiele\Straße\Kursk\pzc.exe`, `c:\spiele\straße`, true},
		{`C:\Foo`, ``, false},
		{`C:\Foo\app.exe`, ``, false},
		{``, ``, false},
	}
	for _, tt := range tests {
		got, ok := ParentOfInstallLocation(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func addRecord(t *testing.T, s *configstore.MemoryStore, guid, name, icon string, version uint32) {
	t.Helper()
	path := configstore.JoinPath(configstore.ProductsPath, guid)
	require.NoError(t, s.Set(configstore.LocalMachine, path, "ProductName", configstore.StringValue(name)))
	if icon != "" {
		require.NoError(t, s.Set(configstore.LocalMachine, path, "ProductIcon", configstore.StringValue(icon)))
	}
	require.NoError(t, s.Set(configstore.LocalMachine, path, "Version", configstore.DWordValue(version)))
}

func TestReadRecords(t *testing.T) {
	s := configstore.NewMemoryStore()
	addRecord(t, s, "G1", "Panzer Campaigns - Kursk '43", `C:\WDS\Kursk '43\Kursk.exe`, 4<<24|3<<16|7)
	addRecord(t, s, "G2", "No Icon", "", 1<<24)
	addRecord(t, s, "G3", "Icon File", `C:\WDS\x\icon.ico`, 1<<24)
	addRecord(t, s, "G4", "Missing File", `C:\WDS\gone\gone.exe`, 1<<24)

	r := NewResolver(s, nil)
	r.Exists = func(path string) bool { return path != `C:\WDS\gone\gone.exe` }

	records := r.ReadRecords()
	require.Len(t, records, 1)

	rec, ok := records.Get("PANZER CAMPAIGNS - KURSK '43")
	require.True(t, ok)
	assert.Equal(t, "4.03.7", rec.Version())
	assert.True(t, records.HasExecutable("kursk.exe"))
	assert.False(t, records.HasExecutable("other.exe"))
}

func TestRecordsLookup(t *testing.T) {
	records := Records{
		"panzer campaigns - kursk '43": {ProductName: "Panzer Campaigns - Kursk '43", VersionRaw: 1<<24 | 2<<16 | 3},
		"modern campaigns - fulda gap": {ProductName: "Modern Campaigns - Fulda Gap"},
	}

	rec, ok := records.Lookup("Kursk '43")
	require.True(t, ok)
	assert.Equal(t, "1.02.3", rec.Version())

	_, ok = records.Lookup("Smolensk '41")
	assert.False(t, ok)

	_, ok = records.Lookup("")
	assert.False(t, ok)
}

func TestRecordVersionZero(t *testing.T) {
	assert.Equal(t, "", Record{}.Version())
	assert.Equal(t, "2.10.65535", Record{VersionRaw: 2<<24 | 10<<16 | 0xFFFF}.Version())
}
