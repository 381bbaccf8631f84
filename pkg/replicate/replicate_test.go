package replicate

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdporres/wdssupermenu/pkg/configstore"
)

// failingCreateStore refuses to create keys for the listed applications.
type failingCreateStore struct {
	*configstore.MemoryStore
	failFor string
}

func (s *failingCreateStore) CreateKey(hive configstore.Hive, path string) (configstore.Key, error) {
	if strings.Contains(strings.ToLower(path), strings.ToLower(`\`+s.failFor+`\`)) {
		return nil, errors.New("access denied")
	}
	return s.MemoryStore.CreateKey(hive, path)
}

func seedOptions(t *testing.T, s *configstore.MemoryStore, app string, values map[string]configstore.Value) {
	t.Helper()
	path := configstore.OptionsPath(DefaultVendor, app)
	for name, v := range values {
		require.NoError(t, s.Set(configstore.CurrentUser, path, name, v))
	}
}

func gameAOptions() map[string]configstore.Value {
	return map[string]configstore.Value{
		"Sound":      configstore.DWordValue(1),
		"PlayerName": configstore.StringValue("Tiller"),
		"Layout":     configstore.BinaryValue([]byte{1, 2, 3}),
		"Recent":     configstore.MultiStringValue([]string{"a.scn", "b.scn"}),
		"Big":        configstore.QWordValue(1 << 40),
	}
}

func readOptions(t *testing.T, s configstore.Store, app string) map[string]configstore.Value {
	t.Helper()
	values, err := New(s, "").Snapshot(app)
	require.NoError(t, err)
	return values
}

func TestCopyOptionsToManyPartialFailure(t *testing.T) {
	mem := configstore.NewMemoryStore()
	seedOptions(t, mem, "gameA", gameAOptions())
	store := &failingCreateStore{MemoryStore: mem, failFor: "gameC"}

	r := New(store, "")
	report := r.CopyOptionsToMany("gameA", []string{"gameB", "gameC"}, Options{})

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 1, report.FailureCount)
	assert.Equal(t, []string{"gameC"}, report.FailedTargets)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, "gameB", report.Outcomes[0].Target)
	assert.True(t, report.Outcomes[0].Succeeded)
	assert.ErrorIs(t, report.Outcomes[1].Err, ErrTargetCreateFailed)

	gameB := readOptions(t, mem, "gameB")
	for name, want := range gameAOptions() {
		got, ok := gameB[name]
		require.True(t, ok, name)
		assert.True(t, want.Equal(got), name)
	}
}

func TestCopyOptionsSourceNotFound(t *testing.T) {
	r := New(configstore.NewMemoryStore(), "")
	err := r.CopyOptions("missing", "gameB", false)
	assert.ErrorIs(t, err, ErrSourceNotFound)

	var copyErr *CopyError
	require.True(t, errors.As(err, &copyErr))
	assert.Equal(t, "missing", copyErr.App)
}

func TestCopyOptionsRequireExistingKey(t *testing.T) {
	mem := configstore.NewMemoryStore()
	seedOptions(t, mem, "gameA", gameAOptions())
	r := New(mem, "")

	err := r.CopyOptions("gameA", "gameB", true)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	seedOptions(t, mem, "gameB", map[string]configstore.Value{
		"sound": configstore.DWordValue(0),
		"Other": configstore.StringValue("keep"),
	})
	require.NoError(t, r.CopyOptions("gameA", "gameB", true))

	gameB := readOptions(t, mem, "gameB")
	assert.Len(t, gameB, 2)
	assert.Equal(t, uint64(1), gameB["sound"].Integer)
	assert.Equal(t, "keep", gameB["Other"].String)
}

func TestCopyOptionsDoesNotTouchSource(t *testing.T) {
	mem := configstore.NewMemoryStore()
	seedOptions(t, mem, "gameA", gameAOptions())
	seedOptions(t, mem, "gameB", map[string]configstore.Value{"Extra": configstore.StringValue("x")})

	require.NoError(t, New(mem, "").CopyOptions("gameA", "gameB", false))

	gameA := readOptions(t, mem, "gameA")
	assert.Len(t, gameA, len(gameAOptions()))
	_, ok := gameA["Extra"]
	assert.False(t, ok)
}

func TestCopyOptionsToManySkipsSource(t *testing.T) {
	mem := configstore.NewMemoryStore()
	seedOptions(t, mem, "gameA", gameAOptions())

	var seen []string
	report := New(mem, "").CopyOptionsToMany("gameA", []string{"GAMEA", "gameB"}, Options{
		Progress: func(target string, index, total int) {
			seen = append(seen, target)
			assert.Equal(t, 1, total)
			assert.Equal(t, 1, index)
		},
	})
	assert.Equal(t, []string{"gameB"}, seen)

	require.Len(t, report.Outcomes, 2)
	skipped := report.Outcomes[0]
	assert.Equal(t, "GAMEA", skipped.Target)
	assert.True(t, skipped.Skipped)
	assert.False(t, skipped.Succeeded)
	assert.ErrorIs(t, skipped.Err, ErrTargetIsSource)
	assert.Equal(t, "gameB", report.Outcomes[1].Target)
	assert.True(t, report.Outcomes[1].Succeeded)

	assert.Equal(t, 1, report.SuccessCount)
	assert.Equal(t, 0, report.FailureCount)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Empty(t, report.FailedTargets)
}

func TestCopyOptionsToManyGuard(t *testing.T) {
	mem := configstore.NewMemoryStore()
	seedOptions(t, mem, "gameA", gameAOptions())

	guard := func(app string) error {
		if app == "gameB" {
			return ErrTargetRunning
		}
		return nil
	}
	report := New(mem, "").CopyOptionsToMany("gameA", []string{"gameB", "gameC"}, Options{Guard: guard})
	assert.Equal(t, []string{"gameB"}, report.FailedTargets)
	assert.ErrorIs(t, report.Outcomes[0].Err, ErrTargetRunning)

	_, err := New(mem, "").Snapshot("gameB")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestCopyOptionsToManyParallelKeepsOrder(t *testing.T) {
	mem := configstore.NewMemoryStore()
	seedOptions(t, mem, "gameA", gameAOptions())
	store := &failingCreateStore{MemoryStore: mem, failFor: "game3"}

	targets := []string{"game1", "game2", "game3", "game4", "game5"}
	var mu sync.Mutex
	indexes := map[int]bool{}
	report := New(store, "").CopyOptionsToMany("gameA", targets, Options{
		Workers: 3,
		Progress: func(target string, index, total int) {
			mu.Lock()
			defer mu.Unlock()
			indexes[index] = true
			assert.Equal(t, len(targets), total)
		},
	})

	require.Len(t, report.Outcomes, len(targets))
	for i, o := range report.Outcomes {
		assert.Equal(t, targets[i], o.Target)
	}
	assert.Equal(t, 4, report.SuccessCount)
	assert.Equal(t, []string{"game3"}, report.FailedTargets)
	assert.Len(t, indexes, len(targets))
}

func TestApplications(t *testing.T) {
	mem := configstore.NewMemoryStore()
	seedOptions(t, mem, "Kursk '43", gameAOptions())
	seedOptions(t, mem, "Bulge '44", gameAOptions())
	require.NoError(t, mem.Set(configstore.CurrentUser, configstore.VendorPath(DefaultVendor)+`\NoOptions`, "x", configstore.StringValue("y")))

	apps, err := New(mem, "").Applications()
	require.NoError(t, err)
	assert.Equal(t, []string{"Bulge '44", "Kursk '43"}, apps)

	apps, err = New(configstore.NewMemoryStore(), "").Applications()
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestCopyOptionsCarriesUncommonKinds(t *testing.T) {
	mem := configstore.NewMemoryStore()
	options := map[string]configstore.Value{
		"Marker": {Kind: configstore.KindNone},
		"Speed":  {Kind: configstore.KindDWordBigEndian, Binary: []byte{0, 0, 0, 7}},
		"Sound":  configstore.DWordValue(1),
		"Oddity": {Kind: configstore.Kind(9), Binary: []byte{0xde, 0xad}},
	}
	seedOptions(t, mem, "gameA", options)

	report := New(mem, "").CopyOptionsToMany("gameA", []string{"gameB"}, Options{})
	require.Equal(t, 1, report.SuccessCount)

	gameB := readOptions(t, mem, "gameB")
	require.Len(t, gameB, len(options))
	for name, want := range options {
		assert.True(t, want.Equal(gameB[name]), name)
	}
}
