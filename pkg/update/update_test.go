package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdporres/wdssupermenu/pkg/download"
	"github.com/sdporres/wdssupermenu/pkg/preferences"
	"github.com/sdporres/wdssupermenu/pkg/retry"
)

func testDownload() download.Options {
	return download.Options{Timeout: time.Second, Retry: retry.RetryConfig{MaxRetries: 1}}
}

func releaseServer(t *testing.T, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, download.UserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestCheckForUpdateAvailable(t *testing.T) {
	srv, _ := releaseServer(t, `{
		"tag_name": "v1.3.0",
		"html_url": "https://example.invalid/releases/v1.3.0",
		"body": "Fixes",
		"published_at": "2026-05-01T10:00:00Z",
		"assets": [
			{"name": "source.zip", "browser_download_url": "https://example.invalid/source.zip"},
			{"name": "WDSSuperMenu-Setup.MSI", "browser_download_url": "https://example.invalid/setup.msi"}
		]
	}`)

	info, err := NewProbe(srv.URL, testDownload()).CheckForUpdate(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.True(t, info.Available)
	assert.Equal(t, "v1.3.0", info.Version)
	assert.Equal(t, "Fixes", info.Notes)
	assert.Equal(t, "https://example.invalid/setup.msi", info.DownloadURL)
	assert.Equal(t, 2026, info.PublishedAt.Year())
}

func TestCheckForUpdateSameVersion(t *testing.T) {
	srv, _ := releaseServer(t, `{"tag_name": "v1.2.0", "html_url": "https://example.invalid/page"}`)

	info, err := NewProbe(srv.URL, testDownload()).CheckForUpdate(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.False(t, info.Available)
	assert.Equal(t, "No release notes available.", info.Notes)
	assert.Equal(t, "https://example.invalid/page", info.DownloadURL)
}

func TestCheckForUpdateErrors(t *testing.T) {
	srv, _ := releaseServer(t, `{"html_url": "x"}`)
	_, err := NewProbe(srv.URL, testDownload()).CheckForUpdate(context.Background(), "1.2.0")
	assert.Error(t, err)

	bad, _ := releaseServer(t, `not json`)
	_, err = NewProbe(bad.URL, testDownload()).CheckForUpdate(context.Background(), "1.2.0")
	assert.Error(t, err)
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"v1.3.0", "1.2.0", true},
		{"V1.2.1", "v1.2.0", true},
		{"1.2.0", "1.2.0", false},
		{"1.10.0", "1.9.0", true},
		{"1.2", "1.2.0.0", false},
		{"1.1.9", "1.2.0", false},
	}
	for _, tt := range tests {
		got, err := IsNewer(tt.latest, tt.current)
		require.NoError(t, err, tt.latest)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.latest, tt.current)
	}

	_, err := IsNewer("latest", "1.0.0")
	assert.Error(t, err)
}

func TestNewProbeDefaultURL(t *testing.T) {
	assert.Equal(t, DefaultURL, NewProbe("", testDownload()).URL)
}

func TestSchedulerHonoursPreferences(t *testing.T) {
	srv, calls := releaseServer(t, `{"tag_name": "v2.0.0", "html_url": "x"}`)
	prefsPath := filepath.Join(t.TempDir(), "Preferences.yaml")
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	var notified []string
	s := &Scheduler{
		Probe:           NewProbe(srv.URL, testDownload()),
		Current:         "1.0.0",
		PreferencesPath: prefsPath,
		Notify:          func(info Info) { notified = append(notified, info.Version) },
		Now:             func() time.Time { return now },
	}

	_, checked, err := s.CheckIfDue(context.Background())
	require.NoError(t, err)
	assert.True(t, checked)
	assert.Equal(t, []string{"v2.0.0"}, notified)

	_, checked, err = s.CheckIfDue(context.Background())
	require.NoError(t, err)
	assert.False(t, checked)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	prefs, err := preferences.Load(prefsPath)
	require.NoError(t, err)
	assert.True(t, now.Equal(prefs.LastUpdateCheck))
	prefs.Skip("v2.0.0")
	require.NoError(t, prefs.Save(prefsPath))

	now = now.Add(25 * time.Hour)
	_, checked, err = s.CheckIfDue(context.Background())
	require.NoError(t, err)
	assert.True(t, checked)
	assert.Len(t, notified, 1)
}

func TestSchedulerRunStopsWithContext(t *testing.T) {
	srv, calls := releaseServer(t, `{"tag_name": "v1.0.0", "html_url": "x"}`)
	s := &Scheduler{
		Probe:           NewProbe(srv.URL, testDownload()),
		Current:         "1.0.0",
		PreferencesPath: filepath.Join(t.TempDir(), "Preferences.yaml"),
		PollInterval:    time.Hour,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}
