// pkg/update/update.go - checks the release feed for a newer version.

package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	version "github.com/hashicorp/go-version"

	"github.com/sdporres/wdssupermenu/pkg/download"
	"github.com/sdporres/wdssupermenu/pkg/logging"
)

// DefaultURL is the latest-release endpoint of the project.
const DefaultURL = "https://api.github.com/repos/sdporres/WDSSuperMenu/releases/latest"

const noNotes = "No release notes available."

// Info describes the latest published release.
type Info struct {
	Available   bool
	Version     string
	Notes       string
	PublishedAt time.Time
	DownloadURL string
}

type release struct {
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []asset   `json:"assets"`
}

type asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Probe queries a release feed.
type Probe struct {
	URL      string
	Download download.Options
}

// NewProbe returns a probe for url, or DefaultURL when url is empty.
func NewProbe(url string, opts download.Options) *Probe {
	if url == "" {
		url = DefaultURL
	}
	return &Probe{URL: url, Download: opts}
}

// CheckForUpdate fetches the latest release and compares it with current.
func (p *Probe) CheckForUpdate(ctx context.Context, current string) (Info, error) {
	logging.Info("Checking for updates", "url", p.URL, "current", current)

	var rel release
	if err := download.FetchJSON(ctx, p.URL, &rel, p.Download); err != nil {
		return Info{}, fmt.Errorf("fetching release metadata: %w", err)
	}
	if rel.TagName == "" {
		return Info{}, fmt.Errorf("release metadata from %s has no tag", p.URL)
	}

	available, err := IsNewer(rel.TagName, current)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Available:   available,
		Version:     rel.TagName,
		Notes:       rel.Body,
		PublishedAt: rel.PublishedAt,
		DownloadURL: downloadURL(rel),
	}
	if strings.TrimSpace(info.Notes) == "" {
		info.Notes = noNotes
	}
	logging.Info("Update check complete", "current", current, "latest", rel.TagName, "available", available)
	return info, nil
}

// IsNewer reports whether latest is strictly greater than current. Either
// may carry a leading "v".
func IsNewer(latest, current string) (bool, error) {
	l, err := parse(latest)
	if err != nil {
		return false, fmt.Errorf("invalid release version %q: %w", latest, err)
	}
	c, err := parse(current)
	if err != nil {
		return false, fmt.Errorf("invalid current version %q: %w", current, err)
	}
	return l.GreaterThan(c), nil
}

func parse(s string) (*version.Version, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	return version.NewVersion(s)
}

// downloadURL prefers a Windows installer asset over the release page.
func downloadURL(rel release) string {
	for _, a := range rel.Assets {
		name := strings.ToLower(a.Name)
		if strings.HasSuffix(name, ".exe") || strings.HasSuffix(name, ".msi") || strings.Contains(name, "windows") {
			return a.BrowserDownloadURL
		}
	}
	return rel.HTMLURL
}
