// pkg/preferences/preferences.go - persisted update-check preferences.

package preferences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CheckInterval is the minimum time between automatic update checks.
const CheckInterval = 24 * time.Hour

// neverChecked is the LastUpdateCheck of a fresh install.
var neverChecked = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Preferences are the user's update settings.
type Preferences struct {
	AutoCheckUpdates bool      `yaml:"AutoCheckUpdates"`
	SkippedVersion   string    `yaml:"SkippedVersion"`
	LastUpdateCheck  time.Time `yaml:"LastUpdateCheck"`
}

// Default returns the preferences of a fresh install.
func Default() *Preferences {
	return &Preferences{
		AutoCheckUpdates: true,
		LastUpdateCheck:  neverChecked,
	}
}

// Load reads preferences from path. A missing file yields the defaults.
func Load(path string) (*Preferences, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing preferences %s: %w", path, err)
	}
	if p.LastUpdateCheck.IsZero() {
		p.LastUpdateCheck = neverChecked
	}
	return p, nil
}

// Save writes preferences to path.
func (p *Preferences) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ShouldCheck reports whether an automatic update check is due.
func (p *Preferences) ShouldCheck(now time.Time) bool {
	return p.AutoCheckUpdates && now.Sub(p.LastUpdateCheck) >= CheckInterval
}

// MarkChecked records a completed check.
func (p *Preferences) MarkChecked(now time.Time) {
	p.LastUpdateCheck = now
}

// ShouldNotify reports whether an available version should be shown.
func (p *Preferences) ShouldNotify(available bool, version string) bool {
	return available && version != p.SkippedVersion
}

// Skip suppresses notifications for version.
func (p *Preferences) Skip(version string) {
	p.SkippedVersion = version
}
