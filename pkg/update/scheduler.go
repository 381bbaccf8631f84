// pkg/update/scheduler.go - runs update checks when preferences say one is due.

package update

import (
	"context"
	"time"

	"github.com/sdporres/wdssupermenu/pkg/logging"
	"github.com/sdporres/wdssupermenu/pkg/preferences"
)

// DefaultPollInterval is how often a running Scheduler re-evaluates the
// preferences. Checks themselves happen at most once per CheckInterval.
const DefaultPollInterval = time.Hour

// Scheduler runs automatic update checks subject to the user's preferences.
type Scheduler struct {
	Probe           *Probe
	Current         string
	PreferencesPath string
	PollInterval    time.Duration
	// Notify receives releases the user has not skipped.
	Notify func(Info)
	Now    func() time.Time
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CheckIfDue checks for an update when the preferences allow it. The boolean
// reports whether a check was made.
func (s *Scheduler) CheckIfDue(ctx context.Context) (Info, bool, error) {
	prefs, err := preferences.Load(s.PreferencesPath)
	if err != nil {
		return Info{}, false, err
	}
	now := s.now()
	if !prefs.ShouldCheck(now) {
		logging.Debug("Skipping update check", "auto", prefs.AutoCheckUpdates, "last_check", prefs.LastUpdateCheck)
		return Info{}, false, nil
	}

	info, err := s.Probe.CheckForUpdate(ctx, s.Current)
	if err != nil {
		return Info{}, true, err
	}

	prefs.MarkChecked(now)
	if err := prefs.Save(s.PreferencesPath); err != nil {
		logging.Warn("Failed to save preferences", "path", s.PreferencesPath, "error", err)
	}

	if prefs.ShouldNotify(info.Available, info.Version) && s.Notify != nil {
		s.Notify(info)
	}
	return info, true, nil
}

// Run checks once immediately and then on every poll until ctx ends.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, _, err := s.CheckIfDue(ctx); err != nil {
			logging.Warn("Automatic update check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
