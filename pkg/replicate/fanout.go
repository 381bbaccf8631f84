// pkg/replicate/fanout.go - copies one game's settings to many games.

package replicate

import (
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sdporres/wdssupermenu/pkg/logging"
)

// Outcome is the result of copying to one target. A skipped target was never
// written and counts as neither a success nor a failure.
type Outcome struct {
	Target    string
	Succeeded bool
	Skipped   bool
	Err       error
}

// Report aggregates a fan-out.
type Report struct {
	Outcomes      []Outcome
	SuccessCount  int
	FailureCount  int
	SkippedCount  int
	FailedTargets []string
}

// Options tune CopyOptionsToMany.
type Options struct {
	RequireExistingKey bool
	// Progress is called after each target with its 1-based position.
	Progress func(target string, index, total int)
	// Workers above 1 copies targets concurrently.
	Workers int
	// Guard may refuse a target before anything is written to it.
	Guard func(app string) error
}

// CopyOptionsToMany copies source to every target. Every target gets exactly
// one Outcome, in the order given; targets naming the source itself are
// skipped with ErrTargetIsSource. A failure never undoes earlier copies.
func (r *Replicator) CopyOptionsToMany(source string, targets []string, opts Options) Report {
	outcomes := make([]Outcome, len(targets))
	batch := make([]int, 0, len(targets))
	for i, t := range targets {
		if strings.EqualFold(t, source) {
			logging.Debug("Skipping source in target list", "source", source)
			outcomes[i] = Outcome{
				Target:  t,
				Skipped: true,
				Err:     &CopyError{Op: "skip", App: t, Err: ErrTargetIsSource},
			}
			continue
		}
		batch = append(batch, i)
	}
	total := len(batch)

	var progressMu sync.Mutex
	done := 0
	run := func(i int) {
		target := targets[i]
		outcome := Outcome{Target: target}
		if opts.Guard != nil {
			if err := opts.Guard(target); err != nil {
				outcome.Err = &CopyError{Op: "guard", App: target, Err: err}
			}
		}
		if outcome.Err == nil {
			outcome.Err = r.CopyOptions(source, target, opts.RequireExistingKey)
		}
		outcome.Succeeded = outcome.Err == nil
		if outcome.Err != nil {
			logging.Warn("Failed to copy options", "source", source, "target", target, "error", outcome.Err)
		}
		outcomes[i] = outcome

		if opts.Progress != nil {
			progressMu.Lock()
			done++
			opts.Progress(target, done, total)
			progressMu.Unlock()
		}
	}

	if opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for _, i := range batch {
			i := i
			g.Go(func() error {
				run(i)
				return nil
			})
		}
		g.Wait()
	} else {
		for _, i := range batch {
			run(i)
		}
	}

	report := Report{Outcomes: outcomes}
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			report.SkippedCount++
		case o.Succeeded:
			report.SuccessCount++
		default:
			report.FailureCount++
			report.FailedTargets = append(report.FailedTargets, o.Target)
		}
	}
	logging.Info("Fan-out complete", "source", source, "succeeded", report.SuccessCount, "failed", report.FailureCount, "skipped", report.SkippedCount)
	return report
}
