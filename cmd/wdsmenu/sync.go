package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sdporres/wdssupermenu/pkg/blocking"
	"github.com/sdporres/wdssupermenu/pkg/output"
	"github.com/sdporres/wdssupermenu/pkg/replicate"
)

var syncCmd = &cobra.Command{
	Use:   "sync SOURCE [TARGET...]",
	Short: "Copy game settings from one game to others",
	Long: `Copy the options a game stores under HKCU\Software\<Vendor>\<Game>\Options
to one or more other games. Nothing is undone when a target fails; the
report lists every target with its result.

Example:
  $ wdsmenu sync "Kursk '43" "Bulge '44" "Smolensk '41"
  $ wdsmenu sync "Kursk '43" --all --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		requireExisting, _ := cmd.Flags().GetBool("require-existing")
		workers, _ := cmd.Flags().GetInt("workers")
		yes, _ := cmd.Flags().GetBool("yes")
		ignoreRunning, _ := cmd.Flags().GetBool("ignore-running")

		source := args[0]
		r := replicate.New(store, cfg.Vendor)

		if _, err := r.Snapshot(source); err != nil {
			return err
		}

		targets := args[1:]
		if all {
			apps, err := r.Applications()
			if err != nil {
				return err
			}
			targets = apps
		}
		targets = withoutSource(targets, source)
		if len(targets) == 0 {
			return errors.New("no target games given; name them or use --all")
		}

		if !yes {
			ok, err := confirm(fmt.Sprintf("Copy settings from %s to %d game(s)? This cannot be undone [y/N] ", source, len(targets)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		opts := replicate.Options{
			RequireExistingKey: requireExisting,
			Workers:            workers,
			Progress: func(target string, index, total int) {
				logger.Printf("[%d/%d] %s", index, total, target)
			},
		}
		if !ignoreRunning {
			opts.Guard = blocking.Guard(gameExecutables(cmd))
		}

		report := r.CopyOptionsToMany(source, targets, opts)
		output.PrintReport(os.Stdout, source, report)

		if report.FailureCount > 0 {
			red := color.New(color.FgRed).SprintFunc()
			return fmt.Errorf("%s %d of %d targets failed: %s", red("✗"), report.FailureCount, len(report.Outcomes), strings.Join(report.FailedTargets, ", "))
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().Bool("all", false, "Copy to every game that has settings")
	syncCmd.Flags().Bool("require-existing", true, "Only update games that already have settings, and only options they already hold")
	syncCmd.Flags().Int("workers", 1, "Targets written in parallel")
	syncCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	syncCmd.Flags().Bool("ignore-running", false, "Write settings even when the target game is running")
	rootCmd.AddCommand(syncCmd)
}

func withoutSource(targets []string, source string) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		if !strings.EqualFold(t, source) {
			out = append(out, t)
		}
	}
	return out
}

// gameExecutables maps a settings name to the executables of its game folder.
// When discovery fails the guard falls back to matching the name alone.
func gameExecutables(cmd *cobra.Command) func(app string) []string {
	byName := make(map[string][]string)
	scanner, err := newScanner()
	if err == nil {
		entries, scanErr := scanner.Run(cmd.Context())
		err = scanErr
		for _, e := range entries {
			for _, key := range []string{e.SettingsName, e.FolderName} {
				if key != "" {
					byName[strings.ToLower(key)] = e.ExecutablePaths()
				}
			}
		}
	}
	if err != nil {
		logger.Warning("Could not map games to executables: %v", err)
	}
	return func(app string) []string {
		return byName[strings.ToLower(app)]
	}
}

// confirm asks a yes/no question on the terminal.
func confirm(prompt string) (bool, error) {
	yellow := color.New(color.FgYellow).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          yellow(prompt),
		InterruptPrompt: "^C",
		EOFPrompt:       "no",
	})
	if err != nil {
		return false, fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
