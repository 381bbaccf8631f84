package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sdporres/wdssupermenu/pkg/preferences"
	"github.com/sdporres/wdssupermenu/pkg/update"
	"github.com/sdporres/wdssupermenu/pkg/version"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer release of the menu",
	Long: `Check the release feed for a newer version. Without --force the check
honours the saved preferences: automatic checks can be disabled, happen at
most once a day, and a skipped version is not reported again.

Example:
  $ wdsmenu update --force
  $ wdsmenu update --skip v1.3.0
  $ wdsmenu update --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		skip, _ := cmd.Flags().GetString("skip")
		watch, _ := cmd.Flags().GetBool("watch")

		if cmd.Flags().Changed("auto") || skip != "" {
			return updatePreferences(cmd, skip)
		}

		scheduler := &update.Scheduler{
			Probe:           update.NewProbe(cfg.UpdateURL, downloadOptions()),
			Current:         version.Current(),
			PreferencesPath: cfg.PreferencesPath,
			Notify:          printRelease,
		}

		if watch {
			logger.Info("Watching for updates; press Ctrl+C to stop")
			if err := scheduler.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
				return err
			}
			return nil
		}

		if force {
			info, err := scheduler.Probe.CheckForUpdate(cmd.Context(), scheduler.Current)
			if err != nil {
				return err
			}
			recordCheck()
			if info.Available {
				printRelease(info)
			} else {
				fmt.Printf("You are running the latest version (%s).\n", scheduler.Current)
			}
			return nil
		}

		info, checked, err := scheduler.CheckIfDue(cmd.Context())
		if err != nil {
			return err
		}
		if !checked {
			fmt.Println("Update check skipped (disabled or already checked today). Use --force to check now.")
			return nil
		}
		if !info.Available {
			fmt.Printf("You are running the latest version (%s).\n", scheduler.Current)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		full, _ := cmd.Flags().GetBool("full")
		if full {
			version.PrintFull(cmd.OutOrStdout())
			return
		}
		version.Print(cmd.OutOrStdout())
	},
}

func init() {
	updateCmd.Flags().Bool("force", false, "Check now regardless of preferences")
	updateCmd.Flags().String("skip", "", "Stop reporting the given release version")
	updateCmd.Flags().Bool("auto", true, "Enable or disable automatic checks (--auto=false)")
	updateCmd.Flags().Bool("watch", false, "Keep running and check whenever a check is due")
	versionCmd.Flags().Bool("full", false, "Include build details")
	rootCmd.AddCommand(updateCmd, versionCmd)
}

func updatePreferences(cmd *cobra.Command, skip string) error {
	prefs, err := preferences.Load(cfg.PreferencesPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("auto") {
		prefs.AutoCheckUpdates, _ = cmd.Flags().GetBool("auto")
	}
	if skip != "" {
		prefs.Skip(skip)
	}
	if err := prefs.Save(cfg.PreferencesPath); err != nil {
		return err
	}
	logger.Success("Preferences saved (automatic checks: %t, skipped version: %q)", prefs.AutoCheckUpdates, prefs.SkippedVersion)
	return nil
}

func recordCheck() {
	prefs, err := preferences.Load(cfg.PreferencesPath)
	if err != nil {
		logger.Warning("Failed to load preferences: %v", err)
		return
	}
	prefs.MarkChecked(time.Now())
	if err := prefs.Save(cfg.PreferencesPath); err != nil {
		logger.Warning("Failed to save preferences: %v", err)
	}
}

func printRelease(info update.Info) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Printf("%s %s is available", green("✓"), info.Version)
	if !info.PublishedAt.IsZero() {
		fmt.Printf(" (released %s)", info.PublishedAt.Format("2006-01-02"))
	}
	fmt.Printf("\n  Download: %s\n\n%s\n", info.DownloadURL, info.Notes)
}
