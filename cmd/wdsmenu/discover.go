package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sdporres/wdssupermenu/pkg/discovery"
	"github.com/sdporres/wdssupermenu/pkg/output"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List installed games and their executables",
	Long: `Scan the install locations recorded by Windows Installer for the
configured publisher and list every game folder found, with its series,
installed version and the roles its executables fill.

Example:
  $ wdsmenu discover --drives
  $ wdsmenu discover --game "Kursk '43"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		drives, _ := cmd.Flags().GetBool("drives")
		workers, _ := cmd.Flags().GetInt("workers")
		game, _ := cmd.Flags().GetString("game")

		scanner, err := newScanner()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("drives") {
			scanner.ScanFixedDrives = drives
		}
		if workers > 0 {
			scanner.Workers = workers
		}

		entries, err := scanner.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("discovery failed: %w", err)
		}

		if game != "" {
			entry, ok := findEntry(entries, game)
			if !ok {
				return fmt.Errorf("no game folder named %q", game)
			}
			cyan := color.New(color.FgCyan).SprintFunc()
			fmt.Printf("%s %s\n", cyan("→"), entry.Path)
			output.PrintExecutables(os.Stdout, entry)
			return nil
		}

		output.PrintEntries(os.Stdout, entries)
		return nil
	},
}

func init() {
	discoverCmd.Flags().Bool("drives", false, "Also scan <drive>\\WDS on every fixed drive")
	discoverCmd.Flags().Int("workers", 0, "Folders scanned in parallel (default from configuration)")
	discoverCmd.Flags().String("game", "", "Show the executables of one game folder")
	rootCmd.AddCommand(discoverCmd)
}

func findEntry(entries []discovery.Entry, name string) (discovery.Entry, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.FolderName, name) || strings.EqualFold(e.SettingsName, name) {
			return e, true
		}
	}
	return discovery.Entry{}, false
}
