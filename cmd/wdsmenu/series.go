package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sdporres/wdssupermenu/pkg/output"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Inspect the game series catalog",
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every series and its titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := catalog.Definitions(cmd.Context())
		output.PrintSeries(os.Stdout, table, catalog.Source())
		return nil
	},
}

var seriesClassifyCmd = &cobra.Command{
	Use:   "classify FOLDER...",
	Short: "Show the series each folder name belongs to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yellow := color.New(color.FgYellow).SprintFunc()
		for _, folder := range args {
			name, ok := catalog.ClassifyFolder(cmd.Context(), folder)
			if !ok {
				fmt.Printf("%s: %s\n", folder, yellow("no series"))
				continue
			}
			fmt.Printf("%s: %s\n", folder, name)
		}
		return nil
	},
}

var seriesReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the series catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, _ := cmd.Flags().GetBool("remote")
		if err := catalog.Reload(cmd.Context(), remote); err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Loaded %d series from %s\n", green("✓"), len(catalog.Definitions(cmd.Context())), catalog.Source())
		return nil
	},
}

func init() {
	seriesReloadCmd.Flags().Bool("remote", false, "Discard the local cache and fetch the remote catalog")
	seriesCmd.AddCommand(seriesListCmd, seriesClassifyCmd, seriesReloadCmd)
	rootCmd.AddCommand(seriesCmd)
}
