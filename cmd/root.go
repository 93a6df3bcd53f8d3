package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagCategory string
	flagDuration int
)

var rootCmd = &cobra.Command{
	Use:   "crispnews",
	Short: "TUI news briefings with narration",
	Long:  "crispnews fetches top headlines, condenses them into a timed spoken briefing, and reads it aloud.",
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagCategory, "category", "", "starting category (highlights, technology, business, science, sports)")
	rootCmd.Flags().IntVar(&flagDuration, "duration", 0, "starting briefing length in minutes (1, 3, or 5)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(briefCmd)
	rootCmd.AddCommand(storageCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("crispnews %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
