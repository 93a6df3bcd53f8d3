package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mimiwrp/crispnews/internal/config"
	"github.com/mimiwrp/crispnews/internal/store"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Inspect or clear the local article cache",
}

var storageClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached headline responses",
	Long:  "Remove cached headline responses so the next briefing fetches fresh articles. Saved preferences are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(config.StorePath())
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		if err := st.DeleteByPrefix("gnews/"); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

var storageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.StorePath()
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		cached, err := st.CountByPrefix("gnews/")
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		var size int64
		if info, err := os.Stat(dbPath); err == nil {
			size = info.Size()
		}

		fmt.Printf("Store: %s\n", dbPath)
		fmt.Printf("Cached responses: %d\n", cached)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

func init() {
	storageCmd.AddCommand(storageClearCmd)
	storageCmd.AddCommand(storageStatsCmd)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
