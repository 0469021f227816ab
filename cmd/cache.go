package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCmd groups the cache commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the reference data cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached reference dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cache.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear %s cache: %w", cfg.Cache.Backend, err)
		}
		fmt.Printf("✓ Cleared %s cache\n", cfg.Cache.Backend)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
