/*
Copyright © 2025 Viktor Kozyar <viktor.kozyar@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vkozyar/lorekit/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded generation and translation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		db, err := store.New(settings.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer db.Close()

		entries, err := db.ListRuns(context.Background(), runsLimit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s  %-11s %-9s %-28s %s  requests=%d failed=%d  %s\n",
				e.CreatedAt.Format("2006-01-02 15:04"), e.Kind, e.Status,
				e.Source, e.Language, e.Requests, e.Failed, e.ID)
		}
		return nil
	},
}

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate run statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		db, err := store.New(settings.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}

		fmt.Printf("Runs:     %d total, %d completed, %d failed\n",
			stats.TotalRuns, stats.CompletedRuns, stats.FailedRuns)
		fmt.Printf("Requests: %d total, %d failed, avg latency %dms\n",
			stats.TotalRequests, stats.FailedRequests, stats.AvgLatencyMs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsStatsCmd)

	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to show")
}
