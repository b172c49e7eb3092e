package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pixelseek/pixelseek/internal/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent template searches from the match log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(a.cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("no recorded searches")
				return nil
			}

			for _, rec := range records {
				when := rec.SearchedAt.Format("2006-01-02 15:04:05")
				if rec.Found {
					fmt.Printf("%s  %-24s found at (%d, %d) %dx%d, threshold %.2f, %dms\n",
						when, rec.Template, rec.X, rec.Y, rec.Width, rec.Height, rec.Threshold, rec.DurationMs)
				} else {
					fmt.Printf("%s  %-24s not found, threshold %.2f, %dms\n",
						when, rec.Template, rec.Threshold, rec.DurationMs)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "how many records to show")

	cmd.AddCommand(newHistoryStatsCmd(a))
	cmd.AddCommand(newHistoryPruneCmd(a))

	return cmd
}

func newHistoryStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-template search counts and hit counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(a.cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Println("no recorded searches")
				return nil
			}

			for _, st := range stats {
				fmt.Printf("%-24s %d searches, %d hits\n", st.Template, st.Searches, st.Hits)
			}
			return nil
		},
	}
}

func newHistoryPruneCmd(a *app) *cobra.Command {
	var keep time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete match records older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(a.cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := store.DeleteOlderThan(time.Now().Add(-keep))
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d records\n", deleted)
			return nil
		},
	}

	cmd.Flags().DurationVar(&keep, "keep", 30*24*time.Hour, "retention window, records older than this are deleted")

	return cmd
}
