package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"network-quality-logger/internal/database"
)

var (
	statsDBPath string
	statsHours  int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-target ping statistics from the SQLite mirror",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.New(statsDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.GetStats(since(time.Now(), statsHours))
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TARGET\tPINGS\tOK\tLOSS %\tAVG ms\tMIN ms\tMAX ms")
		for _, s := range stats {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
				s.Target, s.TotalPings, s.Successful, s.PacketLoss, s.AvgRTT, s.MinRTT, s.MaxRTT)
		}
		return tw.Flush()
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsDBPath, "db", "", "SQLite mirror to read")
	statsCmd.Flags().IntVar(&statsHours, "hours", 24, "Hours of samples to include (0 for all)")
	statsCmd.MarkFlagRequired("db")
}
