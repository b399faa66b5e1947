package commands

import (
	"os"

	"farmbot-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statsLocation *int

func init() {
	statsLocation = statsCmd.Flags().Int("location", 1, "Fishing location id for bait info.")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Shows player coins and bait status.",
	Run: func(cmd *cobra.Command, args []string) {
		svc := createService()
		ctx := cmd.Context()

		coins, err := svc.GetPlayerStats(ctx)
		if err != nil {
			serviceutil.Fatal("fetch player stats", err)
		}
		bait, err := svc.GetBaitInfo(ctx, *statsLocation)
		if err != nil {
			serviceutil.Fatal("fetch bait info", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Silver", "Gold", "Bait", "Bait Left", "Streak", "Best"})
		t.AppendRow(table.Row{
			coins.Silver,
			coins.Gold,
			bait.BaitName,
			bait.BaitCount,
			bait.Streak,
			bait.BestStreak,
		})
		t.Render()
	},
}
