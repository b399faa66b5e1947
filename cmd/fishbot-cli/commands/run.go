package commands

import (
	"context"
	"log/slog"
	"os"
	"time"

	"farmbot-backend/services/farm"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

var (
	runLocation   *int
	runBait       *int
	runMaxCatches *int
	runMinDelay   *int
	runMaxDelay   *int
	runAutoBuy    *bool
	runBaitItem   *int
	runBuyQty     *int
)

func init() {
	runLocation = runCmd.Flags().Int("location", 1, "Fishing location id.")
	runBait = runCmd.Flags().Int("bait", 1, "Bait id to fish with.")
	runMaxCatches = runCmd.Flags().Int("max-catches", 0, "Stop after this many catches (0 = unlimited).")
	runMinDelay = runCmd.Flags().Int("min-delay", 1000, "Minimum delay between casts in milliseconds.")
	runMaxDelay = runCmd.Flags().Int("max-delay", 3000, "Maximum delay between casts in milliseconds.")
	runAutoBuy = runCmd.Flags().Bool("auto-buy", false, "Buy more bait when it runs out.")
	runBaitItem = runCmd.Flags().Int("bait-item", 18, "Item id to buy when auto-buy triggers.")
	runBuyQty = runCmd.Flags().Int("buy-qty", 100, "Quantity of bait to buy when auto-buy triggers.")
	rootCmd.AddCommand(runCmd)
}

// a run bails out after this many catch failures in a row
const maxConsecutiveErrors = 5

type session struct {
	catches       int
	errors        int
	baitPurchased int
	start         time.Time
}

func (s session) print() {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Catches", "Errors", "Bait Purchased", "Duration"})
	t.AppendRow(table.Row{
		s.catches,
		s.errors,
		s.baitPurchased,
		time.Since(s.start).Round(time.Second).String(),
	})
	t.Render()
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the fishing loop until stopped or out of resources.",
	Run: func(cmd *cobra.Command, args []string) {
		svc := createService()
		ctx := cmd.Context()

		s := session{start: time.Now()}
		defer s.print()

		consecutive := 0
		for {
			data, err := svc.CatchFish(ctx, *runLocation, *runBait)
			if err != nil {
				s.errors++
				consecutive++
				slog.Error("catch failed", "err", err)

				if farm.IsCode(err, farm.CodeNoBait) {
					if !*runAutoBuy || !buyBait(ctx, svc, &s) {
						slog.Info("out of bait, stopping")
						return
					}
					consecutive = 0
				} else if consecutive >= maxConsecutiveErrors {
					slog.Error("too many consecutive failures, stopping",
						"count", consecutive)
					return
				}
			} else {
				s.catches++
				consecutive = 0
				slog.Info("caught",
					"name", data.Catch.Name,
					"total", data.Stats.TotalFishCaught,
					"bait", data.Resources.Bait,
					"stamina", data.Resources.Stamina,
				)

				if *runMaxCatches > 0 && s.catches >= *runMaxCatches {
					slog.Info("reached max catches, stopping", "catches", s.catches)
					return
				}
				if data.Resources.Stamina <= 0 {
					slog.Info("out of stamina, stopping")
					return
				}
				if data.Resources.Bait <= 0 {
					if !*runAutoBuy || !buyBait(ctx, svc, &s) {
						slog.Info("out of bait, stopping")
						return
					}
				}
			}

			if !sleep(ctx, *runMinDelay, *runMaxDelay) {
				return
			}
		}
	},
}

func buyBait(ctx context.Context, svc *farm.Service, s *session) bool {
	result, err := svc.BuyItem(ctx, *runBaitItem, *runBuyQty)
	if err != nil {
		slog.Error("bait purchase failed", "err", err)
		return false
	}
	s.baitPurchased += result.QuantityPurchased
	slog.Info("bought bait",
		"quantity", result.QuantityPurchased,
		"cost", result.TotalCost.Amount,
		"currency", result.TotalCost.Currency,
	)
	return true
}

// sleep waits a uniformly random delay in [min, max] milliseconds and
// reports false if the context ended first.
func sleep(ctx context.Context, min, max int) bool {
	ms := min
	if max > min {
		if n, err := random.IntRange(min, max+1); err == nil {
			ms = n
		}
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return true
	case <-ctx.Done():
		return false
	}
}
