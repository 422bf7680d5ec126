package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"equilibrium-coach/internal/analytics"
	"equilibrium-coach/internal/models"
	"equilibrium-coach/internal/store"
)

// addStatsCommands adds the analytics commands.
func addStatsCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Journal analytics",
		Long:  "Aggregate statistics over the journaled trades.",
	}

	cmd.AddCommand(newStatsSummaryCmd(app))
	cmd.AddCommand(newStatsGroupCmd(app, "setups", "Results per setup", analytics.BySetup))
	cmd.AddCommand(newStatsGroupCmd(app, "motives", "Results per motive", analytics.ByMotive))
	cmd.AddCommand(newStatsGroupCmd(app, "mental", "Results per mental state", analytics.ByMentalState))
	cmd.AddCommand(newStatsGroupCmd(app, "assets", "Results per asset", analytics.ByAsset))
	cmd.AddCommand(newStatsTimeCmd(app))
	cmd.AddCommand(newStatsCurveCmd(app))

	rootCmd.AddCommand(cmd)
}

func newStatsSummaryCmd(app *App) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Headline journal statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			trades, err := app.Journal.Trades(cmd.Context(), store.TradeFilter{AccountID: account})
			if err != nil {
				return err
			}
			summary := analytics.Summarize(trades)

			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Box("Journal Summary", []string{
				fmt.Sprintf("Trades:      %d (%d open, %d closed)",
					summary.TotalTrades, summary.OpenTrades, summary.ClosedTrades),
				fmt.Sprintf("Win rate:    %.1f%% (%dW %dL %dBE)",
					summary.WinRate, summary.Wins, summary.Losses, summary.BreakEven),
				fmt.Sprintf("Realized:    %s  %s",
					output.ColoredPnL(summary.TotalDollars), output.ColoredR(summary.TotalR)),
				fmt.Sprintf("Avg score:   %.1f", summary.AvgScore),
				fmt.Sprintf("Avg RR:      %s", FormatRiskReward(summary.AvgRewardRisk)),
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "filter by account id")
	return cmd
}

func newStatsGroupCmd(app *App, use, short string, group func([]models.Trade) []analytics.GroupStat) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			trades, err := app.Journal.Trades(cmd.Context(), store.TradeFilter{AccountID: account})
			if err != nil {
				return err
			}
			stats := group(trades)

			if output.IsJSON() {
				return output.JSON(stats)
			}
			if len(stats) == 0 {
				output.Dim("No closed trades yet.")
				return nil
			}
			renderGroupTable(output, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "filter by account id")
	return cmd
}

func newStatsTimeCmd(app *App) *cobra.Command {
	var bucket, account string

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Results by time of entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			trades, err := app.Journal.Trades(cmd.Context(), store.TradeFilter{AccountID: account})
			if err != nil {
				return err
			}

			var stats []analytics.GroupStat
			switch bucket {
			case "weekday":
				stats = analytics.ByWeekday(trades)
			case "hour":
				stats = analytics.ByHour(trades)
			case "month":
				stats = analytics.ByMonth(trades)
			case "week":
				stats = analytics.ByWeekOfMonth(trades)
			default:
				return fmt.Errorf("unknown bucket %q (want weekday, hour, month or week)", bucket)
			}

			if output.IsJSON() {
				return output.JSON(stats)
			}
			if len(stats) == 0 {
				output.Dim("No closed trades yet.")
				return nil
			}
			renderGroupTable(output, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "by", "weekday", "bucket: weekday, hour, month or week")
	cmd.Flags().StringVar(&account, "account", "", "filter by account id")
	return cmd
}

func newStatsCurveCmd(app *App) *cobra.Command {
	var mode, account string

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Cumulative equity curve of closed trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			trades, err := app.Journal.Trades(cmd.Context(), store.TradeFilter{AccountID: account})
			if err != nil {
				return err
			}
			points := analytics.EquityCurve(trades, analytics.CurveMode(mode))

			if output.IsJSON() {
				return output.JSON(points)
			}
			if len(points) == 0 {
				output.Dim("No closed trades yet.")
				return nil
			}

			table := NewTable(output, "DATE", "TRADE", "CUMULATIVE")
			for _, p := range points {
				var value string
				switch analytics.CurveMode(mode) {
				case analytics.CurvePercent:
					value = output.ColoredPercent(p.Value)
				case analytics.CurveR:
					value = output.ColoredR(p.Value)
				default:
					value = output.ColoredPnL(p.Value)
				}
				table.AddRow(FormatDate(p.Time), shortID(p.TradeID), value)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "usd", "curve unit: usd, percent or r")
	cmd.Flags().StringVar(&account, "account", "", "filter by account id")
	return cmd
}

func renderGroupTable(output *Output, stats []analytics.GroupStat) {
	table := NewTable(output, "BUCKET", "TRADES", "WIN%", "P&L", "R", "AVG SCORE")
	for _, g := range stats {
		table.AddRow(
			TruncateString(g.Key, 28),
			fmt.Sprintf("%d", g.Trades),
			fmt.Sprintf("%.1f%%", g.WinRate),
			output.ColoredPnL(g.TotalDollars),
			output.ColoredR(g.TotalR),
			fmt.Sprintf("%.1f", g.AvgScore),
		)
	}
	table.Render()
}
