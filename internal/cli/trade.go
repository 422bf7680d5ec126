package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"equilibrium-coach/internal/journal"
	"equilibrium-coach/internal/models"
	"equilibrium-coach/internal/store"
)

// addTradeCommands adds the trade lifecycle commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Journal trades",
		Long:  "Log new trades, record partial exits and close positions.",
	}

	cmd.AddCommand(newTradeNewCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeShowCmd(app))
	cmd.AddCommand(newTradePartialCmd(app))
	cmd.AddCommand(newTradeCloseCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradeNewCmd(app *App) *cobra.Command {
	var (
		account, market, asset, direction, timeframe string
		setup, customSetup, motive, mentalState      string
		thesis, notes, reason                        string
		marketSentiment, assetSentiment              string
		macro, micro, reversal, htfChecked           string
		usdtD, btcD                                  string
		location, device                             string
		entry, stop, risk                            float64
		takeProfits                                  []float64
		when                                         string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Log a new trade",
		Long: `Log a new trade into the journal.

The trade is scored before it is stored. Position size is derived from
the account's current capital and the risked percentage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			accountID := account
			if accountID == "" {
				accountID = app.Config.Journal.DefaultAccount
			}

			draft := models.Trade{
				AccountID:       accountID,
				Market:          models.Market(market),
				Asset:           asset,
				Direction:       models.Direction(direction),
				Timeframe:       timeframe,
				Setup:           setup,
				CustomSetupName: customSetup,
				Motive:          motive,
				MentalState:     mentalState,
				Thesis:          thesis,
				Notes:           notes,
				Reason:          reason,
				MarketSentiment: models.Sentiment(marketSentiment),
				AssetSentiment:  models.Sentiment(assetSentiment),
				MarketStructure: models.MarketStructure{
					Macro:            models.TrendReading(macro),
					Micro:            models.TrendReading(micro),
					ReversalEvidence: models.Confirmation(reversal),
					HTFLevelsChecked: models.Confirmation(htfChecked),
				},
				RiskR:       risk,
				Entry:       entry,
				StopLoss:    stop,
				TakeProfits: takeProfits,
				Location:    models.TradeLocation(location),
				Device:      models.TradeDevice(device),
			}

			if usdtD != "" || btcD != "" {
				draft.CryptoDominance = &models.CryptoDominance{
					USDTDominance: models.DominanceReading(usdtD),
					BTCDominance:  models.DominanceReading(btcD),
				}
			}
			if when != "" {
				at, err := parseDateTime(when)
				if err != nil {
					return err
				}
				draft.TradeDateTime = at
			}

			t, err := app.Journal.CreateTrade(cmd.Context(), draft)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(t)
			}

			output.Success("Trade journaled: %s", t.ID)
			output.Printf("  Asset:     %s %s (%s)\n", t.Asset, t.Direction, t.Timeframe)
			output.Printf("  Entry:     %s  Stop: %s\n", FormatPrice(t.Entry), FormatPrice(t.StopLoss))
			output.Printf("  Size:      %s units (%.2f%% risked)\n", FormatUnits(t.PositionSizeUnits), t.RiskR)
			output.Printf("  RR:        %s\n", FormatRiskReward(t.RewardRisk))
			output.Printf("  Score:     %s\n", output.ColoredGrade(t.QualityScore, t.ExecutionQuality))
			for _, alert := range t.AlertsTriggered {
				output.Warning("  ! %s", alert)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id (default from config)")
	cmd.Flags().StringVar(&market, "market", "Crypto", "market (Crypto, Forex, Indices, Stocks, Options, Commodities)")
	cmd.Flags().StringVar(&asset, "asset", "", "traded asset, e.g. BTC/USDT")
	cmd.Flags().StringVar(&direction, "direction", "long", "long or short")
	cmd.Flags().StringVar(&timeframe, "timeframe", "1h", "execution timeframe")
	cmd.Flags().StringVar(&setup, "setup", "", "setup name")
	cmd.Flags().StringVar(&customSetup, "custom-setup", "", "custom setup name when setup is 'Other setup'")
	cmd.Flags().Float64Var(&entry, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&stop, "stop", 0, "stop loss price")
	cmd.Flags().Float64SliceVar(&takeProfits, "tp", nil, "take profit levels")
	cmd.Flags().Float64Var(&risk, "risk", 1, "percent of capital risked")
	cmd.Flags().StringVar(&motive, "motive", "", "why the trade is being taken")
	cmd.Flags().StringVar(&mentalState, "mental-state", "Neutral", "mental state at entry")
	cmd.Flags().StringVar(&thesis, "thesis", "", "trade thesis")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&reason, "reason", "", "entry trigger")
	cmd.Flags().StringVar(&marketSentiment, "market-sentiment", "Neutral", "overall market sentiment")
	cmd.Flags().StringVar(&assetSentiment, "asset-sentiment", "Neutral", "asset sentiment")
	cmd.Flags().StringVar(&macro, "macro", "Unsure", "macro trend read (Bullish, Bearish, Ranging, Unsure)")
	cmd.Flags().StringVar(&micro, "micro", "Unsure", "micro trend read")
	cmd.Flags().StringVar(&reversal, "reversal-evidence", "unsure", "reversal evidence when countertrend (yes, no, unsure)")
	cmd.Flags().StringVar(&htfChecked, "htf-checked", "unsure", "higher timeframe levels checked (yes, no, unsure)")
	cmd.Flags().StringVar(&usdtD, "usdt-d", "", "USDT dominance read (At support, At resistance, Mid zone, Unsure)")
	cmd.Flags().StringVar(&btcD, "btc-d", "", "BTC dominance read")
	cmd.Flags().StringVar(&location, "location", "Home", "where the trade was taken (Home, Work, Street)")
	cmd.Flags().StringVar(&device, "device", "Laptop", "device used (Laptop, Phone)")
	cmd.Flags().StringVar(&when, "date", "", "trade datetime (2006-01-02 15:04, default now)")
	cmd.MarkFlagRequired("asset")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("stop")

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	var (
		status, account, market, asset string
		limit                          int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			filter := store.TradeFilter{
				Status:    models.TradeStatus(status),
				AccountID: account,
				Market:    models.Market(market),
				Asset:     asset,
				Limit:     limit,
			}
			trades, err := app.Journal.Trades(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Dim("No trades found.")
				return nil
			}

			table := NewTable(output, "ID", "DATE", "ASSET", "DIR", "SETUP", "SCORE", "STATUS", "RESULT")
			for i := range trades {
				t := &trades[i]
				table.AddRow(
					shortID(t.ID),
					FormatDate(t.TradeDateTime),
					t.Asset,
					string(t.Direction),
					TruncateString(t.Setup, 24),
					output.ColoredGrade(t.QualityScore, t.ExecutionQuality),
					output.StatusText(t.Status),
					output.ColoredR(journal.RealizedR(t)),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (Open, Closed)")
	cmd.Flags().StringVar(&account, "account", "", "filter by account id")
	cmd.Flags().StringVar(&market, "market", "", "filter by market")
	cmd.Flags().StringVar(&asset, "asset", "", "filter by asset")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of trades")

	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show a trade in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			t, err := findTrade(cmd, app, args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(t)
			}

			output.Bold("%s %s  %s", t.Asset, t.Direction, output.StatusText(t.Status))
			output.Printf("  ID:        %s\n", t.ID)
			output.Printf("  Taken:     %s (%s, %s)\n", FormatDateTime(t.TradeDateTime), t.Market, t.Timeframe)
			output.Printf("  Setup:     %s\n", t.Setup)
			output.Printf("  Entry:     %s  Stop: %s\n", FormatPrice(t.Entry), FormatPrice(t.StopLoss))
			for i, tp := range t.TakeProfits {
				output.Printf("  TP%d:       %s\n", i+1, FormatPrice(tp))
			}
			output.Printf("  Risked:    %.2f%% of capital, RR %s\n", t.RiskR, FormatRiskReward(t.RewardRisk))
			output.Printf("  Size:      %s units (%s remaining)\n",
				FormatUnits(t.PositionSizeUnits), FormatUnits(t.RemainingPositionSizeUnits))
			output.Printf("  Score:     %s\n", output.ColoredGrade(t.QualityScore, t.ExecutionQuality))
			output.Printf("  Motive:    %s  Mental state: %s\n", t.Motive, t.MentalState)

			if len(t.AlertsTriggered) > 0 {
				output.Println()
				output.Bold("Alerts at entry")
				for _, alert := range t.AlertsTriggered {
					output.Warning("  ! %s", alert)
				}
			}

			if len(t.PartialExits) > 0 {
				output.Println()
				output.Bold("Partial exits")
				table := NewTable(output, "DATE", "SIZE", "PRICE", "P&L", "R")
				for _, p := range t.PartialExits {
					table.AddRow(
						FormatDate(p.DateTime),
						fmt.Sprintf("%.1f%%", p.Percentage),
						FormatPrice(p.Price),
						output.ColoredPnL(p.PnLDollars),
						output.ColoredR(p.PnLR),
					)
				}
				table.Render()
			}

			if t.Status == models.StatusClosed && t.PnL != nil {
				output.Println()
				output.Bold("Result")
				output.Printf("  Exit:      %s", FormatPrice(t.ExitPrice))
				if t.ExitDateTime != nil {
					output.Printf("  (%s)", FormatDateTime(*t.ExitDateTime))
				}
				output.Println()
				output.Printf("  P&L:       %s  %s  %s\n",
					output.ColoredPnL(t.PnL.Dollars),
					output.ColoredR(t.PnL.RMultiple),
					output.ColoredPercent(t.PnL.Percent))
				output.Printf("  Note:      %s\n", t.ClosingNote)
			}

			if t.CoachNotes != "" {
				output.Println()
				output.Bold("Coach notes")
				output.Println(t.CoachNotes)
			}
			return nil
		},
	}
	return cmd
}

func newTradePartialCmd(app *App) *cobra.Command {
	var (
		percent, price float64
		note, when     string
	)

	cmd := &cobra.Command{
		Use:   "partial <trade-id>",
		Short: "Record a partial exit",
		Long: `Record a partial exit on an open trade.

The percentage is of the ORIGINAL position size. Closing the last
remaining size finalizes the trade.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			t, err := findTrade(cmd, app, args[0])
			if err != nil {
				return err
			}
			at := time.Now().UTC()
			if when != "" {
				if at, err = parseDateTime(when); err != nil {
					return err
				}
			}

			t, err = app.Journal.RecordPartialExit(cmd.Context(), t.ID, percent, price, at, note)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(t)
			}
			last := t.PartialExits[len(t.PartialExits)-1]
			output.Success("Partial exit recorded: %.1f%% at %s (%s, %s)",
				last.Percentage, FormatPrice(last.Price),
				output.ColoredPnL(last.PnLDollars), output.ColoredR(last.PnLR))
			if t.Status == models.StatusClosed {
				output.Info("Position fully closed.")
			} else {
				output.Printf("Remaining: %s units\n", FormatUnits(t.RemainingPositionSizeUnits))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&percent, "percent", 0, "percent of the original position to close")
	cmd.Flags().Float64Var(&price, "price", 0, "exit price")
	cmd.Flags().StringVar(&note, "note", "", "optional note")
	cmd.Flags().StringVar(&when, "date", "", "exit datetime (default now)")
	cmd.MarkFlagRequired("percent")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newTradeCloseCmd(app *App) *cobra.Command {
	var (
		price      float64
		note, when string
	)

	cmd := &cobra.Command{
		Use:   "close <trade-id>",
		Short: "Close the remaining position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			t, err := findTrade(cmd, app, args[0])
			if err != nil {
				return err
			}
			at := time.Now().UTC()
			if when != "" {
				if at, err = parseDateTime(when); err != nil {
					return err
				}
			}

			t, err = app.Journal.CloseTrade(cmd.Context(), t.ID, price, at, note)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(t)
			}
			output.Success("Trade closed at %s", FormatPrice(t.ExitPrice))
			if t.PnL != nil {
				output.Printf("  P&L: %s  %s  %s\n",
					output.ColoredPnL(t.PnL.Dollars),
					output.ColoredR(t.PnL.RMultiple),
					output.ColoredPercent(t.PnL.Percent))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&price, "price", 0, "exit price")
	cmd.Flags().StringVar(&note, "note", "", "closing note (required)")
	cmd.Flags().StringVar(&when, "date", "", "exit datetime (default now)")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("note")

	return cmd
}

// findTrade resolves a full or prefix trade id.
func findTrade(cmd *cobra.Command, app *App, id string) (*models.Trade, error) {
	t, err := app.Journal.Trade(cmd.Context(), id)
	if err == nil {
		return t, nil
	}

	trades, listErr := app.Journal.Trades(cmd.Context(), store.TradeFilter{})
	if listErr != nil {
		return nil, err
	}
	var match *models.Trade
	for i := range trades {
		if len(id) >= 4 && len(trades[i].ID) >= len(id) && trades[i].ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("trade id %q is ambiguous", id)
			}
			match = &trades[i]
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func parseDateTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q (want 2006-01-02 15:04)", s)
}
