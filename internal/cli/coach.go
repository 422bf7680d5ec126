package cli

import (
	"time"

	"github.com/spf13/cobra"

	apperrors "equilibrium-coach/internal/errors"
	"equilibrium-coach/internal/logging"
	"equilibrium-coach/internal/models"
	"equilibrium-coach/internal/store"
)

// addCoachCommands adds the AI coach commands.
func addCoachCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "coach",
		Short: "AI coaching on your journal",
		Long: `Ask the AI coach to review trades or discuss your journal.

Requires an OpenAI API key in credentials.toml or the OPENAI_API_KEY
environment variable.`,
	}

	cmd.AddCommand(newCoachReviewCmd(app))
	cmd.AddCommand(newCoachChatCmd(app))
	cmd.AddCommand(newCoachHistoryCmd(app))

	rootCmd.AddCommand(cmd)
}

func newCoachReviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <trade-id>",
		Short: "Get coach feedback on one trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !app.Coach.Available() {
				return apperrors.ErrCoachUnavailable
			}

			t, err := findTrade(cmd, app, args[0])
			if err != nil {
				return err
			}
			profile, err := app.Journal.Profile(cmd.Context())
			if err != nil {
				return err
			}

			start := time.Now()
			notes, err := app.Coach.TradeNotes(cmd.Context(), t, profile)
			logging.LogCoachCall(logging.WithTrade(app.Logger, t.ID), "review", time.Since(start), err)
			if err != nil {
				return err
			}

			if _, err := app.Journal.AttachCoachNotes(cmd.Context(), t.ID, notes); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"tradeId": t.ID, "notes": notes})
			}
			output.Bold("Coach on %s %s", t.Asset, t.Direction)
			output.Println(notes)
			return nil
		},
	}
	return cmd
}

func newCoachChatCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Chat with the coach about your journal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !app.Coach.Available() {
				return apperrors.ErrCoachUnavailable
			}

			message := args[0]
			for _, arg := range args[1:] {
				message += " " + arg
			}

			ctx := cmd.Context()
			profile, err := app.Journal.Profile(ctx)
			if err != nil {
				return err
			}
			trades, err := app.Journal.Trades(ctx, store.TradeFilter{})
			if err != nil {
				return err
			}
			history, err := app.Store.LoadChats(ctx)
			if err != nil {
				return err
			}
			if max := app.Config.Coach.MaxHistory; max > 0 && len(history) > max {
				history = history[len(history)-max:]
			}

			start := time.Now()
			reply, err := app.Coach.Chat(ctx, history, message, profile, trades)
			logging.LogCoachCall(app.Logger, "chat", time.Since(start), err)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			history = append(history,
				models.ChatMessage{Role: models.RoleUser, Content: message, Timestamp: now},
				models.ChatMessage{Role: models.RoleCoach, Content: reply, Timestamp: now},
			)
			if err := app.Store.SaveChats(ctx, history); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"reply": reply})
			}
			output.Println(reply)
			return nil
		},
	}
	return cmd
}

func newCoachHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the coach conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			history, err := app.Store.LoadChats(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(history)
			}
			if len(history) == 0 {
				output.Dim("No conversation yet.")
				return nil
			}
			for _, m := range history {
				speaker := output.Cyan("you")
				if m.Role == models.RoleCoach {
					speaker = output.Green("coach")
				}
				output.Printf("%s %s\n", output.DimText(FormatDateTime(m.Timestamp)), speaker)
				output.Println(m.Content)
				output.Println()
			}
			return nil
		},
	}
	return cmd
}
