package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	apperrors "equilibrium-coach/internal/errors"
	"equilibrium-coach/internal/models"
)

// addProfileCommands adds the trader profile commands.
func addProfileCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Trader profile and accounts",
	}

	cmd.AddCommand(newProfileInitCmd(app))
	cmd.AddCommand(newProfileShowCmd(app))
	cmd.AddCommand(newProfileAddAccountCmd(app))

	rootCmd.AddCommand(cmd)
}

func newProfileInitCmd(app *App) *cobra.Command {
	var (
		name, style, accountName, currency string
		capital                            float64
		markets                            []string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the trader profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			existing, err := app.Journal.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if existing != nil {
				output.Warning("A profile already exists. Use 'profile add-account' to add accounts.")
				return nil
			}

			account := models.Account{
				ID:              uuid.NewString(),
				Name:            accountName,
				Currency:        currency,
				StartingCapital: capital,
				CurrentCapital:  capital,
				Markets:         toMarkets(markets),
			}
			profile := &models.UserProfile{
				Name:            name,
				TraderStyle:     models.TraderStyle(style),
				Accounts:        []models.Account{account},
				SetupsByAccount: map[string][]string{},
				AssetsByAccount: map[string][]string{},
			}
			if err := app.Journal.SaveProfile(cmd.Context(), profile); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(profile)
			}
			output.Success("Profile created for %s (%s)", profile.Name, profile.TraderStyle)
			output.Printf("  Account: %s (%s) id %s\n", account.Name, FormatCurrency(account.CurrentCapital), account.ID)
			output.Dim("Set journal.default_account = %q in config.toml to skip --account flags.", account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "trader name")
	cmd.Flags().StringVar(&style, "style", "DayTrader", "trading style (Scalper, DayTrader, SwingTrader, PositionTrader, Investor)")
	cmd.Flags().StringVar(&accountName, "account-name", "Main", "first account name")
	cmd.Flags().Float64Var(&capital, "capital", 0, "account starting capital")
	cmd.Flags().StringVar(&currency, "currency", "USD", "account currency")
	cmd.Flags().StringSliceVar(&markets, "markets", []string{"Crypto"}, "markets traded on the account")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("capital")

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the trader profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			profile, err := app.Journal.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if profile == nil {
				return apperrors.ErrProfileMissing
			}
			if output.IsJSON() {
				return output.JSON(profile)
			}

			output.Bold("%s (%s)", profile.Name, profile.TraderStyle)
			if len(profile.Strengths) > 0 {
				output.Printf("  Strengths:  %v\n", profile.Strengths)
			}
			if len(profile.Weaknesses) > 0 {
				output.Printf("  Weaknesses: %v\n", profile.Weaknesses)
			}
			output.Println()

			table := NewTable(output, "ID", "ACCOUNT", "CAPITAL", "CURRENCY", "MARKETS")
			for _, a := range profile.Accounts {
				table.AddRow(
					shortID(a.ID),
					a.Name,
					FormatCurrency(a.CurrentCapital),
					a.Currency,
					marketsString(a.Markets),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newProfileAddAccountCmd(app *App) *cobra.Command {
	var (
		name, currency string
		capital        float64
		markets        []string
	)

	cmd := &cobra.Command{
		Use:   "add-account",
		Short: "Add a trading account to the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			profile, err := app.Journal.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if profile == nil {
				return apperrors.ErrProfileMissing
			}

			account := models.Account{
				ID:              uuid.NewString(),
				Name:            name,
				Currency:        currency,
				StartingCapital: capital,
				CurrentCapital:  capital,
				Markets:         toMarkets(markets),
			}
			profile.Accounts = append(profile.Accounts, account)
			if err := app.Journal.SaveProfile(cmd.Context(), profile); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(account)
			}
			output.Success("Account %s added (id %s)", account.Name, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().Float64Var(&capital, "capital", 0, "starting capital")
	cmd.Flags().StringVar(&currency, "currency", "USD", "account currency")
	cmd.Flags().StringSliceVar(&markets, "markets", []string{"Crypto"}, "markets traded on the account")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("capital")

	return cmd
}

func toMarkets(names []string) []models.Market {
	out := make([]models.Market, 0, len(names))
	for _, n := range names {
		out = append(out, models.Market(n))
	}
	return out
}

func marketsString(markets []models.Market) string {
	s := ""
	for i, m := range markets {
		if i > 0 {
			s += ", "
		}
		s += string(m)
	}
	return s
}
