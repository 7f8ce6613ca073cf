package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/pokernight/internal/auth"
	"github.com/mmynk/pokernight/internal/calculator"
	"github.com/mmynk/pokernight/internal/httpapi"
	"github.com/mmynk/pokernight/internal/report"
)

type rootOptions struct {
	baseURL string
	timeout time.Duration
	token   string
}

func (o *rootOptions) client() *apiClient {
	return newAPIClient(o.baseURL, o.token, o.timeout)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "pokernight",
		Short:         "Poker night ledger CLI",
		Long:          `A command line interface for the poker night ledger API: list games, show balances and the transfers that settle them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the pokernight API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("POKERNIGHT_TOKEN"), "Bearer token for mutating commands")

	rootCmd.AddCommand(
		newGamesCmd(opts),
		newSummaryCmd(opts, "summary", "Balances and transfers across every game", "/api/v1/summary", "Summary"),
		newSummaryCmd(opts, "debts", "Outstanding transfers across unsettled games", "/api/v1/debts", "Outstanding debts"),
		newSettleCmd(opts, "settle", "Mark a game as paid out", "settle"),
		newSettleCmd(opts, "reactivate", "Mark a settled game active again", "reactivate"),
		newTokenCmd(),
	)

	return rootCmd
}

func newGamesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List active and settled games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var list httpapi.GameListResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/games", &list); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printGames := func(title string, games []*httpapi.GameResponse) {
				fmt.Fprintf(out, "%s (%d)\n", title, len(games))
				for _, g := range games {
					fmt.Fprintf(out, "  %s  %s  %s\n", g.ID, g.CreatedAt.Format("2006-01-02"), g.Name)
				}
			}
			printGames("Active", list.Active)
			printGames("Settled", list.Settled)
			return nil
		},
	}
}

func newSummaryCmd(opts *rootOptions, use, short, path, title string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary httpapi.SummaryResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, &summary); err != nil {
				return err
			}

			in := report.Input{Title: title}
			for _, g := range summary.Games {
				in.Games = append(in.Games, g.Name)
			}
			for _, b := range summary.Balances {
				in.Balances = append(in.Balances, calculator.PlayerBalance{Player: b.Player, Balance: b.Balance})
			}
			for _, t := range summary.Transfers {
				in.Transfers = append(in.Transfers, calculator.Transfer{From: t.From, To: t.To, Amount: t.Amount})
			}
			return report.WriteText(cmd.OutOrStdout(), in)
		},
	}
}

func newSettleCmd(opts *rootOptions, use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <game-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games/" + url.PathEscape(args[0]) + "/" + action
			if err := opts.client().do(cmd.Context(), http.MethodPost, path, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Game %s: %s ok\n", args[0], action)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token from JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("a secret is required: set JWT_SECRET or pass --secret")
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
