package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/pokernight/internal/calculator"
	"github.com/mmynk/pokernight/internal/models"
	"github.com/mmynk/pokernight/internal/storage"
)

// Summary is the aggregated standing across the games in scope.
type Summary struct {
	Scope storage.Scope

	// Games are the games that contributed, in creation order.
	Games []*models.Game

	// Balances are ordered by first appearance across Games.
	Balances []calculator.PlayerBalance

	Transfers []calculator.Transfer
}

// Summary aggregates net balances across the games in scope and reduces
// them to a list of transfers that settles everyone.
func (s *GameService) Summary(ctx context.Context, scope storage.Scope) (*Summary, error) {
	slog.Info("Summary request received", "scope", scope)

	games, inputs, err := LoadGamesForBalance(ctx, s.store, scope)
	if err != nil {
		slog.Error("Summary failed", "scope", scope, "error", err)
		return nil, err
	}

	balances := calculator.CalculateNetBalances(inputs)
	transfers := calculator.SimplifyDebts(balances)

	settlementsComputed.WithLabelValues(scope.String()).Inc()
	transfersEmitted.WithLabelValues(scope.String()).Add(float64(len(transfers)))

	for _, b := range balances {
		slog.Debug("Player balance", "player", b.Player, "balance", b.Balance)
	}
	slog.Info("Summary computed",
		"scope", scope,
		"games_count", len(games),
		"players_count", len(balances),
		"transfers_count", len(transfers),
	)

	return &Summary{
		Scope:     scope,
		Games:     games,
		Balances:  balances,
		Transfers: transfers,
	}, nil
}

// LoadGamesForBalance reads the games in scope and converts each into the
// calculator's input form. Both slices share the same order.
func LoadGamesForBalance(ctx context.Context, reader storage.GameReader, scope storage.Scope) ([]*models.Game, []calculator.GameForBalance, error) {
	games, err := reader.ListGames(ctx, scope)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list games: %w", err)
	}

	inputs := make([]calculator.GameForBalance, 0, len(games))
	for _, g := range games {
		input, err := loadGame(ctx, reader, g.ID)
		if err != nil {
			return nil, nil, err
		}
		inputs = append(inputs, input)
	}

	return games, inputs, nil
}

func loadGame(ctx context.Context, reader storage.GameReader, gameID string) (calculator.GameForBalance, error) {
	var input calculator.GameForBalance

	players, err := reader.ListPlayers(ctx, gameID)
	if err != nil {
		return input, fmt.Errorf("failed to list players of game %s: %w", gameID, err)
	}
	buyIns, err := reader.ListBuyIns(ctx, gameID)
	if err != nil {
		return input, fmt.Errorf("failed to list buy-ins of game %s: %w", gameID, err)
	}
	winners, err := reader.ListWinners(ctx, gameID)
	if err != nil {
		return input, fmt.Errorf("failed to list winners of game %s: %w", gameID, err)
	}

	input.Players = make([]string, len(players))
	for i, p := range players {
		input.Players[i] = p.Name
	}
	input.BuyIns = make([]calculator.BuyInForBalance, len(buyIns))
	for i, b := range buyIns {
		input.BuyIns[i] = calculator.BuyInForBalance{Player: b.PlayerName, Amount: b.Amount}
	}
	input.Winners = make([]calculator.WinnerForBalance, len(winners))
	for i, w := range winners {
		input.Winners[i] = calculator.WinnerForBalance{Player: w.Name, Percentage: w.Percentage}
	}

	return input, nil
}
