// Package service implements the poker night ledger operations on top of a
// storage.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mmynk/pokernight/internal/models"
	"github.com/mmynk/pokernight/internal/storage"
)

var (
	ErrMissingGameName = errors.New("missing game name")
	ErrNameTooLong     = fmt.Errorf("name longer than %d characters", models.MaxNameLength)
	ErrInvalidAmount   = errors.New("amount must be a finite number")
)

// GameService exposes game bookkeeping and settlement.
type GameService struct {
	store storage.Store
}

// NewGameService creates a new GameService with the given storage backend.
func NewGameService(store storage.Store) *GameService {
	return &GameService{store: store}
}

// GameList splits games by settlement state, each in creation order.
type GameList struct {
	Active  []*models.Game
	Settled []*models.Game
}

// CreateGame creates a new game.
func (s *GameService) CreateGame(ctx context.Context, name string) (*models.Game, error) {
	slog.Info("CreateGame request received", "name", name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingGameName
	}
	if len(name) > models.MaxNameLength {
		return nil, ErrNameTooLong
	}

	game := &models.Game{Name: name}
	if err := s.store.CreateGame(ctx, game); err != nil {
		slog.Error("CreateGame failed", "error", err)
		return nil, err
	}
	gamesCreated.Inc()

	slog.Info("Game created", "game_id", game.ID)
	return game, nil
}

// GetGameDetail returns a game with its players, buy-ins and winnings.
func (s *GameService) GetGameDetail(ctx context.Context, gameID string) (*models.GameDetail, error) {
	slog.Info("GetGameDetail request received", "game_id", gameID)

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		slog.Error("GetGameDetail failed", "game_id", gameID, "error", err)
		return nil, err
	}

	players, err := s.store.ListPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	buyIns, err := s.store.ListBuyIns(ctx, gameID)
	if err != nil {
		return nil, err
	}
	winners, err := s.store.ListWinners(ctx, gameID)
	if err != nil {
		return nil, err
	}

	winnings := make(map[string]float64, len(winners))
	for _, w := range winners {
		winnings[w.Name] = w.Percentage
	}

	slog.Info("GetGameDetail successful",
		"game_id", gameID,
		"players_count", len(players),
		"buyins_count", len(buyIns),
		"winners_count", len(winners),
	)

	return &models.GameDetail{
		Game:     game,
		Players:  players,
		BuyIns:   buyIns,
		Winnings: winnings,
	}, nil
}

// ListGames returns active and settled games separately.
func (s *GameService) ListGames(ctx context.Context) (*GameList, error) {
	slog.Info("ListGames request received")

	games, err := s.store.ListGames(ctx, storage.ScopeAll)
	if err != nil {
		slog.Error("ListGames failed", "error", err)
		return nil, err
	}

	list := &GameList{Active: []*models.Game{}, Settled: []*models.Game{}}
	for _, g := range games {
		if g.Settled {
			list.Settled = append(list.Settled, g)
		} else {
			list.Active = append(list.Active, g)
		}
	}

	slog.Info("ListGames successful", "active", len(list.Active), "settled", len(list.Settled))
	return list, nil
}

// DeleteGame removes a game and everything recorded against it.
func (s *GameService) DeleteGame(ctx context.Context, gameID string) error {
	slog.Info("DeleteGame request received", "game_id", gameID)

	if err := s.store.DeleteGame(ctx, gameID); err != nil {
		slog.Error("DeleteGame failed", "game_id", gameID, "error", err)
		return err
	}

	slog.Info("Game deleted", "game_id", gameID)
	return nil
}

// AddPlayer registers a player to a game. A blank name is ignored and an
// already registered name returns the existing player; created reports
// whether a new row was written.
func (s *GameService) AddPlayer(ctx context.Context, gameID, name string) (player *models.Player, created bool, err error) {
	slog.Info("AddPlayer request received", "game_id", gameID, "name", name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, nil
	}
	if len(name) > models.MaxNameLength {
		return nil, false, ErrNameTooLong
	}

	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, false, err
	}

	existing, err := s.store.GetPlayerByName(ctx, gameID, name)
	switch {
	case err == nil:
		slog.Debug("Player already registered", "game_id", gameID, "player_id", existing.ID)
		return existing, false, nil
	case !errors.Is(err, storage.ErrPlayerNotFound):
		return nil, false, err
	}

	player = &models.Player{GameID: gameID, Name: name}
	if err := s.store.AddPlayer(ctx, player); err != nil {
		if errors.Is(err, storage.ErrPlayerExists) {
			// Lost a race with a concurrent insert of the same name.
			existing, lookupErr := s.store.GetPlayerByName(ctx, gameID, name)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			return existing, false, nil
		}
		slog.Error("AddPlayer failed", "game_id", gameID, "error", err)
		return nil, false, err
	}

	slog.Info("Player added", "game_id", gameID, "player_id", player.ID)
	return player, true, nil
}

// DeletePlayer removes a player along with their buy-ins and winnings.
func (s *GameService) DeletePlayer(ctx context.Context, gameID string, playerID int64) error {
	slog.Info("DeletePlayer request received", "game_id", gameID, "player_id", playerID)

	if err := s.store.DeletePlayer(ctx, gameID, playerID); err != nil {
		slog.Error("DeletePlayer failed", "game_id", gameID, "player_id", playerID, "error", err)
		return err
	}
	return nil
}

// AddBuyIn records a buy-in for a registered player. rawAmount is parsed as
// a float; negative amounts are accepted and act as cash-outs.
func (s *GameService) AddBuyIn(ctx context.Context, gameID, playerName, rawAmount string) (*models.BuyIn, error) {
	slog.Info("AddBuyIn request received", "game_id", gameID, "player", playerName, "amount", rawAmount)

	amount, err := ParseNumber(rawAmount)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	player, err := s.store.GetPlayerByName(ctx, gameID, playerName)
	if err != nil {
		slog.Warn("AddBuyIn for unknown player", "game_id", gameID, "player", playerName)
		return nil, err
	}

	buyIn := &models.BuyIn{
		GameID:   gameID,
		PlayerID: player.ID,
		Amount:   amount,
	}
	if err := s.store.AddBuyIn(ctx, buyIn); err != nil {
		slog.Error("AddBuyIn failed", "game_id", gameID, "error", err)
		return nil, err
	}
	buyInsRecorded.Inc()
	buyInAmount.Observe(amount)

	slog.Info("Buy-in recorded", "game_id", gameID, "buyin_id", buyIn.ID, "player", player.Name)
	return buyIn, nil
}

// DeleteBuyIn removes a buy-in of the game.
func (s *GameService) DeleteBuyIn(ctx context.Context, gameID string, buyInID int64) error {
	slog.Info("DeleteBuyIn request received", "game_id", gameID, "buyin_id", buyInID)

	if err := s.store.DeleteBuyIn(ctx, gameID, buyInID); err != nil {
		slog.Error("DeleteBuyIn failed", "game_id", gameID, "buyin_id", buyInID, "error", err)
		return err
	}
	return nil
}

// WinnerLookup maps player ID to the percentage currently assigned.
func (s *GameService) WinnerLookup(ctx context.Context, gameID string) (map[int64]float64, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	winners, err := s.store.ListWinners(ctx, gameID)
	if err != nil {
		return nil, err
	}

	lookup := make(map[int64]float64, len(winners))
	for _, w := range winners {
		lookup[w.PlayerID] = w.Percentage
	}
	return lookup, nil
}

// AssignWinners replaces the game's winner allocations. percentages is
// keyed by player name; players without an entry, and entries that are not
// a finite number greater than zero, are left out.
func (s *GameService) AssignWinners(ctx context.Context, gameID string, percentages map[string]string) ([]*models.Winner, error) {
	slog.Info("AssignWinners request received", "game_id", gameID, "entries", len(percentages))

	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	players, err := s.store.ListPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}

	winners := []*models.Winner{}
	for _, p := range players {
		raw := percentages[p.Name]
		if raw == "" {
			continue
		}
		pct, err := ParseNumber(raw)
		if err != nil || pct <= 0 {
			slog.Debug("Ignoring winner entry", "player", p.Name, "value", raw)
			continue
		}
		winners = append(winners, &models.Winner{
			GameID:     gameID,
			PlayerID:   p.ID,
			Name:       p.Name,
			Percentage: pct,
		})
	}

	if err := s.store.ReplaceWinners(ctx, gameID, winners); err != nil {
		slog.Error("AssignWinners failed", "game_id", gameID, "error", err)
		return nil, err
	}
	winnersAssigned.Add(float64(len(winners)))

	slog.Info("Winners assigned", "game_id", gameID, "winners_count", len(winners))
	return winners, nil
}

// SettleGame marks a game as paid out.
func (s *GameService) SettleGame(ctx context.Context, gameID string) error {
	return s.setSettled(ctx, gameID, true)
}

// ReactivateGame marks a settled game active again.
func (s *GameService) ReactivateGame(ctx context.Context, gameID string) error {
	return s.setSettled(ctx, gameID, false)
}

func (s *GameService) setSettled(ctx context.Context, gameID string, settled bool) error {
	slog.Info("SetSettled request received", "game_id", gameID, "settled", settled)

	if err := s.store.SetGameSettled(ctx, gameID, settled); err != nil {
		slog.Error("SetSettled failed", "game_id", gameID, "error", err)
		return err
	}
	return nil
}

// ParseNumber parses a user supplied amount or percentage.
// Surrounding whitespace is ignored; NaN and infinities are rejected.
func ParseNumber(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return v, nil
}
