// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/pokernight/internal/models"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrBuyInNotFound  = errors.New("buy-in not found")
	ErrPlayerExists   = errors.New("player already registered to game")
)

// Scope selects which games balance aggregation looks at.
type Scope int

const (
	// ScopeAll includes every game.
	ScopeAll Scope = iota
	// ScopeUnsettled includes only games not marked settled.
	ScopeUnsettled
)

func (s Scope) String() string {
	switch s {
	case ScopeUnsettled:
		return "unsettled"
	default:
		return "all"
	}
}

// GameReader is the read side the balance aggregation depends on.
// Every list is returned in insertion order; games in creation order.
type GameReader interface {
	// ListGames returns the games in scope.
	ListGames(ctx context.Context, scope Scope) ([]*models.Game, error)

	// ListPlayers returns the players registered to a game.
	ListPlayers(ctx context.Context, gameID string) ([]*models.Player, error)

	// ListBuyIns returns a game's buy-ins with PlayerName populated.
	ListBuyIns(ctx context.Context, gameID string) ([]*models.BuyIn, error)

	// ListWinners returns a game's winner allocations.
	ListWinners(ctx context.Context, gameID string) ([]*models.Winner, error)
}

// Store defines the interface for game storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
//
// Deletes cascade: deleting a game removes every player, buy-in and winner
// record of that game; deleting a player removes that player's buy-ins and
// winner records.
type Store interface {
	GameReader

	// CreateGame persists a new game.
	// The game.ID and game.CreatedAt fields will be populated by the store.
	CreateGame(ctx context.Context, game *models.Game) error

	// GetGame retrieves a game by its ID.
	// Returns ErrGameNotFound if no such game exists.
	GetGame(ctx context.Context, gameID string) (*models.Game, error)

	// SetGameSettled marks a game settled or active again.
	SetGameSettled(ctx context.Context, gameID string, settled bool) error

	// DeleteGame removes a game and everything recorded against it.
	DeleteGame(ctx context.Context, gameID string) error

	// AddPlayer registers a player to a game. The player.ID field will be
	// populated by the store. Returns ErrPlayerExists if the name is taken.
	AddPlayer(ctx context.Context, player *models.Player) error

	// GetPlayerByName looks a player up by exact name within a game.
	GetPlayerByName(ctx context.Context, gameID, name string) (*models.Player, error)

	// DeletePlayer removes a player of the given game with its buy-ins and winnings.
	DeletePlayer(ctx context.Context, gameID string, playerID int64) error

	// AddBuyIn records a buy-in. The buyIn.ID field will be populated by the store.
	AddBuyIn(ctx context.Context, buyIn *models.BuyIn) error

	// DeleteBuyIn removes a buy-in of the given game.
	DeleteBuyIn(ctx context.Context, gameID string, buyInID int64) error

	// ReplaceWinners clears a game's winner allocations and stores the given ones.
	ReplaceWinners(ctx context.Context, gameID string, winners []*models.Winner) error

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
