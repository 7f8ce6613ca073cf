package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/pokernight/internal/models"
	"github.com/mmynk/pokernight/internal/storage"
)

// AddPlayer registers a player to an existing game.
func (s *SQLiteStore) AddPlayer(ctx context.Context, player *models.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := gameExists(ctx, tx, player.GameID); err != nil {
		return err
	}

	var existing int64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM players WHERE game_id = ? AND name = ?",
		player.GameID, player.Name,
	).Scan(&existing)
	if err == nil {
		return fmt.Errorf("%w: %s", storage.ErrPlayerExists, player.Name)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check player existence: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO players (game_id, name) VALUES (?, ?)",
		player.GameID, player.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	if player.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read player id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPlayerByName looks up a player registered to a game.
func (s *SQLiteStore) GetPlayerByName(ctx context.Context, gameID, name string) (*models.Player, error) {
	player := &models.Player{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, game_id, name FROM players WHERE game_id = ? AND name = ?",
		gameID, name,
	).Scan(&player.ID, &player.GameID, &player.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrPlayerNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// ListPlayers retrieves a game's players in registration order.
func (s *SQLiteStore) ListPlayers(ctx context.Context, gameID string) ([]*models.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, game_id, name FROM players WHERE game_id = ? ORDER BY id",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		player := &models.Player{}
		if err := rows.Scan(&player.ID, &player.GameID, &player.Name); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	return players, nil
}

// DeletePlayer removes a player with their buy-ins and winnings.
func (s *SQLiteStore) DeletePlayer(ctx context.Context, gameID string, playerID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM players WHERE id = ? AND game_id = ?",
		playerID, gameID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", storage.ErrPlayerNotFound, playerID)
	}
	if err != nil {
		return fmt.Errorf("failed to check player existence: %w", err)
	}

	for _, stmt := range []string{
		"DELETE FROM winners WHERE player_id = ?",
		"DELETE FROM buyins WHERE player_id = ?",
		"DELETE FROM players WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, playerID); err != nil {
			return fmt.Errorf("failed to delete player: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
