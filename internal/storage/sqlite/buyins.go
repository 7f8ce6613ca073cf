package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/pokernight/internal/models"
	"github.com/mmynk/pokernight/internal/storage"
)

// AddBuyIn records a buy-in for a player of the game.
func (s *SQLiteStore) AddBuyIn(ctx context.Context, buyIn *models.BuyIn) error {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM players WHERE id = ? AND game_id = ?",
		buyIn.PlayerID, buyIn.GameID,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", storage.ErrPlayerNotFound, buyIn.PlayerID)
	}
	if err != nil {
		return fmt.Errorf("failed to check player existence: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO buyins (game_id, player_id, amount) VALUES (?, ?, ?)",
		buyIn.GameID, buyIn.PlayerID, buyIn.Amount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert buy-in: %w", err)
	}
	if buyIn.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read buy-in id: %w", err)
	}
	buyIn.PlayerName = name

	return nil
}

// ListBuyIns retrieves a game's buy-ins in the order they were recorded.
func (s *SQLiteStore) ListBuyIns(ctx context.Context, gameID string) ([]*models.BuyIn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.game_id, b.player_id, p.name, b.amount
		 FROM buyins b JOIN players p ON p.id = b.player_id
		 WHERE b.game_id = ? ORDER BY b.id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list buy-ins: %w", err)
	}
	defer rows.Close()

	var buyIns []*models.BuyIn
	for rows.Next() {
		b := &models.BuyIn{}
		if err := rows.Scan(&b.ID, &b.GameID, &b.PlayerID, &b.PlayerName, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan buy-in: %w", err)
		}
		buyIns = append(buyIns, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate buy-ins: %w", err)
	}

	return buyIns, nil
}

// DeleteBuyIn removes a single buy-in of the game.
func (s *SQLiteStore) DeleteBuyIn(ctx context.Context, gameID string, buyInID int64) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM buyins WHERE id = ? AND game_id = ?",
		buyInID, gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete buy-in: %w", err)
	}

	return requireAffected(result, storage.ErrBuyInNotFound, buyInID)
}
