package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/pokernight/internal/models"
)

// ReplaceWinners clears a game's winner rows and inserts the new allocation.
func (s *SQLiteStore) ReplaceWinners(ctx context.Context, gameID string, winners []*models.Winner) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := gameExists(ctx, tx, gameID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM winners WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("failed to clear winners: %w", err)
	}

	for _, w := range winners {
		w.GameID = gameID
		if w.Percentage == 0 {
			w.Percentage = models.DefaultWinnerPercentage
		}
		result, err := tx.ExecContext(ctx,
			"INSERT INTO winners (game_id, player_id, percentage, name) VALUES (?, ?, ?, ?)",
			gameID, w.PlayerID, w.Percentage, w.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert winner: %w", err)
		}
		if w.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read winner id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListWinners retrieves a game's winner allocations.
func (s *SQLiteStore) ListWinners(ctx context.Context, gameID string) ([]*models.Winner, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT w.id, w.game_id, w.player_id, p.name, w.percentage
		 FROM winners w JOIN players p ON p.id = w.player_id
		 WHERE w.game_id = ? ORDER BY w.id`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	defer rows.Close()

	var winners []*models.Winner
	for rows.Next() {
		w := &models.Winner{}
		if err := rows.Scan(&w.ID, &w.GameID, &w.PlayerID, &w.Name, &w.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate winners: %w", err)
	}

	return winners, nil
}
