package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/pokernight/internal/models"
	"github.com/mmynk/pokernight/internal/storage"
)

const pgErrUniqueViolation = "23505"

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL, applies migrations and returns a store.
func New(ctx context.Context, opts Options) (*PostgresStore, error) {
	pool, err := NewPool(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(opts.DatabaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	return NewWithPool(pool), nil
}

// NewWithPool wraps an existing pool. Migrations are the caller's concern.
func NewWithPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateGame persists a new game.
func (s *PostgresStore) CreateGame(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	if game.CreatedAt == 0 {
		game.CreatedAt = time.Now().Unix()
	}

	_, err := s.pool.Exec(ctx,
		"INSERT INTO games (id, name, settled, created_at) VALUES ($1, $2, $3, $4)",
		game.ID, game.Name, game.Settled, game.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

// GetGame retrieves a game by ID.
func (s *PostgresStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	game := &models.Game{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, settled, created_at FROM games WHERE id = $1",
		gameID,
	).Scan(&game.ID, &game.Name, &game.Settled, &game.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListGames retrieves the games in scope, oldest first.
func (s *PostgresStore) ListGames(ctx context.Context, scope storage.Scope) ([]*models.Game, error) {
	query := "SELECT id, name, settled, created_at FROM games"
	if scope == storage.ScopeUnsettled {
		query += " WHERE NOT settled"
	}
	query += " ORDER BY created_at, seq"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		if err := rows.Scan(&game.ID, &game.Name, &game.Settled, &game.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	return games, nil
}

// SetGameSettled flips a game's settled flag.
func (s *PostgresStore) SetGameSettled(ctx context.Context, gameID string, settled bool) error {
	tag, err := s.pool.Exec(ctx, "UPDATE games SET settled = $1 WHERE id = $2", settled, gameID)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
	}
	return nil
}

// DeleteGame removes a game together with its winners, buy-ins and players.
func (s *PostgresStore) DeleteGame(ctx context.Context, gameID string) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM winners WHERE game_id = $1",
			"DELETE FROM buyins WHERE game_id = $1",
			"DELETE FROM players WHERE game_id = $1",
		} {
			if _, err := tx.Exec(ctx, stmt, gameID); err != nil {
				return fmt.Errorf("failed to delete game records: %w", err)
			}
		}

		tag, err := tx.Exec(ctx, "DELETE FROM games WHERE id = $1", gameID)
		if err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
		}
		return nil
	})
}

// AddPlayer registers a player to an existing game.
func (s *PostgresStore) AddPlayer(ctx context.Context, player *models.Player) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := gameExists(ctx, tx, player.GameID); err != nil {
			return err
		}

		err := tx.QueryRow(ctx,
			"INSERT INTO players (game_id, name) VALUES ($1, $2) RETURNING id",
			player.GameID, player.Name,
		).Scan(&player.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
				return fmt.Errorf("%w: %s", storage.ErrPlayerExists, player.Name)
			}
			return fmt.Errorf("failed to insert player: %w", err)
		}
		return nil
	})
}

// GetPlayerByName looks up a player registered to a game.
func (s *PostgresStore) GetPlayerByName(ctx context.Context, gameID, name string) (*models.Player, error) {
	player := &models.Player{}
	err := s.pool.QueryRow(ctx,
		"SELECT id, game_id, name FROM players WHERE game_id = $1 AND name = $2",
		gameID, name,
	).Scan(&player.ID, &player.GameID, &player.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrPlayerNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

// ListPlayers retrieves a game's players in registration order.
func (s *PostgresStore) ListPlayers(ctx context.Context, gameID string) ([]*models.Player, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, game_id, name FROM players WHERE game_id = $1 ORDER BY id",
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
func (s *PostgresStore) DeletePlayer(ctx context.Context, gameID string, playerID int64) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		var exists int
		err := tx.QueryRow(ctx,
			"SELECT 1 FROM players WHERE id = $1 AND game_id = $2",
			playerID, gameID,
		).Scan(&exists)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %d", storage.ErrPlayerNotFound, playerID)
		}
		if err != nil {
			return fmt.Errorf("failed to check player existence: %w", err)
		}

		for _, stmt := range []string{
			"DELETE FROM winners WHERE player_id = $1",
			"DELETE FROM buyins WHERE player_id = $1",
			"DELETE FROM players WHERE id = $1",
		} {
			if _, err := tx.Exec(ctx, stmt, playerID); err != nil {
				return fmt.Errorf("failed to delete player: %w", err)
			}
		}
		return nil
	})
}

// AddBuyIn records a buy-in for a player of the game.
func (s *PostgresStore) AddBuyIn(ctx context.Context, buyIn *models.BuyIn) error {
	err := s.pool.QueryRow(ctx,
		`WITH p AS (SELECT id, game_id, name FROM players WHERE id = $2 AND game_id = $1)
		 INSERT INTO buyins (game_id, player_id, amount)
		 SELECT game_id, id, $3::double precision FROM p
		 RETURNING id, (SELECT name FROM p)`,
		buyIn.GameID, buyIn.PlayerID, buyIn.Amount,
	).Scan(&buyIn.ID, &buyIn.PlayerName)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %d", storage.ErrPlayerNotFound, buyIn.PlayerID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert buy-in: %w", err)
	}

	return nil
}

// ListBuyIns retrieves a game's buy-ins in the order they were recorded.
func (s *PostgresStore) ListBuyIns(ctx context.Context, gameID string) ([]*models.BuyIn, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT b.id, b.game_id, b.player_id, p.name, b.amount
		 FROM buyins b JOIN players p ON p.id = b.player_id
		 WHERE b.game_id = $1 ORDER BY b.id`,
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
func (s *PostgresStore) DeleteBuyIn(ctx context.Context, gameID string, buyInID int64) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM buyins WHERE id = $1 AND game_id = $2", buyInID, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete buy-in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", storage.ErrBuyInNotFound, buyInID)
	}
	return nil
}

// ReplaceWinners clears a game's winner rows and inserts the new allocation.
func (s *PostgresStore) ReplaceWinners(ctx context.Context, gameID string, winners []*models.Winner) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := gameExists(ctx, tx, gameID); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, "DELETE FROM winners WHERE game_id = $1", gameID); err != nil {
			return fmt.Errorf("failed to clear winners: %w", err)
		}

		for _, w := range winners {
			w.GameID = gameID
			if w.Percentage == 0 {
				w.Percentage = models.DefaultWinnerPercentage
			}
			err := tx.QueryRow(ctx,
				"INSERT INTO winners (game_id, player_id, percentage, name) VALUES ($1, $2, $3, $4) RETURNING id",
				gameID, w.PlayerID, w.Percentage, w.Name,
			).Scan(&w.ID)
			if err != nil {
				return fmt.Errorf("failed to insert winner: %w", err)
			}
		}
		return nil
	})
}

// ListWinners retrieves a game's winner allocations.
func (s *PostgresStore) ListWinners(ctx context.Context, gameID string) ([]*models.Winner, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT w.id, w.game_id, w.player_id, p.name, w.percentage
		 FROM winners w JOIN players p ON p.id = w.player_id
		 WHERE w.game_id = $1 ORDER BY w.id`,
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

// inTx runs fn inside a transaction, committing only if it returns nil.
func (s *PostgresStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func gameExists(ctx context.Context, tx pgx.Tx, gameID string) error {
	var exists int
	err := tx.QueryRow(ctx, "SELECT 1 FROM games WHERE id = $1", gameID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
	}
	if err != nil {
		return fmt.Errorf("failed to check game existence: %w", err)
	}
	return nil
}
