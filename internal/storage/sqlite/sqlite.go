// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/pokernight/internal/models"
	"github.com/mmynk/pokernight/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection setting, so they go in the DSN
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateGame persists a new game to the database.
func (s *SQLiteStore) CreateGame(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = uuid.New().String()
	}
	if game.CreatedAt == 0 {
		game.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO games (id, name, settled, created_at) VALUES (?, ?, ?, ?)",
		game.ID, game.Name, game.Settled, game.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

// GetGame retrieves a game by ID.
func (s *SQLiteStore) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	game := &models.Game{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, settled, created_at FROM games WHERE id = ?",
		gameID,
	).Scan(&game.ID, &game.Name, &game.Settled, &game.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListGames retrieves the games in scope, oldest first.
func (s *SQLiteStore) ListGames(ctx context.Context, scope storage.Scope) ([]*models.Game, error) {
	query := "SELECT id, name, settled, created_at FROM games"
	if scope == storage.ScopeUnsettled {
		query += " WHERE settled = 0"
	}
	query += " ORDER BY created_at, rowid"

	rows, err := s.db.QueryContext(ctx, query)
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
func (s *SQLiteStore) SetGameSettled(ctx context.Context, gameID string, settled bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE games SET settled = ? WHERE id = ?",
		settled, gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return requireAffected(result, storage.ErrGameNotFound, gameID)
}

// DeleteGame removes a game together with its winners, buy-ins and players.
func (s *SQLiteStore) DeleteGame(ctx context.Context, gameID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM winners WHERE game_id = ?",
		"DELETE FROM buyins WHERE game_id = ?",
		"DELETE FROM players WHERE game_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, gameID); err != nil {
			return fmt.Errorf("failed to delete game records: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM games WHERE id = ?", gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if err := requireAffected(result, storage.ErrGameNotFound, gameID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// gameExists reports whether the game is present, using the given querier.
func gameExists(ctx context.Context, q querier, gameID string) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM games WHERE id = ?", gameID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", storage.ErrGameNotFound, gameID)
	}
	if err != nil {
		return fmt.Errorf("failed to check game existence: %w", err)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// requireAffected turns a zero-row update or delete into the given not-found error.
func requireAffected(result sql.Result, notFound error, id any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %v", notFound, id)
	}
	return nil
}
