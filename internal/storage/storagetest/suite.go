// Package storagetest holds the behaviour every storage.Store backend must share.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/pokernight/internal/models"
	"github.com/mmynk/pokernight/internal/storage"
)

// Run exercises a backend. newStore must return an empty store and
// register its own cleanup.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("Games", func(t *testing.T) { testGames(t, newStore) })
	t.Run("CascadingDeletes", func(t *testing.T) { testCascadingDeletes(t, newStore) })
}

// SeedGame creates a game with the named players and returns them keyed by name.
func SeedGame(t *testing.T, store storage.Store, name string, players ...string) (*models.Game, map[string]*models.Player) {
	t.Helper()
	ctx := context.Background()

	game := &models.Game{Name: name}
	if err := store.CreateGame(ctx, game); err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}

	byName := make(map[string]*models.Player, len(players))
	for _, p := range players {
		player := &models.Player{GameID: game.ID, Name: p}
		if err := store.AddPlayer(ctx, player); err != nil {
			t.Fatalf("AddPlayer(%s) failed: %v", p, err)
		}
		byName[p] = player
	}
	return game, byName
}

func testGames(t *testing.T, newStore func(t *testing.T) storage.Store) {
	store := newStore(t)
	ctx := context.Background()

	t.Run("CreateGame generates ID and timestamp", func(t *testing.T) {
		game := &models.Game{Name: "Friday"}
		if err := store.CreateGame(ctx, game); err != nil {
			t.Fatalf("CreateGame failed: %v", err)
		}
		if game.ID == "" {
			t.Error("Expected game ID to be generated")
		}
		if game.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetGame(ctx, game.ID)
		if err != nil {
			t.Fatalf("GetGame failed: %v", err)
		}
		if got.Name != "Friday" || got.Settled {
			t.Errorf("GetGame = %+v, want unsettled Friday", got)
		}
	})

	t.Run("GetGame returns ErrGameNotFound", func(t *testing.T) {
		_, err := store.GetGame(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrGameNotFound) {
			t.Errorf("Expected ErrGameNotFound, got %v", err)
		}
	})

	t.Run("AddPlayer rejects duplicate names", func(t *testing.T) {
		game, _ := SeedGame(t, store, "Dupes", "Alice")
		err := store.AddPlayer(ctx, &models.Player{GameID: game.ID, Name: "Alice"})
		if !errors.Is(err, storage.ErrPlayerExists) {
			t.Errorf("Expected ErrPlayerExists, got %v", err)
		}

		// Names are case sensitive
		if err := store.AddPlayer(ctx, &models.Player{GameID: game.ID, Name: "alice"}); err != nil {
			t.Errorf("AddPlayer(alice) failed: %v", err)
		}
	})

	t.Run("AddPlayer to missing game", func(t *testing.T) {
		err := store.AddPlayer(ctx, &models.Player{GameID: "missing", Name: "Bob"})
		if !errors.Is(err, storage.ErrGameNotFound) {
			t.Errorf("Expected ErrGameNotFound, got %v", err)
		}
	})

	t.Run("players and buy-ins list in insertion order", func(t *testing.T) {
		game, players := SeedGame(t, store, "Ordered", "Zed", "Amy", "Mo")

		for _, b := range []struct {
			name   string
			amount float64
		}{{"Mo", 10}, {"Zed", 20}, {"Mo", 5}} {
			buyIn := &models.BuyIn{GameID: game.ID, PlayerID: players[b.name].ID, Amount: b.amount}
			if err := store.AddBuyIn(ctx, buyIn); err != nil {
				t.Fatalf("AddBuyIn failed: %v", err)
			}
			if buyIn.ID == 0 || buyIn.PlayerName != b.name {
				t.Errorf("AddBuyIn = %+v, want ID and PlayerName %s", buyIn, b.name)
			}
		}

		listed, err := store.ListPlayers(ctx, game.ID)
		if err != nil {
			t.Fatalf("ListPlayers failed: %v", err)
		}
		wantOrder := []string{"Zed", "Amy", "Mo"}
		if len(listed) != len(wantOrder) {
			t.Fatalf("ListPlayers = %d players, want %d", len(listed), len(wantOrder))
		}
		for i, name := range wantOrder {
			if listed[i].Name != name {
				t.Errorf("player %d = %s, want %s", i, listed[i].Name, name)
			}
		}

		buyIns, err := store.ListBuyIns(ctx, game.ID)
		if err != nil {
			t.Fatalf("ListBuyIns failed: %v", err)
		}
		if len(buyIns) != 3 {
			t.Fatalf("ListBuyIns = %d, want 3", len(buyIns))
		}
		if buyIns[0].PlayerName != "Mo" || buyIns[1].PlayerName != "Zed" || buyIns[2].Amount != 5 {
			t.Errorf("unexpected buy-in order: %+v %+v %+v", buyIns[0], buyIns[1], buyIns[2])
		}
	})

	t.Run("AddBuyIn requires player of the same game", func(t *testing.T) {
		_, playersA := SeedGame(t, store, "A", "Alice")
		gameB, _ := SeedGame(t, store, "B")

		err := store.AddBuyIn(ctx, &models.BuyIn{GameID: gameB.ID, PlayerID: playersA["Alice"].ID, Amount: 10})
		if !errors.Is(err, storage.ErrPlayerNotFound) {
			t.Errorf("Expected ErrPlayerNotFound, got %v", err)
		}
	})

	t.Run("ReplaceWinners clears previous allocation", func(t *testing.T) {
		game, players := SeedGame(t, store, "Winners", "Alice", "Bob")

		first := []*models.Winner{{PlayerID: players["Alice"].ID, Name: "Alice", Percentage: 100}}
		if err := store.ReplaceWinners(ctx, game.ID, first); err != nil {
			t.Fatalf("ReplaceWinners failed: %v", err)
		}

		second := []*models.Winner{
			{PlayerID: players["Alice"].ID, Name: "Alice", Percentage: 40},
			{PlayerID: players["Bob"].ID, Name: "Bob", Percentage: 60},
		}
		if err := store.ReplaceWinners(ctx, game.ID, second); err != nil {
			t.Fatalf("ReplaceWinners failed: %v", err)
		}

		winners, err := store.ListWinners(ctx, game.ID)
		if err != nil {
			t.Fatalf("ListWinners failed: %v", err)
		}
		if len(winners) != 2 {
			t.Fatalf("ListWinners = %d, want 2", len(winners))
		}
		if winners[0].Name != "Alice" || winners[0].Percentage != 40 || winners[1].Percentage != 60 {
			t.Errorf("unexpected winners: %+v %+v", winners[0], winners[1])
		}
	})

	t.Run("ListGames honours scope", func(t *testing.T) {
		scoped := newStore(t)
		active, _ := SeedGame(t, scoped, "Active")
		settled, _ := SeedGame(t, scoped, "Settled")
		if err := scoped.SetGameSettled(ctx, settled.ID, true); err != nil {
			t.Fatalf("SetGameSettled failed: %v", err)
		}

		all, err := scoped.ListGames(ctx, storage.ScopeAll)
		if err != nil {
			t.Fatalf("ListGames failed: %v", err)
		}
		if len(all) != 2 || all[0].ID != active.ID || all[1].ID != settled.ID {
			t.Errorf("ListGames(all) = %v, want both games oldest first", all)
		}
		if !all[1].Settled {
			t.Error("Expected second game to be settled")
		}

		unsettled, err := scoped.ListGames(ctx, storage.ScopeUnsettled)
		if err != nil {
			t.Fatalf("ListGames failed: %v", err)
		}
		if len(unsettled) != 1 || unsettled[0].ID != active.ID {
			t.Errorf("ListGames(unsettled) = %v, want only the active game", unsettled)
		}

		if err := scoped.SetGameSettled(ctx, settled.ID, false); err != nil {
			t.Fatalf("SetGameSettled(false) failed: %v", err)
		}
		unsettled, _ = scoped.ListGames(ctx, storage.ScopeUnsettled)
		if len(unsettled) != 2 {
			t.Errorf("Expected reactivated game to be unsettled, got %d games", len(unsettled))
		}
	})

	t.Run("SetGameSettled on missing game", func(t *testing.T) {
		err := store.SetGameSettled(ctx, "missing", true)
		if !errors.Is(err, storage.ErrGameNotFound) {
			t.Errorf("Expected ErrGameNotFound, got %v", err)
		}
	})
}

func testCascadingDeletes(t *testing.T, newStore func(t *testing.T) storage.Store) {
	store := newStore(t)
	ctx := context.Background()

	t.Run("DeletePlayer removes buy-ins and winnings", func(t *testing.T) {
		game, players := SeedGame(t, store, "Cascade player", "Alice", "Bob")
		for _, name := range []string{"Alice", "Bob"} {
			if err := store.AddBuyIn(ctx, &models.BuyIn{GameID: game.ID, PlayerID: players[name].ID, Amount: 20}); err != nil {
				t.Fatalf("AddBuyIn failed: %v", err)
			}
		}
		if err := store.ReplaceWinners(ctx, game.ID, []*models.Winner{
			{PlayerID: players["Alice"].ID, Name: "Alice", Percentage: 100},
		}); err != nil {
			t.Fatalf("ReplaceWinners failed: %v", err)
		}

		if err := store.DeletePlayer(ctx, game.ID, players["Alice"].ID); err != nil {
			t.Fatalf("DeletePlayer failed: %v", err)
		}

		remaining, _ := store.ListPlayers(ctx, game.ID)
		if len(remaining) != 1 || remaining[0].Name != "Bob" {
			t.Errorf("Expected only Bob left, got %v", remaining)
		}
		buyIns, _ := store.ListBuyIns(ctx, game.ID)
		if len(buyIns) != 1 || buyIns[0].PlayerName != "Bob" {
			t.Errorf("Expected only Bob's buy-in left, got %d", len(buyIns))
		}
		winners, _ := store.ListWinners(ctx, game.ID)
		if len(winners) != 0 {
			t.Errorf("Expected winners removed, got %d", len(winners))
		}
	})

	t.Run("DeletePlayer scoped to game", func(t *testing.T) {
		_, playersA := SeedGame(t, store, "Owner", "Alice")
		gameB, _ := SeedGame(t, store, "Other")

		err := store.DeletePlayer(ctx, gameB.ID, playersA["Alice"].ID)
		if !errors.Is(err, storage.ErrPlayerNotFound) {
			t.Errorf("Expected ErrPlayerNotFound, got %v", err)
		}
	})

	t.Run("DeleteBuyIn", func(t *testing.T) {
		game, players := SeedGame(t, store, "Buy-in delete", "Alice")
		buyIn := &models.BuyIn{GameID: game.ID, PlayerID: players["Alice"].ID, Amount: 15}
		if err := store.AddBuyIn(ctx, buyIn); err != nil {
			t.Fatalf("AddBuyIn failed: %v", err)
		}

		if err := store.DeleteBuyIn(ctx, "other-game", buyIn.ID); !errors.Is(err, storage.ErrBuyInNotFound) {
			t.Errorf("Expected ErrBuyInNotFound for wrong game, got %v", err)
		}
		if err := store.DeleteBuyIn(ctx, game.ID, buyIn.ID); err != nil {
			t.Fatalf("DeleteBuyIn failed: %v", err)
		}
		if err := store.DeleteBuyIn(ctx, game.ID, buyIn.ID); !errors.Is(err, storage.ErrBuyInNotFound) {
			t.Errorf("Expected ErrBuyInNotFound on second delete, got %v", err)
		}
	})

	t.Run("DeleteGame removes everything", func(t *testing.T) {
		game, players := SeedGame(t, store, "Cascade game", "Alice", "Bob")
		if err := store.AddBuyIn(ctx, &models.BuyIn{GameID: game.ID, PlayerID: players["Bob"].ID, Amount: 30}); err != nil {
			t.Fatalf("AddBuyIn failed: %v", err)
		}
		if err := store.ReplaceWinners(ctx, game.ID, []*models.Winner{
			{PlayerID: players["Bob"].ID, Name: "Bob", Percentage: 100},
		}); err != nil {
			t.Fatalf("ReplaceWinners failed: %v", err)
		}

		if err := store.DeleteGame(ctx, game.ID); err != nil {
			t.Fatalf("DeleteGame failed: %v", err)
		}

		if _, err := store.GetGame(ctx, game.ID); !errors.Is(err, storage.ErrGameNotFound) {
			t.Errorf("Expected game gone, got %v", err)
		}
		if left, _ := store.ListPlayers(ctx, game.ID); len(left) != 0 {
			t.Errorf("Expected no players left, got %d", len(left))
		}
		if left, _ := store.ListBuyIns(ctx, game.ID); len(left) != 0 {
			t.Errorf("Expected no buy-ins left, got %d", len(left))
		}
		if left, _ := store.ListWinners(ctx, game.ID); len(left) != 0 {
			t.Errorf("Expected no winners left, got %d", len(left))
		}

		if err := store.DeleteGame(ctx, game.ID); !errors.Is(err, storage.ErrGameNotFound) {
			t.Errorf("Expected ErrGameNotFound on second delete, got %v", err)
		}
	})
}

