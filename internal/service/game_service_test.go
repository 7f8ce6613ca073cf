package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/pokernight/internal/calculator"
	"github.com/mmynk/pokernight/internal/storage"
	"github.com/mmynk/pokernight/internal/storage/sqlite"
)

func setupService(t *testing.T) *GameService {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewGameService(store)
}

// newGame creates a game with the given players registered.
func newGame(t *testing.T, svc *GameService, name string, players ...string) string {
	t.Helper()
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, name)
	require.NoError(t, err)
	for _, p := range players {
		_, _, err := svc.AddPlayer(ctx, game.ID, p)
		require.NoError(t, err)
	}
	return game.ID
}

func TestCreateGame(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, "  Friday Hold'em  ")
	require.NoError(t, err)
	assert.NotEmpty(t, game.ID)
	assert.Equal(t, "Friday Hold'em", game.Name)
	assert.False(t, game.Settled)

	_, err = svc.CreateGame(ctx, "   ")
	assert.ErrorIs(t, err, ErrMissingGameName)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	_, err = svc.CreateGame(ctx, string(long))
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestGetGameDetail(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	gameID := newGame(t, svc, "Friday", "Alice", "Bob")

	_, err := svc.AddBuyIn(ctx, gameID, "Alice", "50")
	require.NoError(t, err)
	_, err = svc.AssignWinners(ctx, gameID, map[string]string{"Bob": "100"})
	require.NoError(t, err)

	detail, err := svc.GetGameDetail(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, "Friday", detail.Game.Name)
	require.Len(t, detail.Players, 2)
	assert.Equal(t, "Alice", detail.Players[0].Name)
	require.Len(t, detail.BuyIns, 1)
	assert.Equal(t, "Alice", detail.BuyIns[0].PlayerName)
	assert.Equal(t, map[string]float64{"Bob": 100}, detail.Winnings)

	_, err = svc.GetGameDetail(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrGameNotFound)
}

func TestListGames_SplitsBySettlement(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	first := newGame(t, svc, "First")
	second := newGame(t, svc, "Second")
	third := newGame(t, svc, "Third")
	require.NoError(t, svc.SettleGame(ctx, second))

	list, err := svc.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, list.Active, 2)
	require.Len(t, list.Settled, 1)
	assert.Equal(t, first, list.Active[0].ID)
	assert.Equal(t, third, list.Active[1].ID)
	assert.Equal(t, second, list.Settled[0].ID)

	require.NoError(t, svc.ReactivateGame(ctx, second))
	list, err = svc.ListGames(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Active, 3)
	assert.Empty(t, list.Settled)

	assert.ErrorIs(t, svc.SettleGame(ctx, "missing"), storage.ErrGameNotFound)
}

func TestAddPlayer(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	gameID := newGame(t, svc, "Friday")

	player, created, err := svc.AddPlayer(ctx, gameID, " Alice ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Alice", player.Name)

	again, created, err := svc.AddPlayer(ctx, gameID, "Alice")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, player.ID, again.ID)

	blank, created, err := svc.AddPlayer(ctx, gameID, "  ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, blank)

	_, _, err = svc.AddPlayer(ctx, "missing", "Bob")
	assert.ErrorIs(t, err, storage.ErrGameNotFound)

	detail, err := svc.GetGameDetail(ctx, gameID)
	require.NoError(t, err)
	assert.Len(t, detail.Players, 1)
}

func TestAddBuyIn(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	gameID := newGame(t, svc, "Friday", "Alice")

	tests := []struct {
		name    string
		gameID  string
		player  string
		amount  string
		want    float64
		wantErr error
	}{
		{name: "plain", gameID: gameID, player: "Alice", amount: "20", want: 20},
		{name: "fraction with spaces", gameID: gameID, player: "Alice", amount: " 12.5 ", want: 12.5},
		{name: "negative cash-out", gameID: gameID, player: "Alice", amount: "-5", want: -5},
		{name: "not a number", gameID: gameID, player: "Alice", amount: "abc", wantErr: ErrInvalidAmount},
		{name: "empty", gameID: gameID, player: "Alice", amount: "", wantErr: ErrInvalidAmount},
		{name: "nan", gameID: gameID, player: "Alice", amount: "NaN", wantErr: ErrInvalidAmount},
		{name: "infinite", gameID: gameID, player: "Alice", amount: "inf", wantErr: ErrInvalidAmount},
		{name: "unknown player", gameID: gameID, player: "Zed", amount: "10", wantErr: storage.ErrPlayerNotFound},
		{name: "unknown game", gameID: "missing", player: "Alice", amount: "10", wantErr: storage.ErrGameNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buyIn, err := svc.AddBuyIn(ctx, tt.gameID, tt.player, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buyIn.Amount)
			assert.NotZero(t, buyIn.ID)
		})
	}
}

func TestDeleteBuyInAndPlayer(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	gameID := newGame(t, svc, "Friday", "Alice", "Bob")

	buyIn, err := svc.AddBuyIn(ctx, gameID, "Alice", "20")
	require.NoError(t, err)
	_, err = svc.AddBuyIn(ctx, gameID, "Bob", "20")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBuyIn(ctx, gameID, buyIn.ID))
	assert.ErrorIs(t, svc.DeleteBuyIn(ctx, gameID, buyIn.ID), storage.ErrBuyInNotFound)

	detail, err := svc.GetGameDetail(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, detail.BuyIns, 1)

	bob := detail.Players[1]
	require.NoError(t, svc.DeletePlayer(ctx, gameID, bob.ID))
	assert.ErrorIs(t, svc.DeletePlayer(ctx, gameID, bob.ID), storage.ErrPlayerNotFound)

	detail, err = svc.GetGameDetail(ctx, gameID)
	require.NoError(t, err)
	assert.Len(t, detail.Players, 1)
	assert.Empty(t, detail.BuyIns)
}

func TestAssignWinners(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	gameID := newGame(t, svc, "Friday", "Alice", "Bob", "Carol", "Dan")

	winners, err := svc.AssignWinners(ctx, gameID, map[string]string{
		"Alice":   "60",
		"Bob":     "abc",
		"Carol":   "0",
		"Dan":     "40",
		"Unknown": "50",
	})
	require.NoError(t, err)
	require.Len(t, winners, 2)
	assert.Equal(t, "Alice", winners[0].Name)
	assert.Equal(t, "Dan", winners[1].Name)

	lookup, err := svc.WinnerLookup(ctx, gameID)
	require.NoError(t, err)
	assert.Len(t, lookup, 2)
	assert.Equal(t, 60.0, lookup[winners[0].PlayerID])

	// A second assignment replaces the first.
	_, err = svc.AssignWinners(ctx, gameID, map[string]string{"Bob": "100"})
	require.NoError(t, err)
	detail, err := svc.GetGameDetail(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Bob": 100}, detail.Winnings)

	// An empty assignment clears all winners.
	_, err = svc.AssignWinners(ctx, gameID, nil)
	require.NoError(t, err)
	lookup, err = svc.WinnerLookup(ctx, gameID)
	require.NoError(t, err)
	assert.Empty(t, lookup)

	_, err = svc.AssignWinners(ctx, "missing", nil)
	assert.ErrorIs(t, err, storage.ErrGameNotFound)
	_, err = svc.WinnerLookup(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrGameNotFound)
}

func TestDeleteGame(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	gameID := newGame(t, svc, "Friday", "Alice")

	require.NoError(t, svc.DeleteGame(ctx, gameID))
	_, err := svc.GetGameDetail(ctx, gameID)
	assert.ErrorIs(t, err, storage.ErrGameNotFound)
	assert.ErrorIs(t, svc.DeleteGame(ctx, gameID), storage.ErrGameNotFound)
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber("1e2")
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	_, err = ParseNumber("1e400")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ParseNumber("-Inf")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSummary(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	// Alice and Bob each put in 50; Alice takes the pot.
	first := newGame(t, svc, "First", "Alice", "Bob")
	_, err := svc.AddBuyIn(ctx, first, "Alice", "50")
	require.NoError(t, err)
	_, err = svc.AddBuyIn(ctx, first, "Bob", "50")
	require.NoError(t, err)
	_, err = svc.AssignWinners(ctx, first, map[string]string{"Alice": "100"})
	require.NoError(t, err)

	// Bob and Carol each put in 30; split evenly, so nobody moves.
	second := newGame(t, svc, "Second", "Bob", "Carol")
	_, err = svc.AddBuyIn(ctx, second, "Bob", "30")
	require.NoError(t, err)
	_, err = svc.AddBuyIn(ctx, second, "Carol", "30")
	require.NoError(t, err)
	_, err = svc.AssignWinners(ctx, second, map[string]string{"Bob": "50", "Carol": "50"})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, storage.ScopeAll)
	require.NoError(t, err)
	assert.Len(t, summary.Games, 2)
	assert.Equal(t, []calculator.PlayerBalance{
		{Player: "Alice", Balance: 50},
		{Player: "Bob", Balance: -50},
		{Player: "Carol", Balance: 0},
	}, summary.Balances)
	assert.Equal(t, []calculator.Transfer{{From: "Bob", To: "Alice", Amount: 50}}, summary.Transfers)

	// Settling the first game leaves nothing outstanding.
	require.NoError(t, svc.SettleGame(ctx, first))
	debts, err := svc.Summary(ctx, storage.ScopeUnsettled)
	require.NoError(t, err)
	require.Len(t, debts.Games, 1)
	assert.Equal(t, second, debts.Games[0].ID)
	assert.Empty(t, debts.Transfers)
	assert.Equal(t, storage.ScopeUnsettled, debts.Scope)
}

func TestSummary_GameWithoutWinnersPaysNothing(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	gameID := newGame(t, svc, "Friday", "Alice", "Bob")
	_, err := svc.AddBuyIn(ctx, gameID, "Alice", "20")
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, storage.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, []calculator.PlayerBalance{
		{Player: "Alice", Balance: -20},
		{Player: "Bob", Balance: 0},
	}, summary.Balances)
	assert.Empty(t, summary.Transfers)
}

func TestSummary_Empty(t *testing.T) {
	svc := setupService(t)

	summary, err := svc.Summary(context.Background(), storage.ScopeAll)
	require.NoError(t, err)
	assert.Empty(t, summary.Games)
	assert.Empty(t, summary.Balances)
	assert.Empty(t, summary.Transfers)
}

func TestSummary_ScopesAgreeWhenNothingSettled(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	// Alice and Bob split the first pot evenly, Carol sits out.
	first := newGame(t, svc, "First", "Alice", "Bob", "Carol")
	for _, p := range []string{"Alice", "Bob"} {
		_, err := svc.AddBuyIn(ctx, first, p, "50")
		require.NoError(t, err)
	}
	_, err := svc.AssignWinners(ctx, first, map[string]string{"Alice": "50", "Bob": "50"})
	require.NoError(t, err)

	// Carol takes the whole second pot.
	second := newGame(t, svc, "Second", "Alice", "Bob", "Carol")
	for p, amount := range map[string]string{"Alice": "25", "Bob": "5", "Carol": "10"} {
		_, err := svc.AddBuyIn(ctx, second, p, amount)
		require.NoError(t, err)
	}
	_, err = svc.AssignWinners(ctx, second, map[string]string{"Carol": "100"})
	require.NoError(t, err)

	all, err := svc.Summary(ctx, storage.ScopeAll)
	require.NoError(t, err)
	unsettled, err := svc.Summary(ctx, storage.ScopeUnsettled)
	require.NoError(t, err)

	assert.Equal(t, []calculator.PlayerBalance{
		{Player: "Alice", Balance: -25},
		{Player: "Bob", Balance: -5},
		{Player: "Carol", Balance: 30},
	}, all.Balances)
	assert.Len(t, all.Transfers, 2)

	assert.Equal(t, all.Balances, unsettled.Balances)
	assert.Equal(t, all.Transfers, unsettled.Transfers)
	assert.Equal(t, len(all.Games), len(unsettled.Games))
}
