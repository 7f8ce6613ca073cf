package calculator

// BuyInForBalance is one buy-in with the minimal information needed for balance calculations.
type BuyInForBalance struct {
	Player string
	Amount float64
}

// WinnerForBalance is one winner allocation: the percentage of the pot a player takes.
type WinnerForBalance struct {
	Player     string
	Percentage float64
}

// GameForBalance represents a game with the minimal information needed for balance calculations.
type GameForBalance struct {
	Players []string // Everyone registered to the game, in registration order
	BuyIns  []BuyInForBalance
	Winners []WinnerForBalance
}

// PlayerResult is one player's outcome for a single game.
type PlayerResult struct {
	Player   string
	BoughtIn float64
	Won      float64
	Net      float64 // Won - BoughtIn
}

// PotResult is the outcome of a single game.
type PotResult struct {
	Pot     float64
	Results []PlayerResult // One per registered player, in registration order
}

// CalculatePot works out what each registered player bought in, won and
// netted in one game.
//
// Algorithm:
//   - pot = sum of every player's buy-in total
//   - won = percentage / 100 × pot, but only if the game has any winner
//     allocation at all; a game without winners pays out nothing
//   - net = won - bought in
func CalculatePot(game GameForBalance) PotResult {
	buyInTotals := make(map[string]float64)
	var buyInOrder []string
	for _, b := range game.BuyIns {
		if _, seen := buyInTotals[b.Player]; !seen {
			buyInOrder = append(buyInOrder, b.Player)
		}
		buyInTotals[b.Player] += b.Amount
	}

	// pot is summed over per-player totals, in first buy-in order
	var pot float64
	for _, player := range buyInOrder {
		pot += buyInTotals[player]
	}

	// Later rows win if a name appears twice
	winnings := make(map[string]float64, len(game.Winners))
	for _, w := range game.Winners {
		winnings[w.Player] = w.Percentage
	}

	results := make([]PlayerResult, 0, len(game.Players))
	for _, player := range game.Players {
		var won float64
		if len(winnings) > 0 {
			won = (winnings[player] / 100) * pot
		}
		boughtIn := buyInTotals[player]
		results = append(results, PlayerResult{
			Player:   player,
			BoughtIn: boughtIn,
			Won:      won,
			Net:      won - boughtIn,
		})
	}

	return PotResult{Pot: pot, Results: results}
}
