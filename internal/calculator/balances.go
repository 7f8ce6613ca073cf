package calculator

// PlayerBalance is a player's net position across the games in scope.
type PlayerBalance struct {
	Player  string
	Balance float64 // Positive = owed money, Negative = owes money
}

// CalculateNetBalances folds every game's per-player net into one balance per
// player name. A player appearing in several games gets a single summed
// balance.
//
// The result is ordered by first appearance: game order, then registration
// order within a game. SimplifyDebts uses that order to break ties.
func CalculateNetBalances(games []GameForBalance) []PlayerBalance {
	index := make(map[string]int)
	var balances []PlayerBalance

	for _, game := range games {
		for _, result := range CalculatePot(game).Results {
			i, exists := index[result.Player]
			if !exists {
				i = len(balances)
				index[result.Player] = i
				balances = append(balances, PlayerBalance{Player: result.Player})
			}
			balances[i].Balance += result.Net
		}
	}

	return balances
}

// SumBalances returns the total of all balances. For a closed set of games
// it is zero up to Tolerance; callers that want strict validation check it
// before simplifying.
func SumBalances(balances []PlayerBalance) float64 {
	var total float64
	for _, b := range balances {
		total += b.Balance
	}
	return total
}
