package calculator

import (
	"cmp"
	"math"
	"slices"
)

// Tolerance is the magnitude below which an amount counts as zero.
const Tolerance = 1e-6

// Transfer represents a payment one player must make to another.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

type party struct {
	player    string
	remaining float64
}

// SimplifyDebts turns net balances into pairwise transfers that settle them.
//
// Algorithm:
//   - split players into debtors (balance < -Tolerance) and creditors
//     (balance > Tolerance), both as positive magnitudes
//   - stable sort both lists ascending, so the smallest debts and credits
//     resolve first and ties keep input order
//   - walk both lists, paying min(debt, credit) each step and advancing
//     whichever side drops below Tolerance
//
// The lists are sorted once and never re-sorted after a partial match. If
// the balances do not sum to zero the walk stops when either side runs out
// and the residual goes unreported.
func SimplifyDebts(balances []PlayerBalance) []Transfer {
	var owes, owed []party
	for _, b := range balances {
		if b.Balance < -Tolerance {
			owes = append(owes, party{player: b.Player, remaining: -b.Balance})
		} else if b.Balance > Tolerance {
			owed = append(owed, party{player: b.Player, remaining: b.Balance})
		}
	}

	byRemaining := func(a, b party) int { return cmp.Compare(a.remaining, b.remaining) }
	slices.SortStableFunc(owes, byRemaining)
	slices.SortStableFunc(owed, byRemaining)

	var transfers []Transfer
	i, j := 0, 0
	for i < len(owes) && j < len(owed) {
		amount := math.Min(owes[i].remaining, owed[j].remaining)
		transfers = append(transfers, Transfer{
			From:   owes[i].player,
			To:     owed[j].player,
			Amount: amount,
		})

		owes[i].remaining -= amount
		owed[j].remaining -= amount

		if owes[i].remaining < Tolerance {
			i++
		}
		if owed[j].remaining < Tolerance {
			j++
		}
	}

	return transfers
}
