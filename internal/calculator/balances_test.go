package calculator

import (
	"math"
	"testing"
)

func TestCalculateNetBalances(t *testing.T) {
	tests := []struct {
		name  string
		games []GameForBalance
		want  []PlayerBalance
	}{
		{
			name: "single game clean split",
			games: []GameForBalance{{
				Players: []string{"Alice", "Bob"},
				BuyIns: []BuyInForBalance{
					{Player: "Alice", Amount: 50.0},
					{Player: "Bob", Amount: 50.0},
				},
				Winners: []WinnerForBalance{{Player: "Alice", Percentage: 100.0}},
			}},
			want: []PlayerBalance{{"Alice", 50.0}, {"Bob", -50.0}},
		},
		{
			name: "three-way partial win",
			games: []GameForBalance{{
				Players: []string{"A", "B", "C"},
				BuyIns: []BuyInForBalance{
					{Player: "A", Amount: 20.0},
					{Player: "B", Amount: 20.0},
					{Player: "C", Amount: 20.0},
				},
				Winners: []WinnerForBalance{
					{Player: "A", Percentage: 50.0},
					{Player: "B", Percentage: 50.0},
				},
			}},
			want: []PlayerBalance{{"A", 10.0}, {"B", 10.0}, {"C", -20.0}},
		},
		{
			name: "no winners declared leaves everyone down their buy-in",
			games: []GameForBalance{{
				Players: []string{"A", "B"},
				BuyIns: []BuyInForBalance{
					{Player: "A", Amount: 15.0},
					{Player: "B", Amount: 25.0},
				},
			}},
			want: []PlayerBalance{{"A", -15.0}, {"B", -25.0}},
		},
		{
			name: "multi-game accumulation",
			games: []GameForBalance{
				{
					Players: []string{"Alice", "Bob"},
					BuyIns: []BuyInForBalance{
						{Player: "Alice", Amount: 20.0},
						{Player: "Bob", Amount: 20.0},
					},
					Winners: []WinnerForBalance{{Player: "Alice", Percentage: 100.0}},
				},
				{
					Players: []string{"Charlie", "Alice"},
					BuyIns: []BuyInForBalance{
						{Player: "Alice", Amount: 35.0},
						{Player: "Charlie", Amount: 35.0},
					},
					Winners: []WinnerForBalance{{Player: "Charlie", Percentage: 100.0}},
				},
			},
			// Alice: +20 then -35
			want: []PlayerBalance{{"Alice", -15.0}, {"Bob", -20.0}, {"Charlie", 35.0}},
		},
		{
			name: "names match exactly",
			games: []GameForBalance{
				{
					Players: []string{"alice"},
					BuyIns:  []BuyInForBalance{{Player: "alice", Amount: 5.0}},
				},
				{
					Players: []string{"Alice"},
					BuyIns:  []BuyInForBalance{{Player: "Alice", Amount: 7.0}},
				},
			},
			want: []PlayerBalance{{"alice", -5.0}, {"Alice", -7.0}},
		},
		{
			name:  "no games",
			games: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateNetBalances(tt.games)
			if len(got) != len(tt.want) {
				t.Fatalf("CalculateNetBalances() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i].Player != tt.want[i].Player {
					t.Errorf("balance %d player = %s, want %s", i, got[i].Player, tt.want[i].Player)
				}
				if math.Abs(got[i].Balance-tt.want[i].Balance) > Tolerance {
					t.Errorf("%s balance = %v, want %v", got[i].Player, got[i].Balance, tt.want[i].Balance)
				}
			}
		})
	}
}

func TestSumBalances(t *testing.T) {
	balances := []PlayerBalance{{"A", 10.5}, {"B", -4.5}, {"C", -6.0}}
	if got := SumBalances(balances); math.Abs(got) > Tolerance {
		t.Errorf("SumBalances() = %v, want 0", got)
	}
	if got := SumBalances(nil); got != 0 {
		t.Errorf("SumBalances(nil) = %v, want 0", got)
	}
}
