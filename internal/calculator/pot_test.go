package calculator

import (
	"math"
	"testing"
)

func TestCalculatePot(t *testing.T) {
	tests := []struct {
		name         string
		game         GameForBalance
		wantPot      float64
		validateFunc func(t *testing.T, results []PlayerResult)
	}{
		{
			name: "single winner takes the pot",
			game: GameForBalance{
				Players: []string{"Alice", "Bob"},
				BuyIns: []BuyInForBalance{
					{Player: "Alice", Amount: 50.0},
					{Player: "Bob", Amount: 50.0},
				},
				Winners: []WinnerForBalance{{Player: "Alice", Percentage: 100.0}},
			},
			wantPot: 100.0,
			validateFunc: func(t *testing.T, results []PlayerResult) {
				alice, bob := results[0], results[1]
				if math.Abs(alice.Won-100.0) > 1e-9 {
					t.Errorf("Alice won = %v, want 100.0", alice.Won)
				}
				if math.Abs(alice.Net-50.0) > 1e-9 {
					t.Errorf("Alice net = %v, want 50.0", alice.Net)
				}
				if bob.Won != 0 {
					t.Errorf("Bob won = %v, want 0", bob.Won)
				}
				if math.Abs(bob.Net+50.0) > 1e-9 {
					t.Errorf("Bob net = %v, want -50.0", bob.Net)
				}
			},
		},
		{
			name: "multiple buy-ins per player are summed",
			game: GameForBalance{
				Players: []string{"Alice", "Bob"},
				BuyIns: []BuyInForBalance{
					{Player: "Alice", Amount: 20.0},
					{Player: "Bob", Amount: 20.0},
					{Player: "Alice", Amount: 20.0},
				},
				Winners: []WinnerForBalance{{Player: "Bob", Percentage: 100.0}},
			},
			wantPot: 60.0,
			validateFunc: func(t *testing.T, results []PlayerResult) {
				if math.Abs(results[0].BoughtIn-40.0) > 1e-9 {
					t.Errorf("Alice bought in = %v, want 40.0", results[0].BoughtIn)
				}
				if math.Abs(results[1].Net-40.0) > 1e-9 {
					t.Errorf("Bob net = %v, want 40.0", results[1].Net)
				}
			},
		},
		{
			name: "no winners pays out nothing",
			game: GameForBalance{
				Players: []string{"Alice", "Bob"},
				BuyIns: []BuyInForBalance{
					{Player: "Alice", Amount: 30.0},
					{Player: "Bob", Amount: 10.0},
				},
			},
			wantPot: 40.0,
			validateFunc: func(t *testing.T, results []PlayerResult) {
				for _, r := range results {
					if r.Won != 0 {
						t.Errorf("%s won = %v, want 0", r.Player, r.Won)
					}
					if r.Net != -r.BoughtIn {
						t.Errorf("%s net = %v, want %v", r.Player, r.Net, -r.BoughtIn)
					}
				}
			},
		},
		{
			name: "registered player without buy-in or win nets zero",
			game: GameForBalance{
				Players: []string{"Alice", "Bob", "Charlie"},
				BuyIns: []BuyInForBalance{
					{Player: "Alice", Amount: 25.0},
					{Player: "Bob", Amount: 25.0},
				},
				Winners: []WinnerForBalance{{Player: "Bob", Percentage: 100.0}},
			},
			wantPot: 50.0,
			validateFunc: func(t *testing.T, results []PlayerResult) {
				if len(results) != 3 {
					t.Fatalf("results = %d, want 3", len(results))
				}
				charlie := results[2]
				if charlie.Player != "Charlie" || charlie.Net != 0 {
					t.Errorf("Charlie = %+v, want zero net", charlie)
				}
			},
		},
		{
			name: "percentages need not sum to 100",
			game: GameForBalance{
				Players: []string{"Alice", "Bob"},
				BuyIns: []BuyInForBalance{
					{Player: "Alice", Amount: 50.0},
					{Player: "Bob", Amount: 50.0},
				},
				Winners: []WinnerForBalance{{Player: "Alice", Percentage: 60.0}},
			},
			wantPot: 100.0,
			validateFunc: func(t *testing.T, results []PlayerResult) {
				if math.Abs(results[0].Net-10.0) > 1e-9 {
					t.Errorf("Alice net = %v, want 10.0", results[0].Net)
				}
				if math.Abs(results[1].Net+50.0) > 1e-9 {
					t.Errorf("Bob net = %v, want -50.0", results[1].Net)
				}
			},
		},
		{
			name: "winner not registered to the game is ignored",
			game: GameForBalance{
				Players: []string{"Alice"},
				BuyIns:  []BuyInForBalance{{Player: "Alice", Amount: 10.0}},
				Winners: []WinnerForBalance{{Player: "Ghost", Percentage: 100.0}},
			},
			wantPot: 10.0,
			validateFunc: func(t *testing.T, results []PlayerResult) {
				if len(results) != 1 {
					t.Fatalf("results = %d, want 1", len(results))
				}
				if math.Abs(results[0].Net+10.0) > 1e-9 {
					t.Errorf("Alice net = %v, want -10.0", results[0].Net)
				}
			},
		},
		{
			name:    "empty game",
			game:    GameForBalance{},
			wantPot: 0,
			validateFunc: func(t *testing.T, results []PlayerResult) {
				if len(results) != 0 {
					t.Errorf("results = %d, want 0", len(results))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePot(tt.game)
			if math.Abs(got.Pot-tt.wantPot) > 1e-9 {
				t.Errorf("CalculatePot() pot = %v, want %v", got.Pot, tt.wantPot)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, got.Results)
			}
		})
	}
}
