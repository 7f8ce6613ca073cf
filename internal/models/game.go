package models

// Game represents a single poker night.
type Game struct {
	// ID is the unique identifier for the game (UUID format).
	ID string

	// Name is the display name of the game (e.g., "Friday Night Hold'em").
	Name string

	// Settled marks a game whose debts have been paid out.
	// Settled games are excluded from the outstanding debts view.
	Settled bool

	// CreatedAt is the Unix timestamp when the game was created.
	CreatedAt int64
}

// MaxNameLength is the longest game or player name the stores accept.
const MaxNameLength = 100

// GameDetail bundles a game with everything recorded against it.
type GameDetail struct {
	Game    *Game
	Players []*Player
	BuyIns  []*BuyIn

	// Winnings maps player name to the percentage of the pot they won.
	Winnings map[string]float64
}
