package models

// Player is a participant registered to one game.
type Player struct {
	// ID is assigned by the store.
	ID int64

	// GameID is the game this player is registered to.
	GameID string

	// Name identifies the player. Names are unique within a game and matched
	// exactly (no case folding) across games.
	Name string
}

// BuyIn records money a player contributed to a game's pot.
type BuyIn struct {
	ID       int64
	GameID   string
	PlayerID int64

	// PlayerName is joined from the players table on read.
	PlayerName string

	Amount float64
}

// DefaultWinnerPercentage is used when a winner row is stored without an
// explicit share.
const DefaultWinnerPercentage = 100.0

// Winner records the share of the pot a player won.
// Percentages across a game's winners need not sum to 100.
type Winner struct {
	ID         int64
	GameID     string
	PlayerID   int64
	Name       string
	Percentage float64
}
