// Package models defines the core domain records for the poker night ledger.
//
// # Records
//
//   - Game: one poker night, optionally marked settled once paid out
//   - Player: a name registered to a single game
//   - BuyIn: money a player put into the game's pot
//   - Winner: the share of the pot (in percent) a player took home
//
// Players are identified by name within a game. The same name appearing in
// several games is treated as the same person when balances are aggregated.
//
// # Relationships
//
// Records reference their parents by ID rather than by pointer. Deleting a
// game removes its players, buy-ins and winners; deleting a player removes
// that player's buy-ins and winner rows. The storage layer enforces this.
package models
