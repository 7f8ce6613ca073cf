package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/pokernight/internal/calculator"
	"github.com/mmynk/pokernight/internal/models"
	"github.com/mmynk/pokernight/internal/report"
	"github.com/mmynk/pokernight/internal/service"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NumberText accepts either a JSON string or a JSON number and keeps its
// text for the service layer to parse.
type NumberText string

// UnmarshalJSON accepts a string, a number or null.
func (n *NumberText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberText(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("expected a number or string, got %s", data)
		}
		*n = NumberText(num.String())
	}
	return nil
}

// CreateGameRequest is the body of POST /api/v1/games.
type CreateGameRequest struct {
	Name string `json:"name"`
}

// AddPlayerRequest is the body of POST /api/v1/games/{id}/players.
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// AddBuyInRequest is the body of POST /api/v1/games/{id}/buyins.
type AddBuyInRequest struct {
	Player string     `json:"player"`
	Amount NumberText `json:"amount"`
}

// AssignWinnersRequest maps player name to percentage of the pot.
type AssignWinnersRequest struct {
	Percentages map[string]NumberText `json:"percentages"`
}

// GameResponse is a game as listed and returned on creation.
type GameResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Settled   bool      `json:"settled"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerResponse is a player registered to a game.
type PlayerResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AddPlayerResponse reports the player and whether it was newly created.
type AddPlayerResponse struct {
	Player  *PlayerResponse `json:"player"`
	Created bool            `json:"created"`
}

// BuyInResponse is one recorded buy-in.
type BuyInResponse struct {
	ID       int64   `json:"id"`
	PlayerID int64   `json:"player_id"`
	Player   string  `json:"player"`
	Amount   float64 `json:"amount"`
}

// WinnerResponse is one stored winner allocation.
type WinnerResponse struct {
	PlayerID   int64   `json:"player_id"`
	Player     string  `json:"player"`
	Percentage float64 `json:"percentage"`
}

// GameDetailResponse is a game with its players, buy-ins and winnings.
type GameDetailResponse struct {
	Game     *GameResponse      `json:"game"`
	Players  []*PlayerResponse  `json:"players"`
	BuyIns   []*BuyInResponse   `json:"buyins"`
	Winnings map[string]float64 `json:"winnings"`
}

// GameListResponse splits games by settlement state.
type GameListResponse struct {
	Active  []*GameResponse `json:"active"`
	Settled []*GameResponse `json:"settled"`
}

// WinnersResponse is the body of GET /api/v1/games/{id}/winners.
type WinnersResponse struct {
	// Percentages is keyed by player ID.
	Percentages map[int64]float64 `json:"percentages"`
}

// BalanceResponse is one player's net balance.
type BalanceResponse struct {
	Player  string  `json:"player"`
	Balance float64 `json:"balance"`
}

// TransferResponse is one payment that settles balances.
type TransferResponse struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Amount  float64 `json:"amount"`
	Display string  `json:"display"`
}

// SummaryResponse is the body of /api/v1/summary and /api/v1/debts.
type SummaryResponse struct {
	Scope     string              `json:"scope"`
	Games     []*GameResponse     `json:"games"`
	Balances  []*BalanceResponse  `json:"balances"`
	Transfers []*TransferResponse `json:"transfers"`
}

func gameFromModel(g *models.Game) *GameResponse {
	return &GameResponse{
		ID:        g.ID,
		Name:      g.Name,
		Settled:   g.Settled,
		CreatedAt: time.Unix(g.CreatedAt, 0).UTC(),
	}
}

func gamesFromModels(games []*models.Game) []*GameResponse {
	result := make([]*GameResponse, len(games))
	for i, g := range games {
		result[i] = gameFromModel(g)
	}
	return result
}

func playerFromModel(p *models.Player) *PlayerResponse {
	if p == nil {
		return nil
	}
	return &PlayerResponse{ID: p.ID, Name: p.Name}
}

func buyInFromModel(b *models.BuyIn) *BuyInResponse {
	return &BuyInResponse{
		ID:       b.ID,
		PlayerID: b.PlayerID,
		Player:   b.PlayerName,
		Amount:   b.Amount,
	}
}

func detailFromModel(d *models.GameDetail) *GameDetailResponse {
	resp := &GameDetailResponse{
		Game:     gameFromModel(d.Game),
		Players:  make([]*PlayerResponse, len(d.Players)),
		BuyIns:   make([]*BuyInResponse, len(d.BuyIns)),
		Winnings: d.Winnings,
	}
	for i, p := range d.Players {
		resp.Players[i] = playerFromModel(p)
	}
	for i, b := range d.BuyIns {
		resp.BuyIns[i] = buyInFromModel(b)
	}
	return resp
}

func summaryFromService(s *service.Summary) *SummaryResponse {
	resp := &SummaryResponse{
		Scope:     s.Scope.String(),
		Games:     gamesFromModels(s.Games),
		Balances:  make([]*BalanceResponse, len(s.Balances)),
		Transfers: make([]*TransferResponse, len(s.Transfers)),
	}
	for i, b := range s.Balances {
		resp.Balances[i] = &BalanceResponse{Player: b.Player, Balance: b.Balance}
	}
	for i, t := range s.Transfers {
		resp.Transfers[i] = transferFromCalculator(t)
	}
	return resp
}

func transferFromCalculator(t calculator.Transfer) *TransferResponse {
	return &TransferResponse{
		From:    t.From,
		To:      t.To,
		Amount:  t.Amount,
		Display: report.DebtLine(t),
	}
}
