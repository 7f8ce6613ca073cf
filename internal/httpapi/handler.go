package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/pokernight/internal/models"
	"github.com/mmynk/pokernight/internal/service"
	"github.com/mmynk/pokernight/internal/storage"
)

// Ledger defines the behavior needed by GameHandler.
type Ledger interface {
	CreateGame(ctx context.Context, name string) (*models.Game, error)
	GetGameDetail(ctx context.Context, gameID string) (*models.GameDetail, error)
	ListGames(ctx context.Context) (*service.GameList, error)
	DeleteGame(ctx context.Context, gameID string) error
	AddPlayer(ctx context.Context, gameID, name string) (*models.Player, bool, error)
	DeletePlayer(ctx context.Context, gameID string, playerID int64) error
	AddBuyIn(ctx context.Context, gameID, playerName, rawAmount string) (*models.BuyIn, error)
	DeleteBuyIn(ctx context.Context, gameID string, buyInID int64) error
	WinnerLookup(ctx context.Context, gameID string) (map[int64]float64, error)
	AssignWinners(ctx context.Context, gameID string, percentages map[string]string) ([]*models.Winner, error)
	SettleGame(ctx context.Context, gameID string) error
	ReactivateGame(ctx context.Context, gameID string) error
	Summary(ctx context.Context, scope storage.Scope) (*service.Summary, error)
}

// GameHandler handles game, player, buy-in and settlement requests.
type GameHandler struct {
	ledger Ledger
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(ledger Ledger) *GameHandler {
	return &GameHandler{ledger: ledger}
}

// ListGames lists active and settled games.
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	list, err := h.ledger.ListGames(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GameListResponse{
		Active:  gamesFromModels(list.Active),
		Settled: gamesFromModels(list.Settled),
	})
}

// CreateGame creates a new game.
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	game, err := h.ledger.CreateGame(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/games/"+game.ID)
	writeJSON(w, http.StatusCreated, gameFromModel(game))
}

// GetGame returns a game with its players, buy-ins and winnings.
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	detail, err := h.ledger.GetGameDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detailFromModel(detail))
}

// DeleteGame removes a game and everything recorded against it.
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddPlayer registers a player. Re-adding a name answers 200 with the
// existing player; a blank name answers 200 with a null player.
func (h *GameHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req AddPlayerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	player, created, err := h.ledger.AddPlayer(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, AddPlayerResponse{Player: playerFromModel(player), Created: created})
}

// DeletePlayer removes a player with their buy-ins and winnings.
func (h *GameHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, ok := int64Param(w, r, "playerID")
	if !ok {
		return
	}

	if err := h.ledger.DeletePlayer(r.Context(), chi.URLParam(r, "id"), playerID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddBuyIn records a buy-in for a registered player.
func (h *GameHandler) AddBuyIn(w http.ResponseWriter, r *http.Request) {
	var req AddBuyInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	buyIn, err := h.ledger.AddBuyIn(r.Context(), chi.URLParam(r, "id"), req.Player, string(req.Amount))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, buyInFromModel(buyIn))
}

// DeleteBuyIn removes a buy-in.
func (h *GameHandler) DeleteBuyIn(w http.ResponseWriter, r *http.Request) {
	buyInID, ok := int64Param(w, r, "buyinID")
	if !ok {
		return
	}

	if err := h.ledger.DeleteBuyIn(r.Context(), chi.URLParam(r, "id"), buyInID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetWinners returns the current winner percentages keyed by player ID.
func (h *GameHandler) GetWinners(w http.ResponseWriter, r *http.Request) {
	lookup, err := h.ledger.WinnerLookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, WinnersResponse{Percentages: lookup})
}

// AssignWinners replaces the winner percentages.
func (h *GameHandler) AssignWinners(w http.ResponseWriter, r *http.Request) {
	var req AssignWinnersRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	raw := make(map[string]string, len(req.Percentages))
	for name, pct := range req.Percentages {
		raw[name] = string(pct)
	}

	winners, err := h.ledger.AssignWinners(r.Context(), chi.URLParam(r, "id"), raw)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]*WinnerResponse, len(winners))
	for i, wn := range winners {
		resp[i] = &WinnerResponse{PlayerID: wn.PlayerID, Player: wn.Name, Percentage: wn.Percentage}
	}
	writeJSON(w, http.StatusOK, map[string]any{"winners": resp})
}

// Settle marks a game as paid out.
func (h *GameHandler) Settle(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.SettleGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reactivate marks a settled game active again.
func (h *GameHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.ReactivateGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary aggregates balances across every game.
func (h *GameHandler) Summary(w http.ResponseWriter, r *http.Request) {
	h.summary(w, r, storage.ScopeAll)
}

// Debts aggregates balances across unsettled games only.
func (h *GameHandler) Debts(w http.ResponseWriter, r *http.Request) {
	h.summary(w, r, storage.ScopeUnsettled)
}

func (h *GameHandler) summary(w http.ResponseWriter, r *http.Request, scope storage.Scope) {
	summary, err := h.ledger.Summary(r.Context(), scope)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryFromService(summary))
}
