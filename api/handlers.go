package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ebubechi-ihediwa/StellarCade/auth"
	"github.com/ebubechi-ihediwa/StellarCade/fairness"
	"github.com/ebubechi-ihediwa/StellarCade/models"
)

type depositRequest struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

type withdrawRequest struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

type playRequest struct {
	Player     string `json:"player"`
	Stake      int64  `json:"stake"`
	Choice     string `json:"choice"`
	ClientSeed string `json:"client_seed"`
}

type resolveRequest struct {
	ServerSeed string `json:"server_seed"`
}

type setFeeRequest struct {
	Bps int64 `json:"bps"`
}

type balanceResponse struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

type playResponse struct {
	GameID int64 `json:"game_id"`
}

type gameResponse struct {
	GameID             int64   `json:"game_id"`
	Player             string  `json:"player"`
	Stake              int64   `json:"stake"`
	Choice             string  `json:"choice"`
	ClientSeed         string  `json:"client_seed"`
	Nonce              int64   `json:"nonce"`
	CommitHash         string  `json:"commit_hash"`
	ServerSeedRevealed *string `json:"server_seed_revealed,omitempty"`
	Outcome            *string `json:"outcome,omitempty"`
	Status             string  `json:"status"`
	PayoutDelta        *int64  `json:"payout_delta,omitempty"`
}

type verifyResponse struct {
	GameID int64 `json:"game_id"`
	Valid  bool  `json:"valid"`
}

type ledgerEntryResponse struct {
	ID           int64   `json:"id"`
	Amount       int64   `json:"amount"`
	BalanceAfter int64   `json:"balance_after"`
	EntryType    string  `json:"entry_type"`
	GameID       *int64  `json:"game_id,omitempty"`
	TransferRef  *string `json:"transfer_ref,omitempty"`
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func gameIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid game id")
	}
	return id, nil
}

func toGameResponse(result *models.GameResult) gameResponse {
	resp := gameResponse{
		GameID:             result.GameID,
		Player:             result.Player,
		Stake:              result.Stake,
		Choice:             string(result.Choice),
		ClientSeed:         result.ClientSeed,
		Nonce:              result.Nonce,
		CommitHash:         result.CommitHash,
		ServerSeedRevealed: result.ServerSeedRevealed,
		Status:             string(result.Status),
		PayoutDelta:        result.PayoutDelta,
	}
	if result.Outcome != nil {
		outcome := string(*result.Outcome)
		resp.Outcome = &outcome
	}
	return resp
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	acct, err := s.ledgerService.Deposit(r.Context(), req.Account, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, balanceResponse{Account: acct.ID, Balance: acct.Balance})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	caller := auth.IdentityFromContext(r.Context())
	acct, err := s.ledgerService.Withdraw(r.Context(), caller, req.Account, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, balanceResponse{Account: acct.ID, Balance: acct.Balance})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	balance, err := s.ledgerService.GetBalance(r.Context(), account)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, balanceResponse{Account: account, Balance: balance})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := s.ledgerService.History(r.Context(), account, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]ledgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, ledgerEntryResponse{
			ID:           entry.ID,
			Amount:       entry.Amount,
			BalanceAfter: entry.BalanceAfter,
			EntryType:    string(entry.EntryType),
			GameID:       entry.GameID,
			TransferRef:  entry.TransferRef,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	gameID, err := s.gameService.Play(r.Context(), req.Player, req.Stake, models.CoinSide(req.Choice), req.ClientSeed)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, playResponse{GameID: gameID})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req resolveRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	seed, err := fairness.DecodeSeed(req.ServerSeed)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	caller := auth.IdentityFromContext(r.Context())
	result, err := s.gameService.Resolve(r.Context(), caller, gameID, seed)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toGameResponse(result))
}

func (s *Server) handleVoid(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	caller := auth.IdentityFromContext(r.Context())
	if err := s.gameService.VoidGame(r.Context(), caller, gameID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "voided"})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.gameService.GetGameResult(r.Context(), gameID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toGameResponse(result))
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	seed, err := fairness.DecodeSeed(r.URL.Query().Get("server_seed"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	valid, err := s.gameService.VerifyGame(r.Context(), gameID, seed)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, verifyResponse{GameID: gameID, Valid: valid})
}

func (s *Server) handleSetFee(w http.ResponseWriter, r *http.Request) {
	var req setFeeRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	caller := auth.IdentityFromContext(r.Context())
	if err := s.ledgerService.SetFee(r.Context(), caller, req.Bps); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"bps": req.Bps})
}

func (s *Server) handleAccruedFees(w http.ResponseWriter, r *http.Request) {
	fees, err := s.ledgerService.AccruedFees(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"fees_accrued": fees})
}
