package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/internal/core/service"
	"github.com/just-nibble/bounty-service/internal/http/dtos"
	"github.com/just-nibble/bounty-service/pkg/response"
)

// CallerHeader carries the authenticated caller's address. Authentication
// itself lives in the excluded transport layer; the handlers only thread the
// identity through.
const CallerHeader = "X-Caller-Address"

// TournamentHandler exposes the tournament lifecycle over HTTP.
type TournamentHandler struct {
	tournaments *service.TournamentService
}

// NewTournamentHandler creates a TournamentHandler.
func NewTournamentHandler(ts *service.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournaments: ts}
}

func caller(r *http.Request) (entities.Address, bool) {
	addr := r.Header.Get(CallerHeader)
	return entities.Address(addr), addr != ""
}

func tournamentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid tournament id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}

	var req dtos.CreateTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.tournaments.CreateTournament(r.Context(), from, req.Content, req.Bounty, req.EntryFee, req.Round.ToDomain())
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}

	log.Printf("Tournament %s created by %s", t.ID, from)
	response.SuccessResponse(w, http.StatusCreated, dtos.NewTournamentResponse(t, h.tournaments.Now()))
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	now := h.tournaments.Now()
	all := h.tournaments.ListTournaments(r.Context())
	out := make([]dtos.TournamentResponse, 0, len(all))
	for _, t := range all {
		out = append(out, dtos.NewTournamentResponse(t, now))
	}
	response.SuccessResponse(w, http.StatusOK, out)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	t, err := h.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, dtos.NewTournamentResponse(t, h.tournaments.Now()))
}

func (h *TournamentHandler) GetRound(w http.ResponseWriter, r *http.Request) {
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid round index")
		return
	}

	t, err := h.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}
	if index < 0 || index >= len(t.Rounds) {
		response.ErrorResponse(w, http.StatusNotFound, "round not found")
		return
	}
	response.SuccessResponse(w, http.StatusOK, dtos.NewRoundResponse(t.Rounds[index], h.tournaments.Now()))
}

func (h *TournamentHandler) Enter(w http.ResponseWriter, r *http.Request) {
	h.entrantAction(w, r, h.tournaments.Enter)
}

func (h *TournamentHandler) Exit(w http.ResponseWriter, r *http.Request) {
	h.entrantAction(w, r, h.tournaments.Exit)
}

func (h *TournamentHandler) entrantAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id uuid.UUID, caller entities.Address) error) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	if err := action(r.Context(), id, from); err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, nil)
}

func (h *TournamentHandler) AddToBounty(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	var req dtos.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.tournaments.AddToBounty(r.Context(), id, from, req.Amount); err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, nil)
}

func (h *TournamentHandler) TransferToRound(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	var req dtos.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.tournaments.TransferToRound(r.Context(), id, from, req.Amount); err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, nil)
}

func (h *TournamentHandler) UpdateNextRound(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	var req dtos.RoundData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.tournaments.UpdateNextRound(r.Context(), id, from, req.ToDomain()); err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, nil)
}

func (h *TournamentHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	var req dtos.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CommitHash == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "commit_hash is required")
		return
	}

	contributors := make([]entities.ContributorShare, 0, len(req.Contributors))
	for _, c := range req.Contributors {
		contributors = append(contributors, entities.ContributorShare{
			Member: entities.Address(c.Member),
			Weight: c.Weight,
		})
	}

	sub, err := h.tournaments.CreateSubmission(r.Context(), id, from, req.CommitHash, contributors, req.References)
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}

	log.Printf("Submission %s created in tournament %s by %s", sub.ID, id, from)
	response.SuccessResponse(w, http.StatusCreated, sub)
}

func (h *TournamentHandler) SelectWinners(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	var req dtos.SelectWinnersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.tournaments.SelectWinners(
		r.Context(), id, from,
		req.Winners, req.Weights,
		entities.SelectAction(req.Action),
		req.Ghost.ToDomain(),
	)
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, nil)
}

func (h *TournamentHandler) StartNextRound(w http.ResponseWriter, r *http.Request) {
	h.entrantAction(w, r, h.tournaments.StartNextRound)
}

func (h *TournamentHandler) CloseTournament(w http.ResponseWriter, r *http.Request) {
	h.entrantAction(w, r, h.tournaments.CloseTournament)
}

func (h *TournamentHandler) WithdrawFromAbandoned(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}
	id, ok := tournamentID(w, r)
	if !ok {
		return
	}

	amount, err := h.tournaments.WithdrawFromAbandoned(r.Context(), id, from)
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, dtos.WithdrawResponse{Amount: amount})
}

func (h *TournamentHandler) RecoverBounty(w http.ResponseWriter, r *http.Request) {
	h.entrantAction(w, r, h.tournaments.RecoverBounty)
}
