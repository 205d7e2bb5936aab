package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/just-nibble/bounty-service/internal/core/domain/entities"
	"github.com/just-nibble/bounty-service/internal/core/service"
	"github.com/just-nibble/bounty-service/internal/http/dtos"
	"github.com/just-nibble/bounty-service/pkg/response"
)

// CommitHandler exposes the commit graph and reward ledger over HTTP.
type CommitHandler struct {
	commits *service.CommitService
}

// NewCommitHandler creates a CommitHandler.
func NewCommitHandler(cs *service.CommitService) *CommitHandler {
	return &CommitHandler{commits: cs}
}

func (h *CommitHandler) Create(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}

	var req dtos.CreateCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "content is required")
		return
	}

	commit, err := h.commits.CreateCommit(r.Context(), from, req.Parent, req.IsFork, []byte(req.Salt), []byte(req.Content), req.Value)
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}

	log.Printf("Commit %s created by %s", commit.Hash, from)
	response.SuccessResponse(w, http.StatusCreated, dtos.NewCommitResponse(commit))
}

func (h *CommitHandler) Get(w http.ResponseWriter, r *http.Request) {
	commit, err := h.commits.GetCommit(r.Context(), r.PathValue("hash"))
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, dtos.NewCommitResponse(commit))
}

func (h *CommitHandler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}

	var req dtos.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Member == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "member is required")
		return
	}

	if err := h.commits.AddGroupMember(r.Context(), from, r.PathValue("hash"), entities.Address(req.Member)); err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, nil)
}

func (h *CommitHandler) AvailableReward(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	user := r.URL.Query().Get("user")
	if user == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "user is required")
		return
	}

	available, err := h.commits.AvailableReward(r.Context(), hash, entities.Address(user))
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}
	response.SuccessResponse(w, http.StatusOK, dtos.RewardResponse{
		CommitHash: hash,
		User:       user,
		Available:  available,
	})
}

func (h *CommitHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	from, ok := caller(r)
	if !ok {
		response.ErrorResponse(w, http.StatusUnauthorized, "caller address is required")
		return
	}

	hash := r.PathValue("hash")
	amount, err := h.commits.WithdrawAvailableReward(r.Context(), from, hash)
	if err != nil {
		response.ErrorFrom(w, err)
		return
	}

	log.Printf("User %s withdrew %d from commit %s", from, amount, hash)
	response.SuccessResponse(w, http.StatusOK, dtos.WithdrawResponse{CommitHash: hash, Amount: amount})
}
