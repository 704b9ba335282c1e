package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator"
	"github.com/rs/zerolog/log"

	"livepoll/internal/models"
	"livepoll/internal/polls"
	utilityhttp "livepoll/internal/utility/http"
)

// PollHandler serves the REST CRUD surface over the poll store.
type PollHandler struct {
	store    polls.Store
	validate *validator.Validate
}

func NewPollHandler(store polls.Store) *PollHandler {
	return &PollHandler{
		store:    store,
		validate: validator.New(),
	}
}

// CreatePoll handles POST /api
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilityhttp.RespondError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utilityhttp.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	poll, err := h.store.Create(r.Context(), req)
	if err != nil {
		utilityhttp.RespondError(w, http.StatusInternalServerError, "failed to create poll", err)
		return
	}

	log.Info().Str("poll_id", poll.ID.Hex()).Str("teacher", poll.TeacherUserName).Msg("poll created")
	utilityhttp.RespondJSON(w, http.StatusCreated, poll)
}

// PollsByOwner handles GET /api/{username}
func (h *PollHandler) PollsByOwner(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	result, err := h.store.ByOwner(r.Context(), username)
	if err != nil {
		utilityhttp.RespondError(w, http.StatusInternalServerError, "failed to fetch polls", err)
		return
	}
	utilityhttp.RespondJSON(w, http.StatusOK, result)
}

// PollHistory handles GET /api/polls/{username}. Polls carry a single owner
// field, so history is the same query as PollsByOwner.
func (h *PollHandler) PollHistory(w http.ResponseWriter, r *http.Request) {
	h.PollsByOwner(w, r)
}

// PollByID handles GET /api/poll/{id}
func (h *PollHandler) PollByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	poll, err := h.store.ByID(r.Context(), id)
	if errors.Is(err, polls.ErrNotFound) {
		utilityhttp.RespondError(w, http.StatusNotFound, "poll not found", nil)
		return
	}
	if err != nil {
		utilityhttp.RespondError(w, http.StatusInternalServerError, "failed to fetch poll", err)
		return
	}
	utilityhttp.RespondJSON(w, http.StatusOK, poll)
}

// Vote handles POST /api/vote
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilityhttp.RespondError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utilityhttp.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	poll, err := h.store.IncrementVote(r.Context(), req.PollID, req.OptionID)
	if errors.Is(err, polls.ErrNotFound) {
		utilityhttp.RespondError(w, http.StatusNotFound, "poll or option not found", nil)
		return
	}
	if err != nil {
		utilityhttp.RespondError(w, http.StatusInternalServerError, "failed to record vote", err)
		return
	}

	log.Info().Str("poll_id", req.PollID).Int("option_id", req.OptionID).Msg("vote recorded")
	utilityhttp.RespondJSON(w, http.StatusOK, poll)
}
