package matching

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/http/request"
	"github.com/fundsio/funds/internal/http/respond"
	"github.com/fundsio/funds/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := strings.TrimSpace(r.URL.Query().Get("description"))
	if desc == "" {
		respond.Message(w, http.StatusBadRequest, "description query parameter is required")
		return
	}

	category, err := h.svc.Suggest(r.Context(), auth.OwnerID(r.Context()), desc)
	if err != nil {
		respond.ServerError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Description: desc, Category: category})
}

type learnRequest struct {
	Pattern  string `json:"pattern" validate:"required"`
	Category string `json:"category" validate:"required"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := request.Decode(r, &req); err != nil {
		respond.Message(w, http.StatusBadRequest, request.Message(err))
		return
	}

	err := h.svc.Learn(r.Context(), auth.OwnerID(r.Context()), req.Pattern, req.Category)

	switch {
	case errors.Is(err, matching.ErrInvalidInput):
		respond.Message(w, http.StatusBadRequest, err.Error())
	case err != nil:
		respond.ServerError(w, r, err)
	default:
		respond.Message(w, http.StatusCreated, "Mapping saved")
	}
}
