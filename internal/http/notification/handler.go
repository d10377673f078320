package notification

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/http/request"
	"github.com/fundsio/funds/internal/http/respond"
	"github.com/fundsio/funds/internal/notification"
)

type Handler struct {
	svc *notification.Service
}

func NewHandler(svc *notification.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the REST endpoints. The WebSocket endpoint is mounted
// separately because it authenticates from the query string.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/{id}/read", h.markRead)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ns, err := h.svc.List(r.Context(), auth.OwnerID(r.Context()))
	if err != nil {
		respond.ServerError(w, r, err)
		return
	}

	resp := make([]notification.Payload, len(ns))
	for i, n := range ns {
		resp[i] = notification.NewPayload(n)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, request.Message(err))
		return
	}

	n, err := h.svc.MarkRead(r.Context(), auth.OwnerID(r.Context()), id)
	if errors.Is(err, notification.ErrNotFound) {
		respond.Message(w, http.StatusNotFound, "Notification not found")
		return
	}

	if err != nil {
		respond.ServerError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, notification.NewPayload(n))
}
