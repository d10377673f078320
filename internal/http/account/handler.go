package account

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/http/request"
	"github.com/fundsio/funds/internal/http/respond"
	"github.com/fundsio/funds/internal/ledger"
)

type Handler struct {
	svc    *account.Service
	ledger *ledger.Service
}

func NewHandler(svc *account.Service, ledger *ledger.Service) *Handler {
	return &Handler{svc: svc, ledger: ledger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/recompute", h.recompute)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, request.ErrBadRequest):
		respond.Message(w, http.StatusBadRequest, request.Message(err))
	case errors.Is(err, account.ErrInvalidName),
		errors.Is(err, account.ErrInvalidType),
		errors.Is(err, account.ErrInvalidBudget),
		errors.Is(err, account.ErrBudgetTooLarge):
		respond.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrDuplicate):
		respond.Message(w, http.StatusBadRequest, "Account already exists")
	case errors.Is(err, account.ErrNotFound):
		respond.Message(w, http.StatusNotFound, "Account not found")
	default:
		respond.ServerError(w, r, err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accs, err := h.svc.List(r.Context(), auth.OwnerID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(accs))
}

type createAccountRequest struct {
	Name   string           `json:"name" validate:"required,max=100"`
	Type   account.Type     `json:"type" validate:"omitempty,oneof=credit debit"`
	Budget *decimal.Decimal `json:"budget"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	acc, err := h.svc.Create(r.Context(), auth.OwnerID(r.Context()), account.CreateParams{
		Name:   req.Name,
		Type:   req.Type,
		Budget: req.Budget,
	})
	if errors.Is(err, account.ErrDuplicate) {
		respond.Message(w, http.StatusBadRequest, fmt.Sprintf("Account %q already exists", strings.TrimSpace(req.Name)))
		return
	}

	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(acc))
}

type updateAccountRequest struct {
	Name   *string          `json:"name" validate:"omitempty,max=100"`
	Budget *decimal.Decimal `json:"budget"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateAccountRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	acc, err := h.svc.Update(r.Context(), auth.OwnerID(r.Context()), id, account.UpdateParams{
		Name:   req.Name,
		Budget: req.Budget,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(acc))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), auth.OwnerID(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Account deleted")
}

// recompute rebuilds the cached balance and goal progress after
// transactions were edited or deleted.
func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.ledger.RecomputeAccount(r.Context(), auth.OwnerID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, recomputeResponse{
		Account:       toResponse(res.Account),
		Notifications: len(res.Notifications),
	})
}
