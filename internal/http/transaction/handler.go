package transaction

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/http/request"
	"github.com/fundsio/funds/internal/http/respond"
	"github.com/fundsio/funds/internal/ledger"
	"github.com/fundsio/funds/internal/transaction"
)

type Handler struct {
	svc    *transaction.Service
	ledger *ledger.Service
}

func NewHandler(svc *transaction.Service, ledger *ledger.Service) *Handler {
	return &Handler{svc: svc, ledger: ledger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	AccountID   uuid.UUID        `json:"accountId"`
	Type        transaction.Type `json:"type" validate:"required,oneof=income expense"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    string           `json:"category" validate:"max=100"`
	Description string           `json:"description" validate:"max=500"`
	Date        *request.Date    `json:"date"`
}

// writeError maps service errors to status codes. Anything unknown is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, request.ErrBadRequest):
		respond.Message(w, http.StatusBadRequest, request.Message(err))
	case errors.Is(err, transaction.ErrInvalidAmount):
		respond.Message(w, http.StatusBadRequest, "Amount must be greater than zero")
	case errors.Is(err, transaction.ErrAmountTooLarge):
		respond.Message(w, http.StatusBadRequest, "Amount must be less than 1000000000000")
	case errors.Is(err, transaction.ErrInvalidType):
		respond.Message(w, http.StatusBadRequest, "Type must be income or expense")
	case errors.Is(err, transaction.ErrMissingAccount):
		respond.Message(w, http.StatusBadRequest, "Account is required")
	case errors.Is(err, account.ErrNotFound):
		respond.Message(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, transaction.ErrNotFound):
		respond.Message(w, http.StatusNotFound, "Transaction not found")
	default:
		respond.ServerError(w, r, err)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.ledger.RecordTransaction(r.Context(), auth.OwnerID(r.Context()), transaction.CreateParams{
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date.Value(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(res.Transaction))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter transaction.ListFilter

	accountID, err := request.QueryID(r, "accountId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter.AccountID = accountID

	if s := r.URL.Query().Get("type"); s != "" {
		kind := transaction.Type(s)
		if !kind.Valid() {
			writeError(w, r, transaction.ErrInvalidType)
			return
		}

		filter.Type = &kind
	}

	if filter.StartDate, err = request.QueryDate(r, "startDate"); err != nil {
		writeError(w, r, err)
		return
	}

	if filter.EndDate, err = request.QueryEndDate(r, "endDate"); err != nil {
		writeError(w, r, err)
		return
	}

	txs, err := h.svc.List(r.Context(), auth.OwnerID(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), auth.OwnerID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

type updateTransactionRequest struct {
	Type        *transaction.Type `json:"type" validate:"omitempty,oneof=income expense"`
	Amount      *decimal.Decimal  `json:"amount"`
	Category    *string           `json:"category" validate:"omitempty,max=100"`
	Description *string           `json:"description" validate:"omitempty,max=500"`
	Date        *request.Date     `json:"date"`
}

// update edits the row only. Balances and goals are refreshed by
// POST /accounts/{id}/recompute.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := h.svc.Update(r.Context(), auth.OwnerID(r.Context()), id, transaction.UpdateParams{
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date.Ptr(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
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

	respond.Message(w, http.StatusOK, "Transaction deleted")
}
