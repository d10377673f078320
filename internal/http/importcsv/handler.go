package importcsv

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/http/request"
	"github.com/fundsio/funds/internal/http/respond"
	"github.com/fundsio/funds/internal/importer"
	"github.com/fundsio/funds/internal/ledger"
	"github.com/fundsio/funds/internal/matching"
	"github.com/fundsio/funds/internal/transaction"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
	matchSvc  *matching.Service
	ledger    *ledger.Service
}

func NewHandler(importSvc *importer.Service, matchSvc *matching.Service, ledger *ledger.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		matchSvc:  matchSvc,
		ledger:    ledger,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	AccountID   uuid.UUID        `json:"accountId"`
	Type        transaction.Type `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type rowDTO struct {
	Type        transaction.Type `json:"type" validate:"required,oneof=income expense"`
	Amount      decimal.Decimal  `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
}

type conflictDTO struct {
	Incoming rowDTO              `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importSuccessResponse struct {
	Imported      int                   `json:"imported"`
	Transactions  []transactionResponse `json:"transactions"`
	Balance       decimal.Decimal       `json:"balance"`
	Notifications int                   `json:"notifications"`
}

type importConflictResponse struct {
	New       []rowDTO      `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type confirmRequest struct {
	AccountID uuid.UUID `json:"accountId"`
	Rows      []rowDTO  `json:"rows" validate:"required,min=1,dive"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, request.ErrBadRequest):
		respond.Message(w, http.StatusBadRequest, request.Message(err))
	case errors.Is(err, importer.ErrUnknownBank),
		errors.Is(err, importer.ErrMalformed),
		errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrAmountTooLarge),
		errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrMissingAccount):
		respond.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrNotFound):
		respond.Message(w, http.StatusNotFound, "Account not found")
	default:
		respond.ServerError(w, r, err)
	}
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		respond.Message(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		respond.Message(w, http.StatusBadRequest, "bank field is required")
		return
	}

	accountID, err := uuid.Parse(r.FormValue("accountId"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "accountId field is required")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	ownerID := auth.OwnerID(r.Context())

	rows, err := h.importSvc.Import(bank, accountID, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.matchSvc.Categorize(r.Context(), ownerID, rows); err != nil {
		slog.WarnContext(r.Context(), "category suggestions unavailable", "error", err)
	}

	result, err := h.ledger.ImportBatch(r.Context(), ownerID, accountID, rows, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]rowDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}

		for _, p := range result.New {
			resp.New = append(resp.New, toRowDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toRowDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result))
}

// confirmImport inserts rows the client reviewed after a conflict, without
// checking for duplicates again.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	rows := make([]transaction.CreateParams, 0, len(req.Rows))
	for _, p := range req.Rows {
		rows = append(rows, transaction.CreateParams{
			AccountID:   req.AccountID,
			Type:        p.Type,
			Amount:      p.Amount,
			Category:    p.Category,
			Description: p.Description,
			Date:        p.Date,
		})
	}

	result, err := h.ledger.ImportBatch(r.Context(), auth.OwnerID(r.Context()), req.AccountID, rows, true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result))
}

func toSuccessResponse(res *ledger.ImportResult) importSuccessResponse {
	txs := make([]transactionResponse, 0, len(res.Imported))
	for _, tx := range res.Imported {
		txs = append(txs, toTxResponse(tx))
	}

	resp := importSuccessResponse{
		Imported:      len(res.Imported),
		Transactions:  txs,
		Notifications: len(res.Notifications),
	}

	if res.Account != nil {
		resp.Balance = res.Account.Balance
	}

	return resp
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Type:        tx.Type,
		Amount:      tx.Amount,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		CreatedAt:   tx.CreatedAt,
	}
}

func toRowDTO(p transaction.CreateParams) rowDTO {
	return rowDTO{
		Type:        p.Type,
		Amount:      p.Amount,
		Category:    p.Category,
		Description: p.Description,
		Date:        p.Date,
	}
}
