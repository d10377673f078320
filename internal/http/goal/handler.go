package goal

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/auth"
	"github.com/fundsio/funds/internal/constraint"
	"github.com/fundsio/funds/internal/goal"
	"github.com/fundsio/funds/internal/http/request"
	"github.com/fundsio/funds/internal/http/respond"
	"github.com/fundsio/funds/internal/ledger"
)

type Handler struct {
	goals       *goal.Service
	constraints *constraint.Service
	ledger      *ledger.Service
}

func NewHandler(goals *goal.Service, constraints *constraint.Service, ledger *ledger.Service) *Handler {
	return &Handler{goals: goals, constraints: constraints, ledger: ledger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/constraints", h.listConstraints)
	r.Post("/constraints", h.createConstraint)

	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/computed", h.createComputed)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/progress", h.progress)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, request.ErrBadRequest):
		respond.Message(w, http.StatusBadRequest, request.Message(err))
	case errors.Is(err, goal.ErrInvalidName),
		errors.Is(err, goal.ErrInvalidTarget),
		errors.Is(err, goal.ErrTargetTooLarge),
		errors.Is(err, goal.ErrNoAccount),
		errors.Is(err, constraint.ErrInvalidKind),
		errors.Is(err, constraint.ErrInvalidValue),
		errors.Is(err, constraint.ErrValueTooLarge):
		respond.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, goal.ErrDuplicate):
		respond.Message(w, http.StatusBadRequest, "Goal already exists")
	case errors.Is(err, goal.ErrNotFound):
		respond.Message(w, http.StatusNotFound, "Goal not found")
	case errors.Is(err, account.ErrNotFound):
		respond.Message(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, constraint.ErrNotFound):
		respond.Message(w, http.StatusNotFound, "Constraint not found")
	default:
		respond.ServerError(w, r, err)
	}
}

func (h *Handler) listConstraints(w http.ResponseWriter, r *http.Request) {
	cs, err := h.constraints.List(r.Context(), auth.OwnerID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]constraintResponse, len(cs))
	for i, c := range cs {
		resp[i] = toConstraintResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createConstraintRequest struct {
	Type      constraint.Type `json:"type" validate:"required,oneof=min max percentage"`
	Value     decimal.Decimal `json:"value"`
	AccountID *uuid.UUID      `json:"accountId"`
}

func (h *Handler) createConstraint(w http.ResponseWriter, r *http.Request) {
	var req createConstraintRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.constraints.Create(r.Context(), auth.OwnerID(r.Context()), constraint.CreateParams{
		Type:      req.Type,
		Value:     req.Value,
		AccountID: req.AccountID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toConstraintResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accountID, err := request.QueryID(r, "accountId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	gs, err := h.goals.List(r.Context(), auth.OwnerID(r.Context()), goal.ListFilter{AccountID: accountID})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]goalResponse, len(gs))
	for i, g := range gs {
		resp[i] = toGoalResponse(g)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createGoalRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     *request.Date   `json:"deadline"`
	AccountID    uuid.UUID       `json:"accountId"`
	ConstraintID uuid.UUID       `json:"constraintId"`
}

func (req createGoalRequest) params() goal.CreateParams {
	return goal.CreateParams{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline.Ptr(),
		AccountID:    req.AccountID,
		ConstraintID: req.ConstraintID,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	g, err := h.goals.CreateWithExplicitTarget(r.Context(), auth.OwnerID(r.Context()), req.params())
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toGoalResponse(g))
}

// createComputed ignores targetAmount and derives it from the constraint.
func (h *Handler) createComputed(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	g, err := h.goals.CreateWithComputedTarget(r.Context(), auth.OwnerID(r.Context()), req.params())
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toGoalResponse(g))
}

type updateGoalRequest struct {
	Name         *string          `json:"name" validate:"omitempty,max=100"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	Deadline     *request.Date    `json:"deadline"`
	ConstraintID *uuid.UUID       `json:"constraintId"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateGoalRequest
	if err := request.Decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	g, err := h.goals.Update(r.Context(), auth.OwnerID(r.Context()), id, goal.UpdateParams{
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline.Ptr(),
		ConstraintID: req.ConstraintID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toGoalResponse(g))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.goals.Delete(r.Context(), auth.OwnerID(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Goal deleted")
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	id, err := request.ID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := h.ledger.GoalProgress(r.Context(), auth.OwnerID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, progressResponse{Goal: toGoalResponse(g), Progress: g.Progress})
}
