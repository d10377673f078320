package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/constraint"
	"github.com/fundsio/funds/internal/goal"
)

type goalResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     *time.Time      `json:"deadline"`
	AccountID    *uuid.UUID      `json:"accountId"`
	ConstraintID uuid.UUID       `json:"constraintId"`
	Progress     decimal.Decimal `json:"progress"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
}

func toGoalResponse(g *goal.Goal) goalResponse {
	return goalResponse{
		ID:           g.ID,
		Name:         g.Name,
		TargetAmount: g.TargetAmount,
		Deadline:     g.Deadline,
		AccountID:    g.AccountID,
		ConstraintID: g.ConstraintID,
		Progress:     g.Progress,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

type progressResponse struct {
	Goal     goalResponse    `json:"goal"`
	Progress decimal.Decimal `json:"progress"`
}

type constraintResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      constraint.Type `json:"type"`
	Value     decimal.Decimal `json:"value"`
	AccountID *uuid.UUID      `json:"accountId"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toConstraintResponse(c *constraint.Constraint) constraintResponse {
	return constraintResponse{
		ID:        c.ID,
		Type:      c.Type,
		Value:     c.Value,
		AccountID: c.AccountID,
		CreatedAt: c.CreatedAt,
	}
}
