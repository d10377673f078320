package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundsio/funds/internal/account"
)

type accountResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Type      account.Type     `json:"type"`
	Budget    *decimal.Decimal `json:"budget"`
	Balance   decimal.Decimal  `json:"balance"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt *time.Time       `json:"updatedAt,omitempty"`
}

func toResponse(acc *account.Account) accountResponse {
	return accountResponse{
		ID:        acc.ID,
		Name:      acc.Name,
		Type:      acc.Type,
		Budget:    acc.Budget,
		Balance:   acc.Balance,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

func toResponseList(accs []*account.Account) []accountResponse {
	resp := make([]accountResponse, len(accs))
	for i, acc := range accs {
		resp[i] = toResponse(acc)
	}

	return resp
}

type recomputeResponse struct {
	Account       accountResponse `json:"account"`
	Notifications int             `json:"notifications"`
}
