package constraint_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/constraint"
)

func TestService_Create(t *testing.T) {
	owner := uuid.New()
	scoped := uuid.New()

	type testCase struct {
		name      string
		params    constraint.CreateParams
		setupMock func(repo *constraint.MockRepository, accounts *constraint.MockAccountReader)
		wantErr   bool
		wantErrIs error
		wantScope *uuid.UUID
	}

	tests := []testCase{
		{
			name:   "Min",
			params: constraint.CreateParams{Type: constraint.TypeMin, Value: decimal.NewFromInt(200)},
			setupMock: func(repo *constraint.MockRepository, _ *constraint.MockAccountReader) {
				repo.EXPECT().
					CreateConstraint(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *constraint.Constraint) error {
						c.ID = uuid.New()
						c.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:   "NilAccountIDMeansUnscoped",
			params: constraint.CreateParams{Type: constraint.TypeMax, Value: decimal.NewFromInt(5), AccountID: new(uuid.Nil)},
			setupMock: func(repo *constraint.MockRepository, _ *constraint.MockAccountReader) {
				repo.EXPECT().CreateConstraint(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "ScopedToOwnedAccount",
			params: constraint.CreateParams{Type: constraint.TypePercentage, Value: decimal.NewFromInt(25), AccountID: &scoped},
			setupMock: func(repo *constraint.MockRepository, accounts *constraint.MockAccountReader) {
				accounts.EXPECT().GetAccount(gomock.Any(), owner, scoped).Return(&account.Account{ID: scoped, OwnerID: owner}, nil)
				repo.EXPECT().CreateConstraint(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantScope: &scoped,
		},
		{
			name:   "ScopedToForeignAccount",
			params: constraint.CreateParams{Type: constraint.TypePercentage, Value: decimal.NewFromInt(25), AccountID: &scoped},
			setupMock: func(_ *constraint.MockRepository, accounts *constraint.MockAccountReader) {
				accounts.EXPECT().GetAccount(gomock.Any(), owner, scoped).Return(nil, account.ErrNotFound)
			},
			wantErr:   true,
			wantErrIs: account.ErrNotFound,
		},
		{
			name:      "UnknownKind",
			params:    constraint.CreateParams{Type: "ratio", Value: decimal.NewFromInt(1)},
			wantErr:   true,
			wantErrIs: constraint.ErrInvalidKind,
		},
		{
			name:      "NegativeValue",
			params:    constraint.CreateParams{Type: constraint.TypeMin, Value: decimal.NewFromInt(-1)},
			wantErr:   true,
			wantErrIs: constraint.ErrInvalidValue,
		},
		{
			name:      "ValueTooLarge",
			params:    constraint.CreateParams{Type: constraint.TypeMax, Value: decimal.New(1, 12)},
			wantErr:   true,
			wantErrIs: constraint.ErrValueTooLarge,
		},
		{
			name:   "RepoError",
			params: constraint.CreateParams{Type: constraint.TypeMin, Value: decimal.NewFromInt(1)},
			setupMock: func(repo *constraint.MockRepository, _ *constraint.MockAccountReader) {
				repo.EXPECT().CreateConstraint(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := constraint.NewMockRepository(ctrl)
			accounts := constraint.NewMockAccountReader(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, accounts)
			}

			svc := constraint.NewService(repo, accounts)
			got, err := svc.Create(context.Background(), owner, tt.params)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, owner, got.OwnerID)
			assert.Equal(t, tt.params.Type, got.Type)
			assert.Equal(t, tt.wantScope, got.AccountID)
		})
	}
}
