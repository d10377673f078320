package account_test

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
	"github.com/fundsio/funds/internal/notification"
)

func TestService_Create(t *testing.T) {
	owner := uuid.New()

	type args struct {
		params account.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *account.MockRepository)
		wantType  account.Type
		wantErr   bool
		wantErrIs error
	}

	tests := []testCase{
		{
			name: "DefaultsToDebit",
			args: args{params: account.CreateParams{Name: "Food"}},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().FindByName(gomock.Any(), owner, "Food").Return(nil, account.ErrNotFound)
				m.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, acc *account.Account) error {
						acc.ID = uuid.New()
						acc.CreatedAt = time.Now()
						return nil
					})
			},
			wantType: account.TypeDebit,
		},
		{
			name: "CreditWithBudget",
			args: args{params: account.CreateParams{
				Name:   "  Card ",
				Type:   account.TypeCredit,
				Budget: new(decimal.RequireFromString("200.004")),
			}},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().FindByName(gomock.Any(), owner, "Card").Return(nil, account.ErrNotFound)
				m.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, acc *account.Account) error {
						assert.Equal(t, "Card", acc.Name)
						require.NotNil(t, acc.Budget)
						assert.True(t, acc.Budget.Equal(decimal.NewFromInt(200)))
						acc.ID = uuid.New()
						return nil
					})
			},
			wantType: account.TypeCredit,
		},
		{
			name:      "EmptyName",
			args:      args{params: account.CreateParams{Name: "   "}},
			wantErr:   true,
			wantErrIs: account.ErrInvalidName,
		},
		{
			name:      "InvalidType",
			args:      args{params: account.CreateParams{Name: "Food", Type: "savings"}},
			wantErr:   true,
			wantErrIs: account.ErrInvalidType,
		},
		{
			name:      "NegativeBudget",
			args:      args{params: account.CreateParams{Name: "Food", Budget: new(decimal.NewFromInt(-1))}},
			wantErr:   true,
			wantErrIs: account.ErrInvalidBudget,
		},
		{
			name:      "BudgetTooLarge",
			args:      args{params: account.CreateParams{Name: "Food", Budget: new(decimal.New(1, 12))}},
			wantErr:   true,
			wantErrIs: account.ErrBudgetTooLarge,
		},
		{
			name: "LookupError",
			args: args{params: account.CreateParams{Name: "Food"}},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().FindByName(gomock.Any(), owner, "Food").Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := account.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := account.NewService(repo, account.NewMockNotifier(ctrl))
			got, err := svc.Create(context.Background(), owner, tt.args.params)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, tt.wantType, got.Type)
			assert.True(t, got.Balance.IsZero())
		})
	}
}

func TestService_Create_DuplicateNotifiesAndRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := uuid.New()
	existing := &account.Account{ID: uuid.New(), OwnerID: owner, Name: "Food", Type: account.TypeDebit}

	repo := account.NewMockRepository(ctrl)
	notifier := account.NewMockNotifier(ctrl)

	repo.EXPECT().FindByName(gomock.Any(), owner, "Food").Return(existing, nil)
	repo.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
	notifier.EXPECT().
		Emit(gomock.Any(), owner, notification.Violation{
			Message:   `Account "Food" already exists for your profile`,
			Type:      notification.TypeGeneral,
			RelatedID: existing.ID,
		}).
		Return(&notification.Notification{ID: uuid.New()}, nil)

	svc := account.NewService(repo, notifier)
	got, err := svc.Create(context.Background(), owner, account.CreateParams{Name: "Food"})

	assert.ErrorIs(t, err, account.ErrDuplicate)
	assert.Nil(t, got)
}

func TestService_Create_DuplicateNotifyFailureStillRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := uuid.New()

	repo := account.NewMockRepository(ctrl)
	notifier := account.NewMockNotifier(ctrl)

	repo.EXPECT().FindByName(gomock.Any(), owner, "Food").Return(&account.Account{ID: uuid.New(), Name: "Food"}, nil)
	notifier.EXPECT().Emit(gomock.Any(), owner, gomock.Any()).Return(nil, errors.New("db down"))

	svc := account.NewService(repo, notifier)
	_, err := svc.Create(context.Background(), owner, account.CreateParams{Name: "Food"})

	assert.ErrorIs(t, err, account.ErrDuplicate)
}

func TestService_Update(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	type testCase struct {
		name       string
		params     account.UpdateParams
		setupMock  func(m *account.MockRepository)
		wantName   string
		wantBudget *decimal.Decimal
		wantErr    error
	}

	current := func() *account.Account {
		return &account.Account{ID: id, OwnerID: owner, Name: "Food", Type: account.TypeCredit, Budget: new(decimal.NewFromInt(100))}
	}

	tests := []testCase{
		{
			name:   "RenameKeepsBudget",
			params: account.UpdateParams{Name: new("Groceries")},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().GetAccount(gomock.Any(), owner, id).Return(current(), nil)
				m.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantName:   "Groceries",
			wantBudget: new(decimal.NewFromInt(100)),
		},
		{
			name:   "ZeroBudgetClears",
			params: account.UpdateParams{Budget: new(decimal.Zero)},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().GetAccount(gomock.Any(), owner, id).Return(current(), nil)
				m.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantName: "Food",
		},
		{
			name:   "NotFound",
			params: account.UpdateParams{Name: new("X")},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().GetAccount(gomock.Any(), owner, id).Return(nil, account.ErrNotFound)
			},
			wantErr: account.ErrNotFound,
		},
		{
			name:   "NegativeBudget",
			params: account.UpdateParams{Budget: new(decimal.NewFromInt(-5))},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().GetAccount(gomock.Any(), owner, id).Return(current(), nil)
			},
			wantErr: account.ErrInvalidBudget,
		},
		{
			name:   "BudgetTooLarge",
			params: account.UpdateParams{Budget: new(decimal.RequireFromString("1000000000000.00"))},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().GetAccount(gomock.Any(), owner, id).Return(current(), nil)
			},
			wantErr: account.ErrBudgetTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := account.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := account.NewService(repo, nil)
			got, err := svc.Update(context.Background(), owner, id, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)

			if tt.wantBudget == nil {
				assert.False(t, got.HasBudget())
				return
			}

			require.NotNil(t, got.Budget)
			assert.True(t, tt.wantBudget.Equal(*got.Budget))
		})
	}
}

func TestAccount_HasBudget(t *testing.T) {
	tests := []struct {
		name   string
		budget *decimal.Decimal
		want   bool
	}{
		{name: "Nil", budget: nil, want: false},
		{name: "Zero", budget: new(decimal.Zero), want: false},
		{name: "Set", budget: new(decimal.NewFromInt(200)), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := account.Account{Budget: tt.budget}
			assert.Equal(t, tt.want, acc.HasBudget())
		})
	}
}
