package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fundsio/funds/internal/account"
	"github.com/fundsio/funds/internal/constraint"
	"github.com/fundsio/funds/internal/goal"
	"github.com/fundsio/funds/internal/ledger"
	"github.com/fundsio/funds/internal/notification"
	"github.com/fundsio/funds/internal/transaction"
)

func income(accountID uuid.UUID, amount string) transaction.CreateParams {
	return transaction.CreateParams{AccountID: accountID, Type: transaction.TypeIncome, Amount: d(amount)}
}

func expense(accountID uuid.UUID, amount string) transaction.CreateParams {
	return transaction.CreateParams{AccountID: accountID, Type: transaction.TypeExpense, Amount: d(amount)}
}

func TestService_RecordTransaction_BudgetExceeded(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := ledger.NewService(store, store, pub)

	food := store.addAccount(owner, "Food", account.TypeDebit, new(d("200")))

	res, err := svc.RecordTransaction(context.Background(), owner, income(food.ID, "250"))
	require.NoError(t, err)

	require.NotNil(t, res.Transaction)
	assert.NotEqual(t, uuid.Nil, res.Transaction.ID)
	assert.Equal(t, "Food", res.Transaction.AccountName)
	assert.Equal(t, "250.00", res.Account.Balance.StringFixed(2))
	assert.Equal(t, "250.00", store.balance(food.ID).StringFixed(2))

	require.Len(t, res.Notifications, 1)
	n := res.Notifications[0]
	assert.Equal(t, "Budget exceeded for Food! Total: $250, Budget: $200", n.Message)
	assert.Equal(t, notification.TypeBudget, n.Type)
	require.NotNil(t, n.RelatedID)
	assert.Equal(t, food.ID, *n.RelatedID)
	assert.False(t, n.Read)

	assert.Len(t, store.storedNotifications(), 1)
	assert.Equal(t, res.Notifications, pub.published())
}

func TestService_RecordTransaction_MinConstraintScenario(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := ledger.NewService(store, store, pub)

	acc := store.addAccount(owner, "Brokerage", account.TypeDebit, nil)
	minC := store.addConstraint(owner, constraint.TypeMin, "200", nil)
	investing := store.addGoal(owner, "Investing", "500", &acc.ID, minC.ID)

	res, err := svc.RecordTransaction(context.Background(), owner, income(acc.ID, "150"))
	require.NoError(t, err)

	assert.Equal(t, "150.00", store.progress(investing.ID).StringFixed(2))
	require.Len(t, res.Goals, 1)
	assert.Equal(t, "150.00", res.Goals[0].Progress.StringFixed(2))
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, "Investing progress ($150) below min constraint ($200)", res.Notifications[0].Message)
	assert.Equal(t, notification.TypeGoal, res.Notifications[0].Type)
	assert.Equal(t, investing.ID, *res.Notifications[0].RelatedID)

	res, err = svc.RecordTransaction(context.Background(), owner, income(acc.ID, "100"))
	require.NoError(t, err)

	assert.Equal(t, "250.00", store.progress(investing.ID).StringFixed(2))
	assert.Empty(t, res.Notifications)
	assert.Len(t, store.storedNotifications(), 1)
	assert.Len(t, pub.published(), 1)
}

func TestService_RecordTransaction_CreditAccountCountsExpenses(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc := ledger.NewService(store, store, nil)

	card := store.addAccount(owner, "Card", account.TypeCredit, new(d("100")))

	_, err := svc.RecordTransaction(context.Background(), owner, income(card.ID, "500"))
	require.NoError(t, err)
	assert.True(t, store.balance(card.ID).IsZero())

	res, err := svc.RecordTransaction(context.Background(), owner, expense(card.ID, "60"))
	require.NoError(t, err)
	assert.Equal(t, "60.00", res.Account.Balance.StringFixed(2))
	assert.Empty(t, res.Notifications)

	res, err = svc.RecordTransaction(context.Background(), owner, expense(card.ID, "50"))
	require.NoError(t, err)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, "Budget exceeded for Card! Total: $110, Budget: $100", res.Notifications[0].Message)
}

func TestService_RecordTransaction_PercentageScopedToOtherAccount(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc := ledger.NewService(store, store, nil)

	salary := store.addAccount(owner, "Salary", account.TypeDebit, nil)
	savings := store.addAccount(owner, "Savings", account.TypeDebit, nil)
	pct := store.addConstraint(owner, constraint.TypePercentage, "25", &salary.ID)
	g := store.addGoal(owner, "Rainy day", "1000", &savings.ID, pct.ID)

	_, err := svc.RecordTransaction(context.Background(), owner, income(salary.ID, "100"))
	require.NoError(t, err)

	res, err := svc.RecordTransaction(context.Background(), owner, income(savings.ID, "30"))
	require.NoError(t, err)

	require.Len(t, res.Notifications, 1)
	assert.Equal(t, "Rainy day progress (30.00%) of Salary exceeds percentage constraint (25%)", res.Notifications[0].Message)
	assert.Equal(t, g.ID, *res.Notifications[0].RelatedID)
}

func TestService_RecordTransaction_PercentageZeroTotalNoViolation(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc := ledger.NewService(store, store, nil)

	// A credit account with only income has a zero relevant total.
	card := store.addAccount(owner, "Card", account.TypeCredit, nil)
	pct := store.addConstraint(owner, constraint.TypePercentage, "10", nil)
	g := store.addGoal(owner, "Cashback", "50", &card.ID, pct.ID)

	res, err := svc.RecordTransaction(context.Background(), owner, income(card.ID, "40"))
	require.NoError(t, err)

	assert.Empty(t, res.Notifications)
	assert.Equal(t, "40.00", store.progress(g.ID).StringFixed(2))
}

func TestService_RecordTransaction_MissingConstraintSkipsCheck(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc := ledger.NewService(store, store, nil)

	acc := store.addAccount(owner, "A", account.TypeDebit, nil)
	g := store.addGoal(owner, "Orphan", "10", &acc.ID, uuid.New())

	res, err := svc.RecordTransaction(context.Background(), owner, income(acc.ID, "5"))
	require.NoError(t, err)

	assert.Empty(t, res.Notifications)
	assert.Equal(t, "5.00", store.progress(g.ID).StringFixed(2))
}

func TestService_RecordTransaction_ValidatesBeforeMutation(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc := ledger.NewService(store, store, nil)

	acc := store.addAccount(owner, "A", account.TypeDebit, nil)

	tests := []struct {
		name    string
		params  transaction.CreateParams
		wantErr error
	}{
		{name: "NegativeAmount", params: income(acc.ID, "-1"), wantErr: transaction.ErrInvalidAmount},
		{name: "UnknownType", params: transaction.CreateParams{AccountID: acc.ID, Type: "gift", Amount: d("1")}, wantErr: transaction.ErrInvalidType},
		{name: "MissingAccount", params: income(uuid.Nil, "1"), wantErr: transaction.ErrMissingAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordTransaction(context.Background(), owner, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Zero(t, store.begins)
	assert.Zero(t, store.transactionCount())
}

func TestService_RecordTransaction_UnknownOrForeignAccount(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc := ledger.NewService(store, store, nil)

	foreign := store.addAccount(uuid.New(), "Theirs", account.TypeDebit, nil)

	_, err := svc.RecordTransaction(context.Background(), owner, income(uuid.New(), "10"))
	assert.ErrorIs(t, err, account.ErrNotFound)

	_, err = svc.RecordTransaction(context.Background(), owner, income(foreign.ID, "10"))
	assert.ErrorIs(t, err, account.ErrNotFound)

	assert.Zero(t, store.transactionCount())
}

func TestService_RecordTransaction_FailureRollsBackEverything(t *testing.T) {
	for _, op := range []string{"CreateTransaction", "SaveBalance", "SaveProgress", "CreateNotification", "Commit"} {
		t.Run(op, func(t *testing.T) {
			owner := uuid.New()
			store := newMemStore()
			pub := &recordingPublisher{}
			svc := ledger.NewService(store, store, pub)

			acc := store.addAccount(owner, "Food", account.TypeDebit, new(d("10")))
			minC := store.addConstraint(owner, constraint.TypeMin, "200", nil)
			g := store.addGoal(owner, "G", "500", &acc.ID, minC.ID)

			store.failOn = op

			_, err := svc.RecordTransaction(context.Background(), owner, income(acc.ID, "50"))
			require.Error(t, err)

			assert.Zero(t, store.transactionCount())
			assert.True(t, store.balance(acc.ID).IsZero())
			assert.True(t, store.progress(g.ID).IsZero())
			assert.Empty(t, store.storedNotifications())
			assert.Empty(t, pub.published())
		})
	}
}

func TestService_RecomputeAccount_RepairsAfterDelete(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc := ledger.NewService(store, store, nil)

	acc := store.addAccount(owner, "A", account.TypeDebit, nil)
	minC := store.addConstraint(owner, constraint.TypeMin, "100", nil)
	g := store.addGoal(owner, "G", "500", &acc.ID, minC.ID)

	first, err := svc.RecordTransaction(context.Background(), owner, income(acc.ID, "150"))
	require.NoError(t, err)
	_, err = svc.RecordTransaction(context.Background(), owner, income(acc.ID, "50"))
	require.NoError(t, err)
	assert.Equal(t, "200.00", store.balance(acc.ID).StringFixed(2))

	// Deleting outside the ledger leaves the caches stale.
	store.removeTransaction(first.Transaction.ID)
	assert.Equal(t, "200.00", store.balance(acc.ID).StringFixed(2))

	res, err := svc.RecomputeAccount(context.Background(), owner, acc.ID)
	require.NoError(t, err)

	assert.Nil(t, res.Transaction)
	assert.Equal(t, "50.00", store.balance(acc.ID).StringFixed(2))
	assert.Equal(t, "50.00", store.progress(g.ID).StringFixed(2))
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, "G progress ($50) below min constraint ($100)", res.Notifications[0].Message)
}

func TestService_GoalProgress(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc := ledger.NewService(store, store, nil)

	acc := store.addAccount(owner, "A", account.TypeCredit, nil)
	minC := store.addConstraint(owner, constraint.TypeMin, "1000", nil)
	g := store.addGoal(owner, "G", "500", &acc.ID, minC.ID)
	unlinked := store.addGoal(owner, "Unlinked", "500", nil, minC.ID)

	store.addTransaction(&transaction.Transaction{OwnerID: owner, AccountID: acc.ID, Type: transaction.TypeIncome, Amount: d("70")})
	store.addTransaction(&transaction.Transaction{OwnerID: owner, AccountID: acc.ID, Type: transaction.TypeExpense, Amount: d("30")})

	got, err := svc.GoalProgress(context.Background(), owner, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "70.00", got.Progress.StringFixed(2))
	assert.Equal(t, "70.00", store.progress(g.ID).StringFixed(2))
	assert.Empty(t, store.storedNotifications())

	_, err = svc.GoalProgress(context.Background(), owner, unlinked.ID)
	assert.ErrorIs(t, err, goal.ErrNoAccount)

	_, err = svc.GoalProgress(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, goal.ErrNotFound)
}

func TestService_ImportBatch(t *testing.T) {
	owner := uuid.New()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	row := func(desc, amount string) transaction.CreateParams {
		return transaction.CreateParams{Type: transaction.TypeIncome, Amount: d(amount), Description: desc, Date: date}
	}

	setup := func() (*memStore, *account.Account) {
		store := newMemStore()
		acc := store.addAccount(owner, "A", account.TypeDebit, new(d("100")))
		store.addTransaction(&transaction.Transaction{
			OwnerID: owner, AccountID: acc.ID, Type: transaction.TypeIncome,
			Amount: d("10.00"), Description: "SALARY", Date: date,
		})

		return store, acc
	}

	t.Run("ConflictsWriteNothing", func(t *testing.T) {
		store, acc := setup()
		svc := ledger.NewService(store, store, nil)

		res, err := svc.ImportBatch(context.Background(), owner, acc.ID, []transaction.CreateParams{row("SALARY", "10"), row("BONUS", "95")}, false)
		require.NoError(t, err)

		assert.Empty(t, res.Imported)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, "SALARY", res.Conflicts[0].Incoming.Description)
		require.Len(t, res.New, 1)
		assert.Equal(t, "BONUS", res.New[0].Description)
		assert.Equal(t, 1, store.transactionCount())
		assert.True(t, store.balance(acc.ID).IsZero())
	})

	t.Run("ForceInsertsAllAndCascadesOnce", func(t *testing.T) {
		store, acc := setup()
		svc := ledger.NewService(store, store, nil)

		res, err := svc.ImportBatch(context.Background(), owner, acc.ID, []transaction.CreateParams{row("SALARY", "10"), row("BONUS", "95")}, true)
		require.NoError(t, err)

		assert.Len(t, res.Imported, 2)
		assert.Empty(t, res.Conflicts)
		assert.Equal(t, 3, store.transactionCount())
		assert.Equal(t, "115.00", store.balance(acc.ID).StringFixed(2))
		require.Len(t, res.Notifications, 1)
		assert.Equal(t, notification.TypeBudget, res.Notifications[0].Type)
	})

	t.Run("NoConflicts", func(t *testing.T) {
		store, acc := setup()
		svc := ledger.NewService(store, store, nil)

		res, err := svc.ImportBatch(context.Background(), owner, acc.ID, []transaction.CreateParams{row("BONUS", "5")}, false)
		require.NoError(t, err)

		assert.Len(t, res.Imported, 1)
		assert.Equal(t, acc.ID, res.Imported[0].AccountID)
		assert.Equal(t, "15.00", store.balance(acc.ID).StringFixed(2))
	})

	t.Run("InvalidRow", func(t *testing.T) {
		store, acc := setup()
		svc := ledger.NewService(store, store, nil)

		_, err := svc.ImportBatch(context.Background(), owner, acc.ID, []transaction.CreateParams{row("BAD", "0")}, false)
		assert.ErrorIs(t, err, transaction.ErrInvalidAmount)
		assert.Zero(t, store.begins)
	})

	t.Run("Empty", func(t *testing.T) {
		store, acc := setup()
		svc := ledger.NewService(store, store, nil)

		res, err := svc.ImportBatch(context.Background(), owner, acc.ID, nil, false)
		require.NoError(t, err)
		assert.Empty(t, res.Imported)
		assert.Zero(t, store.begins)
	})
}

func TestService_RecordTransaction_ConcurrentWritesKeepBalanceConsistent(t *testing.T) {
	owner := uuid.New()
	store := newMemStore()
	svc := ledger.NewService(store, store, nil)

	acc := store.addAccount(owner, "A", account.TypeDebit, nil)

	const writers = 50

	var wg sync.WaitGroup

	errs := make(chan error, writers)

	for range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := svc.RecordTransaction(context.Background(), owner, income(acc.ID, "1")); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, writers, store.transactionCount())
	assert.True(t, store.balance(acc.ID).Equal(decimal.NewFromInt(writers)))
}

func TestService_RecordTransaction_CommitFailureDoesNotPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := uuid.New()
	acc := &account.Account{ID: uuid.New(), OwnerID: owner, Name: "Food", Type: account.TypeDebit, Budget: new(d("1"))}

	store := ledger.NewMockStore(ctrl)
	uow := ledger.NewMockUnitOfWork(ctrl)
	goals := ledger.NewMockGoalReader(ctrl)
	pub := ledger.NewMockPublisher(ctrl)

	store.EXPECT().Begin(gomock.Any(), owner, acc.ID).Return(uow, nil)
	uow.EXPECT().GetAccount(gomock.Any(), owner, acc.ID).Return(acc, nil)
	uow.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	uow.EXPECT().ListTransactions(gomock.Any(), owner, acc.ID, gomock.Any()).
		Return([]*transaction.Transaction{{AccountID: acc.ID, Type: transaction.TypeIncome, Amount: d("5")}}, nil)
	uow.EXPECT().SaveBalance(gomock.Any(), owner, acc.ID, gomock.Any()).Return(nil)
	uow.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(nil)
	uow.EXPECT().ListGoals(gomock.Any(), owner, acc.ID).Return(nil, nil)
	uow.EXPECT().Commit().Return(errors.New("connection reset"))
	uow.EXPECT().Rollback().Return(nil)

	svc := ledger.NewService(store, goals, pub)
	_, err := svc.RecordTransaction(context.Background(), owner, income(acc.ID, "5"))
	assert.Error(t, err)
}

func TestService_RecordTransaction_PublishesAfterCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := uuid.New()
	acc := &account.Account{ID: uuid.New(), OwnerID: owner, Name: "Food", Type: account.TypeDebit, Budget: new(d("1"))}

	store := ledger.NewMockStore(ctrl)
	uow := ledger.NewMockUnitOfWork(ctrl)
	pub := ledger.NewMockPublisher(ctrl)

	store.EXPECT().Begin(gomock.Any(), owner, acc.ID).Return(uow, nil)
	uow.EXPECT().GetAccount(gomock.Any(), owner, acc.ID).Return(acc, nil)
	uow.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	uow.EXPECT().ListTransactions(gomock.Any(), owner, acc.ID, gomock.Any()).
		Return([]*transaction.Transaction{{AccountID: acc.ID, Type: transaction.TypeIncome, Amount: d("5")}}, nil)
	uow.EXPECT().SaveBalance(gomock.Any(), owner, acc.ID, gomock.Any()).Return(nil)
	uow.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(nil)
	uow.EXPECT().ListGoals(gomock.Any(), owner, acc.ID).Return(nil, nil)
	uow.EXPECT().Rollback().Return(nil).AnyTimes()

	gomock.InOrder(
		uow.EXPECT().Commit().Return(nil),
		pub.EXPECT().Publish(gomock.Any(), gomock.Any()),
	)

	svc := ledger.NewService(store, ledger.NewMockGoalReader(ctrl), pub)
	res, err := svc.RecordTransaction(context.Background(), owner, income(acc.ID, "5"))
	require.NoError(t, err)
	assert.Len(t, res.Notifications, 1)
}
