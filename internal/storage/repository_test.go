package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newTestUser(t *testing.T, repo *SQLiteRepository, username string) core.User {
	t.Helper()
	u := core.User{
		Name:         "Test",
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Currency:     core.DefaultCurrency,
		Created:      "2024-01-01",
	}
	require.NoError(t, repo.CreateUser(context.Background(), &u))
	require.NotZero(t, u.ID)
	return u
}

func TestUserLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	u := newTestUser(t, repo, "nazar")

	byName, err := repo.UserByUsername(ctx, "nazar")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "UAH", byName.Currency)

	byID, err := repo.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "nazar", byID.Username)

	taken, err := repo.UsernameTaken(ctx, "nazar")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.UsernameTaken(ctx, "somebody")
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = repo.UserByUsername(ctx, "somebody")
	assert.ErrorIs(t, err, core.ErrNotFound)

	dup := core.User{Username: "nazar", PasswordHash: "x", Created: "2024-01-02"}
	assert.ErrorIs(t, repo.CreateUser(ctx, &dup), core.ErrUsernameTaken)
}

func TestTransactionOrdering(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	u := newTestUser(t, repo, "orderer")

	dates := []string{"2024-05-03", "2024-05-01", "2024-05-02"}
	for _, d := range dates {
		tx := core.Transaction{UserID: u.ID, Kind: core.Expense, Category: "Food", Amount: 10, Date: d}
		require.NoError(t, repo.CreateTransaction(ctx, &tx))
	}

	inOrder, err := repo.TransactionsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, inOrder, 3)
	assert.Equal(t, dates, []string{inOrder[0].Date, inOrder[1].Date, inOrder[2].Date},
		"insertion order must be preserved")

	newest, err := repo.TransactionsByUserNewestFirst(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-03", "2024-05-02", "2024-05-01"},
		[]string{newest[0].Date, newest[1].Date, newest[2].Date})
}

func TestTransactionScopedToUser(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	alice := newTestUser(t, repo, "alice")
	bob := newTestUser(t, repo, "bob")

	tx := core.Transaction{UserID: alice.ID, Kind: core.Income, Amount: 100, Date: "2024-05-01"}
	require.NoError(t, repo.CreateTransaction(ctx, &tx))

	own, err := repo.TransactionsByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestTransactionDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	u := newTestUser(t, repo, "deleter")

	tx := core.Transaction{UserID: u.ID, Kind: core.Expense, Category: "Food", Amount: 5, Date: "2024-05-01"}
	require.NoError(t, repo.CreateTransaction(ctx, &tx))

	got, err := repo.TransactionByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.Amount, got.Amount)

	require.NoError(t, repo.DeleteTransaction(ctx, tx.ID))

	_, err = repo.TransactionByID(ctx, tx.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSaveBudgetUpdatesInPlace(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	u := newTestUser(t, repo, "budgeter")

	first := core.Budget{UserID: u.ID, Category: "Food", Amount: 100}
	created, err := repo.SaveBudget(ctx, &first)
	require.NoError(t, err)
	assert.True(t, created)

	second := core.Budget{UserID: u.ID, Category: "Food", Amount: 250}
	created, err = repo.SaveBudget(ctx, &second)
	require.NoError(t, err)
	assert.False(t, created, "saving an existing category must update it in place")

	budgets, err := repo.BudgetsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1, "saving an existing category must not create a second row")
	assert.Equal(t, 250.0, budgets[0].Amount)
	assert.Equal(t, first.ID, budgets[0].ID)
}

func TestUpdateBudgetRename(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	u := newTestUser(t, repo, "renamer")

	b := core.Budget{UserID: u.ID, Category: "Food", Amount: 100}
	_, err := repo.SaveBudget(ctx, &b)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateBudget(ctx, u.ID, "Food", "Groceries", 180))

	budgets, err := repo.BudgetsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "Groceries", budgets[0].Category)
	assert.Equal(t, 180.0, budgets[0].Amount)

	err = repo.UpdateBudget(ctx, u.ID, "Food", "Anything", 1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteBudget(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	u := newTestUser(t, repo, "remover")

	b := core.Budget{UserID: u.ID, Category: "Food/Out", Amount: 50}
	_, err := repo.SaveBudget(ctx, &b)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBudget(ctx, u.ID, "Food/Out"))
	assert.ErrorIs(t, repo.DeleteBudget(ctx, u.ID, "Food/Out"), core.ErrNotFound)

	budgets, err := repo.BudgetsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestGoalLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	u := newTestUser(t, repo, "saver")

	g := core.Goal{UserID: u.ID, Name: "Vacation", Target: 1000, Current: 0}
	require.NoError(t, repo.CreateGoal(ctx, &g))
	require.NotZero(t, g.ID)

	deadline := "2025-06-01"
	g.Current = 150
	g.Deadline = &deadline
	require.NoError(t, repo.UpdateGoal(ctx, &g))

	got, err := repo.GoalByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.Current)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, deadline, *got.Deadline)

	goals, err := repo.GoalsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, goals, 1)

	require.NoError(t, repo.DeleteGoal(ctx, g.ID))
	_, err = repo.GoalByID(ctx, g.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	missing := core.Goal{ID: 9999, UserID: u.ID, Name: "ghost"}
	assert.ErrorIs(t, repo.UpdateGoal(ctx, &missing), core.ErrNotFound)
}

func TestDeletingUserRemovesChildRows(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	u := newTestUser(t, repo, "leaving")

	tx := core.Transaction{UserID: u.ID, Kind: core.Expense, Category: "Food", Amount: 5, Date: "2024-05-01"}
	require.NoError(t, repo.CreateTransaction(ctx, &tx))
	b := core.Budget{UserID: u.ID, Category: "Food", Amount: 100}
	_, err := repo.SaveBudget(ctx, &b)
	require.NoError(t, err)
	g := core.Goal{UserID: u.ID, Name: "Bike", Target: 300}
	require.NoError(t, repo.CreateGoal(ctx, &g))

	_, err = repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, u.ID)
	require.NoError(t, err)

	txs, err := repo.TransactionsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, txs, "transactions must cascade away with the user")

	budgets, err := repo.BudgetsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, budgets, "budgets must cascade away with the user")

	goals, err := repo.GoalsByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, goals, "goals must cascade away with the user")
}

func TestPing(t *testing.T) {
	repo := newTestRepository(t)
	assert.NoError(t, repo.Ping(context.Background()))

	require.NoError(t, repo.Close())
	assert.Error(t, repo.Ping(context.Background()))
}
