package storage

import (
	"context"
	"fmt"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

func (r *SQLiteRepository) BudgetsByUser(ctx context.Context, userID int64) ([]core.Budget, error) {
	budgets := []core.Budget{}
	err := r.db.SelectContext(ctx, &budgets,
		`SELECT id, user_id, category, amount FROM budgets WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets for user %d: %w", userID, err)
	}
	return budgets, nil
}

// SaveBudget keeps the (user, category) mapping 1:1: when a budget for the
// category already exists its amount is updated in place, otherwise a new
// row is inserted. The returned flag is true for the insert case.
func (r *SQLiteRepository) SaveBudget(ctx context.Context, b *core.Budget) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET amount = ? WHERE user_id = ? AND category = ?`,
		b.Amount, b.UserID, b.Category)
	if err != nil {
		return false, fmt.Errorf("save budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save budget: rows affected: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	res, err = r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, amount) VALUES (?, ?, ?)`,
		b.UserID, b.Category, b.Amount)
	if err != nil {
		return false, fmt.Errorf("save budget: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("save budget: last insert id: %w", err)
	}
	b.ID = id
	return true, nil
}

// UpdateBudget renames a category and sets its limit, addressed by the
// category name it had before. Returns core.ErrNotFound when the user has
// no budget under the old name.
func (r *SQLiteRepository) UpdateBudget(ctx context.Context, userID int64, oldCategory, category string, amount float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, amount = ? WHERE user_id = ? AND category = ?`,
		category, amount, userID, oldCategory)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget: rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID int64, category string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE user_id = ? AND category = ?`, userID, category)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget: rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
