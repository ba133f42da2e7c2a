package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

const transactionColumns = `id, user_id, kind, category, amount, payment_method, date, description`

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, kind, category, amount, payment_method, date, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Kind, t.Category, t.Amount, t.Payment, t.Date, t.Description)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create transaction: last insert id: %w", err)
	}
	t.ID = id
	return nil
}

// TransactionsByUser returns every transaction of a user in insertion order.
// The dashboard aggregation relies on this ordering for its category
// first-seen semantics.
func (r *SQLiteRepository) TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	txs := []core.Transaction{}
	err := r.db.SelectContext(ctx, &txs,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for user %d: %w", userID, err)
	}
	return txs, nil
}

// TransactionsByUserNewestFirst returns a user's transactions for display,
// most recent date first.
func (r *SQLiteRepository) TransactionsByUserNewestFirst(ctx context.Context, userID int64) ([]core.Transaction, error) {
	txs := []core.Transaction{}
	err := r.db.SelectContext(ctx, &txs,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for user %d: %w", userID, err)
	}
	return txs, nil
}

func (r *SQLiteRepository) TransactionByID(ctx context.Context, id int64) (core.Transaction, error) {
	var t core.Transaction
	err := r.db.GetContext(ctx, &t, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}
