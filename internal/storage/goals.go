package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

const goalColumns = `id, user_id, name, target, "current", deadline`

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g *core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, name, target, "current", deadline) VALUES (?, ?, ?, ?, ?)`,
		g.UserID, g.Name, g.Target, g.Current, g.Deadline)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create goal: last insert id: %w", err)
	}
	g.ID = id
	return nil
}

func (r *SQLiteRepository) GoalsByUser(ctx context.Context, userID int64) ([]core.Goal, error) {
	goals := []core.Goal{}
	err := r.db.SelectContext(ctx, &goals,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals for user %d: %w", userID, err)
	}
	return goals, nil
}

func (r *SQLiteRepository) GoalByID(ctx context.Context, id int64) (core.Goal, error) {
	var g core.Goal
	err := r.db.GetContext(ctx, &g, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal %d: %w", id, err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g *core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target = ?, "current" = ?, deadline = ? WHERE id = ?`,
		g.Name, g.Target, g.Current, g.Deadline, g.ID)
	if err != nil {
		return fmt.Errorf("update goal %d: %w", g.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal: rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}
	return nil
}
