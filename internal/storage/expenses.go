package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"menage/internal/core"
)

const expenseSelect = `
SELECT e.id, e.amount_cents, e.description, e.date, e.shared,
       e.category_id, e.user_id, e.created_at,
       c.name, c.icon, c.color, c.sort_order, u.name
FROM expenses e
JOIN categories c ON c.id = e.category_id
JOIN users u ON u.id = e.user_id`

// ExpenseFilter restricts an expense listing. Year/Month are mandatory;
// CategoryID is optional.
type ExpenseFilter struct {
	Year       int
	Month      int
	CategoryID string
}

// ExpensePatch carries the partial-update fields; nil means "leave as is".
type ExpensePatch struct {
	Amount      *core.Money
	Description *string
	CategoryID  *string
	Date        *time.Time
	Shared      *bool
}

func (r *Repository) CreateExpense(ctx context.Context, e *core.Expense) (*core.Expense, error) {
	e.ID = newID()
	e.CreatedAt = now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount_cents, description, date, shared, category_id, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount.Cents, e.Description, e.Date.UTC(), e.Shared, e.CategoryID, e.UserID, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return r.ExpenseByID(ctx, e.ID)
}

func (r *Repository) ExpenseByID(ctx context.Context, id string) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx, expenseSelect+" WHERE e.id = ?", id)
	e, err := scanExpense(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// ListExpenses returns the month's expenses with joined category and user
// display data, newest first. Ties on identical dates break by created_at
// and finally id, so the order is reproducible.
func (r *Repository) ListExpenses(ctx context.Context, f ExpenseFilter) ([]core.Expense, error) {
	start, end := core.MonthRange(f.Year, f.Month)

	query := expenseSelect + " WHERE e.date >= ? AND e.date < ?"
	args := []any{start, end}
	if f.CategoryID != "" {
		query += " AND e.category_id = ?"
		args = append(args, f.CategoryID)
	}
	query += " ORDER BY e.date DESC, e.created_at DESC, e.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// UpdateExpense applies a partial update and returns the fresh row, or
// core.ErrNotFound when the id does not exist.
func (r *Repository) UpdateExpense(ctx context.Context, id string, p ExpensePatch) (*core.Expense, error) {
	existing, err := r.ExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Amount != nil {
		existing.Amount = *p.Amount
	}
	if p.Description != nil {
		existing.Description = *p.Description
	}
	if p.CategoryID != nil {
		existing.CategoryID = *p.CategoryID
	}
	if p.Date != nil {
		existing.Date = p.Date.UTC()
	}
	if p.Shared != nil {
		existing.Shared = *p.Shared
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses SET amount_cents = ?, description = ?, date = ?, shared = ?, category_id = ?
		 WHERE id = ?`,
		existing.Amount.Cents, existing.Description, existing.Date.UTC(), existing.Shared, existing.CategoryID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return r.ExpenseByID(ctx, id)
}

// DeleteExpense hard-deletes. Missing ids report core.ErrNotFound, never a
// silent no-op.
func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*core.Expense, error) {
	var (
		e        core.Expense
		cat      core.Category
		userName string
	)
	err := row.Scan(
		&e.ID, &e.Amount.Cents, &e.Description, &e.Date, &e.Shared,
		&e.CategoryID, &e.UserID, &e.CreatedAt,
		&cat.Name, &cat.Icon, &cat.Color, &cat.Order, &userName,
	)
	if err != nil {
		return nil, err
	}
	cat.ID = e.CategoryID
	e.Category = &cat
	e.User = &core.UserRef{Name: userName}
	return &e, nil
}

var _ rowScanner = (*sql.Row)(nil)
