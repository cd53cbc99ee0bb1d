package storage

import (
	"context"
	"fmt"

	"menage/internal/core"
)

const budgetSelect = `
SELECT b.id, b.amount_cents, b.month, b.year, b.category_id, b.user_id, b.created_at,
       c.name, c.icon, c.color, c.sort_order, u.name
FROM budgets b
JOIN categories c ON c.id = b.category_id
JOIN users u ON u.id = b.user_id`

// UpsertBudget creates or overwrites the one budget row for the
// (category, user, month, year) tuple and returns it with joined display
// data. The uniqueness constraint makes repeated submissions idempotent.
func (r *Repository) UpsertBudget(ctx context.Context, b *core.Budget) (*core.Budget, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, amount_cents, month, year, category_id, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (category_id, user_id, month, year)
		 DO UPDATE SET amount_cents = excluded.amount_cents`,
		newID(), b.Amount.Cents, b.Month, b.Year, b.CategoryID, b.UserID, now(),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert budget: %w", err)
	}

	row := r.db.QueryRowContext(ctx,
		budgetSelect+" WHERE b.category_id = ? AND b.user_id = ? AND b.month = ? AND b.year = ?",
		b.CategoryID, b.UserID, b.Month, b.Year,
	)
	out, err := scanBudget(row)
	if err != nil {
		return nil, notFound(err)
	}
	return out, nil
}

// ListBudgets returns all budgets for the month across both users, in
// category display order.
func (r *Repository) ListBudgets(ctx context.Context, month, year int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		budgetSelect+" WHERE b.month = ? AND b.year = ? ORDER BY c.sort_order ASC",
		month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func scanBudget(row rowScanner) (*core.Budget, error) {
	var (
		b        core.Budget
		cat      core.Category
		userName string
	)
	err := row.Scan(
		&b.ID, &b.Amount.Cents, &b.Month, &b.Year, &b.CategoryID, &b.UserID, &b.CreatedAt,
		&cat.Name, &cat.Icon, &cat.Color, &cat.Order, &userName,
	)
	if err != nil {
		return nil, err
	}
	cat.ID = b.CategoryID
	b.Category = &cat
	b.User = &core.UserRef{Name: userName}
	return &b, nil
}
