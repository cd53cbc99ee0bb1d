package storage

import (
	"context"
	"fmt"
	"time"

	"menage/internal/core"
)

const recurringSelect = `
SELECT r.id, r.amount_cents, r.description, r.frequency, r.active, r.shared,
       r.next_date, r.category_id, r.user_id, r.created_at,
       c.name, c.icon, c.color, c.sort_order, u.name
FROM recurring_expenses r
JOIN categories c ON c.id = r.category_id
JOIN users u ON u.id = r.user_id`

// RecurringPatch carries the partial-update fields; nil means "leave as is".
type RecurringPatch struct {
	Amount      *core.Money
	Description *string
	Frequency   *core.Frequency
	Active      *bool
	Shared      *bool
	NextDate    *time.Time
	CategoryID  *string
}

func (r *Repository) CreateRecurring(ctx context.Context, re *core.RecurringExpense) (*core.RecurringExpense, error) {
	re.ID = newID()
	re.CreatedAt = now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_expenses
		   (id, amount_cents, description, frequency, active, shared, next_date, category_id, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		re.ID, re.Amount.Cents, re.Description, string(re.Frequency), re.Active, re.Shared,
		re.NextDate.UTC(), re.CategoryID, re.UserID, re.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create recurring expense: %w", err)
	}
	return r.RecurringByID(ctx, re.ID)
}

func (r *Repository) RecurringByID(ctx context.Context, id string) (*core.RecurringExpense, error) {
	row := r.db.QueryRowContext(ctx, recurringSelect+" WHERE r.id = ?", id)
	re, err := scanRecurring(row)
	if err != nil {
		return nil, notFound(err)
	}
	return re, nil
}

// ListRecurring returns every recurring charge, newest first.
func (r *Repository) ListRecurring(ctx context.Context) ([]core.RecurringExpense, error) {
	rows, err := r.db.QueryContext(ctx, recurringSelect+" ORDER BY r.created_at DESC, r.id")
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	defer rows.Close()

	var items []core.RecurringExpense
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		items = append(items, *re)
	}
	return items, rows.Err()
}

func (r *Repository) UpdateRecurring(ctx context.Context, id string, p RecurringPatch) (*core.RecurringExpense, error) {
	existing, err := r.RecurringByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Amount != nil {
		existing.Amount = *p.Amount
	}
	if p.Description != nil {
		existing.Description = *p.Description
	}
	if p.Frequency != nil {
		existing.Frequency = *p.Frequency
	}
	if p.Active != nil {
		existing.Active = *p.Active
	}
	if p.Shared != nil {
		existing.Shared = *p.Shared
	}
	if p.NextDate != nil {
		existing.NextDate = p.NextDate.UTC()
	}
	if p.CategoryID != nil {
		existing.CategoryID = *p.CategoryID
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE recurring_expenses
		 SET amount_cents = ?, description = ?, frequency = ?, active = ?, shared = ?, next_date = ?, category_id = ?
		 WHERE id = ?`,
		existing.Amount.Cents, existing.Description, string(existing.Frequency), existing.Active,
		existing.Shared, existing.NextDate.UTC(), existing.CategoryID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update recurring expense: %w", err)
	}
	return r.RecurringByID(ctx, id)
}

func (r *Repository) DeleteRecurring(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM recurring_expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete recurring expense: %w", err)
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

func scanRecurring(row rowScanner) (*core.RecurringExpense, error) {
	var (
		re       core.RecurringExpense
		freq     string
		cat      core.Category
		userName string
	)
	err := row.Scan(
		&re.ID, &re.Amount.Cents, &re.Description, &freq, &re.Active, &re.Shared,
		&re.NextDate, &re.CategoryID, &re.UserID, &re.CreatedAt,
		&cat.Name, &cat.Icon, &cat.Color, &cat.Order, &userName,
	)
	if err != nil {
		return nil, err
	}
	re.Frequency = core.Frequency(freq)
	cat.ID = re.CategoryID
	re.Category = &cat
	re.User = &core.UserRef{Name: userName}
	return &re, nil
}
