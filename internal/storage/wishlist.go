package storage

import (
	"context"
	"database/sql"
	"fmt"

	"menage/internal/core"
)

const wishlistSelect = `
SELECT w.id, w.name, w.price_cents, w.url, w.priority, w.purchased, w.purchased_at,
       w.user_id, w.created_at, u.name
FROM wishlist_items w
JOIN users u ON u.id = w.user_id`

// WishlistPatch carries the partial-update fields; nil means "leave as is".
// Setting Purchased stamps or clears purchased_at so the two columns can
// never disagree.
type WishlistPatch struct {
	Name       *string
	Price      *core.Money // ignored when ClearPrice is set
	ClearPrice bool
	URL        *string
	Priority   *int
	Purchased  *bool
}

func (r *Repository) CreateWishlistItem(ctx context.Context, w *core.WishlistItem) (*core.WishlistItem, error) {
	w.ID = newID()
	w.CreatedAt = now()

	var price any
	if w.Price != nil {
		price = w.Price.Cents
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wishlist_items (id, name, price_cents, url, priority, purchased, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		w.ID, w.Name, price, w.URL, w.Priority, w.UserID, w.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create wishlist item: %w", err)
	}
	return r.WishlistItemByID(ctx, w.ID)
}

func (r *Repository) WishlistItemByID(ctx context.Context, id string) (*core.WishlistItem, error) {
	row := r.db.QueryRowContext(ctx, wishlistSelect+" WHERE w.id = ?", id)
	w, err := scanWishlistItem(row)
	if err != nil {
		return nil, notFound(err)
	}
	return w, nil
}

// ListWishlist returns the shared wishlist: unpurchased first, then by
// priority (high to low), then newest.
func (r *Repository) ListWishlist(ctx context.Context) ([]core.WishlistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		wishlistSelect+" ORDER BY w.purchased ASC, w.priority DESC, w.created_at DESC, w.id")
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var items []core.WishlistItem
	for rows.Next() {
		w, err := scanWishlistItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

func (r *Repository) UpdateWishlistItem(ctx context.Context, id string, p WishlistPatch) (*core.WishlistItem, error) {
	existing, err := r.WishlistItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		existing.Name = *p.Name
	}
	if p.ClearPrice {
		existing.Price = nil
	} else if p.Price != nil {
		price := *p.Price
		existing.Price = &price
	}
	if p.URL != nil {
		existing.URL = *p.URL
	}
	if p.Priority != nil {
		existing.Priority = *p.Priority
	}
	if p.Purchased != nil {
		existing.Purchased = *p.Purchased
		if *p.Purchased {
			ts := now()
			existing.PurchasedAt = &ts
		} else {
			existing.PurchasedAt = nil
		}
	}

	var price any
	if existing.Price != nil {
		price = existing.Price.Cents
	}
	var purchasedAt any
	if existing.PurchasedAt != nil {
		purchasedAt = *existing.PurchasedAt
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE wishlist_items
		 SET name = ?, price_cents = ?, url = ?, priority = ?, purchased = ?, purchased_at = ?
		 WHERE id = ?`,
		existing.Name, price, existing.URL, existing.Priority, existing.Purchased, purchasedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update wishlist item: %w", err)
	}
	return r.WishlistItemByID(ctx, id)
}

func (r *Repository) DeleteWishlistItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM wishlist_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
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

func scanWishlistItem(row rowScanner) (*core.WishlistItem, error) {
	var (
		w           core.WishlistItem
		price       sql.NullInt64
		purchasedAt sql.NullTime
		userName    string
	)
	err := row.Scan(
		&w.ID, &w.Name, &price, &w.URL, &w.Priority, &w.Purchased, &purchasedAt,
		&w.UserID, &w.CreatedAt, &userName,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		w.Price = &core.Money{Cents: price.Int64}
	}
	if purchasedAt.Valid {
		ts := purchasedAt.Time
		w.PurchasedAt = &ts
	}
	w.User = &core.UserRef{Name: userName}
	return &w, nil
}
