package core

import (
	"strings"
	"time"
)

// Frequency of a recurring charge.
type Frequency string

const (
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
	Yearly  Frequency = "yearly"
)

// Valid reports whether f is one of the supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Monthly, Weekly, Yearly:
		return true
	}
	return false
}

// User is one of the two household members. Users are provisioned via the
// adduser CLI and never deleted in normal operation.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRef is the display projection of a user attached to joined rows.
type UserRef struct {
	Name string `json:"name"`
}

// Category is immutable reference data seeded by migrations.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

// Expense is a single logged purchase.
type Expense struct {
	ID          string    `json:"id"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Shared      bool      `json:"shared"`
	CategoryID  string    `json:"categoryId"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`

	// Joined display data, populated on list/detail reads.
	Category *Category `json:"category,omitempty"`
	User     *UserRef  `json:"user,omitempty"`
}

// Validate checks the mandatory create fields.
func (e Expense) Validate() error {
	if e.Amount.Cents <= 0 {
		return ErrMissingAmount
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrMissingCategory
	}
	return nil
}

// Budget is a monthly ceiling for one (category, user, month, year) tuple.
// The tuple is unique; submitting it again overwrites the amount.
type Budget struct {
	ID         string    `json:"id"`
	Amount     Money     `json:"amount"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	CategoryID string    `json:"categoryId"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`

	Category *Category `json:"category,omitempty"`
	User     *UserRef  `json:"user,omitempty"`
}

// Validate checks the mandatory upsert fields.
func (b Budget) Validate() error {
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(b.CategoryID) == "" {
		return ErrMissingCategory
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year == 0 {
		return ErrInvalidYear
	}
	return nil
}

// RecurringExpense is a projected recurring charge. NextDate is stored but
// nothing advances it; no job materializes Expense rows from these.
type RecurringExpense struct {
	ID          string    `json:"id"`
	Amount      Money     `json:"amount"`
	Description string    `json:"description"`
	Frequency   Frequency `json:"frequency"`
	Active      bool      `json:"active"`
	Shared      bool      `json:"shared"`
	NextDate    time.Time `json:"nextDate"`
	CategoryID  string    `json:"categoryId"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`

	Category *Category `json:"category,omitempty"`
	User     *UserRef  `json:"user,omitempty"`
}

// Validate checks the mandatory create fields.
func (r RecurringExpense) Validate() error {
	if r.Amount.Cents <= 0 {
		return ErrMissingAmount
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrMissingDescription
	}
	if !r.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if strings.TrimSpace(r.CategoryID) == "" {
		return ErrMissingCategory
	}
	return nil
}

// WishlistItem is a shared wishlist entry. PurchasedAt is non-nil exactly
// when Purchased is true.
type WishlistItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Price       *Money     `json:"price"`
	URL         string     `json:"url"`
	Priority    int        `json:"priority"`
	Purchased   bool       `json:"purchased"`
	PurchasedAt *time.Time `json:"purchasedAt"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`

	User *UserRef `json:"user,omitempty"`
}

// Validate checks the mandatory create fields.
func (w WishlistItem) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrMissingName
	}
	if w.Priority < 1 || w.Priority > 5 {
		return ErrInvalidPriority
	}
	return nil
}

// MonthRange returns the half-open interval [first of month, first of next
// month) in UTC. Month must already be validated to 1-12.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
