package core

// CategorySummary is the spent/budget pair for one category in a month.
type CategorySummary struct {
	CategoryID    string `json:"categoryId"`
	CategoryName  string `json:"categoryName"`
	CategoryIcon  string `json:"categoryIcon"`
	CategoryColor string `json:"categoryColor"`
	Spent         Money  `json:"spent"`
	Budget        Money  `json:"budget"`
}

// MonthSummary is the aggregate view for one (year, month).
type MonthSummary struct {
	TotalSpent     Money             `json:"totalSpent"`
	TotalBudget    Money             `json:"totalBudget"`
	ByCategory     []CategorySummary `json:"byCategory"`
	RecentExpenses []Expense         `json:"recentExpenses"`
}

// recentLimit caps the recent-expense list in a month summary.
const recentLimit = 10

// BuildMonthSummary folds a month's expenses and budgets over the full
// category list. Expenses must already be restricted to the month and sorted
// date-descending; the storage layer guarantees both. Every category appears
// in ByCategory, with zero sums when it has no rows. Budgets span both
// household users.
func BuildMonthSummary(categories []Category, expenses []Expense, budgets []Budget) MonthSummary {
	spent := make(map[string]int64, len(categories))
	budgeted := make(map[string]int64, len(categories))

	var totalSpent, totalBudget int64
	for _, e := range expenses {
		spent[e.CategoryID] += e.Amount.Cents
		totalSpent += e.Amount.Cents
	}
	for _, b := range budgets {
		budgeted[b.CategoryID] += b.Amount.Cents
		totalBudget += b.Amount.Cents
	}

	byCategory := make([]CategorySummary, 0, len(categories))
	for _, cat := range categories {
		byCategory = append(byCategory, CategorySummary{
			CategoryID:    cat.ID,
			CategoryName:  cat.Name,
			CategoryIcon:  cat.Icon,
			CategoryColor: cat.Color,
			Spent:         Money{Cents: spent[cat.ID]},
			Budget:        Money{Cents: budgeted[cat.ID]},
		})
	}

	recent := expenses
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return MonthSummary{
		TotalSpent:     Money{Cents: totalSpent},
		TotalBudget:    Money{Cents: totalBudget},
		ByCategory:     byCategory,
		RecentExpenses: recent,
	}
}
