package core

// weeksPerMonth is the average-weeks-per-month approximation used to project
// a weekly charge onto a monthly cost basis.
const weeksPerMonthHundredths = 433 // 4.33

// MonthlyEquivalent projects the charge onto a monthly cost basis:
// monthly amounts pass through, weekly amounts are multiplied by 4.33 and
// yearly amounts divided by 12, both rounded half-up to the cent. The
// projection is for summary display only and never mutates stored data.
func (r RecurringExpense) MonthlyEquivalent() Money {
	cents := r.Amount.Cents
	switch r.Frequency {
	case Weekly:
		return Money{Cents: (cents*weeksPerMonthHundredths + 50) / 100}
	case Yearly:
		return Money{Cents: (cents + 6) / 12}
	default:
		return Money{Cents: cents}
	}
}

// MonthlyRecurringTotal sums the monthly equivalents of the active items.
// Inactive items are excluded entirely, not zeroed.
func MonthlyRecurringTotal(items []RecurringExpense) Money {
	var total Money
	for _, it := range items {
		if !it.Active {
			continue
		}
		total = total.Add(it.MonthlyEquivalent())
	}
	return total
}
