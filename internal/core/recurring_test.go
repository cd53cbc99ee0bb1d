package core

import "testing"

func TestMonthlyEquivalent(t *testing.T) {
	cases := []struct {
		name  string
		freq  Frequency
		cents int64
		want  int64
	}{
		{"monthly unchanged", Monthly, 1549, 1549},
		{"weekly x4.33", Weekly, 1000, 4330},
		{"weekly rounds half-up", Weekly, 999, 4326}, // 9.99*4.33 = 43.2567
		{"yearly /12", Yearly, 12000, 1000},
		{"yearly rounds half-up", Yearly, 100, 8}, // 1.00/12 = 0.0833
	}
	for _, tc := range cases {
		r := RecurringExpense{Amount: Money{Cents: tc.cents}, Frequency: tc.freq}
		if got := r.MonthlyEquivalent().Cents; got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestMonthlyRecurringTotal(t *testing.T) {
	items := []RecurringExpense{
		{Amount: Money{Cents: 85000}, Frequency: Monthly, Active: true},
		{Amount: Money{Cents: 1549}, Frequency: Monthly, Active: true},
		{Amount: Money{Cents: 12000}, Frequency: Yearly, Active: true},
		{Amount: Money{Cents: 999999}, Frequency: Monthly, Active: false}, // excluded
	}
	total := MonthlyRecurringTotal(items)
	if total.Cents != 85000+1549+1000 {
		t.Fatalf("expected active-only total, got %d", total.Cents)
	}

	if MonthlyRecurringTotal(nil).Cents != 0 {
		t.Fatal("empty list must total zero")
	}
}
