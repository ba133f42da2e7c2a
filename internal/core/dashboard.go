package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

type (
	// CategoryAmount pairs a category with a summed amount.
	CategoryAmount struct {
		Category string
		Amount   float64
	}

	// DayNet is the signed net cash flow of a single day.
	DayNet struct {
		Date string
		Net  float64
	}

	// MonthSummary is everything the dashboard shows for one month.
	MonthSummary struct {
		Year  int
		Month int // 1-12

		Income   float64
		Expenses float64
		Balance  float64

		// ByCategory holds expense totals per category, ordered by each
		// category's first appearance among the month's transactions.
		// Blank categories are folded into DefaultCategory.
		ByCategory []CategoryAmount

		// Days holds the per-day net flow, dates ascending, rounded to cents.
		Days []DayNet

		// TotalSavings sums the current amount of every goal; it ignores the
		// selected month on purpose, savings accumulate across months.
		TotalSavings float64

		// Budgets holds one limit per category, see BudgetLimits.
		Budgets []CategoryAmount

		// Health is the composite score, nominally 0 to 100.
		Health int
	}
)

// SummarizeMonth aggregates a user's activity for one month. Transactions are
// expected in insertion order; the category ordering of the result follows it.
// The function is pure, all filtering happens here rather than in SQL so that
// one row set feeds every figure consistently.
func SummarizeMonth(txs []Transaction, budgets []Budget, goals []Goal, year, month int) MonthSummary {
	prefix := fmt.Sprintf("%04d-%02d", year, month)

	s := MonthSummary{Year: year, Month: month}

	catIndex := make(map[string]int)
	daily := make(map[string]float64)

	for _, t := range txs {
		if !strings.HasPrefix(t.Date, prefix) {
			continue
		}
		switch t.Kind {
		case Income:
			s.Income += t.Amount
			daily[t.Date] += t.Amount
		case Expense:
			s.Expenses += t.Amount
			daily[t.Date] -= t.Amount

			cat := t.Category
			if cat == "" {
				cat = DefaultCategory
			}
			if i, ok := catIndex[cat]; ok {
				s.ByCategory[i].Amount += t.Amount
			} else {
				catIndex[cat] = len(s.ByCategory)
				s.ByCategory = append(s.ByCategory, CategoryAmount{Category: cat, Amount: t.Amount})
			}
		}
	}
	s.Balance = s.Income - s.Expenses

	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		s.Days = append(s.Days, DayNet{Date: d, Net: round2(daily[d])})
	}

	for _, g := range goals {
		s.TotalSavings += g.Current
	}

	s.Budgets = BudgetLimits(budgets)

	s.Health = healthScore(s)
	return s
}

// BudgetLimits collapses budget rows into one limit per category: the latest
// row wins the amount, the first occurrence keeps the position. Duplicate
// categories can only appear through a rename colliding with an existing one.
func BudgetLimits(budgets []Budget) []CategoryAmount {
	idx := make(map[string]int, len(budgets))
	out := make([]CategoryAmount, 0, len(budgets))
	for _, b := range budgets {
		if i, ok := idx[b.Category]; ok {
			out[i].Amount = b.Amount
			continue
		}
		idx[b.Category] = len(out)
		out = append(out, CategoryAmount{Category: b.Category, Amount: b.Amount})
	}
	return out
}

// healthScore blends three signals: how much of the income survived the month,
// how closely spending tracked the configured budgets, and how total savings
// compare to the month's income. Weights 0.5/0.3/0.2. A month with no income
// scores zero outright.
func healthScore(s MonthSummary) int {
	if s.Income <= 0 {
		return 0
	}

	spendEff := s.Balance / s.Income * 100
	if spendEff < 0 {
		spendEff = 0
	}
	if spendEff > 100 {
		spendEff = 100
	}

	spent := make(map[string]float64, len(s.ByCategory))
	for _, c := range s.ByCategory {
		spent[c.Category] = c.Amount
	}

	var totalBudget, spentVsBudget float64
	for _, b := range s.Budgets {
		totalBudget += b.Amount
		spentVsBudget += math.Min(spent[b.Category], b.Amount)
	}
	budgetEff := 100.0
	if totalBudget > 0 {
		budgetEff = spentVsBudget / totalBudget * 100
	}

	// No lower clamp: drained savings drag the score down.
	savingRatio := s.TotalSavings / s.Income * 100
	if savingRatio > 100 {
		savingRatio = 100
	}

	return int(math.Round(0.5*spendEff + 0.3*budgetEff + 0.2*savingRatio))
}

// SpentByCategory sums expense amounts per category for the given month.
// Unlike the dashboard aggregation, categories are kept raw, a transaction
// recorded without one does not count against any budget line.
func SpentByCategory(txs []Transaction, year, month int) map[string]float64 {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	spent := make(map[string]float64)
	for _, t := range txs {
		if t.Kind != Expense || !strings.HasPrefix(t.Date, prefix) {
			continue
		}
		spent[t.Category] += t.Amount
	}
	return spent
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
