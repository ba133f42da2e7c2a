package http

import (
	"math"
	"net/http"
	"time"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

// monthsUA are the month names shown on the dashboard period selector.
var monthsUA = [...]string{
	"Січень", "Лютий", "Березень", "Квітень", "Травень", "Червень",
	"Липень", "Серпень", "Вересень", "Жовтень", "Листопад", "Грудень",
}

type monthOption struct {
	Value int
	Name  string
}

type categoryRow struct {
	Name   string
	Amount float64
	Width  int
}

type dayRow struct {
	Date     string
	Net      float64
	Width    int
	Negative bool
}

type budgetRow struct {
	Category string
	Limit    float64
	Spent    float64
	Width    int
	Over     bool
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	year, month := parseYearMonth(r)
	ctx := r.Context()

	txs, err := s.store.TransactionsByUser(ctx, user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	budgets, err := s.store.BudgetsByUser(ctx, user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	goals, err := s.store.GoalsByUser(ctx, user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	summary := core.SummarizeMonth(txs, budgets, goals, year, month)
	spent := core.SpentByCategory(txs, year, month)

	var maxCategory float64
	for _, c := range summary.ByCategory {
		if c.Amount > maxCategory {
			maxCategory = c.Amount
		}
	}
	categories := make([]categoryRow, 0, len(summary.ByCategory))
	for _, c := range summary.ByCategory {
		categories = append(categories, categoryRow{
			Name:   c.Category,
			Amount: c.Amount,
			Width:  barWidth(c.Amount, maxCategory),
		})
	}

	var maxDay float64
	for _, d := range summary.Days {
		if v := math.Abs(d.Net); v > maxDay {
			maxDay = v
		}
	}
	days := make([]dayRow, 0, len(summary.Days))
	for _, d := range summary.Days {
		days = append(days, dayRow{
			Date:     d.Date,
			Net:      d.Net,
			Width:    barWidth(math.Abs(d.Net), maxDay),
			Negative: d.Net < 0,
		})
	}

	budgetRows := make([]budgetRow, 0, len(summary.Budgets))
	for _, b := range summary.Budgets {
		sp := spent[b.Category]
		budgetRows = append(budgetRows, budgetRow{
			Category: b.Category,
			Limit:    b.Amount,
			Spent:    sp,
			Width:    barWidth(sp, b.Amount),
			Over:     sp > b.Amount,
		})
	}

	months := make([]monthOption, len(monthsUA))
	for i, name := range monthsUA {
		months[i] = monthOption{Value: i + 1, Name: name}
	}
	var years []int
	for y := 2023; y <= time.Now().Year()+1; y++ {
		years = append(years, y)
	}

	currency := user.Currency
	if currency == "" {
		currency = core.DefaultCurrency
	}

	data := struct {
		page
		Summary    core.MonthSummary
		MonthName  string
		Months     []monthOption
		Years      []int
		Categories []categoryRow
		Days       []dayRow
		Budgets    []budgetRow
		Currency   string
	}{
		page:       s.pageData(w, r),
		Summary:    summary,
		MonthName:  monthsUA[month-1],
		Months:     months,
		Years:      years,
		Categories: categories,
		Days:       days,
		Budgets:    budgetRows,
		Currency:   currency,
	}
	s.render(w, r, "dashboard.html", data)
}
