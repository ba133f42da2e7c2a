package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

// seedMay2024 loads a sample month: one salary, two food purchases, a
// food budget and a started savings goal.
func seedMay2024(t *testing.T, app *testApp, userID int64) {
	t.Helper()
	ctx := context.Background()

	rows := []core.Transaction{
		{UserID: userID, Kind: core.Income, Category: "Зарплата", Amount: 1000, Payment: "Card", Date: "2024-05-01"},
		{UserID: userID, Kind: core.Expense, Category: "Їжа", Amount: 200, Payment: "Card", Date: "2024-05-10"},
		{UserID: userID, Kind: core.Expense, Category: "Їжа", Amount: 100, Payment: "Cash", Date: "2024-05-15"},
	}
	for i := range rows {
		require.NoError(t, app.repo.CreateTransaction(ctx, &rows[i]))
	}
	_, err := app.repo.SaveBudget(ctx, &core.Budget{UserID: userID, Category: "Їжа", Amount: 250})
	require.NoError(t, err)
	require.NoError(t, app.repo.CreateGoal(ctx, &core.Goal{UserID: userID, Name: "Резерв", Target: 1000, Current: 100}))
}

func TestDashboardMonthSummary(t *testing.T) {
	app := newTestApp(t)
	user := app.signUp(t, "nazar")
	seedMay2024(t, app, user.ID)

	status, body := app.get(t, "/dashboard?month=5&year=2024")
	require.Equal(t, http.StatusOK, status)

	assert.Contains(t, body, "Травень 2024")
	assert.Contains(t, body, "1000.00")
	assert.Contains(t, body, "300.00")
	assert.Contains(t, body, "700.00")
	assert.Contains(t, body, "67/100")

	// The food budget line shows the month's spending against the limit.
	assert.Contains(t, body, "300.00 / 250.00")

	// Day rows come out in date order.
	first := strings.Index(body, "2024-05-01")
	last := strings.Index(body, "2024-05-15")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, last)
	assert.Less(t, first, last)
}

func TestDashboardFiltersOtherMonthsOut(t *testing.T) {
	app := newTestApp(t)
	user := app.signUp(t, "olena")
	seedMay2024(t, app, user.ID)

	_, body := app.get(t, "/dashboard?month=6&year=2024")

	assert.Contains(t, body, "Червень 2024")
	assert.Contains(t, body, "0.00 UAH")
	assert.Contains(t, body, "За цей місяць витрат немає.")
	// Savings accumulate across months and stay visible.
	assert.Contains(t, body, "100.00 UAH")
}

func TestDashboardBadPeriodFallsBackToCurrentMonth(t *testing.T) {
	app := newTestApp(t)
	app.signUp(t, "taras")

	now := time.Now()
	current := fmt.Sprintf("%s %d", monthsUA[now.Month()-1], now.Year())

	for _, query := range []string{"?month=13&year=2024", "?month=5", "?year=2024", "?month=abc&year=2024"} {
		_, body := app.get(t, "/dashboard"+query)
		assert.Contains(t, body, current, query)
	}
}

func TestDashboardEmpty(t *testing.T) {
	app := newTestApp(t)
	app.signUp(t, "iryna")

	_, body := app.get(t, "/dashboard")

	assert.Contains(t, body, "0/100")
	assert.Contains(t, body, "За цей місяць витрат немає.")
	assert.Contains(t, body, "За цей місяць транзакцій немає.")
	assert.Contains(t, body, "Бюджетів ще немає.")
}
