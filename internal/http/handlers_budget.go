package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

func (s *Server) handleBudgetPage(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	budgets, err := s.store.BudgetsByUser(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	txs, err := s.store.TransactionsByUser(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	now := time.Now()
	spent := core.SpentByCategory(txs, now.Year(), int(now.Month()))

	type budgetView struct {
		core.Budget
		Spent float64
		Width int
		Over  bool
	}
	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		sp := spent[b.Category]
		views = append(views, budgetView{
			Budget: b,
			Spent:  sp,
			Width:  barWidth(sp, b.Amount),
			Over:   sp > b.Amount,
		})
	}

	currency := user.Currency
	if currency == "" {
		currency = core.DefaultCurrency
	}

	data := struct {
		page
		Budgets  []budgetView
		Currency string
	}{
		page:     s.pageData(w, r),
		Budgets:  views,
		Currency: currency,
	}
	s.render(w, r, "budget.html", data)
}

func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат запиту")
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}

	amount, err := core.ParseAmount(r.PostFormValue("amount"))
	if err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат суми")
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}

	b := core.Budget{
		UserID:   user.ID,
		Category: sanitizeInput(r.PostFormValue("category")),
		Amount:   amount,
	}
	if err := b.Validate(); err != nil {
		s.sessions.addFlash(w, r, "warning", validationMessage(err))
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}

	created, err := s.store.SaveBudget(r.Context(), &b)
	if err != nil {
		slog.ErrorContext(r.Context(), "save budget failed", "error", err, "user_id", user.ID)
		s.sessions.addFlash(w, r, "error", "Не вдалося зберегти бюджет")
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}

	if created {
		s.sessions.addFlash(w, r, "success", "Бюджет додано!")
	} else {
		s.sessions.addFlash(w, r, "success", "Бюджет оновлено!")
	}
	http.Redirect(w, r, "/budget", http.StatusSeeOther)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат запиту")
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}

	oldCategory := sanitizeInput(r.PostFormValue("old_category"))
	category := sanitizeInput(r.PostFormValue("category"))
	if category == "" {
		category = oldCategory
	}

	amount, err := core.ParseAmount(r.PostFormValue("amount"))
	if err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат суми")
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}

	err = s.store.UpdateBudget(r.Context(), user.ID, oldCategory, category, amount)
	if errors.Is(err, core.ErrNotFound) {
		s.sessions.addFlash(w, r, "warning", "Бюджет не знайдено")
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "update budget failed", "error", err, "user_id", user.ID)
		s.sessions.addFlash(w, r, "error", "Не вдалося оновити бюджет")
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}

	s.sessions.addFlash(w, r, "success", "Бюджет оновлено!")
	http.Redirect(w, r, "/budget", http.StatusSeeOther)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	category := chi.URLParam(r, "*")
	if dec, err := url.PathUnescape(category); err == nil {
		category = dec
	}

	err := s.store.DeleteBudget(r.Context(), user.ID, category)
	if errors.Is(err, core.ErrNotFound) {
		s.sessions.addFlash(w, r, "warning", "Бюджет не знайдено")
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "delete budget failed", "error", err, "user_id", user.ID)
		s.sessions.addFlash(w, r, "error", "Не вдалося видалити бюджет")
		http.Redirect(w, r, "/budget", http.StatusSeeOther)
		return
	}

	s.sessions.addFlash(w, r, "success", "Бюджет видалено")
	http.Redirect(w, r, "/budget", http.StatusSeeOther)
}
