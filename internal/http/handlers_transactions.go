package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	txs, err := s.store.TransactionsByUserNewestFirst(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	currency := user.Currency
	if currency == "" {
		currency = core.DefaultCurrency
	}

	data := struct {
		page
		Transactions []core.Transaction
		Today        string
		Currency     string
	}{
		page:         s.pageData(w, r),
		Transactions: txs,
		Today:        core.Today(),
		Currency:     currency,
	}
	s.render(w, r, "transactions.html", data)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат запиту")
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	// The preset dropdown wins over the free-form category field.
	category := sanitizeInput(r.PostFormValue("category_select"))
	if category == "" {
		category = sanitizeInput(r.PostFormValue("category"))
	}
	if category == "" {
		category = core.DefaultCategory
	}

	amount, err := core.ParseAmount(r.PostFormValue("amount"))
	if err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат суми")
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	payment := sanitizeInput(r.PostFormValue("payment_method"))
	if payment == "" {
		payment = core.DefaultPayment
	}
	date := strings.TrimSpace(r.PostFormValue("date"))
	if date == "" {
		date = core.Today()
	}

	tx := core.Transaction{
		UserID:      user.ID,
		Kind:        core.Kind(sanitizeInput(r.PostFormValue("type"))),
		Category:    category,
		Amount:      amount,
		Payment:     payment,
		Date:        date,
		Description: sanitizeInput(r.PostFormValue("description")),
	}
	if err := tx.Validate(); err != nil {
		s.sessions.addFlash(w, r, "warning", validationMessage(err))
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	if err := s.store.CreateTransaction(r.Context(), &tx); err != nil {
		slog.ErrorContext(r.Context(), "create transaction failed", "error", err, "user_id", user.ID)
		s.sessions.addFlash(w, r, "error", "Не вдалося додати транзакцію")
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	s.sessions.addFlash(w, r, "success", "Транзакцію додано!")
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.sessions.addFlash(w, r, "warning", "Транзакцію не знайдено")
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	tx, err := s.store.TransactionByID(r.Context(), id)
	if err == nil {
		err = core.AssertOwner(tx, user.ID)
	}
	if err != nil {
		// A foreign row reads the same as a missing one.
		if !errors.Is(err, core.ErrNotFound) && !errors.Is(err, core.ErrForbidden) {
			slog.ErrorContext(r.Context(), "transaction lookup failed", "error", err, "id", id)
		}
		s.sessions.addFlash(w, r, "warning", "Транзакцію не знайдено")
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "delete transaction failed", "error", err, "id", id)
		s.sessions.addFlash(w, r, "error", "Не вдалося видалити транзакцію")
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
		return
	}

	s.sessions.addFlash(w, r, "success", "Транзакцію видалено")
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}
