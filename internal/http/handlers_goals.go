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

func (s *Server) handleSavingsPage(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	goals, err := s.store.GoalsByUser(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	type goalView struct {
		core.Goal
		Width int
	}
	views := make([]goalView, 0, len(goals))
	var total float64
	for _, g := range goals {
		views = append(views, goalView{Goal: g, Width: barWidth(g.Current, g.Target)})
		total += g.Current
	}

	currency := user.Currency
	if currency == "" {
		currency = core.DefaultCurrency
	}

	data := struct {
		page
		Goals    []goalView
		Total    float64
		Currency string
	}{
		page:     s.pageData(w, r),
		Goals:    views,
		Total:    total,
		Currency: currency,
	}
	s.render(w, r, "savings.html", data)
}

func (s *Server) handleAddSavings(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат запиту")
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	target, err := core.ParseAmount(r.PostFormValue("target"))
	if err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат суми")
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	// An omitted starting amount means zero, but a present-and-empty field
	// is a user mistake worth reporting.
	currentValue := "0"
	if r.PostForm.Has("current") {
		currentValue = r.PostFormValue("current")
	}
	current, err := core.ParseAmount(currentValue)
	if err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат суми")
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	goal := core.Goal{
		UserID:  user.ID,
		Name:    sanitizeInput(r.PostFormValue("name")),
		Target:  target,
		Current: current,
	}
	if v := strings.TrimSpace(r.PostFormValue("deadline")); v != "" {
		goal.Deadline = &v
	}

	if err := goal.Validate(); err != nil {
		s.sessions.addFlash(w, r, "warning", validationMessage(err))
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	if err := s.store.CreateGoal(r.Context(), &goal); err != nil {
		slog.ErrorContext(r.Context(), "create goal failed", "error", err, "user_id", user.ID)
		s.sessions.addFlash(w, r, "error", "Не вдалося додати ціль")
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	s.sessions.addFlash(w, r, "success", "Ціль додано!")
	http.Redirect(w, r, "/savings", http.StatusSeeOther)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат запиту")
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	goal, err := s.lookupGoal(r, user.ID)
	if err != nil {
		s.sessions.addFlash(w, r, "warning", "Ціль не знайдено")
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	// Fields left out of the form keep their stored values.
	if r.PostForm.Has("name") {
		goal.Name = sanitizeInput(r.PostFormValue("name"))
	}
	if r.PostForm.Has("target") {
		v, err := core.ParseAmount(r.PostFormValue("target"))
		if err != nil {
			s.sessions.addFlash(w, r, "warning", "Невірний формат суми")
			http.Redirect(w, r, "/savings", http.StatusSeeOther)
			return
		}
		goal.Target = v
	}
	if r.PostForm.Has("current") {
		v, err := core.ParseAmount(r.PostFormValue("current"))
		if err != nil {
			s.sessions.addFlash(w, r, "warning", "Невірний формат суми")
			http.Redirect(w, r, "/savings", http.StatusSeeOther)
			return
		}
		goal.Current = v
	}
	if r.PostForm.Has("deadline") {
		if v := strings.TrimSpace(r.PostFormValue("deadline")); v != "" {
			goal.Deadline = &v
		} else {
			goal.Deadline = nil
		}
	}

	if err := goal.Validate(); err != nil {
		s.sessions.addFlash(w, r, "warning", validationMessage(err))
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	if err := s.store.UpdateGoal(r.Context(), &goal); err != nil {
		slog.ErrorContext(r.Context(), "update goal failed", "error", err, "id", goal.ID)
		s.sessions.addFlash(w, r, "error", "Не вдалося оновити ціль")
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	s.sessions.addFlash(w, r, "success", "Ціль оновлено!")
	http.Redirect(w, r, "/savings", http.StatusSeeOther)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	goal, err := s.lookupGoal(r, user.ID)
	if err != nil {
		s.sessions.addFlash(w, r, "warning", "Ціль не знайдено")
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	if err := s.store.DeleteGoal(r.Context(), goal.ID); err != nil {
		slog.ErrorContext(r.Context(), "delete goal failed", "error", err, "id", goal.ID)
		s.sessions.addFlash(w, r, "error", "Не вдалося видалити ціль")
		http.Redirect(w, r, "/savings", http.StatusSeeOther)
		return
	}

	s.sessions.addFlash(w, r, "success", "Ціль видалено")
	http.Redirect(w, r, "/savings", http.StatusSeeOther)
}

// lookupGoal loads the goal from the id route parameter and checks it
// belongs to the user. Foreign and missing goals look identical to the
// caller.
func (s *Server) lookupGoal(r *http.Request, userID int64) (core.Goal, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return core.Goal{}, core.ErrNotFound
	}
	goal, err := s.store.GoalByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.ErrorContext(r.Context(), "goal lookup failed", "error", err, "id", id)
		}
		return core.Goal{}, core.ErrNotFound
	}
	if err := core.AssertOwner(goal, userID); err != nil {
		return core.Goal{}, err
	}
	return goal, nil
}
