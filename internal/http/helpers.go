package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

// page carries the fields every template expects.
type page struct {
	User    *core.User
	Flashes []Flash
}

// pageData pops pending flashes and picks up the signed-in user, if the
// route went through requireUser.
func (s *Server) pageData(w http.ResponseWriter, r *http.Request) page {
	p := page{Flashes: s.sessions.popFlashes(w, r)}
	if u, ok := userFrom(r.Context()); ok {
		p.User = &u
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "template execution failed", "error", err, "template", name)
		http.Error(w, "внутрішня помилка сервера", http.StatusInternalServerError)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
	http.Error(w, "внутрішня помилка сервера", http.StatusInternalServerError)
}

// parseYearMonth extracts year and month from query parameters. The pair is
// all-or-nothing: unless both are present and the month is in range, the
// current year and month are used.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	yv := strings.TrimSpace(r.URL.Query().Get("year"))
	mv := strings.TrimSpace(r.URL.Query().Get("month"))
	if yv == "" || mv == "" {
		return year, month
	}

	y, yerr := strconv.Atoi(yv)
	m, merr := strconv.Atoi(mv)
	if yerr != nil || merr != nil || m < 1 || m > 12 || y < 1 {
		return year, month
	}
	return y, m
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// validationMessage translates domain validation errors into the notice
// shown to the user.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Невірний формат суми"
	case errors.Is(err, core.ErrInvalidDate):
		return "Невірний формат дати"
	case errors.Is(err, core.ErrInvalidKind):
		return "Невідомий тип транзакції"
	case errors.Is(err, core.ErrEmptyCategory):
		return "Вкажіть категорію"
	case errors.Is(err, core.ErrEmptyName):
		return "Вкажіть назву цілі"
	default:
		return "Некоректні дані"
	}
}

// barWidth scales an amount against the largest value on the chart,
// returning a rounded percent. Small non-zero values are kept visible.
func barWidth(amount, max float64) int {
	if max <= 0 || amount <= 0 {
		return 0
	}
	width := int(amount/max*100 + 0.5)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}
