package http

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/NazarChugunov/kurs2025/internal/core"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	data := struct {
		page
	}{page: s.pageData(w, r)}
	s.render(w, r, "login.html", data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат запиту")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	username := sanitizeInput(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	user, err := s.store.UserByUsername(r.Context(), username)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.ErrorContext(r.Context(), "login lookup failed", "error", err)
		}
		// Same notice for a missing user and a bad password.
		s.sessions.addFlash(w, r, "error", "Невірний логін або пароль")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.sessions.addFlash(w, r, "error", "Невірний логін або пароль")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := s.sessions.signIn(w, r, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "failed to save session", "error", err)
		http.Error(w, "внутрішня помилка сервера", http.StatusInternalServerError)
		return
	}
	slog.InfoContext(r.Context(), "user signed in", "user_id", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.sessions.addFlash(w, r, "warning", "Невірний формат запиту")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	name := sanitizeInput(r.PostFormValue("name"))
	username := sanitizeInput(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		s.sessions.addFlash(w, r, "warning", "Заповніть логін і пароль")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	taken, err := s.store.UsernameTaken(r.Context(), username)
	if err != nil {
		slog.ErrorContext(r.Context(), "username check failed", "error", err)
		s.sessions.addFlash(w, r, "error", "Не вдалося створити користувача")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if taken {
		s.sessions.addFlash(w, r, "warning", "Користувач з таким іменем вже існує")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.ErrorContext(r.Context(), "password hash failed", "error", err)
		s.sessions.addFlash(w, r, "error", "Не вдалося створити користувача")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	user := core.User{
		Name:         name,
		Username:     username,
		PasswordHash: string(hash),
		Currency:     core.DefaultCurrency,
		Created:      core.Today(),
	}
	if err := s.store.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, core.ErrUsernameTaken) {
			s.sessions.addFlash(w, r, "warning", "Користувач з таким іменем вже існує")
		} else {
			slog.ErrorContext(r.Context(), "create user failed", "error", err)
			s.sessions.addFlash(w, r, "error", "Не вдалося створити користувача")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.InfoContext(r.Context(), "user registered", "user_id", user.ID)
	s.sessions.addFlash(w, r, "success", "Реєстрація успішна! Тепер увійдіть")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// tooManyAttempts answers throttled credential traffic with a flash
// rather than a bare 429, since the client is a browser mid-form.
func (s *Server) tooManyAttempts(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "credential endpoint throttled", "remote", r.RemoteAddr)
	s.sessions.addFlash(w, r, "warning", "Забагато спроб. Зачекайте хвилину і спробуйте ще раз")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.signOut(w, r); err != nil {
		slog.ErrorContext(r.Context(), "failed to clear session", "error", err)
	}
	s.sessions.addFlash(w, r, "info", "Ви вийшли з системи")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
