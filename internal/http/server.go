package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/NazarChugunov/kurs2025/internal/core"
	"github.com/NazarChugunov/kurs2025/internal/middleware/ratelimit"
	appweb "github.com/NazarChugunov/kurs2025/web"
)

// UserStore resolves and creates accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *core.User) error
	UserByID(ctx context.Context, id int64) (core.User, error)
	UserByUsername(ctx context.Context, username string) (core.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

// TransactionStore is the persistence surface for transactions.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *core.Transaction) error
	TransactionsByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
	TransactionsByUserNewestFirst(ctx context.Context, userID int64) ([]core.Transaction, error)
	TransactionByID(ctx context.Context, id int64) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// BudgetStore is the persistence surface for per-category budgets.
type BudgetStore interface {
	BudgetsByUser(ctx context.Context, userID int64) ([]core.Budget, error)
	SaveBudget(ctx context.Context, b *core.Budget) (bool, error)
	UpdateBudget(ctx context.Context, userID int64, oldCategory, category string, amount float64) error
	DeleteBudget(ctx context.Context, userID int64, category string) error
}

// GoalStore is the persistence surface for savings goals.
type GoalStore interface {
	CreateGoal(ctx context.Context, g *core.Goal) error
	GoalsByUser(ctx context.Context, userID int64) ([]core.Goal, error)
	GoalByID(ctx context.Context, id int64) (core.Goal, error)
	UpdateGoal(ctx context.Context, g *core.Goal) error
	DeleteGoal(ctx context.Context, id int64) error
}

// Store bundles everything the handlers need from the persistence layer.
type Store interface {
	UserStore
	TransactionStore
	BudgetStore
	GoalStore
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server

	store     Store
	sessions  *sessionManager
	templates *template.Template
}

// Options configures the HTTP server.
type Options struct {
	Addr          string
	SessionSecret string
	SessionMaxAge int // seconds
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options, store Store) (*Server, error) {
	s := &Server{
		store:    store,
		sessions: newSessionManager(opts.SessionSecret, opts.SessionMaxAge),
	}

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)

	// Static assets, served from the embedded FS with a small client cache.
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount embedded static FS: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		static.ServeHTTP(w, r)
	})

	// Credential endpoints are throttled per client address to slow
	// down password guessing.
	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	throttled := limiter.Middleware(clientAddr, s.tooManyAttempts)

	r.Get("/", s.handleLoginPage)
	r.With(throttled).Post("/", s.handleLogin)
	r.With(throttled).Post("/register", s.handleRegister)
	r.Get("/logout", s.handleLogout)
	r.Get("/check_db", s.handleCheckDB)
	r.Get("/healthz", handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)

		r.Get("/dashboard", s.handleDashboard)

		r.Get("/transactions", s.handleTransactions)
		r.Post("/add_transaction", s.handleAddTransaction)
		r.Post("/delete_transaction/{id}", s.handleDeleteTransaction)

		r.Get("/budget", s.handleBudgetPage)
		r.Post("/save_budget", s.handleSaveBudget)
		r.Post("/update_budget", s.handleUpdateBudget)
		// Categories may contain slashes, so the route tail is a wildcard.
		r.Post("/delete_budget/*", s.handleDeleteBudget)

		r.Get("/savings", s.handleSavingsPage)
		r.Post("/add_savings", s.handleAddSavings)
		r.Post("/update_goal/{id}", s.handleUpdateGoal)
		r.Post("/delete_goal/{id}", s.handleDeleteGoal)
	})

	s.Addr = opts.Addr
	s.Handler = r
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 10 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 16

	return s, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 2, 64)
		},
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleCheckDB probes the persistence layer. It sits outside requireUser
// so an external monitor can reach it without a session.
func (s *Server) handleCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "database ping failed", "error", err)
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte("SQLite: OK"))
}
