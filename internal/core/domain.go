package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// Defaults applied when form fields come in blank.
const (
	DefaultCategory = "Other"
	DefaultPayment  = "Cash"
	DefaultCurrency = "UAH"
)

// DateLayout is the storage format for every date in the system.
const DateLayout = "2006-01-02"

type (
	// Kind discriminates money coming in from money going out.
	Kind string

	User struct {
		ID           int64  `db:"id"`
		Name         string `db:"name"`
		Username     string `db:"username"`
		PasswordHash string `db:"password_hash"`
		Currency     string `db:"currency"`
		Created      string `db:"created"`
	}

	Transaction struct {
		ID          int64   `db:"id"`
		UserID      int64   `db:"user_id"`
		Kind        Kind    `db:"kind"`
		Category    string  `db:"category"`
		Amount      float64 `db:"amount"`
		Payment     string  `db:"payment_method"`
		Date        string  `db:"date"`
		Description string  `db:"description"`
	}

	Budget struct {
		ID       int64   `db:"id"`
		UserID   int64   `db:"user_id"`
		Category string  `db:"category"`
		Amount   float64 `db:"amount"`
	}

	Goal struct {
		ID       int64   `db:"id"`
		UserID   int64   `db:"user_id"`
		Name     string  `db:"name"`
		Target   float64 `db:"target"`
		Current  float64 `db:"current"`
		Deadline *string `db:"deadline"`
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyName     = errors.New("empty name")
)

// Owned is any row tied to a single user account.
type Owned interface {
	OwnerID() int64
}

func (t Transaction) OwnerID() int64 { return t.UserID }
func (b Budget) OwnerID() int64      { return b.UserID }
func (g Goal) OwnerID() int64        { return g.UserID }

// AssertOwner rejects access to rows belonging to another user.
// Every mutating handler runs lookups through this before touching a row.
func AssertOwner(row Owned, userID int64) error {
	if row.OwnerID() != userID {
		return ErrForbidden
	}
	return nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today returns the current date in storage format.
func Today() string {
	return time.Now().Format(DateLayout)
}

func (t Transaction) Validate() error {
	switch t.Kind {
	case Income, Expense:
	default:
		return ErrInvalidKind
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if !ValidDate(t.Date) {
		return ErrInvalidDate
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.Deadline != nil && !ValidDate(*g.Deadline) {
		return ErrInvalidDate
	}
	return nil
}

// Progress reports how far along a goal is, in percent. A zero or negative
// target reads as no progress rather than a division error. Values above 100
// are possible once a goal is overfunded.
func (g Goal) Progress() float64 {
	if g.Target > 0 {
		return g.Current / g.Target * 100
	}
	return 0
}
