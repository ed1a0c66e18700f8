// Package mocks provides mock implementations for testing the transport layer.
package mocks

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/jamesprial/coffee-shop/internal/drink"
	ierrors "github.com/jamesprial/coffee-shop/internal/errors"
	"github.com/jamesprial/coffee-shop/internal/oauth"
	"github.com/jamesprial/coffee-shop/internal/storage"
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
)

// TokenValidator is a mock implementation of oauth.TokenValidator.
type TokenValidator struct {
	ValidateFunc func(ctx context.Context, token string) (*oauth.TokenClaims, error)
}

// ValidateToken calls the mock ValidateFunc.
func (m *TokenValidator) ValidateToken(ctx context.Context, token string) (*oauth.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	return nil, nil
}

// GrantingValidator returns a validator that accepts any token and grants
// permissions.
func GrantingValidator(permissions ...string) *TokenValidator {
	return &TokenValidator{
		ValidateFunc: func(context.Context, string) (*oauth.TokenClaims, error) {
			return &oauth.TokenClaims{
				Subject:            "auth0|barista",
				Permissions:        permissions,
				PermissionsPresent: true,
			}, nil
		},
	}
}

// ErrorResponder records every error it is asked to respond with.
// It writes the status of an *errors.AuthError or *errors.HTTPError,
// and 500 for anything else.
type ErrorResponder struct {
	mu     sync.Mutex
	errors []error
}

// Respond records err and writes a bare status.
func (m *ErrorResponder) Respond(w http.ResponseWriter, _ *http.Request, err error) {
	m.mu.Lock()
	m.errors = append(m.errors, err)
	m.mu.Unlock()

	status := http.StatusInternalServerError
	var authErr *ierrors.AuthError
	var httpErr *ierrors.HTTPError
	switch {
	case errors.As(err, &authErr):
		status = authErr.Status
	case errors.As(err, &httpErr):
		status = httpErr.Code
	default:
		if mapped, ok := ierrors.FromDomain(err); ok {
			status = mapped.Code
		}
	}
	w.WriteHeader(status)
}

// Wrap adapts handler, responding to its errors through m.
func (m *ErrorResponder) Wrap(handler transportcore.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := handler(w, r); err != nil {
			m.Respond(w, r, err)
		}
	})
}

// Errors returns the recorded errors.
func (m *ErrorResponder) Errors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.errors...)
}

// LastError returns the most recent recorded error, or nil.
func (m *ErrorResponder) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.errors) == 0 {
		return nil
	}
	return m.errors[len(m.errors)-1]
}

// Repository is an in-memory storage.Repository. Titles are unique like in
// the real store. The Err fields, when set, are returned by the matching
// method instead of touching the data.
type Repository struct {
	mu     sync.Mutex
	drinks map[uint]drink.Drink
	nextID uint

	ListErr   error
	CreateErr error
	UpdateErr error
	PingErr   error
}

// NewRepository returns a repository holding seed, with ids assigned in order.
func NewRepository(seed ...drink.Drink) *Repository {
	repo := &Repository{drinks: make(map[uint]drink.Drink), nextID: 1}
	for _, d := range seed {
		d.ID = repo.nextID
		repo.drinks[d.ID] = d
		repo.nextID++
	}
	return repo
}

// ListDrinks returns all drinks ordered by id.
func (m *Repository) ListDrinks(context.Context) ([]drink.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	drinks := make([]drink.Drink, 0, len(m.drinks))
	for _, d := range m.drinks {
		drinks = append(drinks, d)
	}
	sort.Slice(drinks, func(i, j int) bool { return drinks[i].ID < drinks[j].ID })
	return drinks, nil
}

// FindDrink returns a copy of the stored drink.
func (m *Repository) FindDrink(_ context.Context, id uint) (*drink.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drinks[id]
	if !ok {
		return nil, ierrors.New("mock", "FindDrink", ierrors.ErrNotFound, nil)
	}
	return &d, nil
}

// CreateDrink stores d and assigns its id.
func (m *Repository) CreateDrink(_ context.Context, d *drink.Drink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}
	if m.titleTaken(d.Title, 0) {
		return ierrors.New("mock", "CreateDrink", ierrors.ErrUnprocessable, storage.ErrConstraintViolation)
	}
	d.ID = m.nextID
	m.nextID++
	m.drinks[d.ID] = *d
	return nil
}

// UpdateDrink applies patch to the stored drink with id.
func (m *Repository) UpdateDrink(_ context.Context, id uint, patch *drink.Patch) (*drink.Drink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	d, ok := m.drinks[id]
	if !ok {
		return nil, ierrors.New("mock", "UpdateDrink", ierrors.ErrNotFound, nil)
	}
	if err := patch.Apply(&d); err != nil {
		return nil, err
	}
	if m.titleTaken(d.Title, d.ID) {
		return nil, ierrors.New("mock", "UpdateDrink", ierrors.ErrUnprocessable, storage.ErrConstraintViolation)
	}
	m.drinks[id] = d
	return &d, nil
}

// DeleteDrink removes the drink with id.
func (m *Repository) DeleteDrink(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drinks[id]; !ok {
		return ierrors.New("mock", "DeleteDrink", ierrors.ErrNotFound, nil)
	}
	delete(m.drinks, id)
	return nil
}

// Ping returns PingErr.
func (m *Repository) Ping(context.Context) error {
	return m.PingErr
}

// Len returns the number of stored drinks.
func (m *Repository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drinks)
}

func (m *Repository) titleTaken(title string, except uint) bool {
	for id, d := range m.drinks {
		if id != except && d.Title == title {
			return true
		}
	}
	return false
}

var _ storage.Repository = (*Repository)(nil)
