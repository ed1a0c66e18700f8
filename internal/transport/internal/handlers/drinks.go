// Package handlers provides the HTTP request handlers of the coffee shop API.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jamesprial/coffee-shop/internal/drink"
	ierrors "github.com/jamesprial/coffee-shop/internal/errors"
	"github.com/jamesprial/coffee-shop/internal/logging"
	"github.com/jamesprial/coffee-shop/internal/storage"
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// drinksResponse is the success body of every drinks route except delete.
type drinksResponse[T any] struct {
	Drinks  []T  `json:"drinks"`
	Success bool `json:"success"`
}

type deleteResponse struct {
	Delete  uint `json:"delete"`
	Success bool `json:"success"`
}

// DrinksHandler serves the drinks resource.
type DrinksHandler struct {
	repo   storage.Repository
	logger *slog.Logger
}

// NewDrinksHandler creates the drinks handler. If logger is nil, it uses the
// default slog logger.
func NewDrinksHandler(repo storage.Repository, logger *slog.Logger) *DrinksHandler {
	if repo == nil {
		panic("repository cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DrinksHandler{repo: repo, logger: logger}
}

// List handles GET /drinks with the short projection.
func (h *DrinksHandler) List(w http.ResponseWriter, r *http.Request) error {
	drinks, err := h.repo.ListDrinks(r.Context())
	if err != nil {
		return err
	}

	short := make([]drink.ShortDrink, 0, len(drinks))
	for i := range drinks {
		short = append(short, drinks[i].Short())
	}
	return writeJSON(w, http.StatusOK, drinksResponse[drink.ShortDrink]{Drinks: short, Success: true})
}

// ListDetail handles GET /drinks-detail with the long projection.
func (h *DrinksHandler) ListDetail(w http.ResponseWriter, r *http.Request) error {
	drinks, err := h.repo.ListDrinks(r.Context())
	if err != nil {
		return err
	}

	long := make([]drink.LongDrink, 0, len(drinks))
	for i := range drinks {
		long = append(long, drinks[i].Long())
	}
	return writeJSON(w, http.StatusOK, drinksResponse[drink.LongDrink]{Drinks: long, Success: true})
}

// Create handles POST /drinks.
func (h *DrinksHandler) Create(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}

	d, err := drink.ParseCreate(body)
	if err != nil {
		return err
	}

	if err := h.repo.CreateDrink(r.Context(), d); err != nil {
		return err
	}

	h.requestLogger(r).Info("drink created", slog.Uint64("id", uint64(d.ID)), slog.String("title", d.Title))
	return writeJSON(w, http.StatusOK, drinksResponse[drink.LongDrink]{Drinks: []drink.LongDrink{d.Long()}, Success: true})
}

// Update handles PATCH /drinks/{id}. The body is validated before the drink
// is looked up, so a bad body is a 400 even for an unknown id. Only the
// fields present in the body are written.
func (h *DrinksHandler) Update(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}

	patch, err := drink.ParsePatch(body)
	if err != nil {
		return err
	}

	id, err := drinkID(r)
	if err != nil {
		return err
	}

	var d *drink.Drink
	if patch.Empty() {
		d, err = h.repo.FindDrink(r.Context(), id)
	} else {
		d, err = h.repo.UpdateDrink(r.Context(), id, patch)
		if err == nil {
			h.requestLogger(r).Info("drink updated", slog.Uint64("id", uint64(d.ID)))
		}
	}
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, drinksResponse[drink.LongDrink]{Drinks: []drink.LongDrink{d.Long()}, Success: true})
}

// Delete handles DELETE /drinks/{id}.
func (h *DrinksHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := drinkID(r)
	if err != nil {
		return err
	}

	if err := h.repo.DeleteDrink(r.Context(), id); err != nil {
		return err
	}

	h.requestLogger(r).Info("drink deleted", slog.Uint64("id", uint64(id)))
	return writeJSON(w, http.StatusOK, deleteResponse{Delete: id, Success: true})
}

// requestLogger returns the handler logger annotated with the request ID
// and, on guarded routes, the token subject.
func (h *DrinksHandler) requestLogger(r *http.Request) *slog.Logger {
	logger := logging.WithContext(r.Context(), h.logger)
	if claims, ok := transportcore.ClaimsFromContext(r.Context()); ok && claims.Subject != "" {
		logger = logger.With(slog.String("subject", claims.Subject))
	}
	return logger
}

// drinkID parses the {id} path segment. An id that is not a number cannot
// name a drink and is reported as not found.
func drinkID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil {
		return 0, ierrors.NotFound()
	}
	return uint(id), nil
}

// readBody reads the request body up to maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ierrors.NewHTTPError(http.StatusRequestEntityTooLarge, "Request body is too large.")
		}
		return nil, ierrors.BadRequest("Request body could not be read.")
	}
	return body, nil
}
