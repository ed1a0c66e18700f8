package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jamesprial/coffee-shop/internal/drink"
	ierrors "github.com/jamesprial/coffee-shop/internal/errors"
	"github.com/jamesprial/coffee-shop/internal/transport/internal/mocks"
)

const waterRecipe = `[{"color":"blue","name":"water","parts":1}]`

func newTestHandler(t *testing.T) (*DrinksHandler, *mocks.Repository) {
	t.Helper()
	repo := mocks.NewRepository(drink.Drink{Title: "water", Recipe: waterRecipe})
	return NewDrinksHandler(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func newRequest(method, target, body, id string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if id != "" {
		req.SetPathValue("id", id)
	}
	return req
}

type longBody struct {
	Drinks  []drink.LongDrink `json:"drinks"`
	Success bool              `json:"success"`
}

func decodeLong(t *testing.T, rec *httptest.ResponseRecorder) longBody {
	t.Helper()
	var body longBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%q)", err, rec.Body.String())
	}
	return body
}

func TestDrinksHandler_List(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	if err := h.List(rec, newRequest(http.MethodGet, "/drinks", "", "")); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := `{"drinks":[{"id":1,"title":"water","recipe":[{"color":"blue","parts":1}]}],"success":true}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestDrinksHandler_ListEmpty(t *testing.T) {
	t.Parallel()

	h := NewDrinksHandler(mocks.NewRepository(), nil)
	rec := httptest.NewRecorder()
	if err := h.List(rec, newRequest(http.MethodGet, "/drinks", "", "")); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"drinks":[],"success":true}` {
		t.Errorf("body = %s, want an empty drinks array", got)
	}
}

func TestDrinksHandler_ListDetail(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	if err := h.ListDetail(rec, newRequest(http.MethodGet, "/drinks-detail", "", "")); err != nil {
		t.Fatalf("ListDetail() error = %v", err)
	}

	body := decodeLong(t, rec)
	if !body.Success || len(body.Drinks) != 1 || body.Drinks[0].Recipe[0].Name != "water" {
		t.Errorf("body = %+v, want the long projection with names", body)
	}
}

func TestDrinksHandler_ListStoreFailure(t *testing.T) {
	t.Parallel()

	h, repo := newTestHandler(t)
	repo.ListErr = ierrors.New("storage", "ListDrinks", ierrors.ErrInternal, errors.New("db down"))

	for name, fn := range map[string]func(http.ResponseWriter, *http.Request) error{
		"List":       h.List,
		"ListDetail": h.ListDetail,
	} {
		rec := httptest.NewRecorder()
		if err := fn(rec, newRequest(http.MethodGet, "/", "", "")); !errors.Is(err, ierrors.ErrInternal) {
			t.Errorf("%s() error = %v, want internal", name, err)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("%s() wrote %q before failing", name, rec.Body.String())
		}
	}
}

func TestDrinksHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantRecipe drink.Recipe
	}{
		{
			name:       "single mapping recipe",
			body:       `{"title":"Latte","recipe":{"color":"brown","name":"milk","parts":1}}`,
			wantRecipe: drink.Recipe{{Color: "brown", Name: "milk", Parts: 1}},
		},
		{
			name:       "recipe list",
			body:       `{"title":"Mocha","recipe":[{"color":"brown","name":"coffee","parts":2},{"color":"white","name":"milk","parts":1}]}`,
			wantRecipe: drink.Recipe{{Color: "brown", Name: "coffee", Parts: 2}, {Color: "white", Name: "milk", Parts: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, repo := newTestHandler(t)
			rec := httptest.NewRecorder()
			if err := h.Create(rec, newRequest(http.MethodPost, "/drinks", tt.body, "")); err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			body := decodeLong(t, rec)
			if !body.Success || len(body.Drinks) != 1 {
				t.Fatalf("body = %+v, want one created drink", body)
			}
			created := body.Drinks[0]
			if created.ID != 2 || len(created.Recipe) != len(tt.wantRecipe) {
				t.Fatalf("created = %+v", created)
			}
			for i := range tt.wantRecipe {
				if created.Recipe[i] != tt.wantRecipe[i] {
					t.Errorf("recipe[%d] = %+v, want %+v", i, created.Recipe[i], tt.wantRecipe[i])
				}
			}
			if repo.Len() != 2 {
				t.Errorf("stored drinks = %d, want 2", repo.Len())
			}
		})
	}
}

func TestDrinksHandler_CreateRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantKind error
	}{
		{"extra key", `{"title":"Latte","recipe":[],"price":3}`, ierrors.ErrBadRequest},
		{"missing recipe", `{"title":"Latte"}`, ierrors.ErrBadRequest},
		{"invalid json", `{"title":`, ierrors.ErrBadRequest},
		{"bad recipe item", `{"title":"Latte","recipe":[{"color":"brown"}]}`, ierrors.ErrBadRequest},
		{"duplicate title", `{"title":"water","recipe":[]}`, ierrors.ErrUnprocessable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, repo := newTestHandler(t)
			rec := httptest.NewRecorder()
			err := h.Create(rec, newRequest(http.MethodPost, "/drinks", tt.body, ""))
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantKind)
			}
			if repo.Len() != 1 {
				t.Errorf("stored drinks = %d, want no mutation", repo.Len())
			}
		})
	}
}

func TestDrinksHandler_CreateBodyTooLarge(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	body := `{"title":"` + strings.Repeat("x", maxBodyBytes) + `","recipe":[]}`
	err := h.Create(httptest.NewRecorder(), newRequest(http.MethodPost, "/drinks", body, ""))

	var httpErr *ierrors.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Create() error = %v, want 413", err)
	}
}

func TestDrinksHandler_Update(t *testing.T) {
	t.Parallel()

	h, repo := newTestHandler(t)
	rec := httptest.NewRecorder()
	if err := h.Update(rec, newRequest(http.MethodPatch, "/drinks/1", `{"title":"Mocha"}`, "1")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	body := decodeLong(t, rec)
	if len(body.Drinks) != 1 || body.Drinks[0].Title != "Mocha" {
		t.Fatalf("body = %+v, want renamed drink", body)
	}
	if r := body.Drinks[0].Recipe; len(r) != 1 || r[0].Name != "water" {
		t.Errorf("recipe = %+v, want it unchanged", r)
	}

	stored, err := repo.FindDrink(context.Background(), 1)
	if err != nil || stored.Title != "Mocha" || stored.Recipe != waterRecipe {
		t.Errorf("stored = %+v, %v; want title persisted and recipe untouched", stored, err)
	}
}

func TestDrinksHandler_UpdateIdempotent(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	patch := `{"title":"Mocha","recipe":[{"color":"brown","name":"cocoa","parts":2}]}`

	first := httptest.NewRecorder()
	if err := h.Update(first, newRequest(http.MethodPatch, "/drinks/1", patch, "1")); err != nil {
		t.Fatalf("first Update() error = %v", err)
	}
	second := httptest.NewRecorder()
	if err := h.Update(second, newRequest(http.MethodPatch, "/drinks/1", patch, "1")); err != nil {
		t.Fatalf("second Update() error = %v", err)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("repeated patch changed the result:\n%s\n%s", first.Body.String(), second.Body.String())
	}
}

func TestDrinksHandler_UpdateSeparateFields(t *testing.T) {
	t.Parallel()

	h, repo := newTestHandler(t)
	recipe := `{"recipe":[{"color":"brown","name":"cocoa","parts":2}]}`
	if err := h.Update(httptest.NewRecorder(), newRequest(http.MethodPatch, "/drinks/1", recipe, "1")); err != nil {
		t.Fatalf("recipe Update() error = %v", err)
	}
	if err := h.Update(httptest.NewRecorder(), newRequest(http.MethodPatch, "/drinks/1", `{"title":"Mocha"}`, "1")); err != nil {
		t.Fatalf("title Update() error = %v", err)
	}

	stored, err := repo.FindDrink(context.Background(), 1)
	if err != nil {
		t.Fatalf("FindDrink() error = %v", err)
	}
	if want := `[{"color":"brown","name":"cocoa","parts":2}]`; stored.Title != "Mocha" || stored.Recipe != want {
		t.Errorf("stored = %+v, want both patches kept", stored)
	}
}

func TestDrinksHandler_UpdateEmptyPatchSkipsStore(t *testing.T) {
	t.Parallel()

	h, repo := newTestHandler(t)
	repo.UpdateErr = errors.New("must not be called")

	rec := httptest.NewRecorder()
	if err := h.Update(rec, newRequest(http.MethodPatch, "/drinks/1", `{}`, "1")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if body := decodeLong(t, rec); body.Drinks[0].Title != "water" {
		t.Errorf("body = %+v, want the drink unchanged", body)
	}
}

func TestDrinksHandler_UpdateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       string
		body     string
		wantKind error
	}{
		{"unknown key reported before lookup", "99", `{"price":3}`, ierrors.ErrBadRequest},
		{"mapping recipe rejected", "1", `{"recipe":{"color":"brown","name":"milk","parts":1}}`, ierrors.ErrBadRequest},
		{"missing drink", "99", `{"title":"Mocha"}`, ierrors.ErrNotFound},
		{"non numeric id", "abc", `{"title":"Mocha"}`, ierrors.ErrNotFound},
		{"negative id", "-1", `{"title":"Mocha"}`, ierrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _ := newTestHandler(t)
			err := h.Update(httptest.NewRecorder(), newRequest(http.MethodPatch, "/drinks/"+tt.id, tt.body, tt.id))
			if !isKind(err, tt.wantKind) {
				t.Errorf("Update() error = %v, want %v", err, tt.wantKind)
			}
		})
	}
}

func TestDrinksHandler_UpdateConflict(t *testing.T) {
	t.Parallel()

	h, repo := newTestHandler(t)
	if err := repo.CreateDrink(context.Background(), &drink.Drink{Title: "latte", Recipe: "[]"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := h.Update(httptest.NewRecorder(), newRequest(http.MethodPatch, "/drinks/2", `{"title":"water"}`, "2"))
	if !errors.Is(err, ierrors.ErrUnprocessable) {
		t.Errorf("Update() error = %v, want unprocessable", err)
	}
}

func TestDrinksHandler_Delete(t *testing.T) {
	t.Parallel()

	h, repo := newTestHandler(t)
	rec := httptest.NewRecorder()
	if err := h.Delete(rec, newRequest(http.MethodDelete, "/drinks/1", "", "1")); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"delete":1,"success":true}` {
		t.Errorf("body = %s", got)
	}
	if repo.Len() != 0 {
		t.Errorf("stored drinks = %d, want 0", repo.Len())
	}

	err := h.Delete(httptest.NewRecorder(), newRequest(http.MethodDelete, "/drinks/1", "", "1"))
	if !errors.Is(err, ierrors.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want not found", err)
	}

	err = h.Delete(httptest.NewRecorder(), newRequest(http.MethodDelete, "/drinks/latte", "", "latte"))
	if !isKind(err, ierrors.ErrNotFound) {
		t.Errorf("Delete() with non numeric id error = %v, want not found", err)
	}
}

func TestNewDrinksHandler_PanicsOnNilRepository(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("NewDrinksHandler(nil) did not panic")
		}
	}()
	NewDrinksHandler(nil, nil)
}

// isKind reports whether err is a domain error of kind or the HTTP error
// that kind maps to.
func isKind(err, kind error) bool {
	if errors.Is(err, kind) {
		return true
	}
	var httpErr *ierrors.HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	switch kind {
	case ierrors.ErrNotFound:
		return httpErr.Code == http.StatusNotFound
	case ierrors.ErrBadRequest:
		return httpErr.Code == http.StatusBadRequest
	}
	return false
}
