package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/maraton/maraton-api/internal/httputil"
)

func newTestRouter(store *memoryStore) http.Handler {
	h := NewHandler(NewService(store), httputil.NewErrorWriter(false))
	r := chi.NewRouter()
	r.Get("/api/usuarios", h.List)
	r.Get("/api/usuarios/{id}", h.Get)
	r.Put("/api/usuarios/{id}", h.Update)
	r.Put("/api/usuarios/{id}/change-password", h.ChangePassword)
	r.Delete("/api/usuarios/{id}", h.Delete)
	return r
}

func TestHandlerGet(t *testing.T) {
	store := newMemoryStore()
	u := seedUser(t, store, "a@b.com", "Abcdef1!")
	router := newTestRouter(store)

	tests := []struct {
		path string
		want int
	}{
		{"/api/usuarios/1", http.StatusOK},
		{"/api/usuarios/abc", http.StatusBadRequest},
		{"/api/usuarios/77", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/usuarios/1", nil))
	if strings.Contains(rec.Body.String(), u.PasswordHash) || strings.Contains(rec.Body.String(), "password") {
		t.Errorf("response leaks password: %s", rec.Body.String())
	}
}

func TestHandlerUpdateAcceptsBirthDateAlias(t *testing.T) {
	store := newMemoryStore()
	seedUser(t, store, "a@b.com", "Abcdef1!")
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/api/usuarios/1", strings.NewReader(`{"birth_date":"1999-05-06"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var p Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.FechaNacimiento != "1999-05-06" {
		t.Errorf("fecha_nacimiento = %q", p.FechaNacimiento)
	}
}

func TestHandlerUpdateConflict(t *testing.T) {
	store := newMemoryStore()
	seedUser(t, store, "a@b.com", "Abcdef1!")
	seedUser(t, store, "c@d.com", "Abcdef1!")
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/api/usuarios/1", strings.NewReader(`{"email":"C@D.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var body httputil.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Success || body.Code != httputil.CodeEmailAlreadyExists || body.Path != "/api/usuarios/1" {
		t.Errorf("unexpected envelope: %+v", body)
	}
}

func TestHandlerChangePasswordWrongCurrent(t *testing.T) {
	store := newMemoryStore()
	seedUser(t, store, "a@b.com", "Abcdef1!")
	router := newTestRouter(store)

	body := `{"currentPassword":"Nope123!","newPassword":"Newpass1!"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/usuarios/1/change-password", strings.NewReader(body)))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandlerChangePasswordTooLong(t *testing.T) {
	store := newMemoryStore()
	seedUser(t, store, "a@b.com", "Abcdef1!")
	router := newTestRouter(store)

	body := `{"currentPassword":"Abcdef1!","newPassword":"Abcdef1!` + strings.Repeat("a", 70) + `"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/usuarios/1/change-password", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), httputil.CodeWeakPassword) {
		t.Errorf("expected %s in %s", httputil.CodeWeakPassword, rec.Body.String())
	}
}

func TestHandlerDelete(t *testing.T) {
	store := newMemoryStore()
	seedUser(t, store, "a@b.com", "Abcdef1!")
	router := newTestRouter(store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/usuarios/1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/usuarios/1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}
