package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finack/acc-smartlink/internal/service"
)

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignUp(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		auth := &mockAuth{signUpID: 7}
		r := testRouter(&service.Service{Authorization: auth})
		w := postJSON(t, r, "/auth/sign-up", `{"username":"kim","password":"secret"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if resp.ID != 7 {
			t.Errorf("id: want 7, got %d", resp.ID)
		}
		if auth.gotUsername != "kim" {
			t.Errorf("username: want kim, got %q", auth.gotUsername)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		r := testRouter(&service.Service{Authorization: &mockAuth{}})
		w := postJSON(t, r, "/auth/sign-up", `{"username":"kim"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", w.Code)
		}
	})

	t.Run("duplicate user", func(t *testing.T) {
		auth := &mockAuth{signUpErr: errors.New("user already exists")}
		r := testRouter(&service.Service{Authorization: auth})
		w := postJSON(t, r, "/auth/sign-up", `{"username":"kim","password":"secret"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", w.Code)
		}
	})
}

func TestSignIn(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := testRouter(&service.Service{Authorization: &mockAuth{token: "jwt123"}})
		w := postJSON(t, r, "/auth/sign-in", `{"username":"kim","password":"secret"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if resp.Token != "jwt123" {
			t.Errorf("token: want jwt123, got %q", resp.Token)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		r := testRouter(&service.Service{Authorization: &mockAuth{tokenErr: errors.New("no such user")}})
		w := postJSON(t, r, "/auth/sign-in", `{"username":"kim","password":"wrong"}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("want 401, got %d", w.Code)
		}
	})
}

func TestUserIdMiddleware(t *testing.T) {
	newReq := func(header string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/readings/latest", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		return req
	}

	t.Run("missing header", func(t *testing.T) {
		r := testRouter(&service.Service{Authorization: &mockAuth{}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newReq(""))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("want 401, got %d", w.Code)
		}
	})

	t.Run("not a bearer token", func(t *testing.T) {
		r := testRouter(&service.Service{Authorization: &mockAuth{}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newReq("Basic dXNlcjpwYXNz"))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("want 401, got %d", w.Code)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		r := testRouter(&service.Service{Authorization: &mockAuth{parseErr: errors.New("token expired")}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newReq("Bearer stale"))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("want 401, got %d", w.Code)
		}
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		auth := &mockAuth{parsedID: 42}
		r := testRouter(&service.Service{
			Monitoring:    &mockMonitoring{},
			Authorization: auth,
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newReq("Bearer good"))
		if w.Code != http.StatusNotFound {
			t.Fatalf("want 404 from handler, got %d", w.Code)
		}
		if auth.gotToken != "good" {
			t.Errorf("token passed to ParseToken: want good, got %q", auth.gotToken)
		}
	})
}
