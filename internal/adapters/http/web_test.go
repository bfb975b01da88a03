package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitpro/internal/adapters/http/middleware"
	"fitpro/internal/adapters/http/perf"
	"fitpro/internal/adapters/storage/storagetest"
	"fitpro/internal/domain/account"
	"fitpro/internal/domain/profile"
)

// testServer is a router over a migrated in-memory database with one admin
// and one member holding bearer tokens.
type testServer struct {
	t           *testing.T
	handler     http.Handler
	stores      *Stores
	adminID     string
	adminToken  string
	memberID    string
	memberToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := storagetest.Open(t)
	s := NewStores(db)
	issuer, err := middleware.NewTokenIssuer([]byte("web-test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	h := NewRouter(s, Options{
		CSRFKey:   bytes.Repeat([]byte("k"), 32),
		Tokens:    issuer,
		Location:  time.UTC,
		Collector: perf.NewCollector(100),
		Health:    func(ctx context.Context) error { return db.Ping() },
	})
	t.Cleanup(Close)
	SetEmailSender(nil, "")

	ts := &testServer{t: t, handler: h, stores: s}
	ts.adminID, ts.adminToken = ts.addAccount("admin", "admin@fitpro.test", account.RoleAdmin, "Ada Admin")
	ts.memberID, ts.memberToken = ts.addAccount("ann", "ann@fitpro.test", account.RoleMember, "Ann Member")
	return ts
}

// addAccount inserts an identity and profile directly, skipping bcrypt, and
// returns its id and a bearer token.
func (ts *testServer) addAccount(id, email, role, name string) (string, string) {
	ts.t.Helper()
	ctx := context.Background()
	err := ts.stores.AccountStore.Create(ctx, account.Account{ID: id, Email: email, Role: role, PasswordHash: "unused", CreatedAt: time.Now()})
	if err != nil {
		ts.t.Fatalf("create account %s: %v", id, err)
	}
	if err := ts.stores.ProfileStore.Save(ctx, profile.Profile{ID: id, FullName: name}); err != nil {
		ts.t.Fatalf("save profile %s: %v", id, err)
	}
	token, _, err := tokens.Issue(middleware.Session{AccountID: id, Email: email, Role: role})
	if err != nil {
		ts.t.Fatalf("issue token: %v", err)
	}
	return id, token
}

// do sends a JSON request with an optional bearer token.
func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			buf, err := json.Marshal(b)
			if err != nil {
				ts.t.Fatalf("marshal body: %v", err)
			}
			r = bytes.NewReader(buf)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// expect fails the test unless rr carries want, and decodes the body into out when non-nil.
func expect(t *testing.T, rr *httptest.ResponseRecorder, want int, out any) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("decode body %q: %v", rr.Body.String(), err)
		}
	}
}

// TestHealth verifies the liveness probe needs no auth.
func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]string
	expect(t, ts.do("GET", "/healthz", "", nil), http.StatusOK, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

// TestAccessControl verifies role gating on member and admin routes.
func TestAccessControl(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"anonymous member route", "/api/me", "", http.StatusUnauthorized},
		{"anonymous admin route", "/api/admin/plans", "", http.StatusUnauthorized},
		{"member on admin route", "/api/admin/plans", ts.memberToken, http.StatusForbidden},
		{"member on member route", "/api/plans", ts.memberToken, http.StatusOK},
		{"admin on admin route", "/api/admin/analytics", ts.adminToken, http.StatusOK},
		{"admin on member route", "/api/me", ts.adminToken, http.StatusOK},
		{"forged token", "/api/me", "forged", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, ts.do("GET", tt.path, tt.token, nil), tt.want, nil)
		})
	}
}

// TestRouting_MethodNotAllowed verifies wrong verbs get a JSON 405.
func TestRouting_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	expect(t, ts.do("PATCH", "/api/admin/plans", ts.adminToken, nil), http.StatusMethodNotAllowed, nil)
}

// TestStrictDecode_UnknownField verifies unknown JSON fields are rejected.
func TestStrictDecode_UnknownField(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("PUT", "/api/me/profile", ts.memberToken, `{"FullName":"Ann","Nickname":"A"}`)
	expect(t, rr, http.StatusBadRequest, nil)
}

// TestSecurityHeadersApplied verifies the hardening headers reach API responses.
func TestSecurityHeadersApplied(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do("GET", "/healthz", "", nil)
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("X-Frame-Options = %q", rr.Header().Get("X-Frame-Options"))
	}
}
