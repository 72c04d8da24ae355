package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/speedsyndicate/ledger/internal/auth"
	"github.com/speedsyndicate/ledger/internal/bus"
	"github.com/speedsyndicate/ledger/internal/share"
	"github.com/speedsyndicate/ledger/internal/storage/failover"
	"github.com/speedsyndicate/ledger/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := failover.New(nil, memory.New())
	gate := share.NewGate(store)
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return New(store, gate, bus.New(), authenticator, jwtManager)
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return got
}

// signupOwner registers an account and returns its session token.
func signupOwner(t *testing.T, handler http.Handler) string {
	t.Helper()

	rec := doJSON(t, handler, "POST", "/api/auth/signup", "", map[string]string{
		"email":       "owner@team.example",
		"displayName": "Team Owner",
		"password":    "correct-horse-battery",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rec.Code, rec.Body)
	}
	token, _ := decodeBody(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("signup returned no session token")
	}
	return token
}

func TestSignupAndLogin(t *testing.T) {
	handler := newTestServer(t).Handler()
	signupOwner(t, handler)

	rec := doJSON(t, handler, "POST", "/api/auth/login", "", map[string]string{
		"email":    "owner@team.example",
		"password": "correct-horse-battery",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	if token, _ := decodeBody(t, rec)["token"].(string); token == "" {
		t.Error("login returned no session token")
	}

	rec = doJSON(t, handler, "POST", "/api/auth/login", "", map[string]string{
		"email":    "owner@team.example",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login with bad password status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestOwnerRoutesRequireSession(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, "GET", "/api/summary", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doJSON(t, handler, "GET", "/api/summary", "not-a-real-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status with garbage token = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestLedgerFlow(t *testing.T) {
	handler := newTestServer(t).Handler()
	token := signupOwner(t, handler)

	rec := doJSON(t, handler, "POST", "/api/incomes", token, map[string]any{
		"investorName": "John Investor",
		"amount":       "5000",
		"date":         "2024-12-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add income status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, "POST", "/api/equipment", token, map[string]any{
		"racer":     "Racer 1",
		"item":      "Extrapart",
		"quantity":  2,
		"unitPrice": "150",
		"date":      "2024-12-02",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add equipment status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, "POST", "/api/trades", token, map[string]any{
		"racerName": "Speed Racer",
		"kind":      "buy",
		"price":     "2000",
		"date":      "2024-12-03",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add trade status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, handler, "GET", "/api/summary", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", rec.Code, rec.Body)
	}
	got := decodeBody(t, rec)
	summary, _ := got["summary"].(map[string]any)
	if summary == nil {
		t.Fatalf("summary missing from response %v", got)
	}
	checks := map[string]string{
		"totalExpenses":       "300",
		"totalInvestorIncome": "5000",
		"racerTradeBalance":   "-2000",
		"currentBalance":      "2700",
	}
	for field, want := range checks {
		if fmt.Sprint(summary[field]) != want {
			t.Errorf("summary.%s = %v, want %s", field, summary[field], want)
		}
	}
	if got["formattedBalance"] != "$2,700.00" {
		t.Errorf("formattedBalance = %v, want $2,700.00", got["formattedBalance"])
	}
}

func TestDebitGuard(t *testing.T) {
	handler := newTestServer(t).Handler()
	token := signupOwner(t, handler)

	rec := doJSON(t, handler, "POST", "/api/incomes", token, map[string]any{
		"investorName": "John Investor",
		"amount":       "1000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add income status = %d, body %s", rec.Code, rec.Body)
	}

	// A purchase the balance cannot cover is rejected before it is stored.
	rec = doJSON(t, handler, "POST", "/api/equipment", token, map[string]any{
		"racer":     "Racer 1",
		"item":      "Engine",
		"quantity":  1,
		"unitPrice": "1500",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("oversized purchase status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	rec = doJSON(t, handler, "GET", "/api/equipment", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list equipment status = %d", rec.Code)
	}
	if recs, _ := decodeBody(t, rec)["equipment"].([]any); len(recs) != 0 {
		t.Errorf("rejected purchase was stored: %v", recs)
	}

	// A buy trade over the balance is rejected the same way.
	rec = doJSON(t, handler, "POST", "/api/trades", token, map[string]any{
		"racerName": "Speed Racer",
		"kind":      "buy",
		"price":     "1500",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("oversized buy trade status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	// Sell trades credit the balance and are never guarded.
	rec = doJSON(t, handler, "POST", "/api/trades", token, map[string]any{
		"racerName": "Speed Racer",
		"kind":      "sell",
		"price":     "1500",
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("sell trade status = %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestValidationRejectsBadInput(t *testing.T) {
	handler := newTestServer(t).Handler()
	token := signupOwner(t, handler)

	tests := []struct {
		name string
		path string
		body map[string]any
	}{
		{
			name: "equipment without racer",
			path: "/api/equipment",
			body: map[string]any{"item": "Extrapart", "quantity": 1, "unitPrice": "10"},
		},
		{
			name: "equipment with zero quantity",
			path: "/api/equipment",
			body: map[string]any{"racer": "Racer 1", "item": "Extrapart", "quantity": 0, "unitPrice": "10"},
		},
		{
			name: "income without investor",
			path: "/api/incomes",
			body: map[string]any{"amount": "100"},
		},
		{
			name: "income with negative amount",
			path: "/api/incomes",
			body: map[string]any{"investorName": "John Investor", "amount": "-5"},
		},
		{
			name: "trade with unknown kind",
			path: "/api/trades",
			body: map[string]any{"racerName": "Speed Racer", "kind": "lease", "price": "100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, "POST", tt.path, token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, http.StatusBadRequest, rec.Body)
			}
		})
	}
}

func TestDeleteMissingIDReportsNotDeleted(t *testing.T) {
	handler := newTestServer(t).Handler()
	token := signupOwner(t, handler)

	rec := doJSON(t, handler, "DELETE", "/api/equipment/no-such-id", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body)
	}
	if deleted, _ := decodeBody(t, rec)["deleted"].(bool); deleted {
		t.Error("delete of missing id reported deleted=true")
	}
}

func TestShareLinkRoutes(t *testing.T) {
	handler := newTestServer(t).Handler()
	token := signupOwner(t, handler)

	rec := doJSON(t, handler, "POST", "/api/incomes", token, map[string]any{
		"investorName": "John Investor",
		"amount":       "5000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add income status = %d", rec.Code)
	}

	rec = doJSON(t, handler, "POST", "/api/share", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create share status = %d, body %s", rec.Code, rec.Body)
	}
	shareToken, _ := decodeBody(t, rec)["token"].(string)
	if shareToken == "" {
		t.Fatal("share response missing token")
	}

	// Both link flavors read without a session.
	for _, prefix := range []string{"/access/", "/shared/"} {
		rec = doJSON(t, handler, "GET", prefix+shareToken+"/summary", "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %ssummary status = %d, want %d", prefix, rec.Code, http.StatusOK)
		}
	}

	// The interactive link mutates; the display-only link does not.
	body := map[string]any{"investorName": "Second Investor", "amount": "100"}
	rec = doJSON(t, handler, "POST", "/access/"+shareToken+"/incomes", "", body)
	if rec.Code != http.StatusCreated {
		t.Errorf("access-link mutation status = %d, want %d (body %s)", rec.Code, http.StatusCreated, rec.Body)
	}
	rec = doJSON(t, handler, "POST", "/shared/"+shareToken+"/incomes", "", body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("shared-link mutation status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	rec = doJSON(t, handler, "GET", "/access/made-up-token/summary", "", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("unknown share token status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHealthReportsDegraded(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, "GET", "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	got := decodeBody(t, rec)
	if got["status"] != "ok" {
		t.Errorf("status = %v, want ok", got["status"])
	}
	// A server running without a persistent backend reports itself degraded.
	if degraded, _ := got["degraded"].(bool); !degraded {
		t.Error("degraded = false for a store without a primary")
	}
}
