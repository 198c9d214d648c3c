package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("alice", "member")
	if err != nil {
		t.Fatalf("GenerateToken() err = %v, want nil", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() err = %v, want nil", err)
	}
	if claims.UserID != "alice" || claims.Role != "member" {
		t.Fatalf("claims = %+v, want alice/member", claims)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Fatalf("ValidateToken() err = nil, want non-nil")
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	var seenActor string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenActor = ActorID(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTAuthMiddleware(next)

	// Missing header is rejected.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// Invalid token is rejected.
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// Valid token resolves the actor.
	token, err := GenerateToken("alice", "member")
	if err != nil {
		t.Fatalf("GenerateToken() err = %v, want nil", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if seenActor != "alice" {
		t.Fatalf("actor = %q, want alice", seenActor)
	}
}

// A forged actor header cannot bypass token validation; the middleware
// overwrites it from the token claims.
func TestJWTAuthMiddleware_OverwritesForgedActorHeader(t *testing.T) {
	var seenActor string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenActor = ActorID(r)
	})
	handler := JWTAuthMiddleware(next)

	token, err := GenerateToken("alice", "member")
	if err != nil {
		t.Fatalf("GenerateToken() err = %v, want nil", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(ActorHeader, "mallory")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seenActor != "alice" {
		t.Fatalf("actor = %q, want alice (forged header must be overwritten)", seenActor)
	}
}
