package middleware

import (
	"coursestudio/internal/reqctx"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("не удалось подписать токен: %v", err)
	}
	return s
}

func TestParseSubject(t *testing.T) {
	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	sub, err := ParseSubject(valid, secret)
	if err != nil || sub != "user-1" {
		t.Fatalf("ожидался user-1, получено %q, err=%v", sub, err)
	}

	cases := map[string]string{
		"чужой ключ": sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "u"}),
		"просрочен": sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
			Subject:   "u",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}),
		"без subject": sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{}),
		"HS512":       sign(t, jwt.SigningMethodHS512, []byte(secret), jwt.RegisteredClaims{Subject: "u"}),
		"мусор":       "abc.def.ghi",
	}
	for name, tok := range cases {
		if _, err := ParseSubject(tok, secret); err == nil {
			t.Fatalf("%s: ожидалась ошибка", name)
		}
	}
}

func TestJWTAuth(t *testing.T) {
	var gotUser string
	h := JWTAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = reqctx.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("без токена ожидался 401, получено %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("не Bearer: ожидался 401, получено %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/courses", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "user-7"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || gotUser != "user-7" {
		t.Fatalf("ожидался 200 и user-7, получено %d и %q", rec.Code, gotUser)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/courses", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: ожидался 204, получено %d", rec.Code)
	}
}

func TestRequestIDAndRecoverer(t *testing.T) {
	var rid string
	h := RequestID(Recoverer(Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid, _ = reqctx.GetRequestID(r.Context())
		panic("boom")
	}))))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("после паники ожидался 500, получено %d", rec.Code)
	}
	if rid != "rid-1" || rec.Header().Get(RequestIDHeader) != "rid-1" {
		t.Fatalf("request id не передан: %q / %q", rid, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("request id должен генерироваться")
	}
}
