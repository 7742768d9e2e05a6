package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/templui/imagerepo/internal/ctxkeys"
	"github.com/templui/imagerepo/internal/model"
)

func TestRequireAuth(t *testing.T) {
	called := false
	h := RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/repo/", nil))

	if called {
		t.Fatal("handler called without a user")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/?next=/repo/" {
		t.Fatalf("Location = %q, want /?next=/repo/", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/repo/", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1"}))
	rec = httptest.NewRecorder()
	h(rec, req)
	if !called {
		t.Fatal("handler not called for signed in user")
	}
}

func TestLoginURL(t *testing.T) {
	tests := map[string]string{
		"/repo/":                 "/?next=/repo/",
		"/repo/images/abc":       "/?next=/repo/images/abc",
		"/repo/?page=2&sort=new": "/?next=/repo/%3Fpage%3D2%26sort%3Dnew",
	}
	for in, want := range tests {
		got := LoginURL(in)
		if got != want {
			t.Errorf("LoginURL(%q) = %q, want %q", in, got, want)
		}
		u, err := url.Parse(got)
		if err != nil || u.Query().Get("next") != in {
			t.Errorf("LoginURL(%q) does not round trip: %v %q", in, err, u.Query().Get("next"))
		}
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/repo/", "/repo/"},
		{"/repo/?a=b", "/repo/?a=b"},
		{"", "/fallback"},
		{"repo/", "/fallback"},
		{"//evil.example", "/fallback"},
		{"/\\evil.example", "/fallback"},
		{"https://evil.example/", "/fallback"},
	}
	for _, tt := range tests {
		if got := SafeNext(tt.next, "/fallback"); got != tt.want {
			t.Errorf("SafeNext(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}

func TestCSRFProtection(t *testing.T) {
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ctxkeys.CSRFToken(r.Context())))
	}))

	// GET issues a token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != csrfCookieName {
		t.Fatalf("cookies = %v", cookies)
	}
	token := cookies[0].Value
	if rec.Body.String() != token {
		t.Fatalf("context token = %q, cookie token = %q", rec.Body.String(), token)
	}

	post := func(form url.Values, withCookie bool) int {
		req := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if withCookie {
			req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := post(url.Values{"csrf_token": {token}}, true); code != http.StatusOK {
		t.Errorf("valid token status = %d", code)
	}
	if code := post(url.Values{"csrf_token": {"wrong"}}, true); code != http.StatusForbidden {
		t.Errorf("wrong token status = %d", code)
	}
	if code := post(url.Values{}, true); code != http.StatusForbidden {
		t.Errorf("missing token status = %d", code)
	}
	if code := post(url.Values{"csrf_token": {token}}, false); code != http.StatusForbidden {
		t.Errorf("missing cookie status = %d", code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := &RateLimiter{requests: make(map[string][]time.Time), limit: 2, window: time.Minute}

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first requests rejected")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("request over the limit allowed")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other IP rejected")
	}

	// Requests outside the window no longer count
	rl.requests["1.2.3.4"] = []time.Time{time.Now().Add(-2 * time.Minute), time.Now().Add(-2 * time.Minute)}
	if !rl.Allow("1.2.3.4") {
		t.Fatal("request rejected after window passed")
	}

	rl.requests["9.9.9.9"] = []time.Time{time.Now().Add(-time.Hour)}
	rl.cleanup()
	if _, ok := rl.requests["9.9.9.9"]; ok {
		t.Fatal("cleanup kept stale IP")
	}
}

func TestRateLimitAuth(t *testing.T) {
	h := RateLimitAuth(1, time.Minute)(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/signin", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::1]:8080"
	if ip := getClientIP(req); ip != "::1" {
		t.Errorf("IPv6 RemoteAddr ip = %q", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if ip := getClientIP(req); ip != "203.0.113.5" {
		t.Errorf("X-Forwarded-For ip = %q", ip)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mw("first"), mw("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Fatalf("order = %v", order)
	}
}
