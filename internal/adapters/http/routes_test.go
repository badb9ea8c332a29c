package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"gymadmin/internal/adapters/http/middleware"
)

var csrfTokenPattern = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

// browser drives the full middleware chain the way a form-posting browser does.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, app *testApp) *browser {
	t.Helper()
	handler, err := NewMux(Deps{
		API:       app.server.API,
		Sessions:  app.sessions,
		States:    app.server.States,
		Refresher: app.server.Refresher,
		Renderer:  app.server.Renderer,
		Collector: app.server.Collector,
		Limiter:   middleware.NewRateLimiter(100, time.Second),
		CSRFKey:   []byte("0123456789abcdef0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &browser{t: t, base: srv.URL, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) get(path string) (int, string, http.Header) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header
}

func (b *browser) post(path string, form url.Values) (int, http.Header) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, resp.Header
}

// token loads a form page and returns its CSRF token.
func (b *browser) token(path string) string {
	b.t.Helper()
	status, body, _ := b.get(path)
	if status != http.StatusOK {
		b.t.Fatalf("GET %s = %d", path, status)
	}
	m := csrfTokenPattern.FindStringSubmatch(body)
	if m == nil {
		b.t.Fatalf("no csrf token on %s", path)
	}
	return m[1]
}

func TestNewMux_RejectsShortKey(t *testing.T) {
	app := newTestApp(t)
	_, err := NewMux(Deps{API: app.server.API, Renderer: app.server.Renderer, CSRFKey: []byte("short")})
	if err == nil {
		t.Fatal("expected an error for a short csrf key")
	}
}

func TestFullChain_LoginWorkLogout(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)

	status, _, header := b.get("/dashboard")
	if status != http.StatusSeeOther || header.Get("Location") != "/login" {
		t.Fatalf("anonymous dashboard = %d %q", status, header.Get("Location"))
	}
	if header.Get("Content-Security-Policy") == "" {
		t.Error("security headers missing")
	}

	// login without the token is refused before the handler runs
	if status, _ := b.post("/login", url.Values{"username": {"admin"}, "password": {"secret"}}); status != http.StatusForbidden {
		t.Fatalf("login without token = %d, want 403", status)
	}
	if app.sessions.len() != 0 {
		t.Fatal("rejected login stored a session")
	}

	tok := b.token("/login")
	status, header = b.post("/login", url.Values{"gorilla.csrf.Token": {tok}, "username": {"admin"}, "password": {"secret"}})
	if status != http.StatusSeeOther || header.Get("Location") != "/dashboard" {
		t.Fatalf("login = %d %q", status, header.Get("Location"))
	}

	status, body, _ := b.get("/dashboard")
	if status != http.StatusOK || !strings.Contains(body, "Demir Spor") {
		t.Fatalf("dashboard = %d", status)
	}

	// the session survives a lost in-memory cache
	app.server.States.Drop(firstToken(t, app))
	if status, _, _ := b.get("/members"); status != http.StatusOK {
		t.Fatalf("members after cache drop = %d", status)
	}

	tok = b.token("/members/new")
	status, header = b.post("/members/new", url.Values{
		"gorilla.csrf.Token": {tok},
		"email":              {"zeynep@example.com"},
		"type":               {"timed"},
		"days":               {"30"},
	})
	if status != http.StatusSeeOther || header.Get("Location") != "/members" {
		t.Fatalf("add member = %d %q", status, header.Get("Location"))
	}
	_, body, _ = b.get("/members")
	if !strings.Contains(body, "Zeynep Ak") || !strings.Contains(body, "Member added!") {
		t.Error("new member or notice missing after redirect")
	}

	status, _ = b.post("/logout", url.Values{"gorilla.csrf.Token": {b.token("/members")}})
	if status != http.StatusSeeOther {
		t.Fatalf("logout = %d", status)
	}
	if app.sessions.len() != 0 {
		t.Error("logout kept the stored session")
	}
	status, _, header = b.get("/dashboard")
	if status != http.StatusSeeOther || header.Get("Location") != "/login" {
		t.Errorf("dashboard after logout = %d %q", status, header.Get("Location"))
	}

	snap := app.server.Collector.Snapshot(time.Now().Add(-time.Minute), 50)
	var sawRoute bool
	for _, p := range snap.SlowestPaths {
		if p.Path == "POST /members/new" {
			sawRoute = true
		}
	}
	if !sawRoute {
		t.Error("request timings missing the matched route")
	}
}

func TestFullChain_StaleCookieIsCleared(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)

	u, _ := url.Parse(b.base)
	b.client.Jar.SetCookies(u, []*http.Cookie{{Name: middleware.SessionCookieName, Value: "forgotten", Path: "/"}})

	status, _, header := b.get("/dashboard")
	if status != http.StatusSeeOther || header.Get("Location") != "/login" {
		t.Fatalf("dashboard = %d %q", status, header.Get("Location"))
	}
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == middleware.SessionCookieName {
			t.Errorf("stale session cookie kept: %q", c.Value)
		}
	}
}

func firstToken(t *testing.T, app *testApp) string {
	t.Helper()
	app.sessions.mu.Lock()
	defer app.sessions.mu.Unlock()
	for token := range app.sessions.sessions {
		return token
	}
	t.Fatal("no stored session")
	return ""
}
