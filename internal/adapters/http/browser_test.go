//go:build browser

package web_test

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	"gymadmin/internal/adapters/gymapi"
	"gymadmin/internal/adapters/gymapi/gymapitest"
	web "gymadmin/internal/adapters/http"
	"gymadmin/internal/adapters/http/perf"
	"gymadmin/internal/adapters/http/view"
	"gymadmin/internal/adapters/storage"
	sessionStore "gymadmin/internal/adapters/storage/session"
	"gymadmin/internal/application/state"
	"gymadmin/internal/domain/gym"
	"gymadmin/internal/domain/member"
)

// browserApp runs the full server against a fake gym API and a SQLite session store.
type browserApp struct {
	BaseURL string
	Backend *gymapitest.Backend
	Browser playwright.Browser
}

func newBrowserApp(t *testing.T) *browserApp {
	t.Helper()

	backend := gymapitest.New()
	backend.AddGym(gym.Gym{ID: 3, Name: "Kuzey Fitness", Location: "Ankara", Capacity: 120})
	backend.AddAdmin("admin", "TestPass123!", 3)
	days := 30
	backend.AddMember(3, "Mert Şahin", "mert@example.com", member.TypeTimed, &days, 0, true)
	backend.AddUser("Elif Demir", "elif@example.com")

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	collector := perf.NewCollector(1000)
	client := gymapi.New(gymapi.Config{BaseURL: backend.Start(t), Timeout: 5 * time.Second, Collector: collector})
	renderer, err := view.New("en")
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	handler, err := web.NewMux(web.Deps{
		API:       client,
		Sessions:  sessionStore.NewSQLiteStore(storage.NewTimedDB(db, collector, 0)),
		States:    state.NewRegistry(),
		Refresher: state.NewRefresher(client),
		Renderer:  renderer,
		Collector: collector,
		CSRFKey:   []byte("browser-test-key-0123456789abcde"),
		Health:    db.PingContext,
	})
	if err != nil {
		t.Fatalf("NewMux: %v", err)
	}
	srv := httptest.NewServer(handler)

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})
	return &browserApp{BaseURL: srv.URL, Backend: backend, Browser: browser}
}

func (a *browserApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

func (a *browserApp) login(t *testing.T, page playwright.Page) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=username]").Fill("admin"); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill("TestPass123!"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to dashboard: %v", err)
	}
}

func TestBrowser_AddAndDeleteMember(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newBrowserApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if err := page.Locator("#stats-cards").WaitFor(); err != nil {
		t.Fatalf("dashboard stats not shown: %v", err)
	}

	if _, err := page.Goto(app.BaseURL + "/members/new"); err != nil {
		t.Fatalf("failed to open add member: %v", err)
	}
	if _, err := page.Locator("#membership-type").SelectOption(playwright.SelectOptionValues{Values: &[]string{"credit"}}); err != nil {
		t.Fatalf("failed to pick credit type: %v", err)
	}
	// app.js swaps the days field for the credits field
	if visible, _ := page.Locator("#membership-credits").IsVisible(); !visible {
		t.Error("credits field hidden after choosing credit")
	}
	if visible, _ := page.Locator("#membership-days").IsVisible(); visible {
		t.Error("days field still visible after choosing credit")
	}
	if err := page.Locator("#member-email").Fill("elif@example.com"); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("#membership-credits").Fill("12"); err != nil {
		t.Fatalf("failed to fill credits: %v", err)
	}
	if err := page.Locator("#confirm-add-member").Click(); err != nil {
		t.Fatalf("failed to submit: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/members", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		t.Fatalf("add member did not redirect: %v", err)
	}
	if err := page.Locator("#notices >> text=Member added!").WaitFor(); err != nil {
		t.Errorf("success notice not shown: %v", err)
	}
	if err := page.Locator("#members-table >> text=12 entries").WaitFor(); err != nil {
		t.Errorf("new member row not shown: %v", err)
	}

	// notices expire on their own
	if err := page.Locator("#notices .notice").WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateDetached,
		Timeout: playwright.Float(8000),
	}); err != nil {
		t.Errorf("notice did not expire: %v", err)
	}

	row := page.Locator("#members-table tr", playwright.PageLocatorOptions{HasText: "Elif Demir"})
	if err := row.Locator("a.btn-danger").Click(); err != nil {
		t.Fatalf("failed to open delete confirm: %v", err)
	}
	msg, err := page.Locator("#delete-message").TextContent()
	if err != nil || !strings.Contains(msg, "Elif Demir") {
		t.Fatalf("delete confirm = %q, %v", msg, err)
	}
	if err := page.Locator("#confirm-delete").Click(); err != nil {
		t.Fatalf("failed to confirm delete: %v", err)
	}
	if err := page.Locator("#notices >> text=Deleted!").WaitFor(); err != nil {
		t.Errorf("delete notice not shown: %v", err)
	}
	if n, _ := page.Locator("#members-table >> text=Elif Demir").Count(); n != 0 {
		t.Error("deleted member still listed")
	}
}

func TestBrowser_FailedFormKeepsValues(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newBrowserApp(t)
	page := app.newPage(t)
	app.login(t, page)

	if _, err := page.Goto(app.BaseURL + "/members/new"); err != nil {
		t.Fatalf("failed to open add member: %v", err)
	}
	if err := page.Locator("#member-email").Fill("mert@example.com"); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("#confirm-add-member").Click(); err != nil {
		t.Fatalf("failed to submit: %v", err)
	}
	if err := page.Locator("#notices >> text=Kullanıcı zaten salonunuza üye.").WaitFor(); err != nil {
		t.Fatalf("api error notice not shown: %v", err)
	}
	if v, _ := page.Locator("#member-email").InputValue(); v != "mert@example.com" {
		t.Errorf("email = %q, want the submitted value", v)
	}
}
