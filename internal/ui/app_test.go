package ui

import (
	"testing"
	"time"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/api/apitest"
	"github.com/mamadbah2/farmdesk/internal/domain/models"
	"github.com/mamadbah2/farmdesk/internal/notify"
	"github.com/mamadbah2/farmdesk/internal/session"
)

func newTestApp(t *testing.T) (*apitest.Server, *session.Store, *App) {
	t.Helper()
	backend := apitest.NewServer()
	t.Cleanup(backend.Close)

	store, err := session.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	client := api.NewClient(api.Config{BaseURL: backend.URL, Timeout: 5 * time.Second}, store, nil)
	services := api.NewServices(client)
	feed := notify.NewFeed(services.Notifications, store, time.Minute, nil)
	t.Cleanup(feed.Stop)

	app := NewApp(Deps{
		Services:  services,
		Store:     store,
		Feed:      feed,
		ExportDir: t.TempDir(),
		PageSize:  10,
	})
	return backend, store, app
}

func TestAppStartsAtLoginWithoutSession(t *testing.T) {
	_, _, app := newTestApp(t)
	app.Init()

	if app.login == nil {
		t.Fatal("no stored session must land on the login screen")
	}
}

func TestSuccessfulLoginPersistsSessionAndShowsDashboard(t *testing.T) {
	backend, store, app := newTestApp(t)
	app.Init()

	sess := models.Session{
		Token: backend.IssueToken(),
		User:  models.User{ID: backend.SeededUser().ID, Username: "amina"},
	}
	app.Update(loginDoneMsg{session: sess})

	if app.login != nil {
		t.Fatal("login screen must close after success")
	}
	stored, ok := store.Session()
	if !ok || stored.Token != sess.Token {
		t.Fatal("session must be persisted for other processes")
	}
	if app.active != 0 {
		t.Fatalf("active page = %d, want dashboard", app.active)
	}
}

func TestFailedLoginStaysOnLoginScreen(t *testing.T) {
	_, store, app := newTestApp(t)
	app.Init()

	app.Update(loginDoneMsg{err: &api.Error{Status: 401, Message: "invalid credentials"}})

	if app.login == nil {
		t.Fatal("login screen must survive a rejected attempt")
	}
	if _, ok := store.Session(); ok {
		t.Fatal("no session may be stored on failure")
	}
}

func TestSessionExpiryReturnsToLogin(t *testing.T) {
	backend, store, app := newTestApp(t)
	if err := store.SetSession(models.Session{
		Token: backend.IssueToken(),
		User:  models.User{ID: backend.SeededUser().ID, Username: "amina"},
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	app.Update(stateChangedMsg{})
	if app.login != nil {
		t.Fatal("a stored session must leave the login screen")
	}

	app.Update(sessionExpiredMsg{})

	if app.login == nil {
		t.Fatal("an expired session must reopen the login screen")
	}
	if _, ok := store.Session(); ok {
		t.Fatal("the stale session must be cleared")
	}
}

func TestThemeToggleIsPersisted(t *testing.T) {
	_, store, app := newTestApp(t)
	if app.styles.Theme.IsDark != true {
		t.Fatal("default theme is dark")
	}

	app.toggleTheme()
	if store.Theme() != "light" {
		t.Fatalf("persisted theme = %q, want light", store.Theme())
	}
	if app.styles.Theme.IsDark {
		t.Fatal("styles must follow the toggle")
	}

	app.toggleTheme()
	if store.Theme() != "dark" {
		t.Fatalf("persisted theme = %q, want dark", store.Theme())
	}
}

func TestSearchJumpAppliesFilterOnTargetPage(t *testing.T) {
	backend, store, app := newTestApp(t)
	backend.Seed("fish-ponds", map[string]any{"pondName": "North pond", "species": "Tilapia"})
	if err := store.SetSession(models.Session{
		Token: backend.IssueToken(),
		User:  models.User{ID: backend.SeededUser().ID},
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	// The store change adopts the session, as if another process signed in.
	app.Update(stateChangedMsg{})
	if app.login != nil {
		t.Fatal("state change with a session must leave the login screen")
	}

	_, cmd := app.Update(selectSearchMsg{resource: "Fish Ponds", query: "north"})
	for _, msg := range collect(cmd) {
		app.Update(msg)
	}

	page := app.activePage()
	if page == nil || page.Name() != "Fish Ponds" {
		t.Fatal("selection must switch to the matching resource page")
	}
	if len(page.rows) != 1 {
		t.Fatalf("rows = %+v", page.rows)
	}
}
