package ui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdesk/internal/api"
	"github.com/mamadbah2/farmdesk/internal/domain/models"
	"github.com/mamadbah2/farmdesk/internal/notify"
	"github.com/mamadbah2/farmdesk/internal/session"
)

// Deps carries everything the app model needs. The session is an explicit
// injected store, not ambient global state; every service call reads the
// token through it.
type Deps struct {
	Services  *api.Services
	Store     *session.Store
	Feed      *notify.Feed
	ExportDir string
	PageSize  int
	Logger    *zap.Logger

	// Unauthorized is signalled by the HTTP client whenever a non-auth
	// endpoint answers 401.
	Unauthorized <-chan struct{}
}

// App is the root bubbletea model: a tab row of list pages plus the
// dashboard, with the login screen, search overlay and toast stack layered
// on top.
type App struct {
	deps   Deps
	logger *zap.Logger

	styles Styles

	resources []Resource
	pages     []*ListPage
	dashboard *DashboardPage
	login     *LoginPage
	search    SearchOverlay
	toasts    Toasts

	active      int // 0 = dashboard, 1..len(pages) = list pages
	feedRunning bool
	storeCh     <-chan struct{}

	width, height int
}

// NewApp wires the root model.
func NewApp(deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	styles := NewStyles(ThemeByName(deps.Store.Theme()))
	resources := Resources(deps.Services)

	pages := make([]*ListPage, len(resources))
	for i, res := range resources {
		pages[i] = NewListPage(res, deps.PageSize, deps.ExportDir, styles)
	}

	app := &App{
		deps:      deps,
		logger:    logger,
		styles:    styles,
		resources: resources,
		pages:     pages,
		dashboard: NewDashboardPage(resources, deps.Feed, styles),
		search:    NewSearchOverlay(resources, styles),
		toasts:    NewToasts(styles),
		storeCh:   deps.Store.Subscribe(),
	}

	if _, ok := deps.Store.Session(); !ok {
		app.login = NewLoginPage(deps.Services.Auth, styles)
	}
	return app
}

// Init starts the listeners and loads the first screen.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitStore(), a.waitUnauthorized()}
	if sess, ok := a.deps.Store.Session(); ok {
		a.startFeed(sess)
		cmds = append(cmds, a.waitFeed(), a.dashboard.Activate())
	}
	return tea.Batch(cmds...)
}

func (a *App) startFeed(sess models.Session) {
	if a.feedRunning || a.deps.Feed == nil {
		return
	}
	if err := a.deps.Feed.Start(context.Background(), sess.User.ID); err != nil {
		a.logger.Warn("notification feed failed to start", zap.Error(err))
		return
	}
	a.feedRunning = true
}

func (a *App) stopFeed() {
	if a.feedRunning && a.deps.Feed != nil {
		a.deps.Feed.Stop()
		a.feedRunning = false
	}
}

func (a *App) waitFeed() tea.Cmd {
	updates := a.deps.Feed.Updates()
	return func() tea.Msg {
		items, ok := <-updates
		if !ok {
			return nil
		}
		return feedUpdatedMsg{items: items}
	}
}

func (a *App) waitStore() tea.Cmd {
	ch := a.storeCh
	return func() tea.Msg {
		<-ch
		return stateChangedMsg{}
	}
}

func (a *App) waitUnauthorized() tea.Cmd {
	ch := a.deps.Unauthorized
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		<-ch
		return sessionExpiredMsg{}
	}
}

// activePage returns the list page currently shown, or nil on dashboard.
func (a *App) activePage() *ListPage {
	if a.active == 0 || a.active > len(a.pages) {
		return nil
	}
	return a.pages[a.active-1]
}

// capturingInput reports whether the active view owns the keyboard, which
// suppresses global shortcuts.
func (a *App) capturingInput() bool {
	if a.search.IsOpen() || a.login != nil {
		return true
	}
	if page := a.activePage(); page != nil {
		return page.filtering || page.form != nil || page.trash != nil
	}
	return false
}

func (a *App) applyTheme(name string) {
	a.styles = NewStyles(ThemeByName(name))
	for _, page := range a.pages {
		page.SetStyles(a.styles)
	}
	a.dashboard.SetStyles(a.styles)
	a.search.SetStyles(a.styles)
	a.toasts.SetStyles(a.styles)
	if a.login != nil {
		a.login.SetStyles(a.styles)
	}
}

func (a *App) switchTo(index int) tea.Cmd {
	if index < 0 || index > len(a.pages) {
		return nil
	}
	a.active = index
	if index == 0 {
		return a.dashboard.Activate()
	}
	return a.pages[index-1].Activate()
}

// Update is the root message loop.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		for _, page := range a.pages {
			page.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case stateChangedMsg:
		// The state file changed, here or in another farmdesk process.
		a.applyTheme(a.deps.Store.Theme())
		if _, ok := a.deps.Store.Session(); !ok {
			a.stopFeed()
			if a.login == nil {
				a.login = NewLoginPage(a.deps.Services.Auth, a.styles)
			}
		} else if a.login != nil {
			// Another process signed in; adopt the session.
			a.login = nil
			sess, _ := a.deps.Store.Session()
			a.startFeed(sess)
			return a, tea.Batch(a.waitStore(), a.waitFeed(), a.switchTo(0))
		}
		return a, a.waitStore()

	case sessionExpiredMsg:
		a.logger.Info("session expired, returning to login")
		_ = a.deps.Store.Clear()
		a.stopFeed()
		if a.login == nil {
			a.login = NewLoginPage(a.deps.Services.Auth, a.styles)
		}
		return a, tea.Batch(
			a.waitUnauthorized(),
			ShowToast(ToastError, "Session expired, please sign in again"),
		)

	case loginDoneMsg:
		if a.login != nil {
			cmd := a.login.Update(msg)
			if msg.err == nil {
				if err := a.deps.Store.SetSession(msg.session); err != nil {
					a.logger.Error("persisting session failed", zap.Error(err))
				}
				a.login = nil
				a.startFeed(msg.session)
				return a, tea.Batch(a.waitFeed(), a.switchTo(0),
					ShowToast(ToastSuccess, "Welcome back, "+msg.session.User.Username))
			}
			return a, cmd
		}
		return a, nil

	case feedUpdatedMsg:
		a.dashboard.SetNotifications(msg.items)
		return a, a.waitFeed()

	case showToastMsg, toastExpiredMsg:
		return a, a.toasts.Update(msg)

	case selectSearchMsg:
		for i, res := range a.resources {
			if res.Name() != msg.resource {
				continue
			}
			a.active = i + 1
			return a, a.pages[i].SetFilter("search", msg.query)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.login != nil {
			return a, a.login.Update(msg)
		}
		if a.search.IsOpen() {
			return a, a.search.Update(msg)
		}
		if !a.capturingInput() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "s":
				return a, a.search.Open()
			case "T":
				return a, a.toggleTheme()
			case "L":
				return a, a.logout()
			case "0", "1", "2", "3", "4", "5":
				index, _ := strconv.Atoi(msg.String())
				return a, a.switchTo(index)
			}
		}

	case searchTickMsg, searchResultsMsg:
		return a, a.search.Update(msg)
	}

	// Everything else flows to the current view.
	if a.login != nil {
		return a, a.login.Update(msg)
	}
	if a.active == 0 {
		// List messages still need routing while the dashboard is up:
		// a stale fetch finishing after navigation lands here harmlessly.
		if cmd := a.routeToPages(msg); cmd != nil {
			return a, cmd
		}
		return a, a.dashboard.Update(msg)
	}
	if cmd := a.routeToPages(msg); cmd != nil {
		return a, cmd
	}
	return a, a.activePage().Update(msg)
}

// routeToPages delivers resource-scoped result messages to their owning
// page regardless of which page is visible.
func (a *App) routeToPages(msg tea.Msg) tea.Cmd {
	var resource string
	switch msg := msg.(type) {
	case listLoadedMsg:
		resource = msg.resource
	case listFailedMsg:
		resource = msg.resource
	case summaryLoadedMsg:
		// Dashboard consumes summaries too.
		a.dashboard.Update(msg)
		resource = msg.resource
	case createdMsg:
		resource = msg.resource
	case updatedMsg:
		resource = msg.resource
	case deletedMsg:
		resource = msg.resource
	case mutationFailedMsg:
		resource = msg.resource
	case trashLoadedMsg:
		resource = msg.resource
	case trashFailedMsg:
		resource = msg.resource
	case trashActionDoneMsg:
		resource = msg.resource
	case formSubmitMsg:
		resource = msg.resource
	case formCancelMsg:
		resource = msg.resource
	case trashClosedMsg:
		resource = msg.resource
	default:
		return nil
	}

	for _, page := range a.pages {
		if page.Name() == resource {
			return page.Update(msg)
		}
	}
	return nil
}

func (a *App) toggleTheme() tea.Cmd {
	next := "dark"
	if a.deps.Store.Theme() != "light" {
		next = "light"
	}
	if err := a.deps.Store.SetTheme(next); err != nil {
		return ShowToast(ToastError, "Could not save theme")
	}
	a.applyTheme(next)
	return nil
}

func (a *App) logout() tea.Cmd {
	if err := a.deps.Store.Clear(); err != nil {
		return ShowToast(ToastError, "Could not clear session")
	}
	a.stopFeed()
	a.login = NewLoginPage(a.deps.Services.Auth, a.styles)
	return ShowToast(ToastInfo, "Signed out")
}

// View renders the whole screen.
func (a *App) View() string {
	var sb strings.Builder

	if a.login != nil {
		sb.WriteString(a.login.View())
		if toasts := a.toasts.View(); toasts != "" {
			sb.WriteString("\n\n" + toasts)
		}
		return sb.String()
	}

	if a.search.IsOpen() {
		return a.search.View()
	}

	sb.WriteString(a.tabRow())
	sb.WriteString("\n\n")
	if a.active == 0 {
		sb.WriteString(a.dashboard.View())
	} else {
		sb.WriteString(a.activePage().View())
	}

	if toasts := a.toasts.View(); toasts != "" {
		sb.WriteString("\n\n" + toasts)
	}

	sb.WriteString("\n")
	sb.WriteString(a.styles.StatusBar.Render("0-5 pages · s search · T theme · L sign out · q quit"))
	return sb.String()
}

func (a *App) tabRow() string {
	tabs := []string{"Dashboard"}
	for _, res := range a.resources {
		tabs = append(tabs, res.Name())
	}
	var parts []string
	for i, tab := range tabs {
		label := strconv.Itoa(i) + ":" + tab
		if i == a.active {
			parts = append(parts, a.styles.TabActive.Render(label))
		} else {
			parts = append(parts, a.styles.Tab.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}
