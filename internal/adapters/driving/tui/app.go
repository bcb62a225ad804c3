package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/views/stores"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// searchView is the question and answer view component.
	searchView *search.View

	// storesView is the store management view component.
	storesView *stores.View

	// documentsView is the documents list view component.
	documentsView *documents.View

	// selectedStore tracks the currently selected store for navigation.
	selectedStore *domain.Store

	// currentView tracks which view is active.
	currentView messages.ViewType

	// query is the current question (kept for accessor compatibility).
	query string

	// result holds the current grounded answer (kept for accessor compatibility).
	result *domain.SearchResult

	// selectedIndex is the currently selected citation (kept for accessor compatibility).
	selectedIndex int

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	menuView := menu.NewView(s)
	searchView := search.NewView(s, nil, ports.Search, ports.Store)
	storesView := stores.NewView(s, ports.Store)
	documentsView := documents.NewView(s, ports.Document)

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menuView,
		searchView:    searchView,
		storesView:    storesView,
		documentsView: documentsView,
		currentView:   messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.storesView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("corpus - Grounded Search"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.searchView.SetDimensions(msg.Width, msg.Height)
		a.storesView.SetDimensions(msg.Width, msg.Height)
		a.documentsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
			// Sync state from searchView for accessor compatibility
			a.query = a.searchView.Query()
			a.result = a.searchView.Result()
			a.selectedIndex = a.searchView.SelectedIndex()
			a.err = a.searchView.Err()
			return a, cmd

		case messages.ViewStores:
			// Esc from stores goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			a.storesView, cmd = a.storesView.Update(msg)
			return a, cmd

		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.SearchCompleted:
		// Forward to searchView
		a.searchView, cmd = a.searchView.Update(msg)
		// Sync state
		a.result = a.searchView.Result()
		a.err = a.searchView.Err()
		a.selectedIndex = 0
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewSearch:
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewStores:
			return a, a.storesView.Init()
		case messages.ViewMenu, messages.ViewHelp, messages.ViewDocuments:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.StoreSelected:
		// Navigate from stores to the store's documents
		a.selectedStore = &msg.Store
		a.currentView = messages.ViewDocuments
		return a, a.documentsView.SetStore(msg.Store)

	case messages.StoresLoaded, messages.StoreDeleted:
		a.storesView, cmd = a.storesView.Update(msg)
		return a, cmd

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewMenu, messages.ViewStores, messages.ViewHelp:
			// Other views don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewStores:
		a.storesView, cmd = a.storesView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewStores:
		return a.storesView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Search:
  (type)      Enter a question
  enter       Ask
  j/k, ↑/↓    Navigate citations
  n           New question
  esc         Back to Menu

Stores:
  j/k, ↑/↓    Navigate stores
  enter       Browse documents
  d           Delete store
  r           Reload
  esc         Back to Menu

Documents:
  j/k, ↑/↓    Navigate documents
  d           Delete document
  r           Reload
  esc         Back to Stores

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Query returns the current question text.
func (a *App) Query() string {
	return a.query
}

// Result returns the current grounded answer.
func (a *App) Result() *domain.SearchResult {
	return a.result
}

// SelectedIndex returns the currently selected citation index.
func (a *App) SelectedIndex() int {
	return a.selectedIndex
}

// SelectedStore returns the store whose documents are being browsed.
func (a *App) SelectedStore() *domain.Store {
	return a.selectedStore
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// Also set searchView dimensions so it renders properly
	a.searchView.SetDimensions(width, height)
}
