// Package stores provides the store management view component for the TUI.
package stores

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

// View is the store management view.
type View struct {
	styles       *styles.Styles
	storeService driving.StoreService
	ctx          context.Context

	stores   []domain.Store
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new stores view.
func NewView(s *styles.Styles, storeService driving.StoreService) *View {
	return &View{
		styles:       s,
		storeService: storeService,
		ctx:          context.Background(),
		stores:       []domain.Store{},
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads stores.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadStores()
}

// loadStores returns a command that loads stores from the service.
func (v *View) loadStores() tea.Cmd {
	return func() tea.Msg {
		if v.storeService == nil {
			return messages.StoresLoaded{Err: fmt.Errorf("store service not available")}
		}

		stores, err := v.storeService.List(v.ctx)
		return messages.StoresLoaded{Stores: stores, Err: err}
	}
}

// Update handles messages for the stores view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StoresLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.stores = msg.Stores
			v.err = nil
			if v.selected >= len(v.stores) && len(v.stores) > 0 {
				v.selected = len(v.stores) - 1
			}
		}
		return v, nil

	case messages.StoreDeleted:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			// Reload stores after deletion
			v.loading = true
			cmd := v.loadStores()
			return v, cmd
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.stores)-1 {
			v.selected++
		}
	case "enter":
		// Navigate to the store's documents
		if len(v.stores) > 0 && v.selected < len(v.stores) {
			store := v.stores[v.selected]
			return v, func() tea.Msg {
				return messages.StoreSelected{Store: store}
			}
		}
	case "d", "delete", "backspace":
		// Delete selected store
		if len(v.stores) > 0 && v.selected < len(v.stores) {
			cmd := v.deleteStore(v.stores[v.selected].Name)
			return v, cmd
		}
	case "r":
		// Reload stores
		v.loading = true
		cmd := v.loadStores()
		return v, cmd
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// deleteStore returns a command that deletes an empty store.
func (v *View) deleteStore(name string) tea.Cmd {
	return func() tea.Msg {
		if v.storeService == nil {
			return messages.StoreDeleted{Name: name, Err: fmt.Errorf("store service not available")}
		}

		err := v.storeService.Delete(v.ctx, name, false)
		return messages.StoreDeleted{Name: name, Err: err}
	}
}

// View renders the stores view.
func (v *View) View() string {
	var b strings.Builder

	// Title
	b.WriteString(v.styles.Title.Render("Stores"))
	b.WriteString("\n\n")

	// Loading state
	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading stores..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Error state
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Empty state
	if len(v.stores) == 0 {
		b.WriteString(v.styles.Muted.Render("No stores yet. Create one with 'corpus store create'."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Stores list
	for i := range v.stores {
		line := v.renderStore(i, &v.stores[i])
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderStore renders a single store line.
func (v *View) renderStore(index int, store *domain.Store) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := store.DisplayName
	if name == "" {
		name = store.Name
	}

	counts := fmt.Sprintf("%d docs", store.TotalDocumentsCount)
	if store.PendingDocumentsCount > 0 {
		counts = fmt.Sprintf("%s (%d pending)", counts, store.PendingDocumentsCount)
	}
	if store.FailedDocumentsCount > 0 {
		counts = fmt.Sprintf("%s (%d failed)", counts, store.FailedDocumentsCount)
	}

	// Truncate name if needed
	maxNameLen := v.width - len(counts) - 12
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	var line string
	if index == v.selected {
		line = v.styles.Selected.Render(fmt.Sprintf("%s%-30s %s", indicator, name, counts))
	} else {
		line = v.styles.Normal.Render(indicator) +
			v.styles.Normal.Render(fmt.Sprintf("%-30s ", name)) +
			v.styles.Muted.Render(counts)
	}

	return line
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] documents  [d] delete  [r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Stores returns the current list of stores.
func (v *View) Stores() []domain.Store {
	return v.stores
}

// SelectedIndex returns the currently selected store index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
