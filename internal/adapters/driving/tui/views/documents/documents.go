// Package documents provides the documents list view component for the TUI.
package documents

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

// View is the documents list view.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	store        *domain.Store
	documents    []domain.Document
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		documents:       []domain.Document{},
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetStore sets the store and loads its documents.
func (v *View) SetStore(store domain.Store) tea.Cmd {
	v.store = &store
	v.documents = []domain.Document{}
	v.selected = 0
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.loadDocuments()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// loadDocuments returns a command that loads documents for the store.
func (v *View) loadDocuments() tea.Cmd {
	return func() tea.Msg {
		if v.store == nil || v.documentService == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}

		docs, err := v.documentService.List(v.ctx, v.store.Name)
		return messages.DocumentsLoaded{
			StoreName: v.store.Name,
			Documents: docs,
			Err:       err,
		}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.documents = msg.Documents
			v.err = nil
			if v.selected >= len(v.documents) && len(v.documents) > 0 {
				v.selected = len(v.documents) - 1
			}
		}
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			// Reload documents after deletion
			v.loading = true
			cmd := v.loadDocuments()
			return v, cmd
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
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
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "d", "delete", "backspace":
		// Delete selected document
		if len(v.documents) > 0 && v.selected < len(v.documents) {
			cmd := v.deleteDocument(v.documents[v.selected].Name)
			return v, cmd
		}
	case "r":
		// Reload documents
		v.loading = true
		cmd := v.loadDocuments()
		return v, cmd
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewStores}
		}
	case "q":
		return v, tea.Quit
	}

	return v, nil
}

// deleteDocument returns a command that deletes a document.
func (v *View) deleteDocument(name string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentDeleted{Name: name, Err: fmt.Errorf("document service not available")}
		}

		err := v.documentService.Delete(v.ctx, name, false)
		return messages.DocumentDeleted{Name: name, Err: err}
	}
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, separator, help, and padding
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	// Title
	storeName := "Unknown"
	if v.store != nil {
		storeName = v.store.DisplayName
		if storeName == "" {
			storeName = v.store.Name
		}
	}
	title := fmt.Sprintf("Documents - %s (%d)", storeName, len(v.documents))
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	// Loading state
	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
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
	if len(v.documents) == 0 {
		b.WriteString(v.styles.Muted.Render("No documents in this store."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Documents list
	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
		line := v.renderDocument(i, &v.documents[i])
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(v.documents) > visibleItems {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visibleItems, len(v.documents)),
			len(v.documents))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderDocument renders a single document line.
func (v *View) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := doc.DisplayName
	if name == "" {
		name = doc.Name
	}

	// Truncate name if needed
	maxNameLen := v.width/2 - 4
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	detail := fmt.Sprintf("%-10s  %s", doc.State, formatSize(doc.SizeBytes))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, detail))
	}

	stateStyle := v.styles.Muted
	switch doc.State {
	case domain.DocumentStateActive:
		stateStyle = v.styles.Success
	case domain.DocumentStateFailed:
		stateStyle = v.styles.Error
	case domain.DocumentStateProcessing:
		stateStyle = v.styles.Warning
	}

	return v.styles.Normal.Render(indicator) +
		v.styles.Normal.Render(fmt.Sprintf("%-*s  ", maxNameLen, name)) +
		stateStyle.Render(fmt.Sprintf("%-10s", doc.State)) +
		v.styles.Muted.Render("  "+formatSize(doc.SizeBytes))
}

// formatSize renders a byte count with IEC units.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [d] delete  [r] reload  [esc] back  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// Store returns the store whose documents are listed.
func (v *View) Store() *domain.Store {
	return v.store
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
