// Package search provides the grounded question view for the TUI.
package search

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
	"github.com/custodia-labs/corpus-cli/internal/core/ports/driving"
)

// View represents the question view with input, answer display, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	statusbar *status.Bar

	searchService driving.SearchService
	storeService  driving.StoreService
	ctx           context.Context

	// scope holds the store resource names questions are grounded on.
	scope []string

	result     *domain.SearchResult
	selected   int // selected citation index
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = answer mode (navigating)
}

// scopeLoadedMsg carries the store scope resolved when the view starts.
type scopeLoadedMsg struct {
	scope []string
	err   error
}

// NewView creates a new question view. The store service resolves which
// stores questions are grounded on.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	storeService driving.StoreService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		storeService:  storeService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		ready:         false,
		focusInput:    true, // Start in input mode
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view. The store scope is resolved on first entry
// and kept until the view is recreated.
func (v *View) Init() tea.Cmd {
	if len(v.scope) == 0 {
		return tea.Batch(v.input.Init(), v.loadScope())
	}
	return v.input.Init()
}

// loadScope returns a command that resolves which stores to ground on.
func (v *View) loadScope() tea.Cmd {
	return func() tea.Msg {
		if v.storeService == nil {
			return scopeLoadedMsg{err: fmt.Errorf("store service not available")}
		}

		stores, err := v.storeService.List(v.ctx)
		if err != nil {
			return scopeLoadedMsg{err: err}
		}

		scope := make([]string, 0, domain.MaxSearchStores)
		for i := range stores {
			if len(scope) == domain.MaxSearchStores {
				break
			}
			scope = append(scope, stores[i].Name)
		}
		return scopeLoadedMsg{scope: scope}
	}
}

// Update handles messages for the question view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case scopeLoadedMsg:
		if msg.err != nil {
			v.err = msg.err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.err.Error())
			return v, nil
		}
		v.scope = msg.scope
		return v, nil

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to input component
	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	return v, inputCmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc always signals to go back to menu
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Enter in input mode submits the question
	if msg.Type == tea.KeyEnter && v.focusInput {
		query := v.input.Value()
		if query == "" {
			return v, nil
		}
		if len(v.scope) == 0 {
			v.err = ErrNoStores
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(ErrNoStores.Error())
			return v, nil
		}
		v.statusbar.SetState(status.StateAsking)
		v.focusInput = false // Move to answer mode while waiting
		v.input.Blur()
		cmd := v.performSearch(query)
		return v, cmd
	}

	// Input mode: all keys go to input
	if v.focusInput {
		v.input, _ = v.input.Update(msg)
		return v, nil
	}

	// Answer mode: navigate citations or start a new question
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.moveUp()
		return v, nil
	case tea.KeyDown:
		v.moveDown()
		return v, nil
	}

	switch msg.String() {
	case "k":
		v.moveUp()
		return v, nil
	case "j":
		v.moveDown()
		return v, nil
	case "n":
		// New question: clear input and focus it
		v.focusInput = true
		v.input.Focus()
		v.input.SetValue("")
		return v, nil
	}

	return v, nil
}

// moveUp selects the previous citation.
func (v *View) moveUp() {
	if v.selected > 0 {
		v.selected--
	}
}

// moveDown selects the next citation.
func (v *View) moveDown() {
	if v.result != nil && v.selected < len(v.result.Citations)-1 {
		v.selected++
	}
}

// performSearch asks the backend and returns the grounded answer.
func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		result, err := v.searchService.Search(v.ctx, domain.SearchQuery{
			Query:      query,
			StoreNames: v.scope,
		})
		return messages.SearchCompleted{Result: result, Err: err}
	}
}

// handleSearchCompleted processes the grounded answer.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.result = msg.Result
	v.selected = 0
	v.statusbar.SetState(status.StateAnswer)
	if msg.Result != nil {
		v.statusbar.SetCitationCount(len(msg.Result.Citations))
	}

	// Stay in answer mode after a successful question
	v.focusInput = false
	v.input.Blur()
}

// View renders the question view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	// Header
	header := v.styles.Title.Render("Corpus")
	sections = append(sections, header, "")

	// Question input
	inputView := v.input.View()
	sections = append(sections, inputView)

	// Scope line
	sections = append(sections, v.styles.Muted.Render(v.scopeLine()), "")

	// Error display
	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	// Answer and citations
	if v.result != nil {
		sections = append(sections, v.renderAnswer())
	}

	// Status bar at bottom
	sections = append(sections, "")
	statusView := v.statusbar.View()
	sections = append(sections, statusView)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// scopeLine describes how many stores the next question spans.
func (v *View) scopeLine() string {
	switch len(v.scope) {
	case 0:
		return "No stores in scope"
	case 1:
		return "Grounding on 1 store"
	default:
		return fmt.Sprintf("Grounding on %d stores", len(v.scope))
	}
}

// renderAnswer renders the answer paragraph and its citations.
func (v *View) renderAnswer() string {
	var b strings.Builder

	answer := v.result.Answer
	if answer == "" {
		b.WriteString(v.styles.Muted.Render("No answer was generated."))
		b.WriteString("\n")
	} else {
		wrapWidth := v.width - 4
		if wrapWidth < 20 {
			wrapWidth = 20
		}
		b.WriteString(v.styles.Normal.Width(wrapWidth).Render(answer))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	if len(v.result.Citations) == 0 {
		b.WriteString(v.styles.Muted.Render("No supporting passages were found."))
		return b.String()
	}

	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Sources (%d):", len(v.result.Citations))))
	b.WriteString("\n")

	for i := range v.result.Citations {
		b.WriteString(v.renderCitation(i, &v.result.Citations[i]))
		b.WriteString("\n")
	}

	return b.String()
}

// renderCitation renders a single citation line.
func (v *View) renderCitation(index int, c *domain.Citation) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	label := fmt.Sprintf("[%d] %s", index+1, c.Source)

	snippet := strings.ReplaceAll(c.Snippet, "\n", " ")
	maxSnippetLen := v.width - len(label) - 8
	if maxSnippetLen < 10 {
		maxSnippetLen = 10
	}
	if len(snippet) > maxSnippetLen {
		snippet = snippet[:maxSnippetLen-3] + "..."
	}

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%s  %s", indicator, label, snippet))
	}

	return v.styles.Normal.Render(indicator+label) +
		v.styles.Muted.Render("  "+snippet)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Allocate space to components
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current question text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the question text.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Scope returns the store names questions are grounded on.
func (v *View) Scope() []string {
	return v.scope
}

// SetScope replaces the store scope.
func (v *View) SetScope(scope []string) {
	v.scope = scope
}

// Result returns the current grounded answer.
func (v *View) Result() *domain.SearchResult {
	return v.result
}

// SelectedIndex returns the index of the selected citation.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedCitation returns the currently selected citation.
func (v *View) SelectedCitation() *domain.Citation {
	if v.result == nil || v.selected >= len(v.result.Citations) {
		return nil
	}
	return &v.result.Citations[v.selected]
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// Reset resets the view to initial input mode. The store scope survives
// so repeated questions do not re-list stores.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.result = nil
	v.selected = 0
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
