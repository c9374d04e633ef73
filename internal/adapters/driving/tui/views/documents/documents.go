// Package documents provides the document list view component for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

// View lists ingested documents and opens one for chat.
type View struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	conversations driving.ConversationService
	ctx           context.Context

	documents    []domain.Conversation
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, conversations driving.ConversationService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		keymap:        keymap.DefaultKeyMap(),
		conversations: conversations,
		ctx:           context.Background(),
		documents:     []domain.Conversation{},
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	ctx := v.ctx
	svc := v.conversations
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("conversation service not available")}
		}
		docs, err := svc.List(ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documents = msg.Documents
		v.err = nil
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keymap.Select):
		if v.selected < len(v.documents) {
			doc := v.documents[v.selected]
			return v, func() tea.Msg {
				return messages.DocumentSelected{Document: doc}
			}
		}
	case keymap.Matches(k, v.keymap.Reload):
		v.loading = true
		return v, v.loadDocuments()
	case keymap.Matches(k, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}

	return v, nil
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, separator, help and padding
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents ingested yet. Run: docu ingest <file>"))
	default:
		visibleItems := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visibleItems {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visibleItems, len(v.documents)),
				len(v.documents))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] chat  [r] reload  [q] quit"))

	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.Conversation) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := doc.DocumentName
	if name == "" {
		name = doc.DocumentID
	}
	maxNameLen := max(v.width/2-4, 10)
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	detail := fmt.Sprintf("%s  %d chunks  %d turns", doc.IndexName, doc.ChunkCount, doc.Turns())

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, detail))
	}
	return v.styles.Normal.Render(indicator) +
		v.styles.Normal.Render(fmt.Sprintf("%-*s  ", maxNameLen, name)) +
		v.styles.Muted.Render(detail)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.Conversation {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Conversation {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// Loading reports whether a list request is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
