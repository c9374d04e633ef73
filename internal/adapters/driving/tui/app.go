package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles

	documentsView *documents.View
	chatView      *chat.View

	// openID is a document to open on start instead of the list.
	openID string

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		documentsView: documents.NewView(s, ports.Conversations),
		chatView:      chat.NewView(s, ports.Pipeline),
		currentView:   messages.ViewDocuments,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.documentsView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

// OpenDocument makes the app start in the chat view for a document.
func (a *App) OpenDocument(documentID string) *App {
	a.openID = documentID
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("docu")}
	if a.openID != "" {
		cmds = append(cmds, a.loadDocument(a.openID))
	} else {
		cmds = append(cmds, a.documentsView.Init())
	}
	return tea.Batch(cmds...)
}

// loadDocument fetches one conversation and turns it into a selection.
func (a *App) loadDocument(id string) tea.Cmd {
	ctx, svc := a.ctx, a.ports.Conversations
	return func() tea.Msg {
		doc, err := svc.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				err = fmt.Errorf("document %q not found", id)
			}
			return messages.ErrorOccurred{Err: err}
		}
		return messages.DocumentSelected{Document: *doc}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

	case messages.Quit:
		return a, tea.Quit

	case messages.ViewChanged:
		a.currentView = msg.View
		a.err = nil
		if msg.View == messages.ViewDocuments {
			// turn counts may have changed while chatting
			return a, a.documentsView.Init()
		}
		return a, nil

	case messages.DocumentSelected:
		a.currentView = messages.ViewChat
		a.err = nil
		return a, a.chatView.SetDocument(msg.Document)

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.AnswerReceived, messages.SummaryReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewDocuments {
			a.documentsView, cmd = a.documentsView.Update(msg)
		}
		return a, cmd
	}

	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	default:
		body = a.documentsView.View()
	}

	if a.err != nil && a.currentView == messages.ViewChat {
		body += "\n" + a.styles.Error.Render(a.err.Error())
	}
	return body
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and resizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.documentsView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
}
