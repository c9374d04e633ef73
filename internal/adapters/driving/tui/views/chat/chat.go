// Package chat provides the question and answer view for one document.
package chat

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docu-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driving"
)

// View shows the transcript of one document and accepts new questions.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	pipeline driving.PipelineService
	ctx      context.Context

	transcript viewport.Model
	input      *input.QuestionInput
	status     *status.Bar

	document *domain.Conversation
	summary  string
	busy     bool
	width    int
	height   int
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, pipeline driving.PipelineService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		styles:     s,
		keymap:     km,
		pipeline:   pipeline,
		ctx:        context.Background(),
		transcript: viewport.New(80, 16),
		input:      input.NewQuestionInput(s),
		status:     status.NewBar(s, km),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context used for pipeline calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDocument opens a document and shows its stored history.
func (v *View) SetDocument(doc domain.Conversation) tea.Cmd {
	doc.History = slices.Clone(doc.History)
	v.document = &doc
	v.summary = ""
	v.busy = false
	v.input.Reset()
	v.status.Clear()
	v.status.SetTurns(doc.Turns())
	v.refresh()
	return v.input.Init()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		return v.handleAnswer(msg), nil

	case messages.SummaryReceived:
		return v.handleSummary(msg), nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	case keymap.Matches(k, v.keymap.Send):
		return v, v.ask()
	case keymap.Matches(k, v.keymap.Summarize):
		return v, v.summarize()
	case keymap.Matches(k, v.keymap.PageUp), keymap.Matches(k, v.keymap.PageDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) ask() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.busy || v.document == nil {
		return nil
	}
	if v.pipeline == nil {
		return errCmd(fmt.Errorf("pipeline service not available"))
	}

	v.busy = true
	v.status.SetState(status.StateThinking)

	ctx, svc, id := v.ctx, v.pipeline, v.document.DocumentID
	return func() tea.Msg {
		answer, err := svc.Ask(ctx, id, question)
		return messages.AnswerReceived{DocumentID: id, Question: question, Answer: answer, Err: err}
	}
}

func (v *View) summarize() tea.Cmd {
	if v.busy || v.document == nil {
		return nil
	}
	if v.pipeline == nil {
		return errCmd(fmt.Errorf("pipeline service not available"))
	}

	v.busy = true
	v.status.SetState(status.StateSummarizing)

	ctx, svc, id := v.ctx, v.pipeline, v.document.DocumentID
	return func() tea.Msg {
		summary, err := svc.Summarize(ctx, id)
		return messages.SummaryReceived{DocumentID: id, Summary: summary, Err: err}
	}
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
}

func (v *View) handleAnswer(msg messages.AnswerReceived) *View {
	if v.document == nil || msg.DocumentID != v.document.DocumentID {
		return v
	}
	v.busy = false
	if msg.Err != nil {
		// the question stays in the input so it can be retried
		v.status.SetState(status.StateError)
		v.status.SetMessage(msg.Err.Error())
		return v
	}

	v.document.AppendTurn(msg.Question, msg.Answer)
	v.input.Reset()
	v.status.SetState(status.StateReady)
	v.status.SetMessage("")
	v.status.SetTurns(v.document.Turns())
	v.refresh()
	v.transcript.GotoBottom()
	return v
}

func (v *View) handleSummary(msg messages.SummaryReceived) *View {
	if v.document == nil || msg.DocumentID != v.document.DocumentID {
		return v
	}
	v.busy = false
	if msg.Err != nil {
		v.status.SetState(status.StateError)
		v.status.SetMessage(msg.Err.Error())
		return v
	}

	v.summary = msg.Summary
	v.status.SetState(status.StateReady)
	v.status.SetMessage("")
	v.refresh()
	v.transcript.GotoBottom()
	return v
}

// refresh re-renders the transcript content.
func (v *View) refresh() {
	v.transcript.SetContent(v.renderTranscript())
}

func (v *View) renderTranscript() string {
	if v.document == nil {
		return ""
	}

	var b strings.Builder
	for _, m := range v.document.History {
		switch m.Role {
		case domain.RoleUser:
			b.WriteString(v.styles.User.Render("You: "))
		case domain.RoleAssistant:
			b.WriteString(v.styles.Assistant.Render("Assistant: "))
		case domain.RoleSystem:
			continue
		}
		b.WriteString(v.styles.Normal.Width(v.width).Render(m.Content))
		b.WriteString("\n\n")
	}

	if v.summary != "" {
		b.WriteString(v.styles.Subtitle.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Width(v.width).Render(v.summary))
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return v.styles.Muted.Render("No questions yet. Type one below and press enter.")
	}
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder

	title := "Chat"
	if v.document != nil {
		title = fmt.Sprintf("Chat - %s", v.document.DocumentName)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(v.transcript.View())
	b.WriteString("\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.status.View())

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// title, input box and status bar
	v.transcript.Width = width
	v.transcript.Height = max(height-8, 3)
	v.input.SetWidth(width)
	v.status.SetWidth(width)
	v.refresh()
}

// Document returns the open document, or nil.
func (v *View) Document() *domain.Conversation {
	return v.document
}

// Summary returns the last summary shown.
func (v *View) Summary() string {
	return v.summary
}

// Busy reports whether a request is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.status.State()
}

// Input returns the question currently typed.
func (v *View) Input() string {
	return v.input.Value()
}
