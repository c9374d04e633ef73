package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docu-cli/internal/core/domain"
	"github.com/custodia-labs/docu-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docu-cli/internal/logger"
)

// DefaultSystemPrompt establishes the assistant's role and grounding rule.
const DefaultSystemPrompt = "You are a helpful legal assistant. Answer in plain language using only the " +
	"provided context. If the answer is not in the context, say that the document does not cover it."

// DefaultSectionSummaryPrompt summarises one group of chunks.
// %[1]d is the section number and %[2]s the joined chunk texts.
const DefaultSectionSummaryPrompt = "You are a helpful legal assistant. Summarize this section of a legal " +
	"document in plain English.\n\nSection %[1]d:\n%[2]s\n\nSection %[1]d Summary:"

// contextSeparator separates chunk texts inside a prompt.
const contextSeparator = "\n\n"

// Compose builds the message list for one question: the system message,
// every history message in stored order, then a single user message
// carrying the context block and the question.
func Compose(systemPrompt string, history []domain.Message, contextChunks []string, question string) []domain.Message {
	messages := make([]domain.Message, 0, len(history)+2)
	messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, domain.Message{
		Role:    domain.RoleUser,
		Content: "Context:\n" + strings.Join(contextChunks, contextSeparator) + "\n\nQuestion: " + question + "\nAnswer:",
	})
	return messages
}

// HistoryWindow limits how much history is folded into a prompt.
// The zero value keeps everything.
type HistoryWindow struct {
	// MaxTurns keeps only the most recent question/answer pairs.
	MaxTurns int

	// MaxTokens drops the oldest pairs until the history fits. Needs Counter.
	MaxTokens int

	Counter driven.TokenCounter
}

// Apply returns the suffix of history that fits the window.
// Pairs are dropped whole, oldest first. history is not modified.
func (w HistoryWindow) Apply(history []domain.Message) []domain.Message {
	start := 0
	if w.MaxTurns > 0 && len(history) > 2*w.MaxTurns {
		start = len(history) - 2*w.MaxTurns
	}

	if w.MaxTokens > 0 && w.Counter != nil {
		total := 0
		for _, m := range history[start:] {
			total += w.Counter.Count(m.Content)
		}
		for total > w.MaxTokens && start < len(history) {
			end := min(start+2, len(history))
			for _, m := range history[start:end] {
				total -= w.Counter.Count(m.Content)
			}
			start = end
		}
	}

	if start > 0 {
		logger.Debug("History window dropped %d of %d messages", start, len(history))
	}
	return history[start:]
}

// Composer builds prompts using templates from an optional PromptStore.
type Composer struct {
	prompts driven.PromptStore
	window  HistoryWindow
}

// NewComposer creates a composer. prompts may be nil.
func NewComposer(prompts driven.PromptStore, window HistoryWindow) *Composer {
	return &Composer{prompts: prompts, window: window}
}

// Compose builds the message list for a chat turn.
func (c *Composer) Compose(history []domain.Message, contextChunks []string, question string) []domain.Message {
	system := c.load(driven.PromptChatSystem, DefaultSystemPrompt)
	return Compose(system, c.window.Apply(history), contextChunks, question)
}

// SectionPrompt builds the single-message prompt summarising one chunk group.
// section is one-based.
func (c *Composer) SectionPrompt(section int, chunks []string) []domain.Message {
	tmpl := c.load(driven.PromptSectionSummary, DefaultSectionSummaryPrompt)
	return []domain.Message{{
		Role:    domain.RoleUser,
		Content: fmt.Sprintf(tmpl, section, strings.Join(chunks, contextSeparator)),
	}}
}

func (c *Composer) load(name, fallback string) string {
	if c.prompts == nil {
		return fallback
	}
	p, err := c.prompts.Load(name)
	if err != nil || strings.TrimSpace(p) == "" {
		logger.Debug("Using built-in %s prompt: %v", name, err)
		return fallback
	}
	return p
}
