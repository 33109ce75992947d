package conversation

import (
	"time"
)

// TokenCounter estimates the token cost of a piece of text.
type TokenCounter func(string) int

// New starts an empty conversation for model against projectPath. The id
// and default title are both derived from the creation timestamp, matching
// the conversation store's <YYYYMMDD_HHMMSS>.json naming.
func New(model, projectPath string) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:          now.Format("20060102_150405"),
		Title:       defaultTitle(now),
		Model:       model,
		ProjectPath: projectPath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Append adds a message, refreshes UpdatedAt, and derives the title from
// the first user message if one hasn't been derived yet.
func (c *Conversation) Append(m Message) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	c.Messages = append(c.Messages, m)
	c.UpdatedAt = m.Timestamp
	if !c.titled && m.Role == RoleUser {
		c.Title = truncateTitle(m.Content)
		c.titled = true
	}
}

func truncateTitle(content string) string {
	if len(content) <= 60 {
		return content
	}
	return content[:60] + "..."
}

// BuildHistoryForPrompt returns the subset of persisted messages that fits
// within maxContextTokens-reserveTokens, admitting newest-first and always
// keeping at least the most recent message, restored to chronological order.
func (c *Conversation) BuildHistoryForPrompt(maxContextTokens, reserveTokens int, count TokenCounter) []Message {
	budget := maxContextTokens - reserveTokens

	var total int
	for _, m := range c.Messages {
		if m.Role == RoleUser || m.Role == RoleAssistant {
			total += count(m.Content)
		}
	}
	if total <= budget {
		out := make([]Message, len(c.Messages))
		copy(out, c.Messages)
		return out
	}

	var selected []Message
	used := 0
	for i := len(c.Messages) - 1; i >= 0; i-- {
		m := c.Messages[i]
		tok := count(m.Content)
		if len(selected) == 0 {
			selected = append(selected, m)
			used += tok
			continue
		}
		if used+tok > budget {
			break
		}
		selected = append(selected, m)
		used += tok
	}
	for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
		selected[i], selected[j] = selected[j], selected[i]
	}
	return selected
}
