// Package conversation manages message history, context-window trimming,
// and JSON persistence for chat conversations, grounded on the teacher's
// persistence.FileMessageStore idiom.
package conversation

import "time"

// Role identifies the speaker of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one append-only chat turn.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a persisted sequence of messages with a derived title.
type Conversation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    []Message `json:"messages"`
	Model       string    `json:"model"`
	ProjectPath string    `json:"project_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	titled bool
}

const titleTimestampLayout = "2006-01-02 15:04:05"

// defaultTitle returns the timestamp-derived placeholder title used until
// the first user message arrives.
func defaultTitle(t time.Time) string {
	return t.Format(titleTimestampLayout)
}
