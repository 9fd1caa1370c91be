package models

// Turn roles. Conversation history is rendered as "<role>: <content>" lines,
// so these strings are part of the prompt contract.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single conversation exchange unit. Immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
