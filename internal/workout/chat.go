package workout

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn in the coach conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

func (m ChatMessage) IsLogSummary() bool {
	return m.Role == RoleUser && IsLogSummary(m.Content)
}

// CoachHistory returns the completed exchanges of messages: every user
// message directly answered by an assistant message, with that answer.
// Unanswered user messages, like one whose coach call failed, are left out.
func CoachHistory(messages []ChatMessage) []ChatMessage {
	history := make([]ChatMessage, 0, len(messages))
	for i := 0; i+1 < len(messages); i++ {
		if messages[i].Role == RoleUser && messages[i+1].Role == RoleAssistant {
			history = append(history, messages[i], messages[i+1])
			i++
		}
	}
	return history
}
