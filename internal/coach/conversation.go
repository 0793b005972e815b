package coach

// Conversation is the coach chat handle owned by one session. It is seeded
// once with the system instruction. The turns themselves live in the session
// messages, see workout.CoachHistory.
type Conversation struct {
	Model             string `json:"model"`
	SystemInstruction string `json:"systemInstruction"`
}

func NewConversation(model, systemInstruction string) *Conversation {
	return &Conversation{
		Model:             model,
		SystemInstruction: systemInstruction,
	}
}
