package relay

import "time"

// Turn is one role-tagged message in a conversation.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// SystemTurn returns a system turn carrying prompt.
func SystemTurn(prompt string) Turn {
	return Turn{Role: RoleSystem, Content: prompt, Timestamp: time.Now()}
}

// UserTurn returns a user turn carrying text.
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Content: text, Timestamp: time.Now()}
}

// AssistantTurn returns an assistant turn carrying text.
func AssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Content: text, Timestamp: time.Now()}
}
