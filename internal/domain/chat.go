package domain

import "time"

// ChatEntry is one answered question, ready for the chat log. Both the
// question and its reply travel together so sinks can persist the exchange
// atomically.
type ChatEntry struct {
	AskedAt  time.Time `json:"asked_at"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Intent   string    `json:"intent"`
}

// NewChatEntry stamps an exchange with the current package clock.
func NewChatEntry(question, answer string, intent IntentKind) ChatEntry {
	return ChatEntry{
		AskedAt:  clock.Now().UTC(),
		Question: question,
		Answer:   answer,
		Intent:   intent.String(),
	}
}
