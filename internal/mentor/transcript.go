package mentor

import "sync"

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a mentor conversation.
type Message struct {
	Role    Role
	Content string
}

// Transcript is an ordered, append-only record of a conversation. It lives
// only in memory and is reset when the owning session is discarded; nothing
// is persisted and the server keeps no conversation state.
type Transcript struct {
	mu   sync.Mutex
	msgs []Message
}

// Append records one turn.
func (t *Transcript) Append(role Role, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.msgs = append(t.msgs, Message{Role: role, Content: content})
}

// Messages returns a copy of the conversation in order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.msgs)
}

// Reset discards the conversation.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.msgs = nil
}
