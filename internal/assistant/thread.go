package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Greeting opens every new chat thread.
const Greeting = "Hi! I’m your AI HealthMate. Ask me anything about health."

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderBot  Sender = "bot"
	SenderUser Sender = "user"
)

// Message is one entry in a chat thread.
type Message struct {
	From Sender `json:"from"`
	Text string `json:"text"`
}

// Thread is the chat popup's view model. A new thread starts with the
// greeting; Send appends the user's message and the responder's reply in
// order.
type Thread struct {
	mu        sync.Mutex
	responder Responder
	messages  []Message
}

// NewThread returns a thread seeded with the greeting.
func NewThread(r Responder) *Thread {
	return &Thread{
		responder: r,
		messages:  []Message{{From: SenderBot, Text: Greeting}},
	}
}

// Messages returns a copy of the conversation so far.
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Send appends the user's message, asks the responder for a reply and
// appends it. Blank messages are ignored. The user's message stays in the
// thread even when the responder fails.
func (t *Thread) Send(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	t.mu.Lock()
	t.messages = append(t.messages, Message{From: SenderUser, Text: text})
	t.mu.Unlock()

	reply, err := t.responder.Respond(ctx, text)
	if err != nil {
		slog.Warn("Thread.Send responder failed", "error", err)
		return "", fmt.Errorf("assistant reply: %w", err)
	}

	t.mu.Lock()
	t.messages = append(t.messages, Message{From: SenderBot, Text: reply})
	t.mu.Unlock()
	return reply, nil
}
