package assist

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Language is a two-letter language tag selecting prompt templates and the
// answer language.
type Language string

const (
	English    Language = "en"
	Portuguese Language = "pt"
)

// Role is the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message of the chat session. Turns are never
// mutated after creation.
type ConversationTurn struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	Lang Language  `json:"lang,omitempty"`
	Time time.Time `json:"time"`
}

// Conversation is the append-only chronological list of turns owned by the
// session. It is safe to read concurrently with the assembler fan-out since
// the fan-out never mutates it.
type Conversation struct {
	turns []ConversationTurn
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation { return &Conversation{} }

// Append adds a turn at the end of the conversation.
func (c *Conversation) Append(t ConversationTurn) { c.turns = append(c.turns, t) }

// Len returns the number of turns.
func (c *Conversation) Len() int { return len(c.turns) }

// LastN returns the n most recent turns in chronological order.
func (c *Conversation) LastN(n int) []ConversationTurn {
	if len(c.turns) <= n {
		return c.turns
	}
	return c.turns[len(c.turns)-n:]
}

// LastUserTexts returns the text of the n most recent user turns, most
// recent first. The assembler re-runs the extractor on them to resolve
// elliptical follow-ups like "and what about now?".
func (c *Conversation) LastUserTexts(n int) []string {
	var texts []string
	for i := len(c.turns) - 1; i >= 0 && len(texts) < n; i-- {
		if c.turns[i].Role == RoleUser {
			texts = append(texts, c.turns[i].Text)
		}
	}
	return texts
}

// EncodeTurn appends a single turn to w in JSONL format, one turn per line.
func EncodeTurn(w io.Writer, t ConversationTurn) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("cannot encode conversation turn: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// DecodeConversation reads a JSONL stream of turns into a Conversation.
func DecodeConversation(r io.Reader) (*Conversation, error) {
	c := NewConversation()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var t ConversationTurn
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("invalid conversation line %d: %w", line, err)
		}
		c.Append(t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}
