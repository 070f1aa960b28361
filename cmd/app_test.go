package cmd

import (
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/etnz/assist"
)

func TestHistoryRoundTrip(t *testing.T) {
	*historyFlag = filepath.Join(t.TempDir(), "conversation.jsonl")

	// a missing history file is a fresh start, not an error
	conv, err := DecodeConversation()
	if err != nil {
		t.Fatalf("DecodeConversation on missing file: %v", err)
	}
	if conv.Len() != 0 {
		t.Fatalf("expected an empty conversation, got %d turns", conv.Len())
	}

	turns := []assist.ConversationTurn{
		{Role: assist.RoleUser, Text: "how is NVDA doing?", Lang: assist.English, Time: time.Now().UTC()},
		{Role: assist.RoleAssistant, Text: "NVDA closed up.", Lang: assist.English, Time: time.Now().UTC()},
	}
	for _, turn := range turns {
		if err := AppendTurn(turn); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}

	conv, err = DecodeConversation()
	if err != nil {
		t.Fatalf("DecodeConversation: %v", err)
	}
	if conv.Len() != len(turns) {
		t.Fatalf("got %d turns, want %d", conv.Len(), len(turns))
	}
	for i, turn := range conv.LastN(conv.Len()) {
		if turn.Role != turns[i].Role || turn.Text != turns[i].Text {
			t.Errorf("turn %d = %+v, want %+v", i, turn, turns[i])
		}
	}
}

func TestNewAssemblerStopWords(t *testing.T) {
	defer func() { *stopWordsFlag = "" }()
	*stopWordsFlag = "FOO, bar ,"

	asm := newAssembler()
	got := asm.Extractor.Extract("FOO BAR NVDA")
	if !slices.Equal(got, []assist.Identifier{"NVDA"}) {
		t.Errorf("configured stop words not honored, got %v", got)
	}
	if asm.Market == nil || asm.News == nil {
		t.Errorf("assembler must be wired with live providers")
	}
}

func TestLanguage(t *testing.T) {
	defer func(prev string) { *langFlag = prev }(*langFlag)

	*langFlag = "en"
	if got := language(); got != assist.English {
		t.Errorf("language() = %s, want en", got)
	}
	*langFlag = "pt"
	if got := language(); got != assist.Portuguese {
		t.Errorf("language() = %s, want pt", got)
	}
}
