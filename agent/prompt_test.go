package agent

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/assist"
)

func TestSystemPrompt(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	pt := systemPrompt(assist.Portuguese)
	if !strings.Contains(pt, "Responda em português") {
		t.Errorf("portuguese persona missing:\n%s", pt)
	}
	if !strings.Contains(pt, today) {
		t.Errorf("system prompt must be stamped with the current date %s:\n%s", today, pt)
	}
	if !strings.Contains(pt, "não constituem recomendação") {
		t.Errorf("the disclaimer must be part of the persona:\n%s", pt)
	}

	en := systemPrompt(assist.English)
	if !strings.Contains(en, "Respond in English") {
		t.Errorf("english persona missing:\n%s", en)
	}

	// unknown tags fall back to English
	if got := systemPrompt("fr"); got != en {
		t.Errorf("unknown language must fall back to English:\n%s", got)
	}
}

func TestRenderPrompt(t *testing.T) {
	sctx := &assist.StructuredContext{Lang: assist.English, Query: "how is NVDA doing?"}

	history := assist.NewConversation()
	history.Append(assist.ConversationTurn{Role: assist.RoleUser, Text: "old question"})
	history.Append(assist.ConversationTurn{Role: assist.RoleAssistant, Text: "old answer"})
	history.Append(assist.ConversationTurn{Role: assist.RoleUser, Text: "recent question"})
	history.Append(assist.ConversationTurn{Role: assist.RoleAssistant, Text: "recent answer"})

	prompt, err := renderPrompt(sctx, "how is NVDA doing?", history, 2)
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}

	if !strings.Contains(prompt, "Question: how is NVDA doing?") {
		t.Errorf("question missing:\n%s", prompt)
	}
	// even with nothing extracted the context statement is present
	if !strings.Contains(prompt, "No market data or news was attached") {
		t.Errorf("empty context must still be stated:\n%s", prompt)
	}
	// history is bounded to the trailing turns
	if !strings.Contains(prompt, "recent question") || !strings.Contains(prompt, "recent answer") {
		t.Errorf("trailing history missing:\n%s", prompt)
	}
	if strings.Contains(prompt, "old question") {
		t.Errorf("history must be bounded to the last turns:\n%s", prompt)
	}
}

func TestRenderPromptNoHistory(t *testing.T) {
	sctx := &assist.StructuredContext{Lang: assist.Portuguese}
	prompt, err := renderPrompt(sctx, "e agora?", nil, 10)
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	if !strings.Contains(prompt, "Pergunta: e agora?") {
		t.Errorf("portuguese template not used:\n%s", prompt)
	}
	if strings.Contains(prompt, "Conversa recente") {
		t.Errorf("the history section must be omitted when there is none:\n%s", prompt)
	}
}

func TestRenderPromptUnknownLanguage(t *testing.T) {
	sctx := &assist.StructuredContext{Lang: "fr"}
	prompt, err := renderPrompt(sctx, "eh?", nil, 10)
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	if !strings.Contains(prompt, "Question: eh?") {
		t.Errorf("unknown language must fall back to the English template:\n%s", prompt)
	}
}
