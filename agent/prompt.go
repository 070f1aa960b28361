package agent

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/assist"
)

// Prompts are a mapping from language tag to template, so adding a language
// is a pure data addition here and in systemPrompts.

var systemPrompts = map[assist.Language]string{
	assist.Portuguese: `Você é Arash+, um assistente financeiro especializado.
Data atual: %s.
Seja direto, técnico e baseie suas respostas nos dados fornecidos.
Sempre cite as fontes quando usar informações externas.
Se algum dado estiver marcado como indisponível, diga ao usuário que não foi
possível obtê-lo em vez de ignorá-lo.
Suas respostas são informativas e não constituem recomendação de investimento.
Responda em português.`,
	assist.English: `You are Arash+, a specialized financial assistant.
Current date: %s.
Be direct, technical and base your answers on the provided data.
Always cite sources when using external information.
If a piece of data is marked unavailable, tell the user it could not be
retrieved instead of silently ignoring it.
Your answers are informative and are not financial advice.
Respond in English.`,
}

var promptTemplates = map[assist.Language]*template.Template{
	assist.Portuguese: template.Must(template.New("pt").Parse(
		`Dados de mercado e notícias:

{{.Context}}
{{- if .History}}
Conversa recente:
{{range .History}}{{.Role}}: {{.Text}}
{{end}}
{{- end}}
Pergunta: {{.Question}}`)),
	assist.English: template.Must(template.New("en").Parse(
		`Market data and news:

{{.Context}}
{{- if .History}}
Recent conversation:
{{range .History}}{{.Role}}: {{.Text}}
{{end}}
{{- end}}
Question: {{.Question}}`)),
}

// systemPrompt returns the persona preamble for the language, stamped with
// the current date. Unknown tags fall back to English.
func systemPrompt(lang assist.Language) string {
	p, ok := systemPrompts[lang]
	if !ok {
		p = systemPrompts[assist.English]
	}
	return fmt.Sprintf(p, time.Now().Format("2006-01-02"))
}

// renderPrompt assembles the user-side prompt: serialized context, the
// trailing turns of history, and the question.
func renderPrompt(sctx *assist.StructuredContext, question string, history *assist.Conversation, maxHistory int) (string, error) {
	tmpl, ok := promptTemplates[sctx.Lang]
	if !ok {
		tmpl = promptTemplates[assist.English]
	}

	var turns []assist.ConversationTurn
	if history != nil {
		turns = history.LastN(maxHistory)
	}

	var b strings.Builder
	err := tmpl.Execute(&b, struct {
		Context  string
		History  []assist.ConversationTurn
		Question string
	}{
		Context:  sctx.Markdown(),
		History:  turns,
		Question: question,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
