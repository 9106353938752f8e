package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/finsight-ai/internal/domain/agents"
)

// GetSystemPrompt builds the instruction block for one agent role.
func GetSystemPrompt(a agents.Agent) string {
	return fmt.Sprintf(`You are the %s of a financial document analysis team.
Backstory: %s
Goal: %s

Rules:
- Work only from the document text and the prior step's notes given to you.
- Cite concrete figures from the document whenever you use them.
- If the document does not contain what the user asks for, say so plainly.
- Answer in prose, no markdown code fences.`, a.Role, a.Backstory, a.Goal)
}

// GetUserPrompt builds the task message: the query, the document, and what the
// previous agent produced (empty on the first step).
func GetUserPrompt(t agents.Task, query, document, prior string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", t.Description)
	if t.ExpectedOutput != "" {
		fmt.Fprintf(&b, "Expected output: %s\n", t.ExpectedOutput)
	}
	fmt.Fprintf(&b, "\nUser query: %s\n", query)
	if prior != "" {
		fmt.Fprintf(&b, "\nNotes from the previous step:\n%s\n", prior)
	}
	fmt.Fprintf(&b, "\nDocument text:\n%s\n", document)
	return b.String()
}
