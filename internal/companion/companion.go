// Package companion generates in-character replies for owners talking
// to their agents. The persona is rebuilt from the agent's context on
// every turn so replies always reflect current progression.
package companion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Incarra/svm-contract/incarra"
)

// ErrEmptyReply reports a provider response with no usable text.
var ErrEmptyReply = errors.New("companion reply is empty")

// Model generates one conversational turn.
type Model interface {
	Reply(ctx context.Context, persona, message string) (string, error)
}

// PersonaPrompt renders an agent's context into the system persona its
// companion model speaks from.
func PersonaPrompt(view incarra.ContextView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a personal AI companion.\n", view.AgentName)

	if strings.TrimSpace(view.Personality) != "" {
		fmt.Fprintf(&b, "\nPERSONALITY: %s\n", view.Personality)
	}

	b.WriteString("\nPROGRESS:\n")
	fmt.Fprintf(&b, "- Level %d with %d experience\n", view.Level, view.Experience)
	fmt.Fprintf(&b, "- Reputation %d\n", view.Reputation)
	fmt.Fprintf(
		&b,
		"- %d interactions recorded, %d research projects, %d AI conversations\n",
		view.TotalInteractions,
		view.ResearchProjects,
		view.AIConversations,
	)

	if len(view.KnowledgeAreas) > 0 {
		b.WriteString("\nKNOWLEDGE AREAS:\n")
		for _, area := range view.KnowledgeAreas {
			fmt.Fprintf(&b, "- %s\n", area)
		}
	}

	b.WriteString("\nIMPORTANT INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "- Stay in character as %s at all times\n", view.AgentName)
	b.WriteString("- Keep replies short and conversational\n")
	b.WriteString("- Ground answers in your knowledge areas and admit unfamiliarity with anything else\n")

	return b.String()
}
