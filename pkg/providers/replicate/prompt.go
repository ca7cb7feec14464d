package replicate

import (
	"fmt"
	"strings"

	"github.com/benswift/langchain/pkg/chats/chat"
	"github.com/benswift/langchain/pkg/chats/role"
)

// buildPrompt renders a conversation into the flat encoding the model
// expects: user turns as raw text, assistant turns wrapped in [INST] markers,
// turns joined by newlines. The first system message becomes the separate
// system prompt; later system messages are dropped.
func buildPrompt(c *chat.Chat) (systemPrompt, prompt string, err error) {
	var lines []string

	for _, m := range c.Turns() {
		switch m.Role {
		case role.User:
			lines = append(lines, m.Content)
		case role.Assistant:
			lines = append(lines, "[INST] "+m.Content+" [/INST]")
		default:
			return "", "", fmt.Errorf("replicate: cannot render role %q", m.Role)
		}
	}

	return c.SystemPrompt(), strings.Join(lines, "\n"), nil
}
