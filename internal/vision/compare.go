// Package vision implements LLM-assisted screenshot comparison. It is the
// one operation that talks to a network collaborator instead of a local CLI.
package vision

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

const systemPrompt = `You compare two mobile app screenshots. ` +
	`Answer the user's question about them with a single word: "true" or "false". ` +
	`Do not explain. If you cannot tell, answer "false".`

// ChatClient sends a prompt plus images to a language-model chat interface
// and returns the textual reply.
type ChatClient interface {
	Complete(ctx context.Context, system, user string, images [][]byte) (string, error)
}

// Comparer answers yes/no questions about a pair of screenshots.
type Comparer struct {
	chat ChatClient
	log  zerolog.Logger
}

func NewComparer(chat ChatClient, log zerolog.Logger) *Comparer {
	return &Comparer{chat: chat, log: log}
}

// Compare asks the model prompt about screenshots a and b. Any transport or
// parse failure yields false; the error is logged, not surfaced, because the
// caller only ever branches on the boolean.
func (c *Comparer) Compare(ctx context.Context, a, b []byte, prompt string) bool {
	if c.chat == nil {
		c.log.Warn().Msg("screenshot comparison requested but no chat client is configured")
		return false
	}

	reply, err := c.chat.Complete(ctx, systemPrompt, prompt, [][]byte{a, b})
	if err != nil {
		c.log.Warn().Err(err).Msg("screenshot comparison failed")
		return false
	}

	result, ok := parseBool(reply)
	if !ok {
		c.log.Warn().Str("reply", reply).Msg("screenshot comparison reply was not a boolean")
		return false
	}
	return result
}

// parseBool accepts "true"/"false" (any case, surrounding punctuation
// tolerated) and nothing else.
func parseBool(reply string) (value, ok bool) {
	cleaned := strings.ToLower(strings.TrimSpace(reply))
	cleaned = strings.Trim(cleaned, ".!\"'`")
	switch cleaned {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}
