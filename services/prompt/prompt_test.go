package prompt

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slackassistant/models"
)

func bot(text string) models.ThreadMessage {
	return models.ThreadMessage{AuthorKind: models.AuthorKindBot, Text: text}
}

func human(text string) models.ThreadMessage {
	return models.ThreadMessage{AuthorKind: models.AuthorKindHuman, Text: text}
}

func threadStartMarker() models.ThreadMessage {
	return models.ThreadMessage{
		AuthorKind: models.AuthorKindBot,
		SubType:    models.SubtypeAssistantAppThread,
		Text:       "New Assistant Thread",
	}
}

func system(content string) models.PromptMessage {
	return models.PromptMessage{Role: models.PromptRoleSystem, Content: content}
}

func user(content string) models.PromptMessage {
	return models.PromptMessage{Role: models.PromptRoleUser, Content: content}
}

func assistant(content string) models.PromptMessage {
	return models.PromptMessage{Role: models.PromptRoleAssistant, Content: content}
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name     string
		raw      []models.ThreadMessage
		expected []models.PromptMessage
	}{
		{
			name:     "empty thread yields only the system instruction",
			raw:      nil,
			expected: []models.PromptMessage{system("S")},
		},
		{
			name:     "greeting is dropped",
			raw:      []models.ThreadMessage{bot("greeting"), human("hello")},
			expected: []models.PromptMessage{system("S"), user("hello")},
		},
		{
			name:     "single greeting message yields only the system instruction",
			raw:      []models.ThreadMessage{bot("greeting")},
			expected: []models.PromptMessage{system("S")},
		},
		{
			name:     "single marker message yields only the system instruction",
			raw:      []models.ThreadMessage{threadStartMarker()},
			expected: []models.PromptMessage{system("S")},
		},
		{
			name:     "single user message is kept",
			raw:      []models.ThreadMessage{human("hello")},
			expected: []models.PromptMessage{system("S"), user("hello")},
		},
		{
			name:     "marker and greeting with no user turn yet",
			raw:      []models.ThreadMessage{threadStartMarker(), bot("greeting")},
			expected: []models.PromptMessage{system("S")},
		},
		{
			name: "full conversation keeps later assistant turns",
			raw: []models.ThreadMessage{
				threadStartMarker(),
				bot("greeting"),
				human("what is go?"),
				bot("a language"),
				human("who made it?"),
			},
			expected: []models.PromptMessage{
				system("S"),
				user("what is go?"),
				assistant("a language"),
				user("who made it?"),
			},
		},
		{
			name: "several leading bot messages are all dropped",
			raw:  []models.ThreadMessage{bot("greeting"), bot("5 random numbers"), human("thanks")},
			expected: []models.PromptMessage{
				system("S"),
				user("thanks"),
			},
		},
		{
			name: "empty and whitespace-only messages are skipped",
			raw:  []models.ThreadMessage{human(""), human("  \n"), human("hi"), bot("")},
			expected: []models.PromptMessage{
				system("S"),
				user("hi"),
			},
		},
		{
			name: "marker in the middle of the thread is dropped",
			raw:  []models.ThreadMessage{human("one"), threadStartMarker(), human("two")},
			expected: []models.PromptMessage{
				system("S"),
				user("one"),
				user("two"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildPrompt(tt.raw, "S"))
		})
	}
}

func TestBuildPrompt_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	texts := []string{"", " ", "hello", "greeting", "how are you?", "ok"}

	for i := 0; i < 500; i++ {
		raw := make([]models.ThreadMessage, rng.Intn(8))
		for j := range raw {
			switch rng.Intn(4) {
			case 0:
				raw[j] = threadStartMarker()
			case 1:
				raw[j] = bot(texts[rng.Intn(len(texts))])
			default:
				raw[j] = human(texts[rng.Intn(len(texts))])
			}
		}

		out := BuildPrompt(raw, "S")

		require.NotEmpty(t, out)
		assert.Equal(t, system("S"), out[0], "system entry must be first")
		assert.LessOrEqual(t, len(out), len(raw)+1)

		systemCount := 0
		for _, msg := range out {
			if msg.Role == models.PromptRoleSystem {
				systemCount++
			}
			assert.NotEqual(t, "New Assistant Thread", msg.Content, "thread start marker must never be replayed")
			assert.NotEmpty(t, strings.TrimSpace(msg.Content))
		}
		assert.Equal(t, 1, systemCount)

		if len(out) > 1 {
			assert.NotEqual(t, models.PromptRoleAssistant, out[1].Role, "no assistant entry directly after system")
		}
	}
}

func wordCount(content string) int {
	return len(strings.Fields(content))
}

func TestTrim(t *testing.T) {
	t.Run("prompt within budget is unchanged", func(t *testing.T) {
		messages := []models.PromptMessage{system("be nice"), user("hello there")}

		assert.Equal(t, messages, Trim(messages, 100, wordCount))
	})

	t.Run("drops oldest entries first", func(t *testing.T) {
		messages := []models.PromptMessage{
			system("S"),
			user("one two three"),
			assistant("four five"),
			user("six"),
			assistant("seven"),
			user("eight"),
		}

		trimmed := Trim(messages, 4, wordCount)

		assert.Equal(t, []models.PromptMessage{
			system("S"),
			user("six"),
			assistant("seven"),
			user("eight"),
		}, trimmed)
	})

	t.Run("assistant entry exposed by trimming is removed", func(t *testing.T) {
		messages := []models.PromptMessage{
			system("S"),
			user("one two three"),
			assistant("four"),
			user("five"),
		}

		trimmed := Trim(messages, 3, wordCount)

		assert.Equal(t, []models.PromptMessage{system("S"), user("five")}, trimmed)
	})

	t.Run("system and newest entry survive an impossible budget", func(t *testing.T) {
		messages := []models.PromptMessage{
			system("a very long system instruction"),
			user("older"),
			user("the current question"),
		}

		trimmed := Trim(messages, 1, wordCount)

		assert.Equal(t, []models.PromptMessage{
			system("a very long system instruction"),
			user("the current question"),
		}, trimmed)
	})

	t.Run("system only prompt", func(t *testing.T) {
		messages := []models.PromptMessage{system("S")}

		assert.Equal(t, messages, Trim(messages, 0, wordCount))
	})

	t.Run("does not modify the input", func(t *testing.T) {
		messages := []models.PromptMessage{system("S"), user("a b c"), assistant("d"), user("e")}
		original := append([]models.PromptMessage(nil), messages...)

		Trim(messages, 2, wordCount)

		assert.Equal(t, original, messages)
	})
}
