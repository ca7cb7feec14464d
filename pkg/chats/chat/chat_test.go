package chat_test

import (
	"testing"

	"github.com/benswift/langchain/pkg/chats/chat"
	"github.com/benswift/langchain/pkg/chats/message"
	"github.com/benswift/langchain/pkg/chats/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_And_Append(t *testing.T) {
	c := chat.New(message.New(role.User, "hi"))
	assert.Equal(t, 1, c.Len())

	c.Append(message.New(role.Assistant, "hello"))
	assert.Equal(t, 2, c.Len())

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, role.Assistant, last.Role)
}

func TestLast_Empty(t *testing.T) {
	var c chat.Chat

	_, ok := c.Last()
	assert.False(t, ok)
}

func TestMessages_ReturnsCopy(t *testing.T) {
	c := chat.New(message.New(role.User, "hi"))

	msgs := c.Messages()
	msgs[0].Content = "mutated"

	fresh := c.Messages()
	assert.Equal(t, "hi", fresh[0].Content)
}

func TestSystemPrompt_FirstWins(t *testing.T) {
	c := chat.New(
		message.New(role.System, "first"),
		message.New(role.User, "hi"),
		message.New(role.System, "second"),
	)

	assert.Equal(t, "first", c.SystemPrompt())
}

func TestSystemPrompt_None(t *testing.T) {
	c := chat.New(message.New(role.User, "hi"))
	assert.Empty(t, c.SystemPrompt())
}

func TestTurns_SkipsSystem(t *testing.T) {
	c := chat.New(
		message.New(role.System, "sys"),
		message.New(role.User, "u1"),
		message.New(role.Assistant, "a1"),
		message.New(role.User, "u2"),
	)

	turns := c.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "u1", turns[0].Content)
	assert.Equal(t, "a1", turns[1].Content)
	assert.Equal(t, "u2", turns[2].Content)
}
