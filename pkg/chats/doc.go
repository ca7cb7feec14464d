// Package chats provides a provider-agnostic data model for LLM chat interactions.
//
// It is organized into sub-packages:
//   - [github.com/benswift/langchain/pkg/chats/role] — conversation roles (system, user, assistant)
//   - [github.com/benswift/langchain/pkg/chats/message] — text messages with a role and completion status
//   - [github.com/benswift/langchain/pkg/chats/chat] — mutable conversation container
//
// No provider or API code is included — chats is a foundation layer
// that adapters can build on.
package chats
