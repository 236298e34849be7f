// Package chat manages conversation history for multi-turn LLM sessions.
//
// A Conversation is an ordered, append-only log of role/content messages
// anchored by a system prompt. It serializes to JSON for persistence and
// trims its oldest exchanges to stay within a token budget:
//
//	conv := chat.New("You are a helpful assistant.")
//	conv.Append(llm.RoleUser, "Hello")
//	removed := conv.TrimToLimit(counter, 3000)
//	resp, err := client.Complete(ctx, llm.Request{Messages: conv.Messages()})
package chat
