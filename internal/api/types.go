package api

const RoleUser = "user"

// FallbackReply is returned whenever the endpoint answers without a usable
// response field.
const FallbackReply = "No response from server"

// Prompt is the user turn sent to the chat endpoint.
type Prompt struct {
	Content string `json:"content"`
	Role    string `json:"role"`
	ID      string `json:"id"`
}

// ChatRequest is the body POSTed for every message.
type ChatRequest struct {
	Prompt     Prompt `json:"prompt"`
	ThreadID   string `json:"threadId"`
	ResponseID string `json:"responseId"`
}
