package llm

import "context"

// RequestEvent captures one model call for the logging decorator.
type RequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventSink receives a RequestEvent per model call. Implementations must
// tolerate being called on the request path; failures are logged and
// swallowed, never propagated to the caller.
type EventSink interface {
	AppendLLMRequest(ctx context.Context, ev RequestEvent) error
}
