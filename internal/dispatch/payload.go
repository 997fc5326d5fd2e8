package dispatch

import "encoding/json"

// TriggerPayload is the structured document a triggering host sends on
// standard input when invoking the dispatcher (§4.H). Fields beyond
// session_id/hook_event_name/agent_id are ignored but preserved in Raw.
type TriggerPayload struct {
	SessionID     string `json:"session_id"`
	HookEventName string `json:"hook_event_name"`
	AgentID       string `json:"agent_id"`
	Raw           []byte `json:"-"`
}

// ParsePayload parses raw as a TriggerPayload. Malformed or empty input
// yields a zero-valued payload rather than an error: the dispatcher
// still runs actions, just without session/agent correlation.
func ParsePayload(raw []byte) TriggerPayload {
	var payload TriggerPayload
	_ = json.Unmarshal(raw, &payload)
	payload.Raw = raw
	return payload
}
