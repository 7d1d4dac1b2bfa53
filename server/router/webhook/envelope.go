package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ToolRequest is one tool invocation decoded from the voice platform envelope.
type ToolRequest struct {
	ToolCallID string
	Function   string
	CallID     string
	Args       map[string]any
}

type toolCall struct {
	ID       string `json:"id"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

type envelope struct {
	Message *struct {
		Call *struct {
			ID string `json:"id"`
		} `json:"call"`
		ToolCallList []toolCall `json:"toolCallList"`
		ToolCalls    []toolCall `json:"toolCalls"`
	} `json:"message"`
}

// parseToolRequest decodes either the platform envelope
//
//	{"message":{"call":{"id":..},"toolCallList":[{"id":..,"function":{"name":..,"arguments":{..}}}]}}
//
// or a flat argument object from a direct caller. Arguments may be an object
// or a JSON-encoded string. The call id is taken from message.call.id, then the
// call_id or vapi_call_id argument, then the tool call id.
func parseToolRequest(body []byte) (*ToolRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty request body")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}

	req := &ToolRequest{Args: map[string]any{}}
	if env.Message == nil {
		if err := json.Unmarshal(body, &req.Args); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
	} else {
		calls := env.Message.ToolCallList
		if len(calls) == 0 {
			calls = env.Message.ToolCalls
		}
		if len(calls) > 0 {
			req.ToolCallID = calls[0].ID
			req.Function = calls[0].Function.Name
			args, err := decodeArguments(calls[0].Function.Arguments)
			if err != nil {
				return nil, err
			}
			req.Args = args
		}
		if env.Message.Call != nil {
			req.CallID = env.Message.Call.ID
		}
	}

	if req.CallID == "" {
		req.CallID = req.String("call_id")
	}
	if req.CallID == "" {
		req.CallID = req.String("vapi_call_id")
	}
	if req.CallID == "" {
		req.CallID = req.ToolCallID
	}
	return req, nil
}

func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return args, nil
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
		if strings.TrimSpace(encoded) == "" {
			return args, nil
		}
		raw = json.RawMessage(encoded)
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return args, nil
}

// String returns an argument as a trimmed string. Numbers are formatted without exponent.
func (r *ToolRequest) String(key string) string {
	switch v := r.Args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Bool returns an argument as a boolean. Strings like "yes" and "true" count as true.
func (r *ToolRequest) Bool(key string) bool {
	switch v := r.Args[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1":
			return true
		}
	case float64:
		return v != 0
	}
	return false
}

// Int returns an argument as an int, or 0.
func (r *ToolRequest) Int(key string) int {
	switch v := r.Args[key].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return n
		}
	}
	return 0
}
