package event

import (
	"encoding/json"
	"fmt"
)

// Decode returns the payload of evt as T. Payloads published in-process are
// already typed, so the conversion is usually a type assertion; payloads read
// back from a dead-letter file or the event log arrive as raw JSON or maps
// and are re-decoded.
func Decode[T any](evt Event) (T, error) {
	var out T
	switch p := evt.Payload.(type) {
	case T:
		return p, nil
	case *T:
		if p != nil {
			return *p, nil
		}
		return out, fmt.Errorf("%s %s: nil payload", ErrMsgDecodePayload, evt.Type)
	case json.RawMessage:
		return out, unmarshalPayload(evt.Type, p, &out)
	case []byte:
		return out, unmarshalPayload(evt.Type, p, &out)
	}

	raw, err := json.Marshal(evt.Payload)
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", ErrMsgDecodePayload, evt.Type, err)
	}
	return out, unmarshalPayload(evt.Type, raw, &out)
}

func unmarshalPayload(t Type, raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgDecodePayload, t, err)
	}
	return nil
}
