package protocol

import (
	"encoding/json"
	"time"
)

// Serialize encodes an envelope to its text wire form, filling in the
// timestamp and message id when the caller left them empty. Round-trips
// losslessly through Deserialize.
func Serialize(msg Message) (string, error) {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	if msg.MessageID == "" {
		msg.MessageID = NextMessageID()
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Deserialize parses a wire frame back into an envelope. It never fails:
// malformed input is downgraded to an ERROR envelope carrying the raw
// text, so the transport always hands a valid message upstream.
func Deserialize(raw string) Message {
	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return NewErrorMessage(CodeParseError, "failed to parse message", raw)
	}
	if msg.Type == "" {
		return NewErrorMessage(CodeParseError, "message has no type", raw)
	}
	return msg
}
