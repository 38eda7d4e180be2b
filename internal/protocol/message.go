package protocol

import (
	"strconv"
	"time"

	"DewanRaja/internal/shared/utils"
)

// Type discriminates the closed set of wire message kinds exchanged
// between the browser client and the game server.
type Type string

const (
	TypeGameStateUpdate Type = "GAME_STATE_UPDATE"
	TypePlayerAction    Type = "PLAYER_ACTION"
	TypeAttackResult    Type = "ATTACK_RESULT"
	TypeError           Type = "ERROR"
	TypePing            Type = "PING"
	TypePong            Type = "PONG"
)

// Message is the wire envelope. Every message carries the discriminant,
// a send timestamp (epoch ms) and a globally unique id; the payload shape
// depends on Type.
type Message struct {
	Type      Type           `json:"type"`
	Timestamp int64          `json:"timestamp"`
	MessageID string         `json:"messageId"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Error payload codes.
const (
	CodeParseError = "PARSE_ERROR"
)

// NewMessage builds an envelope with timestamp and id already filled.
func NewMessage(t Type, payload map[string]any) Message {
	return Message{
		Type:      t,
		Timestamp: time.Now().UnixMilli(),
		MessageID: NextMessageID(),
		Payload:   payload,
	}
}

// NewErrorMessage builds a well-formed ERROR envelope; raw carries the
// offending input when the error came from a parse failure.
func NewErrorMessage(code, detail, raw string) Message {
	payload := map[string]any{
		"code":    code,
		"message": detail,
	}
	if raw != "" {
		payload["raw"] = raw
	}
	return NewMessage(TypeError, payload)
}

// NextMessageID issues a message id; snowflake when available, otherwise
// a timestamp-derived fallback so the envelope is never left without one.
func NextMessageID() string {
	if id, err := utils.NextSnowflakeID(); err == nil {
		return strconv.FormatInt(id, 10)
	}
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}
