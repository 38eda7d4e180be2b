package protocol

import (
	"testing"
)

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	msg := NewMessage(TypePlayerAction, map[string]any{
		"action":    "ATTACK",
		"kingdomId": "k-1",
	})

	raw, err := Serialize(msg)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got := Deserialize(raw)

	if got.Type != msg.Type {
		t.Fatalf("type=%q want=%q", got.Type, msg.Type)
	}
	if got.MessageID != msg.MessageID {
		t.Fatalf("messageId=%q want=%q", got.MessageID, msg.MessageID)
	}
	if got.Timestamp != msg.Timestamp {
		t.Fatalf("timestamp=%d want=%d", got.Timestamp, msg.Timestamp)
	}
	if got.Payload["action"] != "ATTACK" || got.Payload["kingdomId"] != "k-1" {
		t.Fatalf("payload=%v", got.Payload)
	}
}

func TestSerialize_FillsMissingEnvelopeFields(t *testing.T) {
	raw, err := Serialize(Message{Type: TypePing})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got := Deserialize(raw)
	if got.MessageID == "" {
		t.Fatalf("messageId should be populated")
	}
	if got.Timestamp == 0 {
		t.Fatalf("timestamp should be populated")
	}
}

func TestDeserialize_MalformedInputNeverPanics(t *testing.T) {
	for _, raw := range []string{"", "{", "not json at all", `{"payload":{}}`} {
		got := Deserialize(raw)
		if got.Type != TypeError {
			t.Fatalf("raw=%q type=%q, want ERROR", raw, got.Type)
		}
		if got.Payload["code"] != CodeParseError {
			t.Fatalf("raw=%q code=%v, want PARSE_ERROR", raw, got.Payload["code"])
		}
	}
}

func TestDeserialize_ParseErrorCarriesRawText(t *testing.T) {
	got := Deserialize("{broken")
	if got.Payload["raw"] != "{broken" {
		t.Fatalf("raw=%v", got.Payload["raw"])
	}
}
