package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"DewanRaja/internal/protocol"
	"DewanRaja/internal/shared/security"
)

func wsURL(httpURL, token string) string {
	u := "ws" + strings.TrimPrefix(httpURL, "http")
	if token != "" {
		u += "?token=" + token
	}
	return u
}

func dialOK(t *testing.T, httpURL, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(httpURL, token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestServer_RejectsConnectionWithoutToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	srv := httptest.NewServer(NewServer(newTestGateway(t, newFakeRepo()), false, testLogger()))
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv.URL, ""), nil)
	if err == nil {
		t.Fatalf("dial succeeded without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestServer_PingPongOverPlainSocket(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	srv := httptest.NewServer(NewServer(newTestGateway(t, newFakeRepo()), false, testLogger()))
	defer srv.Close()

	token, err := security.Award(1)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	conn := dialOK(t, srv.URL, token)

	ping := protocol.NewMessage(protocol.TypePing, nil)
	raw, err := protocol.Serialize(ping)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, reply, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	pong := protocol.Deserialize(string(reply))
	if pong.Type != protocol.TypePong {
		t.Fatalf("reply type=%s", pong.Type)
	}
	if pong.Payload["pingId"] != ping.MessageID {
		t.Fatalf("pingId=%v want %s", pong.Payload["pingId"], ping.MessageID)
	}
}

func TestServer_EncryptedFramingRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	srv := httptest.NewServer(NewServer(newTestGateway(t, newFakeRepo()), true, testLogger()))
	defer srv.Close()

	token, err := security.Award(1)
	if err != nil {
		t.Fatalf("Award: %v", err)
	}
	conn := dialOK(t, srv.URL, token)

	// First frame is the compressed, unencrypted handshake carrying the
	// session key.
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read handshake: %v", err)
	}
	inflated, err := security.UnZip(frame)
	if err != nil {
		t.Fatalf("unzip handshake: %v", err)
	}
	handshake := protocol.Deserialize(string(inflated))
	if handshake.Type != handshakeType {
		t.Fatalf("first frame type=%s", handshake.Type)
	}
	key, _ := handshake.Payload["key"].(string)
	if len(key) != 16 {
		t.Fatalf("key=%q", key)
	}

	ping := protocol.NewMessage(protocol.TypePing, nil)
	raw, err := protocol.Serialize(ping)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	encrypted, err := security.AesCBCEncrypt([]byte(raw), []byte(key), []byte(key))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	deflated, err := security.Zip(encrypted)
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, deflated); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, reply, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	inflated, err = security.UnZip(reply)
	if err != nil {
		t.Fatalf("unzip reply: %v", err)
	}
	plain, err := security.AesCBCDecrypt(inflated, []byte(key), []byte(key))
	if err != nil {
		t.Fatalf("decrypt reply: %v", err)
	}
	pong := protocol.Deserialize(strings.TrimRight(string(plain), "\x00"))
	if pong.Type != protocol.TypePong {
		t.Fatalf("reply type=%s", pong.Type)
	}
}
