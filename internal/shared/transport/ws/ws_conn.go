package ws

import "DewanRaja/internal/protocol"

// WSConn is the per-connection surface message handlers see. Properties
// carry connection-scoped state (authenticated uid, handshake key,
// gateway session).
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	RemoveProperty(key string)
	Addr() string
	Push(msg protocol.Message)
	Close()
	// Done is closed when the connection shuts down.
	Done() <-chan struct{}
}

// MessageHandler receives every decoded envelope from a connection's
// read loop, one at a time.
type MessageHandler interface {
	HandleMessage(conn WSConn, msg protocol.Message)
}

const (
	SecretKey  = "secretKey"
	ConnKeyUID = "uid"
)

// handshakeType sits outside the protocol's closed message set because
// the handshake frame travels before encryption is established.
const handshakeType = protocol.Type("HANDSHAKE")

type Handshake struct {
	Key string `json:"key"`
}
