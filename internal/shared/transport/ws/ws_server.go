package ws

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"DewanRaja/internal/protocol"
	"DewanRaja/internal/shared/security"
	"DewanRaja/internal/shared/utils"
	"DewanRaja/modules/kit/logx"
)

// WsServer wraps one upgraded websocket connection: a read loop feeding
// the message handler and a write loop draining outChan. With needSecret
// enabled every frame is AES-CBC encrypted under the per-connection
// handshake key and zlib compressed.
type WsServer struct {
	conn     *websocket.Conn
	handler  MessageHandler
	outChan  chan protocol.Message
	property map[string]any
	sync.RWMutex
	needSecret bool
	done       chan struct{}
	closeOnce  sync.Once
	log        logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, needSecret bool, l logx.Logger) *WsServer {
	return &WsServer{
		conn:       wsConn,
		outChan:    make(chan protocol.Message, 1000),
		property:   make(map[string]any),
		needSecret: needSecret,
		done:       make(chan struct{}),
		log:        l,
	}
}

func (s *WsServer) Handler(h MessageHandler) {
	s.handler = h
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) Push(msg protocol.Message) {
	select {
	case s.outChan <- msg:
	case <-s.done:
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			e := fmt.Sprintf("%v", err)
			s.log.Error("ws readMsgLoop error", zap.String("err", e))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		text, ok := s.decode(data)
		if !ok {
			continue
		}

		// Deserialize never fails; garbage comes back as an ERROR
		// envelope the handler echoes to the client.
		msg := protocol.Deserialize(text)
		if s.handler != nil {
			s.handler.HandleMessage(s, msg)
		}
	}
}

// decode reverses the client's framing: inflate, then decrypt under the
// handshake key. A decrypt failure means the client lost the key, so a
// fresh handshake is initiated.
func (s *WsServer) decode(data []byte) (string, bool) {
	if !s.needSecret {
		return string(data), true
	}

	inflated, err := security.UnZip(data)
	if err != nil {
		s.log.Error("ws_server readMsgLoop unzip", zap.Error(err))
		return "", false
	}

	secretKey := s.GetProperty(SecretKey)
	if secretKey == nil {
		s.log.Error("ws_server readMsgLoop not found secretKey")
		return "", false
	}

	key := []byte(secretKey.(string))
	plain, err := security.AesCBCDecrypt(inflated, key, key)
	if err != nil {
		s.log.Error("ws_server readMsgLoop decrypt error", zap.Error(err))
		s.handshake()
		return "", false
	}
	return string(plain), true
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg, ok := <-s.outChan:
			if ok {
				s.write(msg)
			}
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg protocol.Message) {
	raw, err := protocol.Serialize(msg)
	if err != nil {
		s.log.Error("ws_server write serialize error", zap.Error(err))
		return
	}

	if !s.needSecret {
		if err := s.conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
			s.log.Error("ws_server write error", zap.Error(err))
		}
		return
	}

	secretKey := s.GetProperty(SecretKey)
	if secretKey == nil {
		s.log.Error("ws_server write not found secretKey", zap.String("type", string(msg.Type)))
		return
	}

	key := []byte(secretKey.(string))
	encrypted, err := security.AesCBCEncrypt([]byte(raw), key, key)
	if err != nil {
		s.log.Error("ws_server write encrypt error", zap.Error(err))
		return
	}

	deflated, err := security.Zip(encrypted)
	if err != nil {
		s.log.Error("ws_server write zip error", zap.Error(err))
		return
	}

	// Ciphertext is a binary byte stream, so it must not travel as a
	// text frame.
	if err := s.conn.WriteMessage(websocket.BinaryMessage, deflated); err != nil {
		s.log.Error("ws_server write error", zap.Error(err))
	}
}

// handshake issues (or re-issues) the per-connection encryption key. The
// frame itself is compressed but never encrypted; the client cannot have
// the key yet.
func (s *WsServer) handshake() {
	secretKey := ""
	key := s.GetProperty(SecretKey)
	if key == nil {
		secretKey = utils.RandSeq(16)
	} else {
		secretKey = key.(string)
	}

	raw, err := protocol.Serialize(protocol.NewMessage(handshakeType, map[string]any{"key": secretKey}))
	if err != nil {
		s.log.Error("ws_server handshake serialize error", zap.Error(err))
		return
	}

	s.SetProperty(SecretKey, secretKey)

	deflated, err := security.Zip([]byte(raw))
	if err != nil {
		s.log.Error("ws_server handshake zip error", zap.Error(err))
		return
	}

	if err := s.conn.WriteMessage(websocket.BinaryMessage, deflated); err != nil {
		s.log.Error("ws_server handshake write error", zap.Error(err))
	}
}
