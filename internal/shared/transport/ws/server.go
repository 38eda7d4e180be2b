package ws

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"DewanRaja/internal/shared/security"
	"DewanRaja/modules/kit/logx"
)

// Server upgrades HTTP requests to websocket connections. Authentication
// happens before the upgrade: the bearer token from the login endpoint
// travels either in the Authorization header or, for browser clients, in
// the token query parameter.
type Server struct {
	handler    MessageHandler
	needSecret bool
	log        logx.Logger
}

func NewServer(h MessageHandler, needSecret bool, l logx.Logger) *Server {
	return &Server{
		handler:    h,
		needSecret: needSecret,
		log:        l,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	uid, ok := s.authenticate(req)
	if !ok {
		http.Error(resp, "unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	wsConn, err := upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Info("websocket connected", zap.Int64("uid", uid), zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.needSecret, s.log)
	wsServer.SetProperty(ConnKeyUID, uid)
	wsServer.Handler(s.handler)
	wsServer.Run()
	if s.needSecret {
		wsServer.handshake()
	}
}

func (s *Server) authenticate(req *http.Request) (int64, bool) {
	token := req.URL.Query().Get("token")
	if token == "" {
		if after, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer "); ok {
			token = after
		}
	}
	if token == "" {
		return 0, false
	}

	claims, err := security.ParseToken(token)
	if err != nil {
		s.log.Warn("websocket token rejected", zap.Error(err))
		return 0, false
	}
	return claims.Uid, true
}
