package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"DewanRaja/internal/kingdom/actor"
	"DewanRaja/internal/kingdom/entity"
	"DewanRaja/internal/protocol"
	"DewanRaja/internal/shared/actor/messages"
	"DewanRaja/internal/shared/transport"
	"DewanRaja/modules/kit/logx"
)

// Error payload codes the gateway emits on top of the protocol's own.
const (
	codeUnauthorized    = "UNAUTHORIZED"
	codeForbidden       = "FORBIDDEN"
	codeKingdomNotFound = "KINGDOM_NOT_FOUND"
	codeInvalidAction   = "INVALID_ACTION"
	codeActionFailed    = "ACTION_FAILED"
	codeUnsupportedType = "UNSUPPORTED_TYPE"
	codeInternal        = "INTERNAL_ERROR"
)

const (
	connKeySession   = "gatewaySession"
	defaultPingEvery = 30 * time.Second
)

// Gateway routes decoded envelopes into the kingdom runtime. PLAYER_ACTION
// dispatches through the actor mailbox and answers with ATTACK_RESULT
// plus a GAME_STATE_UPDATE delta against the last snapshot this
// connection saw; PING/PONG feeds the latency tracker; every tracked
// outgoing message sits in the per-connection retry handler until the
// client acknowledges it.
type Gateway struct {
	rt            *actor.Runtime
	log           logx.Logger
	retryInterval time.Duration
	retryCheck    time.Duration
	pingEvery     time.Duration
}

func NewGateway(rt *actor.Runtime, retryInterval, retryCheck time.Duration, l logx.Logger) *Gateway {
	if retryInterval <= 0 {
		retryInterval = 3 * time.Second
	}
	if retryCheck <= 0 {
		retryCheck = time.Second
	}
	return &Gateway{
		rt:            rt,
		log:           l,
		retryInterval: retryInterval,
		retryCheck:    retryCheck,
		pingEvery:     defaultPingEvery,
	}
}

// session carries the connection-scoped gateway state: latency history,
// delivery bookkeeping, per-kingdom previous snapshots for delta updates
// and the set of kingdoms this uid already proved ownership of.
type session struct {
	latency *protocol.LatencyTracker
	retry   *protocol.RetryHandler

	mu         sync.Mutex
	prev       map[string]map[string]any
	authorized map[string]bool
}

func (g *Gateway) session(conn WSConn) *session {
	if s, ok := conn.GetProperty(connKeySession).(*session); ok {
		return s
	}
	s := &session{
		latency:    protocol.NewLatencyTracker(),
		retry:      protocol.NewRetryHandler(g.retryInterval, g.retryCheck),
		prev:       make(map[string]map[string]any),
		authorized: make(map[string]bool),
	}
	conn.SetProperty(connKeySession, s)
	s.retry.Start()
	go g.pump(conn, s)
	return s
}

// pump owns the connection's periodic work: re-pushing envelopes the
// retry handler flagged, and probing the client with pings.
func (g *Gateway) pump(conn WSConn, s *session) {
	resend := time.NewTicker(g.retryCheck)
	defer resend.Stop()
	ping := time.NewTicker(g.pingEvery)
	defer ping.Stop()

	for {
		select {
		case <-resend.C:
			for _, msg := range s.retry.PendingRetries() {
				conn.Push(msg)
			}
		case <-ping.C:
			p := protocol.NewMessage(protocol.TypePing, nil)
			s.latency.RecordPing(p.MessageID)
			conn.Push(p)
		case <-conn.Done():
			s.retry.Stop()
			return
		}
	}
}

func (g *Gateway) HandleMessage(conn WSConn, msg protocol.Message) {
	ctx := transport.NewContext("WS " + string(msg.Type))
	defer transport.WriteAccessLog(ctx, g.log)

	s := g.session(conn)
	if ack, ok := msg.Payload["ack"].(string); ok && ack != "" {
		s.retry.Ack(ack)
	}

	switch msg.Type {
	case protocol.TypePing:
		conn.Push(protocol.NewMessage(protocol.TypePong, map[string]any{"pingId": msg.MessageID}))
		transport.SetBizCode(ctx, transport.OK)

	case protocol.TypePong:
		if pingID, ok := msg.Payload["pingId"].(string); ok {
			s.latency.RecordPong(pingID)
		}
		transport.SetBizCode(ctx, transport.OK)

	case protocol.TypeError:
		// Deserialize downgraded a malformed frame; echo the rejection
		// so the client learns its message never reached a handler.
		conn.Push(msg)
		transport.SetBizCode(ctx, transport.InvalidParam)
		transport.SetErrorReason(ctx, protocol.CodeParseError)

	case protocol.TypePlayerAction:
		g.handlePlayerAction(ctx, conn, s, msg)

	default:
		conn.Push(protocol.NewErrorMessage(codeUnsupportedType, "unsupported message type: "+string(msg.Type), ""))
		transport.SetBizCode(ctx, transport.InvalidParam)
	}
}

func (g *Gateway) handlePlayerAction(ctx context.Context, conn WSConn, s *session, msg protocol.Message) {
	uid, ok := conn.GetProperty(ConnKeyUID).(int64)
	if !ok {
		conn.Push(protocol.NewErrorMessage(codeUnauthorized, "connection is not authenticated", ""))
		transport.SetBizCode(ctx, transport.Unauthorized)
		return
	}

	action, _ := msg.Payload["action"].(string)
	kingdomID, _ := msg.Payload["kingdomId"].(string)
	if action == "" || kingdomID == "" {
		conn.Push(protocol.NewErrorMessage(codeInvalidAction, "action and kingdomId are required", ""))
		transport.SetBizCode(ctx, transport.InvalidParam)
		return
	}
	data, _ := msg.Payload["data"].(map[string]any)

	if code, reason := g.authorize(ctx, s, uid, kingdomID); code != transport.OK {
		conn.Push(protocol.NewErrorMessage(reason, "kingdom "+kingdomID+": "+errorDetail(reason), ""))
		transport.SetBizCode(ctx, transport.BizCode(code))
		transport.SetErrorReason(ctx, reason)
		return
	}

	result, err := g.rt.Dispatch(ctx, &messages.KingdomAction{
		Type:      messages.ActionType(action),
		KingdomID: entity.KingdomID(kingdomID),
		Payload:   data,
	})
	if err != nil {
		g.log.WithContext(ctx).Error("ws action dispatch failed",
			zap.String("action", action),
			zap.String("kingdomId", kingdomID),
			zap.Error(err),
		)
		conn.Push(protocol.NewErrorMessage(codeInternal, "internal server error", ""))
		transport.SetBizCode(ctx, transport.BizCode(actor.CodeFromError(err)))
		return
	}

	if !result.Success {
		reason, _ := result.Result["error"].(string)
		if reason == "" {
			reason = "action rejected"
		}
		conn.Push(protocol.NewErrorMessage(codeActionFailed, reason, ""))
		transport.SetBizCode(ctx, transport.InvalidParam)
		transport.SetErrorReason(ctx, reason)
		return
	}

	if messages.ActionType(action) == messages.ActionAttack {
		g.send(conn, s, protocol.NewMessage(protocol.TypeAttackResult, result.Result))
	}
	g.pushStateUpdate(ctx, conn, s, kingdomID)
	transport.SetBizCode(ctx, transport.OK)
}

// authorize proves the uid owns the kingdom before any action touches
// it. Positive results are cached on the session; a store failure denies
// rather than letting the action through unchecked.
func (g *Gateway) authorize(ctx context.Context, s *session, uid int64, kingdomID string) (int, string) {
	s.mu.Lock()
	ok := s.authorized[kingdomID]
	s.mu.Unlock()
	if ok {
		return transport.OK, ""
	}

	snap, err := g.rt.LoadState(ctx, entity.KingdomID(kingdomID))
	if err != nil {
		return transport.SystemError, codeInternal
	}
	if !snap.Found || snap.View == nil {
		return transport.NotFound, codeKingdomNotFound
	}
	if snap.View.Kingdom.UserID != uid {
		return transport.Forbidden, codeForbidden
	}

	s.mu.Lock()
	s.authorized[kingdomID] = true
	s.mu.Unlock()
	return transport.OK, ""
}

// pushStateUpdate sends the kingdom's state as a delta against the last
// snapshot this connection received; the first update after connect is
// the full state.
func (g *Gateway) pushStateUpdate(ctx context.Context, conn WSConn, s *session, kingdomID string) {
	snap, err := g.rt.LoadState(ctx, entity.KingdomID(kingdomID))
	if err != nil || !snap.Found || snap.View == nil {
		if err != nil {
			g.log.WithContext(ctx).Error("ws state update load failed",
				zap.String("kingdomId", kingdomID),
				zap.Error(err),
			)
		}
		return
	}

	current, err := viewToMap(snap.View)
	if err != nil {
		g.log.WithContext(ctx).Error("ws state update encode failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	delta := protocol.CreateDeltaUpdate(s.prev[kingdomID], current)
	s.prev[kingdomID] = current
	s.mu.Unlock()

	if len(delta) == 0 {
		return
	}
	delta["kingdomId"] = kingdomID
	g.send(conn, s, protocol.NewMessage(protocol.TypeGameStateUpdate, delta))
}

// send pushes a tracked envelope: it stays pending in the retry handler
// until the client acks it or attempts run out.
func (g *Gateway) send(conn WSConn, s *session, msg protocol.Message) {
	s.retry.Register(msg, 0, nil, func(m protocol.Message) {
		g.log.Warn("ws message delivery not acknowledged",
			zap.String("messageId", m.MessageID),
			zap.String("type", string(m.Type)),
		)
	})
	conn.Push(msg)
}

// viewToMap flattens a state view into the generic map shape the delta
// diff operates on.
func viewToMap(v *entity.StateView) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func errorDetail(code string) string {
	switch code {
	case codeKingdomNotFound:
		return "kingdom not found"
	case codeForbidden:
		return "kingdom belongs to another player"
	default:
		return "could not verify ownership"
	}
}
