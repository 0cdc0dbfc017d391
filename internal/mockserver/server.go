// Package mockserver is an in-memory login service and gateway speaking
// the full wire protocol. It backs integration tests and the serve-mock
// command; it is not a production server.
package mockserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/lexicard-dev/lexicard/pkg/protocol"
)

// Server holds the whole mock world: issued tokens, rooms, and live
// connections.
type Server struct {
	logger     *slog.Logger
	gatewayURL string
	upgrader   websocket.Upgrader

	mu       sync.Mutex
	tokens   map[string]string // token -> username
	nextUID  uint64
	nextTok  int
	nextRoom int
	rooms    map[string]*room
	conns    map[uint64]*conn
}

// New builds a mock server. gatewayURL is what the login endpoint
// advertises; leave it empty to let clients fall back to their default.
func New(logger *slog.Logger, gatewayURL string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:     logger.With("component", "mockserver"),
		gatewayURL: gatewayURL,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		tokens:  make(map[string]string),
		nextUID: 10000,
		rooms:   make(map[string]*room),
		conns:   make(map[uint64]*conn),
	}
}

// Router returns the HTTP surface: POST /login and GET /ws.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/login", s.handleLogin)
	r.Get("/ws", s.handleWS)
	return r
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeviceID string `json:"device_id"`
		AppID    string `json:"app_id"`
		IsGuest  bool   `json:"is_guest"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.nextTok++
	token := fmt.Sprintf("mock-token-%d", s.nextTok)
	username := fmt.Sprintf("guest_%d", s.nextTok)
	s.tokens[token] = username
	s.mu.Unlock()

	s.logger.Info("login issued", "username", username, "device", req.DeviceID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":     true,
		"session_id":  token,
		"username":    username,
		"gateway_url": s.gatewayURL,
	})
}

// conn is one gateway connection. Writes are serialized by writeMu so
// the room broadcast path and the request/response path never interleave
// a frame.
type conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex

	uid      uint64
	nickname string
	roomID   string
	authed   bool
}

func (c *conn) sendEnvelope(msgType protocol.MessageID, body []byte) error {
	env := protocol.Envelope{Serial: 0, Type: msgType, Body: body}
	frame := protocol.EncodeFrame(env.Encode())

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.BinaryMessage, frame)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "err", err)
		return
	}
	c := &conn{ws: ws}
	defer s.dropConn(c)

	reassembler := protocol.NewReassembler(0)
	for {
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		reassembler.Append(data)

		for {
			payload, err := reassembler.Next()
			if err != nil {
				s.logger.Warn("closing on oversized frame", "err", err)
				return
			}
			if payload == nil {
				break
			}
			env, err := protocol.DecodeEnvelope(payload)
			if err != nil {
				s.logger.Warn("dropping malformed frame", "err", err)
				continue
			}
			if err := s.dispatch(c, env); err != nil {
				s.logger.Warn("dispatch failed", "type", env.Type.String(), "err", err)
			}
		}
	}
}

func (s *Server) dropConn(c *conn) {
	s.mu.Lock()
	if c.uid != 0 {
		delete(s.conns, c.uid)
		if rm := s.rooms[c.roomID]; rm != nil {
			rm.removePlayer(c.uid)
			if rm.empty() {
				delete(s.rooms, rm.id)
			} else {
				s.broadcastRoomStateLocked(rm)
			}
		}
	}
	s.mu.Unlock()
	c.ws.Close()
}

func (s *Server) dispatch(c *conn, env *protocol.Envelope) error {
	if !c.authed && env.Type != protocol.MsgAuthRequest {
		// Unauthenticated traffic is dropped, matching the real gateway.
		return nil
	}

	switch env.Type {
	case protocol.MsgAuthRequest:
		return s.handleAuth(c, env.Body)
	case protocol.MsgGetRoomListRequest:
		return s.handleRoomList(c)
	case protocol.MsgCreateRoomRequest:
		return s.handleCreateRoom(c, env.Body)
	case protocol.MsgJoinRoomRequest:
		return s.handleJoinRoom(c, env.Body)
	case protocol.MsgLeaveRoomRequest:
		return s.handleLeaveRoom(c)
	case protocol.MsgGetReadyRequest:
		return s.handleGetReady(c, env.Body)
	case protocol.MsgGameActionRequest:
		return s.handleGameAction(c, env.Body)
	default:
		s.logger.Debug("unhandled message", "type", env.Type.String())
		return nil
	}
}

func (s *Server) handleAuth(c *conn, body []byte) error {
	req, err := protocol.DecodeAuthRequest(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	username, ok := s.tokens[req.Token]
	if !ok {
		s.mu.Unlock()
		resp := protocol.AuthResponse{Ret: protocol.CodeAuthFailed, ErrorMsg: "unknown token"}
		return c.sendEnvelope(protocol.MsgAuthResponse, resp.Encode())
	}
	s.nextUID++
	c.uid = s.nextUID
	c.nickname = username
	c.authed = true
	s.conns[c.uid] = c
	s.mu.Unlock()

	resp := protocol.AuthResponse{
		Ret:      protocol.CodeOK,
		UID:      c.uid,
		ConnID:   fmt.Sprintf("conn-%d", c.uid),
		Nickname: username,
		Gold:     100,
		IsGuest:  req.IsGuest,
	}
	return c.sendEnvelope(protocol.MsgAuthResponse, resp.Encode())
}

func (s *Server) handleRoomList(c *conn) error {
	s.mu.Lock()
	resp := protocol.GetRoomListResponse{Ret: protocol.CodeOK}
	for _, rm := range s.rooms {
		resp.Rooms = append(resp.Rooms, rm.summary())
	}
	s.mu.Unlock()
	return c.sendEnvelope(protocol.MsgGetRoomListResponse, resp.Encode())
}

func (s *Server) handleCreateRoom(c *conn, body []byte) error {
	req, err := protocol.DecodeCreateRoomRequest(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if c.roomID != "" {
		s.mu.Unlock()
		resp := protocol.RoomResponse{Ret: protocol.CodePlayerAlreadyInRoom}
		return c.sendEnvelope(protocol.MsgCreateRoomResponse, resp.Encode())
	}
	s.nextRoom++
	rm := newRoom(fmt.Sprintf("room-%d", s.nextRoom), req.RoomName)
	rm.addPlayer(c)
	s.rooms[rm.id] = rm
	c.roomID = rm.id
	detail := rm.detail()
	s.mu.Unlock()

	resp := protocol.RoomResponse{Ret: protocol.CodeOK, Detail: detail}
	return c.sendEnvelope(protocol.MsgCreateRoomResponse, resp.Encode())
}

func (s *Server) handleJoinRoom(c *conn, body []byte) error {
	req, err := protocol.DecodeJoinRoomRequest(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if c.roomID != "" {
		s.mu.Unlock()
		resp := protocol.RoomResponse{Ret: protocol.CodePlayerAlreadyInRoom}
		return c.sendEnvelope(protocol.MsgJoinRoomResponse, resp.Encode())
	}
	rm := s.rooms[req.RoomID]
	if rm == nil {
		s.mu.Unlock()
		resp := protocol.RoomResponse{Ret: protocol.CodeInvalidRoom}
		return c.sendEnvelope(protocol.MsgJoinRoomResponse, resp.Encode())
	}
	if rm.full() {
		s.mu.Unlock()
		resp := protocol.RoomResponse{Ret: protocol.CodeNotAllowed}
		return c.sendEnvelope(protocol.MsgJoinRoomResponse, resp.Encode())
	}
	rm.addPlayer(c)
	c.roomID = rm.id
	detail := rm.detail()
	s.broadcastRoomStateLocked(rm)
	s.mu.Unlock()

	resp := protocol.RoomResponse{Ret: protocol.CodeOK, Detail: detail}
	return c.sendEnvelope(protocol.MsgJoinRoomResponse, resp.Encode())
}

func (s *Server) handleLeaveRoom(c *conn) error {
	s.mu.Lock()
	rm := s.rooms[c.roomID]
	if rm == nil {
		s.mu.Unlock()
		resp := protocol.LeaveRoomResponse{Ret: protocol.CodeInvalidRoom}
		return c.sendEnvelope(protocol.MsgLeaveRoomResponse, resp.Encode())
	}
	rm.removePlayer(c.uid)
	c.roomID = ""
	summary := rm.summary()
	if rm.empty() {
		delete(s.rooms, rm.id)
	} else {
		s.broadcastRoomStateLocked(rm)
	}
	s.mu.Unlock()

	resp := protocol.LeaveRoomResponse{Ret: protocol.CodeOK, Room: &summary}
	return c.sendEnvelope(protocol.MsgLeaveRoomResponse, resp.Encode())
}

func (s *Server) handleGetReady(c *conn, body []byte) error {
	req, err := protocol.DecodeGetReadyRequest(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	rm := s.rooms[c.roomID]
	if rm == nil {
		s.mu.Unlock()
		resp := protocol.GetReadyResponse{Ret: protocol.CodeInvalidRoom}
		return c.sendEnvelope(protocol.MsgGetReadyResponse, resp.Encode())
	}
	rm.setReady(c.uid, req.IsReady)
	s.broadcastRoomStateLocked(rm)
	start := rm.allReady() && rm.playerCount() >= 2 && rm.game == nil
	if start {
		rm.startGame()
		s.broadcastGameStartLocked(rm)
		s.broadcastGameStateLocked(rm)
	}
	s.mu.Unlock()

	resp := protocol.GetReadyResponse{Ret: protocol.CodeOK}
	return c.sendEnvelope(protocol.MsgGetReadyResponse, resp.Encode())
}

func (s *Server) handleGameAction(c *conn, body []byte) error {
	req, err := protocol.DecodeGameActionRequest(body)
	if err != nil {
		return err
	}

	s.mu.Lock()
	rm := s.rooms[c.roomID]
	if rm == nil || rm.game == nil {
		s.mu.Unlock()
		resp := protocol.GameActionResponse{Ret: protocol.CodeInvalidState}
		return c.sendEnvelope(protocol.MsgGameActionResponse, resp.Encode())
	}

	code := rm.applyAction(c.uid, req.Action)
	if code.OK() {
		s.broadcastActionLocked(rm, c.uid, req.Action)
		if rm.game.over {
			s.broadcastGameEndLocked(rm)
			rm.endGame()
		} else {
			s.broadcastGameStateLocked(rm)
		}
	}
	s.mu.Unlock()

	resp := protocol.GameActionResponse{Ret: code}
	return c.sendEnvelope(protocol.MsgGameActionResponse, resp.Encode())
}

// Broadcast helpers run with s.mu held; the per-conn write mutex keeps
// frame writes whole.

func (s *Server) broadcastRoomStateLocked(rm *room) {
	body := rm.detail().Encode()
	for uid := range rm.players {
		if peer := s.conns[uid]; peer != nil {
			peer.sendEnvelope(protocol.MsgRoomStateNotification, body)
		}
	}
}

func (s *Server) broadcastGameStartLocked(rm *room) {
	note := protocol.GameStartNotification{RoomID: rm.id, Players: rm.roster()}
	body := note.Encode()
	for uid := range rm.players {
		if peer := s.conns[uid]; peer != nil {
			peer.sendEnvelope(protocol.MsgGameStartNotification, body)
		}
	}
}

func (s *Server) broadcastGameStateLocked(rm *room) {
	note := protocol.GameStateNotification{RoomID: rm.id, State: rm.game.snapshot()}
	body := note.Encode()
	for uid := range rm.players {
		if peer := s.conns[uid]; peer != nil {
			peer.sendEnvelope(protocol.MsgGameStateNotification, body)
		}
	}
}

func (s *Server) broadcastActionLocked(rm *room, actor uint64, action *protocol.GameAction) {
	body := action.Encode()
	for uid := range rm.players {
		if uid == actor {
			continue
		}
		if peer := s.conns[uid]; peer != nil {
			peer.sendEnvelope(protocol.MsgGameActionNotification, body)
		}
	}
}

func (s *Server) broadcastGameEndLocked(rm *room) {
	note := protocol.GameEndNotification{RoomID: rm.id, Players: rm.game.standings()}
	body := note.Encode()
	for uid := range rm.players {
		if peer := s.conns[uid]; peer != nil {
			peer.sendEnvelope(protocol.MsgGameEndNotification, body)
		}
	}
}
