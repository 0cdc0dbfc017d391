package client

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/lexicard-dev/lexicard/pkg/protocol"
)

var (
	// ErrNotConnected is returned when a request needs a live socket and
	// none exists.
	ErrNotConnected = errors.New("client: not connected")

	// ErrAlreadyConnected is returned by Connect when a socket is already
	// open or being opened.
	ErrAlreadyConnected = errors.New("client: already connected")

	// ErrNotAuthenticated is returned when a lobby or room request is
	// issued before the server accepted our credentials.
	ErrNotAuthenticated = errors.New("client: not authenticated")

	// ErrNotInRoom is returned for room-scoped requests outside a room.
	ErrNotInRoom = errors.New("client: not in a room")

	// ErrNotInGame is returned for game actions outside a running game.
	ErrNotInGame = errors.New("client: not in a game")

	// ErrNoToken is returned by Connect when Login has not produced a
	// session token yet.
	ErrNoToken = errors.New("client: no session token, call Login first")
)

// Session is the client endpoint of the gateway protocol. It is safe for
// concurrent use; all exported methods may be called from any goroutine.
type Session struct {
	cfg     *Config
	logger  *slog.Logger
	metrics *metrics
	tracer  trace.Tracer

	mu       sync.Mutex
	state    State
	socket   Socket
	serial   uint64
	clientID string

	// Login bootstrap results.
	token      string
	username   string
	gatewayURL string

	// Identity granted by the gateway. Cleared on disconnect.
	uid      uint64
	nickname string
	connID   string

	// Room context. Survives disconnects so a rejoin can be attempted.
	roomID string
	roster []protocol.RoomPlayer

	subsMu sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewSession builds a session with the given options applied over
// DefaultConfig.
func NewSession(opts ...Option) *Session {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Session{
		cfg:        cfg,
		logger:     cfg.Logger.With("component", "client"),
		metrics:    newMetrics(cfg.Registry),
		tracer:     newTracer(cfg.TracerName),
		state:      StateDisconnected,
		clientID:   newClientID(),
		token:      cfg.Token,
		gatewayURL: cfg.GatewayURL,
		subs:       make(map[int]chan Event),
	}
}

func newClientID() string {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "client_000000000000"
	}
	return "client_" + hex.EncodeToString(b[:])
}

// Subscribe registers an event channel. The returned cancel function
// unregisters it and closes the channel. Slow subscribers lose events
// rather than stalling the read loop.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Event, s.cfg.EventBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

func (s *Session) emit(ev Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.metrics.droppedEvents.Inc()
		}
	}
}

// setStateLocked transitions the lifecycle state and notifies
// subscribers. Callers must hold s.mu.
func (s *Session) setStateLocked(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next
	s.logger.Debug("state transition", "from", prev.String(), "to", next.String())
	// emit never touches s.mu, so notifying under the lock is safe and
	// keeps transition events ordered.
	s.emit(Event{Type: EventStateChanged, State: next})
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UID returns the user id granted during authentication, 0 before.
func (s *Session) UID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid
}

// Nickname returns the display name granted during authentication.
func (s *Session) Nickname() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nickname
}

// ConnID returns the gateway connection id granted during
// authentication.
func (s *Session) ConnID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connID
}

// Username returns the account name from the login bootstrap.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// RoomID returns the current room id, empty outside a room.
func (s *Session) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// Roster returns a copy of the last known room roster.
func (s *Session) Roster() []protocol.RoomPlayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.RoomPlayer, len(s.roster))
	copy(out, s.roster)
	return out
}

// GatewayURL returns the resolved gateway address, empty before Login.
func (s *Session) GatewayURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gatewayURL
}

// Login performs the HTTP bootstrap: it obtains the session token and
// resolves the gateway address. It does not open the gateway connection.
func (s *Session) Login(ctx context.Context) error {
	req := LoginRequest{
		DeviceID: s.cfg.DeviceID,
		AppID:    s.cfg.AppID,
		IsGuest:  true,
	}
	resp, err := login(ctx, s.cfg.HTTPClient, s.cfg.LoginURL, req)
	if err != nil {
		return err
	}

	gw, err := GatewayWebSocketURL(resp.GatewayURL)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = resp.SessionID
	s.username = resp.Username
	if s.cfg.GatewayURL == "" {
		s.gatewayURL = gw
	}
	s.mu.Unlock()

	s.logger.Info("login ok", "username", resp.Username, "gateway", gw)
	return nil
}

// Connect dials the gateway resolved by Login, sends the auth request,
// and starts the read loop. The session is ConnectedUnauthenticated
// until the server's AuthResponse arrives.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateDisconnected {
		s.mu.Unlock()
		return ErrAlreadyConnected
	}
	if s.token == "" {
		s.mu.Unlock()
		return ErrNoToken
	}
	gateway := s.gatewayURL
	if gateway == "" {
		gateway = DefaultGatewayURL
	}
	s.setStateLocked(StateConnecting)
	s.mu.Unlock()

	sock, err := s.cfg.Dial(ctx, gateway, s.cfg)
	if err != nil {
		s.mu.Lock()
		s.setStateLocked(StateDisconnected)
		s.mu.Unlock()
		return fmt.Errorf("connect: %w", err)
	}

	s.mu.Lock()
	s.socket = sock
	s.setStateLocked(StateConnectedUnauthenticated)
	s.mu.Unlock()

	if err := s.sendAuthRequest(ctx); err != nil {
		s.teardown(err)
		return err
	}

	go s.readLoop(sock)
	return nil
}

func (s *Session) sendAuthRequest(ctx context.Context) error {
	s.mu.Lock()
	req := protocol.AuthRequest{
		Token:           s.token,
		ProtocolVersion: s.cfg.ProtocolVersion,
		ClientVersion:   s.cfg.ClientVersion,
		DeviceType:      s.cfg.DeviceType,
		DeviceID:        s.cfg.DeviceID,
		AppID:           s.cfg.AppID,
		Timestamp:       time.Now().UnixMilli(),
		IsGuest:         true,
	}
	s.mu.Unlock()
	return s.send(ctx, protocol.MsgAuthRequest, req.Encode(), nil)
}

// Authenticate resends the auth request, for retrying after an
// EventAuthFailed (for example with a refreshed token from Login).
func (s *Session) Authenticate(ctx context.Context) error {
	s.mu.Lock()
	ok := s.state == StateConnectedUnauthenticated
	s.mu.Unlock()
	if !ok {
		return ErrNotConnected
	}
	return s.sendAuthRequest(ctx)
}

// send frames and writes one envelope. requireState, when non-nil, is
// checked under the lock before the serial is consumed.
func (s *Session) send(ctx context.Context, msgType protocol.MessageID, body []byte, requireState func(State) error) error {
	_, span := s.startSendSpan(ctx, msgType)
	err := s.writeEnvelope(msgType, body, requireState)
	endSpan(span, err)
	return err
}

func (s *Session) writeEnvelope(msgType protocol.MessageID, body []byte, requireState func(State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.socket == nil {
		return ErrNotConnected
	}
	if requireState != nil {
		if err := requireState(s.state); err != nil {
			return err
		}
	}

	s.serial++
	env := protocol.Envelope{
		ClientID: s.clientID,
		Serial:   s.serial,
		Type:     msgType,
		Body:     body,
	}
	frame := protocol.EncodeFrame(env.Encode())

	if err := s.socket.WriteMessage(frame); err != nil {
		return fmt.Errorf("send %s: %w", msgType, err)
	}
	s.metrics.framesSent.Inc()
	s.metrics.bytesSent.Add(float64(len(frame)))
	s.logger.Debug("frame sent", "type", msgType.String(), "serial", env.Serial, "bytes", len(frame))
	return nil
}

func requireAuthenticated(st State) error {
	if !st.canSend() {
		return ErrNotAuthenticated
	}
	return nil
}

func requireInRoom(st State) error {
	if st != StateInRoom && st != StateInGame {
		return ErrNotInRoom
	}
	return nil
}

func requireInGame(st State) error {
	if st != StateInGame {
		return ErrNotInGame
	}
	return nil
}

// RequestRoomList asks for the lobby snapshot. The reply arrives as an
// EventRoomList.
func (s *Session) RequestRoomList(ctx context.Context) error {
	return s.send(ctx, protocol.MsgGetRoomListRequest, nil, requireAuthenticated)
}

// CreateRoom opens a new room with the given display name.
func (s *Session) CreateRoom(ctx context.Context, name string) error {
	req := protocol.CreateRoomRequest{RoomName: name}
	return s.send(ctx, protocol.MsgCreateRoomRequest, req.Encode(), requireAuthenticated)
}

// JoinRoom requests a seat in the given room.
func (s *Session) JoinRoom(ctx context.Context, roomID string) error {
	req := protocol.JoinRoomRequest{RoomID: roomID}
	return s.send(ctx, protocol.MsgJoinRoomRequest, req.Encode(), requireAuthenticated)
}

// LeaveRoom gives up the current seat.
func (s *Session) LeaveRoom(ctx context.Context) error {
	s.mu.Lock()
	playerID := fmt.Sprintf("%d", s.uid)
	s.mu.Unlock()
	req := protocol.LeaveRoomRequest{PlayerID: playerID}
	return s.send(ctx, protocol.MsgLeaveRoomRequest, req.Encode(), requireInRoom)
}

// SetReady moves the ready flag to an explicit target state. The request
// is idempotent; the authoritative roster comes back as an
// EventRoomState broadcast.
func (s *Session) SetReady(ctx context.Context, ready bool) error {
	s.mu.Lock()
	playerID := fmt.Sprintf("%d", s.uid)
	s.mu.Unlock()
	req := protocol.GetReadyRequest{PlayerID: playerID, IsReady: ready}
	return s.send(ctx, protocol.MsgGetReadyRequest, req.Encode(), requireInRoom)
}

// ToggleReady flips the ready flag relative to the last authoritative
// roster, not a local guess.
func (s *Session) ToggleReady(ctx context.Context) error {
	s.mu.Lock()
	ready := false
	for i := range s.roster {
		if s.roster[i].UID == s.uid {
			ready = s.roster[i].IsReady
			break
		}
	}
	s.mu.Unlock()
	return s.SetReady(ctx, !ready)
}

// SendGameAction submits an arbitrary in-game action. The timestamp is
// filled in when zero.
func (s *Session) SendGameAction(ctx context.Context, action *protocol.GameAction) error {
	s.mu.Lock()
	if action.PlayerID == 0 {
		action.PlayerID = s.uid
	}
	s.mu.Unlock()
	if action.Timestamp == 0 {
		action.Timestamp = time.Now().UnixMilli()
	}
	req := protocol.GameActionRequest{Action: action}
	return s.send(ctx, protocol.MsgGameActionRequest, req.Encode(), requireInGame)
}

// PlaceCard plays a card from the hand onto the sentence slot at
// targetIndex.
func (s *Session) PlaceCard(ctx context.Context, cardID uint64, targetIndex int32) error {
	return s.SendGameAction(ctx, &protocol.GameAction{
		Type:      protocol.ActionPlaceCard,
		PlaceCard: &protocol.PlaceCardAction{CardID: cardID, TargetIndex: targetIndex},
	})
}

// SkipTurn passes the current turn.
func (s *Session) SkipTurn(ctx context.Context) error {
	return s.SendGameAction(ctx, &protocol.GameAction{Type: protocol.ActionSkipTurn})
}

// Surrender concedes the game.
func (s *Session) Surrender(ctx context.Context) error {
	return s.SendGameAction(ctx, &protocol.GameAction{Type: protocol.ActionSurrender})
}

// Disconnect closes the connection locally. The login token and room id
// are kept so the caller can reconnect and rejoin.
func (s *Session) Disconnect() error {
	return s.teardown(nil)
}

// teardown closes the socket, clears connection-scoped identity, and
// moves to Disconnected. err is the cause, nil for a local close.
func (s *Session) teardown(err error) error {
	s.mu.Lock()
	sock := s.socket
	if sock == nil && s.state == StateDisconnected {
		s.mu.Unlock()
		return nil
	}
	s.socket = nil
	s.uid = 0
	s.connID = ""
	s.nickname = ""
	s.setStateLocked(StateDisconnected)
	s.mu.Unlock()

	s.metrics.disconnects.Inc()
	var closeErr error
	if sock != nil {
		closeErr = sock.Close()
	}

	if err != nil {
		s.logger.Warn("connection lost", "err", err)
	} else {
		s.logger.Info("disconnected")
	}
	s.emit(Event{Type: EventDisconnected, Err: err})
	return closeErr
}

// readLoop owns the reassembler and the dispatch path. It exits when the
// socket fails or the session is torn down.
func (s *Session) readLoop(sock Socket) {
	reassembler := protocol.NewReassembler(s.cfg.MaxFrameSize)

	for {
		chunk, err := sock.ReadMessage()
		if err != nil {
			s.mu.Lock()
			stillCurrent := s.socket == sock
			s.mu.Unlock()
			if stillCurrent {
				s.teardown(err)
			}
			return
		}

		s.metrics.bytesReceived.Add(float64(len(chunk)))
		reassembler.Append(chunk)

		for {
			payload, err := reassembler.Next()
			if err != nil {
				// An oversized or negative length prefix means the stream
				// is unrecoverable.
				s.teardown(err)
				return
			}
			if payload == nil {
				break
			}
			s.metrics.framesReceived.Inc()
			s.handleFrame(payload)
		}
	}
}

func (s *Session) handleFrame(payload []byte) {
	env, err := protocol.DecodeEnvelope(payload)
	if err != nil {
		s.metrics.decodeErrors.Inc()
		s.logger.Warn("dropping malformed frame", "err", err, "bytes", len(payload))
		s.emit(Event{Type: EventProtocolError, Err: err})
		return
	}

	ctx, span := s.startDispatchSpan(context.Background(), env)
	err = s.dispatch(ctx, env)
	endSpan(span, err)
	if err != nil {
		s.metrics.decodeErrors.Inc()
		s.logger.Warn("dropping undecodable body", "type", env.Type.String(), "err", err)
		s.emit(Event{Type: EventProtocolError, Err: err})
	}
}

// dispatch routes one envelope. Decode failures are returned; they drop
// the frame but never the connection.
func (s *Session) dispatch(_ context.Context, env *protocol.Envelope) error {
	s.logger.Debug("frame received", "type", env.Type.String(), "serial", env.Serial, "bytes", len(env.Body))

	switch env.Type {
	case protocol.MsgAuthResponse:
		resp, err := protocol.DecodeAuthResponse(env.Body)
		if err != nil {
			return err
		}
		s.handleAuthResponse(resp)

	case protocol.MsgGetRoomListResponse:
		resp, err := protocol.DecodeGetRoomListResponse(env.Body)
		if err != nil {
			return err
		}
		if !resp.Ret.OK() {
			s.emit(Event{Type: EventRequestRejected, Code: resp.Ret})
			return nil
		}
		s.emit(Event{Type: EventRoomList, Rooms: resp.Rooms})

	case protocol.MsgCreateRoomResponse:
		return s.handleRoomResponse(env.Body, EventRoomCreated)

	case protocol.MsgJoinRoomResponse:
		return s.handleRoomResponse(env.Body, EventRoomJoined)

	case protocol.MsgLeaveRoomResponse:
		resp, err := protocol.DecodeLeaveRoomResponse(env.Body)
		if err != nil {
			return err
		}
		if !resp.Ret.OK() {
			s.emit(Event{Type: EventRequestRejected, Code: resp.Ret})
			return nil
		}
		s.mu.Lock()
		s.roomID = ""
		s.roster = nil
		if s.state == StateInRoom || s.state == StateInGame {
			s.setStateLocked(StateAuthenticated)
		}
		s.mu.Unlock()
		s.emit(Event{Type: EventRoomLeft, Room: resp.Room})

	case protocol.MsgRoomStateNotification:
		detail, err := protocol.DecodeRoomDetail(env.Body)
		if err != nil {
			return err
		}
		s.mu.Lock()
		if detail.Room != nil {
			s.roomID = detail.Room.ID
		}
		s.roster = detail.Players
		s.mu.Unlock()
		s.emit(Event{Type: EventRoomState, Detail: detail})

	case protocol.MsgGetReadyResponse:
		resp, err := protocol.DecodeGetReadyResponse(env.Body)
		if err != nil {
			return err
		}
		s.emit(Event{Type: EventReadyResult, Code: resp.Ret})

	case protocol.MsgGameStartNotification:
		note, err := protocol.DecodeGameStartNotification(env.Body)
		if err != nil {
			return err
		}
		s.mu.Lock()
		if note.RoomID != "" {
			s.roomID = note.RoomID
		}
		if len(note.Players) > 0 {
			s.roster = note.Players
		}
		// Duplicate start broadcasts are harmless.
		if s.state != StateInGame {
			s.setStateLocked(StateInGame)
		}
		s.mu.Unlock()
		s.emit(Event{Type: EventGameStarted, GameStart: note})

	case protocol.MsgGameStateNotification:
		note, err := protocol.DecodeGameStateNotification(env.Body)
		if err != nil {
			return err
		}
		s.emit(Event{Type: EventGameState, GameState: note})

	case protocol.MsgGameActionResponse:
		resp, err := protocol.DecodeGameActionResponse(env.Body)
		if err != nil {
			return err
		}
		s.emit(Event{Type: EventActionResult, Code: resp.Ret})

	case protocol.MsgGameActionNotification:
		action, err := protocol.DecodeGameAction(env.Body)
		if err != nil {
			return err
		}
		s.emit(Event{Type: EventActionReplicated, Action: action})

	case protocol.MsgGameEndNotification:
		note, err := protocol.DecodeGameEndNotification(env.Body)
		if err != nil {
			return err
		}
		s.mu.Lock()
		if s.state == StateInGame {
			s.setStateLocked(StateInRoom)
		}
		s.mu.Unlock()
		s.emit(Event{Type: EventGameEnded, GameEnd: note})

	default:
		s.logger.Debug("ignoring unhandled message", "type", env.Type.String(), "id", uint32(env.Type))
	}
	return nil
}

func (s *Session) handleAuthResponse(resp *protocol.AuthResponse) {
	if !resp.Ret.OK() {
		s.logger.Warn("auth rejected", "code", resp.Ret.String(), "msg", resp.ErrorMsg)
		s.emit(Event{Type: EventAuthFailed, Code: resp.Ret, Auth: resp})
		return
	}

	s.mu.Lock()
	s.uid = resp.UID
	s.nickname = resp.Nickname
	s.connID = resp.ConnID
	if s.state == StateConnectedUnauthenticated {
		s.setStateLocked(StateAuthenticated)
	}
	s.mu.Unlock()

	s.logger.Info("authenticated", "uid", resp.UID, "nickname", resp.Nickname)
	s.emit(Event{Type: EventAuthSucceeded, Auth: resp})
}

func (s *Session) handleRoomResponse(body []byte, okEvent EventType) error {
	resp, err := protocol.DecodeRoomResponse(body)
	if err != nil {
		return err
	}
	if !resp.Ret.OK() {
		s.emit(Event{Type: EventRequestRejected, Code: resp.Ret})
		return nil
	}

	s.mu.Lock()
	if resp.Detail != nil {
		if resp.Detail.Room != nil {
			s.roomID = resp.Detail.Room.ID
		}
		s.roster = resp.Detail.Players
	}
	if s.state == StateAuthenticated {
		s.setStateLocked(StateInRoom)
	}
	s.mu.Unlock()

	s.emit(Event{Type: okEvent, Detail: resp.Detail})
	return nil
}
