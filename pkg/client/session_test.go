package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/lexicard-dev/lexicard/pkg/protocol"
)

// fakeSocket is an in-memory Socket. The test plays the server role by
// pushing chunks into incoming and draining outgoing.
type fakeSocket struct {
	incoming chan []byte
	outgoing chan []byte
	closed   chan struct{}
	once     sync.Once
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{
		incoming: make(chan []byte, 16),
		outgoing: make(chan []byte, 16),
		closed:   make(chan struct{}),
	}
}

func (f *fakeSocket) ReadMessage() ([]byte, error) {
	select {
	case b := <-f.incoming:
		return b, nil
	case <-f.closed:
		return nil, io.EOF
	}
}

func (f *fakeSocket) WriteMessage(data []byte) error {
	select {
	case f.outgoing <- data:
		return nil
	case <-f.closed:
		return io.EOF
	}
}

func (f *fakeSocket) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *fakeSocket) {
	t.Helper()
	sock := newFakeSocket()
	base := []Option{
		WithToken("tok"),
		WithDeviceID("wxgame_test"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithDialer(func(ctx context.Context, rawURL string, cfg *Config) (Socket, error) {
			return sock, nil
		}),
	}
	s := NewSession(append(base, opts...)...)
	t.Cleanup(func() { s.Disconnect() })
	return s, sock
}

// readFrame pops one outbound frame, strips the length prefix, and
// decodes the envelope.
func readFrame(t *testing.T, sock *fakeSocket) *protocol.Envelope {
	t.Helper()
	select {
	case frame := <-sock.outgoing:
		length, ok := protocol.PeekFrameLength(frame)
		if !ok {
			t.Fatalf("frame shorter than its header: % x", frame)
		}
		if length != len(frame)-protocol.FrameHeaderSize {
			t.Fatalf("length prefix %d, payload %d", length, len(frame)-protocol.FrameHeaderSize)
		}
		env, err := protocol.DecodeEnvelope(frame[protocol.FrameHeaderSize:])
		if err != nil {
			t.Fatalf("decode outbound envelope: %v", err)
		}
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("no outbound frame")
		return nil
	}
}

// push frames a server message and delivers it to the read loop.
func push(sock *fakeSocket, msgType protocol.MessageID, body []byte) {
	env := protocol.Envelope{Serial: 1, Type: msgType, Body: body}
	sock.incoming <- protocol.EncodeFrame(env.Encode())
}

func waitState(t *testing.T, s *Session, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state = %v, want %v", s.State(), want)
}

func waitEvent(t *testing.T, ch <-chan Event, want EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event channel closed waiting for %v", want)
			}
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %v event", want)
		}
	}
}

func authenticate(t *testing.T, s *Session, sock *fakeSocket) {
	t.Helper()
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	env := readFrame(t, sock)
	if env.Type != protocol.MsgAuthRequest {
		t.Fatalf("first frame type = %v, want AuthRequest", env.Type)
	}
	resp := protocol.AuthResponse{Ret: protocol.CodeOK, UID: 10001, ConnID: "conn-1", Nickname: "guest_7", IsGuest: true}
	push(sock, protocol.MsgAuthResponse, resp.Encode())
	waitState(t, s, StateAuthenticated)
}

func TestConnectSendsAuthRequest(t *testing.T) {
	s, sock := newTestSession(t)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if s.State() != StateConnectedUnauthenticated {
		t.Errorf("state after Connect = %v", s.State())
	}

	env := readFrame(t, sock)
	if env.Type != protocol.MsgAuthRequest {
		t.Fatalf("frame type = %v, want AuthRequest", env.Type)
	}
	if env.Serial != 1 {
		t.Errorf("serial = %d, want 1", env.Serial)
	}
	if env.ClientID == "" {
		t.Error("client id missing from envelope")
	}

	req, err := protocol.DecodeAuthRequest(env.Body)
	if err != nil {
		t.Fatalf("decode auth request: %v", err)
	}
	if req.Token != "tok" {
		t.Errorf("token = %q, want tok", req.Token)
	}
	if req.DeviceID != "wxgame_test" {
		t.Errorf("device id = %q", req.DeviceID)
	}
	if !req.IsGuest {
		t.Error("is_guest = false, want true")
	}
}

func TestConnectRequiresToken(t *testing.T) {
	sock := newFakeSocket()
	s := NewSession(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithDialer(func(ctx context.Context, rawURL string, cfg *Config) (Socket, error) {
			return sock, nil
		}),
	)
	if err := s.Connect(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Errorf("Connect = %v, want ErrNoToken", err)
	}
}

func TestAuthSuccessTransitions(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	authenticate(t, s, sock)

	ev := waitEvent(t, ch, EventAuthSucceeded)
	if ev.Auth == nil || ev.Auth.UID != 10001 {
		t.Fatalf("auth event = %+v", ev)
	}
	if s.UID() != 10001 || s.Nickname() != "guest_7" || s.ConnID() != "conn-1" {
		t.Errorf("identity = (%d, %q, %q)", s.UID(), s.Nickname(), s.ConnID())
	}
}

func TestAuthFailureStaysUnauthenticated(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	readFrame(t, sock) // auth request

	resp := protocol.AuthResponse{Ret: protocol.CodeAuthFailed, ErrorMsg: "token expired"}
	push(sock, protocol.MsgAuthResponse, resp.Encode())

	ev := waitEvent(t, ch, EventAuthFailed)
	if ev.Code != protocol.CodeAuthFailed {
		t.Errorf("code = %v", ev.Code)
	}
	if s.State() != StateConnectedUnauthenticated {
		t.Errorf("state = %v, want ConnectedUnauthenticated", s.State())
	}

	// The socket stays open for a retry.
	if err := s.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	env := readFrame(t, sock)
	if env.Type != protocol.MsgAuthRequest || env.Serial != 2 {
		t.Errorf("retry frame = type %v serial %d", env.Type, env.Serial)
	}
}

func TestSerialIncrementsPerRequest(t *testing.T) {
	s, sock := newTestSession(t)
	authenticate(t, s, sock)

	if err := s.RequestRoomList(context.Background()); err != nil {
		t.Fatalf("RequestRoomList: %v", err)
	}
	if err := s.CreateRoom(context.Background(), "room one"); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	first := readFrame(t, sock)
	second := readFrame(t, sock)
	if first.Serial != 2 || second.Serial != 3 {
		t.Errorf("serials = %d, %d, want 2, 3", first.Serial, second.Serial)
	}
	if first.Type != protocol.MsgGetRoomListRequest || second.Type != protocol.MsgCreateRoomRequest {
		t.Errorf("types = %v, %v", first.Type, second.Type)
	}
}

func TestRequestsGatedByState(t *testing.T) {
	s, sock := newTestSession(t)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	readFrame(t, sock) // auth request

	if err := s.RequestRoomList(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("RequestRoomList = %v, want ErrNotAuthenticated", err)
	}
	if err := s.SetReady(context.Background(), true); !errors.Is(err, ErrNotInRoom) {
		t.Errorf("SetReady = %v, want ErrNotInRoom", err)
	}
	if err := s.SkipTurn(context.Background()); !errors.Is(err, ErrNotInGame) {
		t.Errorf("SkipTurn = %v, want ErrNotInGame", err)
	}
}

func TestRoomLifecycle(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()
	authenticate(t, s, sock)

	room := protocol.Room{ID: "r1", Name: "casual", MaxPlayers: 6, CurrentPlayers: 1}
	detail := protocol.RoomDetail{
		Room:    &room,
		Players: []protocol.RoomPlayer{{UID: 10001, Nickname: "guest_7"}},
	}

	// Create succeeds: Authenticated -> InRoom.
	createResp := protocol.RoomResponse{Ret: protocol.CodeOK, Detail: &detail}
	push(sock, protocol.MsgCreateRoomResponse, createResp.Encode())
	waitEvent(t, ch, EventRoomCreated)
	waitState(t, s, StateInRoom)
	if s.RoomID() != "r1" {
		t.Errorf("RoomID = %q, want r1", s.RoomID())
	}

	// Game starts: InRoom -> InGame. A duplicate broadcast is a no-op.
	start := protocol.GameStartNotification{RoomID: "r1", Players: detail.Players}
	push(sock, protocol.MsgGameStartNotification, start.Encode())
	waitEvent(t, ch, EventGameStarted)
	waitState(t, s, StateInGame)
	push(sock, protocol.MsgGameStartNotification, start.Encode())
	waitEvent(t, ch, EventGameStarted)
	if s.State() != StateInGame {
		t.Errorf("state after duplicate start = %v", s.State())
	}

	// Game ends: InGame -> InRoom.
	end := protocol.GameEndNotification{RoomID: "r1"}
	push(sock, protocol.MsgGameEndNotification, end.Encode())
	waitEvent(t, ch, EventGameEnded)
	waitState(t, s, StateInRoom)

	// Leave: InRoom -> Authenticated, room context cleared.
	leaveResp := protocol.LeaveRoomResponse{Ret: protocol.CodeOK, Room: &room}
	push(sock, protocol.MsgLeaveRoomResponse, leaveResp.Encode())
	waitEvent(t, ch, EventRoomLeft)
	waitState(t, s, StateAuthenticated)
	if s.RoomID() != "" {
		t.Errorf("RoomID after leave = %q, want empty", s.RoomID())
	}
}

func TestJoinRejectionKeepsState(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()
	authenticate(t, s, sock)

	resp := protocol.RoomResponse{Ret: protocol.CodePlayerAlreadyInRoom}
	push(sock, protocol.MsgJoinRoomResponse, resp.Encode())

	ev := waitEvent(t, ch, EventRequestRejected)
	if ev.Code != protocol.CodePlayerAlreadyInRoom {
		t.Errorf("code = %v", ev.Code)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("state = %v, want Authenticated", s.State())
	}
}

func TestToggleReadyUsesAuthoritativeRoster(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()
	authenticate(t, s, sock)

	detail := protocol.RoomDetail{
		Room:    &protocol.Room{ID: "r1"},
		Players: []protocol.RoomPlayer{{UID: 10001, Nickname: "guest_7", IsReady: true}},
	}
	resp := protocol.RoomResponse{Ret: protocol.CodeOK, Detail: &detail}
	push(sock, protocol.MsgJoinRoomResponse, resp.Encode())
	waitState(t, s, StateInRoom)
	waitEvent(t, ch, EventRoomJoined)

	if err := s.ToggleReady(context.Background()); err != nil {
		t.Fatalf("ToggleReady: %v", err)
	}
	env := readFrame(t, sock)
	if env.Type != protocol.MsgGetReadyRequest {
		t.Fatalf("frame type = %v", env.Type)
	}
	req, err := protocol.DecodeGetReadyRequest(env.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.IsReady {
		t.Error("toggle from ready sent is_ready=true, want false")
	}
	if req.PlayerID != "10001" {
		t.Errorf("player id = %q, want 10001", req.PlayerID)
	}
}

func TestRoomStateBroadcastUpdatesRoster(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()
	authenticate(t, s, sock)

	detail := protocol.RoomDetail{
		Room: &protocol.Room{ID: "r9", CurrentPlayers: 2},
		Players: []protocol.RoomPlayer{
			{UID: 10001, Nickname: "guest_7"},
			{UID: 10002, Nickname: "bob", IsReady: true},
		},
	}
	push(sock, protocol.MsgRoomStateNotification, detail.Encode())

	ev := waitEvent(t, ch, EventRoomState)
	if ev.Detail == nil || len(ev.Detail.Players) != 2 {
		t.Fatalf("room state event = %+v", ev)
	}
	roster := s.Roster()
	if len(roster) != 2 || roster[1].UID != 10002 || !roster[1].IsReady {
		t.Errorf("roster = %+v", roster)
	}
}

func TestGameActionRequestCarriesIdentity(t *testing.T) {
	s, sock := newTestSession(t)
	authenticate(t, s, sock)

	detail := protocol.RoomDetail{Room: &protocol.Room{ID: "r1"}}
	push(sock, protocol.MsgJoinRoomResponse, (&protocol.RoomResponse{Ret: protocol.CodeOK, Detail: &detail}).Encode())
	waitState(t, s, StateInRoom)
	push(sock, protocol.MsgGameStartNotification, (&protocol.GameStartNotification{RoomID: "r1"}).Encode())
	waitState(t, s, StateInGame)

	if err := s.PlaceCard(context.Background(), 42, 3); err != nil {
		t.Fatalf("PlaceCard: %v", err)
	}
	env := readFrame(t, sock)
	if env.Type != protocol.MsgGameActionRequest {
		t.Fatalf("frame type = %v", env.Type)
	}
	req, err := protocol.DecodeGameActionRequest(env.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Action == nil {
		t.Fatal("action missing")
	}
	if req.Action.PlayerID != 10001 {
		t.Errorf("player id = %d, want 10001", req.Action.PlayerID)
	}
	if req.Action.Type != protocol.ActionPlaceCard {
		t.Errorf("type = %v", req.Action.Type)
	}
	if req.Action.Timestamp == 0 {
		t.Error("timestamp not filled in")
	}
	if req.Action.PlaceCard == nil || req.Action.PlaceCard.CardID != 42 || req.Action.PlaceCard.TargetIndex != 3 {
		t.Errorf("place card = %+v", req.Action.PlaceCard)
	}
}

func TestEmptyActionResponseMeansSuccess(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()
	authenticate(t, s, sock)

	// Zero-length body: default-value omission encodes ret=0 as nothing.
	push(sock, protocol.MsgGameActionResponse, nil)
	ev := waitEvent(t, ch, EventActionResult)
	if !ev.Code.OK() {
		t.Errorf("code = %v, want OK", ev.Code)
	}
}

func TestMalformedFrameDroppedConnectionSurvives(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()
	authenticate(t, s, sock)

	// Truncated varint inside the envelope.
	sock.incoming <- protocol.EncodeFrame([]byte{0x10, 0x80})
	waitEvent(t, ch, EventProtocolError)
	if s.State() != StateAuthenticated {
		t.Errorf("state = %v, want Authenticated", s.State())
	}

	// Subsequent traffic still dispatches.
	push(sock, protocol.MsgGetRoomListResponse, (&protocol.GetRoomListResponse{Ret: protocol.CodeOK}).Encode())
	waitEvent(t, ch, EventRoomList)
}

func TestOversizedFrameTearsDown(t *testing.T) {
	// Large enough for the auth handshake frame, far below the frame
	// declared by the header pushed next.
	s, sock := newTestSession(t, WithMaxFrameSize(64))
	ch, cancel := s.Subscribe()
	defer cancel()
	authenticate(t, s, sock)

	sock.incoming <- []byte{0xFF, 0xFF, 0x00, 0x00} // declares a 64KB frame
	ev := waitEvent(t, ch, EventDisconnected)
	if !errors.Is(ev.Err, protocol.ErrFrameTooLarge) {
		t.Errorf("disconnect cause = %v, want ErrFrameTooLarge", ev.Err)
	}
	waitState(t, s, StateDisconnected)
}

func TestDisconnectClearsConnectionIdentity(t *testing.T) {
	socks := make(chan *fakeSocket, 2)
	s := NewSession(
		WithToken("tok"),
		WithDeviceID("wxgame_test"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithDialer(func(ctx context.Context, rawURL string, cfg *Config) (Socket, error) {
			f := newFakeSocket()
			socks <- f
			return f, nil
		}),
	)
	t.Cleanup(func() { s.Disconnect() })

	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	sock := <-socks
	readFrame(t, sock) // auth request
	push(sock, protocol.MsgAuthResponse, (&protocol.AuthResponse{Ret: protocol.CodeOK, UID: 10001, ConnID: "conn-1"}).Encode())
	waitState(t, s, StateAuthenticated)

	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	waitState(t, s, StateDisconnected)

	if s.UID() != 0 || s.ConnID() != "" {
		t.Errorf("identity survived disconnect: uid=%d conn=%q", s.UID(), s.ConnID())
	}

	// The login token is kept, so a reconnect re-authenticates with it.
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	sock = <-socks
	env := readFrame(t, sock)
	req, err := protocol.DecodeAuthRequest(env.Body)
	if err != nil {
		t.Fatalf("decode auth request: %v", err)
	}
	if req.Token != "tok" {
		t.Errorf("reconnect token = %q, want tok", req.Token)
	}
}

func TestReadFailureDisconnects(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()
	authenticate(t, s, sock)

	sock.Close()
	ev := waitEvent(t, ch, EventDisconnected)
	if ev.Err == nil {
		t.Error("remote close reported no cause")
	}
	waitState(t, s, StateDisconnected)
}

func TestFragmentedDeliveryDispatchesOnce(t *testing.T) {
	s, sock := newTestSession(t)
	ch, cancel := s.Subscribe()
	defer cancel()
	authenticate(t, s, sock)

	resp := protocol.GetRoomListResponse{Ret: protocol.CodeOK, Rooms: []protocol.Room{{ID: "r1", Name: "casual"}}}
	env := protocol.Envelope{Serial: 2, Type: protocol.MsgGetRoomListResponse, Body: resp.Encode()}
	frame := protocol.EncodeFrame(env.Encode())

	// Deliver the frame in three chunks, splitting inside the header.
	sock.incoming <- frame[:2]
	sock.incoming <- frame[2:7]
	sock.incoming <- frame[7:]

	ev := waitEvent(t, ch, EventRoomList)
	if len(ev.Rooms) != 1 || ev.Rooms[0].ID != "r1" {
		t.Errorf("rooms = %+v", ev.Rooms)
	}
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	s, _ := newTestSession(t)
	ch, cancel := s.Subscribe()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("channel delivered after cancel")
	}
	cancel() // second cancel is a no-op
}
