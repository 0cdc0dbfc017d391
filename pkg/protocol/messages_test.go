package protocol

import (
	"reflect"
	"testing"
)

func TestAuthRequestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  AuthRequest
	}{
		{"full", AuthRequest{
			Token:           "tok-123",
			ProtocolVersion: "1.0",
			ClientVersion:   "1.0.0",
			DeviceType:      "desktop",
			DeviceID:        "wxgame_abc",
			AppID:           "wxgame_app",
			Nonce:           "n0nce",
			Timestamp:       1717000000000,
			Signature:       "sig",
			IsGuest:         true,
		}},
		{"zero_values", AuthRequest{}},
		{"guest_false", AuthRequest{Token: "t", Timestamp: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeAuthRequest(tc.msg.Encode())
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(*decoded, tc.msg) {
				t.Errorf("round trip = %+v, want %+v", *decoded, tc.msg)
			}
		})
	}
}

func TestAuthResponseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  AuthResponse
	}{
		{"success", AuthResponse{Ret: CodeOK, UID: 10001, ConnID: "conn-1", Nickname: "guest_7", Exp: 120, Gold: 500, Diamond: 3, IsGuest: true}},
		{"auth_failed", AuthResponse{Ret: CodeAuthFailed, ErrorMsg: "token expired"}},
		{"zero", AuthResponse{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := DecodeAuthResponse(tc.msg.Encode())
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(*decoded, tc.msg) {
				t.Errorf("round trip = %+v, want %+v", *decoded, tc.msg)
			}
		})
	}
}

func TestRoomMessagesRoundTrip(t *testing.T) {
	room := Room{ID: "r1", Name: "casual", MaxPlayers: 6, CurrentPlayers: 2}
	players := []RoomPlayer{
		{UID: 1, Nickname: "alice", PosX: 10, PosY: 20, IsReady: true},
		{UID: 2, Nickname: "bob"},
	}

	t.Run("create_room_request", func(t *testing.T) {
		msg := CreateRoomRequest{RoomName: "my room"}
		decoded, err := DecodeCreateRoomRequest(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if *decoded != msg {
			t.Errorf("round trip = %+v, want %+v", *decoded, msg)
		}
	})

	t.Run("join_room_request", func(t *testing.T) {
		msg := JoinRoomRequest{RoomID: "r1"}
		decoded, err := DecodeJoinRoomRequest(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if *decoded != msg {
			t.Errorf("round trip = %+v, want %+v", *decoded, msg)
		}
	})

	t.Run("leave_room_request", func(t *testing.T) {
		msg := LeaveRoomRequest{PlayerID: "10001"}
		decoded, err := DecodeLeaveRoomRequest(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if *decoded != msg {
			t.Errorf("round trip = %+v, want %+v", *decoded, msg)
		}
	})

	t.Run("get_ready_request", func(t *testing.T) {
		for _, ready := range []bool{true, false} {
			msg := GetReadyRequest{PlayerID: "10001", IsReady: ready}
			decoded, err := DecodeGetReadyRequest(msg.Encode())
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if *decoded != msg {
				t.Errorf("round trip = %+v, want %+v", *decoded, msg)
			}
		}
	})

	t.Run("room_response", func(t *testing.T) {
		msg := RoomResponse{Ret: CodeOK, Detail: &RoomDetail{Room: &room, Players: players}}
		decoded, err := DecodeRoomResponse(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})

	t.Run("room_response_failure", func(t *testing.T) {
		msg := RoomResponse{Ret: CodePlayerAlreadyInRoom}
		decoded, err := DecodeRoomResponse(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.Ret != CodePlayerAlreadyInRoom || decoded.Detail != nil {
			t.Errorf("round trip = %+v", decoded)
		}
	})

	t.Run("leave_room_response", func(t *testing.T) {
		msg := LeaveRoomResponse{Ret: CodeOK, Room: &room}
		decoded, err := DecodeLeaveRoomResponse(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})

	t.Run("room_list_response", func(t *testing.T) {
		msg := GetRoomListResponse{Ret: CodeOK, Rooms: []Room{room, {ID: "r2", Name: "ranked", MaxPlayers: 4}}}
		decoded, err := DecodeGetRoomListResponse(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})

	t.Run("room_detail_empty_roster", func(t *testing.T) {
		msg := RoomDetail{Room: &room}
		decoded, err := DecodeRoomDetail(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})

	t.Run("game_start_notification", func(t *testing.T) {
		msg := GameStartNotification{RoomID: "r1", Players: players}
		decoded, err := DecodeGameStartNotification(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})
}

func TestGameMessagesRoundTrip(t *testing.T) {
	cards := []WordCard{
		{ID: 1, Word: "quick", WordClass: "adjective", Description: "fast"},
		{ID: 2, Word: "fox", WordClass: "noun"},
	}
	battlePlayers := []BattlePlayer{
		{ID: 10001, Name: "alice", Cards: cards, CurrentScore: 12},
		{ID: 10002, Name: "bob", CurrentScore: 0},
	}

	t.Run("game_state_notification", func(t *testing.T) {
		msg := GameStateNotification{
			RoomID: "r1",
			State: &GameState{
				Players:     battlePlayers,
				Table:       &CardTable{Cards: cards[:1], Sentence: "quick"},
				CurrentTurn: 10001,
			},
		}
		decoded, err := DecodeGameStateNotification(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})

	t.Run("game_state_empty", func(t *testing.T) {
		msg := GameState{}
		decoded, err := DecodeGameState(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})

	t.Run("game_action_place_card", func(t *testing.T) {
		msg := GameActionRequest{Action: &GameAction{
			PlayerID:  10001,
			Type:      ActionPlaceCard,
			Timestamp: 1717000000123,
			PlaceCard: &PlaceCardAction{CardID: 2, TargetIndex: 0},
		}}
		decoded, err := DecodeGameActionRequest(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})

	t.Run("game_action_skip_turn", func(t *testing.T) {
		msg := GameActionRequest{Action: &GameAction{PlayerID: 10001, Type: ActionSkipTurn, Timestamp: 5}}
		decoded, err := DecodeGameActionRequest(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})

	t.Run("game_end_notification", func(t *testing.T) {
		msg := GameEndNotification{RoomID: "r1", Players: battlePlayers}
		decoded, err := DecodeGameEndNotification(msg.Encode())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(decoded, &msg) {
			t.Errorf("round trip = %+v, want %+v", decoded, &msg)
		}
	})
}

// Responses whose only field is the result code use default-value
// omission: a zero-length body IS the encoding of success.
func TestEmptyBodySuccessInference(t *testing.T) {
	t.Run("get_ready", func(t *testing.T) {
		decoded, err := DecodeGetReadyResponse(nil)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.Ret != CodeOK {
			t.Errorf("Ret = %v, want OK", decoded.Ret)
		}
	})

	t.Run("game_action", func(t *testing.T) {
		decoded, err := DecodeGameActionResponse([]byte{})
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.Ret != CodeOK {
			t.Errorf("Ret = %v, want OK", decoded.Ret)
		}
	})

	t.Run("leave_room", func(t *testing.T) {
		decoded, err := DecodeLeaveRoomResponse(nil)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.Ret != CodeOK {
			t.Errorf("Ret = %v, want OK", decoded.Ret)
		}
	})

	t.Run("get_ready_failure_encodes", func(t *testing.T) {
		msg := GetReadyResponse{Ret: CodeNotAllowed}
		body := msg.Encode()
		if len(body) == 0 {
			t.Fatal("failure response encoded to zero bytes")
		}
		decoded, err := DecodeGetReadyResponse(body)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.Ret != CodeNotAllowed {
			t.Errorf("Ret = %v, want NotAllowed", decoded.Ret)
		}
	})

	t.Run("success_encodes_empty", func(t *testing.T) {
		if body := (&GameActionResponse{Ret: CodeOK}).Encode(); len(body) != 0 {
			t.Errorf("success encoded % x, want empty", body)
		}
	})
}

// A message carrying an extra, unrecognized field must decode cleanly and
// recover every known field.
func TestUnknownFieldSkipInMessage(t *testing.T) {
	e := NewEncoder()
	e.WriteIntField(1, 42)             // uid
	e.WriteStringField(2, "alice")     // nickname
	e.WriteIntField(99, 1234567)       // unknown varint field
	e.WriteStringField(50, "metadata") // unknown length-delimited field
	e.WriteBoolField(5, true)          // is_ready

	decoded, err := DecodeRoomPlayer(e.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := RoomPlayer{UID: 42, Nickname: "alice", IsReady: true}
	if *decoded != want {
		t.Errorf("decoded = %+v, want %+v", *decoded, want)
	}
}

func TestDecodeTruncatedNestedMessage(t *testing.T) {
	e := NewEncoder()
	e.WriteTag(1, WireLengthDelim)
	e.WriteUvarint(10) // declares 10 bytes, provides 2
	e.WriteBytes([]byte{0x08, 0x01})

	if _, err := DecodeRoomDetail(e.Bytes()); err == nil {
		t.Error("decode accepted a truncated nested message")
	}
}

func TestActionTypeStrings(t *testing.T) {
	tests := []struct {
		at   ActionType
		want string
	}{
		{ActionPlaceCard, "PlaceCard"},
		{ActionSkipTurn, "SkipTurn"},
		{ActionAutoChat, "AutoChat"},
		{ActionSurrender, "Surrender"},
		{ActionCharMove, "CharMove"},
		{ActionType(99), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.at.String(); got != tc.want {
			t.Errorf("ActionType(%d).String() = %q, want %q", tc.at, got, tc.want)
		}
	}
}

func TestErrorCodeMessages(t *testing.T) {
	if CodeOK.Message() != "OK" {
		t.Errorf("CodeOK.Message() = %q", CodeOK.Message())
	}
	if got := CodeNotYourTurn.Message(); got != "Not your turn" {
		t.Errorf("CodeNotYourTurn.Message() = %q", got)
	}
	if got := ErrorCode(200).Message(); got != "Unknown error (200)" {
		t.Errorf("unknown code message = %q", got)
	}
	if !CodeOK.OK() || CodeTimeout.OK() {
		t.Error("ErrorCode.OK() misclassifies")
	}
}
