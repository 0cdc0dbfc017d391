package protocol

// MessageID discriminates which body codec applies to an envelope's body.
// The numbering is shared with the server and must not change.
type MessageID uint32

const (
	MsgAuthRequest            MessageID = 2
	MsgAuthResponse           MessageID = 3
	MsgGetRoomListRequest     MessageID = 6
	MsgGetRoomListResponse    MessageID = 7
	MsgCreateRoomRequest      MessageID = 8
	MsgCreateRoomResponse     MessageID = 9
	MsgJoinRoomRequest        MessageID = 10
	MsgJoinRoomResponse       MessageID = 11
	MsgLeaveRoomRequest       MessageID = 12
	MsgLeaveRoomResponse      MessageID = 13
	MsgRoomStateNotification  MessageID = 14
	MsgGameStateNotification  MessageID = 15
	MsgGetReadyRequest        MessageID = 18
	MsgGetReadyResponse       MessageID = 19
	MsgGameActionRequest      MessageID = 20
	MsgGameActionResponse     MessageID = 21
	MsgGameActionNotification MessageID = 22
	MsgGameStartNotification  MessageID = 23
	MsgGameEndNotification    MessageID = 24
)

// String returns the string representation of the message id.
func (id MessageID) String() string {
	switch id {
	case MsgAuthRequest:
		return "AuthRequest"
	case MsgAuthResponse:
		return "AuthResponse"
	case MsgGetRoomListRequest:
		return "GetRoomListRequest"
	case MsgGetRoomListResponse:
		return "GetRoomListResponse"
	case MsgCreateRoomRequest:
		return "CreateRoomRequest"
	case MsgCreateRoomResponse:
		return "CreateRoomResponse"
	case MsgJoinRoomRequest:
		return "JoinRoomRequest"
	case MsgJoinRoomResponse:
		return "JoinRoomResponse"
	case MsgLeaveRoomRequest:
		return "LeaveRoomRequest"
	case MsgLeaveRoomResponse:
		return "LeaveRoomResponse"
	case MsgRoomStateNotification:
		return "RoomStateNotification"
	case MsgGameStateNotification:
		return "GameStateNotification"
	case MsgGetReadyRequest:
		return "GetReadyRequest"
	case MsgGetReadyResponse:
		return "GetReadyResponse"
	case MsgGameActionRequest:
		return "GameActionRequest"
	case MsgGameActionResponse:
		return "GameActionResponse"
	case MsgGameActionNotification:
		return "GameActionNotification"
	case MsgGameStartNotification:
		return "GameStartNotification"
	case MsgGameEndNotification:
		return "GameEndNotification"
	default:
		return "Unknown"
	}
}
