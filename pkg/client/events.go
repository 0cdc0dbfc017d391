package client

import "github.com/lexicard-dev/lexicard/pkg/protocol"

// EventType identifies what a subscriber Event describes.
type EventType int

const (
	// EventStateChanged fires on every lifecycle transition. State holds
	// the new state.
	EventStateChanged EventType = iota

	// EventAuthSucceeded carries the decoded AuthResponse in Auth.
	EventAuthSucceeded

	// EventAuthFailed carries the server's result code and, when present,
	// its error message. The session stays ConnectedUnauthenticated.
	EventAuthFailed

	// EventRoomList carries the lobby snapshot in Rooms.
	EventRoomList

	// EventRoomCreated and EventRoomJoined carry the room detail in
	// Detail. Both mark entry into StateInRoom.
	EventRoomCreated
	EventRoomJoined

	// EventRoomLeft carries the room summary (when the server echoes one)
	// in Room and marks the return to StateAuthenticated.
	EventRoomLeft

	// EventRoomState carries an unsolicited roster broadcast in Detail.
	EventRoomState

	// EventReadyResult acknowledges a ready-state change; Code is the
	// server result.
	EventReadyResult

	// EventGameStarted carries the opening roster in GameStart.
	EventGameStarted

	// EventGameState carries an authoritative game snapshot in GameState.
	EventGameState

	// EventActionResult acknowledges our own game action; Code is the
	// server result.
	EventActionResult

	// EventActionReplicated carries another player's action in Action.
	EventActionReplicated

	// EventGameEnded carries final standings in GameEnd.
	EventGameEnded

	// EventRequestRejected fires when any request comes back with a
	// non-zero result code that does not have a more specific event.
	EventRequestRejected

	// EventProtocolError fires when an inbound frame cannot be decoded.
	// The frame is dropped and the connection stays up; Err holds the
	// decode error.
	EventProtocolError

	// EventDisconnected fires when the connection tears down, whether by
	// request, read failure, or an oversized frame. Err holds the cause,
	// nil for a clean local Disconnect.
	EventDisconnected
)

func (et EventType) String() string {
	switch et {
	case EventStateChanged:
		return "StateChanged"
	case EventAuthSucceeded:
		return "AuthSucceeded"
	case EventAuthFailed:
		return "AuthFailed"
	case EventRoomList:
		return "RoomList"
	case EventRoomCreated:
		return "RoomCreated"
	case EventRoomJoined:
		return "RoomJoined"
	case EventRoomLeft:
		return "RoomLeft"
	case EventRoomState:
		return "RoomState"
	case EventReadyResult:
		return "ReadyResult"
	case EventGameStarted:
		return "GameStarted"
	case EventGameState:
		return "GameState"
	case EventActionResult:
		return "ActionResult"
	case EventActionReplicated:
		return "ActionReplicated"
	case EventGameEnded:
		return "GameEnded"
	case EventRequestRejected:
		return "RequestRejected"
	case EventProtocolError:
		return "ProtocolError"
	case EventDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// Event is one item delivered to subscribers. Only the fields relevant
// to Type are populated; everything else is the zero value.
type Event struct {
	Type  EventType
	State State
	Code  protocol.ErrorCode
	Err   error

	Auth      *protocol.AuthResponse
	Rooms     []protocol.Room
	Detail    *protocol.RoomDetail
	Room      *protocol.Room
	GameStart *protocol.GameStartNotification
	GameState *protocol.GameStateNotification
	Action    *protocol.GameAction
	GameEnd   *protocol.GameEndNotification
}
