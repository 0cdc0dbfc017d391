package client

// State is the connection lifecycle state of a Session.
type State int32

const (
	// StateDisconnected means no socket exists. Identity fields obtained
	// from a previous connection (uid, conn id) are cleared, but the login
	// token and last room id survive for reconnection.
	StateDisconnected State = iota

	// StateConnecting means the gateway dial is in flight.
	StateConnecting

	// StateConnectedUnauthenticated means the socket is open but the
	// server has not yet accepted our credentials. Only authentication
	// traffic is valid here.
	StateConnectedUnauthenticated

	// StateAuthenticated means the server accepted the auth request. Lobby
	// operations (room list, create, join) are valid.
	StateAuthenticated

	// StateInRoom means the session occupies a room seat.
	StateInRoom

	// StateInGame means a game is running in the current room.
	StateInGame
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateConnectedUnauthenticated:
		return "ConnectedUnauthenticated"
	case StateAuthenticated:
		return "Authenticated"
	case StateInRoom:
		return "InRoom"
	case StateInGame:
		return "InGame"
	default:
		return "Unknown"
	}
}

// canSend reports whether application traffic may be written in this
// state. Auth frames are exempt; they are sent from
// ConnectedUnauthenticated by the session itself.
func (s State) canSend() bool {
	switch s {
	case StateAuthenticated, StateInRoom, StateInGame:
		return true
	default:
		return false
	}
}
