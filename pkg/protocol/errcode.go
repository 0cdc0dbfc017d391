package protocol

import "fmt"

// ErrorCode is the server-side result code carried in the `ret` field of
// every response. Non-zero codes are normal decoded values, not transport
// errors; they are surfaced to callers as (code, message) pairs.
type ErrorCode uint32

const (
	CodeOK                  ErrorCode = 0
	CodeInvalidParam        ErrorCode = 1
	CodeServerError         ErrorCode = 2
	CodeAuthFailed          ErrorCode = 3
	CodeNotFound            ErrorCode = 4
	CodeAlreadyExists       ErrorCode = 5
	CodeNotAllowed          ErrorCode = 6
	CodeNotSupported        ErrorCode = 7
	CodeTimeout             ErrorCode = 8
	CodeInvalidState        ErrorCode = 9
	CodeInvalidAction       ErrorCode = 10
	CodeInvalidCard         ErrorCode = 11
	CodeInvalidRoom         ErrorCode = 12
	CodeInvalidUser         ErrorCode = 13
	CodePlayerAlreadyInRoom ErrorCode = 14
	CodeNotYourTurn         ErrorCode = 15
	CodeInvalidOrder        ErrorCode = 16
)

// OK reports whether the code signals success.
func (ec ErrorCode) OK() bool {
	return ec == CodeOK
}

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case CodeOK:
		return "OK"
	case CodeInvalidParam:
		return "InvalidParam"
	case CodeServerError:
		return "ServerError"
	case CodeAuthFailed:
		return "AuthFailed"
	case CodeNotFound:
		return "NotFound"
	case CodeAlreadyExists:
		return "AlreadyExists"
	case CodeNotAllowed:
		return "NotAllowed"
	case CodeNotSupported:
		return "NotSupported"
	case CodeTimeout:
		return "Timeout"
	case CodeInvalidState:
		return "InvalidState"
	case CodeInvalidAction:
		return "InvalidAction"
	case CodeInvalidCard:
		return "InvalidCard"
	case CodeInvalidRoom:
		return "InvalidRoom"
	case CodeInvalidUser:
		return "InvalidUser"
	case CodePlayerAlreadyInRoom:
		return "PlayerAlreadyInRoom"
	case CodeNotYourTurn:
		return "NotYourTurn"
	case CodeInvalidOrder:
		return "InvalidOrder"
	default:
		return "Unknown"
	}
}

// Message returns the user-facing text for the code, suitable for a toast
// or notification.
func (ec ErrorCode) Message() string {
	switch ec {
	case CodeOK:
		return "OK"
	case CodeInvalidParam:
		return "Invalid parameter"
	case CodeServerError:
		return "Server error"
	case CodeAuthFailed:
		return "Authentication failed"
	case CodeNotFound:
		return "Not found"
	case CodeAlreadyExists:
		return "Already exists"
	case CodeNotAllowed:
		return "Operation not allowed"
	case CodeNotSupported:
		return "Operation not supported"
	case CodeTimeout:
		return "Request timed out"
	case CodeInvalidState:
		return "Invalid state"
	case CodeInvalidAction:
		return "Invalid action"
	case CodeInvalidCard:
		return "Invalid card"
	case CodeInvalidRoom:
		return "Invalid room"
	case CodeInvalidUser:
		return "Invalid user"
	case CodePlayerAlreadyInRoom:
		return "Player is already in a room"
	case CodeNotYourTurn:
		return "Not your turn"
	case CodeInvalidOrder:
		return "Invalid card order"
	default:
		return fmt.Sprintf("Unknown error (%d)", uint32(ec))
	}
}
