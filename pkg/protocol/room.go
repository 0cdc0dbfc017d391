package protocol

// Room is a room summary as listed in the lobby.
type Room struct {
	ID             string // 1
	Name           string // 2
	MaxPlayers     int32  // 3
	CurrentPlayers int32  // 4
}

// Encode serializes the room record.
func (m *Room) Encode() []byte {
	e := NewEncoder()
	e.WriteStringField(1, m.ID)
	e.WriteStringField(2, m.Name)
	e.WriteIntField(3, uint64(m.MaxPlayers))
	e.WriteIntField(4, uint64(m.CurrentPlayers))
	return e.Bytes()
}

// DecodeRoom decodes a Room record.
func DecodeRoom(data []byte) (*Room, error) {
	m := &Room{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.ID = s
			}
		case 2:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.Name = s
			}
		case 3:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.MaxPlayers = int32(v)
			}
		case 4:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.CurrentPlayers = int32(v)
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// RoomPlayer is one seat in a room roster.
type RoomPlayer struct {
	UID      uint64 // 1
	Nickname string // 2
	PosX     int32  // 3
	PosY     int32  // 4
	IsReady  bool   // 5
}

// Encode serializes the player record.
func (m *RoomPlayer) Encode() []byte {
	e := NewEncoder()
	e.WriteIntField(1, m.UID)
	e.WriteStringField(2, m.Nickname)
	e.WriteIntField(3, uint64(m.PosX))
	e.WriteIntField(4, uint64(m.PosY))
	e.WriteBoolField(5, m.IsReady)
	return e.Bytes()
}

// DecodeRoomPlayer decodes a RoomPlayer record.
func DecodeRoomPlayer(data []byte) (*RoomPlayer, error) {
	m := &RoomPlayer{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.UID = v
			}
		case 2:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.Nickname = s
			}
		case 3:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.PosX = int32(v)
			}
		case 4:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.PosY = int32(v)
			}
		case 5:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.IsReady = v != 0
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// RoomDetail pairs a room with its current roster. It appears nested in
// create/join responses and as the whole body of RoomStateNotification.
type RoomDetail struct {
	Room    *Room        // 1
	Players []RoomPlayer // 2, repeated
}

// Encode serializes the detail record.
func (m *RoomDetail) Encode() []byte {
	e := NewEncoder()
	if m.Room != nil {
		e.WriteBytesField(1, m.Room.Encode())
	}
	for i := range m.Players {
		e.WriteBytesField(2, m.Players[i].Encode())
	}
	return e.Bytes()
}

// DecodeRoomDetail decodes a RoomDetail record.
func DecodeRoomDetail(data []byte) (*RoomDetail, error) {
	m := &RoomDetail{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				room, err := DecodeRoom(b)
				if err != nil {
					return nil, err
				}
				m.Room = room
			}
		case 2:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				p, err := DecodeRoomPlayer(b)
				if err != nil {
					return nil, err
				}
				m.Players = append(m.Players, *p)
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// CreateRoomRequest asks the server to open a new room.
type CreateRoomRequest struct {
	RoomName string // 1
}

// Encode serializes the request body.
func (m *CreateRoomRequest) Encode() []byte {
	e := NewEncoder()
	e.WriteStringField(1, m.RoomName)
	return e.Bytes()
}

// DecodeCreateRoomRequest decodes a CreateRoomRequest body.
func DecodeCreateRoomRequest(data []byte) (*CreateRoomRequest, error) {
	m := &CreateRoomRequest{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.RoomName = s
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// JoinRoomRequest asks to join an existing room by id.
type JoinRoomRequest struct {
	RoomID string // 1
}

// Encode serializes the request body.
func (m *JoinRoomRequest) Encode() []byte {
	e := NewEncoder()
	e.WriteStringField(1, m.RoomID)
	return e.Bytes()
}

// DecodeJoinRoomRequest decodes a JoinRoomRequest body.
func DecodeJoinRoomRequest(data []byte) (*JoinRoomRequest, error) {
	m := &JoinRoomRequest{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.RoomID = s
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// LeaveRoomRequest asks to leave the current room. The player id travels
// as its decimal string form.
type LeaveRoomRequest struct {
	PlayerID string // 1
}

// Encode serializes the request body.
func (m *LeaveRoomRequest) Encode() []byte {
	e := NewEncoder()
	e.WriteStringField(1, m.PlayerID)
	return e.Bytes()
}

// DecodeLeaveRoomRequest decodes a LeaveRoomRequest body.
func DecodeLeaveRoomRequest(data []byte) (*LeaveRoomRequest, error) {
	m := &LeaveRoomRequest{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.PlayerID = s
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// GetReadyRequest sets the player's ready flag to an explicit target
// state. The request is idempotent; the server broadcasts the resulting
// roster via RoomStateNotification.
type GetReadyRequest struct {
	PlayerID string // 1
	IsReady  bool   // 2
}

// Encode serializes the request body.
func (m *GetReadyRequest) Encode() []byte {
	e := NewEncoder()
	e.WriteStringField(1, m.PlayerID)
	e.WriteBoolField(2, m.IsReady)
	return e.Bytes()
}

// DecodeGetReadyRequest decodes a GetReadyRequest body.
func DecodeGetReadyRequest(data []byte) (*GetReadyRequest, error) {
	m := &GetReadyRequest{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.PlayerID = s
			}
		case 2:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.IsReady = v != 0
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// RoomResponse is the shared shape of CreateRoomResponse and
// JoinRoomResponse: a result code plus the room detail on success.
type RoomResponse struct {
	Ret    ErrorCode   // 1
	Detail *RoomDetail // 2
}

// Encode serializes the response body.
func (m *RoomResponse) Encode() []byte {
	e := NewEncoder()
	e.WriteIntField(1, uint64(m.Ret))
	if m.Detail != nil {
		e.WriteBytesField(2, m.Detail.Encode())
	}
	return e.Bytes()
}

// DecodeRoomResponse decodes a CreateRoomResponse or JoinRoomResponse
// body. A zero-length body is a valid encoding of success.
func DecodeRoomResponse(data []byte) (*RoomResponse, error) {
	m := &RoomResponse{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Ret = ErrorCode(v)
			}
		case 2:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				detail, err := DecodeRoomDetail(b)
				if err != nil {
					return nil, err
				}
				m.Detail = detail
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// LeaveRoomResponse acknowledges a leave. A zero-length body means
// success.
type LeaveRoomResponse struct {
	Ret  ErrorCode // 1
	Room *Room     // 2
}

// Encode serializes the response body.
func (m *LeaveRoomResponse) Encode() []byte {
	e := NewEncoder()
	e.WriteIntField(1, uint64(m.Ret))
	if m.Room != nil {
		e.WriteBytesField(2, m.Room.Encode())
	}
	return e.Bytes()
}

// DecodeLeaveRoomResponse decodes a LeaveRoomResponse body.
func DecodeLeaveRoomResponse(data []byte) (*LeaveRoomResponse, error) {
	m := &LeaveRoomResponse{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Ret = ErrorCode(v)
			}
		case 2:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				room, err := DecodeRoom(b)
				if err != nil {
					return nil, err
				}
				m.Room = room
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// GetReadyResponse carries only the result code. When the ready change
// succeeds the server encodes ret=0, which default-omission turns into a
// zero-length body; decoders must treat that as success, not as malformed.
type GetReadyResponse struct {
	Ret ErrorCode // 1
}

// Encode serializes the response body. Success (ret=0) encodes to zero
// bytes under the always-emit rule exception: ret is the one integer
// field the server encodes protobuf-conventionally.
func (m *GetReadyResponse) Encode() []byte {
	if m.Ret == CodeOK {
		return nil
	}
	e := NewEncoder()
	e.WriteIntField(1, uint64(m.Ret))
	return e.Bytes()
}

// DecodeGetReadyResponse decodes a GetReadyResponse body. A zero-length
// body yields ret=0.
func DecodeGetReadyResponse(data []byte) (*GetReadyResponse, error) {
	m := &GetReadyResponse{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Ret = ErrorCode(v)
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// GetRoomListResponse returns the lobby's room list.
type GetRoomListResponse struct {
	Ret   ErrorCode // 1
	Rooms []Room    // 2, repeated
}

// Encode serializes the response body.
func (m *GetRoomListResponse) Encode() []byte {
	e := NewEncoder()
	e.WriteIntField(1, uint64(m.Ret))
	for i := range m.Rooms {
		e.WriteBytesField(2, m.Rooms[i].Encode())
	}
	return e.Bytes()
}

// DecodeGetRoomListResponse decodes a GetRoomListResponse body.
func DecodeGetRoomListResponse(data []byte) (*GetRoomListResponse, error) {
	m := &GetRoomListResponse{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Ret = ErrorCode(v)
			}
		case 2:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				room, err := DecodeRoom(b)
				if err != nil {
					return nil, err
				}
				m.Rooms = append(m.Rooms, *room)
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// GameStartNotification announces the transition from room to game.
type GameStartNotification struct {
	RoomID  string       // 1
	Players []RoomPlayer // 2, repeated
}

// Encode serializes the notification body.
func (m *GameStartNotification) Encode() []byte {
	e := NewEncoder()
	e.WriteStringField(1, m.RoomID)
	for i := range m.Players {
		e.WriteBytesField(2, m.Players[i].Encode())
	}
	return e.Bytes()
}

// DecodeGameStartNotification decodes a GameStartNotification body.
func DecodeGameStartNotification(data []byte) (*GameStartNotification, error) {
	m := &GameStartNotification{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.RoomID = s
			}
		case 2:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				p, err := DecodeRoomPlayer(b)
				if err != nil {
					return nil, err
				}
				m.Players = append(m.Players, *p)
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
