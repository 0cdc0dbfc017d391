package protocol

// AuthRequest is the first message sent after the socket opens. The token
// comes from the preceding HTTP login handshake.
type AuthRequest struct {
	Token           string // 1
	ProtocolVersion string // 2
	ClientVersion   string // 3
	DeviceType      string // 4
	DeviceID        string // 5
	AppID           string // 6
	Nonce           string // 7
	Timestamp       int64  // 8, Unix milliseconds
	Signature       string // 9
	IsGuest         bool   // 10
}

// Encode serializes the request body.
func (m *AuthRequest) Encode() []byte {
	e := NewEncoder()
	e.WriteStringField(1, m.Token)
	e.WriteStringField(2, m.ProtocolVersion)
	e.WriteStringField(3, m.ClientVersion)
	e.WriteStringField(4, m.DeviceType)
	e.WriteStringField(5, m.DeviceID)
	e.WriteStringField(6, m.AppID)
	e.WriteStringField(7, m.Nonce)
	e.WriteIntField(8, uint64(m.Timestamp))
	e.WriteStringField(9, m.Signature)
	e.WriteBoolField(10, m.IsGuest)
	return e.Bytes()
}

// DecodeAuthRequest decodes an AuthRequest body.
func DecodeAuthRequest(data []byte) (*AuthRequest, error) {
	m := &AuthRequest{}
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
				m.Token = s
			}
		case 2:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.ProtocolVersion = s
			}
		case 3:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.ClientVersion = s
			}
		case 4:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.DeviceType = s
			}
		case 5:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.DeviceID = s
			}
		case 6:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.AppID = s
			}
		case 7:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.Nonce = s
			}
		case 8:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Timestamp = int64(v)
			}
		case 9:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.Signature = s
			}
		case 10:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.IsGuest = v != 0
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// AuthResponse is the server's answer to AuthRequest. Ret != 0 means the
// session stays unauthenticated.
type AuthResponse struct {
	Ret      ErrorCode // 1
	UID      uint64    // 2
	ConnID   string    // 3
	Nickname string    // 6
	Exp      int64     // 8
	Gold     int64     // 9
	Diamond  int64     // 10
	IsGuest  bool      // 11
	ErrorMsg string    // 12
}

// Encode serializes the response body.
func (m *AuthResponse) Encode() []byte {
	e := NewEncoder()
	e.WriteIntField(1, uint64(m.Ret))
	e.WriteIntField(2, m.UID)
	e.WriteStringField(3, m.ConnID)
	e.WriteStringField(6, m.Nickname)
	e.WriteIntField(8, uint64(m.Exp))
	e.WriteIntField(9, uint64(m.Gold))
	e.WriteIntField(10, uint64(m.Diamond))
	e.WriteBoolField(11, m.IsGuest)
	e.WriteStringField(12, m.ErrorMsg)
	return e.Bytes()
}

// DecodeAuthResponse decodes an AuthResponse body.
func DecodeAuthResponse(data []byte) (*AuthResponse, error) {
	m := &AuthResponse{}
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
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.UID = v
			}
		case 3:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.ConnID = s
			}
		case 6:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.Nickname = s
			}
		case 8:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Exp = int64(v)
			}
		case 9:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Gold = int64(v)
			}
		case 10:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Diamond = int64(v)
			}
		case 11:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.IsGuest = v != 0
			}
		case 12:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.ErrorMsg = s
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
