package protocol

// ActionType enumerates the moves a player can make during their turn.
type ActionType uint32

const (
	ActionPlaceCard ActionType = 1
	ActionSkipTurn  ActionType = 2
	ActionAutoChat  ActionType = 3
	ActionSurrender ActionType = 4
	ActionCharMove  ActionType = 5
)

// String returns the string representation of the action type.
func (at ActionType) String() string {
	switch at {
	case ActionPlaceCard:
		return "PlaceCard"
	case ActionSkipTurn:
		return "SkipTurn"
	case ActionAutoChat:
		return "AutoChat"
	case ActionSurrender:
		return "Surrender"
	case ActionCharMove:
		return "CharMove"
	default:
		return "Unknown"
	}
}

// WordCard is a single playable card: a word plus its part of speech.
type WordCard struct {
	ID          uint64 // 1
	Word        string // 2
	WordClass   string // 3
	Description string // 4
}

// Encode serializes the card record.
func (m *WordCard) Encode() []byte {
	e := NewEncoder()
	e.WriteIntField(1, m.ID)
	e.WriteStringField(2, m.Word)
	e.WriteStringField(3, m.WordClass)
	e.WriteStringField(4, m.Description)
	return e.Bytes()
}

// DecodeWordCard decodes a WordCard record.
func DecodeWordCard(data []byte) (*WordCard, error) {
	m := &WordCard{}
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
				m.ID = v
			}
		case 2:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.Word = s
			}
		case 3:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.WordClass = s
			}
		case 4:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.Description = s
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// BattlePlayer is a player's in-game view: hand and score.
type BattlePlayer struct {
	ID           uint64     // 1
	Name         string     // 2
	Cards        []WordCard // 3, repeated
	CurrentScore int32      // 4
}

// Encode serializes the player record.
func (m *BattlePlayer) Encode() []byte {
	e := NewEncoder()
	e.WriteIntField(1, m.ID)
	e.WriteStringField(2, m.Name)
	for i := range m.Cards {
		e.WriteBytesField(3, m.Cards[i].Encode())
	}
	e.WriteIntField(4, uint64(m.CurrentScore))
	return e.Bytes()
}

// DecodeBattlePlayer decodes a BattlePlayer record.
func DecodeBattlePlayer(data []byte) (*BattlePlayer, error) {
	m := &BattlePlayer{}
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
				m.ID = v
			}
		case 2:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.Name = s
			}
		case 3:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				card, err := DecodeWordCard(b)
				if err != nil {
					return nil, err
				}
				m.Cards = append(m.Cards, *card)
			}
		case 4:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.CurrentScore = int32(v)
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// CardTable is the shared table: the cards played so far and the sentence
// they currently form.
type CardTable struct {
	Cards    []WordCard // 1, repeated
	Sentence string     // 2
}

// Encode serializes the table record.
func (m *CardTable) Encode() []byte {
	e := NewEncoder()
	for i := range m.Cards {
		e.WriteBytesField(1, m.Cards[i].Encode())
	}
	e.WriteStringField(2, m.Sentence)
	return e.Bytes()
}

// DecodeCardTable decodes a CardTable record.
func DecodeCardTable(data []byte) (*CardTable, error) {
	m := &CardTable{}
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
				card, err := DecodeWordCard(b)
				if err != nil {
					return nil, err
				}
				m.Cards = append(m.Cards, *card)
			}
		case 2:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.Sentence = s
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// GameState is a full snapshot of the running game. Each notification
// replaces the previous snapshot wholesale; nothing is patched
// incrementally.
type GameState struct {
	Players     []BattlePlayer // 1, repeated
	Table       *CardTable     // 2
	CurrentTurn int32          // 3
}

// Encode serializes the snapshot.
func (m *GameState) Encode() []byte {
	e := NewEncoder()
	for i := range m.Players {
		e.WriteBytesField(1, m.Players[i].Encode())
	}
	if m.Table != nil {
		e.WriteBytesField(2, m.Table.Encode())
	}
	e.WriteIntField(3, uint64(m.CurrentTurn))
	return e.Bytes()
}

// DecodeGameState decodes a GameState snapshot.
func DecodeGameState(data []byte) (*GameState, error) {
	m := &GameState{}
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
				p, err := DecodeBattlePlayer(b)
				if err != nil {
					return nil, err
				}
				m.Players = append(m.Players, *p)
			}
		case 2:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				table, err := DecodeCardTable(b)
				if err != nil {
					return nil, err
				}
				m.Table = table
			}
		case 3:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.CurrentTurn = int32(v)
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// GameStateNotification delivers a fresh GameState snapshot for a room.
// Note the field numbering starts at 2; field 1 is unused on the wire.
type GameStateNotification struct {
	RoomID string     // 2
	State  *GameState // 3
}

// Encode serializes the notification body.
func (m *GameStateNotification) Encode() []byte {
	e := NewEncoder()
	e.WriteStringField(2, m.RoomID)
	if m.State != nil {
		e.WriteBytesField(3, m.State.Encode())
	}
	return e.Bytes()
}

// DecodeGameStateNotification decodes a GameStateNotification body.
func DecodeGameStateNotification(data []byte) (*GameStateNotification, error) {
	m := &GameStateNotification{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 2:
			if s, ok, err := d.fieldString(wire); err != nil {
				return nil, err
			} else if ok {
				m.RoomID = s
			}
		case 3:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				state, err := DecodeGameState(b)
				if err != nil {
					return nil, err
				}
				m.State = state
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// PlaceCardAction places a card from the hand onto a table slot.
type PlaceCardAction struct {
	CardID      uint64 // 1
	TargetIndex int32  // 2
}

// Encode serializes the action detail.
func (m *PlaceCardAction) Encode() []byte {
	e := NewEncoder()
	e.WriteIntField(1, m.CardID)
	e.WriteIntField(2, uint64(m.TargetIndex))
	return e.Bytes()
}

// DecodePlaceCardAction decodes a PlaceCardAction record.
func DecodePlaceCardAction(data []byte) (*PlaceCardAction, error) {
	m := &PlaceCardAction{}
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
				m.CardID = v
			}
		case 2:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.TargetIndex = int32(v)
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// GameAction is one player move. PlaceCard is only set when Type is
// ActionPlaceCard.
type GameAction struct {
	PlayerID  uint64           // 1
	Type      ActionType       // 2
	Timestamp int64            // 3, Unix milliseconds
	PlaceCard *PlaceCardAction // 4
}

// Encode serializes the action record.
func (m *GameAction) Encode() []byte {
	e := NewEncoder()
	e.WriteIntField(1, m.PlayerID)
	e.WriteIntField(2, uint64(m.Type))
	e.WriteIntField(3, uint64(m.Timestamp))
	if m.PlaceCard != nil {
		e.WriteBytesField(4, m.PlaceCard.Encode())
	}
	return e.Bytes()
}

// DecodeGameAction decodes a GameAction record.
func DecodeGameAction(data []byte) (*GameAction, error) {
	m := &GameAction{}
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
				m.PlayerID = v
			}
		case 2:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Type = ActionType(v)
			}
		case 3:
			if v, ok, err := d.fieldUvarint(wire); err != nil {
				return nil, err
			} else if ok {
				m.Timestamp = int64(v)
			}
		case 4:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				pc, err := DecodePlaceCardAction(b)
				if err != nil {
					return nil, err
				}
				m.PlaceCard = pc
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// GameActionRequest submits a move to the server.
type GameActionRequest struct {
	Action *GameAction // 1
}

// Encode serializes the request body.
func (m *GameActionRequest) Encode() []byte {
	e := NewEncoder()
	if m.Action != nil {
		e.WriteBytesField(1, m.Action.Encode())
	}
	return e.Bytes()
}

// DecodeGameActionRequest decodes a GameActionRequest body.
func DecodeGameActionRequest(data []byte) (*GameActionRequest, error) {
	m := &GameActionRequest{}
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
				action, err := DecodeGameAction(b)
				if err != nil {
					return nil, err
				}
				m.Action = action
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// GameActionResponse acknowledges a submitted move. A zero-length body is
// success; the server omits ret=0 per default-value omission.
type GameActionResponse struct {
	Ret ErrorCode // 1
}

// Encode serializes the response body.
func (m *GameActionResponse) Encode() []byte {
	if m.Ret == CodeOK {
		return nil
	}
	e := NewEncoder()
	e.WriteIntField(1, uint64(m.Ret))
	return e.Bytes()
}

// DecodeGameActionResponse decodes a GameActionResponse body. A
// zero-length body yields ret=0.
func DecodeGameActionResponse(data []byte) (*GameActionResponse, error) {
	m := &GameActionResponse{}
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

// GameEndNotification announces the end of a game with final scores.
type GameEndNotification struct {
	RoomID  string         // 1
	Players []BattlePlayer // 2, repeated
}

// Encode serializes the notification body.
func (m *GameEndNotification) Encode() []byte {
	e := NewEncoder()
	e.WriteStringField(1, m.RoomID)
	for i := range m.Players {
		e.WriteBytesField(2, m.Players[i].Encode())
	}
	return e.Bytes()
}

// DecodeGameEndNotification decodes a GameEndNotification body.
func DecodeGameEndNotification(data []byte) (*GameEndNotification, error) {
	m := &GameEndNotification{}
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
				p, err := DecodeBattlePlayer(b)
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
