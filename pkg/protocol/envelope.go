package protocol

import "errors"

// Frame constants.
const (
	// FrameHeaderSize is the size of the length prefix in bytes.
	FrameHeaderSize = 4

	// DefaultMaxFrameSize is the defensive ceiling on a declared frame
	// length (1MB). The original stream has no bound; a corrupt length
	// header would otherwise look identical to a frame that never
	// finishes arriving.
	DefaultMaxFrameSize = 1 << 20
)

// Framing errors.
var ErrFrameTooLarge = errors.New("protocol: frame length exceeds limit")

// Envelope wraps every message exchanged on the connection.
//
// Wire format (protobuf fields, then a 4-byte little-endian length prefix
// when framed for the stream):
//
//	1: clientId  (string)  client-chosen opaque identifier
//	2: serial    (varint)  per-client counter, pre-incremented each send
//	3: messageId (varint)  MessageID discriminator for Body
//	4: body      (bytes)   serialized message body, omitted when empty
type Envelope struct {
	ClientID string
	Serial   uint64
	Type     MessageID
	Body     []byte
}

// Encode serializes the envelope fields. The serial and message id fields
// are always present, zero included; the body field is omitted when empty.
func (env *Envelope) Encode() []byte {
	e := NewEncoderWithCap(len(env.Body) + 32)
	e.WriteStringField(1, env.ClientID)
	e.WriteIntField(2, env.Serial)
	e.WriteIntField(3, uint64(env.Type))
	e.WriteBytesField(4, env.Body)
	return e.Bytes()
}

// DecodeEnvelope decodes an envelope from its serialized form (without the
// length prefix). Unknown fields are skipped.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	env := &Envelope{}
	d := NewDecoder(data)
	for !d.EOF() {
		field, wire, err := d.ReadTag()
		if err != nil {
			return nil, err
		}
		switch field {
		case 1:
			s, ok, err := d.fieldString(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				env.ClientID = s
			}
		case 2:
			v, ok, err := d.fieldUvarint(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				env.Serial = v
			}
		case 3:
			v, ok, err := d.fieldUvarint(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				env.Type = MessageID(v)
			}
		case 4:
			b, ok, err := d.fieldBytes(wire)
			if err != nil {
				return nil, err
			}
			if ok {
				env.Body = b
			}
		default:
			if err := d.SkipField(wire); err != nil {
				return nil, err
			}
		}
	}
	return env, nil
}

// EncodeFrame prepends the 4-byte little-endian length prefix to a
// serialized envelope, producing the unit written to the socket.
func EncodeFrame(envelope []byte) []byte {
	buf := make([]byte, FrameHeaderSize+len(envelope))
	putFrameLength(buf, len(envelope))
	copy(buf[FrameHeaderSize:], envelope)
	return buf
}

// PeekFrameLength reads the little-endian length prefix from the start of
// buf without consuming it. ok is false when buf holds fewer than
// FrameHeaderSize bytes.
func PeekFrameLength(buf []byte) (length int, ok bool) {
	if len(buf) < FrameHeaderSize {
		return 0, false
	}
	length = int(buf[0]) | int(buf[1])<<8 | int(buf[2])<<16 | int(buf[3])<<24
	return length, true
}

func putFrameLength(buf []byte, length int) {
	buf[0] = byte(length)
	buf[1] = byte(length >> 8)
	buf[2] = byte(length >> 16)
	buf[3] = byte(length >> 24)
}
