package protocol

// Encoder builds a message body by appending tagged fields to a
// growable buffer.
//
// Field-writing methods follow the protocol's omission rules: string,
// bool, and bytes fields holding their zero value emit nothing, while
// integer fields are always emitted, zero included. The server depends on
// that asymmetry for wire compatibility.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder backed by a small preallocated buffer.
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0, 256),
	}
}

// NewEncoderWithCap returns an encoder whose buffer starts at the given
// capacity, for callers that know the body size up front.
func NewEncoderWithCap(cap int) *Encoder {
	return &Encoder{
		buf: make([]byte, 0, cap),
	}
}

// Reset empties the encoder while keeping the buffer for reuse.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes exposes the encoded contents. The slice aliases the internal
// buffer and is invalidated by the next Reset or write.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len reports the encoded size in bytes.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// WriteByte appends one byte. It deliberately lacks the error return of
// io.ByteWriter; appending to a growable buffer cannot fail.
func (e *Encoder) WriteByte(b byte) {
	e.buf = append(e.buf, b)
}

// WriteBytes appends b verbatim.
func (e *Encoder) WriteBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

// WriteUvarint appends v in varint form.
func (e *Encoder) WriteUvarint(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

// WriteTag appends a field tag: (fieldNumber << 3) | wireType.
func (e *Encoder) WriteTag(fieldNumber, wireType int) {
	e.WriteUvarint(Tag(fieldNumber, wireType))
}

// WriteStringField appends a length-delimited UTF-8 string field.
// An empty string emits nothing (default-value omission).
func (e *Encoder) WriteStringField(fieldNumber int, s string) {
	if s == "" {
		return
	}
	e.WriteTag(fieldNumber, WireLengthDelim)
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteIntField appends a varint field. The field is always emitted,
// even when v is zero.
func (e *Encoder) WriteIntField(fieldNumber int, v uint64) {
	e.WriteTag(fieldNumber, WireVarint)
	e.WriteUvarint(v)
}

// WriteBoolField appends a boolean varint field. False emits nothing
// (default-value omission); true emits a single 0x01 payload byte.
func (e *Encoder) WriteBoolField(fieldNumber int, v bool) {
	if !v {
		return
	}
	e.WriteTag(fieldNumber, WireVarint)
	e.buf = append(e.buf, 0x01)
}

// WriteBytesField appends a length-delimited bytes field, used for nested
// messages whose own serialization is passed as b. An empty slice emits
// nothing.
func (e *Encoder) WriteBytesField(fieldNumber int, b []byte) {
	if len(b) == 0 {
		return
	}
	e.WriteTag(fieldNumber, WireLengthDelim)
	e.WriteUvarint(uint64(len(b)))
	e.buf = append(e.buf, b...)
}
