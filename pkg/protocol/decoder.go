package protocol

import (
	"errors"
	"io"
)

// DefaultMaxAllocation is the maximum size accepted for a single
// length-delimited payload (4MB). A declared length beyond this is treated
// as stream corruption rather than a legitimate message.
const DefaultMaxAllocation = 4 * 1024 * 1024

// Common decoding errors.
var (
	ErrMalformedVarint    = errors.New("protocol: malformed varint")
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrUnknownWireType    = errors.New("protocol: unknown wire type")
)

// Decoder is a field scanner over a serialized message body. Callers loop
// over ReadTag until EOF, dispatch on the field number, and skip fields
// they do not recognize. Unknown field numbers must be skipped, not
// rejected; forward compatibility with newer servers depends on it.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a new decoder over the given byte slice.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF returns true if all bytes have been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

// ReadUvarint reads an unsigned varint.
// Returns ErrMalformedVarint if the buffer ends before a terminating byte.
func (d *Decoder) ReadUvarint() (uint64, error) {
	var v uint64
	var shift uint

	for {
		if d.pos >= len(d.buf) {
			return 0, ErrMalformedVarint
		}
		b := d.buf[d.pos]
		d.pos++
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrVarintOverflow
		}
	}
}

// ReadTag reads a field tag and splits it into field number and wire type.
func (d *Decoder) ReadTag() (fieldNumber, wireType int, err error) {
	tag, err := d.ReadUvarint()
	if err != nil {
		return 0, 0, err
	}
	fieldNumber, wireType = SplitTag(tag)
	return fieldNumber, wireType, nil
}

// ReadString reads a length-prefixed UTF-8 string.
// Returns ErrAllocationTooLarge if the declared length exceeds
// DefaultMaxAllocation.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > DefaultMaxAllocation {
		return "", ErrAllocationTooLarge
	}
	if length > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	n := int(length)
	s := string(d.buf[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

// ReadLenBytes reads a length-prefixed byte payload.
// Returns a copy of the bytes (safe to retain).
func (d *Decoder) ReadLenBytes() ([]byte, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if length > DefaultMaxAllocation {
		return nil, ErrAllocationTooLarge
	}
	if length > uint64(d.Remaining()) {
		return nil, io.ErrUnexpectedEOF
	}
	n := int(length)
	b := make([]byte, n)
	copy(b, d.buf[d.pos:d.pos+n])
	d.pos += n
	return b, nil
}

// SkipField discards the payload of a field with the given wire type.
// Used for unknown field numbers and wire-type mismatches.
func (d *Decoder) SkipField(wireType int) error {
	switch wireType {
	case WireVarint:
		_, err := d.ReadUvarint()
		return err
	case WireLengthDelim:
		length, err := d.ReadUvarint()
		if err != nil {
			return err
		}
		if length > uint64(d.Remaining()) {
			return io.ErrUnexpectedEOF
		}
		d.pos += int(length)
		return nil
	default:
		return ErrUnknownWireType
	}
}

// fieldUvarint returns a field's varint payload, or skips the field when
// the wire type does not match. ok reports whether a value was read.
func (d *Decoder) fieldUvarint(wireType int) (v uint64, ok bool, err error) {
	if wireType != WireVarint {
		return 0, false, d.SkipField(wireType)
	}
	v, err = d.ReadUvarint()
	return v, err == nil, err
}

// fieldString returns a field's string payload, or skips the field when
// the wire type does not match.
func (d *Decoder) fieldString(wireType int) (s string, ok bool, err error) {
	if wireType != WireLengthDelim {
		return "", false, d.SkipField(wireType)
	}
	s, err = d.ReadString()
	return s, err == nil, err
}

// fieldBytes returns a field's length-delimited payload, or skips the
// field when the wire type does not match.
func (d *Decoder) fieldBytes(wireType int) (b []byte, ok bool, err error) {
	if wireType != WireLengthDelim {
		return nil, false, d.SkipField(wireType)
	}
	b, err = d.ReadLenBytes()
	return b, err == nil, err
}
