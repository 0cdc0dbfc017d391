package protocol

// Wire types used by the protocol. Only varint and length-delimited
// fields appear on this connection.
const (
	WireVarint      = 0
	WireLengthDelim = 2
)

// MaxVarintLen bounds the byte length of a single varint. Ten bytes
// cover the full uint64 range.
const MaxVarintLen = 10

// EncodeUvarint writes v into buf as a varint, seven data bits per byte
// with the high bit marking continuation, and returns the byte count.
// The caller guarantees at least MaxVarintLen bytes of room.
func EncodeUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// DecodeUvarint reads a varint from the front of buf, returning the
// value and the number of bytes consumed. A negative count reports
// failure: -1 when buf ends with the continuation bit still set,
// -2 when the encoding runs past MaxVarintLen bytes.
func DecodeUvarint(buf []byte) (uint64, int) {
	var v uint64
	var shift uint

	for i, b := range buf {
		if i >= MaxVarintLen {
			return 0, -2
		}
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, -1
}

// UvarintLen reports how many bytes EncodeUvarint would use for v.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}

// Tag computes the varint value of a field tag: (fieldNumber << 3) | wireType.
func Tag(fieldNumber, wireType int) uint64 {
	return uint64(fieldNumber)<<3 | uint64(wireType)
}

// SplitTag splits a decoded tag value into field number and wire type.
func SplitTag(tag uint64) (fieldNumber, wireType int) {
	return int(tag >> 3), int(tag & 0x07)
}
