package protocol

// Reassembler accumulates bytes delivered by the transport in arbitrary
// chunks and yields complete envelope payloads as they become available.
// It is owned by a single session and mutated only from that session's
// read loop; it needs no locking.
type Reassembler struct {
	buf      []byte
	maxFrame int
}

// NewReassembler creates a reassembler enforcing the given maximum frame
// size. A maxFrame of 0 applies DefaultMaxFrameSize.
func NewReassembler(maxFrame int) *Reassembler {
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameSize
	}
	return &Reassembler{maxFrame: maxFrame}
}

// Append concatenates a received chunk onto the buffer tail.
func (r *Reassembler) Append(chunk []byte) {
	r.buf = append(r.buf, chunk...)
}

// Next extracts the next complete envelope payload from the buffer, or
// returns (nil, nil) when the buffer does not yet hold a complete frame —
// a partial frame is not an error, it just needs more data. The returned
// slice is a copy and safe to retain.
//
// A length header larger than the configured maximum cannot be told apart
// from data that never arrives, so it fails fast with ErrFrameTooLarge;
// the caller should tear the connection down.
func (r *Reassembler) Next() ([]byte, error) {
	length, ok := PeekFrameLength(r.buf)
	if !ok {
		return nil, nil
	}
	if length < 0 || length > r.maxFrame {
		return nil, ErrFrameTooLarge
	}
	if len(r.buf) < FrameHeaderSize+length {
		return nil, nil
	}

	payload := make([]byte, length)
	copy(payload, r.buf[FrameHeaderSize:FrameHeaderSize+length])

	// Shift the remainder to the front, keeping the allocation.
	n := copy(r.buf, r.buf[FrameHeaderSize+length:])
	r.buf = r.buf[:n]

	return payload, nil
}

// Buffered returns the number of bytes currently held, complete frames
// and trailing partial data included.
func (r *Reassembler) Buffered() int {
	return len(r.buf)
}

// Reset discards all buffered data. Called on disconnect; leftover bytes
// from a dead connection must never leak into the next one.
func (r *Reassembler) Reset() {
	r.buf = r.buf[:0]
}
