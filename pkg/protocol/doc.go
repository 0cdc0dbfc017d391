// Package protocol implements the binary wire protocol spoken between the
// lexicard client and the game gateway.
//
// The encoding is a restricted protobuf-compatible scheme: every field is a
// (tag, payload) pair where tag = (fieldNumber << 3) | wireType. Only two
// wire types exist on this connection:
//
//	0 — varint (integers, booleans, enums)
//	2 — length-delimited (UTF-8 strings, nested messages)
//
// Scalar fields follow protobuf default-value omission with one deliberate
// exception: integer fields are always encoded, even when zero. The server
// relies on this asymmetry; do not normalize it.
//
// Every message travels inside an Envelope (client id, serial number,
// message id, body), and every envelope is framed on the stream with a
// 4-byte little-endian length prefix. The Reassembler turns arbitrary
// chunks read from the transport back into complete envelopes.
//
// Layers, bottom up:
//
//	varint.go      — varint and tag primitives
//	encoder.go     — append-only field writer
//	decoder.go     — field scanner with unknown-field skipping
//	auth.go        — authentication request/response bodies
//	room.go        — room lifecycle bodies and notifications
//	game.go        — in-game actions, state snapshots, notifications
//	envelope.go    — envelope codec and length-prefix framing
//	reassembler.go — stream-to-frame reassembly buffer
package protocol
