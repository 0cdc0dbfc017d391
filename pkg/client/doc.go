// Package client implements the game-facing network session: the HTTP
// login bootstrap, the persistent gateway connection, and the typed
// request/notification surface built on top of pkg/protocol.
//
// A Session owns one connection at a time and moves through a fixed set
// of states (Disconnected, Connecting, ConnectedUnauthenticated,
// Authenticated, InRoom, InGame). All reads happen on a single goroutine
// spawned by Connect; writes are serialized by the session mutex, so any
// goroutine may issue requests. Server traffic is surfaced as Events on
// subscriber channels that never block the read loop.
package client
