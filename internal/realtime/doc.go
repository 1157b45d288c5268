// Package realtime fans entity changes out to connected clients over WebSocket.
//
// A Registry tracks which channels each user holds and which rooms each channel
// has joined. The Server authenticates the handshake, upgrades the connection and
// feeds inbound frames to a Dispatcher one at a time. Project rooms are gated by a
// MembershipOracle that is consulted on every join and every relayed entity event.
// The Notifier bridges committed writes from the service layer into the Registry.
package realtime
