package realtime

import "errors"

var (
	// ErrSendBufferFull is returned by Send when a channel's outbound queue is full.
	ErrSendBufferFull = errors.New("send buffer full")

	// ErrChannelClosed is returned by Send after the channel has been closed.
	ErrChannelClosed = errors.New("channel closed")
)
