package realtime

// Channel is a player's outbound message channel.
// Send must not block; a channel that cannot accept a message reports an error.
type Channel interface {
	// ID uniquely identifies the channel for the lifetime of the process
	ID() string
	// Send queues an encoded message for delivery
	Send(data []byte) error
	// IsOpen reports whether the channel can still accept messages
	IsOpen() bool
	// Close shuts the channel down. Safe to call more than once.
	Close()
}
