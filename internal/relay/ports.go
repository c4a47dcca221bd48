package relay

import "context"

// Transport performs chat operations on behalf of the relay. Forward and Copy
// must wrap ErrDeliveryFailure when the platform rejects the message; any
// other error is treated as an I/O failure and returned to the caller.
type Transport interface {
	// Forward forwards msg into chatID and returns the id of the new message.
	Forward(ctx context.Context, msg Message, chatID int64) (int, error)
	// Copy sends a copy of msg to chatID without forward attribution.
	Copy(ctx context.Context, msg Message, chatID int64) error
	// ReplyText answers msg in its own chat.
	ReplyText(ctx context.Context, msg Message, text string) error
}

// CorrelationStore maps correlation keys to origin chat ids. Implementations
// must be safe for concurrent use and atomic per key.
type CorrelationStore interface {
	Get(ctx context.Context, key string) (chatID int64, ok bool, err error)
	Set(ctx context.Context, key string, chatID int64) error
}
