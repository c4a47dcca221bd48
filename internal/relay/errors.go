package relay

import "errors"

var (
	// ErrUnresolvableOrigin means a staff reply targets a message with neither
	// a stored correlation entry nor forwarded-from provenance.
	ErrUnresolvableOrigin = errors.New("origin chat cannot be resolved")

	// ErrDeliveryFailure is wrapped by transports when the platform rejects a
	// forward or copy, for example because the recipient blocked the bot.
	ErrDeliveryFailure = errors.New("message delivery rejected")

	// ErrCallback wraps errors returned by membership callbacks.
	ErrCallback = errors.New("membership callback failed")
)
